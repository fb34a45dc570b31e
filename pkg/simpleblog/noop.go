package simpleblog

import "context"

// noopRenderCache ignores invalidations. Used when no render cache is
// configured.
type noopRenderCache struct{}

// NewNoopRenderCache creates a render cache that does nothing.
func NewNoopRenderCache() RenderCache {
	return noopRenderCache{}
}

func (noopRenderCache) Invalidate(ctx context.Context, keys ...string) error { return nil }

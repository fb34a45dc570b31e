package simpleblog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "tags stripped",
			fragment: "<p>Hello <b>world</b></p>",
			want:     "Hello world",
		},
		{
			name:     "whitespace collapsed",
			fragment: "<p>  one \n two  </p>",
			want:     "one two",
		},
		{
			name:     "plain text passes through",
			fragment: "no markup here",
			want:     "no markup here",
		},
		{
			name:     "unclosed tag keeps recovered text",
			fragment: "<p>unclosed",
			want:     "unclosed",
		},
		{
			name:     "empty fragment",
			fragment: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromHTML(tt.fragment))
		})
	}
}

func TestHasRenderedText(t *testing.T) {
	assert.True(t, hasRenderedText("<p>content</p>"))
	assert.True(t, hasRenderedText("bare text"))

	assert.False(t, hasRenderedText(""))
	assert.False(t, hasRenderedText("   "))
	assert.False(t, hasRenderedText("<p>   </p>"))
	assert.False(t, hasRenderedText("<div><img src=\"x.png\"></div>"))
}

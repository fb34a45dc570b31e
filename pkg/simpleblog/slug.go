package simpleblog

import (
	"strings"
	"unicode"
)

// Slugify maps a human title or name to a URL-safe identifier: lowercase,
// Latin diacritics transliterated to ASCII, runs of anything else collapsed
// to a single hyphen, leading/trailing hyphens trimmed.
//
// Deterministic and total; empty input yields an empty slug, which callers
// reject as invalid before use. Slugify is re-invoked on every title/name
// update, so slugs are not stable across renames.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		r = asciiFold(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}

// asciiFold strips diacritics from common Latin letters. Characters with no
// ASCII equivalent are returned unchanged and dropped by the caller.
func asciiFold(r rune) rune {
	if r < 128 {
		return r
	}
	if !unicode.Is(unicode.Latin, r) {
		return r
	}
	switch {
	case r >= 'à' && r <= 'å': // à á â ã ä å
		return 'a'
	case r >= 'è' && r <= 'ë': // è é ê ë
		return 'e'
	case r >= 'ì' && r <= 'ï': // ì í î ï
		return 'i'
	case r >= 'ò' && r <= 'ö', r == 'ø': // ò ó ô õ ö ø
		return 'o'
	case r >= 'ù' && r <= 'ü': // ù ú û ü
		return 'u'
	case r == 'ç': // ç
		return 'c'
	case r == 'ñ': // ñ
		return 'n'
	case r == 'ý', r == 'ÿ': // ý ÿ
		return 'y'
	case r == 'ß': // ß
		return 's'
	case r == 'œ': // œ
		return 'o'
	case r == 'æ': // æ
		return 'a'
	}
	return r
}

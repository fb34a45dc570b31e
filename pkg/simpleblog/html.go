package simpleblog

import (
	"strings"

	"golang.org/x/net/html"
)

// textFromHTML extracts the text content of an HTML fragment, dropping tags
// and collapsing whitespace. Used to decide whether a rich-text description
// actually says anything ("<p> </p>" does not).
func textFromHTML(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF ends the fragment; treat malformed input the same
			// way, keeping whatever text was recovered.
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// hasRenderedText reports whether an HTML fragment contains any
// non-whitespace text after tag stripping.
func hasRenderedText(fragment string) bool {
	return textFromHTML(fragment) != ""
}

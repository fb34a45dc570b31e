package simpleblog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple title",
			input: "My First Trip",
			want:  "my-first-trip",
		},
		{
			name:  "punctuation collapses to single hyphen",
			input: "Hello, World!!!",
			want:  "hello-world",
		},
		{
			name:  "leading and trailing separators trimmed",
			input: "  --Breaking News--  ",
			want:  "breaking-news",
		},
		{
			name:  "digits survive",
			input: "Go 1.22 release notes",
			want:  "go-1-22-release-notes",
		},
		{
			name:  "latin diacritics fold to ascii",
			input: "Càfé crème à gogo",
			want:  "cafe-creme-a-gogo",
		},
		{
			name:  "eszett and ligatures",
			input: "Straße & Œuvre",
			want:  "strase-ouvre",
		},
		{
			name:  "mixed case",
			input: "CamelCase TITLE",
			want:  "camelcase-title",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "symbols only",
			input: "!!! --- ???",
			want:  "",
		},
		{
			name:  "non-latin characters dropped",
			input: "日本語 post",
			want:  "post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, simpleblog.Slugify(tt.input))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	inputs := []string{"My First Trip", "Càfé crème", "Hello, World!!!"}
	for _, input := range inputs {
		first := simpleblog.Slugify(input)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, simpleblog.Slugify(input))
		}
	}
}

func TestSlugifyIdempotentOnOwnOutput(t *testing.T) {
	slug := simpleblog.Slugify("Ça va très bien!")
	assert.Equal(t, slug, simpleblog.Slugify(slug))
}

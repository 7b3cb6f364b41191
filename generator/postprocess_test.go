package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderDetectionAndReplacement(t *testing.T) {
	in := "Here is an example:\n\nCODEBLOCK_7\n\nAnd that explains it."

	assert.True(t, HasPlaceholders(in))

	out := ReplacePlaceholders(in)
	assert.NotContains(t, out, "CODEBLOCK_7")
	assert.Contains(t, out, "```text")
	assert.False(t, HasPlaceholders(out))
}

func TestHasPlaceholdersNegative(t *testing.T) {
	assert.False(t, HasPlaceholders("a normal article about CODEBLOCKS in general"))
}

func TestLooksTruncated(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"The article ends cleanly. Done.", false},
		{"and then we move on to the next", true}, // short dangling line
		{"some text\nthe next", true},
		{"```go\nfmt.Println(1)\n```", false}, // dangling fence is fine
		{"", false},
		{"He said \"that is all\"", false},
		{"a final line that has many words but no punctuation at all", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LooksTruncated(tc.text), "text %q", tc.text)
	}
}

func TestStripHTMLTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripHTMLTags("<p>Hello</p> world"))
	assert.Equal(t, "if a < b then", StripHTMLTags("if a < b then"))
	assert.Equal(t, "link", StripHTMLTags(`<a href="x">link</a>`))
}

func TestTrimWrappingFences(t *testing.T) {
	wrapped := "```markdown\n# Title\n\nBody text.\n```"
	assert.Equal(t, "# Title\n\nBody text.", TrimWrappingFences(wrapped))

	// A legitimate trailing code block keeps its closing fence.
	article := "# Title\n\n```go\nx := 1\n```"
	assert.Equal(t, article, TrimWrappingFences(article))
}

func TestExtractJSON(t *testing.T) {
	fenced := "```json\n{\"title\": \"T\"}\n```"
	assert.JSONEq(t, `{"title":"T"}`, ExtractJSON(fenced))

	prose := "Sure! Here you go: {\"title\": \"T\"} hope that helps"
	assert.JSONEq(t, `{"title":"T"}`, ExtractJSON(prose))
}

func TestExtractTitleAndDigest(t *testing.T) {
	md := "# The Title\n\nFirst paragraph of the article.\n\nMore text."
	assert.Equal(t, "The Title", extractTitle(md))
	assert.Equal(t, "First paragraph of the article.", extractDigest(md))

	assert.Equal(t, "", extractTitle("no heading here"))
}

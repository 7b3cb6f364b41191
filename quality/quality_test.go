package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

func postWithBodyLength(n int) generator.Post {
	return generator.Post{
		Title:  "A Perfectly Fine Title",
		Body:   strings.Repeat("a", n),
		Format: generator.FormatHTML,
	}
}

func TestBodyLengthBoundary(t *testing.T) {
	require.Error(t, RunBasicChecks(postWithBodyLength(MinBodyLength-1)))
	require.NoError(t, RunBasicChecks(postWithBodyLength(MinBodyLength)))
}

func TestEmptyBodyFails(t *testing.T) {
	err := RunBasicChecks(generator.Post{Title: "T"})
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBannedTitleTerms(t *testing.T) {
	post := postWithBodyLength(MinBodyLength)
	post.Title = "How To Kill Long-Running Queries"

	err := RunBasicChecks(post)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disallowed")
}

func TestBannedTermMatchIsCaseInsensitive(t *testing.T) {
	post := postWithBodyLength(MinBodyLength)
	post.Title = "TERRORform Your Infrastructure"

	require.Error(t, RunBasicChecks(post))
}

func TestCleanPostPasses(t *testing.T) {
	post := postWithBodyLength(MinBodyLength + 100)
	post.Title = "Understanding Connection Pooling in Practice"

	require.NoError(t, RunBasicChecks(post))
}

package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicUnderTest = "Understanding Connection Pooling in Practice"

func TestGenerateJSONParsesStructuredResponse(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "```json\n{\"title\":\"Pooling Deep Dive\",\"subtitle\":\"Why pools matter\",\"body_html\":\"<p>body</p>\",\"tags\":[\"pooling\"]}\n```"},
	}}
	g := testGenerator(t, llm, Options{Policy: PolicyJSON})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.Equal(t, "Pooling Deep Dive", post.Title)
	assert.Equal(t, "Why pools matter", post.Subtitle)
	assert.Equal(t, "<p>body</p>", post.Body)
	assert.Equal(t, []string{"pooling"}, post.Tags)
	assert.Equal(t, FormatHTML, post.Format)
	assert.Equal(t, 1, llm.calls)
}

func TestGenerateJSONFallsBackToPlainProse(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "this is not json at all"},
		{out: "Intro paragraph about pooling.\n\n- point one\n- point two\n\nClosing thoughts."},
	}}
	g := testGenerator(t, llm, Options{Policy: PolicyJSON})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.Equal(t, topicUnderTest, post.Title)
	assert.Equal(t, "A detailed guide on "+topicUnderTest, post.Subtitle)
	assert.Contains(t, post.Body, "<p>Intro paragraph about pooling.</p>")
	assert.Contains(t, post.Body, "<ul><li>point one</li><li>point two</li></ul>")
	assert.Equal(t, []string{"understanding", "connection", "pooling"}, post.Tags)
	assert.Equal(t, 2, llm.calls)
}

func TestGenerateJSONNeverFails(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{err: errors.New("api down")},
		{err: errors.New("api down")},
	}}
	g := testGenerator(t, llm, Options{Policy: PolicyJSON})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.Equal(t, topicUnderTest, post.Title)
	assert.Contains(t, post.Body, topicUnderTest)
	assert.Equal(t, FormatHTML, post.Format)
}

func TestGenerateMarkdownHappyPath(t *testing.T) {
	article := "# Pooling in Practice\n\nConnections are expensive to open.\n\n* reuse them\n* bound them\n\nThat is the whole idea."
	llm := &scriptedLLM{steps: []scriptedStep{{out: article}}}
	g := testGenerator(t, llm, Options{})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.Equal(t, "Pooling in Practice", post.Title)
	assert.Equal(t, "Connections are expensive to open.", post.Subtitle)
	assert.Equal(t, article, post.Body)
	assert.Equal(t, []string{"understanding", "connection", "pooling", "in"}, post.Tags)
	assert.Equal(t, FormatMarkdown, post.Format)
}

func TestGenerateMarkdownStripsStrayHTML(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "# Title\n\n<p>Leaked paragraph tags.</p> The prose survives."},
	}}
	g := testGenerator(t, llm, Options{})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.NotContains(t, post.Body, "<p>")
	assert.Contains(t, post.Body, "Leaked paragraph tags.")
}

func TestGenerateMarkdownRegeneratesPlaceholders(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "# Title\n\nSee the code: CODEBLOCK_7 and we are done."},
		{out: "# Title\n\nHere is the real code:\n\n```go\nx := 1\n```\n\nAll inlined now."},
	}}
	g := testGenerator(t, llm, Options{})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.NotContains(t, post.Body, "CODEBLOCK_7")
	assert.Contains(t, post.Body, "x := 1")
	assert.Equal(t, 2, llm.calls)
}

func TestGenerateMarkdownSubstitutesStubbornPlaceholders(t *testing.T) {
	withPlaceholder := "# Title\n\nSee: CODEBLOCK_7 and that is everything."
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: withPlaceholder},
		{out: withPlaceholder},
		{out: withPlaceholder},
		{out: withPlaceholder},
	}}
	g := testGenerator(t, llm, Options{MaxRetries: 3})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.NotContains(t, post.Body, "CODEBLOCK_7")
	assert.Contains(t, post.Body, "```text")
	// initial call plus three regeneration attempts
	assert.Equal(t, 4, llm.calls)
}

func TestGenerateMarkdownContinuesTruncatedOutput(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "# Title\n\nThe article stops mid sentence and\n\nthe next"},
		{out: "part finishes the thought properly. The end."},
	}}
	g := testGenerator(t, llm, Options{})

	post, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.NoError(t, err)
	assert.False(t, LooksTruncated(post.Body))
	assert.Contains(t, post.Body, "the next\n\npart finishes")
	assert.Equal(t, 2, llm.calls)
}

func TestGenerateMarkdownErrorsWhenAPIKeepsFailing(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{err: errors.New("api down")},
		{err: errors.New("api down")},
		{err: errors.New("api down")},
	}}
	g := testGenerator(t, llm, Options{MaxRetries: 3})

	_, err := g.GeneratePost(context.Background(), topicUnderTest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "article generation")
}

func TestTopicTags(t *testing.T) {
	tags := topicTags("Five Word Topic About Things", 4)
	assert.Equal(t, []string{"five", "word", "topic", "about"}, tags)

	assert.Equal(t, []string{"one"}, topicTags("One", 4))
}

func TestMockLLMEndsCleanly(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), Prompt{User: "anything"})
	require.NoError(t, err)
	assert.False(t, LooksTruncated(strings.TrimSpace(out)))
}

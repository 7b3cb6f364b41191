package generator

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM replays a fixed sequence of responses/errors and records the
// prompts it was sent.
type scriptedLLM struct {
	steps   []scriptedStep
	calls   int
	prompts []Prompt
}

type scriptedStep struct {
	out string
	err error
}

func (s *scriptedLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.calls >= len(s.steps) {
		return "", errors.New("scripted llm: no more responses")
	}
	step := s.steps[s.calls]
	s.calls++
	return step.out, step.err
}

func testGenerator(t *testing.T, llm LLMClient, opts Options) *Generator {
	t.Helper()
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	g, err := NewGenerator(llm, opts, slog.Default())
	require.NoError(t, err)
	return g
}

func TestValidateTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  bool
	}{
		{"Optimizing Database Indexes for Production Workloads", true},
		{"How Go Channels Simplify Concurrent Pipelines", true},
		{"My cat naps all day", false},      // no keyword or connective
		{"Go tips", false},                  // too few words
		{"Go AI now", false},                // too short
		{"", false},
		{"a b c d e f g h j k l m n p q r s t u v w", false}, // 21 words
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidateTopic(tc.topic), "topic %q", tc.topic)
	}
}

func TestChooseTopicFirstLineStripsQuotes(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "\n\"Optimizing Go Services for Lower Latency\"\nsecond line ignored"},
	}}
	g := testGenerator(t, llm, Options{})

	topic := g.ChooseTopic(context.Background())
	assert.Equal(t, "Optimizing Go Services for Lower Latency", topic)
}

func TestChooseTopicRetriesUntilValid(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{out: "nope"}, // fails validation
		{out: "Securing REST APIs with Application Passwords"},
	}}
	g := testGenerator(t, llm, Options{})

	topic := g.ChooseTopic(context.Background())
	assert.Equal(t, "Securing REST APIs with Application Passwords", topic)
	assert.Equal(t, 2, llm.calls)
}

func TestChooseTopicFallsBackDeterministically(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	g := testGenerator(t, llm, Options{MaxRetries: 3})

	topic := g.ChooseTopic(context.Background())
	want := "Developer trends and tooling — " + time.Now().Format("2006-01-02")
	assert.Equal(t, want, topic)
	assert.Equal(t, 3, llm.calls)
}

func TestChooseTopicLooseModeAcceptsAnyLine(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{{out: "nope"}}}
	g := testGenerator(t, llm, Options{LooseTopics: true})

	assert.Equal(t, "nope", g.ChooseTopic(context.Background()))
}

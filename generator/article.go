package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
)

const (
	defaultMaxOutputTokens = 1200
	defaultMaxRetries      = 3
	defaultRetryDelay      = time.Second
)

// Options tunes a Generator. Zero values select the defaults.
type Options struct {
	Policy              Policy
	MaxOutputTokens     int64
	MaxRetries          int
	MaxContinueAttempts int
	RetryDelay          time.Duration
	LooseTopics         bool
}

// Generator turns a topic into a Post. It owns the retry, placeholder
// repair, and continuation logic around the generation API.
type Generator struct {
	llm                 LLMClient
	policy              Policy
	maxOutputTokens     int64
	maxRetries          int
	maxContinueAttempts int
	retryDelay          time.Duration
	strictTopics        bool
	logger              *slog.Logger
}

func NewGenerator(llm LLMClient, opts Options, logger *slog.Logger) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		llm:                 llm,
		policy:              opts.Policy,
		maxOutputTokens:     opts.MaxOutputTokens,
		maxRetries:          opts.MaxRetries,
		maxContinueAttempts: opts.MaxContinueAttempts,
		retryDelay:          opts.RetryDelay,
		strictTopics:        !opts.LooseTopics,
		logger:              logger,
	}
	if g.policy == "" {
		g.policy = PolicyMarkdown
	}
	if g.maxOutputTokens <= 0 {
		g.maxOutputTokens = defaultMaxOutputTokens
	}
	if g.maxRetries <= 0 {
		g.maxRetries = defaultMaxRetries
	}
	if g.maxContinueAttempts <= 0 {
		g.maxContinueAttempts = defaultMaxRetries
	}
	if g.retryDelay <= 0 {
		g.retryDelay = defaultRetryDelay
	}
	return g, nil
}

// GeneratePost writes an article for topic under the configured policy.
func (g *Generator) GeneratePost(ctx context.Context, topic string) (Post, error) {
	g.logger.Info("generating post", "topic", topic, "policy", string(g.policy))
	switch g.policy {
	case PolicyJSON:
		return g.generateJSON(ctx, topic), nil
	default:
		return g.generateMarkdown(ctx, topic)
	}
}

type jsonArticle struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	BodyHTML string   `json:"body_html"`
	Tags     []string `json:"tags"`
}

// generateJSON is the structured-elicitation policy. It degrades through a
// plain-prose prompt down to a minimal canned post, so it always returns a
// well-formed Post.
func (g *Generator) generateJSON(ctx context.Context, topic string) Post {
	raw, err := g.llm.Complete(ctx, BuildJSONArticlePrompt(topic, g.maxOutputTokens))
	if err == nil {
		var art jsonArticle
		if jerr := json.Unmarshal([]byte(ExtractJSON(raw)), &art); jerr == nil && art.BodyHTML != "" {
			g.logger.Info("parsed structured JSON response")
			if art.Title == "" {
				art.Title = topic
			}
			return Post{
				Title:    art.Title,
				Subtitle: art.Subtitle,
				Body:     art.BodyHTML,
				Tags:     art.Tags,
				Format:   FormatHTML,
			}
		}
		g.logger.Warn("JSON parsing failed, generating content with fallback prompt")
	} else {
		g.logger.Warn("structured generation failed, trying fallback prompt", "error", err)
	}

	plain, err := g.llm.Complete(ctx, BuildPlainArticlePrompt(topic, g.maxOutputTokens))
	if err != nil {
		g.logger.Error("fallback generation also failed, using minimal canned post", "error", err)
		return cannedPost(topic)
	}
	return Post{
		Title:    topic,
		Subtitle: fmt.Sprintf("A detailed guide on %s", topic),
		Body:     plainToHTML(strings.TrimSpace(plain)),
		Tags:     topicTags(topic, 3),
		Format:   FormatHTML,
	}
}

// generateMarkdown is the dialect policy with iterative repair.
func (g *Generator) generateMarkdown(ctx context.Context, topic string) (Post, error) {
	var text string
	err := retry.Do(
		func() error {
			raw, err := g.llm.Complete(ctx, BuildMarkdownArticlePrompt(topic, g.maxOutputTokens))
			if err != nil {
				return err
			}
			text = sanitizeDialect(raw)
			if text == "" {
				return errors.New("model returned empty article")
			}
			return nil
		},
		retry.Attempts(uint(g.maxRetries)),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(g.retryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("article generation attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return Post{}, fmt.Errorf("article generation for %q: %w", topic, err)
	}

	text = g.repairPlaceholders(ctx, topic, text)
	text = g.repairTruncation(ctx, topic, text)

	title := extractTitle(text)
	if title == "" {
		title = topic
	}
	return Post{
		Title:    title,
		Subtitle: clampDigest(extractDigest(text), 120),
		Body:     text,
		Tags:     topicTags(topic, 4),
		Format:   FormatMarkdown,
	}, nil
}

// repairPlaceholders regenerates until no CODEBLOCK_<n> token remains,
// then substitutes synthetic fenced blocks for anything still left.
func (g *Generator) repairPlaceholders(ctx context.Context, topic, text string) string {
	if !HasPlaceholders(text) {
		return text
	}
	g.logger.Warn("placeholder tokens detected, regenerating article")
	candidate := text
	err := retry.Do(
		func() error {
			raw, err := g.llm.Complete(ctx, BuildRegeneratePrompt(topic, g.maxOutputTokens))
			if err != nil {
				return err
			}
			if cleaned := sanitizeDialect(raw); cleaned != "" {
				candidate = cleaned
			}
			if HasPlaceholders(candidate) {
				return errors.New("regenerated article still contains placeholders")
			}
			return nil
		},
		retry.Attempts(uint(g.maxRetries)),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(g.retryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("placeholder repair attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		g.logger.Warn("placeholder repair exhausted, substituting synthetic code blocks")
		return ReplacePlaceholders(candidate)
	}
	return candidate
}

// repairTruncation requests continuations while the text still looks cut
// off, appending each with a blank-line separator.
func (g *Generator) repairTruncation(ctx context.Context, topic, text string) string {
	for attempt := 0; attempt < g.maxContinueAttempts && LooksTruncated(text); attempt++ {
		g.logger.Warn("article looks truncated, requesting continuation", "attempt", attempt+1)
		raw, err := g.llm.Complete(ctx, BuildContinuationPrompt(topic, text, g.maxOutputTokens))
		if err != nil {
			g.logger.Warn("continuation request failed, keeping partial article", "error", err)
			break
		}
		cont := strings.TrimSpace(StripHTMLTags(raw))
		if cont == "" {
			break
		}
		text = text + "\n\n" + cont
	}
	return text
}

// sanitizeDialect strips model leakage from dialect output: stray HTML
// tags and a fence wrapped around the whole response.
func sanitizeDialect(raw string) string {
	return TrimWrappingFences(StripHTMLTags(strings.TrimSpace(raw)))
}

// plainToHTML converts prose paragraphs to <p> blocks and dash/asterisk
// bullet runs to <ul><li> lists.
func plainToHTML(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, "-") || strings.HasPrefix(para, "*") {
			b.WriteString("<ul>")
			for _, line := range strings.Split(para, "\n") {
				line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
				if line != "" {
					b.WriteString("<li>" + line + "</li>")
				}
			}
			b.WriteString("</ul>")
			continue
		}
		b.WriteString("<p>" + para + "</p>")
	}
	return b.String()
}

func cannedPost(topic string) Post {
	return Post{
		Title:    topic,
		Subtitle: fmt.Sprintf("Expert insights on %s", topic),
		Body: fmt.Sprintf("<p>This article explores the key concepts, best practices, and practical applications of %s in modern development. "+
			"Whether you're a beginner or an experienced developer, you'll find valuable insights and actionable takeaways.</p>", topic),
		Tags:   topicTags(topic, 3),
		Format: FormatHTML,
	}
}

// topicTags lowercases the first n whitespace-separated topic words.
func topicTags(topic string, n int) []string {
	words := strings.Fields(topic)
	if len(words) > n {
		words = words[:n]
	}
	tags := make([]string, 0, len(words))
	for _, w := range words {
		tags = append(tags, strings.ToLower(w))
	}
	return tags
}

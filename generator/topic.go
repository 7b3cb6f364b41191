package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
)

var topicKeywords = []string{
	"ai", "ml", "machine", "learning", "python", "java", "node", "django", "flask", "fastapi",
	"performance", "security", "latency", "load", "kubernetes", "docker", "devops", "algorithm",
	"data structure", "dsa", "optimization", "framework", "testing", "deployment", "observability",
	"cloud", "scalability", "database", "sql", "nosql",
}

var topicConnectives = []string{"with", "using", "in", "for", "how", "optim", "secure", "build", "deploy"}

const topicFallbackPrefix = "Developer trends and tooling"

var errTopicRejected = errors.New("topic failed validation")

// ValidateTopic is the strict developer-relevance check: 3-20 words, more
// than 10 characters, and at least one keyword or connective match. Pure
// function of the string.
func ValidateTopic(topic string) bool {
	words := len(strings.Fields(topic))
	if topic == "" || words < 3 || words > 20 || len(topic) <= 10 {
		return false
	}
	lowered := strings.ToLower(topic)
	for _, k := range topicKeywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	for _, c := range topicConnectives {
		if strings.Contains(lowered, c) {
			return true
		}
	}
	return false
}

// ChooseTopic asks the model for one topic line, retrying with a fixed
// pause on failure or rejection. It never fails: exhausted retries fall
// back to a deterministic date-derived topic.
func (g *Generator) ChooseTopic(ctx context.Context) string {
	var topic string
	err := retry.Do(
		func() error {
			raw, err := g.llm.Complete(ctx, BuildTopicPrompt())
			if err != nil {
				return err
			}
			candidate := firstLine(raw)
			candidate = strings.Trim(candidate, `"'`)
			if candidate == "" {
				return errTopicRejected
			}
			if g.strictTopics && !ValidateTopic(candidate) {
				return fmt.Errorf("%w: %q", errTopicRejected, candidate)
			}
			topic = candidate
			return nil
		},
		retry.Attempts(uint(g.maxRetries)),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(g.retryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("topic generation attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		g.logger.Warn("falling back to deterministic default topic", "error", err)
		return fmt.Sprintf("%s — %s", topicFallbackPrefix, time.Now().Format("2006-01-02"))
	}
	return topic
}

func firstLine(text string) string {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

package generator

import "context"

// LLMClient abstracts the generation API so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is a single request to the generation API. MaxTokens caps the
// response length when positive.
type Prompt struct {
	System    string
	User      string
	MaxTokens int64
}

// LLMSettings carries the base configuration for concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

package generator

import (
	"context"
	"strings"
)

// MockLLM is a placeholder implementation for local runs and dry runs; it
// never calls an external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("# A Generated Example Article\n\n")
	sb.WriteString("This paragraph summarizes the article that would have been written for the request below.\n\n")
	sb.WriteString("## Body\n\n")
	sb.WriteString("Content generated from the prompt:\n\n")
	sb.WriteString("```text\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	sb.WriteString("\nThat concludes the generated sample.\n")
	return sb.String(), nil
}

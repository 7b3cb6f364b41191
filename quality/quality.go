// Package quality holds the pre-publish content gate. A post that fails
// here is never handed to a transport.
package quality

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

// MinBodyLength is the smallest body, in bytes, worth publishing.
const MinBodyLength = 400

var bannedTitleTerms = []string{"bomb", "kill", "hate", "terror"}

// ValidationError reports why a post was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "content rejected: " + e.Reason
}

// RunBasicChecks validates a generated post against minimal content and
// safety rules. Returns a *ValidationError describing the first failure.
func RunBasicChecks(post generator.Post) error {
	err := validation.ValidateStruct(&post,
		validation.Field(&post.Body,
			validation.Required.Error("generated content is empty"),
			validation.Length(MinBodyLength, 0).Error(fmt.Sprintf("generated content too short (minimum %d characters)", MinBodyLength)),
		),
		validation.Field(&post.Title, validation.By(checkTitle)),
	)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

func checkTitle(value interface{}) error {
	title, _ := value.(string)
	lowered := strings.ToLower(title)
	for _, banned := range bannedTitleTerms {
		if strings.Contains(lowered, banned) {
			return fmt.Errorf("unsafe or disallowed term %q in title", banned)
		}
	}
	return nil
}

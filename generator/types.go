package generator

// Format says how a Post's body is encoded.
type Format string

const (
	// FormatHTML marks a body that is already HTML (json policy).
	FormatHTML Format = "html"
	// FormatMarkdown marks a body in the constrained markup dialect
	// (markdown policy); transports convert it before sending.
	FormatMarkdown Format = "markdown"
)

// Post is the structured article record produced by the Generator and
// consumed read-only by the quality gate and the publisher.
type Post struct {
	Title    string
	Subtitle string
	Body     string
	Tags     []string
	Format   Format
}

// Policy selects how the article body is elicited from the model.
type Policy string

const (
	// PolicyJSON asks for a structured JSON object and synthesizes
	// fields from plain prose when parsing fails. Never errors.
	PolicyJSON Policy = "json"
	// PolicyMarkdown asks for dialect text and runs the placeholder and
	// truncation repair loops. The richer, default path.
	PolicyMarkdown Policy = "markdown"
)

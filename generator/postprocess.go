package generator

import (
	"regexp"
	"strings"
)

// placeholderRe matches the literal tokens some models emit instead of
// inlining a requested code example.
var placeholderRe = regexp.MustCompile(`CODEBLOCK_\d+`)

// htmlTagRe is a best-effort tag matcher; the prompts forbid HTML, so
// anything tag-shaped is model leakage. A bare "<" without a closing ">"
// on purpose survives (common in code samples).
var htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

const placeholderSubstitute = "\n```text\n(code example omitted: the model did not generate this block)\n```\n"

// HasPlaceholders reports whether text still contains literal
// CODEBLOCK_<n> tokens.
func HasPlaceholders(text string) bool {
	return placeholderRe.MatchString(text)
}

// ReplacePlaceholders swaps every placeholder token for a synthetic fenced
// block noting the failure, so no literal token ever reaches output.
func ReplacePlaceholders(text string) string {
	return placeholderRe.ReplaceAllString(text, placeholderSubstitute)
}

// StripHTMLTags removes tag-shaped fragments the model emitted despite the
// prompt forbidding them.
func StripHTMLTags(text string) string {
	return htmlTagRe.ReplaceAllString(text, "")
}

// TrimWrappingFences drops a code fence the model wrapped around its whole
// response. Only the leading marker triggers the trailing trim, so an
// article that legitimately ends with a code block keeps its closing fence.
func TrimWrappingFences(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		return strings.TrimSpace(text)
	}
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var terminalPunct = []string{".", "?", "!", `"`, "'"}

// LooksTruncated heuristically decides whether model output was cut off:
// no terminal punctuation, not a dangling code fence, and a short (≤4
// word) final line. Best effort; false positives are accepted noise.
func LooksTruncated(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	for _, p := range terminalPunct {
		if strings.HasSuffix(t, p) {
			return false
		}
	}
	if strings.HasSuffix(t, "```") {
		return false
	}
	lines := strings.Split(t, "\n")
	lastLine := lines[len(lines)-1]
	return len(strings.Fields(lastLine)) <= 4
}

// ExtractJSON pulls a JSON object out of a response that may wrap it in a
// code fence or surround it with prose.
func ExtractJSON(text string) string {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, "```json"); i >= 0 {
		rest := t[i+len("```json"):]
		if j := strings.Index(rest, "```"); j > 0 {
			return strings.TrimSpace(rest[:j])
		}
	} else if i := strings.Index(t, "```"); i >= 0 {
		rest := t[i+3:]
		if j := strings.Index(rest, "```"); j > 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	start := strings.IndexByte(t, '{')
	end := strings.LastIndexByte(t, '}')
	if start >= 0 && end > start {
		return t[start : end+1]
	}
	return t
}

// extractTitle returns the first # heading, if any.
func extractTitle(md string) string {
	re := regexp.MustCompile(`(?m)^#\s+(.+)$`)
	m := re.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractDigest takes the first non-heading paragraph line.
func extractDigest(md string) string {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "```") {
			continue
		}
		return trimmed
	}
	return ""
}

func clampDigest(digest string, limit int) string {
	if len(digest) <= limit {
		return digest
	}
	return digest[:limit]
}

// Package markdown converts the constrained markup dialect the generation
// prompts request (# headings, *emphasis*, **bold**, `code`, fenced code
// blocks, * bullets) into inline-styled HTML that survives WordPress'
// post-by-email and editor sanitizers.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	paragraphStyle  = "margin:0.8em 0;line-height:1.6;"
	listStyle       = "margin:0.5em 0 0.5em 1.2em;"
	listItemStyle   = "margin:0.3em 0;"
	codeBlockStyle  = "margin:0;padding:12px;overflow-x:auto;font-family:monospace;font-size:14px;line-height:1.45;"
	codeLabelStyle  = "font-family:monospace;font-size:12px;color:#57606a;padding:6px 12px;border-bottom:1px solid #d0d7de;"
	codeWrapStyle   = "background:#f6f8fa;border-radius:6px;margin:1em 0;"
	inlineCodeStyle = "background:#f6f8fa;padding:2px 5px;border-radius:4px;font-family:monospace;font-size:90%;"
)

var headingSizes = map[int]string{
	1: "24px",
	2: "22px",
	3: "20px",
	4: "18px",
	5: "16px",
	6: "15px",
}

var (
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
)

type state int

const (
	stateNormal state = iota
	stateInCodeBlock
)

// Convert renders dialect text to an HTML body fragment plus a full
// standalone document wrapping the same fragment. The conversion is a
// single pass over lines and is deterministic: the same input always
// yields byte-identical output.
func Convert(text string) (body, doc string) {
	var (
		blocks   []string
		st       = stateNormal
		inList   bool
		codeLang string
		codeBuf  []string
	)

	closeList := func() {
		if inList {
			blocks = append(blocks, "</ul>")
			inList = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if st == stateInCodeBlock {
			if strings.HasPrefix(trimmed, "```") {
				blocks = append(blocks, renderCodeBlock(codeLang, codeBuf))
				codeBuf = nil
				st = stateNormal
				continue
			}
			codeBuf = append(codeBuf, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			closeList()
			codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			st = stateInCodeBlock

		case trimmed == "":
			if inList {
				closeList()
			} else if len(blocks) > 0 {
				blocks = append(blocks, "<br>")
			}

		case strings.HasPrefix(trimmed, "#"):
			closeList()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			size, ok := headingSizes[level]
			if !ok {
				size = headingSizes[6]
			}
			if level > 6 {
				level = 6
			}
			headText := inlineTransforms(strings.TrimSpace(trimmed[level:]))
			blocks = append(blocks, fmt.Sprintf(`<h%d style="font-size:%s;font-weight:700;margin:1em 0 0.6em;">%s</h%d>`, level, size, headText, level))

		case strings.HasPrefix(trimmed, "*") && !strings.Contains(trimmed, "**"):
			if !inList {
				blocks = append(blocks, fmt.Sprintf(`<ul style="%s">`, listStyle))
				inList = true
			}
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
			blocks = append(blocks, fmt.Sprintf(`<li style="%s">%s</li>`, listItemStyle, inlineTransforms(item)))

		default:
			closeList()
			blocks = append(blocks, fmt.Sprintf(`<p style="%s">%s</p>`, paragraphStyle, inlineTransforms(trimmed)))
		}
	}

	// Flush an unterminated fence or list at end of input.
	if st == stateInCodeBlock {
		blocks = append(blocks, renderCodeBlock(codeLang, codeBuf))
	}
	closeList()

	body = strings.Join(blocks, "\n")
	doc = wrapDocument(body)
	return body, doc
}

// inlineTransforms applies **bold**, *italic*, and `code` in that order.
// Bold runs first so the italic pass never sees a double-asterisk pair,
// keeping segments from being converted twice.
func inlineTransforms(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = inlineCodeRe.ReplaceAllString(s, fmt.Sprintf(`<code style="%s">$1</code>`, inlineCodeStyle))
	return s
}

func renderCodeBlock(lang string, lines []string) string {
	label := lang
	if label == "" {
		label = "code"
	}
	escaped := html.EscapeString(strings.Join(lines, "\n"))
	return fmt.Sprintf(`<div style="%s"><div style="%s">%s</div><pre style="%s">%s</pre></div>`,
		codeWrapStyle, codeLabelStyle, html.EscapeString(label), codeBlockStyle, escaped)
}

func wrapDocument(body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<style>body{font-family:-apple-system,Segoe UI,Helvetica,Arial,sans-serif;color:#1f2328;max-width:720px;margin:2em auto;padding:0 1em;}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

package generator

import (
	"fmt"
	"strings"
)

const topicSystem = "You are an expert content ideation assistant for developer blogs."

const topicUser = `Generate ONE concise blog topic/title (6-12 words) focused exclusively on developer and technical subjects such as programming languages, AI/ML, frameworks, system design, DSA, optimization, performance, security, load balancing, latency, observability, developer tools, testing, deployment, DevOps, cloud, or problem-solving. Do NOT return a list. Return only the topic/title as plain text, no JSON, no bullets, no explanation. Keep it original and specific.`

// BuildTopicPrompt asks for a single topic line.
func BuildTopicPrompt() Prompt {
	return Prompt{System: topicSystem, User: topicUser, MaxTokens: 40}
}

// BuildJSONArticlePrompt requests a structured JSON article (json policy).
func BuildJSONArticlePrompt(topic string, maxTokens int64) Prompt {
	user := fmt.Sprintf(`Write a 700-900 word article about: %s
Return ONLY valid JSON with these exact keys (no markdown, no extra text, just JSON):
{
  "title": "string",
  "subtitle": "string, one-line summary",
  "body_html": "string with HTML tags like <h2>, <p>, <ul>/<li>",
  "tags": ["array", "of", "tags"]
}
Make the article original, friendly, and actionable.`, topic)
	return Prompt{
		System:    "You are a professional Medium/WordPress writer.",
		User:      user,
		MaxTokens: maxTokens,
	}
}

// BuildPlainArticlePrompt is the json policy's second attempt when the
// model did not return parseable JSON.
func BuildPlainArticlePrompt(topic string, maxTokens int64) Prompt {
	user := fmt.Sprintf(`Write a 700-900 word blog post about: %s
Use professional, friendly tone. Include introduction, main points, and conclusion.
Format with clear sections and paragraphs. No JSON, no markdown, plain text only.`, topic)
	return Prompt{User: user, MaxTokens: maxTokens}
}

const dialectRules = `Formatting rules, follow them exactly:
- Use # for headings (start the article with a single # title line).
- Use *single asterisks* for emphasis and **double asterisks** for bold.
- Use fenced code blocks opened with three backticks plus a language tag and closed with three backticks. Write the full code inline inside the fence.
- Use lines starting with * for bulleted lists.
- Do NOT use HTML tags. Do NOT return JSON. Do NOT use numbered lists or tables.`

// BuildMarkdownArticlePrompt requests dialect text (markdown policy).
func BuildMarkdownArticlePrompt(topic string, maxTokens int64) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a 500-1000 word blog article about: %s\n", topic))
	sb.WriteString("Use a professional, friendly tone with an introduction, main sections, and a conclusion.\n")
	sb.WriteString(dialectRules)
	return Prompt{
		System:    "You are a professional technical blog writer. Output plain text in the requested lightweight markup only.",
		User:      sb.String(),
		MaxTokens: maxTokens,
	}
}

// BuildRegeneratePrompt asks for a full rewrite with no placeholder tokens.
func BuildRegeneratePrompt(topic string, maxTokens int64) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a 500-1000 word blog article about: %s\n", topic))
	sb.WriteString("IMPORTANT: Write every code example out in full inside its fenced block. Never insert placeholder tokens such as CODEBLOCK_1; the article must be complete and self-contained.\n")
	sb.WriteString(dialectRules)
	return Prompt{
		System:    "You are a professional technical blog writer. Output plain text in the requested lightweight markup only.",
		User:      sb.String(),
		MaxTokens: maxTokens,
	}
}

// BuildContinuationPrompt asks the model to finish an article that looks
// cut off.
func BuildContinuationPrompt(topic, sofar string, maxTokens int64) Prompt {
	user := fmt.Sprintf(`The following blog article about %q appears to be cut off.
Continue it from exactly where it stops and bring it to a natural conclusion.
Do not repeat any prior content, do not restart the article, and keep the same formatting rules (no HTML, no JSON).

Article so far:
%s`, topic, sofar)
	return Prompt{
		System:    "You are a professional technical blog writer continuing your own draft.",
		User:      user,
		MaxTokens: maxTokens,
	}
}

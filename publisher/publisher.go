// Package publisher delivers a validated post to WordPress over one of
// three transports (XML-RPC, REST, post-by-email) and records the outcome.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
	"github.com/vinay-billa-slu/ai-agent-blogger/markdown"
)

// Transport identifies a delivery mechanism.
type Transport string

const (
	TransportXMLRPC Transport = "xmlrpc"
	TransportREST   Transport = "rest"
	TransportEmail  Transport = "email"
)

// PublishResult is the outcome of one publish attempt. Exactly one is
// recorded per run: the first transport to succeed, or the last failure.
type PublishResult struct {
	Transport Transport `json:"transport"`
	Success   bool      `json:"success"`
	PostID    string    `json:"post_id,omitempty"`
	Link      string    `json:"link,omitempty"`
	SentTo    string    `json:"sent_to,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type transportImpl interface {
	publish(ctx context.Context, post generator.Post) (PublishResult, error)
}

// Publisher dispatches posts to transports and implements the
// xmlrpc-then-email fallback used by the primary workflow.
type Publisher struct {
	cfg        config.Config
	logger     *slog.Logger
	transports map[Transport]transportImpl
	xmlrpc     *xmlrpcTransport
}

func New(cfg config.Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	xr := newXMLRPCTransport(cfg, logger)

	var email transportImpl = newSMTPTransport(cfg, logger)
	if cfg.EmailCarrier() == "sendgrid" {
		email = newSendGridTransport(cfg, logger)
	}

	return &Publisher{
		cfg:    cfg,
		logger: logger,
		xmlrpc: xr,
		transports: map[Transport]transportImpl{
			TransportXMLRPC: xr,
			TransportREST:   newRESTTransport(cfg, logger),
			TransportEmail:  email,
		},
	}
}

// Publish sends post over exactly the named transport, no fallback.
func (p *Publisher) Publish(ctx context.Context, post generator.Post, transport Transport) (PublishResult, error) {
	t, ok := p.transports[transport]
	if !ok {
		return PublishResult{Transport: transport}, fmt.Errorf("unknown transport %q", transport)
	}
	res, err := t.publish(ctx, post)
	if err != nil && res.Error == "" {
		res.Error = err.Error()
	}
	return res, err
}

// PublishWithFallback is the primary workflow: XML-RPC first, then
// post-by-email. REST never participates in automatic fallback. If both
// fail the combined error names both underlying failures.
func (p *Publisher) PublishWithFallback(ctx context.Context, post generator.Post) (PublishResult, error) {
	res, xmlErr := p.Publish(ctx, post, TransportXMLRPC)
	if xmlErr == nil {
		return res, nil
	}
	p.logger.Warn("XML-RPC publishing failed, falling back to email-based posting", "error", xmlErr)

	res, emailErr := p.Publish(ctx, post, TransportEmail)
	if emailErr == nil {
		return res, nil
	}
	p.logger.Error("both XML-RPC and email publishing failed",
		"xmlrpc_error", xmlErr, "email_error", emailErr)
	return res, fmt.Errorf("all transports failed: xml-rpc: %v; email: %v", xmlErr, emailErr)
}

// Diagnose runs the XML-RPC connectivity and permission checks without
// touching generation. testPost additionally creates a draft on the first
// discovered blog.
func (p *Publisher) Diagnose(testPost bool) []EndpointDiagnosis {
	return p.xmlrpc.diagnose(testPost)
}

// Payload is what a dry run would have sent.
type Payload struct {
	Transport   Transport `json:"transport"`
	Subject     string    `json:"subject"`
	To          string    `json:"to,omitempty"`
	ContentHTML string    `json:"content_html"`
	PlainText   string    `json:"plain_text,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
}

// BuildPayload renders the transport payload for post without sending it.
func (p *Publisher) BuildPayload(post generator.Post, transport Transport) Payload {
	content := contentHTML(post)
	pl := Payload{
		Transport:   transport,
		Subject:     post.Title,
		ContentHTML: content,
	}
	switch transport {
	case TransportREST:
		pl.Excerpt = excerptFromHTML(content, excerptLimit)
	case TransportEmail:
		plain, _ := emailBodies(post)
		pl.PlainText = plain
		pl.To = p.cfg.PostByEmail
	}
	return pl
}

// contentHTML renders the body each transport sends. Markdown-policy
// bodies are converted; HTML-policy bodies get the subtitle prefixed as a
// heading, matching the original post_content assembly.
func contentHTML(post generator.Post) string {
	if post.Format == generator.FormatMarkdown {
		body, _ := markdown.Convert(post.Body)
		return body
	}
	if post.Subtitle != "" {
		return fmt.Sprintf("<h2>%s</h2>\n%s", post.Subtitle, post.Body)
	}
	return post.Body
}

// excerptFromHTML extracts readable text from an HTML fragment and clips
// it to limit runes.
func excerptFromHTML(htmlStr string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}

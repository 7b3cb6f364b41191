package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

// smtpTransport sends the post to the WordPress post-by-email address as a
// multipart message over implicit TLS. WordPress turns the subject into
// the draft's title and the body into its content.
type smtpTransport struct {
	host   string
	port   int
	user   string
	pass   string
	to     string
	logger *slog.Logger
	send   func(ctx context.Context, t *smtpTransport, msg *mail.Msg) error
}

func newSMTPTransport(cfg config.Config, logger *slog.Logger) *smtpTransport {
	return &smtpTransport{
		host:   cfg.SMTP.Host,
		port:   cfg.SMTP.Port,
		user:   cfg.SMTP.User,
		pass:   cfg.SMTP.AppPassword,
		to:     cfg.PostByEmail,
		logger: logger,
		send:   smtpSend,
	}
}

func (t *smtpTransport) publish(ctx context.Context, post generator.Post) (PublishResult, error) {
	failed := PublishResult{Transport: TransportEmail}

	plain, htmlBody := emailBodies(post)

	msg := mail.NewMsg()
	if err := msg.From(t.user); err != nil {
		return failed, fmt.Errorf("invalid sender address %q: %w", t.user, err)
	}
	if err := msg.To(t.to); err != nil {
		return failed, fmt.Errorf("invalid post-by-email address %q: %w", t.to, err)
	}
	msg.Subject(post.Title)
	msg.SetBodyString(mail.TypeTextPlain, plain)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	t.logger.Info("publishing via post-by-email", "to", t.to, "host", t.host)
	if err := t.send(ctx, t, msg); err != nil {
		if isSMTPAuthError(err) {
			t.logger.Error("SMTP authentication failed; check GMAIL_USER and GMAIL_APP_PASSWORD")
			return failed, fmt.Errorf("smtp authentication failed: %w", err)
		}
		return failed, fmt.Errorf("smtp send failed: %w", err)
	}

	t.logger.Info("post sent via email; WordPress will create the draft", "to", t.to)
	return PublishResult{
		Transport: TransportEmail,
		Success:   true,
		SentTo:    t.to,
	}, nil
}

func smtpSend(ctx context.Context, t *smtpTransport, msg *mail.Msg) error {
	client, err := mail.NewClient(t.host,
		mail.WithPort(t.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.user),
		mail.WithPassword(t.pass),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func isSMTPAuthError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "535") || strings.Contains(strings.ToLower(s), "auth")
}

// emailBodies builds the plain and HTML alternatives. The plain part
// leads with the title and subtitle so WordPress renders a sensible draft
// even when it ignores the HTML alternative.
func emailBodies(post generator.Post) (plain, htmlBody string) {
	var b strings.Builder
	b.WriteString(post.Title)
	b.WriteString("\n\n")
	if post.Subtitle != "" {
		b.WriteString(post.Subtitle)
		b.WriteString("\n\n")
	}
	if post.Format == generator.FormatMarkdown {
		b.WriteString(post.Body)
	} else {
		b.WriteString(cleanupEmailBody(post.Body))
	}
	return b.String(), contentHTML(post)
}

// cleanupEmailBody scrubs model artifacts that would end up visible in a
// post-by-email draft: code-fence markers, stray JSON key lines, and runs
// of blank lines.
func cleanupEmailBody(body string) string {
	body = strings.ReplaceAll(body, "```json", "")
	body = strings.ReplaceAll(body, "```", "")

	jsonKeyMarkers := []string{`"title":`, `"subtitle":`, `"body_html":`, `"tags":`, `"name":`, `"app`}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		skip := false
		for _, marker := range jsonKeyMarkers {
			if strings.Contains(stripped, marker) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if (strings.HasPrefix(stripped, `"`) && strings.HasSuffix(stripped, `",`)) || strings.HasSuffix(stripped, `":`) {
			continue
		}
		lines = append(lines, line)
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}

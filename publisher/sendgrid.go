package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

// sendgridTransport carries the post-by-email message over the SendGrid
// HTTP API instead of direct SMTP. The API signals acceptance with 202.
type sendgridTransport struct {
	apiKey string
	from   string
	to     string
	logger *slog.Logger
}

func newSendGridTransport(cfg config.Config, logger *slog.Logger) *sendgridTransport {
	return &sendgridTransport{
		apiKey: cfg.SendGrid.APIKey,
		from:   cfg.SendGrid.From,
		to:     cfg.PostByEmail,
		logger: logger,
	}
}

func (t *sendgridTransport) publish(ctx context.Context, post generator.Post) (PublishResult, error) {
	failed := PublishResult{Transport: TransportEmail}

	plain, htmlBody := emailBodies(post)
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("", t.from),
		post.Title,
		sgmail.NewEmail("", t.to),
		plain,
		htmlBody,
	)
	client := sendgrid.NewSendClient(t.apiKey)

	err := retry.Do(
		func() error {
			t.logger.Info("SendGrid API request starting", "to", t.to, "subject", post.Title)
			resp, err := client.SendWithContext(ctx, message)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("sendgrid HTTP %d: %s", resp.StatusCode, resp.Body)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			t.logger.Warn("retrying SendGrid send after error", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return failed, fmt.Errorf("sendgrid send failed: %w", err)
	}

	t.logger.Info("post accepted by SendGrid; WordPress will create the draft", "to", t.to)
	return PublishResult{
		Transport: TransportEmail,
		Success:   true,
		SentTo:    t.to,
	}, nil
}

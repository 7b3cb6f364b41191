package publisher

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

func testSMTPConfig() config.Config {
	cfg := config.Config{
		PostByEmail: "publish-abc@example.wordpress.com",
		SMTP: config.SMTPConfig{
			User:        "me@gmail.com",
			AppPassword: "app-pass",
			Host:        "smtp.gmail.com",
			Port:        465,
		},
	}
	return cfg
}

func TestSMTPPublishSuccess(t *testing.T) {
	var sent *mail.Msg
	tr := newSMTPTransport(testSMTPConfig(), slog.Default())
	tr.send = func(_ context.Context, _ *smtpTransport, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	post := generator.Post{Title: "Draft Title", Body: "# Draft Title\n\nHello.", Format: generator.FormatMarkdown}
	res, err := tr.publish(context.Background(), post)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, TransportEmail, res.Transport)
	assert.Equal(t, "publish-abc@example.wordpress.com", res.SentTo)
	require.NotNil(t, sent)
}

func TestSMTPPublishAuthFailure(t *testing.T) {
	tr := newSMTPTransport(testSMTPConfig(), slog.Default())
	tr.send = func(context.Context, *smtpTransport, *mail.Msg) error {
		return errors.New("535 5.7.8 Username and Password not accepted")
	}

	_, err := tr.publish(context.Background(), generator.Post{Title: "T", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp authentication failed")
}

func TestSMTPPublishGenericSendFailure(t *testing.T) {
	tr := newSMTPTransport(testSMTPConfig(), slog.Default())
	tr.send = func(context.Context, *smtpTransport, *mail.Msg) error {
		return errors.New("connection reset by peer")
	}

	_, err := tr.publish(context.Background(), generator.Post{Title: "T", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send failed")
	assert.NotContains(t, err.Error(), "authentication")
}

func TestIsSMTPAuthError(t *testing.T) {
	assert.True(t, isSMTPAuthError(errors.New("535 bad credentials")))
	assert.True(t, isSMTPAuthError(errors.New("SMTP AUTH failed")))
	assert.False(t, isSMTPAuthError(errors.New("connection refused")))
}

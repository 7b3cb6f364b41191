package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

const (
	restTimeout  = 30 * time.Second
	excerptLimit = 160
)

type restPostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Excerpt string `json:"excerpt"`
}

type restPostResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

type restTransport struct {
	site   string
	user   string
	pass   string
	client *http.Client
	logger *slog.Logger
}

func newRESTTransport(cfg config.Config, logger *slog.Logger) *restTransport {
	return &restTransport{
		site:   strings.TrimRight(cfg.Site, "/"),
		user:   cfg.Username,
		pass:   cfg.AppPassword,
		client: &http.Client{Timeout: restTimeout},
		logger: logger,
	}
}

// publish creates a draft through the wp/v2 REST API. A network error or
// non-2xx response is a hard failure; this transport never retries.
func (t *restTransport) publish(ctx context.Context, post generator.Post) (PublishResult, error) {
	failed := PublishResult{Transport: TransportREST}

	content := contentHTML(post)
	payload := restPostPayload{
		Title:   post.Title,
		Content: content,
		Status:  "draft",
		Excerpt: excerptFromHTML(content, excerptLimit),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return failed, err
	}

	url := t.site + "/wp-json/wp/v2/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failed, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(t.user, t.pass)

	t.logger.Info("publishing via REST API", "url", url)
	resp, err := t.client.Do(req)
	if err != nil {
		return failed, fmt.Errorf("REST request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return failed, fmt.Errorf("REST API error %d: %s", resp.StatusCode, string(detail))
	}

	var data restPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return failed, fmt.Errorf("decode REST response: %w", err)
	}

	t.logger.Info("draft created via REST API", "post_id", data.ID, "link", data.Link)
	return PublishResult{
		Transport: TransportREST,
		Success:   true,
		PostID:    strconv.FormatInt(data.ID, 10),
		Link:      data.Link,
	}, nil
}

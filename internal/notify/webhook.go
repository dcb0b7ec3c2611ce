package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joestump/studyshelf/internal/build"
)

// Webhook posts announcements to {baseURL}/{id}/{token}.
type Webhook struct {
	endpoint string
	client   *http.Client
}

// NewWebhook returns a Sink for the given webhook credentials. A nil client
// uses a fresh http.Client; callers bound each call with the context.
func NewWebhook(baseURL, id, token string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{}
	}
	return &Webhook{
		endpoint: baseURL + "/" + id + "/" + token,
		client:   client,
	}
}

func (w *Webhook) Send(ctx context.Context, s Submission) error {
	payload, err := json.Marshal(buildPayload(s))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Webhook posts messages to Discord webhook URLs.
type Webhook struct {
	// Username overrides the webhook's default name when set.
	Username string
	Client   *http.Client
}

func NewWebhook(username string) *Webhook {
	return &Webhook{
		Username: username,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts msg to url. Any status of 400 or more is an error.
func (w *Webhook) Send(ctx context.Context, url string, msg *Message) error {
	if w.Username != "" && msg.Username == "" {
		m := *msg
		m.Username = w.Username
		msg = &m
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

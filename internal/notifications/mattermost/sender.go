// Package mattermost posts status-change notifications to Mattermost
// incoming webhooks.
package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/bissquit/statusdash/internal/notifications"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultUsername = "statusdash"
)

// Config holds Mattermost sender configuration. The webhook URL is the
// notification target, so it is not part of the config.
type Config struct {
	DefaultUsername string        // username for display, default "statusdash"
	DefaultIconURL  string        // icon URL (optional)
	Channel         string        // overrides the webhook's default channel (optional)
	Timeout         time.Duration // request timeout
}

// Sender implements Mattermost notification sender via Incoming Webhooks.
type Sender struct {
	config     Config
	httpClient *http.Client
}

// NewSender creates a new Mattermost sender.
func NewSender(config Config) *Sender {
	if config.DefaultUsername == "" {
		config.DefaultUsername = defaultUsername
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Sender{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Send sends a notification to Mattermost.
// notification.To contains the webhook URL.
func (s *Sender) Send(ctx context.Context, notification notifications.Notification) error {
	webhookURL := notification.To
	if webhookURL == "" {
		return &Error{Message: "webhook URL is empty"}
	}

	payload := webhookPayload{
		Username: s.config.DefaultUsername,
		IconURL:  s.config.DefaultIconURL,
		Channel:  s.config.Channel,
	}

	switch {
	case notification.Color != "":
		// Colored messages go into an attachment with the subject as its title.
		payload.Attachments = []attachment{{
			Fallback: fallbackText(notification),
			Color:    notification.Color,
			Title:    notification.Subject,
			Text:     notification.Body,
		}}
	case notification.Subject != "":
		payload.Text = fmt.Sprintf("### %s\n\n%s", notification.Subject, notification.Body)
	default:
		payload.Text = notification.Body
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("send request: %v", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	return s.handleResponse(resp, webhookURL)
}

type webhookPayload struct {
	Text        string       `json:"text,omitempty"`
	Username    string       `json:"username,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Channel     string       `json:"channel,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	Fallback string `json:"fallback"`
	Color    string `json:"color,omitempty"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
}

func fallbackText(n notifications.Notification) string {
	if n.Subject != "" {
		return n.Subject
	}
	return n.Body
}

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

func (s *Sender) handleResponse(resp *http.Response, webhookURL string) error {
	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Debug("mattermost message sent", "webhook", maskWebhookURL(webhookURL))
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return classify(resp.StatusCode, strings.TrimSpace(string(body)))
}

// classify maps a non-200 webhook response to an *Error. Rate limits and
// 5xx are retryable; every other status means the webhook or payload is
// wrong and retrying will not help.
func classify(status int, body string) *Error {
	e := &Error{Code: status, Message: body}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Message = "invalid or expired webhook"
	case status == http.StatusNotFound:
		e.Message = "webhook not found"
	case status == http.StatusTooManyRequests:
		e.Message, e.Retryable = "rate limited", true
	case status >= http.StatusInternalServerError:
		e.Retryable = true
		e.Message = "server error: " + body
	case status == http.StatusBadRequest:
		e.Message = "bad request: " + body
	default:
		e.Message = fmt.Sprintf("unexpected status: %s", body)
	}
	return e
}

// maskWebhookURL keeps the host and the tail of the hook key for logs.
func maskWebhookURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid webhook url>"
	}
	key := path.Base(u.Path)
	if len(key) > 4 {
		key = "..." + key[len(key)-4:]
	}
	return u.Scheme + "://" + u.Host + "/hooks/" + key
}

// Error is returned for failed webhook deliveries. Code is zero when no
// response was received.
type Error struct {
	Code      int
	Message   string
	Retryable bool
}

func (e *Error) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("mattermost error %d: %s", e.Code, e.Message)
	}
	return "mattermost error: " + e.Message
}

// IsRetryable lets the notifier decide whether to try again.
func (e *Error) IsRetryable() bool { return e.Retryable }

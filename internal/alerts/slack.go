// Package alerts contains the outbound notification sinks used by
// operational tooling: a Slack incoming-webhook sender and a Jira incident
// creator. Both are fire-and-forget; failures are logged and counted but
// never surfaced to callers, and the rest of the application works with
// these sinks absent entirely.
package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nshivakumar1/social-app-clone/internal/observability"
)

// Severity selects the attachment color of a Slack notification.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

const defaultSinkTimeout = 10 * time.Second

// SlackNotifier posts messages to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	env        string
	client     *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier creates a notifier for the given webhook URL. An empty
// URL yields a disabled notifier whose Send is a no-op.
func NewSlackNotifier(webhookURL, channel, env string, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		env:        env,
		client:     &http.Client{Timeout: defaultSinkTimeout},
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *SlackNotifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	TS     int64        `json:"ts"`
}

type slackPayload struct {
	Channel     string            `json:"channel"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

// Send posts the message with the given severity. Errors are logged, never
// returned.
func (n *SlackNotifier) Send(ctx context.Context, message string, severity Severity) {
	if !n.Enabled() {
		n.logger.Warn("slack notifier disabled, dropping message", "message", message)
		return
	}
	if severity == "" {
		severity = SeverityGood
	}

	now := time.Now()
	payload := slackPayload{
		Channel:   n.channel,
		Username:  "Social App CI/CD Bot",
		IconEmoji: ":robot_face:",
		Text:      message,
		Attachments: []slackAttachment{{
			Color: string(severity),
			Fields: []slackField{
				{Title: "Environment", Value: n.env, Short: true},
				{Title: "Timestamp", Value: now.UTC().Format(time.RFC3339), Short: true},
			},
			Footer: "Social App CI/CD",
			TS:     now.Unix(),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.fail("marshal slack payload", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.fail("build slack request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.fail("send slack notification", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.fail("send slack notification", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
		return
	}
	n.logger.Info("slack notification sent", "channel", n.channel)
}

func (n *SlackNotifier) fail(op string, err error) {
	observability.NotificationSendFailures.WithLabelValues("slack").Inc()
	n.logger.Error("slack sink failure", "op", op, "error", err)
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ignitrack/internal/config"
	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// SlackNotifier represents Slack notifier
type SlackNotifier struct {
	config *config.SlackConfig
	logger *zap.Logger
	client *http.Client
}

// SlackMessage represents Slack message
type SlackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment represents Slack attachment
type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Fields    []SlackField `json:"fields,omitempty"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

// SlackField represents Slack field
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackNotifier creates new SlackNotifier
func NewSlackNotifier(cfg *config.SlackConfig, logger *zap.Logger) (*SlackNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("slack webhook URL is required")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 30 * time.Second,
		},
	}

	return &SlackNotifier{
		config: cfg,
		logger: logger,
		client: client,
	}, nil
}

// NotifyChanges sends a change alert message
func (n *SlackNotifier) NotifyChanges(changes []types.ChangeRecord) error {
	highest := types.RiskLow
	attachments := make([]SlackAttachment, 0, len(changes))
	for _, rec := range changes {
		if riskRank(rec.RiskLevel) > riskRank(highest) {
			highest = rec.RiskLevel
		}
		attachments = append(attachments, SlackAttachment{
			Color: riskColor(rec.RiskLevel),
			Title: rec.FilePath,
			Fields: []SlackField{
				{Title: "Change", Value: string(rec.ChangeType), Short: true},
				{Title: "Resource", Value: string(rec.ResourceType), Short: true},
				{Title: "Risk", Value: string(rec.RiskLevel), Short: true},
			},
			Footer:    "ignitrack",
			Timestamp: rec.Timestamp.Unix(),
		})
	}

	msg := SlackMessage{
		Channel:   n.config.Channel,
		Username:  n.config.Username,
		IconEmoji: n.config.IconEmoji,
		Text:      fmt.Sprintf("%d repository change(s) detected, highest risk: %s", len(changes), highest),
	}
	msg.Attachments = attachments

	return n.send(msg)
}

// send posts one message to the Slack webhook
func (n *SlackNotifier) send(msg SlackMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	resp, err := n.client.Post(n.config.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

// Health checks the health of the notifier
func (n *SlackNotifier) Health(ctx context.Context) error {
	if n.config.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is not configured")
	}
	return nil
}

// riskColor maps a risk level onto a Slack attachment color
func riskColor(level types.RiskLevel) string {
	switch level {
	case types.RiskCritical:
		return "#8B0000"
	case types.RiskHigh:
		return "danger"
	case types.RiskMedium:
		return "warning"
	default:
		return "good"
	}
}

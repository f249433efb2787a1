package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ignitrack/internal/config"
	"ignitrack/internal/retry"
	"ignitrack/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookNotifier represents webhook notifier
type WebhookNotifier struct {
	config *config.WebhookConfig
	retry  *retry.Config
	logger *zap.Logger
	client *http.Client
}

// WebhookPayload represents the standard webhook payload structure
type WebhookPayload struct {
	EventType string               `json:"event_type"`
	EventID   string               `json:"event_id"`
	Timestamp time.Time            `json:"timestamp"`
	Changes   []types.ChangeRecord `json:"changes"`
}

// NewWebhookNotifier creates new webhook notifier
func NewWebhookNotifier(cfg *config.WebhookConfig, retryCfg *retry.Config, logger *zap.Logger) (*WebhookNotifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 30 * time.Second,
		},
	}

	return &WebhookNotifier{
		config: cfg,
		retry:  retryCfg,
		logger: logger,
		client: client,
	}, nil
}

// NotifyChanges sends a change-detected event
func (n *WebhookNotifier) NotifyChanges(changes []types.ChangeRecord) error {
	payload := WebhookPayload{
		EventType: "changes.detected",
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Changes:   changes,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	return retry.Execute(context.Background(), n.retry, n.logger, func(ctx context.Context) error {
		return n.send(ctx, body)
	})
}

// send delivers one signed payload
func (n *WebhookNotifier) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.config.Headers {
		req.Header.Set(key, value)
	}
	if n.config.Secret != "" {
		req.Header.Set("X-Ignitrack-Signature", sign(n.config.Secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Health checks the health of the notifier
func (n *WebhookNotifier) Health(ctx context.Context) error {
	if n.config.URL == "" {
		return fmt.Errorf("webhook URL is not configured")
	}
	return nil
}

// sign computes the hex HMAC-SHA256 signature of a payload
func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

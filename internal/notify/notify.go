// Package notify fans change alerts out to the configured channels. Delivery
// failures are logged and never surfaced to the scan that produced them.
package notify

import (
	"context"

	"ignitrack/internal/config"
	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// NotifierType represents the type of notifier
type NotifierType string

const (
	NotifierWebhook NotifierType = "webhook"
	NotifierSlack   NotifierType = "slack"
)

// Notifier represents notifier interface
type Notifier interface {
	// NotifyChanges sends an alert for a batch of change records
	NotifyChanges(changes []types.ChangeRecord) error

	// Health checks the health of the notifier
	Health(ctx context.Context) error
}

// Manager represents notifier manager
type Manager struct {
	config    *config.NotifyConfig
	logger    *zap.Logger
	notifiers map[NotifierType]Notifier
	minRisk   int
}

// NewManager creates new notifier manager
func NewManager(cfg *config.NotifyConfig, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:    cfg,
		logger:    logger,
		notifiers: make(map[NotifierType]Notifier),
		minRisk:   riskRank(types.RiskLevel(cfg.MinRiskLevel)),
	}

	if cfg.Webhook.Enabled {
		n, err := NewWebhookNotifier(&cfg.Webhook, cfg.Retry, logger)
		if err != nil {
			return nil, err
		}
		m.notifiers[NotifierWebhook] = n
	}

	if cfg.Slack.Enabled {
		n, err := NewSlackNotifier(&cfg.Slack, logger)
		if err != nil {
			return nil, err
		}
		m.notifiers[NotifierSlack] = n
	}

	return m, nil
}

// NotifyChanges alerts every channel about the records at or above the
// configured risk level
func (m *Manager) NotifyChanges(changes []types.ChangeRecord) {
	if !m.config.Enabled || len(m.notifiers) == 0 {
		return
	}

	var alertable []types.ChangeRecord
	for _, rec := range changes {
		if riskRank(rec.RiskLevel) >= m.minRisk {
			alertable = append(alertable, rec)
		}
	}
	if len(alertable) == 0 {
		return
	}

	for name, notifier := range m.notifiers {
		if err := notifier.NotifyChanges(alertable); err != nil {
			m.logger.Error("Failed to send change alert",
				zap.String("notifier", string(name)),
				zap.Int("changes", len(alertable)),
				zap.Error(err))
		}
	}
}

// Channels returns the names of the registered channels
func (m *Manager) Channels() []NotifierType {
	channels := make([]NotifierType, 0, len(m.notifiers))
	for name := range m.notifiers {
		channels = append(channels, name)
	}
	return channels
}

// riskRank orders risk levels for threshold checks
func riskRank(level types.RiskLevel) int {
	switch level {
	case types.RiskCritical:
		return 3
	case types.RiskHigh:
		return 2
	case types.RiskMedium:
		return 1
	default:
		return 0
	}
}

package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ignitrack/internal/config"
	"ignitrack/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func changeBatch() []types.ChangeRecord {
	return []types.ChangeRecord{
		{
			ID:           "1",
			FilePath:     "scripts/gateway/startup.py",
			ResourceType: types.ResourceGatewayScript,
			ChangeType:   types.ChangeModified,
			RiskLevel:    types.RiskCritical,
			Timestamp:    time.Now(),
		},
		{
			ID:           "2",
			FilePath:     "reports/shift.xml",
			ResourceType: types.ResourceReportTemplate,
			ChangeType:   types.ChangeCreated,
			RiskLevel:    types.RiskLow,
			Timestamp:    time.Now(),
		},
	}
}

// TestManagerFiltersByRiskLevel tests that only records at or above the
// threshold reach the channels
func TestManagerFiltersByRiskLevel(t *testing.T) {
	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.NotEmpty(t, r.Header.Get("X-Ignitrack-Signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.NotifyConfig{
		Enabled:      true,
		MinRiskLevel: "high",
		Webhook: config.WebhookConfig{
			Enabled: true,
			URL:     server.URL,
			Secret:  "test-secret",
			Timeout: 5 * time.Second,
		},
	}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, []NotifierType{NotifierWebhook}, m.Channels())

	m.NotifyChanges(changeBatch())

	assert.Equal(t, "changes.detected", received.EventType)
	assert.NotEmpty(t, received.EventID)
	require.Len(t, received.Changes, 1, "the low-risk record is filtered out")
	assert.Equal(t, "scripts/gateway/startup.py", received.Changes[0].FilePath)
}

// TestManagerDisabled tests that a disabled manager sends nothing
func TestManagerDisabled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.NotifyConfig{
		Enabled:      false,
		MinRiskLevel: "low",
		Webhook: config.WebhookConfig{
			Enabled: true,
			URL:     server.URL,
			Timeout: 5 * time.Second,
		},
	}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	m.NotifyChanges(changeBatch())
	assert.Zero(t, calls)
}

// TestManagerSurvivesChannelFailure tests that delivery errors stay local
func TestManagerSurvivesChannelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.NotifyConfig{
		Enabled:      true,
		MinRiskLevel: "low",
		Webhook: config.WebhookConfig{
			Enabled: true,
			URL:     server.URL,
			Timeout: 5 * time.Second,
		},
	}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	// Must not panic or propagate the HTTP failure.
	m.NotifyChanges(changeBatch())
}

// TestSlackNotifier tests the Slack message shape
func TestSlackNotifier(t *testing.T) {
	var msg SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n, err := NewSlackNotifier(&config.SlackConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Channel:    "#automation",
		Username:   "ignitrack",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, n.NotifyChanges(changeBatch()))

	assert.Equal(t, "#automation", msg.Channel)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "#8B0000", msg.Attachments[0].Color)
	assert.Equal(t, "good", msg.Attachments[1].Color)
}

// TestWebhookNotifierRequiresURL tests constructor validation
func TestWebhookNotifierRequiresURL(t *testing.T) {
	_, err := NewWebhookNotifier(&config.WebhookConfig{}, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType represents the kind of modification detected for a resource
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
	ChangeMoved    ChangeType = "moved"
)

// ResourceType represents the domain classification of a tracked artifact
type ResourceType string

const (
	ResourceVisionWindow     ResourceType = "vision_window"
	ResourcePerspectiveView  ResourceType = "perspective_view"
	ResourceGatewayScript    ResourceType = "gateway_script"
	ResourceTagConfiguration ResourceType = "tag_configuration"
	ResourceDatabaseConn     ResourceType = "database_connection"
	ResourceDeviceConn       ResourceType = "device_connection"
	ResourceSecurityConfig   ResourceType = "security_config"
	ResourceAlarmConfig      ResourceType = "alarm_config"
	ResourceUDTDefinition    ResourceType = "udt_definition"
	ResourceNamedQuery       ResourceType = "named_query"
	ResourceReportTemplate   ResourceType = "report_template"
	ResourceUnknown          ResourceType = "unknown"
)

// RiskLevel represents the qualitative risk bucket of a change
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ChangeRecord represents one detected modification to a tracked file
type ChangeRecord struct {
	ID           string         `json:"id"`
	FilePath     string         `json:"file_path"` // relative to the repository root
	ResourceType ResourceType   `json:"resource_type"`
	ChangeType   ChangeType     `json:"change_type"`
	Timestamp    time.Time      `json:"timestamp"`
	FileSize     int64          `json:"file_size"`
	ContentHash  string         `json:"content_hash"`            // SHA-256 hex, 64 chars
	PreviousHash string         `json:"previous_hash,omitempty"` // set only for modifications
	RiskLevel    RiskLevel      `json:"risk_level"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewChangeID generates a unique change record ID
func NewChangeID() string {
	return uuid.New().String()
}

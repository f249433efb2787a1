package tracker

import (
	"strings"

	"ignitrack/internal/types"
)

// Risk score weights. Determinism of the risk buckets depends on these
// exact values, so they are not configurable.
const (
	weightCreated  = 0.2
	weightModified = 0.4
	weightDeleted  = 0.6
	weightRelocate = 0.3 // renamed or moved

	weightResourceHigh = 0.4 // gateway scripts, security, database connections
	weightResourceMid  = 0.2 // tags, alarms, device connections
	weightResourceLow  = 0.1

	weightPathProduction = 0.3
	weightPathCritical   = 0.4
)

// ScoreChange computes the additive risk score for one change.
func ScoreChange(changeType types.ChangeType, resourceType types.ResourceType, path string) float64 {
	var score float64

	switch changeType {
	case types.ChangeCreated:
		score += weightCreated
	case types.ChangeModified:
		score += weightModified
	case types.ChangeDeleted:
		score += weightDeleted
	case types.ChangeRenamed, types.ChangeMoved:
		score += weightRelocate
	}

	switch resourceType {
	case types.ResourceGatewayScript, types.ResourceSecurityConfig, types.ResourceDatabaseConn:
		score += weightResourceHigh
	case types.ResourceTagConfiguration, types.ResourceAlarmConfig, types.ResourceDeviceConn:
		score += weightResourceMid
	default:
		score += weightResourceLow
	}

	p := strings.ToLower(path)
	if strings.Contains(p, "production") || strings.Contains(p, "prod") {
		score += weightPathProduction
	}
	if strings.Contains(p, "critical") {
		score += weightPathCritical
	}

	return score
}

// LevelForScore maps a score onto a risk level. Thresholds are inclusive.
func LevelForScore(score float64) types.RiskLevel {
	switch {
	case score >= 0.8:
		return types.RiskCritical
	case score >= 0.6:
		return types.RiskHigh
	case score >= 0.4:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// AssessRisk scores a change and returns its risk level.
func AssessRisk(changeType types.ChangeType, resourceType types.ResourceType, path string) types.RiskLevel {
	return LevelForScore(ScoreChange(changeType, resourceType, path))
}

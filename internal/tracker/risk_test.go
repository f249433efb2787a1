package tracker

import (
	"testing"

	"ignitrack/internal/types"

	"github.com/stretchr/testify/assert"
)

// TestScoreChange tests the additive risk score
func TestScoreChange(t *testing.T) {
	testCases := []struct {
		name         string
		changeType   types.ChangeType
		resourceType types.ResourceType
		path         string
		want         float64
	}{
		{"created tag config", types.ChangeCreated, types.ResourceTagConfiguration, "tags/Line1/config.json", 0.4},
		{"modified tag config", types.ChangeModified, types.ResourceTagConfiguration, "tags/Line1/config.json", 0.6},
		{"created unknown", types.ChangeCreated, types.ResourceUnknown, "misc/readme.xml", 0.3},
		{"modified gateway script", types.ChangeModified, types.ResourceGatewayScript, "scripts/gateway/startup.py", 0.8},
		{"deleted security config", types.ChangeDeleted, types.ResourceSecurityConfig, "security/roles.json", 1.0},
		{"renamed device connection", types.ChangeRenamed, types.ResourceDeviceConn, "devices/plc01.json", 0.5},
		{"production path bonus", types.ChangeCreated, types.ResourceUnknown, "production/misc.xml", 0.6},
		{"critical path bonus", types.ChangeCreated, types.ResourceUnknown, "critical/misc.xml", 0.7},
		{"both path bonuses stack", types.ChangeCreated, types.ResourceUnknown, "production/critical/misc.xml", 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ScoreChange(tc.changeType, tc.resourceType, tc.path), 1e-9)
		})
	}
}

// TestLevelForScore tests the inclusive risk thresholds
func TestLevelForScore(t *testing.T) {
	testCases := []struct {
		score float64
		want  types.RiskLevel
	}{
		{0.0, types.RiskLow},
		{0.39, types.RiskLow},
		{0.4, types.RiskMedium},
		{0.59, types.RiskMedium},
		{0.6, types.RiskHigh},
		{0.79, types.RiskHigh},
		{0.8, types.RiskCritical},
		{1.5, types.RiskCritical},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %v", tc.score)
	}
}

// TestRiskIsMonotoneInPathKeywords tests that adding risky path keywords
// never lowers the resulting level
func TestRiskIsMonotoneInPathKeywords(t *testing.T) {
	levelRank := map[types.RiskLevel]int{
		types.RiskLow:      0,
		types.RiskMedium:   1,
		types.RiskHigh:     2,
		types.RiskCritical: 3,
	}

	changeTypes := []types.ChangeType{
		types.ChangeCreated, types.ChangeModified, types.ChangeDeleted, types.ChangeRenamed,
	}
	resourceTypes := []types.ResourceType{
		types.ResourceGatewayScript, types.ResourceTagConfiguration, types.ResourceUnknown,
	}

	for _, ct := range changeTypes {
		for _, rt := range resourceTypes {
			base := AssessRisk(ct, rt, "plain/file.json")
			withProd := AssessRisk(ct, rt, "production/file.json")
			withCrit := AssessRisk(ct, rt, "critical/file.json")
			assert.GreaterOrEqual(t, levelRank[withProd], levelRank[base])
			assert.GreaterOrEqual(t, levelRank[withCrit], levelRank[base])
		}
	}
}

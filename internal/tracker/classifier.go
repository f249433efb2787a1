package tracker

import (
	"strings"

	"ignitrack/internal/types"
)

// DetermineResourceType classifies a repository-relative path into a resource type.
// Rules are checked in order and the first match wins; matching is case-insensitive.
// Paths that match nothing classify as unknown.
func DetermineResourceType(path string) types.ResourceType {
	p := strings.ToLower(path)

	switch {
	case strings.HasSuffix(p, ".proj"):
		return types.ResourceVisionWindow
	case strings.Contains(p, "perspective") && strings.HasSuffix(p, ".json"):
		return types.ResourcePerspectiveView
	case strings.Contains(p, "gateway") && strings.HasSuffix(p, ".py"):
		return types.ResourceGatewayScript
	case strings.Contains(p, "tag"):
		return types.ResourceTagConfiguration
	case strings.Contains(p, "database") || strings.Contains(p, "db"):
		return types.ResourceDatabaseConn
	case strings.Contains(p, "device"):
		return types.ResourceDeviceConn
	case strings.Contains(p, "security"):
		return types.ResourceSecurityConfig
	case strings.Contains(p, "alarm"):
		return types.ResourceAlarmConfig
	case strings.Contains(p, "udt"):
		return types.ResourceUDTDefinition
	case strings.HasSuffix(p, ".sql"):
		return types.ResourceNamedQuery
	case strings.Contains(p, "report"):
		return types.ResourceReportTemplate
	default:
		return types.ResourceUnknown
	}
}

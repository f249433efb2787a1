package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"ignitrack/internal/analysis"
)

// Report types. A comprehensive report contains every other section.
const (
	ReportSummary       = "summary"
	ReportConflicts     = "conflicts"
	ReportReleases      = "releases"
	ReportComprehensive = "comprehensive"
)

// ErrUnsupportedFormat marks a report format that is declared but not implemented
var ErrUnsupportedFormat = errors.New("unsupported report format")

// GenerateReport assembles the requested sections and serializes them. Unlike
// the analysis operations, reporting errors are returned to the caller; a
// silently empty report is worse than a visible failure.
func (m *Manager) GenerateReport(ctx context.Context, reportType, format, outputPath string) (map[string]any, error) {
	report := map[string]any{
		"report_type":  reportType,
		"generated_at": time.Now().UTC(),
		"repository":   m.cfg.Repository.Path,
	}

	switch reportType {
	case ReportSummary:
		report["summary"] = m.summarySection(ctx)
	case ReportConflicts:
		report["conflicts"] = m.conflictsSection(ctx)
	case ReportReleases:
		report["releases"] = m.releasesSection(ctx)
	case ReportComprehensive:
		report["summary"] = m.summarySection(ctx)
		report["conflicts"] = m.conflictsSection(ctx)
		report["releases"] = m.releasesSection(ctx)
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	switch format {
	case "json", "":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if outputPath != "" {
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(outputPath, raw, 0644); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	return report, nil
}

// summarySection collects repository status and recent change activity
func (m *Manager) summarySection(ctx context.Context) map[string]any {
	return map[string]any{
		"status":         m.RepositoryStatus(ctx),
		"changes":        m.changeTracker().Summarize(),
		"recent_changes": m.RecentChanges(20),
	}
}

// conflictsSection predicts conflicts for the current branch against main
func (m *Manager) conflictsSection(ctx context.Context) map[string]any {
	source := "working"
	if m.gitEnabled {
		if branch, err := m.git.CurrentBranch(m.cfg.Repository.Path); err == nil {
			source = branch
		}
	}
	return m.PredictMergeConflicts(ctx, analysis.ConflictOptions{SourceBranch: source})
}

// releasesSection plans an unversioned release over the pending changes
func (m *Manager) releasesSection(ctx context.Context) map[string]any {
	return m.PlanRelease(ctx, analysis.ReleaseOptions{Version: "unreleased"})
}

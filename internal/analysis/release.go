package analysis

import (
	"context"
	"sort"

	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// Release strategies. Unknown strategies fall back to incremental.
const (
	StrategyIncremental = "incremental"
	StrategyBigBang     = "big_bang"
)

// ReleasePhase represents one deployment phase of a planned release
type ReleasePhase struct {
	Phase       int             `json:"phase"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RiskLevel   types.RiskLevel `json:"risk_level"`
	Resources   []string        `json:"resources"`
}

// RiskAssessment represents the aggregate risk of a planned release
type RiskAssessment struct {
	OverallRisk         types.RiskLevel `json:"overall_risk"`
	HighRiskChanges     int             `json:"high_risk_changes"`
	TotalChanges        int             `json:"total_changes"`
	ImpactScore         float64         `json:"impact_score"`
	ConflictProbability float64         `json:"conflict_probability"`
}

// ReleasePlan represents a phased release plan
type ReleasePlan struct {
	Version         string         `json:"version"`
	Strategy        string         `json:"strategy"`
	PlannedChanges  []string       `json:"planned_changes"`
	ExcludedChanges []string       `json:"excluded_changes"`
	ReleasePhases   []ReleasePhase `json:"release_phases"`
	RiskAssessment  RiskAssessment `json:"risk_assessment"`
	Status          Status         `json:"status"`
}

// ReleaseOptions represents the inputs to release planning
type ReleaseOptions struct {
	Version        string
	Strategy       string
	IncludeChanges []string
	ExcludeChanges []string
}

// ReleasePlanner assembles phased release plans from the change stream and the
// impact/conflict analyzers. Plan execution is out of scope, so plans carry
// the placeholder status.
type ReleasePlanner struct {
	changes   ChangeSource
	impact    *CommitImpactAnalyzer
	conflicts *MergeConflictPredictor
	logger    *zap.Logger
}

// NewReleasePlanner creates a new release planner
func NewReleasePlanner(changes ChangeSource, impact *CommitImpactAnalyzer, conflicts *MergeConflictPredictor, logger *zap.Logger) *ReleasePlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReleasePlanner{changes: changes, impact: impact, conflicts: conflicts, logger: logger}
}

// PlanRelease selects changes and groups them into risk-ordered phases
func (p *ReleasePlanner) PlanRelease(ctx context.Context, opts ReleaseOptions) (*ReleasePlan, error) {
	if opts.Strategy == "" {
		opts.Strategy = StrategyIncremental
	}

	plan := &ReleasePlan{
		Version:         opts.Version,
		Strategy:        opts.Strategy,
		PlannedChanges:  []string{},
		ExcludedChanges: opts.ExcludeChanges,
		ReleasePhases:   []ReleasePhase{},
		Status:          StatusPlaceholder,
	}
	if plan.ExcludedChanges == nil {
		plan.ExcludedChanges = []string{}
	}

	selected := p.selectChanges(opts)
	if len(selected) == 0 {
		plan.RiskAssessment = RiskAssessment{OverallRisk: types.RiskLow}
		return plan, nil
	}

	byLevel := make(map[types.RiskLevel][]string)
	overall := types.RiskLow
	highRisk := 0
	for _, rec := range selected {
		plan.PlannedChanges = append(plan.PlannedChanges, rec.FilePath)
		byLevel[rec.RiskLevel] = append(byLevel[rec.RiskLevel], rec.FilePath)
		if riskRank(rec.RiskLevel) > riskRank(overall) {
			overall = rec.RiskLevel
		}
		if rec.RiskLevel == types.RiskHigh || rec.RiskLevel == types.RiskCritical {
			highRisk++
		}
	}
	sort.Strings(plan.PlannedChanges)

	plan.RiskAssessment = RiskAssessment{
		OverallRisk:     overall,
		HighRiskChanges: highRisk,
		TotalChanges:    len(selected),
	}

	if p.impact != nil {
		impact, err := p.impact.AnalyzeImpact(ctx, ImpactOptions{Files: plan.PlannedChanges})
		if err != nil {
			p.logger.Warn("Impact analysis failed during release planning",
				zap.String("version", opts.Version), zap.Error(err))
		} else {
			plan.RiskAssessment.ImpactScore = impact.ImpactScore
		}
	}

	if p.conflicts != nil {
		prediction, err := p.conflicts.PredictConflicts(ctx, ConflictOptions{
			SourceBranch: "release/" + opts.Version,
		})
		if err != nil {
			p.logger.Warn("Conflict prediction failed during release planning",
				zap.String("version", opts.Version), zap.Error(err))
		} else {
			plan.RiskAssessment.ConflictProbability = prediction.ConflictProbability
		}
	}

	if opts.Strategy == StrategyBigBang {
		plan.ReleasePhases = append(plan.ReleasePhases, ReleasePhase{
			Phase:       1,
			Name:        "full_deployment",
			Description: "Deploy every selected change in a single phase",
			RiskLevel:   overall,
			Resources:   plan.PlannedChanges,
		})
		return plan, nil
	}

	phaseOrder := []struct {
		level types.RiskLevel
		name  string
		desc  string
	}{
		{types.RiskLow, "low_risk_rollout", "Deploy low-risk changes first"},
		{types.RiskMedium, "medium_risk_rollout", "Deploy medium-risk changes after validation"},
		{types.RiskHigh, "high_risk_rollout", "Deploy high-risk changes under supervision"},
		{types.RiskCritical, "critical_rollout", "Deploy critical changes last, with rollback staged"},
	}

	phase := 1
	for _, stage := range phaseOrder {
		resources := byLevel[stage.level]
		if len(resources) == 0 {
			continue
		}
		sort.Strings(resources)
		plan.ReleasePhases = append(plan.ReleasePhases, ReleasePhase{
			Phase:       phase,
			Name:        stage.name,
			Description: stage.desc,
			RiskLevel:   stage.level,
			Resources:   resources,
		})
		phase++
	}

	return plan, nil
}

// selectChanges applies the include/exclude selection to recent changes,
// keeping the newest record per path.
func (p *ReleasePlanner) selectChanges(opts ReleaseOptions) []types.ChangeRecord {
	include := toSet(opts.IncludeChanges)
	exclude := toSet(opts.ExcludeChanges)

	var selected []types.ChangeRecord
	seen := make(map[string]struct{})
	for _, rec := range p.changes.RecentChanges(recentChangeWindow) {
		if _, dup := seen[rec.FilePath]; dup {
			continue
		}
		if _, excluded := exclude[rec.FilePath]; excluded {
			continue
		}
		if len(include) > 0 {
			if _, ok := include[rec.FilePath]; !ok {
				continue
			}
		}
		seen[rec.FilePath] = struct{}{}
		selected = append(selected, rec)
	}
	return selected
}

// toSet converts a slice to a membership set
func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

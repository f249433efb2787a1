package analysis

import (
	"context"
	"sort"

	"ignitrack/internal/tracker"
	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// recentChangeWindow is how many history records feed an impact assessment
// when no explicit file set is given.
const recentChangeWindow = 50

// ImpactOptions represents the inputs to an impact assessment
type ImpactOptions struct {
	CommitHash string
	Files      []string
	Detailed   bool
}

// FileImpact represents the per-file breakdown of a detailed assessment
type FileImpact struct {
	File         string             `json:"file"`
	ResourceType types.ResourceType `json:"resource_type"`
	Score        float64            `json:"score"`
	RiskLevel    types.RiskLevel    `json:"risk_level"`
}

// ImpactResult represents an aggregate impact assessment
type ImpactResult struct {
	CommitHash        string          `json:"commit_hash,omitempty"`
	Files             []string        `json:"files"`
	ImpactScore       float64         `json:"impact_score"`
	AffectedResources []string        `json:"affected_resources"`
	RiskLevel         types.RiskLevel `json:"risk_level"`
	Status            Status          `json:"status"`
	Details           []FileImpact    `json:"details,omitempty"`
}

// CommitImpactAnalyzer scores the blast radius of a commit or file set
type CommitImpactAnalyzer struct {
	changes ChangeSource
	deps    *DependencyAnalyzer
	logger  *zap.Logger
}

// NewCommitImpactAnalyzer creates a new impact analyzer
func NewCommitImpactAnalyzer(changes ChangeSource, deps *DependencyAnalyzer, logger *zap.Logger) *CommitImpactAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitImpactAnalyzer{changes: changes, deps: deps, logger: logger}
}

// AnalyzeImpact assesses the files named in opts, falling back to recent
// tracked changes when no file set is given. The impact score is the capped
// mean of the per-file risk scores.
func (a *CommitImpactAnalyzer) AnalyzeImpact(ctx context.Context, opts ImpactOptions) (*ImpactResult, error) {
	files := opts.Files
	changeTypes := make(map[string]types.ChangeType, len(files))

	if len(files) == 0 {
		for _, rec := range a.changes.RecentChanges(recentChangeWindow) {
			if _, seen := changeTypes[rec.FilePath]; seen {
				continue
			}
			files = append(files, rec.FilePath)
			changeTypes[rec.FilePath] = rec.ChangeType
		}
		sort.Strings(files)
	}

	result := &ImpactResult{
		CommitHash:        opts.CommitHash,
		Files:             files,
		AffectedResources: []string{},
		RiskLevel:         types.RiskLow,
		Status:            StatusCompleted,
	}
	if len(files) == 0 {
		return result, nil
	}

	affected := make(map[string]struct{})
	var total float64

	for _, file := range files {
		changeType, ok := changeTypes[file]
		if !ok {
			changeType = types.ChangeModified
		}
		resourceType := tracker.DetermineResourceType(file)
		score := tracker.ScoreChange(changeType, resourceType, file)
		total += score
		affected[file] = struct{}{}

		if opts.Detailed {
			result.Details = append(result.Details, FileImpact{
				File:         file,
				ResourceType: resourceType,
				Score:        score,
				RiskLevel:    tracker.LevelForScore(score),
			})
		}

		if a.deps != nil {
			depResult, err := a.deps.AnalyzeDependencies(ctx, file)
			if err != nil {
				a.logger.Warn("Dependency lookup failed during impact analysis",
					zap.String("file", file), zap.Error(err))
				continue
			}
			for _, dependent := range depResult.Dependents {
				affected[dependent] = struct{}{}
			}
		}
	}

	score := total / float64(len(files))
	if score > 1.0 {
		score = 1.0
	}
	result.ImpactScore = score
	result.RiskLevel = tracker.LevelForScore(score)

	for path := range affected {
		result.AffectedResources = append(result.AffectedResources, path)
	}
	sort.Strings(result.AffectedResources)

	return result, nil
}

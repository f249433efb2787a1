// Package manager wires the change tracker and the analyzers behind a single
// façade. Analysis components are constructed lazily, once, on first use;
// every public analysis operation returns a result map and never propagates
// an error value past this boundary.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"ignitrack/internal/analysis"
	"ignitrack/internal/cache"
	"ignitrack/internal/config"
	"ignitrack/internal/data/connection"
	"ignitrack/internal/gitutil"
	"ignitrack/internal/notify"
	"ignitrack/internal/retry"
	"ignitrack/internal/tracker"
	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// Manager represents the version-control intelligence façade
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger

	git      gitutil.Git
	conns    *connection.Connections
	gateway  any
	notifier *notify.Manager
	results  *cache.ResultCache

	mu          sync.Mutex
	initialized bool
	gitEnabled  bool

	tracker   *tracker.ChangeTracker
	deps      *analysis.DependencyAnalyzer
	impact    *analysis.CommitImpactAnalyzer
	conflicts *analysis.MergeConflictPredictor
	releases  *analysis.ReleasePlanner
}

// Option configures optional manager collaborators
type Option func(*Manager)

// WithGit overrides the version-control tool wrapper
func WithGit(git gitutil.Git) Option {
	return func(m *Manager) { m.git = git }
}

// WithConnections supplies the optional data-layer clients
func WithConnections(conns *connection.Connections) Option {
	return func(m *Manager) { m.conns = conns }
}

// WithGateway supplies an opaque gateway handle; presence-checked only
func WithGateway(gateway any) Option {
	return func(m *Manager) { m.gateway = gateway }
}

// WithNotifier supplies the change-alert manager
func WithNotifier(notifier *notify.Manager) Option {
	return func(m *Manager) { m.notifier = notifier }
}

// New creates a new manager
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		cfg:        cfg,
		logger:     logger,
		git:        gitutil.NewCLI(),
		gitEnabled: cfg.Repository.GitEnabled,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.conns != nil && cfg.Repository.CacheEnabled {
		m.results = cache.New(m.conns.Cache, cfg.Repository.CacheTTL, logger)
	} else {
		m.results = cache.New(nil, cfg.Repository.CacheTTL, logger)
	}

	return m
}

// Initialize validates the repository and arms the configured collaborators.
// It never returns an error; any validation failure is logged and reported
// as false.
func (m *Manager) Initialize(ctx context.Context) bool {
	repoPath := m.cfg.Repository.Path

	info, err := os.Stat(repoPath)
	if err != nil || !info.IsDir() {
		m.logger.Error("Repository path does not exist",
			zap.String("path", repoPath), zap.Error(err))
		return false
	}

	if m.gitEnabled && !m.git.IsRepository(repoPath) {
		m.logger.Warn("No version-control metadata found, disabling git integration",
			zap.String("path", repoPath))
		m.gitEnabled = false
	}

	if m.conns != nil && m.conns.Graph != nil && m.conns.GraphConnected(ctx) {
		err := retry.Execute(ctx, retry.DefaultConfig(), m.logger, func(ctx context.Context) error {
			return m.conns.Graph.BootstrapSchema(ctx)
		})
		if err != nil {
			m.logger.Error("Graph schema bootstrap failed", zap.Error(err))
			return false
		}
	}

	if m.cfg.Repository.AutoTrackChanges {
		m.changeTracker()
	}

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()

	m.logger.Info("Manager initialized",
		zap.String("repository", repoPath),
		zap.Bool("git_enabled", m.gitEnabled))
	return true
}

// ScanForChanges runs one scan and fans high-risk alerts out to the
// configured channels
func (m *Manager) ScanForChanges() ([]types.ChangeRecord, error) {
	changes, err := m.changeTracker().ScanForChanges()
	if err != nil {
		return nil, err
	}

	if m.notifier != nil && len(changes) > 0 {
		m.notifier.NotifyChanges(changes)
	}
	return changes, nil
}

// RecentChanges returns the newest records from the tracker's history
func (m *Manager) RecentChanges(limit int) []types.ChangeRecord {
	return m.changeTracker().RecentChanges(limit)
}

// AnalyzeCommitImpact assesses the impact of a commit or file set
func (m *Manager) AnalyzeCommitImpact(ctx context.Context, opts analysis.ImpactOptions) map[string]any {
	if !m.cfg.Repository.ImpactAnalysisEnabled {
		return disabledResult("impact analysis")
	}

	key := cache.Key("impact", opts.CommitHash, strings.Join(opts.Files, ","), strconv.FormatBool(opts.Detailed))
	if cached, ok := m.results.Get(ctx, key); ok {
		return cached
	}

	result, err := m.impactAnalyzer().AnalyzeImpact(ctx, opts)
	if err != nil {
		return failureResult(err)
	}

	out := toMap(result)
	m.results.Set(ctx, key, out)
	return out
}

// PredictMergeConflicts predicts overlapping-resource conflicts between two
// branches
func (m *Manager) PredictMergeConflicts(ctx context.Context, opts analysis.ConflictOptions) map[string]any {
	if !m.cfg.Repository.ConflictPredictionEnabled {
		return disabledResult("conflict prediction")
	}

	key := cache.Key("conflicts", opts.SourceBranch, opts.TargetBranch, strconv.FormatBool(opts.Detailed))
	if cached, ok := m.results.Get(ctx, key); ok {
		return cached
	}

	result, err := m.conflictPredictor().PredictConflicts(ctx, opts)
	if err != nil {
		return failureResult(err)
	}

	out := toMap(result)
	m.results.Set(ctx, key, out)
	return out
}

// PlanRelease assembles a phased release plan for a version
func (m *Manager) PlanRelease(ctx context.Context, opts analysis.ReleaseOptions) map[string]any {
	if !m.cfg.Repository.ReleasePlanningEnabled {
		return disabledResult("release planning")
	}

	key := cache.Key("release", opts.Version, opts.Strategy,
		strings.Join(opts.IncludeChanges, ","), strings.Join(opts.ExcludeChanges, ","))
	if cached, ok := m.results.Get(ctx, key); ok {
		return cached
	}

	result, err := m.releasePlanner().PlanRelease(ctx, opts)
	if err != nil {
		return failureResult(err)
	}

	out := toMap(result)
	m.results.Set(ctx, key, out)
	return out
}

// AnalyzeDependencies resolves the relationships of one resource
func (m *Manager) AnalyzeDependencies(ctx context.Context, resourcePath string) map[string]any {
	result, err := m.dependencyAnalyzer().AnalyzeDependencies(ctx, resourcePath)
	if err != nil {
		return failureResult(err)
	}
	return toMap(result)
}

// RepositoryStatus returns a snapshot of configuration, lazily built
// components, collaborator connectivity and, when git is enabled, the
// working-tree state.
func (m *Manager) RepositoryStatus(ctx context.Context) map[string]any {
	m.mu.Lock()
	status := map[string]any{
		"repository_path": m.cfg.Repository.Path,
		"initialized":     m.initialized,
		"config": map[string]any{
			"git_enabled":                 m.gitEnabled,
			"auto_track_changes":          m.cfg.Repository.AutoTrackChanges,
			"impact_analysis_enabled":     m.cfg.Repository.ImpactAnalysisEnabled,
			"conflict_prediction_enabled": m.cfg.Repository.ConflictPredictionEnabled,
			"release_planning_enabled":    m.cfg.Repository.ReleasePlanningEnabled,
			"cache_enabled":               m.cfg.Repository.CacheEnabled,
			"risk_threshold":              m.cfg.Repository.RiskThreshold,
		},
		"components": map[string]any{
			"change_tracker":      m.tracker != nil,
			"dependency_analyzer": m.deps != nil,
			"impact_analyzer":     m.impact != nil,
			"conflict_predictor":  m.conflicts != nil,
			"release_planner":     m.releases != nil,
		},
	}
	trackerRef := m.tracker
	gitEnabled := m.gitEnabled
	m.mu.Unlock()

	status["collaborators"] = map[string]any{
		"graph_connected": m.conns.GraphConnected(ctx),
		"cache_connected": m.conns.CacheConnected(ctx),
		"gateway_present": m.gateway != nil,
		"alerts_enabled":  m.notifier != nil,
	}

	if trackerRef != nil {
		status["tracking"] = trackerRef.Summarize()
	}

	if gitEnabled {
		status["git"] = m.gitStatus()
	}

	return status
}

// gitStatus collects branch and working-tree state from the external tool
func (m *Manager) gitStatus() map[string]any {
	git := map[string]any{}

	branch, err := m.git.CurrentBranch(m.cfg.Repository.Path)
	if err != nil {
		m.logger.Warn("Failed to resolve current branch", zap.Error(err))
	} else {
		git["branch"] = branch
	}

	entries, err := m.git.PorcelainStatus(m.cfg.Repository.Path)
	if err != nil {
		m.logger.Warn("Failed to read working-tree status", zap.Error(err))
		return git
	}

	changes := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		changes = append(changes, map[string]any{
			"status": entry.Status,
			"file":   entry.File,
		})
	}
	git["clean"] = len(entries) == 0
	git["changes"] = changes
	return git
}

// changeTracker returns the lazily constructed change tracker
func (m *Manager) changeTracker() *tracker.ChangeTracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tracker == nil {
		m.tracker = tracker.New(m.cfg.Repository.Path, &tracker.Config{
			Patterns:        m.cfg.Repository.Patterns,
			DetectDeletions: m.cfg.Repository.DetectDeletions,
		}, m.logger)
	}
	return m.tracker
}

// dependencyAnalyzer returns the lazily constructed dependency analyzer
func (m *Manager) dependencyAnalyzer() *analysis.DependencyAnalyzer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dependencyAnalyzerLocked()
}

func (m *Manager) dependencyAnalyzerLocked() *analysis.DependencyAnalyzer {
	if m.deps == nil {
		var graph analysis.GraphQuerier
		if m.conns != nil && m.conns.Graph != nil {
			graph = m.conns.Graph
		}
		m.deps = analysis.NewDependencyAnalyzer(graph, m.logger)
	}
	return m.deps
}

// impactAnalyzer returns the lazily constructed impact analyzer
func (m *Manager) impactAnalyzer() *analysis.CommitImpactAnalyzer {
	changes := m.changeTracker()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.impactAnalyzerLocked(changes)
}

func (m *Manager) impactAnalyzerLocked(changes analysis.ChangeSource) *analysis.CommitImpactAnalyzer {
	if m.impact == nil {
		m.impact = analysis.NewCommitImpactAnalyzer(changes, m.dependencyAnalyzerLocked(), m.logger)
	}
	return m.impact
}

// conflictPredictor returns the lazily constructed conflict predictor
func (m *Manager) conflictPredictor() *analysis.MergeConflictPredictor {
	changes := m.changeTracker()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflictPredictorLocked(changes)
}

func (m *Manager) conflictPredictorLocked(changes analysis.ChangeSource) *analysis.MergeConflictPredictor {
	if m.conflicts == nil {
		m.conflicts = analysis.NewMergeConflictPredictor(changes, m.dependencyAnalyzerLocked(), m.logger)
	}
	return m.conflicts
}

// releasePlanner returns the lazily constructed release planner
func (m *Manager) releasePlanner() *analysis.ReleasePlanner {
	changes := m.changeTracker()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.releases == nil {
		m.releases = analysis.NewReleasePlanner(changes,
			m.impactAnalyzerLocked(changes),
			m.conflictPredictorLocked(changes),
			m.logger)
	}
	return m.releases
}

// disabledResult is the tagged result for a capability that is switched off
func disabledResult(capability string) map[string]any {
	return map[string]any{
		"error":      fmt.Sprintf("%s is disabled", capability),
		"error_kind": string(analysis.ErrorKindDisabled),
	}
}

// failureResult is the tagged result for a genuine analyzer failure
func failureResult(err error) map[string]any {
	return map[string]any{
		"error":      err.Error(),
		"error_kind": string(analysis.ErrorKindFailure),
	}
}

// toMap converts a typed result into the map shape of the public surface
func toMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return failureResult(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return failureResult(err)
	}
	return out
}

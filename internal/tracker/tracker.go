package tracker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// DefaultPatterns are the file globs scanned when none are configured.
var DefaultPatterns = []string{"*.proj", "*.json", "*.xml", "*.py", "*.sql", "*.gwbk"}

// hashChunkSize bounds peak memory while hashing, independent of file size.
const hashChunkSize = 64 * 1024

// Config represents change tracker configuration
type Config struct {
	Patterns        []string `mapstructure:"patterns"`
	DetectDeletions bool     `mapstructure:"detect_deletions"`
}

// fileState is the tracking-table entry for one observed path
type fileState struct {
	hash     string
	size     int64
	lastSeen time.Time
}

// ChangeTracker detects resource changes under a repository root by content
// hash. State is per instance, so multiple repositories can be tracked in one
// process. All methods are safe for concurrent use on a single instance.
type ChangeTracker struct {
	mu      sync.RWMutex
	root    string
	config  *Config
	logger  *zap.Logger
	tracked map[string]*fileState
	history []types.ChangeRecord
}

// New creates a new change tracker rooted at the given repository path
func New(root string, cfg *Config, logger *zap.Logger) *ChangeTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns
	}

	return &ChangeTracker{
		root:    root,
		config:  cfg,
		logger:  logger,
		tracked: make(map[string]*fileState),
	}
}

// ScanForChanges walks the repository root and returns the changes detected
// by this call. A file whose bytes are unchanged since the last scan emits
// nothing; an unreadable file is skipped and the scan continues.
func (t *ChangeTracker) ScanForChanges() ([]types.ChangeRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []types.ChangeRecord
	seen := make(map[string]struct{})
	now := time.Now()

	err := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			t.logger.Warn("Skipping unreadable path",
				zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !t.matches(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(t.root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = struct{}{}

		record, err := t.checkFile(path, rel, now)
		if err != nil {
			t.logger.Warn("Skipping file after scan error",
				zap.String("path", rel), zap.Error(err))
			return nil
		}
		if record != nil {
			changes = append(changes, *record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}

	if t.config.DetectDeletions {
		changes = append(changes, t.detectDeletions(seen, now)...)
	}

	t.history = append(t.history, changes...)

	if len(changes) > 0 {
		t.logger.Info("Scan detected changes",
			zap.Int("count", len(changes)),
			zap.Int("tracked_files", len(t.tracked)))
	}

	return changes, nil
}

// checkFile hashes one file and returns a change record if the file is new
// or its content differs from the tracking-table entry.
func (t *ChangeTracker) checkFile(path, rel string, now time.Time) (*types.ChangeRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat failed: %w", err)
	}

	hash, err := hashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash failed: %w", err)
	}

	prev, known := t.tracked[rel]
	if known && prev.hash == hash {
		prev.lastSeen = now
		return nil, nil
	}

	changeType := types.ChangeCreated
	previousHash := ""
	if known {
		changeType = types.ChangeModified
		previousHash = prev.hash
	}

	t.tracked[rel] = &fileState{hash: hash, size: info.Size(), lastSeen: now}

	resourceType := DetermineResourceType(rel)
	record := &types.ChangeRecord{
		ID:           types.NewChangeID(),
		FilePath:     rel,
		ResourceType: resourceType,
		ChangeType:   changeType,
		Timestamp:    now,
		FileSize:     info.Size(),
		ContentHash:  hash,
		PreviousHash: previousHash,
		RiskLevel:    AssessRisk(changeType, resourceType, rel),
	}
	return record, nil
}

// detectDeletions synthesizes DELETED records for tracked paths missing from
// the current scan and retires their tracking entries.
func (t *ChangeTracker) detectDeletions(seen map[string]struct{}, now time.Time) []types.ChangeRecord {
	var deleted []types.ChangeRecord

	for rel, state := range t.tracked {
		if _, ok := seen[rel]; ok {
			continue
		}
		resourceType := DetermineResourceType(rel)
		deleted = append(deleted, types.ChangeRecord{
			ID:           types.NewChangeID(),
			FilePath:     rel,
			ResourceType: resourceType,
			ChangeType:   types.ChangeDeleted,
			Timestamp:    now,
			FileSize:     state.size,
			ContentHash:  state.hash,
			RiskLevel:    AssessRisk(types.ChangeDeleted, resourceType, rel),
		})
		delete(t.tracked, rel)
	}

	sort.Slice(deleted, func(i, j int) bool {
		return deleted[i].FilePath < deleted[j].FilePath
	})
	return deleted
}

// RecentChanges returns history sorted newest first, truncated to limit.
// Records with equal timestamps keep their insertion order.
func (t *ChangeTracker) RecentChanges(limit int) []types.ChangeRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	recent := make([]types.ChangeRecord, len(t.history))
	copy(recent, t.history)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// Summary represents aggregate counts over the tracker's history
type Summary struct {
	TotalChanges    int                        `json:"total_changes"`
	TrackedFiles    int                        `json:"tracked_files"`
	ByChangeType    map[types.ChangeType]int   `json:"by_change_type"`
	ByResourceType  map[types.ResourceType]int `json:"by_resource_type"`
	ByRiskLevel     map[types.RiskLevel]int    `json:"by_risk_level"`
	LastChangeTime  time.Time                  `json:"last_change_time"`
	HighRiskChanges int                        `json:"high_risk_changes"`
}

// Summarize returns aggregate counts over everything seen so far
func (t *ChangeTracker) Summarize() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Summary{
		TotalChanges:   len(t.history),
		TrackedFiles:   len(t.tracked),
		ByChangeType:   make(map[types.ChangeType]int),
		ByResourceType: make(map[types.ResourceType]int),
		ByRiskLevel:    make(map[types.RiskLevel]int),
	}
	for _, rec := range t.history {
		s.ByChangeType[rec.ChangeType]++
		s.ByResourceType[rec.ResourceType]++
		s.ByRiskLevel[rec.RiskLevel]++
		if rec.Timestamp.After(s.LastChangeTime) {
			s.LastChangeTime = rec.Timestamp
		}
		if rec.RiskLevel == types.RiskHigh || rec.RiskLevel == types.RiskCritical {
			s.HighRiskChanges++
		}
	}
	return s
}

// TrackedCount returns the number of tracking-table entries
func (t *ChangeTracker) TrackedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tracked)
}

// Root returns the repository root this tracker scans
func (t *ChangeTracker) Root() string {
	return t.root
}

// matches reports whether a file name matches any configured pattern
func (t *ChangeTracker) matches(name string) bool {
	for _, pattern := range t.config.Patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// hashFile computes the SHA-256 digest of a file's bytes in fixed-size chunks
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

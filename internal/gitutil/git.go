// Package gitutil wraps the external version-control tool behind a small
// interface so callers stay unit-testable without a real repository.
package gitutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// StatusEntry represents one line of porcelain status output
type StatusEntry struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

// Git exposes the repository queries the manager needs
type Git interface {
	// IsRepository reports whether the directory holds version-control metadata
	IsRepository(dir string) bool

	// CurrentBranch returns the checked-out branch name
	CurrentBranch(dir string) (string, error)

	// PorcelainStatus returns the working-tree status entries
	PorcelainStatus(dir string) ([]StatusEntry, error)
}

// CLI implements Git by shelling out to the git binary
type CLI struct{}

// NewCLI creates a new CLI-backed Git
func NewCLI() *CLI {
	return &CLI{}
}

// IsRepository checks for a .git directory; existence only, no content parsing
func (g *CLI) IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// CurrentBranch returns the current branch via rev-parse
func (g *CLI) CurrentBranch(dir string) (string, error) {
	out, err := g.run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PorcelainStatus returns the parsed output of `git status --porcelain`
func (g *CLI) PorcelainStatus(dir string) ([]StatusEntry, error) {
	out, err := g.run(dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to read working-tree status: %w", err)
	}
	return ParsePorcelain(out), nil
}

// run executes a git subcommand in dir and returns its stdout
func (g *CLI) run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// ParsePorcelain parses line-oriented `XY path` status output
func ParsePorcelain(out string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		status := strings.TrimSpace(line[:2])
		file := strings.TrimSpace(line[3:])
		if file == "" {
			continue
		}
		entries = append(entries, StatusEntry{Status: status, File: file})
	}
	return entries
}

// Package progress persists per-variant play results between runs.
package progress

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VariantRecord is the saved state for one game variant.
type VariantRecord struct {
	CurrentLevel string   `yaml:"current_level"`
	Completed    []string `yaml:"completed"`
	Attempts     int      `yaml:"attempts"`
	Wins         int      `yaml:"wins"`
	BestScore    int      `yaml:"best_score"`
	BestStreak   int      `yaml:"best_streak"`
	streak       int
}

// Progress holds the records for every variant, keyed by variant name.
type Progress struct {
	Variants map[string]*VariantRecord `yaml:"variants"`
	path     string
}

// New returns an empty progress store that saves to path.
func New(path string) *Progress {
	return &Progress{
		Variants: make(map[string]*VariantRecord),
		path:     path,
	}
}

// DefaultPath places the save file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("progress: config dir: %w", err)
	}
	return filepath.Join(dir, "pandrop", "progress.yaml"), nil
}

// Load reads progress from path. A missing file yields an empty store, not
// an error; a corrupt file does too, so stale saves never block startup.
func Load(path string) *Progress {
	p := New(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return New(path)
	}
	if p.Variants == nil {
		p.Variants = make(map[string]*VariantRecord)
	}
	p.path = path
	return p
}

// Save writes the store to its path, creating parent directories.
func (p *Progress) Save() error {
	if p == nil || p.path == "" {
		return nil
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("progress: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("progress: mkdir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("progress: write: %w", err)
	}
	return nil
}

// Record returns the record for a variant, creating it on first use.
func (p *Progress) Record(variant string) *VariantRecord {
	if p.Variants == nil {
		p.Variants = make(map[string]*VariantRecord)
	}
	r, ok := p.Variants[variant]
	if !ok {
		r = &VariantRecord{}
		p.Variants[variant] = r
	}
	return r
}

// RecordAttempt counts one dispensed piece.
func (p *Progress) RecordAttempt(variant string) {
	p.Record(variant).Attempts++
}

// RecordWin counts a cleared level and marks it completed.
func (p *Progress) RecordWin(variant, level string) {
	r := p.Record(variant)
	r.Wins++
	r.streak++
	if r.streak > r.BestStreak {
		r.BestStreak = r.streak
	}
	r.CurrentLevel = level
	for _, done := range r.Completed {
		if done == level {
			return
		}
	}
	r.Completed = append(r.Completed, level)
}

// RecordScore keeps the best score seen for a variant.
func (p *Progress) RecordScore(variant string, score int) {
	r := p.Record(variant)
	if score > r.BestScore {
		r.BestScore = score
	}
}

// RecordLoss resets the running streak.
func (p *Progress) RecordLoss(variant string) {
	p.Record(variant).streak = 0
}

// IsCompleted reports whether a level has ever been cleared.
func (p *Progress) IsCompleted(variant, level string) bool {
	r, ok := p.Variants[variant]
	if !ok {
		return false
	}
	for _, done := range r.Completed {
		if done == level {
			return true
		}
	}
	return false
}

package domain

import (
	"context"
	"fmt"
	"io"
	"math"
)

// QualityLevel is the total order over the maintainability index
type QualityLevel string

const (
	QualityExcellent QualityLevel = "excellent"
	QualityGood      QualityLevel = "good"
	QualityFair      QualityLevel = "fair"
	QualityPoor      QualityLevel = "poor"
	QualityCritical  QualityLevel = "critical"
)

// Sub-score category keys. These name the dimensions of the
// maintainability index in SubScores, Weights and Breakdown maps.
const (
	ScoreComplexity    = "complexity"
	ScoreDuplication   = "duplication"
	ScoreDocumentation = "documentation"
	ScoreNaming        = "naming"
	ScoreStructure     = "structure"
	ScoreTestCoverage  = "test_coverage"
)

// ScoreCategories returns all sub-score keys in display order
func ScoreCategories() []string {
	return []string{
		ScoreComplexity,
		ScoreDuplication,
		ScoreDocumentation,
		ScoreNaming,
		ScoreStructure,
		ScoreTestCoverage,
	}
}

// QualityWeights holds the contribution of each sub-score to the overall
// index. The weights must sum to 1.0; running with an unvalidated weight
// table silently corrupts every score, so Validate is mandatory before use.
type QualityWeights struct {
	Complexity    float64 `json:"complexity" yaml:"complexity"`
	Duplication   float64 `json:"duplication" yaml:"duplication"`
	Documentation float64 `json:"documentation" yaml:"documentation"`
	Naming        float64 `json:"naming" yaml:"naming"`
	Structure     float64 `json:"structure" yaml:"structure"`
	TestCoverage  float64 `json:"test_coverage" yaml:"test_coverage"`
}

// Validate checks that the weights are non-negative and sum to 1.0
func (w QualityWeights) Validate() error {
	for category, weight := range w.AsMap() {
		if weight < 0 {
			return NewConfigError(fmt.Sprintf("weight for %s must not be negative", category), nil)
		}
	}
	sum := w.Complexity + w.Duplication + w.Documentation + w.Naming + w.Structure + w.TestCoverage
	if math.Abs(sum-1.0) > 0.001 {
		return NewConfigError(fmt.Sprintf("quality weights must sum to 1.0, got %.3f", sum), nil)
	}
	return nil
}

// AsMap returns the weights keyed by score category
func (w QualityWeights) AsMap() map[string]float64 {
	return map[string]float64{
		ScoreComplexity:    w.Complexity,
		ScoreDuplication:   w.Duplication,
		ScoreDocumentation: w.Documentation,
		ScoreNaming:        w.Naming,
		ScoreStructure:     w.Structure,
		ScoreTestCoverage:  w.TestCoverage,
	}
}

// QualityLevelThresholds holds the cut points mapping the overall index to
// a QualityLevel
type QualityLevelThresholds struct {
	Excellent float64 `json:"excellent" yaml:"excellent"`
	Good      float64 `json:"good" yaml:"good"`
	Fair      float64 `json:"fair" yaml:"fair"`
	Poor      float64 `json:"poor" yaml:"poor"`
}

// Level maps an overall index to its quality level
func (t QualityLevelThresholds) Level(index float64) QualityLevel {
	switch {
	case index >= t.Excellent:
		return QualityExcellent
	case index >= t.Good:
		return QualityGood
	case index >= t.Fair:
		return QualityFair
	case index >= t.Poor:
		return QualityPoor
	default:
		return QualityCritical
	}
}

// MaintainabilityReport aggregates sub-scores into one weighted index
type MaintainabilityReport struct {
	// Per-category 0-100 sub-scores
	SubScores map[string]float64 `json:"sub_scores" yaml:"sub_scores"`

	// The weight table the index was computed with
	Weights map[string]float64 `json:"weights" yaml:"weights"`

	// Per-category weighted contribution (weight x sub-score)
	Breakdown map[string]float64 `json:"breakdown" yaml:"breakdown"`

	// Weighted sum of sub-scores, 0-100
	OverallIndex float64 `json:"overall_index" yaml:"overall_index"`

	// Quality level derived from the index
	Level QualityLevel `json:"level" yaml:"level"`

	// One fixed message per category scoring below the recommendation
	// threshold; fully deterministic
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// QualityRequest represents a request for maintainability assessment
type QualityRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Externally supplied sub-scores (0-100) that replace the computed
	// heuristics, keyed by score category
	ScoreOverrides map[string]float64

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	NoProgress      bool
	Concurrency     int
}

// QualityResponse represents the complete assessment result
type QualityResponse struct {
	Report *MaintainabilityReport `json:"report" yaml:"report"`

	// Counts so partial failure stays visible
	FilesAnalyzed  int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSubmitted int `json:"files_submitted" yaml:"files_submitted"`

	// Files excluded from the run with reasons
	SkippedFiles []SkippedFile `json:"skipped_files,omitempty" yaml:"skipped_files,omitempty"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	Duration    int64  `json:"duration_ms" yaml:"duration_ms"`
	Success     bool   `json:"success" yaml:"success"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// QualityService defines the core business logic for maintainability assessment
type QualityService interface {
	// Assess computes the maintainability report for the given request
	Assess(ctx context.Context, req *QualityRequest) (*QualityResponse, error)
}

// QualityOutputFormatter defines the interface for formatting quality results
type QualityOutputFormatter interface {
	Format(response *QualityResponse, format OutputFormat) (string, error)
	Write(response *QualityResponse, format OutputFormat, writer io.Writer) error
}

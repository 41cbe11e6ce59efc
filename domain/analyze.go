package domain

import "time"

// AnalyzeSummary provides the top-level numbers for a combined run
type AnalyzeSummary struct {
	TotalFiles    int `json:"total_files" yaml:"total_files"`
	AnalyzedFiles int `json:"analyzed_files" yaml:"analyzed_files"`
	SkippedFiles  int `json:"skipped_files" yaml:"skipped_files"`

	ComplexityEnabled bool `json:"complexity_enabled" yaml:"complexity_enabled"`
	ClonesEnabled     bool `json:"clones_enabled" yaml:"clones_enabled"`
	QualityEnabled    bool `json:"quality_enabled" yaml:"quality_enabled"`

	// Complexity rollup
	TotalFunctions        int     `json:"total_functions" yaml:"total_functions"`
	AverageComplexity     float64 `json:"average_complexity" yaml:"average_complexity"`
	HighComplexityCount   int     `json:"high_complexity_count" yaml:"high_complexity_count"`
	MediumComplexityCount int     `json:"medium_complexity_count" yaml:"medium_complexity_count"`

	// Duplication rollup
	TotalClonePairs       int     `json:"total_clone_pairs" yaml:"total_clone_pairs"`
	TotalCloneGroups      int     `json:"total_clone_groups" yaml:"total_clone_groups"`
	DuplicationPercentage float64 `json:"duplication_percentage" yaml:"duplication_percentage"`

	// Maintainability rollup
	MaintainabilityIndex float64      `json:"maintainability_index" yaml:"maintainability_index"`
	QualityLevel         QualityLevel `json:"quality_level" yaml:"quality_level"`
}

// AnalyzeResponse bundles the responses of a combined analysis run
type AnalyzeResponse struct {
	Complexity *ComplexityResponse `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Clones     *CloneResponse      `json:"clones,omitempty" yaml:"clones,omitempty"`
	Quality    *QualityResponse    `json:"quality,omitempty" yaml:"quality,omitempty"`

	Summary AnalyzeSummary `json:"summary" yaml:"summary"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Duration    int64     `json:"duration_ms" yaml:"duration_ms"`
	Version     string    `json:"version" yaml:"version"`
}

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
	"github.com/ludo-technologies/codescan/internal/version"
)

// AnalyzeConfig holds configuration for the analyze use case
type AnalyzeConfig struct {
	EnableComplexity bool
	EnableClones     bool
	EnableQuality    bool

	// Complexity options
	MinComplexity   int
	MaxComplexity   int
	MediumThreshold int
	HighThreshold   int

	// Clone detection options
	MinLines  int
	MinTokens int
	MinNodes  int

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer

	// File options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Execution options
	NoProgress  bool
	Concurrency int
}

// DefaultAnalyzeConfig returns default configuration
func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		EnableComplexity: true,
		EnableClones:     true,
		EnableQuality:    true,
		MinComplexity:    1,
		MaxComplexity:    0,
		MediumThreshold:  constants.DefaultCyclomaticMedium,
		HighThreshold:    constants.DefaultCyclomaticHigh,
		OutputFormat:     domain.OutputFormatText,
		Recursive:        true,
	}
}

// AnalyzeUseCase orchestrates the combined analysis run. The file set is
// resolved once and shared by all enabled analyses.
type AnalyzeUseCase struct {
	complexityUseCase *ComplexityUseCase
	cloneUseCase      *CloneUseCase
	qualityUseCase    *QualityUseCase
	fileHelper        *FileHelper
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase(
	complexityUseCase *ComplexityUseCase,
	cloneUseCase *CloneUseCase,
	qualityUseCase *QualityUseCase,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		complexityUseCase: complexityUseCase,
		cloneUseCase:      cloneUseCase,
		qualityUseCase:    qualityUseCase,
		fileHelper:        NewFileHelper(),
	}
}

// AnalyzeResult holds the results of a combined analysis run
type AnalyzeResult struct {
	Complexity *domain.ComplexityResponse
	Clones     *domain.CloneResponse
	Quality    *domain.QualityResponse
	Summary    *domain.AnalyzeSummary
	Duration   time.Duration
}

// Execute performs the combined analysis
func (uc *AnalyzeUseCase) Execute(ctx context.Context, config AnalyzeConfig, paths []string) (*AnalyzeResult, error) {
	startTime := time.Now()

	if len(paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths specified", nil)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		paths,
		config.Recursive,
		config.IncludePatterns,
		config.ExcludePatterns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to collect source files: %w", err)
	}

	result := &AnalyzeResult{
		Summary: &domain.AnalyzeSummary{
			TotalFiles: len(files),
		},
	}

	if config.EnableComplexity && uc.complexityUseCase != nil {
		req := domain.ComplexityRequest{
			Paths:           files,
			MinComplexity:   config.MinComplexity,
			MaxComplexity:   config.MaxComplexity,
			MediumThreshold: config.MediumThreshold,
			HighThreshold:   config.HighThreshold,
			SortBy:          domain.SortByComplexity,
			NoProgress:      config.NoProgress,
			Concurrency:     config.Concurrency,
		}

		response, err := uc.complexityUseCase.service.Analyze(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
		} else {
			result.Complexity = response
			result.Summary.ComplexityEnabled = true
			result.Summary.TotalFunctions = response.Summary.TotalFunctions
			result.Summary.AverageComplexity = response.Summary.AverageComplexity
			result.Summary.HighComplexityCount = response.Summary.HighRiskFunctions
			result.Summary.MediumComplexityCount = response.Summary.MediumRiskFunctions
		}
	}

	if config.EnableClones && uc.cloneUseCase != nil {
		req := &domain.CloneRequest{
			Paths:       files,
			MinLines:    config.MinLines,
			MinTokens:   config.MinTokens,
			MinNodes:    config.MinNodes,
			SortBy:      domain.SortBySimilarity,
			NoProgress:  config.NoProgress,
			Concurrency: config.Concurrency,
		}

		response, err := uc.cloneUseCase.service.DetectClones(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
		} else {
			result.Clones = response
			result.Summary.ClonesEnabled = true
			if response.Statistics != nil {
				result.Summary.TotalClonePairs = response.Statistics.TotalClonePairs
				result.Summary.TotalCloneGroups = response.Statistics.TotalCloneGroups
				result.Summary.DuplicationPercentage = response.Statistics.DuplicationPercentage
			}
		}
	}

	if config.EnableQuality && uc.qualityUseCase != nil {
		req := &domain.QualityRequest{
			Paths:       files,
			NoProgress:  config.NoProgress,
			Concurrency: config.Concurrency,
		}

		response, err := uc.qualityUseCase.service.Assess(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
		} else {
			result.Quality = response
			result.Summary.QualityEnabled = true
			if response.Report != nil {
				result.Summary.MaintainabilityIndex = response.Report.OverallIndex
				result.Summary.QualityLevel = response.Report.Level
			}
		}
	}

	result.Summary.AnalyzedFiles = maxAnalyzedFiles(result)
	result.Summary.SkippedFiles = result.Summary.TotalFiles - result.Summary.AnalyzedFiles

	result.Duration = time.Since(startTime)

	return result, nil
}

// maxAnalyzedFiles returns the largest per-analysis analyzed count. All
// analyses share one file set, so any difference comes from per-file
// failures and the largest count is the closest to actually analyzed.
func maxAnalyzedFiles(result *AnalyzeResult) int {
	analyzed := 0
	if result.Complexity != nil && result.Complexity.Summary.FilesAnalyzed > analyzed {
		analyzed = result.Complexity.Summary.FilesAnalyzed
	}
	if result.Clones != nil && result.Clones.Statistics != nil && result.Clones.Statistics.FilesAnalyzed > analyzed {
		analyzed = result.Clones.Statistics.FilesAnalyzed
	}
	if result.Quality != nil && result.Quality.FilesAnalyzed > analyzed {
		analyzed = result.Quality.FilesAnalyzed
	}
	return analyzed
}

// ToAnalyzeResponse converts AnalyzeResult to domain.AnalyzeResponse
func (r *AnalyzeResult) ToAnalyzeResponse() *domain.AnalyzeResponse {
	return &domain.AnalyzeResponse{
		Complexity:  r.Complexity,
		Clones:      r.Clones,
		Quality:     r.Quality,
		Summary:     *r.Summary,
		GeneratedAt: time.Now(),
		Duration:    r.Duration.Milliseconds(),
		Version:     version.Version,
	}
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	complexityUseCase *ComplexityUseCase
	cloneUseCase      *CloneUseCase
	qualityUseCase    *QualityUseCase
	fileHelper        *FileHelper
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithComplexityUseCase sets the complexity use case
func (b *AnalyzeUseCaseBuilder) WithComplexityUseCase(uc *ComplexityUseCase) *AnalyzeUseCaseBuilder {
	b.complexityUseCase = uc
	return b
}

// WithCloneUseCase sets the clone detection use case
func (b *AnalyzeUseCaseBuilder) WithCloneUseCase(uc *CloneUseCase) *AnalyzeUseCaseBuilder {
	b.cloneUseCase = uc
	return b
}

// WithQualityUseCase sets the quality use case
func (b *AnalyzeUseCaseBuilder) WithQualityUseCase(uc *QualityUseCase) *AnalyzeUseCaseBuilder {
	b.qualityUseCase = uc
	return b
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	uc := &AnalyzeUseCase{
		complexityUseCase: b.complexityUseCase,
		cloneUseCase:      b.cloneUseCase,
		qualityUseCase:    b.qualityUseCase,
		fileHelper:        b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

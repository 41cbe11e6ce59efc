package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/analyzer"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/internal/parser"
	"github.com/ludo-technologies/codescan/internal/version"
)

// ComplexityServiceImpl implements the ComplexityService interface
type ComplexityServiceImpl struct {
	config   *config.ComplexityConfig
	parser   *parser.Parser
	reader   domain.SourceFileReader
	progress domain.ProgressManager
}

// NewComplexityService creates a new complexity service implementation
func NewComplexityService(cfg *config.ComplexityConfig) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		config: cfg,
		parser: parser.New(),
		reader: NewSourceFileReader(),
	}
}

// NewComplexityServiceWithDefaults creates a complexity service with default thresholds
func NewComplexityServiceWithDefaults() *ComplexityServiceImpl {
	return NewComplexityService(&config.DefaultConfig().Complexity)
}

// NewComplexityServiceWithProgress creates a complexity service with progress reporting
func NewComplexityServiceWithProgress(cfg *config.ComplexityConfig, pm domain.ProgressManager) *ComplexityServiceImpl {
	svc := NewComplexityService(cfg)
	svc.progress = pm
	return svc
}

// complexityFileResult carries one file's analysis outcome. Each task
// writes only its own slot, so the merge needs no locking.
type complexityFileResult struct {
	file    *domain.FileComplexity
	skipped *domain.SkippedFile
}

// complexityFileTask reads, parses, and analyzes one file
type complexityFileTask struct {
	path     string
	analyzer *analyzer.ComplexityAnalyzer
	parser   *parser.Parser
	reader   domain.SourceFileReader
	result   *complexityFileResult
}

func (t *complexityFileTask) Name() string { return t.path }

func (t *complexityFileTask) IsEnabled() bool { return true }

func (t *complexityFileTask) Execute(ctx context.Context) (interface{}, error) {
	content, err := t.reader.ReadFile(t.path)
	if err != nil {
		t.result.skipped = &domain.SkippedFile{Path: t.path, Reason: fmt.Sprintf("read failed: %v", err)}
		return nil, fmt.Errorf("Failed to read file: %v", err)
	}

	tree, err := t.parser.ParseFile(ctx, t.path, content)
	if err != nil {
		if de, ok := err.(domain.DomainError); ok && de.Code == domain.ErrCodeUnsupportedLanguage {
			t.result.skipped = &domain.SkippedFile{Path: t.path, Reason: "unsupported language"}
			return nil, nil
		}
		t.result.skipped = &domain.SkippedFile{Path: t.path, Reason: fmt.Sprintf("parse failed: %v", err)}
		return nil, fmt.Errorf("Failed to parse: %v", err)
	}
	defer tree.Close()

	file, err := t.analyzer.AnalyzeTree(tree, t.path)
	if err != nil {
		t.result.skipped = &domain.SkippedFile{Path: t.path, Reason: fmt.Sprintf("analysis failed: %v", err)}
		return nil, fmt.Errorf("Failed to analyze: %v", err)
	}

	t.result.file = file
	return len(file.Functions), nil
}

// Analyze implements the ComplexityService interface. Files are read,
// parsed, and measured in parallel; filtering and sorting over the merged
// function list run single-threaded.
func (s *ComplexityServiceImpl) Analyze(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	effective := s.effectiveConfig(req)
	a := analyzer.NewComplexityAnalyzer(effective)

	results := make([]complexityFileResult, len(req.Paths))
	tasks := make([]domain.ExecutableTask, 0, len(req.Paths))
	for i, path := range req.Paths {
		tasks = append(tasks, &complexityFileTask{
			path:     path,
			analyzer: a,
			parser:   s.parser,
			reader:   s.reader,
			result:   &results[i],
		})
	}

	executor := NewParallelExecutor()
	if req.Concurrency > 0 {
		executor.SetMaxConcurrency(req.Concurrency)
	}
	if s.progress != nil && !req.NoProgress {
		executor.progress = s.progress
	}

	execErr := executor.Execute(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("complexity analysis cancelled: %w", err)
	}

	var errorStrings []string
	if execErr != nil {
		var aggErr *AggregatedError
		if errors.As(execErr, &aggErr) {
			for _, te := range aggErr.Errors {
				errorStrings = append(errorStrings, te.Error())
			}
		} else {
			errorStrings = append(errorStrings, execErr.Error())
		}
	}

	// Merge in input order so the file list stays deterministic
	var files []domain.FileComplexity
	var allFunctions []domain.FunctionComplexity
	var skippedFiles []domain.SkippedFile
	var warnings []string
	filesAnalyzed := 0
	for i := range results {
		r := &results[i]
		if r.skipped != nil {
			skippedFiles = append(skippedFiles, *r.skipped)
			continue
		}
		if r.file == nil {
			continue
		}
		if r.file.Confidence == 0.0 {
			warnings = append(warnings, fmt.Sprintf("[%s] source contains syntax errors; results may be incomplete", req.Paths[i]))
		}
		files = append(files, *r.file)
		allFunctions = append(allFunctions, r.file.Functions...)
		filesAnalyzed++
	}

	filteredFunctions := s.filterFunctions(allFunctions, req, effective)
	sortedFunctions := s.sortFunctions(filteredFunctions, req.SortBy)
	summary := s.generateSummary(sortedFunctions, filesAnalyzed, len(req.Paths))

	if req.MaxResults > 0 && len(sortedFunctions) > req.MaxResults {
		sortedFunctions = sortedFunctions[:req.MaxResults]
	}

	return &domain.ComplexityResponse{
		Files:        files,
		Functions:    sortedFunctions,
		Summary:      summary,
		SkippedFiles: skippedFiles,
		Warnings:     warnings,
		Errors:       errorStrings,
		GeneratedAt:  time.Now().Format(time.RFC3339),
		Version:      version.Version,
		Config:       s.buildConfigForResponse(req, effective),
	}, nil
}

// AnalyzeFile analyzes a single source file
func (s *ComplexityServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}
	return s.Analyze(ctx, singleFileReq)
}

// effectiveConfig merges request overrides onto the service configuration
func (s *ComplexityServiceImpl) effectiveConfig(req domain.ComplexityRequest) *config.ComplexityConfig {
	cfg := *s.config

	if req.MediumThreshold > 0 {
		cfg.CyclomaticMedium = req.MediumThreshold
	}
	if req.HighThreshold > 0 {
		cfg.CyclomaticHigh = req.HighThreshold
	}
	if req.MaxComplexity > 0 {
		cfg.MaxComplexity = req.MaxComplexity
	}

	return &cfg
}

// filterFunctions filters functions based on request criteria
func (s *ComplexityServiceImpl) filterFunctions(functions []domain.FunctionComplexity, req domain.ComplexityRequest, cfg *config.ComplexityConfig) []domain.FunctionComplexity {
	var filtered []domain.FunctionComplexity

	for _, fn := range functions {
		if req.MinComplexity > 0 && fn.Metrics.Cyclomatic < req.MinComplexity {
			continue
		}
		if req.MaxComplexity > 0 && fn.Metrics.Cyclomatic > req.MaxComplexity {
			continue
		}
		if !cfg.ReportUnchanged && fn.Metrics.Cyclomatic == 1 {
			continue
		}
		filtered = append(filtered, fn)
	}

	return filtered
}

// sortFunctions sorts functions based on the specified criteria
func (s *ComplexityServiceImpl) sortFunctions(functions []domain.FunctionComplexity, sortBy domain.SortCriteria) []domain.FunctionComplexity {
	sorted := make([]domain.FunctionComplexity, len(functions))
	copy(sorted, functions)

	switch sortBy {
	case domain.SortByName:
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	case domain.SortByRisk:
		riskOrder := map[domain.RiskLevel]int{domain.RiskLevelHigh: 0, domain.RiskLevelMedium: 1, domain.RiskLevelLow: 2}
		sort.Slice(sorted, func(i, j int) bool {
			if riskOrder[sorted[i].RiskLevel] != riskOrder[sorted[j].RiskLevel] {
				return riskOrder[sorted[i].RiskLevel] < riskOrder[sorted[j].RiskLevel]
			}
			return sorted[i].Metrics.Cyclomatic > sorted[j].Metrics.Cyclomatic
		})
	case domain.SortByLocation:
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].FilePath != sorted[j].FilePath {
				return sorted[i].FilePath < sorted[j].FilePath
			}
			return sorted[i].StartLine < sorted[j].StartLine
		})
	default:
		// Default: sort by cyclomatic complexity descending
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Metrics.Cyclomatic > sorted[j].Metrics.Cyclomatic
		})
	}

	return sorted
}

// generateSummary generates aggregate statistics for the analysis
func (s *ComplexityServiceImpl) generateSummary(functions []domain.FunctionComplexity, filesAnalyzed, filesSubmitted int) domain.ComplexitySummary {
	summary := domain.ComplexitySummary{
		FilesAnalyzed:  filesAnalyzed,
		FilesSubmitted: filesSubmitted,
		TotalFunctions: len(functions),
	}

	if len(functions) == 0 {
		return summary
	}

	totalComplexity := 0
	maxComplexity := 0
	minComplexity := functions[0].Metrics.Cyclomatic
	distribution := make(map[string]int)

	for _, fn := range functions {
		c := fn.Metrics.Cyclomatic
		totalComplexity += c

		if c > maxComplexity {
			maxComplexity = c
		}
		if c < minComplexity {
			minComplexity = c
		}

		switch fn.RiskLevel {
		case domain.RiskLevelHigh:
			summary.HighRiskFunctions++
		case domain.RiskLevelMedium:
			summary.MediumRiskFunctions++
		case domain.RiskLevelLow:
			summary.LowRiskFunctions++
		}

		distribution[complexityBucket(c)]++
	}

	summary.AverageComplexity = float64(totalComplexity) / float64(len(functions))
	summary.MaxComplexity = maxComplexity
	summary.MinComplexity = minComplexity
	summary.ComplexityDistribution = distribution

	return summary
}

// complexityBucket maps a cyclomatic value into a distribution bucket
func complexityBucket(c int) string {
	switch {
	case c <= 5:
		return "1-5"
	case c <= 10:
		return "6-10"
	case c <= 20:
		return "11-20"
	default:
		return "21+"
	}
}

// buildConfigForResponse builds the configuration section for the response
func (s *ComplexityServiceImpl) buildConfigForResponse(req domain.ComplexityRequest, cfg *config.ComplexityConfig) map[string]interface{} {
	return map[string]interface{}{
		"medium_threshold": cfg.CyclomaticMedium,
		"high_threshold":   cfg.CyclomaticHigh,
		"max_complexity":   cfg.MaxComplexity,
		"sort_by":          req.SortBy,
		"min_complexity":   req.MinComplexity,
	}
}

package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
)

// ComplexityUseCase orchestrates the complexity analysis workflow
type ComplexityUseCase struct {
	service    domain.ComplexityService
	fileHelper *FileHelper
}

// NewComplexityUseCase creates a new complexity use case
func NewComplexityUseCase(service domain.ComplexityService) *ComplexityUseCase {
	return &ComplexityUseCase{
		service:    service,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete complexity analysis workflow
func (uc *ComplexityUseCase) Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	applyComplexityDefaults(&req)

	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	// An empty file list is not an error: the analysis produces an empty
	// report so callers can treat no-input runs uniformly.
	req.Paths = files

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("complexity analysis failed", err)
	}

	return response, nil
}

// AnalyzeFile analyzes a single file
func (uc *ComplexityUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	applyComplexityDefaults(&req)

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	return uc.service.AnalyzeFile(ctx, filePath, req)
}

// applyComplexityDefaults fills unset request fields with defaults
func applyComplexityDefaults(req *domain.ComplexityRequest) {
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortByComplexity
	}
	if req.MediumThreshold <= 0 {
		req.MediumThreshold = constants.DefaultCyclomaticMedium
	}
	if req.HighThreshold <= 0 {
		req.HighThreshold = constants.DefaultCyclomaticHigh
	}
}

// validateRequest validates the complexity request
func (uc *ComplexityUseCase) validateRequest(req domain.ComplexityRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinComplexity < 0 {
		return fmt.Errorf("minimum complexity cannot be negative")
	}

	if req.MaxComplexity < 0 {
		return fmt.Errorf("maximum complexity cannot be negative")
	}

	if req.MaxComplexity > 0 && req.MinComplexity > req.MaxComplexity {
		return fmt.Errorf("minimum complexity cannot be greater than maximum complexity")
	}

	if req.HighThreshold <= req.MediumThreshold {
		return fmt.Errorf("high threshold must be greater than medium threshold")
	}

	return nil
}

// ComplexityUseCaseBuilder provides a builder pattern for creating ComplexityUseCase
type ComplexityUseCaseBuilder struct {
	service    domain.ComplexityService
	fileHelper *FileHelper
}

// NewComplexityUseCaseBuilder creates a new builder
func NewComplexityUseCaseBuilder() *ComplexityUseCaseBuilder {
	return &ComplexityUseCaseBuilder{}
}

// WithService sets the complexity service
func (b *ComplexityUseCaseBuilder) WithService(service domain.ComplexityService) *ComplexityUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets the file helper
func (b *ComplexityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ComplexityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ComplexityUseCase with the configured dependencies
func (b *ComplexityUseCaseBuilder) Build() (*ComplexityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("complexity service is required")
	}

	uc := &ComplexityUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

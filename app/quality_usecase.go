package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/codescan/domain"
)

// QualityUseCase orchestrates the maintainability assessment workflow
type QualityUseCase struct {
	service    domain.QualityService
	fileHelper *FileHelper
}

// NewQualityUseCase creates a new quality assessment use case
func NewQualityUseCase(service domain.QualityService) *QualityUseCase {
	return &QualityUseCase{
		service:    service,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete quality assessment workflow
func (uc *QualityUseCase) Execute(ctx context.Context, req *domain.QualityRequest) (*domain.QualityResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("quality request cannot be nil", nil)
	}

	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}

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

	fileReq := *req
	fileReq.Paths = files

	return uc.service.Assess(ctx, &fileReq)
}

// validateRequest validates the quality assessment request
func (uc *QualityUseCase) validateRequest(req *domain.QualityRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	known := make(map[string]bool)
	for _, category := range domain.ScoreCategories() {
		known[category] = true
	}
	for category := range req.ScoreOverrides {
		if !known[category] {
			return fmt.Errorf("unknown score category in override: %s", category)
		}
	}

	return nil
}

// QualityUseCaseBuilder provides a builder pattern for creating QualityUseCase
type QualityUseCaseBuilder struct {
	service    domain.QualityService
	fileHelper *FileHelper
}

// NewQualityUseCaseBuilder creates a new builder
func NewQualityUseCaseBuilder() *QualityUseCaseBuilder {
	return &QualityUseCaseBuilder{}
}

// WithService sets the quality service
func (b *QualityUseCaseBuilder) WithService(service domain.QualityService) *QualityUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets the file helper
func (b *QualityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *QualityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the QualityUseCase with the configured dependencies
func (b *QualityUseCaseBuilder) Build() (*QualityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("quality service is required")
	}

	uc := &QualityUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

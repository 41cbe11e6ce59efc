package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/codescan/domain"
)

// CloneUseCase orchestrates the clone detection workflow
type CloneUseCase struct {
	service    domain.CloneService
	fileHelper *FileHelper
}

// NewCloneUseCase creates a new clone detection use case
func NewCloneUseCase(service domain.CloneService) *CloneUseCase {
	return &CloneUseCase{
		service:    service,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete clone detection workflow
func (uc *CloneUseCase) Execute(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("clone request cannot be nil", nil)
	}

	applyCloneDefaults(req)

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

	return uc.service.DetectClonesInFiles(ctx, files, req)
}

// applyCloneDefaults fills unset request fields with defaults
func applyCloneDefaults(req *domain.CloneRequest) {
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortBySimilarity
	}
}

// validateRequest validates the clone detection request
func (uc *CloneUseCase) validateRequest(req *domain.CloneRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinLines < 0 || req.MinTokens < 0 || req.MinNodes < 0 {
		return fmt.Errorf("minimum size gates cannot be negative")
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"type1", req.Type1Threshold},
		{"type2", req.Type2Threshold},
		{"type3", req.Type3Threshold},
		{"type4", req.Type4Threshold},
	}
	for _, t := range thresholds {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("%s threshold must be between 0 and 1, got %f", t.name, t.value)
		}
	}

	return nil
}

// CloneUseCaseBuilder provides a builder pattern for creating CloneUseCase
type CloneUseCaseBuilder struct {
	service    domain.CloneService
	fileHelper *FileHelper
}

// NewCloneUseCaseBuilder creates a new builder
func NewCloneUseCaseBuilder() *CloneUseCaseBuilder {
	return &CloneUseCaseBuilder{}
}

// WithService sets the clone detection service
func (b *CloneUseCaseBuilder) WithService(service domain.CloneService) *CloneUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets the file helper
func (b *CloneUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *CloneUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the CloneUseCase with the configured dependencies
func (b *CloneUseCaseBuilder) Build() (*CloneUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("clone service is required")
	}

	uc := &CloneUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

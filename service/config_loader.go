package service

import (
	"fmt"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ComplexityRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return ComplexityRequestFromConfig(cfg), nil
}

// LoadDefaultConfig loads the default configuration, discovering a config
// file near the working directory when one exists
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ComplexityRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return ComplexityRequestFromConfig(cfg)
	}

	// Fall back to hardcoded default configuration
	cfg = config.DefaultConfig()
	return ComplexityRequestFromConfig(cfg)
}

// MergeConfig merges CLI flags with configuration file
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ComplexityRequest, override *domain.ComplexityRequest) *domain.ComplexityRequest {
	// Start with base configuration
	merged := *base

	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	// Filtering and sorting, only when the flag differs from its default
	if override.MinComplexity != 1 {
		merged.MinComplexity = override.MinComplexity
	}

	if override.MaxComplexity != 0 {
		merged.MaxComplexity = override.MaxComplexity
	}

	if override.SortBy != "" && override.SortBy != domain.SortByComplexity {
		merged.SortBy = override.SortBy
	}

	// Risk cut points
	if override.MediumThreshold > 0 && override.MediumThreshold != 10 {
		merged.MediumThreshold = override.MediumThreshold
	}

	if override.HighThreshold > 0 && override.HighThreshold != 20 {
		merged.HighThreshold = override.HighThreshold
	}

	// File selection
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	if override.Concurrency > 0 {
		merged.Concurrency = override.Concurrency
	}

	if override.NoProgress {
		merged.NoProgress = override.NoProgress
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// ValidateConfig validates the request built from configuration and flags
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ComplexityRequest) error {
	if req.MediumThreshold <= 0 {
		return fmt.Errorf("medium threshold must be greater than 0, got %d", req.MediumThreshold)
	}

	if req.HighThreshold <= req.MediumThreshold {
		return fmt.Errorf("high threshold (%d) must be greater than medium threshold (%d)",
			req.HighThreshold, req.MediumThreshold)
	}

	if req.MinComplexity < 0 {
		return fmt.Errorf("min complexity cannot be negative, got %d", req.MinComplexity)
	}

	if req.MaxComplexity < 0 {
		return fmt.Errorf("max complexity cannot be negative, got %d", req.MaxComplexity)
	}

	if req.MaxComplexity > 0 && req.MinComplexity > req.MaxComplexity {
		return fmt.Errorf("min complexity (%d) cannot be greater than max complexity (%d)",
			req.MinComplexity, req.MaxComplexity)
	}

	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatCSV:  true,
	}

	if !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, csv)",
			req.OutputFormat)
	}

	return nil
}

// ComplexityRequestFromConfig converts a Config to a ComplexityRequest.
// Paths are set by the caller, not from config.
func ComplexityRequestFromConfig(cfg *config.Config) *domain.ComplexityRequest {
	return &domain.ComplexityRequest{
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),

		MinComplexity:   cfg.Output.MinComplexity,
		MaxComplexity:   cfg.Complexity.MaxComplexity,
		MediumThreshold: cfg.Complexity.CyclomaticMedium,
		HighThreshold:   cfg.Complexity.CyclomaticHigh,

		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Concurrency:     cfg.Analysis.Concurrency,
	}
}

// CloneRequestFromConfig converts a Config to a CloneRequest.
// Paths are set by the caller, not from config.
func CloneRequestFromConfig(cfg *config.Config) *domain.CloneRequest {
	return &domain.CloneRequest{
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),

		MinLines:  cfg.Clones.MinLines,
		MinTokens: cfg.Clones.MinTokens,
		MinNodes:  cfg.Clones.MinNodes,

		Type1Threshold: cfg.Clones.Type1Threshold,
		Type2Threshold: cfg.Clones.Type2Threshold,
		Type3Threshold: cfg.Clones.Type3Threshold,
		Type4Threshold: cfg.Clones.Type4Threshold,

		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Concurrency:     cfg.Analysis.Concurrency,
	}
}

// QualityRequestFromConfig converts a Config to a QualityRequest.
// Paths are set by the caller, not from config.
func QualityRequestFromConfig(cfg *config.Config) *domain.QualityRequest {
	return &domain.QualityRequest{
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,

		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Concurrency:     cfg.Analysis.Concurrency,
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	// Verify complexity defaults
	if config.Complexity.CyclomaticMedium != constants.DefaultCyclomaticMedium {
		t.Errorf("Expected CyclomaticMedium %d, got %d", constants.DefaultCyclomaticMedium, config.Complexity.CyclomaticMedium)
	}
	if config.Complexity.CyclomaticHigh != constants.DefaultCyclomaticHigh {
		t.Errorf("Expected CyclomaticHigh %d, got %d", constants.DefaultCyclomaticHigh, config.Complexity.CyclomaticHigh)
	}
	if !config.Complexity.Enabled {
		t.Error("Complexity should be enabled by default")
	}
	if !config.Complexity.ReportUnchanged {
		t.Error("ReportUnchanged should be true by default")
	}

	// Verify clone defaults
	if !config.Clones.Enabled {
		t.Error("Clones should be enabled by default")
	}
	if config.Clones.MinLines != constants.DefaultCloneMinLines {
		t.Errorf("Expected MinLines %d, got %d", constants.DefaultCloneMinLines, config.Clones.MinLines)
	}
	if config.Clones.Type1Threshold != constants.DefaultType1CloneThreshold {
		t.Errorf("Expected Type1Threshold %v, got %v", constants.DefaultType1CloneThreshold, config.Clones.Type1Threshold)
	}
	if config.Clones.Type4Threshold != constants.DefaultType4CloneThreshold {
		t.Errorf("Expected Type4Threshold %v, got %v", constants.DefaultType4CloneThreshold, config.Clones.Type4Threshold)
	}
	if !config.Clones.NearMissEditDistance {
		t.Error("NearMissEditDistance should be enabled by default")
	}

	// Verify quality defaults
	if err := config.Quality.Weights().Validate(); err != nil {
		t.Errorf("Default quality weights should validate, got %v", err)
	}

	// Verify output defaults
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}
	if config.Output.SortBy != "complexity" {
		t.Errorf("Expected SortBy 'complexity', got '%s'", config.Output.SortBy)
	}

	// Verify analysis defaults
	if !config.Analysis.Recursive {
		t.Error("Recursive should be true by default")
	}
	if len(config.Analysis.IncludePatterns) == 0 {
		t.Error("IncludePatterns should not be empty")
	}
	if len(config.Analysis.ExcludePatterns) == 0 {
		t.Error("ExcludePatterns should not be empty")
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	config := DefaultConfig()

	err := config.Validate()
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidCyclomaticMedium(t *testing.T) {
	config := DefaultConfig()
	config.Complexity.CyclomaticMedium = 0

	if err := config.Validate(); err == nil {
		t.Error("Expected error for CyclomaticMedium < 1")
	}
}

func TestConfig_Validate_HighNotAboveMedium(t *testing.T) {
	config := DefaultConfig()
	config.Complexity.CyclomaticHigh = config.Complexity.CyclomaticMedium

	if err := config.Validate(); err == nil {
		t.Error("Expected error for CyclomaticHigh <= CyclomaticMedium")
	}
}

func TestConfig_Validate_InvalidMaxComplexity(t *testing.T) {
	config := DefaultConfig()
	config.Complexity.MaxComplexity = -1

	if err := config.Validate(); err == nil {
		t.Error("Expected error for MaxComplexity < 0")
	}
}

func TestConfig_Validate_InvalidCloneMinimums(t *testing.T) {
	config := DefaultConfig()
	config.Clones.MinLines = 0

	if err := config.Validate(); err == nil {
		t.Error("Expected error for MinLines < 1")
	}
}

func TestConfig_Validate_CloneThresholdOutOfRange(t *testing.T) {
	config := DefaultConfig()
	config.Clones.Type1Threshold = 1.5

	if err := config.Validate(); err == nil {
		t.Error("Expected error for threshold > 1.0")
	}
}

func TestConfig_Validate_CloneThresholdsNotDescending(t *testing.T) {
	config := DefaultConfig()
	config.Clones.Type3Threshold = 0.99

	if err := config.Validate(); err == nil {
		t.Error("Expected error for type3_threshold above type2_threshold")
	}
}

func TestConfig_Validate_BadWeights(t *testing.T) {
	config := DefaultConfig()
	config.Quality.ComplexityWeight = 0.5

	err := config.Validate()
	if err == nil {
		t.Fatal("Expected error for weights not summing to 1.0")
	}
	domainErr, ok := err.(domain.DomainError)
	if !ok {
		t.Fatalf("Expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR, got %s", domainErr.Code)
	}
}

func TestConfig_Validate_InvalidOutputFormat(t *testing.T) {
	config := DefaultConfig()
	config.Output.Format = "xml"

	if err := config.Validate(); err == nil {
		t.Error("Expected error for invalid output format")
	}
}

func TestConfig_Validate_InvalidSortBy(t *testing.T) {
	config := DefaultConfig()
	config.Output.SortBy = "invalid"

	if err := config.Validate(); err == nil {
		t.Error("Expected error for invalid sort_by")
	}
}

func TestConfig_Validate_EmptyIncludePatterns(t *testing.T) {
	config := DefaultConfig()
	config.Analysis.IncludePatterns = []string{}

	if err := config.Validate(); err == nil {
		t.Error("Expected error for empty include patterns")
	}
}

func TestComplexityConfig_ShouldReport(t *testing.T) {
	enabledConfig := &ComplexityConfig{
		Enabled:         true,
		MinComplexity:   1,
		ReportUnchanged: true,
	}

	if !enabledConfig.ShouldReport(5) {
		t.Error("Should report complexity 5 when enabled")
	}
	if !enabledConfig.ShouldReport(1) {
		t.Error("Should report complexity 1 when ReportUnchanged is true")
	}

	disabledConfig := &ComplexityConfig{
		Enabled: false,
	}
	if disabledConfig.ShouldReport(5) {
		t.Error("Should not report when disabled")
	}

	noUnchangedConfig := &ComplexityConfig{
		Enabled:         true,
		MinComplexity:   1,
		ReportUnchanged: false,
	}
	if noUnchangedConfig.ShouldReport(1) {
		t.Error("Should not report complexity 1 when ReportUnchanged is false")
	}
	if !noUnchangedConfig.ShouldReport(5) {
		t.Error("Should report complexity > 1 even when ReportUnchanged is false")
	}

	filteredConfig := &ComplexityConfig{
		Enabled:         true,
		MinComplexity:   5,
		ReportUnchanged: true,
	}
	if filteredConfig.ShouldReport(3) {
		t.Error("Should not report complexity below MinComplexity")
	}
}

func TestComplexityConfig_ExceedsMaxComplexity(t *testing.T) {
	noLimitConfig := &ComplexityConfig{
		MaxComplexity: 0,
	}
	if noLimitConfig.ExceedsMaxComplexity(100) {
		t.Error("Should not exceed when MaxComplexity is 0 (no limit)")
	}

	limitConfig := &ComplexityConfig{
		MaxComplexity: 20,
	}
	if limitConfig.ExceedsMaxComplexity(15) {
		t.Error("15 should not exceed max of 20")
	}
	if limitConfig.ExceedsMaxComplexity(20) {
		t.Error("20 should not exceed max of 20")
	}
	if !limitConfig.ExceedsMaxComplexity(25) {
		t.Error("25 should exceed max of 20")
	}
}

func TestQualityConfig_Weights(t *testing.T) {
	config := DefaultConfig()
	weights := config.Quality.Weights()

	if weights.Complexity != constants.DefaultComplexityWeight {
		t.Errorf("Expected complexity weight %v, got %v", constants.DefaultComplexityWeight, weights.Complexity)
	}
	if weights.TestCoverage != constants.DefaultTestCoverageWeight {
		t.Errorf("Expected test coverage weight %v, got %v", constants.DefaultTestCoverageWeight, weights.TestCoverage)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if config == nil {
		t.Fatal("Config should not be nil")
	}

	defaultCfg := DefaultConfig()
	if config.Complexity.CyclomaticMedium != defaultCfg.Complexity.CyclomaticMedium {
		t.Error("Loaded config should match default")
	}
}

func TestLoadConfig_NonExistent(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Expected error for non-existent config file")
	}
	domainErr, ok := err.(domain.DomainError)
	if !ok {
		t.Fatalf("Expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR, got %s", domainErr.Code)
	}
}

func TestLoadConfig_TOMLOverrides(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".codescan.toml")

	content := `[complexity]
cyclomatic_medium = 5
cyclomatic_high = 12

[clones]
min_lines = 8
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Complexity.CyclomaticMedium != 5 {
		t.Errorf("Expected overridden CyclomaticMedium 5, got %d", config.Complexity.CyclomaticMedium)
	}
	if config.Complexity.CyclomaticHigh != 12 {
		t.Errorf("Expected overridden CyclomaticHigh 12, got %d", config.Complexity.CyclomaticHigh)
	}
	if config.Clones.MinLines != 8 {
		t.Errorf("Expected overridden MinLines 8, got %d", config.Clones.MinLines)
	}

	// Untouched sections keep their defaults
	if config.Clones.MinTokens != constants.DefaultCloneMinTokens {
		t.Errorf("Expected default MinTokens %d, got %d", constants.DefaultCloneMinTokens, config.Clones.MinTokens)
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected default format 'text', got %s", config.Output.Format)
	}
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".codescan.toml")

	content := `[complexity]
cyclomatic_medium = 0
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error for cyclomatic_medium = 0")
	}
}

func TestSearchConfigInDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "codescan.yaml")
	err := os.WriteFile(configPath, []byte("complexity:\n  cyclomatic_medium: 5"), 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	candidates := []string{"codescan.yaml", "codescan.yml"}
	result := searchConfigInDirectory(tempDir, candidates)

	if result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}

	emptyDir := t.TempDir()
	result = searchConfigInDirectory(emptyDir, candidates)
	if result != "" {
		t.Error("Expected empty string for directory without config")
	}
}

func TestFindDefaultConfig_SearchesUpward(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, constants.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("[complexity]\nenabled = true\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	nested := filepath.Join(tempDir, "src", "pkg")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}

	found := findDefaultConfig(nested)
	if found != configPath {
		t.Errorf("Expected %s, got %s", configPath, found)
	}
}

func TestConfig_ValidOutputFormats(t *testing.T) {
	config := DefaultConfig()
	validFormats := []string{"text", "json", "yaml", "csv"}

	for _, format := range validFormats {
		config.Output.Format = format
		if err := config.Validate(); err != nil {
			t.Errorf("Format '%s' should be valid, got error: %v", format, err)
		}
	}
}

func TestConfig_ValidSortOptions(t *testing.T) {
	config := DefaultConfig()
	validSortOptions := []string{"complexity", "name", "risk", "similarity", "size", "location"}

	for _, sortBy := range validSortOptions {
		config.Output.SortBy = sortBy
		if err := config.Validate(); err != nil {
			t.Errorf("SortBy '%s' should be valid, got error: %v", sortBy, err)
		}
	}
}

func TestGetFullConfigTemplate(t *testing.T) {
	template := GetFullConfigTemplate(ProjectTypeGeneric, StrictnessStandard)

	if template == "" {
		t.Fatal("Template should not be empty")
	}

	// The standard preset thresholds must appear in the template
	for _, expected := range []string{"cyclomatic_medium = 10", "cyclomatic_high = 20", "[clones]", "[quality]", "[analysis]"} {
		if !strings.Contains(template, expected) {
			t.Errorf("Template should contain %q", expected)
		}
	}
}

func TestGetStrictnessPresets(t *testing.T) {
	presets := GetStrictnessPresets()

	strict := presets[StrictnessStrict]
	relaxed := presets[StrictnessRelaxed]

	if strict.CyclomaticMedium >= relaxed.CyclomaticMedium {
		t.Error("Strict preset should have lower thresholds than relaxed")
	}
	if strict.MaxComplexity == 0 {
		t.Error("Strict preset should enforce a max complexity")
	}
	if relaxed.MaxComplexity != 0 {
		t.Error("Relaxed preset should not enforce a max complexity")
	}
}

func TestGetProjectPresets(t *testing.T) {
	presets := GetProjectPresets()

	for _, pt := range []ProjectType{ProjectTypeGeneric, ProjectTypeWeb, ProjectTypeBackend, ProjectTypeSystems} {
		preset, ok := presets[pt]
		if !ok {
			t.Errorf("Expected preset for project type %s", pt)
			continue
		}
		if len(preset.IncludePatterns) == 0 {
			t.Errorf("Preset %s should have include patterns", pt)
		}
	}
}

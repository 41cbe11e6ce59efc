package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Complexity holds complexity analysis configuration
	Complexity ComplexityConfig `json:"complexity" mapstructure:"complexity" yaml:"complexity"`

	// Clones holds clone detection configuration
	Clones CloneConfig `json:"clones" mapstructure:"clones" yaml:"clones"`

	// Quality holds maintainability scoring configuration
	Quality QualityConfig `json:"quality" mapstructure:"quality" yaml:"quality"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// ComplexityConfig holds thresholds for the complexity analyzer. Each metric
// carries a medium and a high cut point: values above medium are flagged,
// values above high are high risk.
type ComplexityConfig struct {
	// Enabled controls whether complexity analysis is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	CyclomaticMedium int `json:"cyclomaticMedium" mapstructure:"cyclomatic_medium" yaml:"cyclomatic_medium"`
	CyclomaticHigh   int `json:"cyclomaticHigh" mapstructure:"cyclomatic_high" yaml:"cyclomatic_high"`

	CognitiveMedium int `json:"cognitiveMedium" mapstructure:"cognitive_medium" yaml:"cognitive_medium"`
	CognitiveHigh   int `json:"cognitiveHigh" mapstructure:"cognitive_high" yaml:"cognitive_high"`

	NestingMedium int `json:"nestingMedium" mapstructure:"nesting_medium" yaml:"nesting_medium"`
	NestingHigh   int `json:"nestingHigh" mapstructure:"nesting_high" yaml:"nesting_high"`

	LengthMedium int `json:"lengthMedium" mapstructure:"length_medium" yaml:"length_medium"`
	LengthHigh   int `json:"lengthHigh" mapstructure:"length_high" yaml:"length_high"`

	// MinComplexity filters functions below this value out of reports
	MinComplexity int `json:"minComplexity" mapstructure:"min_complexity" yaml:"min_complexity"`

	// MaxComplexity is the maximum allowed complexity before check fails.
	// 0 means no limit.
	MaxComplexity int `json:"maxComplexity" mapstructure:"max_complexity" yaml:"max_complexity"`

	// ReportUnchanged controls whether to report functions with complexity = 1
	ReportUnchanged bool `json:"reportUnchanged" mapstructure:"report_unchanged" yaml:"report_unchanged"`
}

// CloneConfig holds configuration for clone detection
type CloneConfig struct {
	// Enabled controls whether clone detection is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Minimum block size below which fragments are not compared
	MinLines  int `json:"minLines" mapstructure:"min_lines" yaml:"min_lines"`
	MinTokens int `json:"minTokens" mapstructure:"min_tokens" yaml:"min_tokens"`
	MinNodes  int `json:"minNodes" mapstructure:"min_nodes" yaml:"min_nodes"`

	// Similarity cut points for classifying clone types, descending
	Type1Threshold float64 `json:"type1Threshold" mapstructure:"type1_threshold" yaml:"type1_threshold"`
	Type2Threshold float64 `json:"type2Threshold" mapstructure:"type2_threshold" yaml:"type2_threshold"`
	Type3Threshold float64 `json:"type3Threshold" mapstructure:"type3_threshold" yaml:"type3_threshold"`
	Type4Threshold float64 `json:"type4Threshold" mapstructure:"type4_threshold" yaml:"type4_threshold"`

	// NearMissEditDistance refines near-miss candidates with a normalized
	// edit distance pass instead of relying on structural hashes alone
	NearMissEditDistance bool `json:"nearMissEditDistance" mapstructure:"near_miss_edit_distance" yaml:"near_miss_edit_distance"`

	// MinSizeRatio skips the expensive similarity path for fragment pairs
	// whose token counts differ by more than this ratio
	MinSizeRatio float64 `json:"minSizeRatio" mapstructure:"min_size_ratio" yaml:"min_size_ratio"`

	// BucketThreshold caps all-pairs comparison: above this many fragments
	// the detector partitions candidates by structural hash bucket
	BucketThreshold int `json:"bucketThreshold" mapstructure:"bucket_threshold" yaml:"bucket_threshold"`

	// GroupingMode selects how clone pairs fold into groups:
	// "connected" or "star_medoid"
	GroupingMode string `json:"groupingMode" mapstructure:"grouping_mode" yaml:"grouping_mode"`
}

// QualityConfig holds weights and level cut points for maintainability scoring
type QualityConfig struct {
	// Enabled controls whether quality assessment is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	ComplexityWeight    float64 `json:"complexityWeight" mapstructure:"complexity_weight" yaml:"complexity_weight"`
	DuplicationWeight   float64 `json:"duplicationWeight" mapstructure:"duplication_weight" yaml:"duplication_weight"`
	DocumentationWeight float64 `json:"documentationWeight" mapstructure:"documentation_weight" yaml:"documentation_weight"`
	NamingWeight        float64 `json:"namingWeight" mapstructure:"naming_weight" yaml:"naming_weight"`
	StructureWeight     float64 `json:"structureWeight" mapstructure:"structure_weight" yaml:"structure_weight"`
	TestCoverageWeight  float64 `json:"testCoverageWeight" mapstructure:"test_coverage_weight" yaml:"test_coverage_weight"`

	ExcellentThreshold float64 `json:"excellentThreshold" mapstructure:"excellent_threshold" yaml:"excellent_threshold"`
	GoodThreshold      float64 `json:"goodThreshold" mapstructure:"good_threshold" yaml:"good_threshold"`
	FairThreshold      float64 `json:"fairThreshold" mapstructure:"fair_threshold" yaml:"fair_threshold"`
	PoorThreshold      float64 `json:"poorThreshold" mapstructure:"poor_threshold" yaml:"poor_threshold"`
}

// Weights returns the configured category weights
func (c *QualityConfig) Weights() domain.QualityWeights {
	return domain.QualityWeights{
		Complexity:    c.ComplexityWeight,
		Duplication:   c.DuplicationWeight,
		Documentation: c.DocumentationWeight,
		Naming:        c.NamingWeight,
		Structure:     c.StructureWeight,
		TestCoverage:  c.TestCoverageWeight,
	}
}

// Levels returns the configured quality level cut points
func (c *QualityConfig) Levels() domain.QualityLevelThresholds {
	return domain.QualityLevelThresholds{
		Excellent: c.ExcellentThreshold,
		Good:      c.GoodThreshold,
		Fair:      c.FairThreshold,
		Poor:      c.PoorThreshold,
	}
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show detailed breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort results: complexity, name, risk, similarity, size, location
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// MinComplexity is the minimum complexity to report (filters low values)
	MinComplexity int `json:"min_complexity" mapstructure:"min_complexity" yaml:"min_complexity"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`

	// RespectGitignore skips files matched by .gitignore rules
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// Concurrency caps parallel file parsing (0 = number of CPUs)
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			Enabled:          true,
			CyclomaticMedium: constants.DefaultCyclomaticMedium,
			CyclomaticHigh:   constants.DefaultCyclomaticHigh,
			CognitiveMedium:  constants.DefaultCognitiveMedium,
			CognitiveHigh:    constants.DefaultCognitiveHigh,
			NestingMedium:    constants.DefaultNestingMedium,
			NestingHigh:      constants.DefaultNestingHigh,
			LengthMedium:     constants.DefaultFuncLengthMedium,
			LengthHigh:       constants.DefaultFuncLengthHigh,
			MinComplexity:    1,
			MaxComplexity:    0,
			ReportUnchanged:  true,
		},
		Clones: CloneConfig{
			Enabled:              true,
			MinLines:             constants.DefaultCloneMinLines,
			MinTokens:            constants.DefaultCloneMinTokens,
			MinNodes:             constants.DefaultCloneMinNodes,
			Type1Threshold:       constants.DefaultType1CloneThreshold,
			Type2Threshold:       constants.DefaultType2CloneThreshold,
			Type3Threshold:       constants.DefaultType3CloneThreshold,
			Type4Threshold:       constants.DefaultType4CloneThreshold,
			NearMissEditDistance: true,
			MinSizeRatio:         constants.DefaultCloneMinSizeRatio,
			BucketThreshold:      constants.DefaultCloneBucketThreshold,
			GroupingMode:         "connected",
		},
		Quality: QualityConfig{
			Enabled:             true,
			ComplexityWeight:    constants.DefaultComplexityWeight,
			DuplicationWeight:   constants.DefaultDuplicationWeight,
			DocumentationWeight: constants.DefaultDocumentationWeight,
			NamingWeight:        constants.DefaultNamingWeight,
			StructureWeight:     constants.DefaultStructureWeight,
			TestCoverageWeight:  constants.DefaultTestCoverageWeight,
			ExcellentThreshold:  constants.QualityExcellentThreshold,
			GoodThreshold:       constants.QualityGoodThreshold,
			FairThreshold:       constants.QualityFairThreshold,
			PoorThreshold:       constants.QualityPoorThreshold,
		},
		Output: OutputConfig{
			Format:        "text",
			ShowDetails:   false,
			SortBy:        "complexity",
			MinComplexity: 1,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.py", "**/*.pyi",
				"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.cjs",
				"**/*.ts", "**/*.tsx", "**/*.mts", "**/*.cts",
				"**/*.java",
				"**/*.go",
				"**/*.rs",
				"**/*.cpp", "**/*.cc", "**/*.cxx", "**/*.hpp", "**/*.hh", "**/*.hxx", "**/*.h",
				"**/*.cs",
			},
			ExcludePatterns: []string{
				// Package managers and dependencies
				"node_modules",
				"vendor",
				// Build outputs
				"dist",
				"build",
				"out",
				"target",
				"bin",
				"obj",
				// Python environments and caches
				"__pycache__",
				".venv",
				"venv",
				// Cache and coverage
				".cache",
				"coverage",
				// Version control
				".git",
				// Minified and generated files
				"*.min.js",
				"*.bundle.js",
				"*.map",
				"*_pb2.py",
				"*.pb.go",
			},
			Recursive:        true,
			FollowSymlinks:   false,
			RespectGitignore: true,
			Concurrency:      0,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// If no config path is given, one is discovered by searching upward from
// the target path.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// New viper instance per call to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to unmarshal config file %s", configPath), err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being analyzed (a source file or directory).
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ConfigFileName,
		"codescan.toml",
		"codescan.yaml",
		"codescan.yml",
		".codescan.yaml",
		".codescan.yml",
		"codescan.json",
		".codescan.json",
	}

	// Search from target directory up to the filesystem root
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// CODESCAN_CONFIG environment variable as last fallback
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values. Configuration errors are
// fatal: analysis never runs with guessed thresholds.
func (c *Config) Validate() error {
	if err := c.Complexity.validate(); err != nil {
		return err
	}
	if err := c.Clones.validate(); err != nil {
		return err
	}

	weights := c.Quality.Weights()
	if err := weights.Validate(); err != nil {
		return err
	}
	levels := c.Quality.Levels()
	if levels.Excellent <= levels.Good || levels.Good <= levels.Fair || levels.Fair <= levels.Poor {
		return domain.NewConfigError(
			fmt.Sprintf("quality level thresholds must descend: excellent(%.1f) > good(%.1f) > fair(%.1f) > poor(%.1f)",
				levels.Excellent, levels.Good, levels.Fair, levels.Poor), nil)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return domain.NewConfigError(
			fmt.Sprintf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format), nil)
	}

	validSortBy := map[string]bool{
		"complexity": true,
		"name":       true,
		"risk":       true,
		"similarity": true,
		"size":       true,
		"location":   true,
	}
	if !validSortBy[c.Output.SortBy] {
		return domain.NewConfigError(
			fmt.Sprintf("invalid output.sort_by '%s', must be one of: complexity, name, risk, similarity, size, location", c.Output.SortBy), nil)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return domain.NewConfigError("analysis.include_patterns cannot be empty", nil)
	}
	if c.Analysis.Concurrency < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("analysis.concurrency must be >= 0, got %d", c.Analysis.Concurrency), nil)
	}

	return nil
}

func (c *ComplexityConfig) validate() error {
	pairs := []struct {
		name         string
		medium, high int
	}{
		{"cyclomatic", c.CyclomaticMedium, c.CyclomaticHigh},
		{"cognitive", c.CognitiveMedium, c.CognitiveHigh},
		{"nesting", c.NestingMedium, c.NestingHigh},
		{"length", c.LengthMedium, c.LengthHigh},
	}
	for _, p := range pairs {
		if p.medium < 1 {
			return domain.NewConfigError(
				fmt.Sprintf("complexity.%s_medium must be >= 1, got %d", p.name, p.medium), nil)
		}
		if p.high <= p.medium {
			return domain.NewConfigError(
				fmt.Sprintf("complexity.%s_high (%d) must be > %s_medium (%d)", p.name, p.high, p.name, p.medium), nil)
		}
	}

	if c.MinComplexity < 1 {
		return domain.NewConfigError(
			fmt.Sprintf("complexity.min_complexity must be >= 1, got %d", c.MinComplexity), nil)
	}
	if c.MaxComplexity < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("complexity.max_complexity must be >= 0, got %d", c.MaxComplexity), nil)
	}
	return nil
}

func (c *CloneConfig) validate() error {
	if c.MinLines < 1 || c.MinTokens < 1 || c.MinNodes < 1 {
		return domain.NewConfigError(
			fmt.Sprintf("clones minimum sizes must be >= 1, got lines=%d tokens=%d nodes=%d",
				c.MinLines, c.MinTokens, c.MinNodes), nil)
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"type1_threshold", c.Type1Threshold},
		{"type2_threshold", c.Type2Threshold},
		{"type3_threshold", c.Type3Threshold},
		{"type4_threshold", c.Type4Threshold},
	}
	for _, t := range thresholds {
		if t.value <= 0.0 || t.value > 1.0 {
			return domain.NewConfigError(
				fmt.Sprintf("clones.%s must be in (0.0, 1.0], got %.2f", t.name, t.value), nil)
		}
	}
	if c.Type1Threshold < c.Type2Threshold ||
		c.Type2Threshold < c.Type3Threshold ||
		c.Type3Threshold < c.Type4Threshold {
		return domain.NewConfigError(
			fmt.Sprintf("clone thresholds must descend: type1(%.2f) >= type2(%.2f) >= type3(%.2f) >= type4(%.2f)",
				c.Type1Threshold, c.Type2Threshold, c.Type3Threshold, c.Type4Threshold), nil)
	}

	if c.MinSizeRatio < 0.0 || c.MinSizeRatio > 1.0 {
		return domain.NewConfigError(
			fmt.Sprintf("clones.min_size_ratio must be in [0.0, 1.0], got %.2f", c.MinSizeRatio), nil)
	}
	if c.BucketThreshold < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("clones.bucket_threshold must be >= 0, got %d", c.BucketThreshold), nil)
	}
	if c.GroupingMode != "" && c.GroupingMode != "connected" && c.GroupingMode != "star_medoid" {
		return domain.NewConfigError(
			fmt.Sprintf("invalid clones.grouping_mode '%s', must be one of: connected, star_medoid", c.GroupingMode), nil)
	}
	return nil
}

// ShouldReport determines if a complexity result should be reported
func (c *ComplexityConfig) ShouldReport(complexity int) bool {
	if !c.Enabled {
		return false
	}
	if complexity == 1 && !c.ReportUnchanged {
		return false
	}
	return complexity >= c.MinComplexity
}

// ExceedsMaxComplexity checks if complexity exceeds the maximum allowed
func (c *ComplexityConfig) ExceedsMaxComplexity(complexity int) bool {
	return c.MaxComplexity > 0 && complexity > c.MaxComplexity
}

// SaveConfig saves configuration to a file (format chosen by extension)
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("complexity", config.Complexity)
	v.Set("clones", config.Clones)
	v.Set("quality", config.Quality)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}

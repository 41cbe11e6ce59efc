package config

import (
	"fmt"
	"strings"
)

// ProjectType represents the kind of codebase being configured
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeWeb     ProjectType = "web"
	ProjectTypeBackend ProjectType = "backend"
	ProjectTypeSystems ProjectType = "systems"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file patterns for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	CyclomaticMedium int
	CyclomaticHigh   int
	MaxComplexity    int
	MinCloneLines    int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	common := []string{
		"node_modules", "vendor", "dist", "build", "out", "target",
		".git", ".cache", "coverage",
	}
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: DefaultConfig().Analysis.IncludePatterns,
			ExcludePatterns: common,
		},
		ProjectTypeWeb: {
			IncludePatterns: []string{
				"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.cjs",
				"**/*.ts", "**/*.tsx", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: append(append([]string{}, common...),
				".next", ".nuxt", "*.min.js", "*.bundle.js", "*.map"),
		},
		ProjectTypeBackend: {
			IncludePatterns: []string{
				"**/*.py", "**/*.go", "**/*.java", "**/*.rs", "**/*.cs",
			},
			ExcludePatterns: append(append([]string{}, common...),
				"__pycache__", ".venv", "venv", "bin", "obj", "*_pb2.py", "*.pb.go"),
		},
		ProjectTypeSystems: {
			IncludePatterns: []string{
				"**/*.cpp", "**/*.cc", "**/*.cxx", "**/*.hpp", "**/*.hh", "**/*.h", "**/*.rs",
			},
			ExcludePatterns: append(append([]string{}, common...),
				"cmake-build-debug", "cmake-build-release", "third_party"),
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			CyclomaticMedium: 15,
			CyclomaticHigh:   30,
			MaxComplexity:    0,
			MinCloneLines:    10,
		},
		StrictnessStandard: {
			CyclomaticMedium: 10,
			CyclomaticHigh:   20,
			MaxComplexity:    0,
			MinCloneLines:    5,
		},
		StrictnessStrict: {
			CyclomaticMedium: 5,
			CyclomaticHigh:   10,
			MaxComplexity:    15,
			MinCloneLines:    3,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as TOML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset := GetProjectPresets()[projectType]
	strict := GetStrictnessPresets()[strictness]

	return `# codescan configuration
# Documentation: https://github.com/ludo-technologies/codescan

# ==============================================================================
# COMPLEXITY ANALYSIS
# ==============================================================================
# Per-function cyclomatic and cognitive complexity, nesting depth, and length
[complexity]
enabled = true

# Values above medium are flagged, values above high are high risk
cyclomatic_medium = ` + fmt.Sprintf("%d", strict.CyclomaticMedium) + `
cyclomatic_high = ` + fmt.Sprintf("%d", strict.CyclomaticHigh) + `
cognitive_medium = 15
cognitive_high = 30
nesting_medium = 4
nesting_high = 6
length_medium = 50
length_high = 100

# Maximum allowed complexity (0 = no limit)
# Set this for CI enforcement to fail builds on complex functions
max_complexity = ` + fmt.Sprintf("%d", strict.MaxComplexity) + `

# Report functions with complexity = 1
report_unchanged = false

# ==============================================================================
# CLONE DETECTION
# ==============================================================================
# Finds duplicated code blocks and classifies them by similarity
[clones]
enabled = true

# Blocks smaller than all three minimums are never compared
min_lines = ` + fmt.Sprintf("%d", strict.MinCloneLines) + `
min_tokens = 50
min_nodes = 10

# Similarity cut points per clone type, descending
type1_threshold = 0.98
type2_threshold = 0.95
type3_threshold = 0.85
type4_threshold = 0.70

# Refine near-miss candidates with a normalized edit distance pass
near_miss_edit_distance = true

# ==============================================================================
# QUALITY SCORING
# ==============================================================================
# Weighted maintainability index over six category sub-scores
[quality]
enabled = true

# Weights must sum to 1.0
complexity_weight = 0.25
duplication_weight = 0.20
documentation_weight = 0.15
naming_weight = 0.15
structure_weight = 0.15
test_coverage_weight = 0.10

# ==============================================================================
# OUTPUT SETTINGS
# ==============================================================================
[output]
# Output format: "text", "json", "yaml", "csv"
format = "text"

# Show detailed breakdown of results
show_details = true

# Sort results by: complexity, name, risk, similarity, size, location
sort_by = "complexity"

# ==============================================================================
# ANALYSIS SCOPE
# ==============================================================================
[analysis]
include_patterns = ` + formatTOMLArray(preset.IncludePatterns) + `
exclude_patterns = ` + formatTOMLArray(preset.ExcludePatterns) + `

recursive = true
respect_gitignore = true

# Number of parallel workers (0 = number of CPUs)
concurrency = 0
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# codescan configuration (minimal)
# See full options: https://github.com/ludo-technologies/codescan

[complexity]
enabled = true
cyclomatic_medium = 10
cyclomatic_high = 20

[clones]
enabled = true
min_lines = 5

[analysis]
exclude_patterns = ["node_modules", "vendor", "dist", "build", ".git"]
`
}

// formatTOMLArray formats a string slice as a TOML array with one entry per line
func formatTOMLArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	var b strings.Builder
	b.WriteString("[\n")
	for _, item := range items {
		b.WriteString(`    "` + item + `",` + "\n")
	}
	b.WriteString("]")
	return b.String()
}

package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria represents the criteria for sorting results
type SortCriteria string

const (
	SortByComplexity SortCriteria = "complexity"
	SortByName       SortCriteria = "name"
	SortByRisk       SortCriteria = "risk"
	SortBySimilarity SortCriteria = "similarity"
	SortBySize       SortCriteria = "size"
	SortByLocation   SortCriteria = "location"
)

// RiskLevel represents the complexity risk level
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// ComplexityRequest represents a request for complexity analysis
type ComplexityRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Filtering and sorting
	MinComplexity int
	MaxComplexity int // 0 means no limit
	SortBy        SortCriteria

	// MaxResults caps the reported function list after sorting; summary
	// statistics still cover everything analyzed. 0 means all results.
	MaxResults int

	// Cyclomatic risk cut points; exceeding Medium flags a function,
	// exceeding High escalates it
	MediumThreshold int
	HighThreshold   int

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	NoProgress      bool
	Concurrency     int
}

// ComplexityMetrics represents the complexity metrics for one function or
// one file
type ComplexityMetrics struct {
	// McCabe cyclomatic complexity: decision points + 1
	Cyclomatic int `json:"cyclomatic" yaml:"cyclomatic"`

	// Cognitive complexity: decision points weighted by nesting depth
	Cognitive int `json:"cognitive" yaml:"cognitive"`

	// Maximum nesting depth through block-introducing constructs
	MaxNesting int `json:"max_nesting" yaml:"max_nesting"`

	// AST node count of the analyzed subtree
	Nodes int `json:"nodes" yaml:"nodes"`

	// Line count of the analyzed span
	Lines int `json:"lines" yaml:"lines"`
}

// FunctionComplexity represents complexity analysis result for a single function
type FunctionComplexity struct {
	// Function identification
	Name        string `json:"name" yaml:"name"`
	FilePath    string `json:"file_path" yaml:"file_path"`
	StartLine   int    `json:"start_line" yaml:"start_line"`
	StartColumn int    `json:"start_column" yaml:"start_column"`
	EndLine     int    `json:"end_line" yaml:"end_line"`
	LineCount   int    `json:"line_count" yaml:"line_count"`

	// Complexity metrics
	Metrics ComplexityMetrics `json:"metrics" yaml:"metrics"`

	// Risk assessment
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// ComplexityFinding represents one threshold violation. The same shape is
// used for every metric; severity is medium above the medium cut point and
// high above the high cut point.
type ComplexityFinding struct {
	Metric    string    `json:"metric" yaml:"metric"`
	Value     int       `json:"value" yaml:"value"`
	Threshold int       `json:"threshold" yaml:"threshold"`
	Severity  RiskLevel `json:"severity" yaml:"severity"`
	Function  string    `json:"function,omitempty" yaml:"function,omitempty"`
	FilePath  string    `json:"file_path" yaml:"file_path"`
	StartLine int       `json:"start_line" yaml:"start_line"`
}

// FileComplexity represents the per-file analysis result
type FileComplexity struct {
	FilePath string   `json:"file_path" yaml:"file_path"`
	Language Language `json:"language" yaml:"language"`

	// File-level metrics (whole tree)
	Metrics ComplexityMetrics `json:"metrics" yaml:"metrics"`

	// Per-function results
	Functions []FunctionComplexity `json:"functions" yaml:"functions"`

	// Threshold violations
	Findings []ComplexityFinding `json:"findings,omitempty" yaml:"findings,omitempty"`

	// 0.95 when the parse succeeded, 0.0 otherwise
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ComplexitySummary represents aggregate statistics
type ComplexitySummary struct {
	TotalFunctions    int     `json:"total_functions" yaml:"total_functions"`
	AverageComplexity float64 `json:"average_complexity" yaml:"average_complexity"`
	MaxComplexity     int     `json:"max_complexity" yaml:"max_complexity"`
	MinComplexity     int     `json:"min_complexity" yaml:"min_complexity"`
	FilesAnalyzed     int     `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSubmitted    int     `json:"files_submitted" yaml:"files_submitted"`

	// Risk distribution
	LowRiskFunctions    int `json:"low_risk_functions" yaml:"low_risk_functions"`
	MediumRiskFunctions int `json:"medium_risk_functions" yaml:"medium_risk_functions"`
	HighRiskFunctions   int `json:"high_risk_functions" yaml:"high_risk_functions"`

	// Complexity distribution
	ComplexityDistribution map[string]int `json:"complexity_distribution,omitempty" yaml:"complexity_distribution,omitempty"`
}

// SkippedFile records a submitted file that was excluded from analysis and
// why, so partial runs stay visible to callers
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// ComplexityResponse represents the complete analysis result
type ComplexityResponse struct {
	// Analysis results
	Files     []FileComplexity     `json:"files" yaml:"files"`
	Functions []FunctionComplexity `json:"functions" yaml:"functions"`
	Summary   ComplexitySummary    `json:"summary" yaml:"summary"`

	// Files excluded from the run with reasons
	SkippedFiles []SkippedFile `json:"skipped_files,omitempty" yaml:"skipped_files,omitempty"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"` // Configuration used for analysis
}

// ComplexityService defines the core business logic for complexity analysis
type ComplexityService interface {
	// Analyze performs complexity analysis on the given request
	Analyze(ctx context.Context, req ComplexityRequest) (*ComplexityResponse, error)

	// AnalyzeFile analyzes a single source file
	AnalyzeFile(ctx context.Context, filePath string, req ComplexityRequest) (*ComplexityResponse, error)
}

// SourceFileReader defines the interface for reading and collecting source files
type SourceFileReader interface {
	// CollectSourceFiles recursively finds all supported source files in the given paths
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsSupportedFile checks whether a file's extension maps to a registered language
	IsSupportedFile(path string) bool

	// DetectLanguage resolves the language for a path; ok is false for
	// unrecognized extensions
	DetectLanguage(path string) (Language, bool)

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting complexity results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *ComplexityResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *ComplexityResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ComplexityRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ComplexityRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ComplexityRequest, override *ComplexityRequest) *ComplexityRequest
}

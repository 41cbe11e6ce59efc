package domain

import (
	"context"
	"fmt"
	"io"
)

// CloneType classifies a clone pair by how the two fragments differ.
// The zero value means the pair is not a clone.
type CloneType int

const (
	// Type1Clone: byte-identical fragments
	Type1Clone CloneType = iota + 1
	// Type2Clone: identical after identifier/literal normalization
	Type2Clone
	// Type3Clone: structurally identical or within edit-distance tolerance
	Type3Clone
	// Type4Clone: token-level similarity above the semantic threshold
	Type4Clone
)

// String returns the display label for the clone type
func (ct CloneType) String() string {
	switch ct {
	case Type1Clone:
		return "Type 1 (Exact)"
	case Type2Clone:
		return "Type 2 (Parameterized)"
	case Type3Clone:
		return "Type 3 (Near-miss)"
	case Type4Clone:
		return "Type 4 (Semantic)"
	default:
		return "No Clone"
	}
}

// MarshalJSON renders the clone type as its display label
func (ct CloneType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", ct.String())), nil
}

// MarshalYAML renders the clone type as its display label
func (ct CloneType) MarshalYAML() (interface{}, error) {
	return ct.String(), nil
}

// CloneLocation identifies a code span within a file
type CloneLocation struct {
	FilePath  string `json:"file_path" yaml:"file_path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	StartCol  int    `json:"start_col" yaml:"start_col"`
	EndCol    int    `json:"end_col" yaml:"end_col"`
}

// String returns a compact file:line:col span representation
func (l *CloneLocation) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.FilePath, l.StartLine, l.StartCol, l.EndLine, l.EndCol)
}

// Clone represents one code fragment that participates in duplication
type Clone struct {
	Location   *CloneLocation `json:"location" yaml:"location"`
	NodeType   string         `json:"node_type" yaml:"node_type"`
	LineCount  int            `json:"line_count" yaml:"line_count"`
	TokenCount int            `json:"token_count" yaml:"token_count"`
	NodeCount  int            `json:"node_count" yaml:"node_count"`
}

// ClonePair relates exactly two clones from different files. Pairs are
// order-independent; a fragment is never paired with itself or with another
// fragment from the same file.
type ClonePair struct {
	Clone1     *Clone    `json:"clone1" yaml:"clone1"`
	Clone2     *Clone    `json:"clone2" yaml:"clone2"`
	Similarity float64   `json:"similarity" yaml:"similarity"`
	Type       CloneType `json:"type" yaml:"type"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
}

// CloneGroup collects fragments whose pairwise classifications connect them
type CloneGroup struct {
	ID         int       `json:"id" yaml:"id"`
	Clones     []*Clone  `json:"clones" yaml:"clones"`
	Similarity float64   `json:"similarity" yaml:"similarity"`
	Type       CloneType `json:"type" yaml:"type"`
	Size       int       `json:"size" yaml:"size"`
}

// CloneStatistics aggregates a detection run
type CloneStatistics struct {
	TotalClones           int            `json:"total_clones" yaml:"total_clones"`
	TotalClonePairs       int            `json:"total_clone_pairs" yaml:"total_clone_pairs"`
	TotalCloneGroups      int            `json:"total_clone_groups" yaml:"total_clone_groups"`
	ClonesByType          map[string]int `json:"clones_by_type" yaml:"clones_by_type"`
	AverageSimilarity     float64        `json:"average_similarity" yaml:"average_similarity"`
	LinesAnalyzed         int            `json:"lines_analyzed" yaml:"lines_analyzed"`
	DuplicatedLines       int            `json:"duplicated_lines" yaml:"duplicated_lines"`
	DuplicationPercentage float64        `json:"duplication_percentage" yaml:"duplication_percentage"`
	FilesAnalyzed         int            `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSubmitted        int            `json:"files_submitted" yaml:"files_submitted"`
}

// CloneRequest represents a request for clone detection
type CloneRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
	SortBy       SortCriteria

	// MaxResults caps the reported pair list after sorting; statistics
	// still cover every detected pair. 0 means all results.
	MaxResults int

	// Minimum fragment size gates (lines, word tokens, AST nodes)
	MinLines  int
	MinTokens int
	MinNodes  int

	// Clone-type similarity cut points; zero means use configured default
	Type1Threshold float64
	Type2Threshold float64
	Type3Threshold float64
	Type4Threshold float64

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	NoProgress      bool
	Concurrency     int
}

// CloneResponse represents the complete detection result
type CloneResponse struct {
	Clones      []*Clone      `json:"clones" yaml:"clones"`
	ClonePairs  []*ClonePair  `json:"clone_pairs" yaml:"clone_pairs"`
	CloneGroups []*CloneGroup `json:"clone_groups" yaml:"clone_groups"`

	Statistics *CloneStatistics `json:"statistics" yaml:"statistics"`

	// Files excluded from the run with reasons
	SkippedFiles []SkippedFile `json:"skipped_files,omitempty" yaml:"skipped_files,omitempty"`

	// Deterministic remediation hints derived from the type distribution
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	Duration    int64  `json:"duration_ms" yaml:"duration_ms"`
	Success     bool   `json:"success" yaml:"success"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// CloneService defines the core business logic for clone detection
type CloneService interface {
	// DetectClones performs clone detection on the given request
	DetectClones(ctx context.Context, req *CloneRequest) (*CloneResponse, error)

	// DetectClonesInFiles performs clone detection on specific files
	DetectClonesInFiles(ctx context.Context, filePaths []string, req *CloneRequest) (*CloneResponse, error)
}

// CloneOutputFormatter defines the interface for formatting clone results
type CloneOutputFormatter interface {
	Format(response *CloneResponse, format OutputFormat) (string, error)
	Write(response *CloneResponse, format OutputFormat, writer io.Writer) error
}

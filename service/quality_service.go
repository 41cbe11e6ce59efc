package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/analyzer"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/internal/lang"
	"github.com/ludo-technologies/codescan/internal/parser"
	"github.com/ludo-technologies/codescan/internal/version"
)

// minDescriptiveNameLength is the shortest identifier still counted as
// descriptive by the naming heuristic.
const minDescriptiveNameLength = 3

// QualityServiceImpl implements the QualityService interface. It measures
// every sub-score input itself so the weighted-sum identity holds over all
// six categories regardless of which analyses the caller ran.
type QualityServiceImpl struct {
	weights       domain.QualityWeights
	levels        domain.QualityLevelThresholds
	complexityCfg *config.ComplexityConfig
	cloneCfg      analyzer.CloneDetectorConfig
	parser        *parser.Parser
	reader        domain.SourceFileReader
	progress      domain.ProgressManager
}

// NewQualityService creates a quality service from the full configuration
func NewQualityService(cfg *config.Config) *QualityServiceImpl {
	return &QualityServiceImpl{
		weights:       cfg.Quality.Weights(),
		levels:        cfg.Quality.Levels(),
		complexityCfg: &cfg.Complexity,
		cloneCfg:      DetectorConfigFromCloneConfig(&cfg.Clones),
		parser:        parser.New(),
		reader:        NewSourceFileReader(),
	}
}

// NewQualityServiceWithDefaults creates a quality service with default configuration
func NewQualityServiceWithDefaults() *QualityServiceImpl {
	return NewQualityService(config.DefaultConfig())
}

// SetProgressManager attaches progress reporting to subsequent runs
func (s *QualityServiceImpl) SetProgressManager(pm domain.ProgressManager) {
	s.progress = pm
}

// qualityFileResult carries one file's measurements. Each task writes
// only its own slot, so the merge needs no locking.
type qualityFileResult struct {
	file         *domain.FileComplexity
	blocks       []*analyzer.CodeBlock
	commentLines int
	identifiers  int
	descriptive  int
	skipped      *domain.SkippedFile
}

// qualityFileTask reads, parses, and measures one file
type qualityFileTask struct {
	path     string
	analyzer *analyzer.ComplexityAnalyzer
	parser   *parser.Parser
	reader   domain.SourceFileReader
	result   *qualityFileResult
}

func (t *qualityFileTask) Name() string { return t.path }

func (t *qualityFileTask) IsEnabled() bool { return true }

func (t *qualityFileTask) Execute(ctx context.Context) (interface{}, error) {
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
	t.result.commentLines = countCommentLines(tree)
	t.result.identifiers, t.result.descriptive = countIdentifiers(tree)
	t.result.blocks = analyzer.ExtractBlocks(tree)
	return len(file.Functions), nil
}

// Assess computes the maintainability report for the given request.
// Per-file measurement runs in parallel; scoring over the merged totals
// runs single-threaded.
func (s *QualityServiceImpl) Assess(ctx context.Context, req *domain.QualityRequest) (*domain.QualityResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("quality request cannot be nil", nil)
	}

	startTime := time.Now()

	ma, err := analyzer.NewMaintainabilityAnalyzer(s.weights, s.levels)
	if err != nil {
		return nil, err
	}

	ca := analyzer.NewComplexityAnalyzer(s.complexityCfg)
	detector := analyzer.NewCloneDetector(s.cloneCfg)

	results := make([]qualityFileResult, len(req.Paths))
	tasks := make([]domain.ExecutableTask, 0, len(req.Paths))
	for i, path := range req.Paths {
		tasks = append(tasks, &qualityFileTask{
			path:     path,
			analyzer: ca,
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
		return nil, fmt.Errorf("quality assessment cancelled: %w", err)
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

	// Merge in input order so the block list stays deterministic
	var (
		blocks       []*analyzer.CodeBlock
		skippedFiles []domain.SkippedFile

		totalLines   int
		commentLines int

		identifierCount  int
		descriptiveCount int

		cyclomaticSum int
		nestingSum    int
		functionCount int

		testFiles     int
		filesAnalyzed int
	)
	for i := range results {
		r := &results[i]
		if r.skipped != nil {
			skippedFiles = append(skippedFiles, *r.skipped)
			continue
		}
		if r.file == nil {
			continue
		}

		for _, fn := range r.file.Functions {
			cyclomaticSum += fn.Metrics.Cyclomatic
			nestingSum += fn.Metrics.MaxNesting
			functionCount++
		}

		totalLines += r.file.Metrics.Lines
		commentLines += r.commentLines
		identifierCount += r.identifiers
		descriptiveCount += r.descriptive
		blocks = append(blocks, r.blocks...)

		if isTestFile(req.Paths[i]) {
			testFiles++
		}
		filesAnalyzed++
	}

	pairs, groups, err := detector.DetectClonesWithContext(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("quality assessment cancelled: %w", err)
	}
	stats := buildCloneStatistics(pairs, groups, filesAnalyzed, len(req.Paths), totalLines)

	input := analyzer.MaintainabilityInput{
		MeanCyclomatic:        ratio(float64(cyclomaticSum), functionCount),
		DuplicationPercentage: stats.DuplicationPercentage,
		ClonePairs:            pairs,
		CommentRatio:          ratio(float64(commentLines), totalLines),
		DescriptiveNameRatio:  nameRatio(descriptiveCount, identifierCount),
		MeanNesting:           ratio(float64(nestingSum), functionCount),
		TestFileRatio:         ratio(float64(testFiles), filesAnalyzed),
		Overrides:             req.ScoreOverrides,
	}

	return &domain.QualityResponse{
		Report:         ma.BuildReport(input),
		FilesAnalyzed:  filesAnalyzed,
		FilesSubmitted: len(req.Paths),
		SkippedFiles:   skippedFiles,
		Errors:         errorStrings,
		Duration:       time.Since(startTime).Milliseconds(),
		Success:        true,
		GeneratedAt:    time.Now().Format(time.RFC3339),
		Version:        version.Version,
	}, nil
}

// DetectorConfigFromCloneConfig maps the file configuration onto the
// detector configuration
func DetectorConfigFromCloneConfig(c *config.CloneConfig) analyzer.CloneDetectorConfig {
	cfg := analyzer.DefaultCloneDetectorConfig()
	cfg.MinLines = c.MinLines
	cfg.MinTokens = c.MinTokens
	cfg.MinNodes = c.MinNodes
	cfg.Type1Threshold = c.Type1Threshold
	cfg.Type2Threshold = c.Type2Threshold
	cfg.Type3Threshold = c.Type3Threshold
	cfg.Type4Threshold = c.Type4Threshold
	cfg.NearMissEditDistance = c.NearMissEditDistance
	cfg.MinSizeRatio = c.MinSizeRatio
	cfg.BucketThreshold = c.BucketThreshold
	if c.GroupingMode != "" {
		cfg.GroupingMode = analyzer.GroupingMode(c.GroupingMode)
	}
	return cfg
}

// ratio divides a sum by a count, returning 0 for an empty count
func ratio(sum float64, count int) float64 {
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// nameRatio returns the descriptive share of identifiers. A file set with
// no identifiers at all is not penalized.
func nameRatio(descriptive, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(descriptive) / float64(total)
}

// countCommentLines sums the line spans of comment nodes
func countCommentLines(tree *parser.Tree) int {
	nt := &tree.Language.NodeTypes
	total := 0

	stack := []*sitter.Node{tree.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nt.Comment[n.Type()] {
			total += int(n.EndPoint().Row) - int(n.StartPoint().Row) + 1
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}

	return total
}

// countIdentifiers returns the total identifier count and how many of them
// pass the descriptive-name heuristic
func countIdentifiers(tree *parser.Tree) (int, int) {
	nt := &tree.Language.NodeTypes
	total, descriptive := 0, 0

	stack := []*sitter.Node{tree.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nt.Identifier[n.Type()] {
			total++
			if isDescriptiveName(lang.NodeText(n, tree.Source)) {
				descriptive++
			}
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}

	return total, descriptive
}

// isDescriptiveName applies the naming heuristic: at least three
// characters, and not a run of single letters joined by underscores.
func isDescriptiveName(name string) bool {
	if len(name) < minDescriptiveNameLength {
		return false
	}
	for _, part := range strings.Split(name, "_") {
		if len(part) > 1 {
			return true
		}
	}
	return false
}

// isTestFile reports whether a path follows a test naming convention of
// one of the supported languages
func isTestFile(path string) bool {
	normalized := strings.ToLower(filepath.ToSlash(path))
	base := normalized
	if i := strings.LastIndex(normalized, "/"); i >= 0 {
		base = normalized[i+1:]
	}

	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "test_"),
		strings.HasSuffix(base, "_test.py"),
		strings.Contains(base, ".test."),
		strings.Contains(base, ".spec."),
		strings.HasSuffix(base, "test.java"),
		strings.HasSuffix(base, "test.cs"),
		strings.HasSuffix(base, "tests.cs"):
		return true
	}

	return strings.Contains(normalized, "/tests/") || strings.Contains(normalized, "/test/")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/analyzer"
	"github.com/ludo-technologies/codescan/internal/parser"
	"github.com/ludo-technologies/codescan/internal/version"
)

// CloneServiceImpl implements the CloneService interface
type CloneServiceImpl struct {
	config   analyzer.CloneDetectorConfig
	parser   *parser.Parser
	reader   domain.SourceFileReader
	progress domain.ProgressManager
}

// NewCloneService creates a new clone detection service
func NewCloneService(config analyzer.CloneDetectorConfig) *CloneServiceImpl {
	return &CloneServiceImpl{
		config: config,
		parser: parser.New(),
		reader: NewSourceFileReader(),
	}
}

// NewCloneServiceWithDefaults creates a clone service with default configuration
func NewCloneServiceWithDefaults() *CloneServiceImpl {
	return NewCloneService(analyzer.DefaultCloneDetectorConfig())
}

// SetProgressManager attaches progress reporting to subsequent runs
func (s *CloneServiceImpl) SetProgressManager(pm domain.ProgressManager) {
	s.progress = pm
}

// cloneFileResult carries one file's extraction outcome. Each task writes
// only its own slot, so the merge needs no locking.
type cloneFileResult struct {
	blocks  []*analyzer.CodeBlock
	lines   int
	skipped *domain.SkippedFile
}

// cloneFileTask reads, parses, and extracts blocks from one file
type cloneFileTask struct {
	path   string
	parser *parser.Parser
	reader domain.SourceFileReader
	result *cloneFileResult
}

func (t *cloneFileTask) Name() string { return t.path }

func (t *cloneFileTask) IsEnabled() bool { return true }

func (t *cloneFileTask) Execute(ctx context.Context) (interface{}, error) {
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

	t.result.blocks = analyzer.ExtractBlocks(tree)
	t.result.lines = countLines(content)
	return len(t.result.blocks), nil
}

// DetectClones implements the CloneService interface. Files are read,
// parsed, and block-extracted in parallel; classification over the merged
// block list runs single-threaded.
func (s *CloneServiceImpl) DetectClones(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("clone request cannot be nil", nil)
	}

	startTime := time.Now()

	detector := analyzer.NewCloneDetector(s.detectorConfig(req))

	results := make([]cloneFileResult, len(req.Paths))
	tasks := make([]domain.ExecutableTask, 0, len(req.Paths))
	for i, path := range req.Paths {
		tasks = append(tasks, &cloneFileTask{
			path:   path,
			parser: s.parser,
			reader: s.reader,
			result: &results[i],
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
		return nil, fmt.Errorf("clone detection cancelled: %w", err)
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
	var blocks []*analyzer.CodeBlock
	var skippedFiles []domain.SkippedFile
	filesAnalyzed := 0
	linesAnalyzed := 0
	for i := range results {
		r := &results[i]
		if r.skipped != nil {
			skippedFiles = append(skippedFiles, *r.skipped)
			continue
		}
		blocks = append(blocks, r.blocks...)
		linesAnalyzed += r.lines
		filesAnalyzed++
	}

	if len(blocks) == 0 {
		return &domain.CloneResponse{
			Clones:      []*domain.Clone{},
			ClonePairs:  []*domain.ClonePair{},
			CloneGroups: []*domain.CloneGroup{},
			Statistics: &domain.CloneStatistics{
				ClonesByType:   make(map[string]int),
				LinesAnalyzed:  linesAnalyzed,
				FilesAnalyzed:  filesAnalyzed,
				FilesSubmitted: len(req.Paths),
			},
			SkippedFiles: skippedFiles,
			Errors:       errorStrings,
			Duration:     time.Since(startTime).Milliseconds(),
			Success:      true,
			GeneratedAt:  time.Now().Format(time.RFC3339),
			Version:      version.Version,
		}, nil
	}

	pairs, groups, err := detector.DetectClonesWithContext(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("clone detection cancelled: %w", err)
	}

	stats := buildCloneStatistics(pairs, groups, filesAnalyzed, len(req.Paths), linesAnalyzed)

	// Presentation order only; detection itself is order-independent
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})

	if req.MaxResults > 0 && len(pairs) > req.MaxResults {
		pairs = pairs[:req.MaxResults]
	}

	return &domain.CloneResponse{
		Clones:          extractUniqueClones(pairs),
		ClonePairs:      pairs,
		CloneGroups:     groups,
		Statistics:      stats,
		SkippedFiles:    skippedFiles,
		Recommendations: buildCloneRecommendations(stats),
		Errors:          errorStrings,
		Duration:        time.Since(startTime).Milliseconds(),
		Success:         true,
		GeneratedAt:     time.Now().Format(time.RFC3339),
		Version:         version.Version,
	}, nil
}

// DetectClonesInFiles implements the CloneService interface
func (s *CloneServiceImpl) DetectClonesInFiles(ctx context.Context, filePaths []string, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("clone request cannot be nil", nil)
	}
	fileReq := *req
	fileReq.Paths = filePaths
	return s.DetectClones(ctx, &fileReq)
}

// detectorConfig merges request overrides onto the service configuration.
// Zero request values keep the configured defaults.
func (s *CloneServiceImpl) detectorConfig(req *domain.CloneRequest) analyzer.CloneDetectorConfig {
	cfg := s.config

	if req.MinLines > 0 {
		cfg.MinLines = req.MinLines
	}
	if req.MinTokens > 0 {
		cfg.MinTokens = req.MinTokens
	}
	if req.MinNodes > 0 {
		cfg.MinNodes = req.MinNodes
	}
	if req.Type1Threshold > 0 {
		cfg.Type1Threshold = req.Type1Threshold
	}
	if req.Type2Threshold > 0 {
		cfg.Type2Threshold = req.Type2Threshold
	}
	if req.Type3Threshold > 0 {
		cfg.Type3Threshold = req.Type3Threshold
	}
	if req.Type4Threshold > 0 {
		cfg.Type4Threshold = req.Type4Threshold
	}

	return cfg
}

// buildCloneStatistics computes aggregate statistics from detection results
func buildCloneStatistics(pairs []*domain.ClonePair, groups []*domain.CloneGroup, filesAnalyzed, filesSubmitted, linesAnalyzed int) *domain.CloneStatistics {
	stats := &domain.CloneStatistics{
		TotalClonePairs:  len(pairs),
		TotalCloneGroups: len(groups),
		ClonesByType:     make(map[string]int),
		LinesAnalyzed:    linesAnalyzed,
		FilesAnalyzed:    filesAnalyzed,
		FilesSubmitted:   filesSubmitted,
	}

	uniqueClones := make(map[string]*domain.Clone)
	totalSimilarity := 0.0
	for _, pair := range pairs {
		stats.ClonesByType[pair.Type.String()]++
		totalSimilarity += pair.Similarity

		for _, clone := range []*domain.Clone{pair.Clone1, pair.Clone2} {
			if clone != nil && clone.Location != nil {
				uniqueClones[clone.Location.String()] = clone
			}
		}
	}

	stats.TotalClones = len(uniqueClones)
	if len(pairs) > 0 {
		stats.AverageSimilarity = totalSimilarity / float64(len(pairs))
	}

	for _, clone := range uniqueClones {
		stats.DuplicatedLines += clone.LineCount
	}
	if linesAnalyzed > 0 {
		stats.DuplicationPercentage = min(float64(stats.DuplicatedLines)/float64(linesAnalyzed)*100.0, 100.0)
	}

	return stats
}

// extractUniqueClones returns each distinct fragment once, in pair order
func extractUniqueClones(pairs []*domain.ClonePair) []*domain.Clone {
	seen := make(map[string]struct{})
	var clones []*domain.Clone

	for _, pair := range pairs {
		for _, clone := range []*domain.Clone{pair.Clone1, pair.Clone2} {
			if clone == nil || clone.Location == nil {
				continue
			}
			key := clone.Location.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			clones = append(clones, clone)
		}
	}

	return clones
}

// buildCloneRecommendations derives remediation hints from the type
// distribution. Deterministic: same statistics, same hints, same order.
func buildCloneRecommendations(stats *domain.CloneStatistics) []string {
	var recs []string
	if stats.ClonesByType[domain.Type1Clone.String()] > 0 {
		recs = append(recs, "Extract byte-identical fragments into a shared function")
	}
	if stats.ClonesByType[domain.Type2Clone.String()] > 0 {
		recs = append(recs, "Parameterize renamed duplicates into one implementation")
	}
	if stats.ClonesByType[domain.Type3Clone.String()] > 0 {
		recs = append(recs, "Review near-miss duplicates; small edits often hide a common helper")
	}
	if stats.ClonesByType[domain.Type4Clone.String()] > 0 {
		recs = append(recs, "Check semantically similar fragments for shared intent")
	}
	return recs
}

// countLines counts source lines, ignoring a trailing newline
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	lines := 0
	for _, b := range content {
		if b == '\n' {
			lines++
		}
	}
	if content[len(content)-1] != '\n' {
		lines++
	}
	return lines
}

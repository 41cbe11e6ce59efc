package service

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/analyzer"
)

const cloneFixtureA = `def load_orders(path):
    orders = []
    with open(path) as f:
        for line in f:
            orders.append(line.strip())
    return orders
`

const cloneFixtureB = `def load_orders(path):
    orders = []
    with open(path) as f:
        for line in f:
            orders.append(line.strip())
    return orders
`

// smallCloneRequest lowers the size gates so short fixtures survive
// block filtering.
func smallCloneRequest(paths ...string) *domain.CloneRequest {
	return &domain.CloneRequest{
		Paths:     paths,
		MinLines:  2,
		MinTokens: 5,
		MinNodes:  3,
	}
}

func TestNewCloneService(t *testing.T) {
	cfg := analyzer.DefaultCloneDetectorConfig()
	cfg.MinLines = 3

	svc := NewCloneService(cfg)
	if svc == nil {
		t.Fatal("NewCloneService returned nil")
	}
	if svc.config.MinLines != 3 {
		t.Errorf("Expected configured MinLines 3, got %d", svc.config.MinLines)
	}
	if svc.parser == nil {
		t.Error("Expected parser to be initialized")
	}
	if svc.reader == nil {
		t.Error("Expected reader to be initialized")
	}
}

func TestNewCloneServiceWithDefaults(t *testing.T) {
	svc := NewCloneServiceWithDefaults()
	if svc == nil {
		t.Fatal("NewCloneServiceWithDefaults returned nil")
	}

	defaults := analyzer.DefaultCloneDetectorConfig()
	if svc.config.MinLines != defaults.MinLines {
		t.Errorf("Expected default MinLines %d, got %d", defaults.MinLines, svc.config.MinLines)
	}

	var _ domain.CloneService = svc
}

func TestCloneService_DetectClones_NilRequest(t *testing.T) {
	svc := NewCloneServiceWithDefaults()

	_, err := svc.DetectClones(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error for nil request")
	}
}

func TestCloneService_DetectClones_EmptyPaths(t *testing.T) {
	svc := NewCloneServiceWithDefaults()

	resp, err := svc.DetectClones(context.Background(), &domain.CloneRequest{Paths: []string{}})
	if err != nil {
		t.Fatalf("Expected no error for empty paths, got %v", err)
	}
	if resp == nil {
		t.Fatal("Expected response, got nil")
	}
	if !resp.Success {
		t.Error("Expected success for empty input")
	}
	if resp.ClonePairs == nil || len(resp.ClonePairs) != 0 {
		t.Errorf("Expected empty clone pairs slice, got %v", resp.ClonePairs)
	}
	if resp.CloneGroups == nil || len(resp.CloneGroups) != 0 {
		t.Errorf("Expected empty clone groups slice, got %v", resp.CloneGroups)
	}
	if resp.Statistics == nil {
		t.Fatal("Expected statistics to be present")
	}
	if resp.Statistics.ClonesByType == nil {
		t.Error("Expected ClonesByType map to be initialized")
	}
	if resp.Statistics.FilesSubmitted != 0 {
		t.Errorf("Expected 0 files submitted, got %d", resp.Statistics.FilesSubmitted)
	}
	if _, perr := time.Parse(time.RFC3339, resp.GeneratedAt); perr != nil {
		t.Errorf("Expected RFC3339 timestamp, got %q", resp.GeneratedAt)
	}
	if resp.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestCloneService_DetectClones_ReadFailureCollected(t *testing.T) {
	svc := NewCloneServiceWithDefaults()
	req := smallCloneRequest("/nonexistent/orders.py")

	resp, err := svc.DetectClones(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no hard error for unreadable file, got %v", err)
	}
	if !resp.Success {
		t.Error("Expected success despite per-file failure")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("Expected 1 collected error, got %d: %v", len(resp.Errors), resp.Errors)
	}
	if !strings.Contains(resp.Errors[0], "Failed to read file") {
		t.Errorf("Expected read failure in errors, got %q", resp.Errors[0])
	}
	if len(resp.SkippedFiles) != 1 {
		t.Fatalf("Expected 1 skipped file, got %d", len(resp.SkippedFiles))
	}
	if !strings.Contains(resp.SkippedFiles[0].Reason, "read failed") {
		t.Errorf("Expected read failure reason, got %q", resp.SkippedFiles[0].Reason)
	}
	if resp.Statistics.FilesAnalyzed != 0 {
		t.Errorf("Expected 0 files analyzed, got %d", resp.Statistics.FilesAnalyzed)
	}
	if resp.Statistics.FilesSubmitted != 1 {
		t.Errorf("Expected 1 file submitted, got %d", resp.Statistics.FilesSubmitted)
	}
}

func TestCloneService_DetectClones_UnsupportedFileSkipped(t *testing.T) {
	tempDir := t.TempDir()
	notes := filepath.Join(tempDir, "notes.xyz")
	writeTestFile(t, notes, "not source code\n")

	svc := NewCloneServiceWithDefaults()
	resp, err := svc.DetectClones(context.Background(), smallCloneRequest(notes))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("Expected no errors for unsupported file, got %v", resp.Errors)
	}
	if len(resp.SkippedFiles) != 1 {
		t.Fatalf("Expected 1 skipped file, got %d", len(resp.SkippedFiles))
	}
	if resp.SkippedFiles[0].Reason != "unsupported language" {
		t.Errorf("Expected unsupported language reason, got %q", resp.SkippedFiles[0].Reason)
	}
	if resp.Statistics.FilesAnalyzed != 0 {
		t.Errorf("Expected skipped file excluded from files analyzed, got %d", resp.Statistics.FilesAnalyzed)
	}
}

func TestCloneService_DetectClones_FindsCrossFileDuplicates(t *testing.T) {
	tempDir := t.TempDir()
	fileA := filepath.Join(tempDir, "orders.py")
	fileB := filepath.Join(tempDir, "invoices.py")
	writeTestFile(t, fileA, cloneFixtureA)
	writeTestFile(t, fileB, cloneFixtureB)

	svc := NewCloneServiceWithDefaults()
	resp, err := svc.DetectClones(context.Background(), smallCloneRequest(fileA, fileB))
	if err != nil {
		t.Fatalf("DetectClones failed: %v", err)
	}

	if len(resp.ClonePairs) == 0 {
		t.Fatal("Expected at least one clone pair for identical functions")
	}
	if resp.Statistics.TotalClonePairs != len(resp.ClonePairs) {
		t.Errorf("Expected statistics pair count %d, got %d", len(resp.ClonePairs), resp.Statistics.TotalClonePairs)
	}
	if resp.Statistics.FilesAnalyzed != 2 {
		t.Errorf("Expected 2 files analyzed, got %d", resp.Statistics.FilesAnalyzed)
	}
	if resp.Statistics.LinesAnalyzed == 0 {
		t.Error("Expected lines analyzed to be counted")
	}

	pair := resp.ClonePairs[0]
	if pair.Similarity < 0.95 {
		t.Errorf("Expected near-perfect similarity for identical code, got %f", pair.Similarity)
	}
	if pair.Clone1 == nil || pair.Clone2 == nil {
		t.Fatal("Expected both clones to be populated")
	}
	if pair.Clone1.Location.FilePath == pair.Clone2.Location.FilePath {
		t.Error("Expected clones from different files")
	}

	if len(resp.Clones) == 0 {
		t.Error("Expected unique clone fragments to be listed")
	}
	if len(resp.CloneGroups) == 0 {
		t.Error("Expected identical fragments to form a group")
	}
	if len(resp.Recommendations) == 0 {
		t.Error("Expected recommendations for detected clones")
	}
}

func TestCloneService_DetectClones_PairsSortedBySimilarity(t *testing.T) {
	tempDir := t.TempDir()
	fileA := filepath.Join(tempDir, "a.py")
	fileB := filepath.Join(tempDir, "b.py")
	// Two clone pairs with different similarity: identical loaders and
	// a renamed variant of the formatter.
	writeTestFile(t, fileA, `def load(path):
    rows = []
    with open(path) as f:
        for line in f:
            rows.append(line.strip())
    return rows

def format_row(row, sep):
    parts = row.split(sep)
    cleaned = [p.strip() for p in parts]
    return sep.join(cleaned)
`)
	writeTestFile(t, fileB, `def load(path):
    rows = []
    with open(path) as f:
        for line in f:
            rows.append(line.strip())
    return rows

def format_entry(entry, delim):
    parts = entry.split(delim)
    cleaned = [p.strip() for p in parts]
    return delim.join(cleaned)
`)

	svc := NewCloneServiceWithDefaults()
	resp, err := svc.DetectClones(context.Background(), smallCloneRequest(fileA, fileB))
	if err != nil {
		t.Fatalf("DetectClones failed: %v", err)
	}
	if len(resp.ClonePairs) < 2 {
		t.Fatalf("Expected at least 2 clone pairs, got %d", len(resp.ClonePairs))
	}
	for i := 1; i < len(resp.ClonePairs); i++ {
		if resp.ClonePairs[i-1].Similarity < resp.ClonePairs[i].Similarity {
			t.Errorf("Expected pairs sorted by similarity desc, got %f before %f",
				resp.ClonePairs[i-1].Similarity, resp.ClonePairs[i].Similarity)
		}
	}
}

func TestCloneService_DetectClones_MaxResults(t *testing.T) {
	tempDir := t.TempDir()
	fileA := filepath.Join(tempDir, "a.py")
	fileB := filepath.Join(tempDir, "b.py")
	writeTestFile(t, fileA, `def load(path):
    rows = []
    with open(path) as f:
        for line in f:
            rows.append(line.strip())
    return rows

def format_row(row, sep):
    parts = row.split(sep)
    cleaned = [p.strip() for p in parts]
    return sep.join(cleaned)
`)
	writeTestFile(t, fileB, `def load(path):
    rows = []
    with open(path) as f:
        for line in f:
            rows.append(line.strip())
    return rows

def format_entry(entry, delim):
    parts = entry.split(delim)
    cleaned = [p.strip() for p in parts]
    return delim.join(cleaned)
`)

	svc := NewCloneServiceWithDefaults()
	req := smallCloneRequest(fileA, fileB)
	req.MaxResults = 1

	resp, err := svc.DetectClones(context.Background(), req)
	if err != nil {
		t.Fatalf("DetectClones failed: %v", err)
	}
	if len(resp.ClonePairs) != 1 {
		t.Fatalf("Expected 1 reported pair with MaxResults=1, got %d", len(resp.ClonePairs))
	}
	if resp.Statistics.TotalClonePairs < 2 {
		t.Errorf("Statistics should still count every detected pair, got %d", resp.Statistics.TotalClonePairs)
	}
}

func TestCloneService_DetectClones_ContextCancellation(t *testing.T) {
	tempDir := t.TempDir()
	fileA := filepath.Join(tempDir, "a.py")
	writeTestFile(t, fileA, cloneFixtureA)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewCloneServiceWithDefaults()
	_, err := svc.DetectClones(ctx, smallCloneRequest(fileA))
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if !strings.Contains(err.Error(), "clone detection cancelled") {
		t.Errorf("Expected cancellation error, got %v", err)
	}
}

func TestCloneService_DetectClonesInFiles(t *testing.T) {
	tempDir := t.TempDir()
	fileA := filepath.Join(tempDir, "orders.py")
	fileB := filepath.Join(tempDir, "invoices.py")
	writeTestFile(t, fileA, cloneFixtureA)
	writeTestFile(t, fileB, cloneFixtureB)

	svc := NewCloneServiceWithDefaults()
	req := smallCloneRequest()

	resp, err := svc.DetectClonesInFiles(context.Background(), []string{fileA, fileB}, req)
	if err != nil {
		t.Fatalf("DetectClonesInFiles failed: %v", err)
	}
	if resp.Statistics.FilesSubmitted != 2 {
		t.Errorf("Expected 2 files submitted, got %d", resp.Statistics.FilesSubmitted)
	}
	if len(req.Paths) != 0 {
		t.Errorf("Expected original request paths untouched, got %v", req.Paths)
	}
}

func TestCloneService_DetectClonesInFiles_NilRequest(t *testing.T) {
	svc := NewCloneServiceWithDefaults()

	_, err := svc.DetectClonesInFiles(context.Background(), []string{"a.py"}, nil)
	if err == nil {
		t.Fatal("Expected error for nil request")
	}
}

func TestCloneService_DetectorConfigOverrides(t *testing.T) {
	svc := NewCloneServiceWithDefaults()
	defaults := analyzer.DefaultCloneDetectorConfig()

	req := &domain.CloneRequest{
		MinLines:       3,
		MinTokens:      20,
		Type3Threshold: 0.80,
	}
	cfg := svc.detectorConfig(req)

	if cfg.MinLines != 3 {
		t.Errorf("Expected MinLines override 3, got %d", cfg.MinLines)
	}
	if cfg.MinTokens != 20 {
		t.Errorf("Expected MinTokens override 20, got %d", cfg.MinTokens)
	}
	if cfg.Type3Threshold != 0.80 {
		t.Errorf("Expected Type3Threshold override 0.80, got %f", cfg.Type3Threshold)
	}
	if cfg.MinNodes != defaults.MinNodes {
		t.Errorf("Expected MinNodes default %d, got %d", defaults.MinNodes, cfg.MinNodes)
	}
	if cfg.Type1Threshold != defaults.Type1Threshold {
		t.Errorf("Expected Type1Threshold default %f, got %f", defaults.Type1Threshold, cfg.Type1Threshold)
	}
	if cfg.GroupingMode != defaults.GroupingMode {
		t.Errorf("Expected grouping mode default %q, got %q", defaults.GroupingMode, cfg.GroupingMode)
	}
}

func TestBuildCloneStatistics(t *testing.T) {
	locA := &domain.CloneLocation{FilePath: "a.py", StartLine: 1, EndLine: 6}
	locB := &domain.CloneLocation{FilePath: "b.py", StartLine: 10, EndLine: 15}
	locC := &domain.CloneLocation{FilePath: "c.py", StartLine: 1, EndLine: 6}

	cloneA := &domain.Clone{Location: locA, LineCount: 6}
	cloneB := &domain.Clone{Location: locB, LineCount: 6}
	cloneC := &domain.Clone{Location: locC, LineCount: 6}

	pairs := []*domain.ClonePair{
		{Clone1: cloneA, Clone2: cloneB, Similarity: 1.0, Type: domain.Type1Clone},
		{Clone1: cloneA, Clone2: cloneC, Similarity: 0.9, Type: domain.Type3Clone},
	}
	groups := []*domain.CloneGroup{{ID: 0, Clones: []*domain.Clone{cloneA, cloneB, cloneC}}}

	stats := buildCloneStatistics(pairs, groups, 3, 4, 100)

	if stats.TotalClonePairs != 2 {
		t.Errorf("Expected 2 pairs, got %d", stats.TotalClonePairs)
	}
	if stats.TotalCloneGroups != 1 {
		t.Errorf("Expected 1 group, got %d", stats.TotalCloneGroups)
	}
	if stats.TotalClones != 3 {
		t.Errorf("Expected 3 unique clones, got %d", stats.TotalClones)
	}
	if stats.ClonesByType[domain.Type1Clone.String()] != 1 {
		t.Errorf("Expected 1 Type 1 pair, got %d", stats.ClonesByType[domain.Type1Clone.String()])
	}
	if stats.ClonesByType[domain.Type3Clone.String()] != 1 {
		t.Errorf("Expected 1 Type 3 pair, got %d", stats.ClonesByType[domain.Type3Clone.String()])
	}
	if math.Abs(stats.AverageSimilarity-0.95) > 1e-9 {
		t.Errorf("Expected average similarity 0.95, got %f", stats.AverageSimilarity)
	}
	if stats.DuplicatedLines != 18 {
		t.Errorf("Expected 18 duplicated lines, got %d", stats.DuplicatedLines)
	}
	if math.Abs(stats.DuplicationPercentage-18.0) > 1e-9 {
		t.Errorf("Expected 18%% duplication, got %f", stats.DuplicationPercentage)
	}
	if stats.FilesAnalyzed != 3 || stats.FilesSubmitted != 4 {
		t.Errorf("Expected 3/4 file counts, got %d/%d", stats.FilesAnalyzed, stats.FilesSubmitted)
	}
}

func TestBuildCloneStatistics_PercentageCapped(t *testing.T) {
	loc := &domain.CloneLocation{FilePath: "a.py", StartLine: 1, EndLine: 50}
	other := &domain.CloneLocation{FilePath: "b.py", StartLine: 1, EndLine: 50}
	pairs := []*domain.ClonePair{
		{
			Clone1:     &domain.Clone{Location: loc, LineCount: 50},
			Clone2:     &domain.Clone{Location: other, LineCount: 50},
			Similarity: 1.0,
			Type:       domain.Type1Clone,
		},
	}

	stats := buildCloneStatistics(pairs, nil, 2, 2, 60)
	if stats.DuplicationPercentage != 100.0 {
		t.Errorf("Expected duplication capped at 100, got %f", stats.DuplicationPercentage)
	}
}

func TestBuildCloneStatistics_Empty(t *testing.T) {
	stats := buildCloneStatistics(nil, nil, 0, 0, 0)

	if stats.TotalClones != 0 || stats.TotalClonePairs != 0 {
		t.Error("Expected zero counts for empty input")
	}
	if stats.AverageSimilarity != 0 {
		t.Errorf("Expected zero average similarity, got %f", stats.AverageSimilarity)
	}
	if stats.ClonesByType == nil {
		t.Error("Expected ClonesByType map to be initialized")
	}
}

func TestExtractUniqueClones(t *testing.T) {
	locA := &domain.CloneLocation{FilePath: "a.py", StartLine: 1, EndLine: 6}
	locB := &domain.CloneLocation{FilePath: "b.py", StartLine: 1, EndLine: 6}
	locC := &domain.CloneLocation{FilePath: "c.py", StartLine: 1, EndLine: 6}

	cloneA := &domain.Clone{Location: locA}
	cloneB := &domain.Clone{Location: locB}
	cloneC := &domain.Clone{Location: locC}

	pairs := []*domain.ClonePair{
		{Clone1: cloneA, Clone2: cloneB},
		{Clone1: cloneB, Clone2: cloneC},
	}

	clones := extractUniqueClones(pairs)
	if len(clones) != 3 {
		t.Fatalf("Expected 3 unique clones, got %d", len(clones))
	}
	if clones[0] != cloneA || clones[1] != cloneB || clones[2] != cloneC {
		t.Error("Expected clones in first-seen order")
	}
}

func TestExtractUniqueClones_NilSafe(t *testing.T) {
	pairs := []*domain.ClonePair{
		{Clone1: nil, Clone2: &domain.Clone{Location: nil}},
	}

	clones := extractUniqueClones(pairs)
	if len(clones) != 0 {
		t.Errorf("Expected no clones from nil fragments, got %d", len(clones))
	}
}

func TestBuildCloneRecommendations(t *testing.T) {
	stats := &domain.CloneStatistics{
		ClonesByType: map[string]int{
			domain.Type1Clone.String(): 2,
			domain.Type3Clone.String(): 1,
		},
	}

	recs := buildCloneRecommendations(stats)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "identical") {
		t.Errorf("Expected exact-clone hint first, got %q", recs[0])
	}

	empty := buildCloneRecommendations(&domain.CloneStatistics{ClonesByType: map[string]int{}})
	if len(empty) != 0 {
		t.Errorf("Expected no recommendations without clones, got %v", empty)
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"Empty", "", 0},
		{"SingleLineNoNewline", "x = 1", 1},
		{"SingleLineWithNewline", "x = 1\n", 1},
		{"MultipleLines", "a\nb\nc\n", 3},
		{"TrailingContent", "a\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := countLines([]byte(tt.content))
			if got != tt.expected {
				t.Errorf("Expected %d lines, got %d", tt.expected, got)
			}
		})
	}
}

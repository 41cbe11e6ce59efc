package analyzer

import (
	"context"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
)

// Similarity values assigned by the hash tiers of the detection ladder.
// Pairs that agree on a hash skip every more expensive comparison.
const (
	exactMatchSimilarity      = 1.0
	normalizedMatchSimilarity = 0.95
	structuralMatchSimilarity = 0.85
)

// CloneDetectorConfig holds the tunable parameters for clone detection.
type CloneDetectorConfig struct {
	// Minimum block size gates. Blocks below any of these are dropped
	// before comparison; a filtered block is not an error.
	MinLines  int
	MinTokens int
	MinNodes  int

	// Similarity cut points, strongest tier first. Validation keeps them
	// descending, so classification can walk them in order.
	Type1Threshold float64
	Type2Threshold float64
	Type3Threshold float64
	Type4Threshold float64

	// NearMissEditDistance refines structurally divergent candidates with
	// a Levenshtein pass over their normalized serializations.
	NearMissEditDistance bool

	// MinSizeRatio gates the expensive comparison path: pairs whose token
	// or line counts differ by more than this ratio skip it entirely.
	MinSizeRatio float64

	// BucketThreshold bounds the quadratic comparison step. Above this
	// many candidate blocks, comparison runs within structural-hash
	// prefix buckets instead of across all pairs.
	BucketThreshold int

	// GroupingMode selects how clone pairs fold into groups.
	GroupingMode GroupingMode
}

// DefaultCloneDetectorConfig returns detector settings aligned with the
// package-wide defaults.
func DefaultCloneDetectorConfig() CloneDetectorConfig {
	return CloneDetectorConfig{
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
		GroupingMode:         GroupingModeConnected,
	}
}

// CloneDetector classifies pairs of code blocks into clone types. Blocks
// from the same file are never paired with each other: intra-file
// duplication is dominated by idiomatic repetition, and reporting it buries
// the cross-file duplicates worth acting on.
type CloneDetector struct {
	config CloneDetectorConfig

	totalBlocks      int
	candidateBlocks  int
	comparisons      int
	totalClonePairs  int
	totalCloneGroups int
}

// NewCloneDetector creates a detector with the given configuration.
func NewCloneDetector(config CloneDetectorConfig) *CloneDetector {
	return &CloneDetector{config: config}
}

// DetectClones compares every eligible block pair and returns the detected
// clone pairs together with their groups.
func (d *CloneDetector) DetectClones(blocks []*CodeBlock) ([]*domain.ClonePair, []*domain.CloneGroup) {
	pairs, groups, _ := d.DetectClonesWithContext(context.Background(), blocks)
	return pairs, groups
}

// DetectClonesWithContext is DetectClones with cancellation. The context is
// checked between outer comparison iterations, the only superlinear step in
// the pipeline.
func (d *CloneDetector) DetectClonesWithContext(ctx context.Context, blocks []*CodeBlock) ([]*domain.ClonePair, []*domain.CloneGroup, error) {
	d.totalBlocks = len(blocks)
	d.comparisons = 0
	d.totalClonePairs = 0
	d.totalCloneGroups = 0

	candidates := make([]*CodeBlock, 0, len(blocks))
	for _, b := range blocks {
		if d.shouldIncludeBlock(b) {
			candidates = append(candidates, b)
		}
	}
	d.candidateBlocks = len(candidates)

	var pairs []*domain.ClonePair
	clones := make(map[*CodeBlock]*domain.Clone)

	for _, bucket := range d.comparisonBuckets(candidates) {
		for i := 0; i < len(bucket); i++ {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			for j := i + 1; j < len(bucket); j++ {
				b1, b2 := bucket[i], bucket[j]
				if b1.FilePath == b2.FilePath {
					continue
				}
				d.comparisons++

				similarity, cloneType := d.detectPair(b1, b2)
				if cloneType == 0 || similarity < d.config.Type4Threshold {
					continue
				}
				pairs = append(pairs, &domain.ClonePair{
					Clone1:     cloneFor(clones, b1),
					Clone2:     cloneFor(clones, b2),
					Similarity: similarity,
					Type:       cloneType,
					Confidence: d.calculateConfidence(b1, b2, similarity),
				})
			}
		}
	}

	groups := d.groupPairs(pairs)

	d.totalClonePairs = len(pairs)
	d.totalCloneGroups = len(groups)
	return pairs, groups, nil
}

// detectPair runs the detection ladder for one block pair and returns the
// similarity with its clone type. The first matching tier wins:
//
//  1. equal exact hashes
//  2. equal normalized hashes
//  3. equal structural hashes
//  4. Levenshtein over normalized serializations (when enabled)
//  5. token Jaccard similarity
//
// A zero clone type means the pair is not a clone.
func (d *CloneDetector) detectPair(b1, b2 *CodeBlock) (float64, domain.CloneType) {
	if b1.ExactHash == b2.ExactHash {
		return exactMatchSimilarity, d.classifyCloneType(exactMatchSimilarity)
	}
	if b1.NormalizedHash == b2.NormalizedHash {
		return normalizedMatchSimilarity, d.classifyCloneType(normalizedMatchSimilarity)
	}
	if b1.StructuralHash == b2.StructuralHash {
		return structuralMatchSimilarity, d.classifyCloneType(structuralMatchSimilarity)
	}

	if !d.shouldCompareBlocks(b1, b2) {
		return 0.0, 0
	}

	if d.config.NearMissEditDistance {
		if sim := editSimilarity(b1.Normalized, b2.Normalized); sim >= d.config.Type3Threshold {
			return sim, domain.Type3Clone
		}
	}

	sim := jaccardSimilarity(b1.tokens, b2.tokens)
	if sim >= d.config.Type4Threshold {
		return sim, domain.Type4Clone
	}
	return sim, 0
}

// classifyCloneType maps a similarity value through the configured cut
// points, strongest tier first.
func (d *CloneDetector) classifyCloneType(similarity float64) domain.CloneType {
	switch {
	case similarity >= d.config.Type1Threshold:
		return domain.Type1Clone
	case similarity >= d.config.Type2Threshold:
		return domain.Type2Clone
	case similarity >= d.config.Type3Threshold:
		return domain.Type3Clone
	case similarity >= d.config.Type4Threshold:
		return domain.Type4Clone
	default:
		return 0
	}
}

// shouldIncludeBlock applies the minimum size gates.
func (d *CloneDetector) shouldIncludeBlock(b *CodeBlock) bool {
	if b == nil {
		return false
	}
	return b.LineCount >= d.config.MinLines &&
		b.TokenCount >= d.config.MinTokens &&
		b.NodeCount >= d.config.MinNodes
}

// shouldCompareBlocks prescreens a pair before the expensive similarity
// path. Blocks whose sizes diverge past MinSizeRatio cannot reach the
// semantic threshold anyway.
func (d *CloneDetector) shouldCompareBlocks(b1, b2 *CodeBlock) bool {
	if d.config.MinSizeRatio <= 0 {
		return true
	}
	return sizeRatio(b1.TokenCount, b2.TokenCount) > d.config.MinSizeRatio &&
		sizeRatio(b1.LineCount, b2.LineCount) > d.config.MinSizeRatio
}

// calculateConfidence scores how reliable a detected pair is. Similarity is
// the base; matches between larger blocks are less likely coincidental and
// earn a small bonus.
func (d *CloneDetector) calculateConfidence(b1, b2 *CodeBlock, similarity float64) float64 {
	confidence := similarity
	if min(b1.TokenCount, b2.TokenCount) >= 2*d.config.MinTokens {
		confidence += 0.03
	}
	if min(b1.LineCount, b2.LineCount) >= 2*d.config.MinLines {
		confidence += 0.02
	}
	return min(confidence, 1.0)
}

// comparisonBuckets returns the candidate sets compared all-pairs. Small
// inputs form a single set. Past BucketThreshold the blocks are partitioned
// by structural-hash prefix, which keeps the hash tiers intact within each
// bucket and bounds the quadratic step; cross-bucket near-miss and semantic
// matches are traded away.
func (d *CloneDetector) comparisonBuckets(candidates []*CodeBlock) [][]*CodeBlock {
	if len(candidates) == 0 {
		return nil
	}
	if d.config.BucketThreshold <= 0 || len(candidates) <= d.config.BucketThreshold {
		return [][]*CodeBlock{candidates}
	}

	buckets := make(map[uint64][]*CodeBlock)
	for _, b := range candidates {
		key := b.StructuralHash >> 48
		buckets[key] = append(buckets[key], b)
	}

	keys := make([]uint64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([][]*CodeBlock, 0, len(buckets))
	for _, k := range keys {
		out = append(out, buckets[k])
	}
	return out
}

// groupPairs folds clone pairs into groups using the configured strategy.
func (d *CloneDetector) groupPairs(pairs []*domain.ClonePair) []*domain.CloneGroup {
	if len(pairs) == 0 {
		return nil
	}
	strategy := CreateGroupingStrategy(GroupingConfig{
		Mode:      d.config.GroupingMode,
		Threshold: d.config.Type4Threshold,
	})
	return strategy.GroupClones(pairs)
}

// GetStatistics reports counters from the most recent detection run.
func (d *CloneDetector) GetStatistics() map[string]interface{} {
	return map[string]interface{}{
		"total_blocks":       d.totalBlocks,
		"candidate_blocks":   d.candidateBlocks,
		"comparisons":        d.comparisons,
		"total_clone_pairs":  d.totalClonePairs,
		"total_clone_groups": d.totalCloneGroups,
	}
}

// cloneFor memoizes block conversion so one block is represented by one
// Clone across every pair it participates in.
func cloneFor(cache map[*CodeBlock]*domain.Clone, b *CodeBlock) *domain.Clone {
	if c, ok := cache[b]; ok {
		return c
	}
	c := b.ToClone()
	cache[b] = c
	return c
}

// editSimilarity returns the normalized Levenshtein similarity of two
// serializations in [0, 1].
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// sizeRatio returns min/max of two sizes, treating two zeroes as equal.
func sizeRatio(a, b int) float64 {
	larger := max(a, b)
	if larger == 0 {
		return 1.0
	}
	return float64(min(a, b)) / float64(larger)
}

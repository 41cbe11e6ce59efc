package analyzer

import (
	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/constants"
)

// scoreTiers holds the four cut points for one metric, ordered from the
// excellent boundary to the poor boundary.
type scoreTiers struct {
	Excellent float64
	Good      float64
	Fair      float64
	Poor      float64
}

// Tier cut points per category. Complexity and structure compare downward
// (lower raw values are better); the ratio metrics compare upward.
var (
	complexityTiers    = scoreTiers{Excellent: 5, Good: 10, Fair: 20, Poor: 30}
	duplicationTiers   = scoreTiers{Excellent: 3, Good: 5, Fair: 10, Poor: 20}
	documentationTiers = scoreTiers{Excellent: 0.20, Good: 0.10, Fair: 0.05, Poor: 0.02}
	namingTiers        = scoreTiers{Excellent: 0.90, Good: 0.75, Fair: 0.60, Poor: 0.40}
	structureTiers     = scoreTiers{Excellent: 2, Good: 3, Fair: 4, Poor: 6}
	testCoverageTiers  = scoreTiers{Excellent: 0.50, Good: 0.30, Fair: 0.15, Poor: 0.05}
)

// recommendationTemplates holds the fixed remediation message per category.
var recommendationTemplates = map[string]string{
	domain.ScoreComplexity:    "Reduce function complexity by extracting helpers from deeply branched code",
	domain.ScoreDuplication:   "Consolidate duplicated blocks into shared functions or modules",
	domain.ScoreDocumentation: "Document public functions and modules to raise the comment ratio",
	domain.ScoreNaming:        "Replace short or cryptic identifiers with descriptive names",
	domain.ScoreStructure:     "Flatten deeply nested control flow with early returns or guard clauses",
	domain.ScoreTestCoverage:  "Add test files alongside source files to cover the critical paths",
}

// MaintainabilityInput carries the raw measurements the index is built
// from. Ratio fields range over [0, 1]; Overrides replace computed
// sub-scores for the categories they name.
type MaintainabilityInput struct {
	MeanCyclomatic        float64
	DuplicationPercentage float64
	ClonePairs            []*domain.ClonePair
	CommentRatio          float64
	DescriptiveNameRatio  float64
	MeanNesting           float64
	TestFileRatio         float64
	Overrides             map[string]float64
}

// MaintainabilityAnalyzer folds raw measurements into the weighted
// maintainability index.
type MaintainabilityAnalyzer struct {
	weights domain.QualityWeights
	levels  domain.QualityLevelThresholds
}

// NewMaintainabilityAnalyzer validates the weight table and returns the
// analyzer. An invalid weight table is a configuration error; no report can
// be computed from it.
func NewMaintainabilityAnalyzer(weights domain.QualityWeights, levels domain.QualityLevelThresholds) (*MaintainabilityAnalyzer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &MaintainabilityAnalyzer{weights: weights, levels: levels}, nil
}

// BuildReport maps the input measurements to per-category sub-scores and
// aggregates them into the overall index with its level, per-category
// breakdown and recommendations.
func (m *MaintainabilityAnalyzer) BuildReport(input MaintainabilityInput) *domain.MaintainabilityReport {
	subScores := map[string]float64{
		domain.ScoreComplexity:    scoreThreshold(input.MeanCyclomatic, complexityTiers, false),
		domain.ScoreDuplication:   m.duplicationScore(input),
		domain.ScoreDocumentation: scoreThreshold(input.CommentRatio, documentationTiers, true),
		domain.ScoreNaming:        scoreThreshold(input.DescriptiveNameRatio, namingTiers, true),
		domain.ScoreStructure:     scoreThreshold(input.MeanNesting, structureTiers, false),
		domain.ScoreTestCoverage:  scoreThreshold(input.TestFileRatio, testCoverageTiers, true),
	}
	for category, override := range input.Overrides {
		if _, ok := subScores[category]; ok {
			subScores[category] = clampScore(override)
		}
	}

	weights := m.weights.AsMap()
	breakdown := make(map[string]float64, len(subScores))
	overall := 0.0
	for _, category := range domain.ScoreCategories() {
		contribution := weights[category] * subScores[category]
		breakdown[category] = contribution
		overall += contribution
	}

	return &domain.MaintainabilityReport{
		SubScores:       subScores,
		Weights:         weights,
		Breakdown:       breakdown,
		OverallIndex:    overall,
		Level:           m.levels.Level(overall),
		Recommendations: buildRecommendations(subScores),
	}
}

// duplicationScore maps the duplication percentage through its tiers, then
// subtracts the per-pair penalty capped at MaxDuplicationPenalty.
func (m *MaintainabilityAnalyzer) duplicationScore(input MaintainabilityInput) float64 {
	score := scoreThreshold(input.DuplicationPercentage, duplicationTiers, false)
	score -= duplicationPenalty(input.ClonePairs)
	return max(score, 0.0)
}

// scoreThreshold maps a raw metric value to a stepped score through four
// tier cut points. With reverse false, lower values score higher; reverse
// flips the comparison for higher-is-better metrics. Every category shares
// this one mapper.
func scoreThreshold(value float64, tiers scoreTiers, reverse bool) float64 {
	if reverse {
		switch {
		case value >= tiers.Excellent:
			return constants.TierScoreExcellent
		case value >= tiers.Good:
			return constants.TierScoreGood
		case value >= tiers.Fair:
			return constants.TierScoreFair
		case value >= tiers.Poor:
			return constants.TierScorePoor
		default:
			return constants.TierScoreCritical
		}
	}
	switch {
	case value <= tiers.Excellent:
		return constants.TierScoreExcellent
	case value <= tiers.Good:
		return constants.TierScoreGood
	case value <= tiers.Fair:
		return constants.TierScoreFair
	case value <= tiers.Poor:
		return constants.TierScorePoor
	default:
		return constants.TierScoreCritical
	}
}

// duplicationPenalty sums the per-pair penalty by clone type, capped at
// MaxDuplicationPenalty.
func duplicationPenalty(pairs []*domain.ClonePair) float64 {
	penalty := 0.0
	for _, p := range pairs {
		if p == nil {
			continue
		}
		switch p.Type {
		case domain.Type1Clone:
			penalty += constants.PenaltyType1Clone
		case domain.Type2Clone:
			penalty += constants.PenaltyType2Clone
		case domain.Type3Clone:
			penalty += constants.PenaltyType3Clone
		case domain.Type4Clone:
			penalty += constants.PenaltyType4Clone
		}
	}
	return min(penalty, constants.MaxDuplicationPenalty)
}

// buildRecommendations emits the fixed message for every category scoring
// below the recommendation threshold, in display order.
func buildRecommendations(subScores map[string]float64) []string {
	var recs []string
	for _, category := range domain.ScoreCategories() {
		if subScores[category] < constants.RecommendationThreshold {
			recs = append(recs, recommendationTemplates[category])
		}
	}
	return recs
}

func clampScore(v float64) float64 {
	return min(max(v, 0.0), 100.0)
}

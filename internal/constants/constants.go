package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "codescan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".codescan.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CODESCAN"
)

// Analysis type constants
const (
	AnalysisComplexity = "complexity"
	AnalysisClones     = "clones"
	AnalysisQuality    = "quality"
	AnalysisSystem     = "system"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
)

// Clone detection threshold constants
const (
	DefaultType1CloneThreshold = 0.98
	DefaultType2CloneThreshold = 0.95
	DefaultType3CloneThreshold = 0.85
	DefaultType4CloneThreshold = 0.70
)

// Clone detection minimum block size constants
const (
	DefaultCloneMinLines  = 5
	DefaultCloneMinTokens = 50
	DefaultCloneMinNodes  = 10
)

// Clone detection comparison budget constants
const (
	DefaultCloneMinSizeRatio    = 0.5
	DefaultCloneBucketThreshold = 500
)

// Complexity threshold constants (medium/high cut points per metric)
const (
	DefaultCyclomaticMedium = 10
	DefaultCyclomaticHigh   = 20
	DefaultCognitiveMedium  = 15
	DefaultCognitiveHigh    = 30
	DefaultNestingMedium    = 4
	DefaultNestingHigh      = 6
	DefaultFuncLengthMedium = 50
	DefaultFuncLengthHigh   = 100
)

// Quality score tier values produced by the four-tier threshold lookup.
const (
	TierScoreExcellent = 95.0
	TierScoreGood      = 80.0
	TierScoreFair      = 65.0
	TierScorePoor      = 45.0
	TierScoreCritical  = 25.0
)

// Per-pair duplication penalties by clone type, capped at
// MaxDuplicationPenalty points total.
const (
	PenaltyType1Clone     = 3.0
	PenaltyType2Clone     = 2.0
	PenaltyType3Clone     = 1.0
	PenaltyType4Clone     = 0.5
	MaxDuplicationPenalty = 30.0
)

// Default maintainability category weights. They must sum to 1.0; the
// weight set is validated before any score is computed.
const (
	DefaultComplexityWeight    = 0.25
	DefaultDuplicationWeight   = 0.20
	DefaultDocumentationWeight = 0.15
	DefaultNamingWeight        = 0.15
	DefaultStructureWeight     = 0.15
	DefaultTestCoverageWeight  = 0.10
)

// Quality level cut points over the overall maintainability index.
const (
	QualityExcellentThreshold = 85.0
	QualityGoodThreshold      = 70.0
	QualityFairThreshold      = 50.0
	QualityPoorThreshold      = 30.0
)

// RecommendationThreshold is the sub-score below which a category
// recommendation is emitted.
const RecommendationThreshold = 70.0

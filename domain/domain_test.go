package domain

import (
	"errors"
	"strings"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Error("Unwrap should return the cause")
	}

	// Without cause
	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewInvalidInputError(t *testing.T) {
	cause := errors.New("invalid")
	err := NewInvalidInputError("bad input", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("syntax error")
	err := NewParseError("test.py", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeParseError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeParseError, domainErr.Code)
	}
}

func TestNewAnalysisError(t *testing.T) {
	err := NewAnalysisError("analysis failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeAnalysisError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeAnalysisError, domainErr.Code)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("invalid config", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeConfigError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeConfigError, domainErr.Code)
	}
}

func TestNewOutputError(t *testing.T) {
	err := NewOutputError("write failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeOutputError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeOutputError, domainErr.Code)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("xml")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedFormat {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedFormat, domainErr.Code)
	}
	if domainErr.Message != "unsupported format: xml" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewUnsupportedLanguageError(t *testing.T) {
	err := NewUnsupportedLanguageError("file.xyz")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedLanguage {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedLanguage, domainErr.Code)
	}
	if domainErr.Message != "unsupported language: file.xyz" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

// Output format tests

func TestOutputFormat_Constants(t *testing.T) {
	formats := map[OutputFormat]string{
		OutputFormatText: "text",
		OutputFormatJSON: "json",
		OutputFormatYAML: "yaml",
		OutputFormatCSV:  "csv",
	}

	for format, expected := range formats {
		if string(format) != expected {
			t.Errorf("OutputFormat %s should equal '%s'", format, expected)
		}
	}
}

// Sort criteria tests

func TestSortCriteria_Constants(t *testing.T) {
	criteria := map[SortCriteria]string{
		SortByComplexity: "complexity",
		SortByName:       "name",
		SortByRisk:       "risk",
		SortBySimilarity: "similarity",
		SortBySize:       "size",
		SortByLocation:   "location",
	}

	for c, expected := range criteria {
		if string(c) != expected {
			t.Errorf("SortCriteria %s should equal '%s'", c, expected)
		}
	}
}

// Risk level tests

func TestRiskLevel_Constants(t *testing.T) {
	levels := map[RiskLevel]string{
		RiskLevelLow:    "low",
		RiskLevelMedium: "medium",
		RiskLevelHigh:   "high",
	}

	for level, expected := range levels {
		if string(level) != expected {
			t.Errorf("RiskLevel %s should equal '%s'", level, expected)
		}
	}
}

// Language tests

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != 8 {
		t.Errorf("Expected 8 supported languages, got %d", len(langs))
	}

	for _, lang := range langs {
		if !IsSupportedLanguage(lang) {
			t.Errorf("Language %s should be supported", lang)
		}
	}

	if IsSupportedLanguage("cobol") {
		t.Error("cobol should not be supported")
	}
}

// Clone type tests

func TestCloneType_String(t *testing.T) {
	labels := map[CloneType]string{
		Type1Clone:   "Type 1 (Exact)",
		Type2Clone:   "Type 2 (Parameterized)",
		Type3Clone:   "Type 3 (Near-miss)",
		Type4Clone:   "Type 4 (Semantic)",
		CloneType(0): "No Clone",
	}

	for ct, expected := range labels {
		if ct.String() != expected {
			t.Errorf("CloneType %d should render '%s', got '%s'", ct, expected, ct.String())
		}
	}
}

func TestCloneType_MarshalJSON(t *testing.T) {
	data, err := Type2Clone.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(data) != `"Type 2 (Parameterized)"` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestCloneLocation_String(t *testing.T) {
	loc := CloneLocation{
		FilePath:  "test.py",
		StartLine: 10,
		EndLine:   20,
		StartCol:  5,
		EndCol:    30,
	}

	expected := "test.py:10:5-20:30"
	if loc.String() != expected {
		t.Errorf("Expected %s, got %s", expected, loc.String())
	}
}

// Quality level tests

func TestQualityLevelThresholds_Level(t *testing.T) {
	thresholds := QualityLevelThresholds{
		Excellent: 85,
		Good:      70,
		Fair:      50,
		Poor:      30,
	}

	testCases := []struct {
		index    float64
		expected QualityLevel
	}{
		{95.0, QualityExcellent},
		{85.0, QualityExcellent},
		{84.9, QualityGood},
		{70.0, QualityGood},
		{69.9, QualityFair},
		{50.0, QualityFair},
		{49.9, QualityPoor},
		{30.0, QualityPoor},
		{29.9, QualityCritical},
		{0.0, QualityCritical},
	}

	for _, tc := range testCases {
		result := thresholds.Level(tc.index)
		if result != tc.expected {
			t.Errorf("For index %.1f, expected %s, got %s", tc.index, tc.expected, result)
		}
	}
}

// Quality weight tests

func TestQualityWeights_Validate(t *testing.T) {
	valid := QualityWeights{
		Complexity:    0.25,
		Duplication:   0.20,
		Documentation: 0.15,
		Naming:        0.15,
		Structure:     0.15,
		TestCoverage:  0.10,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Valid weights should pass validation: %v", err)
	}

	invalid := QualityWeights{
		Complexity:  0.5,
		Duplication: 0.3,
	}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("Weights not summing to 1.0 should fail validation")
	}
	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Validation failure should be a DomainError")
	}
	if domainErr.Code != ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR, got %s", domainErr.Code)
	}

	negative := QualityWeights{
		Complexity:    1.25,
		Duplication:   -0.25,
		Documentation: 0,
		Naming:        0,
		Structure:     0,
		TestCoverage:  0,
	}
	if err := negative.Validate(); err == nil {
		t.Error("Negative weight should fail validation")
	}
}

func TestQualityWeights_AsMap(t *testing.T) {
	w := QualityWeights{
		Complexity:    0.25,
		Duplication:   0.20,
		Documentation: 0.15,
		Naming:        0.15,
		Structure:     0.15,
		TestCoverage:  0.10,
	}

	m := w.AsMap()
	if len(m) != len(ScoreCategories()) {
		t.Errorf("Expected %d entries, got %d", len(ScoreCategories()), len(m))
	}
	if m[ScoreComplexity] != 0.25 {
		t.Errorf("Expected complexity weight 0.25, got %f", m[ScoreComplexity])
	}
	if m[ScoreTestCoverage] != 0.10 {
		t.Errorf("Expected test_coverage weight 0.10, got %f", m[ScoreTestCoverage])
	}
}

// Complexity request tests

func TestComplexityRequest_Fields(t *testing.T) {
	req := ComplexityRequest{
		Paths:           []string{"/path/to/src"},
		OutputFormat:    OutputFormatJSON,
		MinComplexity:   5,
		MaxComplexity:   50,
		SortBy:          SortByComplexity,
		MediumThreshold: 10,
		HighThreshold:   20,
		Recursive:       true,
		IncludePatterns: []string{"**/*.py"},
		ExcludePatterns: []string{"vendor/**"},
	}

	if len(req.Paths) != 1 {
		t.Error("Paths should have 1 element")
	}
	if req.OutputFormat != OutputFormatJSON {
		t.Error("OutputFormat should be JSON")
	}
	if req.MinComplexity != 5 {
		t.Error("MinComplexity should be 5")
	}
	if req.Recursive != true {
		t.Error("Recursive should be true")
	}
}

// Complexity metrics tests

func TestComplexityMetrics_Fields(t *testing.T) {
	metrics := ComplexityMetrics{
		Cyclomatic: 10,
		Cognitive:  14,
		MaxNesting: 3,
		Nodes:      120,
		Lines:      42,
	}

	if metrics.Cyclomatic != 10 {
		t.Errorf("Cyclomatic should be 10, got %d", metrics.Cyclomatic)
	}
	if metrics.Cognitive != 14 {
		t.Errorf("Cognitive should be 14, got %d", metrics.Cognitive)
	}
}

// Function complexity tests

func TestFunctionComplexity_Fields(t *testing.T) {
	fc := FunctionComplexity{
		Name:        "process",
		FilePath:    "/src/worker.py",
		StartLine:   10,
		StartColumn: 1,
		EndLine:     20,
		LineCount:   11,
		Metrics: ComplexityMetrics{
			Cyclomatic: 5,
		},
		RiskLevel: RiskLevelLow,
	}

	if fc.Name != "process" {
		t.Errorf("Name should be 'process', got '%s'", fc.Name)
	}
	if fc.RiskLevel != RiskLevelLow {
		t.Errorf("RiskLevel should be 'low', got '%s'", fc.RiskLevel)
	}
	if fc.LineCount != 11 {
		t.Errorf("LineCount should be 11, got %d", fc.LineCount)
	}
}

// Complexity summary tests

func TestComplexitySummary_Fields(t *testing.T) {
	summary := ComplexitySummary{
		TotalFunctions:         100,
		AverageComplexity:      5.5,
		MaxComplexity:          25,
		MinComplexity:          1,
		FilesAnalyzed:          10,
		FilesSubmitted:         12,
		LowRiskFunctions:       80,
		MediumRiskFunctions:    15,
		HighRiskFunctions:      5,
		ComplexityDistribution: map[string]int{"1-5": 50, "6-10": 30},
	}

	if summary.TotalFunctions != 100 {
		t.Errorf("TotalFunctions should be 100, got %d", summary.TotalFunctions)
	}
	if summary.AverageComplexity != 5.5 {
		t.Errorf("AverageComplexity should be 5.5, got %f", summary.AverageComplexity)
	}
	if summary.FilesSubmitted-summary.FilesAnalyzed != 2 {
		t.Error("Submitted vs analyzed delta should reflect skipped files")
	}
}

// Clone statistics tests

func TestCloneStatistics_Fields(t *testing.T) {
	stats := CloneStatistics{
		TotalClones:           4,
		TotalClonePairs:       3,
		TotalCloneGroups:      1,
		ClonesByType:          map[string]int{Type1Clone.String(): 2, Type2Clone.String(): 1},
		AverageSimilarity:     0.95,
		LinesAnalyzed:         500,
		DuplicatedLines:       60,
		DuplicationPercentage: 12.0,
		FilesAnalyzed:         8,
		FilesSubmitted:        10,
	}

	if stats.ClonesByType[Type1Clone.String()] != 2 {
		t.Errorf("Expected 2 Type-1 clones, got %d", stats.ClonesByType[Type1Clone.String()])
	}
	if stats.DuplicationPercentage != 12.0 {
		t.Errorf("DuplicationPercentage should be 12.0, got %f", stats.DuplicationPercentage)
	}
}

// Error code constants tests

func TestErrorCodeConstants(t *testing.T) {
	codes := map[string]string{
		ErrCodeInvalidInput:        "INVALID_INPUT",
		ErrCodeFileNotFound:        "FILE_NOT_FOUND",
		ErrCodeParseError:          "PARSE_ERROR",
		ErrCodeAnalysisError:       "ANALYSIS_ERROR",
		ErrCodeConfigError:         "CONFIG_ERROR",
		ErrCodeOutputError:         "OUTPUT_ERROR",
		ErrCodeUnsupportedFormat:   "UNSUPPORTED_FORMAT",
		ErrCodeUnsupportedLanguage: "UNSUPPORTED_LANGUAGE",
	}

	for code, expected := range codes {
		if code != expected {
			t.Errorf("Error code should be '%s', got '%s'", expected, code)
		}
	}
}

// Score category tests

func TestScoreCategories(t *testing.T) {
	categories := ScoreCategories()
	if len(categories) != 6 {
		t.Errorf("Expected 6 score categories, got %d", len(categories))
	}

	joined := strings.Join(categories, ",")
	for _, want := range []string{ScoreComplexity, ScoreDuplication, ScoreDocumentation, ScoreNaming, ScoreStructure, ScoreTestCoverage} {
		if !strings.Contains(joined, want) {
			t.Errorf("Score categories should include %s", want)
		}
	}
}

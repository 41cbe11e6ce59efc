package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/internal/lang"
	"github.com/ludo-technologies/codescan/internal/parser"
)

// ParseConfidence is reported for files whose parse produced no ERROR
// nodes. Trees with syntax errors are still analyzed but carry zero
// confidence.
const ParseConfidence = 0.95

// AssessRisk maps a metric value onto a risk level through its medium and
// high cut points. Every complexity metric shares this mapping.
func AssessRisk(value, medium, high int) domain.RiskLevel {
	if value > high {
		return domain.RiskLevelHigh
	}
	if value > medium {
		return domain.RiskLevelMedium
	}
	return domain.RiskLevelLow
}

// ComplexityAnalyzer computes per-function and per-file complexity metrics
// from a parse tree. Counting is driven entirely by the language's
// node-type tables, so the analyzer itself is language-agnostic.
type ComplexityAnalyzer struct {
	cfg *config.ComplexityConfig
}

// NewComplexityAnalyzer creates an analyzer with the given thresholds
func NewComplexityAnalyzer(cfg *config.ComplexityConfig) *ComplexityAnalyzer {
	return &ComplexityAnalyzer{cfg: cfg}
}

// AnalyzeTree computes complexity for one parsed file
func (ca *ComplexityAnalyzer) AnalyzeTree(tree *parser.Tree, filePath string) (*domain.FileComplexity, error) {
	if tree == nil || tree.Root == nil {
		return nil, domain.NewAnalysisError("cannot analyze nil parse tree", nil)
	}

	nt := &tree.Language.NodeTypes

	file := &domain.FileComplexity{
		FilePath:   filePath,
		Language:   tree.Language.Tag,
		Metrics:    measureSubtree(tree.Root, nt),
		Confidence: ParseConfidence,
	}
	file.Metrics.Lines = countLines(tree.Source)
	if tree.HasSyntaxErrors() {
		file.Confidence = 0.0
	}

	for _, fn := range collectFunctions(tree.Root, nt) {
		fc := ca.analyzeFunction(fn, tree, filePath)
		file.Functions = append(file.Functions, fc)
		file.Findings = append(file.Findings, ca.Findings(&fc)...)
	}

	return file, nil
}

// analyzeFunction measures a single function node
func (ca *ComplexityAnalyzer) analyzeFunction(fn *sitter.Node, tree *parser.Tree, filePath string) domain.FunctionComplexity {
	name := lang.DefaultFunctionName(tree.Language, fn, tree.Source)
	if name == "" {
		name = "<anonymous>"
	}

	startLine := int(fn.StartPoint().Row) + 1
	endLine := int(fn.EndPoint().Row) + 1
	metrics := measureSubtree(fn, &tree.Language.NodeTypes)
	metrics.Lines = endLine - startLine + 1

	return domain.FunctionComplexity{
		Name:        name,
		FilePath:    filePath,
		StartLine:   startLine,
		StartColumn: int(fn.StartPoint().Column) + 1,
		EndLine:     endLine,
		LineCount:   endLine - startLine + 1,
		Metrics:     metrics,
		RiskLevel:   AssessRisk(metrics.Cyclomatic, ca.cfg.CyclomaticMedium, ca.cfg.CyclomaticHigh),
	}
}

// Findings returns threshold violations for one function. A finding is
// emitted only when the value crosses the medium cut point.
func (ca *ComplexityAnalyzer) Findings(fc *domain.FunctionComplexity) []domain.ComplexityFinding {
	checks := []struct {
		metric       string
		value        int
		medium, high int
	}{
		{"cyclomatic", fc.Metrics.Cyclomatic, ca.cfg.CyclomaticMedium, ca.cfg.CyclomaticHigh},
		{"cognitive", fc.Metrics.Cognitive, ca.cfg.CognitiveMedium, ca.cfg.CognitiveHigh},
		{"nesting", fc.Metrics.MaxNesting, ca.cfg.NestingMedium, ca.cfg.NestingHigh},
		{"length", fc.LineCount, ca.cfg.LengthMedium, ca.cfg.LengthHigh},
	}

	var findings []domain.ComplexityFinding
	for _, c := range checks {
		severity := AssessRisk(c.value, c.medium, c.high)
		if severity == domain.RiskLevelLow {
			continue
		}
		threshold := c.medium
		if severity == domain.RiskLevelHigh {
			threshold = c.high
		}
		findings = append(findings, domain.ComplexityFinding{
			Metric:    c.metric,
			Value:     c.value,
			Threshold: threshold,
			Severity:  severity,
			Function:  fc.Name,
			FilePath:  fc.FilePath,
			StartLine: fc.StartLine,
		})
	}
	return findings
}

// frame carries the nesting depth assigned to a node during traversal.
// An explicit stack keeps deep trees off the call stack and keeps the
// per-node depth immutable.
type frame struct {
	node    *sitter.Node
	nesting int
}

// measureSubtree computes all metrics for one subtree in a single pass.
// The root node itself contributes neither a decision nor a nesting level;
// its children start at depth zero.
func measureSubtree(root *sitter.Node, nt *lang.NodeTypes) domain.ComplexityMetrics {
	metrics := domain.ComplexityMetrics{
		Cyclomatic: 1,
		Lines:      int(root.EndPoint().Row) - int(root.StartPoint().Row) + 1,
	}
	if root.IsNamed() {
		metrics.Nodes = 1
	}

	stack := make([]frame, 0, 64)
	for i := int(root.ChildCount()) - 1; i >= 0; i-- {
		stack = append(stack, frame{root.Child(i), 0})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeType := f.node.Type()
		if f.node.IsNamed() {
			metrics.Nodes++
		}

		if nt.Decision[nodeType] {
			metrics.Cyclomatic++
			metrics.Cognitive += 1 + f.nesting
		}

		childNesting := f.nesting
		if nt.Nesting[nodeType] {
			childNesting++
			if childNesting > metrics.MaxNesting {
				metrics.MaxNesting = childNesting
			}
		}

		for i := int(f.node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Child(i), childNesting})
		}
	}

	return metrics
}

// countLines counts source lines, ignoring a trailing newline
func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	lines := 0
	for _, b := range source {
		if b == '\n' {
			lines++
		}
	}
	if source[len(source)-1] != '\n' {
		lines++
	}
	return lines
}

// collectFunctions returns all function nodes in the tree in source order.
// Nested functions are collected as separate entries; their bodies also
// count toward the enclosing function's metrics.
func collectFunctions(root *sitter.Node, nt *lang.NodeTypes) []*sitter.Node {
	var functions []*sitter.Node

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nt.Function[n.Type()] {
			functions = append(functions, n)
		}

		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}

	// The stack pops children in source order already (pushed reversed),
	// so no extra sort is needed.
	return functions
}

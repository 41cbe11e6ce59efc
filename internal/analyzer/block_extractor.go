package analyzer

import (
	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/lang"
	"github.com/ludo-technologies/codescan/internal/parser"
)

// CodeBlock is one extractable source region (a function, class or control
// block) with its comparison hashes precomputed. Blocks are created during
// extraction and never mutated afterwards.
type CodeBlock struct {
	FilePath  string
	NodeType  string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int

	// Content is the raw source text of the block. Normalized is its
	// identifier/literal-insensitive token serialization.
	Content    string
	Normalized string

	// Hash values over, respectively, the raw text, the normalized
	// serialization and the named-node type tree.
	ExactHash      uint64
	NormalizedHash uint64
	StructuralHash uint64

	LineCount  int
	TokenCount int
	NodeCount  int

	tokens map[string]struct{}
}

// NewCodeBlock builds a block for the given AST node, computing its
// serializations, hashes and size measures eagerly.
func NewCodeBlock(filePath string, node *sitter.Node, source []byte, nt lang.NodeTypes) *CodeBlock {
	content := lang.NodeText(node, source)
	normalized := normalizedSerialization(node, source, nt)
	structural := structuralSerialization(node, nt)

	startLine := int(node.StartPoint().Row) + 1
	endLine := int(node.EndPoint().Row) + 1

	return &CodeBlock{
		FilePath:       filePath,
		NodeType:       node.Type(),
		StartLine:      startLine,
		StartCol:       int(node.StartPoint().Column) + 1,
		EndLine:        endLine,
		EndCol:         int(node.EndPoint().Column) + 1,
		Content:        content,
		Normalized:     normalized,
		ExactHash:      xxhash.Sum64String(content),
		NormalizedHash: xxhash.Sum64String(normalized),
		StructuralHash: xxhash.Sum64String(structural),
		LineCount:      endLine - startLine + 1,
		TokenCount:     countWordTokens(content),
		NodeCount:      countNamedNodes(node),
		tokens:         wordTokenSet(content),
	}
}

// Location returns the block's position as a clone location.
func (b *CodeBlock) Location() *domain.CloneLocation {
	return &domain.CloneLocation{
		FilePath:  b.FilePath,
		StartLine: b.StartLine,
		EndLine:   b.EndLine,
		StartCol:  b.StartCol,
		EndCol:    b.EndCol,
	}
}

// ToClone converts the block to its reportable form.
func (b *CodeBlock) ToClone() *domain.Clone {
	return &domain.Clone{
		Location:   b.Location(),
		NodeType:   b.NodeType,
		LineCount:  b.LineCount,
		TokenCount: b.TokenCount,
		NodeCount:  b.NodeCount,
	}
}

// ExtractBlocks walks a parse tree and returns every extractable block in
// source order. Extraction applies no size filtering; callers decide which
// blocks are worth comparing.
func ExtractBlocks(tree *parser.Tree) []*CodeBlock {
	if tree == nil || tree.Root == nil || tree.Language == nil {
		return nil
	}
	nt := tree.Language.NodeTypes

	var blocks []*CodeBlock
	stack := []*sitter.Node{tree.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nt.IsExtractable(node.Type()) {
			blocks = append(blocks, NewCodeBlock(tree.FilePath, node, tree.Source, nt))
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
	return blocks
}

// countNamedNodes returns the number of named nodes in the subtree,
// including the root itself.
func countNamedNodes(root *sitter.Node) int {
	count := 0
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.IsNamed() {
			count++
		}
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
	return count
}

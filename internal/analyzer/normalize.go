package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/internal/lang"
)

// wordTokenRe matches identifier-like word tokens. Token counts and Jaccard
// similarity both operate on these, so punctuation never inflates either.
var wordTokenRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

// countWordTokens returns the number of word tokens in content.
func countWordTokens(content string) int {
	return len(wordTokenRe.FindAllString(content, -1))
}

// wordTokenSet returns the lower-cased set of word tokens in content.
func wordTokenSet(content string) map[string]struct{} {
	tokens := wordTokenRe.FindAllString(content, -1)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[strings.ToLower(tok)] = struct{}{}
	}
	return set
}

// jaccardSimilarity computes |a∩b| / |a∪b| over two token sets.
// Two empty sets are identical by convention.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// normalizedSerialization renders a subtree as a single-space-joined token
// sequence with identifiers replaced by VAR, string literals by STRING and
// numeric literals by NUM. Comments are dropped; every other leaf token
// (keywords, operators, punctuation) appears verbatim. Two blocks that
// differ only in naming, literal values or whitespace serialize identically.
func normalizedSerialization(node *sitter.Node, source []byte, nt lang.NodeTypes) string {
	if node == nil {
		return ""
	}
	var tokens []string
	appendNormalizedTokens(&tokens, node, source, nt)
	return strings.Join(tokens, " ")
}

func appendNormalizedTokens(tokens *[]string, node *sitter.Node, source []byte, nt lang.NodeTypes) {
	nodeType := node.Type()
	switch {
	case nt.Comment[nodeType]:
		return
	case nt.Identifier[nodeType]:
		*tokens = append(*tokens, "VAR")
		return
	case nt.String[nodeType]:
		*tokens = append(*tokens, "STRING")
		return
	case nt.Number[nodeType]:
		*tokens = append(*tokens, "NUM")
		return
	}

	count := int(node.ChildCount())
	if count == 0 {
		text := lang.CollapseWhitespace(lang.NodeText(node, source))
		if text != "" {
			*tokens = append(*tokens, text)
		}
		return
	}
	for i := 0; i < count; i++ {
		appendNormalizedTokens(tokens, node.Child(i), source, nt)
	}
}

// structuralSerialization renders the named-node type tree of a subtree as
// "(type(child)(child)...)". Unnamed tokens and comments are ignored, so
// the result captures shape alone and is shared by blocks whose ASTs agree
// node for node regardless of any leaf text.
func structuralSerialization(node *sitter.Node, nt lang.NodeTypes) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	appendStructural(&b, node, nt)
	return b.String()
}

func appendStructural(b *strings.Builder, node *sitter.Node, nt lang.NodeTypes) {
	b.WriteByte('(')
	b.WriteString(node.Type())
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if nt.Comment[child.Type()] {
			continue
		}
		appendStructural(b, child, nt)
	}
	b.WriteByte(')')
}

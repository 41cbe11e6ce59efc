// Package lang provides the static language registry mapping file
// extensions to tree-sitter grammars and the per-language node-type tables
// the analyzers are driven by. The registry is populated by init()
// functions in per-language files and is read-only afterwards, so it can be
// shared across goroutines without locking.
package lang

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/domain"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NodeTypes holds the grammar node-type sets one language contributes to
// the analyzers. Decision drives cyclomatic/cognitive counting, Nesting
// drives depth tracking, Function/Class/Block mark extraction candidates,
// and Identifier/String/Number/Comment drive normalization.
type NodeTypes struct {
	Decision   map[string]bool
	Function   map[string]bool
	Class      map[string]bool
	Block      map[string]bool
	Nesting    map[string]bool
	Identifier map[string]bool
	String     map[string]bool
	Number     map[string]bool
	Comment    map[string]bool
}

// IsExtractable reports whether a node type is a block-extraction candidate
func (nt *NodeTypes) IsExtractable(nodeType string) bool {
	return nt.Function[nodeType] || nt.Class[nodeType] || nt.Block[nodeType]
}

// typeSet builds a membership set from node-type names
func typeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Language holds the tree-sitter configuration for a supported language.
type Language struct {
	Tag        domain.Language
	Name       string
	Extensions []string
	lang       *sitter.Language

	// Dialect grammars keyed by extension (e.g. ".tsx"). Extensions not
	// listed here use the default grammar.
	extGrammars map[string]*sitter.Language

	// NodeTypes are the analyzer-facing tables for this grammar
	NodeTypes NodeTypes

	// FunctionName extracts the name of a function node. Languages whose
	// grammars bury the name behind declarators (C++) override this; nil
	// means the default name-field lookup.
	FunctionName func(node *sitter.Node, source []byte) string
}

// GetLanguage returns the default tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// GrammarForExtension returns the grammar used for the given extension.
func (l *Language) GrammarForExtension(ext string) *sitter.Language {
	if g, ok := l.extGrammars[ext]; ok {
		return g
	}
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language tags to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[domain.Language]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]domain.Language
var extensionOnce sync.Once

func getExtensionMap() map[string]domain.Language {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]domain.Language)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Tag
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language tag for a file extension (with leading
// dot), or "" if unsupported.
func ForExtension(ext string) domain.Language {
	return getExtensionMap()[strings.ToLower(ext)]
}

// ForTag returns the language registered under the given tag, or nil.
func ForTag(tag domain.Language) *Language {
	return Languages[tag]
}

// Validate checks that every registered language carries the node-type
// tables the analyzers require. Running with an empty table would silently
// zero the scores for that language, so this is checked fatally at startup.
func Validate() error {
	if len(Languages) == 0 {
		return domain.NewConfigError("no languages registered", nil)
	}
	for tag, l := range Languages {
		if l.lang == nil {
			return domain.NewConfigError(fmt.Sprintf("language %s has no grammar", tag), nil)
		}
		if len(l.Extensions) == 0 {
			return domain.NewConfigError(fmt.Sprintf("language %s has no extensions", tag), nil)
		}
		required := map[string]map[string]bool{
			"decision":   l.NodeTypes.Decision,
			"function":   l.NodeTypes.Function,
			"block":      l.NodeTypes.Block,
			"nesting":    l.NodeTypes.Nesting,
			"identifier": l.NodeTypes.Identifier,
			"string":     l.NodeTypes.String,
			"number":     l.NodeTypes.Number,
			"comment":    l.NodeTypes.Comment,
		}
		for name, set := range required {
			if len(set) == 0 {
				return domain.NewConfigError(fmt.Sprintf("language %s has an empty %s node-type table", tag, name), nil)
			}
		}
		// Class tables may legitimately be empty (Go has no class construct)
	}
	return nil
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// DefaultFunctionName extracts a function's name through the grammar's
// "name" field. Nodes without one (lambdas, closures, function literals)
// yield "", which callers render as anonymous.
func DefaultFunctionName(l *Language, node *sitter.Node, source []byte) string {
	if l.FunctionName != nil {
		return l.FunctionName(node, source)
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return NodeText(name, source)
	}
	return ""
}

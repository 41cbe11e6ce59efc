// Package parser adapts tree-sitter to the analysis pipeline. It resolves
// file extensions to registered grammars and produces parse trees the
// analyzers walk directly.
package parser

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/lang"
)

// Tree is a parsed source file. Root stays valid only while the underlying
// tree-sitter tree is alive, so callers must Close the Tree when done.
type Tree struct {
	Root     *sitter.Node
	Source   []byte
	Language *lang.Language
	FilePath string
	tree     *sitter.Tree
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// HasSyntaxErrors reports whether the grammar inserted ERROR nodes.
// Such trees are still analyzed; the flag only lowers confidence.
func (t *Tree) HasSyntaxErrors() bool {
	return t.Root.HasError()
}

// Parser turns source code into parse trees using the language registry.
// A fresh tree-sitter parser is created per call, so one Parser may be
// shared across goroutines.
type Parser struct {
	registry map[domain.Language]*lang.Language
}

// New creates a Parser backed by the static language registry.
func New() *Parser {
	return &Parser{registry: lang.Languages}
}

// Parse parses source in the given language. The filename is used only for
// error messages and dialect selection (.tsx).
func (p *Parser) Parse(ctx context.Context, filename string, source []byte, language domain.Language) (*Tree, error) {
	l, ok := p.registry[language]
	if !ok {
		return nil, domain.NewUnsupportedLanguageError(filename)
	}

	grammar := l.GrammarForExtension(strings.ToLower(filepath.Ext(filename)))

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(grammar)

	tree, err := sp.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, domain.NewParseError(filename, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, domain.NewParseError(filename, nil)
	}

	return &Tree{
		Root:     tree.RootNode(),
		Source:   source,
		Language: l,
		FilePath: filename,
		tree:     tree,
	}, nil
}

// ParseFile resolves the language from the file extension and parses.
// Unknown extensions return an UNSUPPORTED_LANGUAGE error so callers can
// skip the file without aborting the run.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (*Tree, error) {
	language := lang.ForExtension(filepath.Ext(path))
	if language == "" {
		return nil, domain.NewUnsupportedLanguageError(path)
	}
	return p.Parse(ctx, path, source, language)
}

// DetectLanguage returns the language a path would be parsed as, or "" if
// the extension is not registered.
func (p *Parser) DetectLanguage(path string) domain.Language {
	return lang.ForExtension(filepath.Ext(path))
}

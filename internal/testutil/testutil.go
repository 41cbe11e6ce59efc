// Package testutil provides helper functions for testing codescan components
package testutil

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/codescan/internal/lang"
	"github.com/ludo-technologies/codescan/internal/parser"
)

// ParseSource parses fixture source code, failing the test on error. The
// language is resolved from the filename extension and the tree is closed
// automatically when the test finishes.
func ParseSource(t *testing.T, filename, source string) *parser.Tree {
	t.Helper()
	tree, err := parser.New().ParseFile(context.Background(), filename, []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

// ParseSourceNoFail parses fixture source code, returning the error instead
// of failing. The caller owns the tree and must Close it.
func ParseSourceNoFail(filename, source string) (*parser.Tree, error) {
	return parser.New().ParseFile(context.Background(), filename, []byte(source))
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse fails the test if condition is true
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}

// AssertNotNil fails the test if value is nil
func AssertNotNil(t *testing.T, value any) {
	t.Helper()
	if value == nil {
		t.Error("Expected non-nil value")
	}
}

// AssertNil fails the test if value is not nil
func AssertNil(t *testing.T, value any) {
	t.Helper()
	if value != nil {
		t.Errorf("Expected nil, got %v", value)
	}
}

// FindFunction finds a function node by name in a parse tree, or nil when
// no function with that name exists.
func FindFunction(tree *parser.Tree, name string) *sitter.Node {
	var found *sitter.Node
	walkNamed(tree, func(n *sitter.Node) bool {
		if tree.Language.NodeTypes.Function[n.Type()] &&
			lang.DefaultFunctionName(tree.Language, n, tree.Source) == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountFunctions counts the function nodes in a parse tree.
func CountFunctions(tree *parser.Tree) int {
	count := 0
	walkNamed(tree, func(n *sitter.Node) bool {
		if tree.Language.NodeTypes.Function[n.Type()] {
			count++
		}
		return true
	})
	return count
}

// CountNodesOfType counts nodes with the given grammar type in a parse tree.
func CountNodesOfType(tree *parser.Tree, nodeType string) int {
	count := 0
	walkNamed(tree, func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			count++
		}
		return true
	})
	return count
}

// walkNamed visits named nodes in source order until fn returns false.
func walkNamed(tree *parser.Tree, fn func(*sitter.Node) bool) {
	if tree == nil || tree.Root == nil || tree.Language == nil {
		return
	}
	stack := []*sitter.Node{tree.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node) {
			return
		}
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
}

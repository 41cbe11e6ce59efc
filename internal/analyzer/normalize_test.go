package analyzer

import (
	"strings"
	"testing"
)

func TestCountWordTokens(t *testing.T) {
	testCases := []struct {
		content  string
		expected int
	}{
		{"def add(a, b): return a1_b", 6},
		{"(((", 0},
		{"", 0},
		{"x+y", 2},
	}

	for _, tc := range testCases {
		if got := countWordTokens(tc.content); got != tc.expected {
			t.Errorf("For %q expected %d tokens, got %d", tc.content, tc.expected, got)
		}
	}
}

func TestWordTokenSet(t *testing.T) {
	set := wordTokenSet("Foo foo BAR")

	if len(set) != 2 {
		t.Fatalf("Expected 2 distinct tokens, got %d", len(set))
	}
	if _, ok := set["foo"]; !ok {
		t.Error("Expected lower-cased token foo")
	}
	if _, ok := set["bar"]; !ok {
		t.Error("Expected lower-cased token bar")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	testCases := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"both_empty", "", "", 1.0},
		{"one_empty", "a b", "", 0.0},
		{"identical", "a b c", "a b c", 1.0},
		{"partial_overlap", "a b", "b c", 1.0 / 3.0},
		{"disjoint", "a b", "c d", 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := jaccardSimilarity(wordTokenSet(tc.a), wordTokenSet(tc.b))
			if got != tc.expected {
				t.Errorf("Expected %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestNormalizedSerializationReplacesLeaves(t *testing.T) {
	tree := parseSource(t, "a.py", "x = 'hello'\n")

	got := normalizedSerialization(tree.Root, tree.Source, tree.Language.NodeTypes)
	if got != "VAR = STRING" {
		t.Errorf("Expected %q, got %q", "VAR = STRING", got)
	}
}

func TestNormalizedSerializationNumbers(t *testing.T) {
	tree := parseSource(t, "a.py", "count = 42\n")

	got := normalizedSerialization(tree.Root, tree.Source, tree.Language.NodeTypes)
	if got != "VAR = NUM" {
		t.Errorf("Expected %q, got %q", "VAR = NUM", got)
	}
}

func TestNormalizedSerializationDropsComments(t *testing.T) {
	withComment := parseSource(t, "a.py", "x = 1  # explains nothing\n")
	without := parseSource(t, "b.py", "x = 1\n")

	n1 := normalizedSerialization(withComment.Root, withComment.Source, withComment.Language.NodeTypes)
	n2 := normalizedSerialization(without.Root, without.Source, without.Language.NodeTypes)
	if n1 != n2 {
		t.Errorf("Expected comments to be dropped: %q vs %q", n1, n2)
	}
}

func TestNormalizedSerializationKeepsKeywords(t *testing.T) {
	tree := parseSource(t, "a.py", "def f():\n    return 1\n")

	got := normalizedSerialization(tree.Root, tree.Source, tree.Language.NodeTypes)
	if !strings.Contains(got, "def") || !strings.Contains(got, "return") {
		t.Errorf("Expected keywords to survive normalization, got %q", got)
	}
}

func TestNormalizedSerializationNilNode(t *testing.T) {
	tree := parseSource(t, "a.py", "x = 1\n")

	if got := normalizedSerialization(nil, nil, tree.Language.NodeTypes); got != "" {
		t.Errorf("Expected empty serialization for nil node, got %q", got)
	}
}

func TestStructuralSerializationShape(t *testing.T) {
	tree := parseSource(t, "a.py", "x = 1\n")

	got := structuralSerialization(tree.Root, tree.Language.NodeTypes)
	if !strings.HasPrefix(got, "(module") {
		t.Errorf("Expected serialization rooted at module, got %q", got)
	}
	if !strings.Contains(got, "(assignment(identifier)(integer))") {
		t.Errorf("Expected assignment subtree, got %q", got)
	}
}

func TestStructuralSerializationIgnoresComments(t *testing.T) {
	withComment := parseSource(t, "a.py", "x = 1  # noise\n")
	without := parseSource(t, "b.py", "x = 1\n")

	s1 := structuralSerialization(withComment.Root, withComment.Language.NodeTypes)
	s2 := structuralSerialization(without.Root, without.Language.NodeTypes)
	if s1 != s2 {
		t.Errorf("Expected comment nodes to be ignored: %q vs %q", s1, s2)
	}
}

func TestStructuralSerializationIgnoresLeafText(t *testing.T) {
	t1 := parseSource(t, "a.py", "alpha = 1\n")
	t2 := parseSource(t, "b.py", "omega = 999\n")

	s1 := structuralSerialization(t1.Root, t1.Language.NodeTypes)
	s2 := structuralSerialization(t2.Root, t2.Language.NodeTypes)
	if s1 != s2 {
		t.Errorf("Expected identical shapes to serialize identically: %q vs %q", s1, s2)
	}
}

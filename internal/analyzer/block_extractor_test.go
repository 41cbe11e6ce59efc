package analyzer

import (
	"strings"
	"testing"
)

func TestExtractBlocksCapturesFunctionsAndBlocks(t *testing.T) {
	source := `def outer(items):
    for item in items:
        print(item)
`
	blocks := ExtractBlocks(parseSource(t, "a.py", source))

	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].NodeType != "function_definition" {
		t.Errorf("Expected function_definition first, got %s", blocks[0].NodeType)
	}
	if blocks[1].NodeType != "for_statement" {
		t.Errorf("Expected for_statement second, got %s", blocks[1].NodeType)
	}
}

func TestExtractBlocksCapturesClasses(t *testing.T) {
	source := `class Greeter:
    def greet(self):
        return "hi"
`
	blocks := ExtractBlocks(parseSource(t, "a.py", source))

	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].NodeType != "class_definition" {
		t.Errorf("Expected class_definition first, got %s", blocks[0].NodeType)
	}
}

func TestExtractBlocksNilTree(t *testing.T) {
	if blocks := ExtractBlocks(nil); blocks != nil {
		t.Errorf("Expected nil for nil tree, got %d blocks", len(blocks))
	}
}

func TestNewCodeBlockFields(t *testing.T) {
	blocks := ExtractBlocks(parseSource(t, "fixtures/a.py", firstDuplicate))
	if len(blocks) == 0 {
		t.Fatal("Expected at least one block")
	}
	b := blocks[0]

	if b.FilePath != "fixtures/a.py" {
		t.Errorf("Expected file path fixtures/a.py, got %s", b.FilePath)
	}
	if b.NodeType != "function_definition" {
		t.Errorf("Expected function_definition, got %s", b.NodeType)
	}
	if b.StartLine != 1 {
		t.Errorf("Expected start line 1, got %d", b.StartLine)
	}
	if b.EndLine != 6 {
		t.Errorf("Expected end line 6, got %d", b.EndLine)
	}
	if b.LineCount != 6 {
		t.Errorf("Expected 6 lines, got %d", b.LineCount)
	}
	if b.TokenCount < 10 {
		t.Errorf("Expected at least 10 word tokens, got %d", b.TokenCount)
	}
	if b.NodeCount < 10 {
		t.Errorf("Expected at least 10 named nodes, got %d", b.NodeCount)
	}
	if b.ExactHash == 0 || b.NormalizedHash == 0 || b.StructuralHash == 0 {
		t.Error("Expected all hashes to be populated")
	}
	if !strings.HasPrefix(b.Content, "def report_totals") {
		t.Errorf("Expected raw content, got %q", b.Content)
	}
	if !strings.Contains(b.Normalized, "VAR") {
		t.Errorf("Expected normalized serialization with VAR, got %q", b.Normalized)
	}
}

func TestCodeBlockToClone(t *testing.T) {
	blocks := ExtractBlocks(parseSource(t, "a.py", firstDuplicate))
	if len(blocks) == 0 {
		t.Fatal("Expected at least one block")
	}

	clone := blocks[0].ToClone()
	if clone.Location == nil {
		t.Fatal("Expected clone location")
	}
	if clone.Location.FilePath != "a.py" {
		t.Errorf("Expected file path a.py, got %s", clone.Location.FilePath)
	}
	if clone.Location.StartLine != 1 {
		t.Errorf("Expected start line 1, got %d", clone.Location.StartLine)
	}
	if clone.NodeType != "function_definition" {
		t.Errorf("Expected function_definition, got %s", clone.NodeType)
	}
	if clone.LineCount != blocks[0].LineCount {
		t.Errorf("Expected line count %d, got %d", blocks[0].LineCount, clone.LineCount)
	}
}

func TestIdenticalSourcesShareAllHashes(t *testing.T) {
	b1 := ExtractBlocks(parseSource(t, "a.py", firstDuplicate))[0]
	b2 := ExtractBlocks(parseSource(t, "b.py", firstDuplicate))[0]

	if b1.ExactHash != b2.ExactHash {
		t.Error("Expected equal exact hashes for identical sources")
	}
	if b1.NormalizedHash != b2.NormalizedHash {
		t.Error("Expected equal normalized hashes for identical sources")
	}
	if b1.StructuralHash != b2.StructuralHash {
		t.Error("Expected equal structural hashes for identical sources")
	}
}

func TestRenamedSourceSharesNormalizedHash(t *testing.T) {
	b1 := ExtractBlocks(parseSource(t, "a.py", firstDuplicate))[0]
	b2 := ExtractBlocks(parseSource(t, "b.py", renamedDuplicate))[0]

	if b1.ExactHash == b2.ExactHash {
		t.Error("Expected different exact hashes after renaming")
	}
	if b1.NormalizedHash != b2.NormalizedHash {
		t.Error("Expected equal normalized hashes after renaming")
	}
}

func TestOperatorChangeSharesStructuralHash(t *testing.T) {
	plus := `def combine(a, b):
    result = a + b
    return result
`
	minus := `def combine(a, b):
    result = a - b
    return result
`
	b1 := ExtractBlocks(parseSource(t, "a.py", plus))[0]
	b2 := ExtractBlocks(parseSource(t, "b.py", minus))[0]

	if b1.NormalizedHash == b2.NormalizedHash {
		t.Error("Expected different normalized hashes for different operators")
	}
	if b1.StructuralHash != b2.StructuralHash {
		t.Error("Expected equal structural hashes for same tree shape")
	}
}

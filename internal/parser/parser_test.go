package parser

import (
	"context"
	"testing"

	"github.com/ludo-technologies/codescan/domain"
)

func TestParse_AllLanguages(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		language domain.Language
		source   string
	}{
		{"python", "a.py", domain.LangPython, "def f():\n    return 1\n"},
		{"javascript", "a.js", domain.LangJavaScript, "function f() { return 1; }\n"},
		{"typescript", "a.ts", domain.LangTypeScript, "function f(): number { return 1; }\n"},
		{"java", "A.java", domain.LangJava, "class A { int f() { return 1; } }\n"},
		{"go", "a.go", domain.LangGo, "package main\n\nfunc f() int { return 1 }\n"},
		{"rust", "a.rs", domain.LangRust, "fn f() -> i32 { 1 }\n"},
		{"cpp", "a.cpp", domain.LangCpp, "int f() { return 1; }\n"},
		{"csharp", "A.cs", domain.LangCSharp, "class A { int F() { return 1; } }\n"},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := p.Parse(context.Background(), tt.filename, []byte(tt.source), tt.language)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			defer tree.Close()

			if tree.Root == nil {
				t.Fatal("Expected non-nil root node")
			}
			if tree.HasSyntaxErrors() {
				t.Errorf("Expected clean parse for %s, got syntax errors", tt.name)
			}
			if tree.Language.Tag != tt.language {
				t.Errorf("Expected language %s, got %s", tt.language, tree.Language.Tag)
			}
		})
	}
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	p := New()
	_, err := p.Parse(context.Background(), "a.cob", []byte("DISPLAY 'HELLO'."), "cobol")
	if err == nil {
		t.Fatal("Expected error for unsupported language")
	}
	domainErr, ok := err.(domain.DomainError)
	if !ok {
		t.Fatalf("Expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeUnsupportedLanguage {
		t.Errorf("Expected UNSUPPORTED_LANGUAGE, got %s", domainErr.Code)
	}
}

func TestParseFile_UnknownExtension(t *testing.T) {
	p := New()
	_, err := p.ParseFile(context.Background(), "data.xyz", []byte("whatever"))
	if err == nil {
		t.Fatal("Expected error for unknown extension")
	}
	domainErr, ok := err.(domain.DomainError)
	if !ok {
		t.Fatalf("Expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeUnsupportedLanguage {
		t.Errorf("Expected UNSUPPORTED_LANGUAGE, got %s", domainErr.Code)
	}
}

func TestParseFile_ResolvesExtension(t *testing.T) {
	p := New()
	tree, err := p.ParseFile(context.Background(), "script.py", []byte("x = 1\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if tree.Language.Tag != domain.LangPython {
		t.Errorf("Expected python, got %s", tree.Language.Tag)
	}
}

func TestParseFile_TSXDialect(t *testing.T) {
	p := New()
	source := []byte("const x = <div>hello</div>;\n")

	tree, err := p.ParseFile(context.Background(), "component.tsx", source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if tree.HasSyntaxErrors() {
		t.Error("Expected JSX syntax to parse under the TSX grammar")
	}
}

func TestParse_SyntaxErrorsTolerated(t *testing.T) {
	p := New()
	source := []byte("def broken(:\n    pass\n")

	tree, err := p.ParseFile(context.Background(), "broken.py", source)
	if err != nil {
		t.Fatalf("Expected malformed source to still produce a tree, got %v", err)
	}
	defer tree.Close()

	if !tree.HasSyntaxErrors() {
		t.Error("Expected syntax errors to be flagged")
	}
}

func TestParse_EmptySource(t *testing.T) {
	p := New()
	tree, err := p.ParseFile(context.Background(), "empty.py", []byte(""))
	if err != nil {
		t.Fatalf("Parse failed for empty input: %v", err)
	}
	defer tree.Close()

	if tree.Root == nil {
		t.Error("Expected a root node for empty input")
	}
}

func TestDetectLanguage(t *testing.T) {
	p := New()
	tests := []struct {
		path     string
		expected domain.Language
	}{
		{"main.go", domain.LangGo},
		{"src/app.tsx", domain.LangTypeScript},
		{"lib/util.rs", domain.LangRust},
		{"README.md", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := p.DetectLanguage(tt.path)
			if got != tt.expected {
				t.Errorf("Expected %q for %s, got %q", tt.expected, tt.path, got)
			}
		})
	}
}

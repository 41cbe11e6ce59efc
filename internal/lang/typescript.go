package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	nt := jsNodeTypes()
	for _, t := range []string{"abstract_class_declaration", "interface_declaration", "enum_declaration"} {
		nt.Class[t] = true
		nt.Nesting[t] = true
	}
	nt.Identifier["type_identifier"] = true

	Languages[domain.LangTypeScript] = &Language{
		Tag:        domain.LangTypeScript,
		Name:       "TypeScript",
		Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
		lang:       typescript.GetLanguage(),
		extGrammars: map[string]*sitter.Language{
			".tsx": tsx.GetLanguage(),
		},
		NodeTypes: nt,
	}
}

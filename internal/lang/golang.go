package lang

import (
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	Languages[domain.LangGo] = &Language{
		Tag:        domain.LangGo,
		Name:       "Go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_statement",
				"for_statement",
				"expression_case",
				"type_case",
				"communication_case",
			),
			Function: typeSet(
				"function_declaration",
				"method_declaration",
				"func_literal",
			),
			// Go has no class construct
			Class: typeSet(),
			Block: typeSet(
				"if_statement",
				"for_statement",
				"expression_switch_statement",
				"type_switch_statement",
				"select_statement",
			),
			Nesting: typeSet(
				"if_statement",
				"for_statement",
				"expression_switch_statement",
				"type_switch_statement",
				"select_statement",
				"function_declaration",
				"method_declaration",
				"func_literal",
			),
			Identifier: typeSet(
				"identifier",
				"field_identifier",
				"package_identifier",
				"type_identifier",
			),
			String: typeSet(
				"interpreted_string_literal",
				"raw_string_literal",
				"rune_literal",
			),
			Number: typeSet(
				"int_literal",
				"float_literal",
				"imaginary_literal",
			),
			Comment: typeSet(
				"comment",
			),
		},
	}
}

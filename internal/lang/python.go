package lang

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	Languages[domain.LangPython] = &Language{
		Tag:        domain.LangPython,
		Name:       "Python",
		Extensions: []string{".py", ".pyi"},
		lang:       python.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_statement",
				"elif_clause",
				"while_statement",
				"for_statement",
				"except_clause",
				"case_clause",
				"conditional_expression",
			),
			Function: typeSet(
				"function_definition",
				"lambda",
			),
			Class: typeSet(
				"class_definition",
			),
			Block: typeSet(
				"if_statement",
				"for_statement",
				"while_statement",
				"try_statement",
				"with_statement",
				"match_statement",
			),
			Nesting: typeSet(
				"if_statement",
				"for_statement",
				"while_statement",
				"try_statement",
				"with_statement",
				"match_statement",
				"function_definition",
				"class_definition",
			),
			Identifier: typeSet(
				"identifier",
			),
			String: typeSet(
				"string",
				"concatenated_string",
			),
			Number: typeSet(
				"integer",
				"float",
			),
			Comment: typeSet(
				"comment",
			),
		},
	}
}

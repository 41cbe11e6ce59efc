package lang

import (
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	Languages[domain.LangCSharp] = &Language{
		Tag:        domain.LangCSharp,
		Name:       "C#",
		Extensions: []string{".cs"},
		lang:       csharp.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"foreach_statement",
				"switch_section",
				"switch_expression_arm",
				"catch_clause",
				"conditional_expression",
			),
			Function: typeSet(
				"method_declaration",
				"constructor_declaration",
				"local_function_statement",
				"lambda_expression",
			),
			Class: typeSet(
				"class_declaration",
				"struct_declaration",
				"interface_declaration",
				"enum_declaration",
				"record_declaration",
			),
			Block: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"foreach_statement",
				"switch_statement",
				"try_statement",
				"using_statement",
				"lock_statement",
			),
			Nesting: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"foreach_statement",
				"switch_statement",
				"try_statement",
				"using_statement",
				"lock_statement",
				"method_declaration",
				"constructor_declaration",
				"local_function_statement",
				"lambda_expression",
				"class_declaration",
				"struct_declaration",
			),
			Identifier: typeSet(
				"identifier",
			),
			String: typeSet(
				"string_literal",
				"verbatim_string_literal",
				"raw_string_literal",
				"character_literal",
				"interpolated_string_expression",
			),
			Number: typeSet(
				"integer_literal",
				"real_literal",
			),
			Comment: typeSet(
				"comment",
			),
		},
	}
}

package lang

import (
	"github.com/smacker/go-tree-sitter/java"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	Languages[domain.LangJava] = &Language{
		Tag:        domain.LangJava,
		Name:       "Java",
		Extensions: []string{".java"},
		lang:       java.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"enhanced_for_statement",
				"switch_block_statement_group",
				"switch_rule",
				"catch_clause",
				"ternary_expression",
			),
			Function: typeSet(
				"method_declaration",
				"constructor_declaration",
				"lambda_expression",
			),
			Class: typeSet(
				"class_declaration",
				"interface_declaration",
				"enum_declaration",
				"record_declaration",
			),
			Block: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"enhanced_for_statement",
				"try_statement",
				"try_with_resources_statement",
				"switch_expression",
				"synchronized_statement",
			),
			Nesting: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"enhanced_for_statement",
				"try_statement",
				"try_with_resources_statement",
				"switch_expression",
				"synchronized_statement",
				"method_declaration",
				"constructor_declaration",
				"lambda_expression",
				"class_declaration",
				"interface_declaration",
				"enum_declaration",
			),
			Identifier: typeSet(
				"identifier",
				"type_identifier",
			),
			String: typeSet(
				"string_literal",
				"text_block",
			),
			Number: typeSet(
				"decimal_integer_literal",
				"hex_integer_literal",
				"octal_integer_literal",
				"binary_integer_literal",
				"decimal_floating_point_literal",
				"hex_floating_point_literal",
			),
			Comment: typeSet(
				"comment",
				"line_comment",
				"block_comment",
			),
		},
	}
}

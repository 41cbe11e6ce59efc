package lang

import (
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/ludo-technologies/codescan/domain"
)

func init() {
	Languages[domain.LangRust] = &Language{
		Tag:        domain.LangRust,
		Name:       "Rust",
		Extensions: []string{".rs"},
		lang:       rust.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_expression",
				"if_let_expression",
				"while_expression",
				"while_let_expression",
				"loop_expression",
				"for_expression",
				"match_arm",
			),
			Function: typeSet(
				"function_item",
				"closure_expression",
			),
			Class: typeSet(
				"struct_item",
				"enum_item",
				"trait_item",
				"impl_item",
				"union_item",
			),
			Block: typeSet(
				"if_expression",
				"while_expression",
				"loop_expression",
				"for_expression",
				"match_expression",
			),
			Nesting: typeSet(
				"if_expression",
				"while_expression",
				"loop_expression",
				"for_expression",
				"match_expression",
				"function_item",
				"closure_expression",
				"impl_item",
				"trait_item",
			),
			Identifier: typeSet(
				"identifier",
				"field_identifier",
				"type_identifier",
				"shorthand_field_identifier",
				"scoped_identifier",
			),
			String: typeSet(
				"string_literal",
				"raw_string_literal",
				"char_literal",
			),
			Number: typeSet(
				"integer_literal",
				"float_literal",
			),
			Comment: typeSet(
				"line_comment",
				"block_comment",
			),
		},
	}
}

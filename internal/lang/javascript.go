package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/ludo-technologies/codescan/domain"
)

// jsNodeTypes is shared with TypeScript, whose grammar is a superset.
func jsNodeTypes() NodeTypes {
	return NodeTypes{
		Decision: typeSet(
			"if_statement",
			"while_statement",
			"do_statement",
			"for_statement",
			"for_in_statement",
			"for_of_statement",
			"switch_case",
			"catch_clause",
			"ternary_expression",
			"conditional_expression",
		),
		Function: typeSet(
			"function_declaration",
			"function_expression",
			"function",
			"arrow_function",
			"method_definition",
			"generator_function_declaration",
			"generator_function",
		),
		Class: typeSet(
			"class_declaration",
			"class",
		),
		Block: typeSet(
			"if_statement",
			"while_statement",
			"do_statement",
			"for_statement",
			"for_in_statement",
			"for_of_statement",
			"try_statement",
			"switch_statement",
		),
		Nesting: typeSet(
			"if_statement",
			"while_statement",
			"do_statement",
			"for_statement",
			"for_in_statement",
			"for_of_statement",
			"try_statement",
			"switch_statement",
			"function_declaration",
			"function_expression",
			"function",
			"arrow_function",
			"method_definition",
			"generator_function_declaration",
			"generator_function",
			"class_declaration",
			"class",
		),
		Identifier: typeSet(
			"identifier",
			"property_identifier",
			"shorthand_property_identifier",
			"shorthand_property_identifier_pattern",
			"private_property_identifier",
		),
		String: typeSet(
			"string",
			"template_string",
		),
		Number: typeSet(
			"number",
		),
		Comment: typeSet(
			"comment",
		),
	}
}

func init() {
	Languages[domain.LangJavaScript] = &Language{
		Tag:        domain.LangJavaScript,
		Name:       "JavaScript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		lang:       javascript.GetLanguage(),
		NodeTypes:  jsNodeTypes(),
	}
}

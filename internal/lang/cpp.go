package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/ludo-technologies/codescan/domain"
)

// cppFunctionName descends through declarators to the identifier. The C++
// grammar nests the name under pointer/function declarators instead of a
// name field.
func cppFunctionName(node *sitter.Node, source []byte) string {
	decl := node.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier", "field_identifier", "qualified_identifier", "destructor_name", "operator_name":
			return NodeText(decl, source)
		}
		next := decl.ChildByFieldName("declarator")
		if next == nil {
			return ""
		}
		decl = next
	}
	return ""
}

func init() {
	Languages[domain.LangCpp] = &Language{
		Tag:        domain.LangCpp,
		Name:       "C++",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx", ".h"},
		lang:       cpp.GetLanguage(),
		NodeTypes: NodeTypes{
			Decision: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"for_range_loop",
				"case_statement",
				"catch_clause",
				"conditional_expression",
			),
			Function: typeSet(
				"function_definition",
				"lambda_expression",
			),
			Class: typeSet(
				"class_specifier",
				"struct_specifier",
				"union_specifier",
				"enum_specifier",
			),
			Block: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"for_range_loop",
				"switch_statement",
				"try_statement",
			),
			Nesting: typeSet(
				"if_statement",
				"while_statement",
				"do_statement",
				"for_statement",
				"for_range_loop",
				"switch_statement",
				"try_statement",
				"function_definition",
				"lambda_expression",
				"class_specifier",
				"struct_specifier",
			),
			Identifier: typeSet(
				"identifier",
				"field_identifier",
				"type_identifier",
				"namespace_identifier",
			),
			String: typeSet(
				"string_literal",
				"raw_string_literal",
				"char_literal",
				"concatenated_string",
			),
			Number: typeSet(
				"number_literal",
			),
			Comment: typeSet(
				"comment",
			),
		},
		FunctionName: cppFunctionName,
	}
}

// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cfamily

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/bufbuild/splice/tree"
)

// kinds maps tree-sitter node types from the C and C++ grammars to kinds.
// Named nodes not listed here become [tree.KindOther], and anonymous nodes
// become [tree.KindToken].
var kinds = map[string]tree.Kind{
	"translation_unit": tree.KindFile,

	"namespace_definition":  tree.KindNamespace,
	"declaration_list":      tree.KindMembers,
	"linkage_specification": tree.KindNamespace,

	"class_specifier":        tree.KindClass,
	"struct_specifier":       tree.KindClass,
	"union_specifier":        tree.KindClass,
	"enum_specifier":         tree.KindClass,
	"field_declaration_list": tree.KindMembers,
	"access_specifier":       tree.KindLabel,

	"function_definition":            tree.KindFuncDef,
	"declaration":                    tree.KindDecl,
	"field_declaration":              tree.KindDecl,
	"type_definition":                tree.KindDecl,
	"alias_declaration":              tree.KindDecl,
	"using_declaration":              tree.KindDecl,
	"function_declarator":            tree.KindDeclarator,
	"pointer_declarator":             tree.KindDeclarator,
	"reference_declarator":           tree.KindDeclarator,
	"array_declarator":               tree.KindDeclarator,
	"init_declarator":                tree.KindExpr,
	"parameter_list":                 tree.KindParams,
	"parameter_declaration":          tree.KindParam,
	"optional_parameter_declaration": tree.KindParam,
	"variadic_parameter_declaration": tree.KindParam,
	"field_initializer_list":         tree.KindCtorInits,
	"field_initializer":              tree.KindCtorInit,

	"compound_statement":   tree.KindBlock,
	"expression_statement": tree.KindStmt,
	"labeled_statement":    tree.KindStmt,
	"break_statement":      tree.KindStmt,
	"continue_statement":   tree.KindStmt,
	"goto_statement":       tree.KindStmt,
	"return_statement":     tree.KindReturn,
	"if_statement":         tree.KindIf,
	"else_clause":          tree.KindOther,
	"for_statement":        tree.KindFor,
	"for_range_loop":       tree.KindFor,
	"while_statement":      tree.KindWhile,
	"do_statement":         tree.KindWhile,
	"condition_clause":     tree.KindCondition,

	"argument_list":            tree.KindArgs,
	"call_expression":          tree.KindCall,
	"binary_expression":        tree.KindExpr,
	"unary_expression":         tree.KindExpr,
	"update_expression":        tree.KindExpr,
	"assignment_expression":    tree.KindExpr,
	"conditional_expression":   tree.KindExpr,
	"cast_expression":          tree.KindExpr,
	"pointer_expression":       tree.KindExpr,
	"field_expression":         tree.KindExpr,
	"subscript_expression":     tree.KindExpr,
	"parenthesized_expression": tree.KindExpr,
	"new_expression":           tree.KindExpr,
	"delete_expression":        tree.KindExpr,
	"sizeof_expression":        tree.KindExpr,

	"identifier":           tree.KindName,
	"field_identifier":     tree.KindName,
	"namespace_identifier": tree.KindName,
	"statement_identifier": tree.KindName,
	"qualified_identifier": tree.KindName,
	"destructor_name":      tree.KindName,
	"operator_name":        tree.KindName,
	"this":                 tree.KindName,

	"primitive_type":          tree.KindType,
	"type_identifier":         tree.KindType,
	"sized_type_specifier":    tree.KindType,
	"template_type":           tree.KindType,
	"type_qualifier":          tree.KindType,
	"storage_class_specifier": tree.KindType,
	"type_descriptor":         tree.KindType,

	"number_literal":      tree.KindLiteral,
	"string_literal":      tree.KindLiteral,
	"raw_string_literal":  tree.KindLiteral,
	"char_literal":        tree.KindLiteral,
	"concatenated_string": tree.KindLiteral,
	"true":                tree.KindLiteral,
	"false":               tree.KindLiteral,
	"null":                tree.KindLiteral,
	"nullptr":             tree.KindLiteral,

	"comment": tree.KindComment,
	"ERROR":   tree.KindError,
}

// conditionals are the preprocessor conditionals. Their branches hold
// ordinary code, so they are flattened into the enclosing node instead of
// becoming directives.
var conditionals = map[string]bool{
	"preproc_if":      true,
	"preproc_ifdef":   true,
	"preproc_elif":    true,
	"preproc_elifdef": true,
	"preproc_else":    true,
}

func kindOf(n sitter.Node) tree.Kind {
	typ := n.Type()
	if kind, ok := kinds[typ]; ok {
		return kind
	}
	switch {
	case strings.HasPrefix(typ, "preproc_"):
		return tree.KindDirective
	case !n.IsNamed():
		return tree.KindToken
	default:
		return tree.KindOther
	}
}

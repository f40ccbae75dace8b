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

package tree

import "fmt"

const (
	KindInvalid Kind = iota

	KindFile       // A whole translation unit.
	KindNamespace  // A namespace definition.
	KindClass      // A class, struct, union or enum specifier.
	KindMembers    // The braced member list of a class.
	KindFuncDef    // A function definition with a body.
	KindDecl       // A simple or member declaration.
	KindDeclarator // A (possibly nested) declarator.
	KindParams     // A parenthesized parameter list.
	KindParam      // A single parameter declaration.
	KindArgs       // A parenthesized argument list.
	KindCtorInits  // A constructor initializer list, including its colon.
	KindCtorInit   // A single constructor member initializer.
	KindDimension  // An array dimension in brackets.
	KindBlock      // A braced compound statement.
	KindStmt       // An expression or otherwise unclassified statement.
	KindReturn     // A return statement.
	KindIf         // An if statement.
	KindFor        // A for loop.
	KindWhile      // A while loop.
	KindCondition  // A parenthesized loop or branch header.
	KindExpr       // An operator expression.
	KindCall       // A call expression.
	KindName       // An identifier.
	KindType       // A type name or specifier.
	KindLiteral    // A literal value.
	KindLabel      // A label or access specifier.
	KindToken      // A keyword or punctuation token.
	KindOther      // A construct with no more specific kind.
	KindComment    // A comment.
	KindDirective  // A preprocessor directive.
	KindError      // A syntax error recovered by the parser.

	kindTotal
)

// Kind is the closed set of syntax kinds a [Node] may have.
type Kind byte

// Supported returns whether nodes of this kind may be modified by a rewrite.
//
// Comments, directives, and error nodes are never supported.
func (k Kind) Supported() bool {
	switch k.Category() {
	case Trivia, Errors:
		return false
	default:
		return k != KindInvalid
	}
}

// Category returns the category of this kind, for use with [Walk].
func (k Kind) Category() Category {
	return kinds[k].category
}

// Layout returns how the children of a node of this kind are laid out.
func (k Kind) Layout() Layout {
	return kinds[k].layout
}

// Delimiters returns the text that opens and closes the children of a node of
// this kind, if its layout uses delimiters.
func (k Kind) Delimiters() (open, close string) {
	switch k.Layout() {
	case LayoutBlock:
		return "{", "}"
	case LayoutList:
		return kinds[k].open, kinds[k].close
	default:
		return "", ""
	}
}

// Separator returns the text that separates the children of a
// [LayoutList] node.
func (k Kind) Separator() string {
	return kinds[k].sep
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if k >= kindTotal || kinds[k].name == "" {
		return fmt.Sprintf("tree.Kind(%d)", int(k))
	}
	return kinds[k].name
}

// KindByName looks up a kind by the name returned by [Kind.String].
func KindByName(name string) (Kind, bool) {
	for k := range kindTotal {
		if kinds[k].name == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Layout is the shape of a node's children when they are printed or when new
// children are inserted among them.
type Layout byte

const (
	LayoutLeaf   Layout = iota // No children; prints its token.
	LayoutSpaced               // Children separated by single spaces.
	LayoutJoined               // Children printed back to back.
	LayoutLines                // One child per line.
	LayoutBlock                // One child per line, in an indented brace block.
	LayoutList                 // Delimited, separator-joined children.
)

// IsLines returns whether this layout places each child on its own line.
func (l Layout) IsLines() bool {
	return l == LayoutLines || l == LayoutBlock
}

// String implements [fmt.Stringer].
func (l Layout) String() string {
	switch l {
	case LayoutLeaf:
		return "Leaf"
	case LayoutSpaced:
		return "Spaced"
	case LayoutJoined:
		return "Joined"
	case LayoutLines:
		return "Lines"
	case LayoutBlock:
		return "Block"
	case LayoutList:
		return "List"
	default:
		return fmt.Sprintf("tree.Layout(%d)", int(l))
	}
}

type kindInfo struct {
	name        string
	category    Category
	layout      Layout
	open, close string
	sep         string
}

var kinds = [kindTotal]kindInfo{
	KindFile:       {name: "File", category: Decls, layout: LayoutLines},
	KindNamespace:  {name: "Namespace", category: Decls, layout: LayoutSpaced},
	KindClass:      {name: "Class", category: Decls, layout: LayoutSpaced},
	KindMembers:    {name: "Members", category: Lists, layout: LayoutBlock},
	KindFuncDef:    {name: "FuncDef", category: Decls, layout: LayoutSpaced},
	KindDecl:       {name: "Decl", category: Decls, layout: LayoutSpaced},
	KindDeclarator: {name: "Declarator", category: Decls, layout: LayoutJoined},
	KindParams:     {name: "Params", category: Lists, layout: LayoutList, open: "(", close: ")", sep: ", "},
	KindParam:      {name: "Param", category: Decls, layout: LayoutSpaced},
	KindArgs:       {name: "Args", category: Lists, layout: LayoutList, open: "(", close: ")", sep: ", "},
	KindCtorInits:  {name: "CtorInits", category: Lists, layout: LayoutList, open: ": ", sep: ", "},
	KindCtorInit:   {name: "CtorInit", category: Exprs, layout: LayoutJoined},
	KindDimension:  {name: "Dimension", category: Lists, layout: LayoutList, open: "[", close: "]", sep: ", "},
	KindBlock:      {name: "Block", category: Stmts, layout: LayoutBlock},
	KindStmt:       {name: "Stmt", category: Stmts, layout: LayoutSpaced},
	KindReturn:     {name: "Return", category: Stmts, layout: LayoutSpaced},
	KindIf:         {name: "If", category: Stmts, layout: LayoutSpaced},
	KindFor:        {name: "For", category: Stmts, layout: LayoutSpaced},
	KindWhile:      {name: "While", category: Stmts, layout: LayoutSpaced},
	KindCondition:  {name: "Condition", category: Lists, layout: LayoutList, open: "(", close: ")", sep: " "},
	KindExpr:       {name: "Expr", category: Exprs, layout: LayoutSpaced},
	KindCall:       {name: "Call", category: Exprs, layout: LayoutJoined},
	KindName:       {name: "Name", category: Names, layout: LayoutLeaf},
	KindType:       {name: "Type", category: Types, layout: LayoutSpaced},
	KindLiteral:    {name: "Literal", category: Exprs, layout: LayoutLeaf},
	KindLabel:      {name: "Label", category: Decls, layout: LayoutLeaf},
	KindToken:      {name: "Token", category: Tokens, layout: LayoutLeaf},
	KindOther:      {name: "Other", category: Misc, layout: LayoutSpaced},
	KindComment:    {name: "Comment", category: Trivia, layout: LayoutLeaf},
	KindDirective:  {name: "Directive", category: Trivia, layout: LayoutLeaf},
	KindError:      {name: "Error", category: Errors, layout: LayoutLeaf},
}

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

package tree_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/splice/source"
	"github.com/bufbuild/splice/tree"
)

// pointerArray builds the tree for "int *pi[3]; // n".
func pointerArray() (file *tree.Node, lit *tree.Node, comment *tree.Node) {
	b := tree.NewBuilder(source.NewFile("test.cc", "int *pi[3]; // n"))
	lit = b.Node(tree.KindLiteral, 8, 9)
	decl := b.Node(tree.KindDecl, 0, 11,
		b.Node(tree.KindType, 0, 3),
		b.Node(tree.KindDeclarator, 4, 10,
			b.Node(tree.KindToken, 4, 5),
			b.Node(tree.KindName, 5, 7),
			b.Node(tree.KindDimension, 7, 10, lit),
		),
		b.Node(tree.KindToken, 10, 11),
	)
	comment = b.Node(tree.KindComment, 12, 16)
	return b.Node(tree.KindFile, 0, 16, decl, comment), lit, comment
}

func TestNode(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file, lit, _ := pointerArray()
	assert.Equal("3", lit.Text())
	assert.Equal(8, lit.Offset())
	assert.Equal(1, lit.Len())
	assert.Equal(tree.KindDimension, lit.Parent().Kind())
	assert.Equal(0, lit.Index())
	assert.True(file.IsAncestorOf(lit))
	assert.False(lit.IsAncestorOf(file))
	assert.Equal("Literal[8:9]", lit.String())

	children := file.Children()
	children[0] = nil
	assert.NotNil(file.Child(0), "Children must return a copy")

	name := tree.Name("x")
	assert.True(name.IsSynthetic())
	assert.Equal(-1, name.Offset())
	assert.Equal("x", name.Text())
	assert.True(name.Span().IsZero())
	assert.Equal(`Name"x"`, name.String())
}

func TestBuilderPanics(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	b := tree.NewBuilder(source.NewFile("test.cc", "a b c"))
	a := b.Node(tree.KindName, 0, 1)
	c := b.Node(tree.KindName, 4, 5)

	assert.Panics(func() { b.Node(tree.KindExpr, 0, 9) })
	assert.Panics(func() { b.Node(tree.KindExpr, 2, 5, a) }, "child outside parent")
	assert.Panics(func() { b.Node(tree.KindExpr, 0, 5, c, a) }, "out of order")

	b.Node(tree.KindExpr, 0, 5, a, c)
	assert.Panics(func() { b.Node(tree.KindExpr, 0, 5, a) }, "already parented")

	other := tree.NewBuilder(source.NewFile("other.cc", "a b c"))
	assert.Panics(func() { other.Node(tree.KindExpr, 0, 5, other.Node(tree.KindName, 0, 1), c) })
}

func TestSynthetic(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, lit, _ := pointerArray()
	name := tree.Name("n")
	expr := tree.New(tree.KindExpr, name, tree.Token("+"), lit)
	assert.Same(expr, name.Parent())
	assert.Equal(tree.KindDimension, lit.Parent().Kind(), "positioned children keep their parent")
	assert.Panics(func() { tree.New(tree.KindExpr, name) })
	assert.Panics(func() { tree.New(tree.KindExpr, nil) })

	assert.True(tree.Contains(expr, lit))
	assert.True(tree.Contains(expr, name))
	assert.False(tree.Contains(expr, tree.Name("n")))
}

func TestWalk(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file, lit, comment := pointerArray()

	var kinds []tree.Kind
	tree.Walk(file, tree.Exprs|tree.Names, func(n *tree.Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal([]tree.Kind{tree.KindName, tree.KindLiteral}, kinds)

	kinds = nil
	tree.Walk(file, tree.Decls, func(n *tree.Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != tree.KindDecl
	})
	assert.Equal([]tree.Kind{tree.KindFile, tree.KindDecl}, kinds)

	assert.NotContains(slices.Collect(tree.All(file, tree.Syntax)), comment)
	assert.Contains(slices.Collect(tree.All(file, tree.Everything)), comment)

	var first *tree.Node
	for n := range tree.All(file, tree.Everything) {
		first = n
		break
	}
	assert.Same(file, first)

	assert.True(tree.Contains(file, lit))
	assert.False(tree.Contains(lit, file))
}

func TestKinds(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.False(tree.KindComment.Supported())
	assert.False(tree.KindDirective.Supported())
	assert.False(tree.KindError.Supported())
	assert.False(tree.KindInvalid.Supported())
	assert.True(tree.KindLiteral.Supported())

	open, closer := tree.KindParams.Delimiters()
	assert.Equal("(", open)
	assert.Equal(")", closer)
	open, closer = tree.KindBlock.Delimiters()
	assert.Equal("{", open)
	assert.Equal("}", closer)

	k, ok := tree.KindByName("CtorInits")
	assert.True(ok)
	assert.Equal(tree.KindCtorInits, k)
	_, ok = tree.KindByName("Bogus")
	assert.False(ok)

	assert.Equal("Names|Trivia", (tree.Names | tree.Trivia).String())
	assert.Equal("none", tree.Category(0).String())
}

func TestDump(t *testing.T) {
	t.Parallel()

	_, lit, _ := pointerArray()
	dim := lit.Parent()
	assert.Equal(t, "(Dimension\n  (Literal \"3\"))", tree.Dump(dim))
	assert.Equal(t, "(Expr!\n  (Name! \"x\"))", tree.Dump(tree.New(tree.KindExpr, tree.Name("x"))))
}

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

package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/splice/format"
	"github.com/bufbuild/splice/internal/treetest"
	"github.com/bufbuild/splice/render"
	"github.com/bufbuild/splice/tree"
)

// method builds "int exp(int i);".
func method() *tree.Node {
	return tree.New(tree.KindDecl,
		tree.TypeName("int"),
		tree.New(tree.KindDeclarator,
			tree.Name("exp"),
			tree.New(tree.KindParams, tree.New(tree.KindParam, tree.TypeName("int"), tree.Name("i"))),
		),
		tree.Token(";"),
	)
}

func TestLayouts(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	opts := render.Options{}
	assert.Equal("int exp(int i);", render.Node(opts, method(), nil))
	assert.Equal("15", render.Node(opts, tree.Literal("15"), nil))

	class := tree.New(tree.KindClass,
		tree.Token("class"), tree.Name("A"),
		tree.New(tree.KindMembers, tree.Leaf(tree.KindLabel, "public:"), method()),
		tree.Token(";"),
	)
	assert.Equal("class A {\n  public:\n  int exp(int i);\n};", render.Node(opts, class, nil))

	loop := tree.New(tree.KindFor,
		tree.Token("for"),
		tree.New(tree.KindCondition, tree.Token(";"), tree.Token(";")),
		tree.New(tree.KindBlock),
	)
	assert.Equal("for (; ;) {}", render.Node(opts, loop, nil))

	call := tree.New(tree.KindStmt,
		tree.New(tree.KindCall, tree.Name("f"), tree.New(tree.KindArgs, tree.Name("a"), tree.Literal("1"))),
		tree.Token(";"),
	)
	assert.Equal("f(a, 1);", render.Node(opts, call, nil))

	inits := tree.New(tree.KindCtorInits,
		tree.New(tree.KindCtorInit, tree.Name("alpha"), tree.New(tree.KindArgs, tree.Name("a"))),
		tree.New(tree.KindCtorInit, tree.Name("beta"), tree.New(tree.KindArgs, tree.Name("b"))),
	)
	assert.Equal(": alpha(a), beta(b)", render.Node(opts, inits, nil))
	assert.Equal("()", render.Node(opts, tree.New(tree.KindArgs), nil))
}

func TestWidth(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	args := tree.New(tree.KindArgs, tree.Name("first"), tree.Name("second"), tree.Name("third"))
	call := tree.New(tree.KindCall, tree.Name("f"), args)
	assert.Equal("f(first, second, third)", render.Node(render.Options{}, call, nil))
	assert.Equal("f(\n    first,\n    second,\n    third\n)", render.Node(render.Options{
		Style:    format.Options{IndentWidth: 4},
		MaxWidth: 16,
	}, call, nil))
}

func TestStyle(t *testing.T) {
	t.Parallel()

	block := tree.New(tree.KindBlock, tree.New(tree.KindReturn, tree.Token("return"), tree.Token(";")))
	assert.Equal(t, "{\r\n\treturn;\r\n}", render.Node(render.Options{
		Style: format.Options{Indent: "\t", Newline: "crlf"},
	}, block, nil))
}

type resolver map[*tree.Node][]render.Item

func (r resolver) Items(n *tree.Node) []render.Item {
	if items, ok := r[n]; ok {
		return items
	}
	items := make([]render.Item, n.NumChildren())
	for i := range items {
		items[i] = render.NodeItem(n.Child(i))
	}
	return items
}

func TestResolver(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := treetest.Parse("test.cc", "x + y", `(Expr (Name "x") (Token "+") (Name "y"))`)
	x := f.Find(tree.KindName, "x")

	body := tree.New(tree.KindBlock, tree.New(tree.KindStmt, x, tree.Token(";")))
	assert.Panics(func() { render.Node(render.Options{}, body, nil) })

	stmt := body.Child(0)
	r := resolver{stmt: {
		render.TextItem(tree.KindFor, "for (;;) {\n  x();\n}"),
		render.TextItem(tree.KindToken, ";"),
	}}
	assert.Equal("{\n  for (;;) {\n    x();\n  };\n}", render.Node(render.Options{}, body, r))

	// Rendering is deterministic.
	assert.Equal(render.Node(render.Options{}, body, r), render.Node(render.Options{}, body, r))
}

type countingResolver struct {
	resolver
	calls map[*tree.Node]int
}

func (r countingResolver) Items(n *tree.Node) []render.Item {
	r.calls[n]++
	return r.resolver.Items(n)
}

func TestResolverCalledOnce(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Spacing between siblings looks at the edges of nested nodes, which must
	// not ask the resolver for their items a second time.
	decl := method()
	r := countingResolver{resolver: resolver{}, calls: make(map[*tree.Node]int)}
	assert.Equal("int exp(int i);", render.Node(render.Options{}, decl, r))

	assert.NotEmpty(r.calls)
	for n, calls := range r.calls {
		assert.Equal(1, calls, "%v", n)
	}
	assert.Equal(1, r.calls[decl.Child(1)])
}

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
package splice_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/splice"
	"github.com/bufbuild/splice/format"
	"github.com/bufbuild/splice/internal/treetest"
	"github.com/bufbuild/splice/tree"
)

const classA = "class A { public: A(); }; // end"

func fixture() *treetest.Fixture {
	return treetest.Parse("test.cc", classA, `
		(File
			(Class@class
				(Token "class") (Name "A")
				(Members@body "{ public: A(); }"
					(Label "public:")
					(Decl@ctor (Declarator (Name "A") (Params "()")) (Token ";")))
				(Token ";"))
			(Comment@comment "// end"))`)
}

func member(typ, name string) *tree.Node {
	return tree.New(tree.KindDecl, tree.TypeName(typ), tree.Name(name), tree.Token(";"))
}

func TestRewrite(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	rw := splice.Begin(f.Root)
	assert.True(rw.IsRoot())
	assert.Same(f.Root, rw.Root())

	added, err := rw.InsertBefore(f.Node("body"), nil, member("int", "x"), "add")
	require.NoError(t, err)
	assert.False(added.IsRoot())

	// Edit the new member through its own handle.
	_, err = added.Replace(added.Root().Child(1), tree.Name("y"), "add")
	require.NoError(t, err)
	assert.Equal(2, rw.Len())

	change, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal("class A { public: A(); int y; }; // end", change.Apply())

	_, err = added.Rewrite()
	assert.ErrorIs(err, splice.ErrInvalidArgument)
	assert.ErrorContains(err, "root rewrite object required")

	again, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal(change.Edits(), again.Edits())
}

func TestSwapMembersWithRename(t *testing.T) {
	t.Parallel()
	f := treetest.Parse("test.cc", "struct S {\n  int b;\n  int a;\n};\n", `
		(File
			(Class
				(Token "struct") (Name "S")
				(Members
					(Decl@m1 (Type "int") (Name "b") (Token ";"))
					(Decl@m2 (Type "int") (Name@a "a") (Token ";")))
				(Token ";")))`)

	rw := splice.Begin(f.Root)
	moved, err := rw.Replace(f.Node("m1"), f.Node("m2"), "swap")
	require.NoError(t, err)
	_, err = rw.Replace(f.Node("m2"), f.Node("m1"), "swap")
	require.NoError(t, err)
	_, err = moved.Replace(f.Node("a"), tree.Name("d"), "rename")
	require.NoError(t, err)

	change, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal(t, "struct S {\n  int d;\n  int b;\n};\n", change.Apply())

	// The rename is part of the text of the swap that carries it.
	groups := change.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "swap", groups[0].Name)
	assert.Len(t, groups[0].Edits, 2)
}

func TestReplaceLeafAndUndo(t *testing.T) {
	t.Parallel()
	f := treetest.Parse("test.cc", "int *pi[3];", `
		(File (Decl (Type "int") (Declarator (Token "*") (Name "pi") (Dimension "[3]" (Literal@n "3"))) (Token ";")))`)

	rw := splice.Begin(f.Root)
	_, err := rw.Replace(f.Node("n"), tree.Literal("15"), "")
	require.NoError(t, err)
	change, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal(t, "int *pi[15];", change.Apply())
	assert.Equal(t, "int *pi[3];", change.Inverse().Apply())
}

func TestReplaceInsideReplaced(t *testing.T) {
	t.Parallel()
	f := fixture()
	rw := splice.Begin(f.Root)
	_, err := rw.Replace(f.Node("ctor"), member("int", "x"), "")
	require.NoError(t, err)
	_, err = rw.Replace(f.Node("body"), tree.New(tree.KindMembers), "")
	require.NoError(t, err)

	change, err := rw.Rewrite()
	assert.ErrorIs(t, err, splice.ErrOverlappingEdits)
	assert.Nil(t, change)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	rw := splice.Begin(f.Root)

	assert.ErrorIs(rw.Remove(nil, ""), splice.ErrInvalidArgument)
	_, err := rw.Replace(f.Node("ctor"), nil, "")
	assert.ErrorIs(err, splice.ErrInvalidArgument)
	assert.ErrorIs(rw.Remove(tree.Name("free"), ""), splice.ErrNodeNotInTree)
	assert.ErrorIs(rw.Remove(f.Node("comment"), ""), splice.ErrUnsupportedNodeKind)
	_, err = rw.InsertBefore(f.Node("class"), f.Node("ctor"), tree.Name("x"), "")
	assert.ErrorIs(err, splice.ErrAnchorNotChildOfParent)

	nested, err := rw.Replace(f.Node("ctor"), member("int", "x"), "")
	require.NoError(t, err)
	assert.ErrorIs(nested.Remove(f.Node("class"), ""), splice.ErrNodeNotInTree)
	assert.Equal(1, rw.Len(), "failed calls must record nothing")

	change, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal("class A { public: int x; }; // end", change.Apply())
}

func TestOptions(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := treetest.Parse("test.cc", "void g() {}\n", `
		(File (FuncDef (Type "void") (Declarator (Name "g") (Params "()")) (Block@body "{}")))`)

	var logs bytes.Buffer
	rw := splice.Begin(f.Root,
		splice.WithStyle(format.Options{Indent: "\t", Newline: "crlf"}),
		splice.WithMaxWidth(12),
		splice.WithLogger(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	call := tree.New(tree.KindStmt,
		tree.New(tree.KindCall, tree.Name("h"), tree.New(tree.KindArgs, tree.Name("alpha"), tree.Name("beta"))),
		tree.Token(";"),
	)
	_, err := rw.InsertBefore(f.Node("body"), nil, call, "")
	require.NoError(t, err)

	change, err := rw.Rewrite()
	require.NoError(t, err)
	assert.Equal("void g() {\r\n\th(\r\n\t\talpha,\r\n\t\tbeta\r\n\t);\r\n}\n", change.Apply())
	assert.Contains(logs.String(), `"msg":"generated change"`)
}

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

package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/splice/internal/treetest"
	"github.com/bufbuild/splice/store"
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

func TestRecord(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	s := store.New(f.Root)
	assert.Same(f.Root, s.Tree())

	member := tree.New(tree.KindDecl, tree.TypeName("int"), tree.Name("x"), tree.Token(";"))
	h1, err := s.InsertBefore(store.Root, f.Node("body"), nil, member, "add")
	require.NoError(t, err)
	h2, err := s.InsertBefore(store.Root, f.Node("body"), f.Node("ctor"), tree.Name("y"), "add")
	require.NoError(t, err)
	require.NoError(t, s.Remove(store.Root, f.Node("ctor"), "rm"))

	assert.Equal(3, s.Len())
	assert.Less(h1, h2)
	assert.Equal([]store.Handle{1, 2, 3}, s.Children(store.Root))
	assert.Equal(store.AppendChild, s.At(h1).Kind)
	assert.Equal(store.InsertBefore, s.At(h2).Kind)
	assert.Same(f.Node("ctor"), s.At(h2).Anchor)
	assert.True(s.At(3).IsRemoval())
	assert.Same(member, s.ScopeRoot(h1))
	assert.Same(f.Root, s.ScopeRoot(store.Root))

	// Nested modifications are scoped to the payload of their parent.
	nested, err := s.Replace(h1, member.Child(1), tree.Name("z"), "rename")
	require.NoError(t, err)
	assert.Equal(h1, s.Scope(nested))
	assert.Equal([]store.Handle{nested}, s.Children(h1))
	assert.Empty(s.Children(nested))

	var kinds []store.Kind
	for _, m := range s.All() {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal([]store.Kind{store.AppendChild, store.InsertBefore, store.Replace, store.Replace}, kinds)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	s := store.New(f.Root)

	err := s.Remove(store.Root, nil, "")
	assert.ErrorIs(err, store.ErrInvalidArgument)

	_, err = s.Replace(store.Root, f.Node("ctor"), nil, "")
	assert.ErrorIs(err, store.ErrInvalidArgument)

	err = s.Remove(store.Root, tree.Name("free"), "")
	assert.ErrorIs(err, store.ErrNodeNotInTree)

	err = s.Remove(store.Root, f.Node("comment"), "")
	assert.ErrorIs(err, store.ErrUnsupportedNodeKind)

	_, err = s.Replace(store.Root, f.Node("ctor"), tree.Leaf(tree.KindComment, "// x"), "")
	assert.ErrorIs(err, store.ErrUnsupportedNodeKind)

	_, err = s.InsertBefore(store.Root, f.Node("class"), f.Node("ctor"), tree.Name("x"), "")
	assert.ErrorIs(err, store.ErrAnchorNotChildOfParent)

	_, err = s.InsertBefore(store.Root, f.Node("body"), nil, nil, "")
	assert.ErrorIs(err, store.ErrInvalidArgument)

	err = s.Remove(42, f.Node("ctor"), "")
	assert.ErrorIs(err, store.ErrInvalidArgument)

	// A nested scope only sees its own payload.
	h, err := s.Replace(store.Root, f.Node("ctor"), tree.Name("B"), "")
	require.NoError(t, err)
	err = s.Remove(h, f.Node("class"), "")
	assert.ErrorIs(err, store.ErrNodeNotInTree)

	assert.Equal(1, s.Len(), "failed calls must record nothing")
	assert.Panics(func() { s.At(store.Root) })
	assert.Panics(func() { s.Store(7, store.Modification{}) })
}

func TestSyntheticParent(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	s := store.New(f.Root)

	// The constructor keeps its original parent, but is also a child of the
	// synthetic members list.
	members := tree.New(tree.KindMembers, tree.Name("x"), f.Node("ctor"))
	h, err := s.Replace(store.Root, f.Node("body"), members, "")
	require.NoError(t, err)

	ins, err := s.InsertBefore(h, members, f.Node("ctor"), tree.Name("y"), "")
	require.NoError(t, err)
	assert.Equal(store.InsertBefore, s.At(ins).Kind)
	assert.Same(f.Node("ctor"), s.At(ins).Anchor)

	_, err = s.InsertBefore(h, members, f.Node("comment"), tree.Name("y"), "")
	assert.ErrorIs(err, store.ErrAnchorNotChildOfParent)
}

func TestModificationString(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := fixture()
	n := f.Node("ctor")
	assert.Equal("Remove(Decl[18:22])", store.Modification{Kind: store.Replace, Target: n}.String())
	assert.Equal(`AppendChild(Decl[18:22], Name"x")`,
		store.Modification{Kind: store.AppendChild, Target: n, Payload: tree.Name("x")}.String())
}

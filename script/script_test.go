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
package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/splice"
	"github.com/bufbuild/splice/internal/treetest"
	"github.com/bufbuild/splice/script"
)

const structS = `
	(File
		(Class
			(Token "struct") (Name "S")
			(Members
				(Decl (Type "int") (Name "b") (Token ";"))
				(Decl (Type "int") (Name "a") (Token ";")))
			(Token ";"))
		(Comment "// end"))`

func run(t *testing.T, f *treetest.Fixture, text string) (string, error) {
	t.Helper()
	s, err := script.Parse(text)
	require.NoError(t, err)

	rw := splice.Begin(f.Root)
	if err := s.Apply(rw); err != nil {
		return "", err
	}
	change, err := rw.Rewrite()
	if err != nil {
		return "", err
	}
	return change.Apply(), nil
}

func TestSwap(t *testing.T) {
	t.Parallel()

	f := treetest.Parse("test.cc", "struct S {\n  int b;\n  int a;\n};\n// end\n", structS)
	got, err := run(t, f, `
group: swap
ops:
  - op: replace
    target: {kind: Decl, index: 0}
    with: {select: {kind: Decl, index: 1}}
    ops:
      - op: replace
        target: {kind: Name, text: a}
        with: {kind: Name, text: d}
  - op: replace
    target: {kind: Decl, index: -1}
    with: {select: {kind: Decl, index: 0}}
`)
	require.NoError(t, err)
	assert.Equal(t, "struct S {\n  int d;\n  int b;\n};\n// end\n", got)
}

func TestInsert(t *testing.T) {
	t.Parallel()

	f := treetest.Parse("test.cc", "f(int a,int b): beta(b) {}", `
		(File
			(FuncDef
				(Declarator (Name "f") (Params "(int a,int b)"
					(Param (Type "int") (Name "a"))
					(Param (Type "int") (Name "b"))))
				(CtorInits ": beta(b)"
					(CtorInit (Name "beta") (Args "(b)" (Name "b"))))
				(Block "{}")))`)

	got, err := run(t, f, `
ops:
  - op: insert
    target: {kind: CtorInits}
    anchor: {kind: CtorInit, text: "beta(b)"}
    with:
      kind: CtorInit
      children:
        - {kind: Name, text: alpha}
        - kind: Args
          children: [{kind: Name, text: a}]
  - op: append
    target: {kind: Block}
    with: {kind: Return, children: [{kind: Token, text: return}, {kind: Token, text: ";"}]}
  - op: remove
    target: {kind: Param, index: -1}
`)
	require.NoError(t, err)
	assert.Equal(t, "f(int a): alpha(a), beta(b) {\n  return;\n}", got)
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := treetest.Parse("test.cc", "f(a, b); g(b);", `
		(File
			(Stmt@f (Call (Name "f") (Args (Name "a") (Name "b"))) (Token ";"))
			(Stmt@g (Call (Name "g") (Args (Name "b"))) (Token ";")))`)

	n, err := (&script.Selector{Kind: "Name", Text: "b", Within: &script.Selector{Kind: "Stmt", Index: 1}}).Find(f.Root)
	require.NoError(t, err)
	assert.True(f.Node("g").IsAncestorOf(n))

	n, err = (&script.Selector{Text: "b", Index: -1}).Find(f.Root)
	require.NoError(t, err)
	assert.True(f.Node("g").IsAncestorOf(n))

	n, err = (&script.Selector{Kind: "stmt", Index: 1}).Find(f.Root)
	require.NoError(t, err)
	assert.Same(f.Node("g"), n)

	_, err = (&script.Selector{Kind: "Name", Text: "c"}).Find(f.Root)
	assert.ErrorIs(err, script.ErrNoMatch)
	_, err = (&script.Selector{Kind: "Name", Index: 9}).Find(f.Root)
	assert.ErrorIs(err, script.ErrNoMatch)
	_, err = (&script.Selector{Kind: "Bogus"}).Find(f.Root)
	assert.ErrorIs(err, script.ErrInvalidScript)

	assert.Equal(`{kind: Name, text: "b", within: {kind: Stmt, index: 1}}`,
		(&script.Selector{Kind: "Name", Text: "b", Within: &script.Selector{Kind: "Stmt", Index: 1}}).String())
}

func TestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, script string
		want         error
	}{
		{name: "unknown-op", script: "ops: [{op: frob, target: {kind: Decl}}]", want: script.ErrInvalidScript},
		{name: "no-target", script: "ops: [{op: remove}]", want: script.ErrInvalidScript},
		{name: "no-payload", script: "ops: [{op: replace, target: {kind: Decl}}]", want: script.ErrInvalidScript},
		{name: "bad-kind", script: "ops: [{op: replace, target: {kind: Decl}, with: {kind: Thing}}]", want: script.ErrInvalidScript},
		{name: "insert-without-anchor", script: "ops: [{op: insert, target: {kind: Members}, with: {kind: Name, text: x}}]", want: script.ErrInvalidScript},
		{name: "no-match", script: "ops: [{op: remove, target: {kind: Return}}]", want: script.ErrNoMatch},
		{name: "comment", script: "ops: [{op: remove, target: {kind: Comment}}]", want: splice.ErrUnsupportedNodeKind},
		{
			name:   "foreign-anchor",
			script: "ops: [{op: insert, target: {kind: Members}, anchor: {kind: Name, text: a}, with: {kind: Name, text: x}}]",
			want:   splice.ErrAnchorNotChildOfParent,
		},
		{
			name:   "overlap",
			script: "ops: [{op: remove, target: {kind: Decl}}, {op: remove, target: {kind: Name, text: b}}]",
			want:   splice.ErrOverlappingEdits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := treetest.Parse("test.cc", "struct S {\n  int b;\n  int a;\n};\n// end\n", structS)
			_, err := run(t, f, tt.script)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := script.Parse("ops: []\nbogus: 1\n")
	assert.ErrorIs(t, err, script.ErrInvalidScript)
}

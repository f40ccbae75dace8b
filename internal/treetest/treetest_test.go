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

package treetest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/splice/internal/treetest"
	"github.com/bufbuild/splice/tree"
)

func TestParse(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	f := treetest.Parse("test.cc", "int *pi[3];", `
		(File
			(Decl
				(Type "int")
				(Declarator@decl (Token "*") (Name "pi") (Dimension "[3]" (Literal@n "3")))
				(Token ";")))`)

	assert.Equal(0, f.Root.Offset())
	assert.Equal(11, f.Root.End())
	assert.Equal("*pi[3]", f.Node("decl").Text())
	assert.Equal(8, f.Node("n").Offset())
	assert.Same(f.Node("n"), f.Find(tree.KindLiteral, "3"))
	assert.Equal("int *pi[3];", f.Root.Child(0).Text())

	assert.Panics(func() { f.Node("missing") })
	assert.Panics(func() { treetest.Parse("test.cc", "int", `(File (Name "x"))`) })
	assert.Panics(func() { treetest.Parse("test.cc", "int", `(Bogus)`) })
}

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

import (
	"fmt"

	"github.com/bufbuild/splice/source"
)

// Builder constructs positioned nodes over a single file. It is intended for
// use by parsers.
//
// Nodes must be built bottom-up: children are passed to the call that creates
// their parent.
type Builder struct {
	file *source.File
}

// NewBuilder returns a builder for nodes in file.
func NewBuilder(file *source.File) *Builder {
	return &Builder{file: file}
}

// File returns the file this builder positions nodes in.
func (b *Builder) File() *source.File {
	return b.file
}

// Node creates a positioned node covering [start, end).
//
// children must be positioned nodes from the same file, in source order,
// pairwise disjoint, contained in [start, end), and not yet attached to a
// parent. Violating any of these panics.
func (b *Builder) Node(kind Kind, start, end int, children ...*Node) *Node {
	if start < 0 || start > end || end > b.file.Len() {
		panic(fmt.Sprintf("tree: %v range [%d:%d] is outside of %q", kind, start, end, b.file.Path()))
	}

	n := &Node{kind: kind, file: b.file, start: start, end: end}
	prev := start
	for _, child := range children {
		switch {
		case child == nil:
			panic(fmt.Sprintf("tree: nil child passed to %v", n))
		case child.file != b.file:
			panic(fmt.Sprintf("tree: child %v is not positioned in %q", child, b.file.Path()))
		case child.parent != nil:
			panic(fmt.Sprintf("tree: child %v already has parent %v", child, child.parent))
		case child.start < prev || child.end > end:
			panic(fmt.Sprintf("tree: child %v is out of order or outside of parent %v", child, n))
		}
		child.parent = n
		prev = child.end
	}
	n.children = children
	return n
}

// New constructs a synthetic node with the given children.
//
// Children may be synthetic or positioned. A synthetic child is linked to the
// new node as its parent, so it cannot be passed to New twice; a positioned
// child keeps its original parent and is printed from its source text.
func New(kind Kind, children ...*Node) *Node {
	n := &Node{kind: kind}
	for _, child := range children {
		switch {
		case child == nil:
			panic(fmt.Sprintf("tree: nil child passed to New(%v)", kind))
		case child.IsSynthetic() && child.parent != nil:
			panic(fmt.Sprintf("tree: synthetic %v already has parent %v", child, child.parent))
		case child.IsSynthetic():
			child.parent = n
		}
	}
	n.children = children
	return n
}

// Leaf constructs a synthetic node with no children that prints as text.
func Leaf(kind Kind, text string) *Node {
	return &Node{kind: kind, token: text}
}

// Name constructs a synthetic identifier.
func Name(text string) *Node {
	return Leaf(KindName, text)
}

// Literal constructs a synthetic literal.
func Literal(text string) *Node {
	return Leaf(KindLiteral, text)
}

// Token constructs a synthetic keyword or punctuation token.
func Token(text string) *Node {
	return Leaf(KindToken, text)
}

// TypeName constructs a synthetic type specifier.
func TypeName(text string) *Node {
	return Leaf(KindType, text)
}

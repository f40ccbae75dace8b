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
	"slices"
	"strings"

	"github.com/bufbuild/splice/source"
)

// Node is a node in a syntax tree.
//
// A node is either positioned, meaning that it was produced by a parser and
// covers a range of its [source.File], or synthetic, meaning that it was
// constructed by a rewrite client with [New] or [Leaf] and has no source
// position.
//
// Nodes are immutable once constructed; there are no methods for changing
// the shape of a tree. Structural changes are requested through a rewrite
// session instead.
type Node struct {
	kind       Kind
	file       *source.File
	start, end int
	parent     *Node
	children   []*Node

	// Token text for synthetic leaves.
	token string
}

// Kind returns this node's kind.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindInvalid
	}
	return n.kind
}

// IsSynthetic returns whether this node was constructed rather than parsed.
func (n *Node) IsSynthetic() bool {
	return n.file == nil
}

// File returns the file a positioned node was parsed from, or nil for
// synthetic nodes.
func (n *Node) File() *source.File {
	return n.file
}

// Offset returns the byte offset at which a positioned node starts.
//
// Returns -1 for synthetic nodes.
func (n *Node) Offset() int {
	if n.IsSynthetic() {
		return -1
	}
	return n.start
}

// Len returns the length in bytes of a positioned node.
//
// Returns -1 for synthetic nodes.
func (n *Node) Len() int {
	if n.IsSynthetic() {
		return -1
	}
	return n.end - n.start
}

// End returns the byte offset just past the end of a positioned node.
//
// Returns -1 for synthetic nodes.
func (n *Node) End() int {
	if n.IsSynthetic() {
		return -1
	}
	return n.end
}

// Span returns the source span of a positioned node, or the zero span for a
// synthetic one.
func (n *Node) Span() source.Span {
	if n.IsSynthetic() {
		return source.Span{}
	}
	return source.Span{File: n.file, Start: n.start, End: n.end}
}

// Text returns the original source text of a positioned node, or the token
// text of a synthetic leaf.
func (n *Node) Text() string {
	if n.IsSynthetic() {
		return n.token
	}
	return n.file.Text()[n.start:n.end]
}

// Token returns the token text of a synthetic leaf. Positioned nodes have no
// token text; see [Node.Text].
func (n *Node) Token() string {
	return n.token
}

// Parent returns this node's parent, or nil if it is a root.
//
// Positioned nodes embedded into a synthetic node keep their original parent.
func (n *Node) Parent() *Node {
	return n.parent
}

// NumChildren returns the number of children of this node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the ith child of this node.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns this node's children, in source order.
//
// The returned slice is a copy, and may be freely modified.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Index returns the position of this node among its parent's children, or -1
// if it has no parent.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// IsAncestorOf returns whether n is a strict ancestor of other along
// [Node.Parent] links.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == n {
			return true
		}
	}
	return false
}

// String implements [fmt.Stringer].
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsSynthetic() {
		if n.token != "" {
			return fmt.Sprintf("%v%q", n.kind, n.token)
		}
		return fmt.Sprintf("%v<synthetic>", n.kind)
	}
	return fmt.Sprintf("%v[%d:%d]", n.kind, n.start, n.end)
}

// Dump renders the tree rooted at n as an s-expression, for debugging.
//
// Leaves are printed with their text; synthetic nodes are marked with a
// trailing "!".
func Dump(n *Node) string {
	var out strings.Builder
	dump(&out, n, 0)
	return out.String()
}

func dump(out *strings.Builder, n *Node, depth int) {
	if depth > 0 {
		out.WriteByte('\n')
		out.WriteString(strings.Repeat("  ", depth))
	}
	out.WriteByte('(')
	out.WriteString(n.kind.String())
	if n.IsSynthetic() {
		out.WriteByte('!')
	}
	if len(n.children) == 0 {
		fmt.Fprintf(out, " %q", n.Text())
	}
	for _, child := range n.children {
		dump(out, child, depth+1)
	}
	out.WriteByte(')')
}

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

import "iter"

// Walk performs a depth-first pre-order traversal of the tree rooted at root.
//
// enter is called for every node whose category is in interest. If it returns
// false, the node's subtree is skipped. Nodes outside of interest are not
// reported, but their children are still visited; the exception is Trivia and
// Errors subtrees, which are only entered when interest includes them.
func Walk(root *Node, interest Category, enter func(*Node) bool) {
	walk(root, interest, enter)
}

func walk(n *Node, interest Category, enter func(*Node) bool) bool {
	cat := n.Kind().Category()
	switch {
	case interest.Has(cat):
		if !enter(n) {
			return true
		}
	case cat.Has(Trivia | Errors):
		return true
	}

	for _, child := range n.children {
		if !walk(child, interest, enter) {
			return false
		}
	}
	return true
}

// All returns an iterator over the nodes that [Walk] would report.
//
// Breaking out of the loop stops the traversal entirely.
func All(root *Node, interest Category) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var stopped bool
		Walk(root, interest, func(n *Node) bool {
			if stopped {
				return false
			}
			stopped = !yield(n)
			return !stopped
		})
	}
}

// Contains returns whether n is reachable from root through child links.
//
// For positioned nodes this follows parent links upward, which is cheap; for
// synthetic roots it falls back to a search, since positioned nodes embedded in
// a synthetic tree do not point back at it.
func Contains(root, n *Node) bool {
	if root == nil || n == nil {
		return false
	}
	if root == n || root.IsAncestorOf(n) {
		return true
	}
	if !root.IsSynthetic() && !n.IsSynthetic() && root.file == n.file {
		return false
	}

	var found bool
	var search func(*Node)
	search = func(m *Node) {
		for _, child := range m.children {
			if found {
				return
			}
			if child == n || child.IsAncestorOf(n) {
				found = true
				return
			}
			if child.IsSynthetic() {
				search(child)
			}
		}
	}
	search(root)
	return found
}

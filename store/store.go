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

// Package store records structural modifications to a syntax tree without
// changing the tree.
//
// Modifications form a forest keyed by modification rather than by node: a
// modification recorded under the [Handle] of an earlier replacement or
// insertion applies to that modification's payload, wherever the payload ends
// up being printed. Top-level modifications are recorded under [Root].
package store

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/bufbuild/splice/internal/arena"
	"github.com/bufbuild/splice/tree"
)

var (
	// ErrInvalidArgument is returned for missing nodes or handles.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNodeNotInTree is returned when a target is not reachable from the
	// root of its scope.
	ErrNodeNotInTree = errors.New("node is not in tree")
	// ErrUnsupportedNodeKind is returned for nodes that may not be rewritten,
	// such as comments, directives and error nodes.
	ErrUnsupportedNodeKind = errors.New("unsupported node kind")
	// ErrAnchorNotChildOfParent is returned when an insertion anchor is not a
	// child of the insertion parent.
	ErrAnchorNotChildOfParent = errors.New("anchor is not a child of parent")
)

// Handle names a recorded modification.
//
// Handles are allocated in registration order, so comparing two handles from
// the same store compares when they were recorded.
type Handle uint32

// Root is the handle that top-level modifications are recorded under.
const Root Handle = 0

// Store is a forest of modifications to the tree under a single root.
//
// A Store must not be mutated concurrently; it may be read by any number of
// goroutines once recording is done.
type Store struct {
	root    *tree.Node
	records arena.Arena[record]
	top     []Handle
}

type record struct {
	mod      Modification
	scope    Handle
	children []Handle
}

// New returns an empty store for modifications of the tree rooted at root.
func New(root *tree.Node) *Store {
	return &Store{root: root}
}

// Tree returns the root of the tree being modified.
func (s *Store) Tree() *tree.Node {
	return s.root
}

// Len returns the number of recorded modifications.
func (s *Store) Len() int {
	return s.records.Len()
}

// Remove records the removal of node from the tree visible in scope.
func (s *Store) Remove(scope Handle, node *tree.Node, group string) error {
	if err := s.checkTarget(scope, node); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	s.Store(scope, Modification{Kind: Replace, Target: node, Group: group})
	return nil
}

// Replace records the replacement of node with replacement.
//
// The returned handle is the scope for further modifications of
// replacement's contents.
func (s *Store) Replace(scope Handle, node, replacement *tree.Node, group string) (Handle, error) {
	if replacement == nil {
		return 0, fmt.Errorf("replace: %w: nil replacement, use remove instead", ErrInvalidArgument)
	}
	if err := s.checkTarget(scope, node); err != nil {
		return 0, fmt.Errorf("replace: %w", err)
	}
	if err := checkKind(replacement); err != nil {
		return 0, fmt.Errorf("replace: %w", err)
	}
	return s.Store(scope, Modification{Kind: Replace, Target: node, Payload: replacement, Group: group}), nil
}

// InsertBefore records the insertion of node as a child of parent, just
// before anchor. If anchor is nil, node is appended after parent's last
// child instead.
//
// A synthetic parent may hold positioned children, whose own parent is still
// their original one; any of them may be the anchor.
//
// The returned handle is the scope for further modifications of node's
// contents.
func (s *Store) InsertBefore(scope Handle, parent, anchor, node *tree.Node, group string) (Handle, error) {
	if node == nil {
		return 0, fmt.Errorf("insert: %w: nil node", ErrInvalidArgument)
	}
	if err := s.checkTarget(scope, parent); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	if err := checkKind(node); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}

	kind := AppendChild
	if anchor != nil {
		if !isChild(parent, anchor) {
			return 0, fmt.Errorf("insert: %w: %v is a child of %v, not %v",
				ErrAnchorNotChildOfParent, anchor, anchor.Parent(), parent)
		}
		kind = InsertBefore
	}
	return s.Store(scope, Modification{Kind: kind, Target: parent, Anchor: anchor, Payload: node, Group: group}), nil
}

// Store records m under scope without validating it, and returns its handle.
//
// Panics if scope is not a handle from this store.
func (s *Store) Store(scope Handle, m Modification) Handle {
	if scope != Root {
		s.at(scope) // Bounds check.
	}
	h := Handle(s.records.New(record{mod: m, scope: scope}))
	if scope == Root {
		s.top = append(s.top, h)
	} else {
		parent := s.at(scope)
		parent.children = append(parent.children, h)
	}
	return h
}

// At returns the modification named by h.
func (s *Store) At(h Handle) Modification {
	return s.at(h).mod
}

// Scope returns the handle h was recorded under.
func (s *Store) Scope(h Handle) Handle {
	return s.at(h).scope
}

// Children returns the modifications recorded under h, in registration
// order.
func (s *Store) Children(h Handle) []Handle {
	if h == Root {
		return slices.Clone(s.top)
	}
	return slices.Clone(s.at(h).children)
}

// ScopeRoot returns the node that modifications under h apply to: the
// store's tree for [Root], and the payload of h otherwise.
func (s *Store) ScopeRoot(h Handle) *tree.Node {
	if h == Root {
		return s.root
	}
	return s.at(h).mod.Payload
}

// All returns an iterator over every recorded modification, in registration
// order.
func (s *Store) All() iter.Seq2[Handle, Modification] {
	return func(yield func(Handle, Modification) bool) {
		for p, r := range s.records.All() {
			if !yield(Handle(p), r.mod) {
				return
			}
		}
	}
}

func (s *Store) at(h Handle) *record {
	if h == Root || int(h) > s.records.Len() {
		panic(fmt.Sprintf("store: invalid handle %d", h))
	}
	return s.records.At(arena.Pointer[record](h))
}

// isChild returns whether n is one of parent's children.
func isChild(parent, n *tree.Node) bool {
	if n.Parent() == parent {
		return true
	}
	if !parent.IsSynthetic() {
		return false
	}
	for i := range parent.NumChildren() {
		if parent.Child(i) == n {
			return true
		}
	}
	return false
}

// checkTarget validates a node that a modification in scope targets.
func (s *Store) checkTarget(scope Handle, node *tree.Node) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidArgument)
	}
	if scope != Root && int(scope) > s.records.Len() {
		return fmt.Errorf("%w: unknown handle %d", ErrInvalidArgument, scope)
	}
	if root := s.ScopeRoot(scope); !tree.Contains(root, node) {
		return fmt.Errorf("%w: %v is not reachable from %v", ErrNodeNotInTree, node, root)
	}
	return checkKind(node)
}

func checkKind(node *tree.Node) error {
	if !node.Kind().Supported() {
		return fmt.Errorf("%w: %v", ErrUnsupportedNodeKind, node.Kind())
	}
	return nil
}

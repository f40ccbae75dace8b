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
// Package splice rewrites C-family source code structurally, while keeping
// every byte it was not asked to change.
//
// A rewrite starts from a parsed tree (see the cfamily package) and records
// modifications against it: removals, replacements, and insertions of new
// children. Nothing is changed until [Rewrite.Rewrite] is called, which
// turns the recorded modifications into a [edit.Change]: a sorted list of
// non-overlapping text edits against the original source. Applying the
// change produces the new text.
//
// # Handles
//
// [Begin] returns the root handle of a rewrite session. Replacing or
// inserting a node returns a nested handle, scoped to the new node; further
// modifications recorded through it apply to that node's copy of the text,
// not to the original tree. This is how a node can be moved and edited at the
// same time:
//
//	rw := splice.Begin(root)
//	moved, _ := rw.Replace(first, second, "swap")
//	_, _ = rw.Replace(second, first, "swap")
//	_, _ = moved.Replace(name, tree.Name("renamed"), "rename")
//	change, err := rw.Rewrite()
//
// A node used as a replacement or insertion is copied by value: its original
// text, with any modifications recorded in its scope applied, is re-indented
// for its new position. Synthetic nodes, built with [tree.New] and friends,
// are printed by the render package in a [format.Style].
//
// # Errors
//
// Recording a modification validates it immediately, and records nothing if
// it fails. Overlapping modifications, such as replacing both a node and one
// of its children, can only be detected by [Rewrite.Rewrite], which fails
// with [ErrOverlappingEdits] rather than guessing which one was meant.
package splice

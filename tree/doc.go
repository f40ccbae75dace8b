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

// Package tree is a read-only syntax tree model.
//
// Trees are made of positioned nodes, which are built by a parser over a
// [source.File] using a [Builder], and synthetic nodes, which are built by
// rewrite clients with [New] and [Leaf] to describe new code. Every node has a
// [Kind] drawn from a closed set; the kind determines the node's [Category],
// which traversals filter on, and its [Layout], which says how its children
// are separated from one another.
package tree

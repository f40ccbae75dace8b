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
package splice

import (
	"github.com/bufbuild/splice/edit"
	"github.com/bufbuild/splice/store"
)

// Errors returned by a [Rewrite]. Use [errors.Is] to check for them.
var (
	// A nil node or replacement, or a call to [Rewrite.Rewrite] on a nested
	// handle.
	ErrInvalidArgument = store.ErrInvalidArgument
	// A node that is not reachable from the root of the handle's scope.
	ErrNodeNotInTree = store.ErrNodeNotInTree
	// A comment, preprocessor directive, or syntax error node.
	ErrUnsupportedNodeKind = store.ErrUnsupportedNodeKind
	// An insertion anchor that is not a child of the insertion parent.
	ErrAnchorNotChildOfParent = store.ErrAnchorNotChildOfParent
	// Modifications that claim the same text.
	ErrOverlappingEdits = edit.ErrOverlappingEdits
)

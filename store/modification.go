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

package store

import (
	"fmt"

	"github.com/bufbuild/splice/tree"
)

// Kind is the kind of a [Modification].
type Kind byte

const (
	Replace      Kind = iota + 1 // Replace or remove Target.
	InsertBefore                 // Insert Payload into Target before Anchor.
	AppendChild                  // Insert Payload after Target's last child.
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Replace:
		return "Replace"
	case InsertBefore:
		return "InsertBefore"
	case AppendChild:
		return "AppendChild"
	default:
		return fmt.Sprintf("store.Kind(%d)", int(k))
	}
}

// Modification is a single requested structural change.
type Modification struct {
	Kind Kind
	// The node being replaced, or the parent of an insertion.
	Target *tree.Node
	// The child an InsertBefore is placed before.
	Anchor *tree.Node
	// The new node. Nil for removals.
	Payload *tree.Node
	// An opaque label attached to the text edits this modification
	// produces.
	Group string
}

// IsRemoval returns whether this modification removes its target.
func (m Modification) IsRemoval() bool {
	return m.Kind == Replace && m.Payload == nil
}

// IsInsertion returns whether this modification adds a child to its target.
func (m Modification) IsInsertion() bool {
	return m.Kind == InsertBefore || m.Kind == AppendChild
}

// String implements [fmt.Stringer].
func (m Modification) String() string {
	switch {
	case m.IsRemoval():
		return fmt.Sprintf("Remove(%v)", m.Target)
	case m.Kind == Replace:
		return fmt.Sprintf("Replace(%v, %v)", m.Target, m.Payload)
	case m.Kind == InsertBefore:
		return fmt.Sprintf("InsertBefore(%v, %v, %v)", m.Target, m.Anchor, m.Payload)
	default:
		return fmt.Sprintf("%v(%v, %v)", m.Kind, m.Target, m.Payload)
	}
}

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

// Package edit defines text edits against a source file, and the [Change]
// that collects them.
package edit

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/bufbuild/splice/internal/interval"
)

// ErrOverlappingEdits is returned when two edits in one change touch the same
// bytes of the original text.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit replaces the bytes [Start, End) of a file with Replace.
//
// An edit with Start == End is an insertion.
type Edit struct {
	Start, End int
	Replace    string

	// The edit group of the modification that produced this edit.
	Group string
}

// Offset returns the offset of the first byte this edit replaces.
func (e Edit) Offset() int {
	return e.Start
}

// Len returns the number of bytes this edit replaces.
func (e Edit) Len() int {
	return e.End - e.Start
}

// IsInsertion returns whether this edit replaces no bytes.
func (e Edit) IsInsertion() bool {
	return e.Start == e.End
}

// String implements [fmt.Stringer].
func (e Edit) String() string {
	return fmt.Sprintf("[%d:%d]%q", e.Start, e.End, e.Replace)
}

// Validate sorts edits by offset and checks that no two of them overlap.
//
// Edits at the same offset keep their relative order, except that
// insertions are placed before a replacement starting there. Edits that only
// touch, including insertions at either end of a replaced range, do not
// overlap; an insertion strictly inside a replaced range does.
func Validate(edits []Edit) error {
	for _, e := range edits {
		if e.Start < 0 || e.Start > e.End {
			return fmt.Errorf("edit: invalid range in %v", e)
		}
	}

	slices.SortStableFunc(edits, func(a, b Edit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		switch {
		case a.IsInsertion() && !b.IsInsertion():
			return -1
		case !a.IsInsertion() && b.IsInsertion():
			return 1
		default:
			return 0
		}
	})

	var replaced interval.Map[int, Edit]
	for _, e := range edits {
		if e.IsInsertion() {
			continue
		}
		if overlap := replaced.Insert(e.Start, e.End-1, e); overlap.Value != nil {
			return fmt.Errorf("%w: %v and %v", ErrOverlappingEdits, *overlap.Value, e)
		}
	}
	for _, e := range edits {
		if !e.IsInsertion() {
			continue
		}
		if in := replaced.Get(e.Start); in.Value != nil && in.Start < e.Start {
			return fmt.Errorf("%w: insertion %v inside %v", ErrOverlappingEdits, e, *in.Value)
		}
	}
	return nil
}

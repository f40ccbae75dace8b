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

package edit

import (
	"fmt"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/bufbuild/splice/source"
)

// Change is a validated set of edits to a single file.
//
// The zero value is not valid; use [NewChange].
type Change struct {
	file  *source.File
	edits []Edit
}

// Group is the set of edits in a [Change] that share an edit group.
type Group struct {
	Name  string
	Edits []Edit
}

// NewChange validates edits and returns a change that applies them to file.
//
// edits is sorted in place; see [Validate].
func NewChange(file *source.File, edits []Edit) (*Change, error) {
	if err := Validate(edits); err != nil {
		return nil, err
	}
	for _, e := range edits {
		if e.End > file.Len() {
			return nil, fmt.Errorf("edit: %v is past the end of %q", e, file.Path())
		}
	}
	return &Change{file: file, edits: edits}, nil
}

// File returns the file this change applies to.
func (c *Change) File() *source.File {
	return c.file
}

// Edits returns the edits in this change, sorted by offset.
func (c *Change) Edits() []Edit {
	return slices.Clone(c.edits)
}

// Len returns the number of edits in this change.
func (c *Change) Len() int {
	return len(c.edits)
}

// Apply returns the text of the file with every edit applied.
//
// Edits are applied from the highest offset to the lowest, so each edit's
// offsets still refer to the original text when it is applied.
func (c *Change) Apply() string {
	text := c.file.Text()
	if len(c.edits) == 0 {
		return text
	}

	buf := []byte(text)
	for _, e := range slices.Backward(c.edits) {
		buf = slices.Replace(buf, e.Start, e.End, []byte(e.Replace)...)
	}
	return string(buf)
}

// Groups returns the edits of this change grouped by edit group, in order of
// each group's first edit.
func (c *Change) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, e := range c.edits {
		i, ok := index[e.Group]
		if !ok {
			i = len(groups)
			index[e.Group] = i
			groups = append(groups, Group{Name: e.Group})
		}
		groups[i].Edits = append(groups[i].Edits, e)
	}
	return groups
}

// Filter returns the change consisting only of the edits in the named
// groups.
func (c *Change) Filter(groups ...string) *Change {
	var edits []Edit
	for _, e := range c.edits {
		if slices.Contains(groups, e.Group) {
			edits = append(edits, e)
		}
	}
	return &Change{file: c.file, edits: edits}
}

// Inverse returns a change to the edited text that restores the original.
func (c *Change) Inverse() *Change {
	edited := source.NewFile(c.file.Path(), c.Apply())
	text := c.file.Text()

	edits := make([]Edit, 0, len(c.edits))
	shift := 0
	for _, e := range c.edits {
		start := e.Start + shift
		edits = append(edits, Edit{
			Start:   start,
			End:     start + len(e.Replace),
			Replace: text[e.Start:e.End],
			Group:   e.Group,
		})
		shift += len(e.Replace) - e.Len()
	}
	return &Change{file: edited, edits: edits}
}

// Diff renders this change as a unified diff with the given number of lines
// of context.
func (c *Change) Diff(context int) (string, error) {
	path := c.file.Path()
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(c.file.Text()),
		B:        difflib.SplitLines(c.Apply()),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	})
	if err != nil {
		return "", fmt.Errorf("edit: diffing %q: %w", path, err)
	}
	return diff, nil
}

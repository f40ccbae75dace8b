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

package generate

import (
	"slices"
	"strings"

	"github.com/bufbuild/splice/edit"
	"github.com/bufbuild/splice/store"
	"github.com/bufbuild/splice/tree"
)

// region emits the edits that sc makes to the child list of the positioned
// node parent: replacements and removals of children, and insertions among
// them.
func (g *generator) region(sc *scope, parent *tree.Node, edits *[]edit.Edit) error {
	children := parent.Children()
	file := parent.File()

	removed := make([]store.Handle, len(children))
	survivors := 0
	for i, child := range children {
		h, ok := sc.replaces[child]
		if !ok {
			survivors++
			continue
		}
		g.reached[h] = true
		m := g.store.At(h)
		if m.IsRemoval() {
			removed[i] = h
			continue
		}

		survivors++
		text, err := g.payload(h)
		if err != nil {
			return err
		}
		*edits = append(*edits, edit.Edit{
			Start:   child.Offset(),
			End:     child.End(),
			Replace: g.emit(text, file.Indentation(child.Offset())),
			Group:   m.Group,
		})
	}

	// An insertion before a removed child goes before the next surviving
	// child instead.
	before := make([][]store.Handle, len(children))
	var after []store.Handle
	for _, h := range sc.inserts[parent] {
		g.reached[h] = true
		m := g.store.At(h)
		if m.Kind == store.AppendChild {
			after = append(after, h)
			continue
		}
		i := m.Anchor.Index()
		before[i] = append(before[i], h)
	}

	for i, h := range removed {
		if h != 0 {
			*edits = append(*edits, g.removal(parent, children, removed, i))
		}
	}

	if len(children) == 0 {
		return g.fill(parent, after, edits)
	}

	var pending []store.Handle
	last := -1
	for i, child := range children {
		pending = append(pending, before[i]...)
		if removed[i] != 0 {
			continue
		}
		for _, h := range pending {
			if err := g.insert(parent, child, h, true, edits); err != nil {
				return err
			}
		}
		pending = pending[:0]
		last = i
	}
	pending = append(pending, after...)
	if len(pending) == 0 {
		return nil
	}

	if last < 0 {
		return g.replant(parent, children, removed, pending, edits)
	}
	for _, h := range pending {
		if err := g.insert(parent, children[last], h, false, edits); err != nil {
			return err
		}
	}
	return nil
}

// insert emits the insertion h next to the sibling, either before it or after
// it.
func (g *generator) insert(parent, sibling *tree.Node, h store.Handle, before bool, edits *[]edit.Edit) error {
	text, err := g.payload(h)
	if err != nil {
		return err
	}
	file := sibling.File()
	text = g.emit(text, file.Indentation(sibling.Offset()))
	sep := g.separator(parent, sibling)

	e := edit.Edit{Group: g.store.At(h).Group}
	if before {
		e.Start, e.End, e.Replace = sibling.Offset(), sibling.Offset(), text+sep
	} else {
		e.Start, e.End, e.Replace = sibling.End(), sibling.End(), sep+text
	}
	*edits = append(*edits, e)
	return nil
}

// separator returns the text that separates a new child of parent from its
// neighbor, an existing child.
func (g *generator) separator(parent, neighbor *tree.Node) string {
	layout := parent.Kind().Layout()
	switch {
	case layout == tree.LayoutList:
		return parent.Kind().Separator()
	case layout.IsLines():
		file := neighbor.File()
		if file.AtLineStart(neighbor.Offset()) {
			return g.nl + file.Indentation(neighbor.Offset())
		}
		return " "
	case layout == tree.LayoutJoined:
		return ""
	default:
		return " "
	}
}

// removal returns the deletion of children[i], along with one of the
// separators next to it.
func (g *generator) removal(parent *tree.Node, children []*tree.Node, removed []store.Handle, i int) edit.Edit {
	child := children[i]
	file := child.File()
	text := file.Text()
	e := edit.Edit{Start: child.Offset(), End: child.End(), Group: g.store.At(removed[i]).Group}

	hasNext := i+1 < len(children)
	survivorAfter := slices.Contains(removed[i+1:], 0)
	survivorBefore := slices.Contains(removed[:i], 0)

	layout := parent.Kind().Layout()
	switch {
	case layout == tree.LayoutJoined:

	case layout == tree.LayoutList:
		switch {
		case hasNext && survivorAfter:
			e.End = children[i+1].Offset()
		case survivorBefore:
			e.Start = children[i-1].End()
		case hasNext:
			e.End = children[i+1].Offset()
		}

	case wholeLine(parent, child):
		e.Start = file.LineStart(child.Offset())
		e.End = afterLine(file, child.End())

	case hasNext:
		for e.End < len(text) && isBlank(text[e.End]) {
			e.End++
		}

	case i > 0 && removed[i-1] == 0:
		floor := children[i-1].End()
		for e.Start > floor && isBlank(text[e.Start-1]) {
			e.Start--
		}

	default:
		// The last child, and nothing before it survives: the blanks before it
		// stay, so the ones after it go.
		for e.End < len(text) && isBlank(text[e.End]) {
			e.End++
		}
	}
	return e
}

// wholeLine returns whether child of a line-oriented parent sits on lines of
// its own, which are deleted along with it.
func wholeLine(parent, child *tree.Node) bool {
	file := child.File()
	return parent.Kind().Layout().IsLines() &&
		file.AtLineStart(child.Offset()) &&
		file.AtLineEnd(child.End()) &&
		afterLine(file, child.End()) >= 0
}

// fill emits insertions into a parent that has no children.
func (g *generator) fill(parent *tree.Node, hs []store.Handle, edits *[]edit.Edit) error {
	file := parent.File()
	kind := parent.Kind()
	layout := kind.Layout()
	open, close := kind.Delimiters()
	body := parent.Text()

	delimited := (layout == tree.LayoutBlock || layout == tree.LayoutList) &&
		len(body) >= len(open)+len(close) &&
		strings.HasPrefix(body, open) && strings.HasSuffix(body, close)

	start, end := parent.End(), parent.End()
	if delimited {
		start, end = parent.Offset()+len(open), parent.End()-len(close)
		if strings.TrimSpace(file.Text()[start:end]) != "" {
			// Keep whatever is in there, such as a comment.
			start = end
		}
	}

	indent := file.Indentation(parent.Offset())
	for i, h := range hs {
		text, err := g.payload(h)
		if err != nil {
			return err
		}

		var replace string
		switch {
		case layout == tree.LayoutBlock && delimited:
			inner := indent + g.unit
			replace = g.nl + inner + g.emit(text, inner)
			if i == len(hs)-1 {
				replace += g.nl + indent
			}
		case layout == tree.LayoutList:
			replace = g.emit(text, indent)
			if i > 0 {
				replace = kind.Separator() + replace
			}
		case layout.IsLines():
			replace = g.emit(text, indent)
			if i > 0 || parent.Len() > 0 {
				replace = g.nl + indent + replace
			}
		default:
			replace = g.emit(text, indent)
			if i > 0 || parent.Len() > 0 {
				replace = " " + replace
			}
		}

		e := edit.Edit{Start: end, End: end, Replace: replace, Group: g.store.At(h).Group}
		if i == 0 {
			e.Start = start
		}
		*edits = append(*edits, e)
	}
	return nil
}

// replant emits insertions into a parent all of whose children are removed.
//
// The new children are inserted where the first child's deletion begins.
func (g *generator) replant(parent *tree.Node, children []*tree.Node, removed []store.Handle, hs []store.Handle, edits *[]edit.Edit) error {
	first := children[0]
	file := first.File()
	at := g.removal(parent, children, removed, 0).Start
	indent := file.Indentation(first.Offset())
	wholeLines := wholeLine(parent, first)

	sep := g.separator(parent, first)
	if parent.Kind().Layout().IsLines() {
		sep = " "
	}
	for i, h := range hs {
		text, err := g.payload(h)
		if err != nil {
			return err
		}
		text = g.emit(text, indent)

		switch {
		case wholeLines:
			text = indent + text + g.nl
		case i < len(hs)-1:
			text += sep
		}
		*edits = append(*edits, edit.Edit{Start: at, End: at, Replace: text, Group: g.store.At(h).Group})
	}
	return nil
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

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

// Package layout is a small document layout engine for printing code.
//
// A document is a sequence of [Tag]s: text, spaces, line breaks, indentation
// and groups. A [Group] is laid out flat if it fits within the configured
// width, and broken otherwise; tags conditioned with [TextIf] only appear in
// one of those orientations, which is how optional line breaks are written.
package layout

import (
	"iter"
	"math"
	"strings"
)

// Render renders a document consisting of the given sequence of tags.
//
// Lines are terminated with "\n" and carry no trailing blanks. Unlike the
// input, the output never ends in a line break unless the document ends with
// text that does.
func Render(options Options, content func(push Sink)) string {
	d := new(doc)
	content(d.add)
	return render(options.withDefaults(), d)
}

// Options specifies configuration for [Render].
type Options struct {
	// The maximum number of columns to render before triggering a break. A
	// value of zero implies an infinite width.
	MaxWidth int

	// The number of columns a tab character counts as. Defaults to 1.
	TabstopWidth int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = math.MaxInt
	}
	if o.TabstopWidth <= 0 {
		o.TabstopWidth = 1
	}
	return o
}

// Tag is a formatting directive passed to a [Sink].
//
// The nil tag is equivalent to Text("").
type Tag func(*doc)

// Sink is a place to append tags. Functions in this package that take a
// func(push Sink) call it in the context of the tag being built; the sink
// must not be used after that call returns.
type Sink func(...Tag)

const (
	Always Cond = iota
	Flat        // Render only in a flat group.
	Broken      // Render only in a broken group.
)

// Cond is a condition for a tag, on whether its enclosing group is flat or
// broken.
type Cond byte

// Text returns a tag that emits its text.
//
// Text consisting only of spaces or only of newlines is treated as
// whitespace: spaces next to a newline are dropped, and of two adjacent runs
// of the same whitespace only the longer is kept.
//
// Other text is emitted exactly, except that every line after the first is
// prefixed with the current indentation.
func Text(text string) Tag {
	return TextIf(Always, text)
}

// TextIf is like [Text], but only emits text if cond holds. The outermost
// level of a document is always broken.
func TextIf(cond Cond, text string) Tag {
	return func(d *doc) {
		if text == "" {
			return
		}

		var kind kind
		switch {
		case strings.Trim(text, " ") == "":
			kind = kindSpace
		case strings.Trim(text, "\n") == "":
			kind = kindBreak
		default:
			kind = kindText
		}
		d.push(tag{kind: kind, text: text, cond: cond}, nil)
	}
}

// Space is a single optional space.
func Space() Tag {
	return Text(" ")
}

// Break is a line break.
func Break() Tag {
	return Text("\n")
}

// Group returns a tag that groups together a collection of child tags.
//
// A group is broken if any of its contents contains a newline, if it
// contains a broken group, if its flat width exceeds maxWidth (zero means no
// limit), or if laying it out flat would overflow [Options].MaxWidth.
func Group(maxWidth int, content func(push Sink)) Tag {
	return GroupIf(Always, maxWidth, content)
}

// GroupIf is like [Group], but only emitted if cond holds.
func GroupIf(cond Cond, maxWidth int, content func(push Sink)) Tag {
	return func(d *doc) {
		if maxWidth <= 0 {
			maxWidth = math.MaxInt
		}
		d.push(tag{kind: kindGroup, limit: maxWidth, cond: cond}, content)
	}
}

// Indent pushes by onto the indentation stack for all of the given tags.
//
// Indentation is printed at the start of each non-empty line.
func Indent(by string, content func(push Sink)) Tag {
	return func(d *doc) {
		if by == "" {
			content(d.add)
			return
		}
		d.push(tag{kind: kindIndent, text: by}, content)
	}
}

const (
	kindText   kind = iota + 1 // Ordinary text.
	kindSpace                  // All spaces.
	kindBreak                  // All newlines.
	kindGroup                  // See [Group].
	kindIndent                 // See [Indent].
)

type kind byte

// doc is a flattened tree of tags: each tag is followed by its children.
type doc []tag

// cursor is a recursive iterator over a [doc].
type cursor iter.Seq2[*tag, cursor]

type tag struct {
	text  string
	limit int // For kindGroup.

	kind   kind
	cond   Cond
	broken bool

	width, column int
	children      int // Number of tags that follow this one in a doc.
}

func (d *doc) add(tags ...Tag) {
	for _, tag := range tags {
		if tag != nil {
			tag(d)
		}
	}
}

func (d *doc) push(t tag, body func(Sink)) {
	*d = append(*d, t)
	if body != nil {
		n := len(*d)
		body(d.add)
		(*d)[n-1].children = len(*d) - n
	}
}

func (d *doc) cursor() cursor {
	return func(yield func(*tag, cursor) bool) {
		d := *d
		for i := 0; i < len(d); i++ {
			tag := &d[i]
			children := d[i+1 : i+tag.children+1]
			i += len(children)

			if !yield(tag, children.cursor()) {
				return
			}
		}
	}
}

func (t *tag) renderIf(cond Cond) bool {
	return t.cond == Always || t.cond == cond
}

// shouldMerge calculates which of two adjacent whitespace tags survive.
//
// Never returns false, false.
func shouldMerge(a, b *tag) (keepA, keepB bool) {
	switch {
	case a.kind == kindSpace && b.kind == kindBreak:
		return false, true
	case a.kind == kindBreak && b.kind == kindSpace:
		return true, false
	case a.kind == b.kind && (a.kind == kindSpace || a.kind == kindBreak):
		bIsWider := len(a.text) < len(b.text)
		return !bIsWider, bIsWider
	}
	return true, true
}

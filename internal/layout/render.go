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

package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

func render(options Options, d *doc) string {
	l := layout{Options: options}
	l.layoutFlat(d.cursor())
	l.prevText = nil
	l.layoutBroken(d.cursor())

	p := printer{}
	p.print(Broken, d.cursor())
	return p.out.String()
}

type layout struct {
	Options

	indent []int
	column int

	prevText *tag
}

// layoutFlat calculates the width of every tag as if it were laid out flat.
func (l *layout) layoutFlat(cursor cursor) (total int, broken bool) {
	for tag, cursor := range cursor {
		switch tag.kind {
		case kindText, kindSpace, kindBreak:
			tag.broken = strings.Contains(tag.text, "\n")
			// Tabs are measured pessimistically, since the column is not
			// known yet.
			tag.width = stringWidth(l.Options, -1, tag.text)
			if !tag.renderIf(Flat) {
				break
			}

			if l.prevText != nil {
				prev, next := shouldMerge(l.prevText, tag)
				if !prev {
					total -= l.prevText.width
					l.prevText = nil
				} else if !next {
					continue
				}
			}
			l.prevText = tag
		}

		n, br := l.layoutFlat(cursor)
		tag.width += n
		tag.broken = tag.broken || br

		if tag.renderIf(Flat) {
			total += tag.width
			broken = broken || tag.broken
		}
	}
	return total, broken
}

// layoutBroken decides which groups break, given that the groups containing
// cursor are broken.
func (l *layout) layoutBroken(cursor cursor) {
	for tag, cursor := range cursor {
		if !tag.renderIf(Broken) {
			continue
		}

		tag.column = l.column

		switch tag.kind {
		case kindText, kindSpace, kindBreak:
			if l.prevText != nil {
				prev, next := shouldMerge(l.prevText, tag)
				if !prev {
					if !l.prevText.broken {
						l.column -= l.prevText.width
					}
					l.prevText = nil
				} else if !next {
					continue
				}
			}

			indent := 0
			if len(l.indent) > 0 {
				indent = l.indent[len(l.indent)-1]
			}
			if l.column == 0 {
				l.column = indent
			}

			last := tag.text
			if nl := strings.LastIndexByte(tag.text, '\n'); nl >= 0 {
				last = tag.text[nl+1:]
				l.column = 0
				if last != "" {
					l.column = indent
				}
			}
			l.column = stringWidth(l.Options, l.column, last)
			l.prevText = tag

		case kindGroup:
			tag.broken = tag.broken ||
				tag.column+tag.width > l.MaxWidth ||
				tag.width > tag.limit

			if !tag.broken {
				l.column += tag.width
			} else {
				l.layoutBroken(cursor)
			}

		case kindIndent:
			prev := 0
			if len(l.indent) > 0 {
				prev = l.indent[len(l.indent)-1]
			}
			l.indent = append(l.indent, stringWidth(l.Options, prev, tag.text))
			l.layoutBroken(cursor)
			l.indent = l.indent[:len(l.indent)-1]
		}
	}
}

// stringWidth calculates the rendered width of text if placed at the given
// column, accounting for tabstops.
//
// If column is -1, all tabstops are given their maximum width.
func stringWidth(options Options, column int, text string) int {
	pessimistic := column < 0
	column = max(0, column)

	for i, next := range strings.Split(text, "\t") {
		if i > 0 {
			tab := options.TabstopWidth
			if !pessimistic {
				tab -= column % options.TabstopWidth
			}
			column += tab
		}
		column += uniseg.StringWidth(next)
	}
	return column
}

// printer converts a laid-out doc into a string.
type printer struct {
	out strings.Builder
	// Buffered whitespace, for merging in write().
	spaces, newlines int
	indent           string
}

// print prints the tags of a cursor whose condition matches the orientation
// of the containing group.
func (p *printer) print(cond Cond, cursor cursor) {
	for tag, cursor := range cursor {
		if !tag.renderIf(cond) {
			continue
		}

		switch tag.kind {
		case kindText:
			p.write(tag.text)

		case kindSpace:
			p.spaces = max(p.spaces, len(tag.text))

		case kindBreak:
			p.newlines = max(p.newlines, len(tag.text))

		case kindGroup:
			inner := Flat
			if tag.broken {
				inner = Broken
			}
			p.print(inner, cursor)

		case kindIndent:
			prev := p.indent
			p.indent += tag.text
			p.print(cond, cursor)
			p.indent = prev
		}
	}
}

// write appends text to the output, flushing buffered whitespace first.
func (p *printer) write(text string) {
	if p.newlines > 0 {
		p.out.WriteString(strings.Repeat("\n", p.newlines))
		p.out.WriteString(p.indent)
	} else {
		p.out.WriteString(strings.Repeat(" ", p.spaces))
	}
	p.spaces, p.newlines = 0, 0

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.out.WriteByte('\n')
			if line != "" {
				p.out.WriteString(p.indent)
			}
		}
		p.out.WriteString(line)
	}
}

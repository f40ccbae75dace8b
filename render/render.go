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

// Package render prints synthetic syntax trees as source text.
//
// Printing is a pure function of a tree's structure: each node is printed
// according to its kind's [tree.Layout], with indentation and line endings
// taken from a [format.Style]. Original source text is never consulted; a
// caller that needs positioned nodes printed supplies their text through a
// [Resolver].
package render

import (
	"fmt"
	"strings"

	"github.com/bufbuild/splice/format"
	"github.com/bufbuild/splice/internal/layout"
	"github.com/bufbuild/splice/tree"
)

// Options configures [Node].
type Options struct {
	// The indentation unit and line terminator. Nil means [format.Default].
	Style format.Style
	// Lists wider than this many columns are broken one item per line.
	// Zero means no limit.
	MaxWidth int
}

// Item is an element of a node's child list as seen by the renderer: either
// a node to print, or text that has already been produced elsewhere.
type Item struct {
	// The node to print. If nil, Text is printed instead.
	Node *tree.Node
	// Text printed verbatim, relative to indentation zero.
	Text string
	// The kind of node that Text was produced from.
	Kind tree.Kind
}

// NodeItem returns an item that prints n.
func NodeItem(n *tree.Node) Item {
	return Item{Node: n, Kind: n.Kind()}
}

// TextItem returns an item that prints text.
func TextItem(kind tree.Kind, text string) Item {
	return Item{Kind: kind, Text: text}
}

// Resolver substitutes the children of synthetic nodes during printing.
type Resolver interface {
	// Items returns the list of things to print as the children of n.
	//
	// Positioned nodes cannot be printed by this package, and must be
	// returned as text items.
	Items(n *tree.Node) []Item
}

// Node prints the synthetic tree rooted at n.
//
// If r is nil, nodes are printed exactly as built, and reaching a positioned
// node panics.
func Node(opts Options, n *tree.Node, r Resolver) string {
	style := opts.Style
	if style == nil {
		style = format.Default
	}

	p := &printer{unit: style.IndentUnit(), resolver: r, cache: make(map[*tree.Node][]Item)}
	out := layout.Render(layout.Options{MaxWidth: opts.MaxWidth}, func(push layout.Sink) {
		p.node(push, n)
	})
	if nl := style.LineTerminator(); nl != "\n" {
		out = strings.ReplaceAll(out, "\n", nl)
	}
	return out
}

type printer struct {
	unit     string
	resolver Resolver
	// Items already asked for, so that the resolver sees each node once.
	cache map[*tree.Node][]Item
}

func (p *printer) items(n *tree.Node) []Item {
	if items, ok := p.cache[n]; ok {
		return items
	}
	if !n.IsSynthetic() {
		panic(fmt.Sprintf("render: positioned node %v reached without a resolver", n))
	}

	var items []Item
	if p.resolver != nil {
		items = p.resolver.Items(n)
	} else {
		items = make([]Item, n.NumChildren())
		for i := range items {
			items[i] = NodeItem(n.Child(i))
		}
	}
	p.cache[n] = items
	return items
}

func (p *printer) item(push layout.Sink, it Item) {
	if it.Node == nil {
		push(layout.Text(strings.ReplaceAll(it.Text, "\r\n", "\n")))
		return
	}
	p.node(push, it.Node)
}

func (p *printer) node(push layout.Sink, n *tree.Node) {
	items := p.items(n)
	kind := n.Kind()

	switch kind.Layout() {
	case tree.LayoutBlock:
		p.block(push, items)
		return
	case tree.LayoutList:
		p.list(push, kind, items)
		return
	}

	if len(items) == 0 {
		push(layout.Text(n.Token()))
		return
	}

	switch kind.Layout() {
	case tree.LayoutJoined:
		for _, it := range items {
			p.item(push, it)
		}

	case tree.LayoutLines:
		for i, it := range items {
			if i > 0 {
				push(layout.Break())
			}
			p.item(push, it)
		}

	default:
		// Leaf nodes with children are printed like spaced ones.
		for i, it := range items {
			if i > 0 && spaced(p.edge(items[i-1], false), p.edge(it, true)) {
				push(layout.Space())
			}
			p.item(push, it)
		}
	}
}

func (p *printer) block(push layout.Sink, items []Item) {
	push(layout.Text("{"))
	if len(items) > 0 {
		push(layout.Indent(p.unit, func(push layout.Sink) {
			for _, it := range items {
				push(layout.Break())
				p.item(push, it)
			}
		}))
		push(layout.Break())
	}
	push(layout.Text("}"))
}

func (p *printer) list(push layout.Sink, kind tree.Kind, items []Item) {
	open, close := kind.Delimiters()
	sep := kind.Separator()

	push(layout.Group(0, func(push layout.Sink) {
		trimmed := strings.TrimRight(open, " ")
		push(layout.Text(trimmed), layout.TextIf(layout.Flat, open[len(trimmed):]))
		if len(items) == 0 {
			push(layout.Text(close))
			return
		}

		push(layout.Indent(p.unit, func(push layout.Sink) {
			push(layout.TextIf(layout.Broken, "\n"))
			for i, it := range items {
				if i > 0 {
					word := strings.TrimRight(sep, " ")
					push(layout.Text(word), layout.TextIf(layout.Flat, sep[len(word):]), layout.TextIf(layout.Broken, "\n"))
				}
				p.item(push, it)
			}
		}))
		if close != "" {
			push(layout.TextIf(layout.Broken, "\n"), layout.Text(close))
		}
	}))
}

// edge returns the first or last byte that an item prints, or 0 if it
// prints nothing.
func (p *printer) edge(it Item, first bool) byte {
	if it.Node == nil {
		text := strings.TrimSpace(it.Text)
		switch {
		case text == "":
			return 0
		case first:
			return text[0]
		default:
			return text[len(text)-1]
		}
	}

	n := it.Node
	open, close := n.Kind().Delimiters()
	switch {
	case first && open != "":
		return open[0]
	case !first && close != "":
		return close[len(close)-1]
	}

	items := p.items(n)
	if len(items) == 0 {
		return p.edge(TextItem(n.Kind(), n.Token()), first)
	}
	if first {
		return p.edge(items[0], true)
	}
	return p.edge(items[len(items)-1], false)
}

// spaced returns whether a space belongs between two adjacent bytes.
func spaced(prev, next byte) bool {
	switch {
	case prev == 0 || next == 0:
		return false
	case strings.IndexByte(";,)]", next) >= 0:
		return false
	case strings.IndexByte("([", prev) >= 0:
		return false
	default:
		return true
	}
}

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

// Package treetest builds positioned trees for tests from a compact
// s-expression notation, without depending on a real parser.
//
// A node is written as
//
//	(Kind "text" children...)
//	(Kind@label "text" children...)
//	(Kind children...)
//
// where Kind is a [tree.Kind] name. A node's text is located in the source by
// searching forward from the end of its previous sibling, or from the start of
// its parent; its children are then searched for inside that text. A node
// with no text covers its children, except for the outermost node, which
// covers the whole source.
package treetest

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/bufbuild/splice/source"
	"github.com/bufbuild/splice/tree"
)

// Fixture is a tree parsed by [Parse].
type Fixture struct {
	Root   *tree.Node
	labels map[string]*tree.Node
}

// Node returns the node labelled with name. Panics if there is no such
// label.
func (f *Fixture) Node(label string) *tree.Node {
	n, ok := f.labels[label]
	if !ok {
		panic(fmt.Sprintf("treetest: no node labelled %q", label))
	}
	return n
}

// Find returns the first node in pre-order with the given kind and text, or
// panics.
func (f *Fixture) Find(kind tree.Kind, text string) *tree.Node {
	for n := range tree.All(f.Root, tree.Everything) {
		if n.Kind() == kind && n.Text() == text {
			return n
		}
	}
	panic(fmt.Sprintf("treetest: no %v with text %q", kind, text))
}

// Parse builds a tree over text from an s-expression. Panics on malformed
// input, so that test fixtures fail loudly.
func Parse(path, text, sexpr string) *Fixture {
	p := &parser{}
	p.s.Init(strings.NewReader(sexpr))
	p.s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanRawStrings | scanner.SkipComments | scanner.ScanComments
	p.s.Error = func(_ *scanner.Scanner, msg string) { panic("treetest: " + msg) }
	p.next()
	top := p.parse()
	if p.tok != scanner.EOF {
		p.fail("trailing input")
	}

	b := &builder{
		b:      tree.NewBuilder(source.NewFile(path, text)),
		text:   text,
		labels: make(map[string]*tree.Node),
	}
	root := b.place(top, 0, len(text), true)
	return &Fixture{Root: root, labels: b.labels}
}

type sexpr struct {
	kind     tree.Kind
	label    string
	text     *string
	children []*sexpr
}

type parser struct {
	s   scanner.Scanner
	tok rune
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) fail(format string, args ...any) {
	panic(fmt.Sprintf("treetest: %v: %s", p.s.Position, fmt.Sprintf(format, args...)))
}

func (p *parser) parse() *sexpr {
	if p.tok != '(' {
		p.fail("expected '(', got %q", p.s.TokenText())
	}
	p.next()
	if p.tok != scanner.Ident {
		p.fail("expected kind, got %q", p.s.TokenText())
	}
	kind, ok := tree.KindByName(p.s.TokenText())
	if !ok {
		p.fail("unknown kind %q", p.s.TokenText())
	}
	node := &sexpr{kind: kind}
	p.next()

	if p.tok == '@' {
		p.next()
		if p.tok != scanner.Ident {
			p.fail("expected label")
		}
		node.label = p.s.TokenText()
		p.next()
	}
	if p.tok == scanner.String || p.tok == scanner.RawString {
		text, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			p.fail("%v", err)
		}
		node.text = &text
		p.next()
	}
	for p.tok == '(' {
		node.children = append(node.children, p.parse())
	}
	if p.tok != ')' {
		p.fail("expected ')', got %q", p.s.TokenText())
	}
	p.next()
	return node
}

type builder struct {
	b      *tree.Builder
	text   string
	labels map[string]*tree.Node
}

// place positions e at or after from, and before limit.
func (b *builder) place(e *sexpr, from, limit int, whole bool) *tree.Node {
	start, end := from, limit
	if e.text != nil {
		idx := strings.Index(b.text[from:limit], *e.text)
		if idx < 0 {
			panic(fmt.Sprintf("treetest: %v text %q not found in %q", e.kind, *e.text, b.text[from:limit]))
		}
		start = from + idx
		end = start + len(*e.text)
	}

	children := make([]*tree.Node, 0, len(e.children))
	cursor := start
	for _, c := range e.children {
		child := b.place(c, cursor, end, false)
		children = append(children, child)
		cursor = child.End()
	}

	if e.text == nil && !whole {
		if len(children) == 0 {
			panic(fmt.Sprintf("treetest: %v has neither text nor children", e.kind))
		}
		start, end = children[0].Offset(), children[len(children)-1].End()
	}

	n := b.b.Node(e.kind, start, end, children...)
	if e.label != "" {
		b.labels[e.label] = n
	}
	return n
}

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
// Package cfamily parses C and C++ source into positioned trees, using
// tree-sitter grammars.
//
// The trees it builds follow the conventions the rest of this module expects:
// the delimiters and separators of lists and blocks belong to the text of the
// list, not to its children, so that a child can be inserted or removed
// without disturbing them.
package cfamily

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/c"
	"github.com/alexaandru/go-sitter-forest/cpp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/bufbuild/splice/source"
	"github.com/bufbuild/splice/tree"
)

// Dialect is a language in the C family.
type Dialect int

const (
	CPP Dialect = iota
	C
)

// String implements [fmt.Stringer].
func (d Dialect) String() string {
	switch d {
	case CPP:
		return "c++"
	case C:
		return "c"
	default:
		return fmt.Sprintf("cfamily.Dialect(%d)", int(d))
	}
}

// DialectOf guesses the dialect of a file from its extension. Files that are
// not obviously C are assumed to be C++.
func DialectOf(path string) Dialect {
	switch filepath.Ext(path) {
	case ".c", ".h":
		return C
	default:
		return CPP
	}
}

var dialects = [...]struct {
	grammar func() unsafe.Pointer
	once    sync.Once
	lang    *sitter.Language
	parsers sync.Pool
}{
	CPP: {grammar: cpp.GetLanguage},
	C:   {grammar: c.GetLanguage},
}

// Parse parses text as a file in the dialect [DialectOf] picks for path.
func Parse(ctx context.Context, path, text string) (*tree.Node, error) {
	return ParseDialect(ctx, DialectOf(path), path, text)
}

// ParseDialect parses text as a file in dialect d.
//
// Syntax errors do not fail parsing; they become [tree.KindError] nodes,
// which [Errors] lists.
func ParseDialect(ctx context.Context, d Dialect, path, text string) (*tree.Node, error) {
	if d < 0 || int(d) >= len(dialects) {
		return nil, fmt.Errorf("cfamily: unknown dialect %v", d)
	}
	dl := &dialects[d]
	dl.once.Do(func() {
		dl.lang = sitter.NewLanguage(dl.grammar())
		dl.parsers.New = func() any {
			p := sitter.NewParser()
			p.SetLanguage(dl.lang)
			return p
		}
	})

	p, ok := dl.parsers.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("cfamily: no %v parser available", d)
	}
	defer dl.parsers.Put(p)

	ts, err := p.ParseString(ctx, nil, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("cfamily: parsing %q: %w", path, err)
	}
	defer ts.Close()

	root := ts.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("cfamily: parsing %q: no root node", path)
	}

	cv := &converter{b: tree.NewBuilder(source.NewFile(path, text))}
	return cv.b.Node(tree.KindFile, 0, len(text), cv.children(root, tree.KindFile)...), nil
}

// Errors returns the syntax error nodes in the tree rooted at root.
func Errors(root *tree.Node) []*tree.Node {
	var errs []*tree.Node
	tree.Walk(root, tree.Errors, func(n *tree.Node) bool {
		errs = append(errs, n)
		return false
	})
	return errs
}

type converter struct {
	b *tree.Builder
}

// node converts a tree-sitter node and its subtree.
func (cv *converter) node(n sitter.Node) *tree.Node {
	kind := kindOf(n)
	start, end := int(n.StartByte()), int(n.EndByte()) //nolint:gosec // Offsets fit in int.
	if kind.Layout() == tree.LayoutLeaf {
		return cv.b.Node(kind, start, end)
	}
	return cv.b.Node(kind, start, end, cv.children(n, kind)...)
}

// children converts the children of a tree-sitter node that becomes a node
// of the given kind.
func (cv *converter) children(n sitter.Node, kind tree.Kind) []*tree.Node {
	var children []*tree.Node
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child.IsNull() || (!child.IsNamed() && child.StartByte() == child.EndByte()) {
			// Tokens the parser made up to recover from an error.
			continue
		}
		if conditionals[child.Type()] {
			children = append(children, cv.splice(child)...)
			continue
		}
		children = append(children, cv.node(child))
	}

	switch n.Type() {
	case "array_declarator":
		children = cv.group(children, "[", "]", tree.KindDimension)
	case "for_statement", "for_range_loop":
		children = cv.group(children, "(", ")", tree.KindCondition)
	case "field_declaration_list":
		children = cv.labels(children)
	}
	return cv.strip(children, kind)
}

// splice flattens a preprocessor conditional into the nodes of its branches.
// Each directive line, such as "#ifndef FOO_H", "#else" or "#endif", becomes
// a directive; the code between them is converted as if the conditional were
// not there.
func (cv *converter) splice(n sitter.Node) []*tree.Node {
	var out []*tree.Node
	line, end := -1, 0 // The directive line being read, if any.
	operands := 0      // How many more children that line takes; -1 for the rest of the line.
	flush := func() {
		if line >= 0 {
			out = append(out, cv.b.Node(tree.KindDirective, line, end))
			line = -1
		}
	}

	for i := range n.ChildCount() {
		child := n.Child(i)
		if child.IsNull() || child.StartByte() == child.EndByte() {
			continue
		}
		start, stop := int(child.StartByte()), int(child.EndByte()) //nolint:gosec // Offsets fit in int.
		newline := !child.IsNamed() && child.Type() == "\n"

		switch {
		case !child.IsNamed() && strings.HasPrefix(child.Type(), "#"):
			flush()
			line, end = start, stop
			switch child.Type() {
			case "#if", "#elif":
				operands = -1
			case "#else", "#endif":
				operands = 0
			default:
				operands = 1
			}
		case line >= 0 && operands != 0 && !newline:
			end = stop
			if operands > 0 {
				operands--
			}
		case newline:
			flush()
		case conditionals[child.Type()]:
			flush()
			out = append(out, cv.splice(child)...)
		default:
			flush()
			out = append(out, cv.node(child))
		}
	}
	flush()
	return out
}

// group wraps the run of children from an open token to the matching close
// token in a node of the given kind, which does not include the delimiters as
// children.
func (cv *converter) group(children []*tree.Node, open, close string, kind tree.Kind) []*tree.Node {
	first := -1
	for i, child := range children {
		if cv.isToken(child, open) {
			first = i
			break
		}
	}
	if first < 0 {
		return children
	}
	last := -1
	for i := len(children) - 1; i > first; i-- {
		if cv.isToken(children[i], close) {
			last = i
			break
		}
	}
	if last < 0 {
		return children
	}

	inner := cv.b.Node(kind, children[first].Offset(), children[last].End(), children[first+1:last]...)
	out := make([]*tree.Node, 0, len(children)-(last-first))
	out = append(out, children[:first]...)
	out = append(out, inner)
	return append(out, children[last+1:]...)
}

// labels merges access specifiers with the colons that follow them.
func (cv *converter) labels(children []*tree.Node) []*tree.Node {
	out := children[:0]
	for i := 0; i < len(children); i++ {
		child := children[i]
		if child.Kind() == tree.KindLabel && i+1 < len(children) && cv.isToken(children[i+1], ":") {
			child = cv.b.Node(tree.KindLabel, child.Offset(), children[i+1].End())
			i++
		}
		out = append(out, child)
	}
	return out
}

// strip removes the delimiters and separators of delimited kinds.
func (cv *converter) strip(children []*tree.Node, kind tree.Kind) []*tree.Node {
	open, close := kind.Delimiters()
	open, close = strings.TrimSpace(open), strings.TrimSpace(close)
	sep := strings.TrimSpace(kind.Separator())

	if open != "" && len(children) > 0 && cv.isToken(children[0], open) {
		children = children[1:]
	}
	if close != "" && len(children) > 0 && cv.isToken(children[len(children)-1], close) {
		children = children[:len(children)-1]
	}
	if sep == "" {
		return children
	}
	out := make([]*tree.Node, 0, len(children))
	for _, child := range children {
		if !cv.isToken(child, sep) {
			out = append(out, child)
		}
	}
	return out
}

func (cv *converter) isToken(n *tree.Node, text string) bool {
	return n.Kind() == tree.KindToken && n.Text() == text
}

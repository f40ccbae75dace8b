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

// Package generate turns a store of structural modifications into text edits
// against the original source.
//
// Generation walks the original tree once per modification scope. Within a
// scope, only nodes that contain a target are visited; untouched text is
// never produced by an edit, so it is preserved byte for byte. The text of a
// replacement or inserted node is computed in the scope of the modification
// that introduced it: synthetic nodes are printed with [render.Node], and
// positioned nodes are copied out of the source by value, with the
// modifications recorded under that scope applied to the copy.
package generate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bufbuild/splice/edit"
	"github.com/bufbuild/splice/format"
	"github.com/bufbuild/splice/render"
	"github.com/bufbuild/splice/source"
	"github.com/bufbuild/splice/store"
	"github.com/bufbuild/splice/tree"
)

// Options configures [Run].
type Options struct {
	// The style for synthesized text. Nil means [format.Default] with the
	// line terminator of the file being edited.
	Style format.Style
	// See [render.Options].
	MaxWidth int
	// Receives debug logs. Nil discards them.
	Logger *slog.Logger
}

// Run generates the change that applies every modification in s to the tree
// rooted at root, which must be the tree s was created for.
//
// Run does not modify s, and returns equal changes when called repeatedly.
// Returns [edit.ErrOverlappingEdits] if two modifications claim the same
// text, including when a modification is hidden by the replacement or
// removal of one of its ancestors.
func Run(root *tree.Node, s *store.Store, opts Options) (*edit.Change, error) {
	if root == nil || root.IsSynthetic() {
		return nil, fmt.Errorf("generate: %w: rewrite root must be a parsed node", store.ErrInvalidArgument)
	}
	if s.Tree() != root {
		return nil, fmt.Errorf("generate: %w: store was created for a different tree", store.ErrInvalidArgument)
	}

	style := opts.Style
	if style == nil {
		style = format.Options{}.ForFile(root.File())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := &generator{
		store:    s,
		nl:       style.LineTerminator(),
		unit:     style.IndentUnit(),
		render:   render.Options{Style: lf{style.IndentUnit()}, MaxWidth: opts.MaxWidth},
		log:      logger,
		scopes:   make(map[store.Handle]*scope),
		payloads: make(map[store.Handle]string),
		reached:  make(map[store.Handle]bool),
	}

	sc, err := g.scope(store.Root)
	if err != nil {
		return nil, err
	}
	edits, err := g.scopeEdits(sc, root)
	if err != nil {
		return nil, err
	}
	if err := g.checkReached(); err != nil {
		return nil, err
	}

	change, err := edit.NewChange(root.File(), edits)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	g.log.Debug("generated change",
		slog.String("file", root.File().Path()),
		slog.Int("modifications", s.Len()),
		slog.Int("edits", change.Len()),
	)
	return change, nil
}

type generator struct {
	store    *store.Store
	nl, unit string
	render   render.Options
	log      *slog.Logger

	scopes   map[store.Handle]*scope
	payloads map[store.Handle]string
	reached  map[store.Handle]bool
}

// scope is the set of modifications recorded under one handle, indexed by
// the nodes they apply to.
type scope struct {
	handle   store.Handle
	replaces map[*tree.Node]store.Handle
	inserts  map[*tree.Node][]store.Handle // By parent, in registration order.

	// Positioned nodes that contain a replaced node or are an insertion
	// parent.
	hot map[*tree.Node]bool
}

func (g *generator) scope(h store.Handle) (*scope, error) {
	if sc, ok := g.scopes[h]; ok {
		return sc, nil
	}

	sc := &scope{
		handle:   h,
		replaces: make(map[*tree.Node]store.Handle),
		inserts:  make(map[*tree.Node][]store.Handle),
		hot:      make(map[*tree.Node]bool),
	}
	children := g.store.Children(h)
	for _, child := range children {
		m := g.store.At(child)
		var hot *tree.Node
		switch m.Kind {
		case store.Replace:
			if prev, ok := sc.replaces[m.Target]; ok {
				return nil, fmt.Errorf("generate: %w: %v and %v target the same node",
					edit.ErrOverlappingEdits, g.store.At(prev), m)
			}
			sc.replaces[m.Target] = child
			hot = m.Target.Parent()
		case store.InsertBefore, store.AppendChild:
			sc.inserts[m.Target] = append(sc.inserts[m.Target], child)
			hot = m.Target
		}
		if m.Target.IsSynthetic() {
			continue
		}
		for n := hot; n != nil && !sc.hot[n]; n = n.Parent() {
			sc.hot[n] = true
		}
	}

	g.log.Debug("indexed scope", slog.Any("handle", h), slog.Int("modifications", len(children)))
	g.scopes[h] = sc
	return sc, nil
}

// scopeEdits returns the edits that sc makes to the text of the positioned
// node root.
func (g *generator) scopeEdits(sc *scope, root *tree.Node) ([]edit.Edit, error) {
	file := root.File()
	if h, ok := sc.replaces[root]; ok {
		g.reached[h] = true
		m := g.store.At(h)
		if m.IsRemoval() {
			return []edit.Edit{{Start: root.Offset(), End: root.End(), Group: m.Group}}, nil
		}
		text, err := g.payload(h)
		if err != nil {
			return nil, err
		}
		return []edit.Edit{{
			Start:   root.Offset(),
			End:     root.End(),
			Replace: g.emit(text, file.Indentation(root.Offset())),
			Group:   m.Group,
		}}, nil
	}

	var edits []edit.Edit
	var err error
	tree.Walk(root, tree.Everything, func(n *tree.Node) bool {
		if err != nil || !sc.hot[n] {
			return false
		}
		if _, replaced := sc.replaces[n]; replaced && n != root {
			// Anything below n is hidden by the replacement, and is
			// reported by checkReached.
			return false
		}
		err = g.region(sc, n, &edits)
		return err == nil
	})
	return edits, err
}

// payload returns the text of the node a replacement or insertion puts into
// the tree, relative to indentation zero and with "\n" line endings.
func (g *generator) payload(h store.Handle) (string, error) {
	if text, ok := g.payloads[h]; ok {
		return text, nil
	}

	sc, err := g.scope(h)
	if err != nil {
		return "", err
	}
	node := g.store.At(h).Payload

	var text string
	inner, replaced := sc.replaces[node]
	switch {
	case !node.IsSynthetic():
		text, err = g.extract(sc, node)
	case replaced:
		// The whole synthetic payload is replaced in its own scope.
		g.reached[inner] = true
		if !g.store.At(inner).IsRemoval() {
			text, err = g.payload(inner)
		}
	default:
		r := &resolver{g: g, sc: sc}
		text = render.Node(g.render, node, r)
		err = r.err
	}
	if err != nil {
		return "", err
	}

	g.payloads[h] = text
	return text, nil
}

// extract copies the text of a positioned node by value, applying the
// modifications in sc to it.
func (g *generator) extract(sc *scope, n *tree.Node) (string, error) {
	edits, err := g.scopeEdits(sc, n)
	if err != nil {
		return "", err
	}
	if err := edit.Validate(edits); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	buf := []byte(n.Text())
	for _, e := range slices.Backward(edits) {
		buf = slices.Replace(buf, e.Start-n.Offset(), e.End-n.Offset(), []byte(e.Replace)...)
	}
	text := strings.ReplaceAll(string(buf), "\r\n", "\n")
	return dedent(text, n.File().Indentation(n.Offset())), nil
}

// checkReached reports any modification whose target was never visited.
func (g *generator) checkReached() error {
	for h, m := range g.store.All() {
		if !g.reached[h] {
			return fmt.Errorf("generate: %w: %v is inside a replaced or removed node",
				edit.ErrOverlappingEdits, m)
		}
	}
	return nil
}

// emit converts payload text for placement at a position whose line is
// indented by indent.
func (g *generator) emit(text, indent string) string {
	return strings.ReplaceAll(reindent(text, indent), "\n", g.nl)
}

// resolver prints synthetic nodes in a scope, substituting the scope's
// modifications and the by-value text of positioned nodes.
type resolver struct {
	g   *generator
	sc  *scope
	err error
}

func (r *resolver) Items(n *tree.Node) []render.Item {
	var items []render.Item
	inserts := r.sc.inserts[n]
	for _, child := range n.Children() {
		for _, h := range inserts {
			if r.g.store.At(h).Anchor == child {
				items = r.append(items, h)
			}
		}

		if h, ok := r.sc.replaces[child]; ok {
			if r.g.store.At(h).IsRemoval() {
				r.g.reached[h] = true
				continue
			}
			items = r.append(items, h)
			continue
		}

		if child.IsSynthetic() {
			items = append(items, render.NodeItem(child))
			continue
		}
		text, err := r.g.extract(r.sc, child)
		if err != nil && r.err == nil {
			r.err = err
		}
		items = append(items, render.TextItem(child.Kind(), text))
	}

	for _, h := range inserts {
		if r.g.store.At(h).Kind == store.AppendChild {
			items = r.append(items, h)
		}
	}
	return items
}

func (r *resolver) append(items []render.Item, h store.Handle) []render.Item {
	r.g.reached[h] = true
	text, err := r.g.payload(h)
	if err != nil && r.err == nil {
		r.err = err
	}
	return append(items, render.TextItem(r.g.store.At(h).Payload.Kind(), text))
}

// lf is a style with the indentation of another style, and "\n" line
// endings. Text is converted to the real line terminator when it is emitted.
type lf struct{ unit string }

func (s lf) IndentUnit() string   { return s.unit }
func (lf) LineTerminator() string { return "\n" }

// reindent prefixes every non-empty line of text after the first with indent.
func reindent(text, indent string) string {
	if indent == "" || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// dedent removes as much of indent as each line of text after the first
// starts with.
func dedent(text, indent string) string {
	if indent == "" || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		k := 0
		for k < len(indent) && k < len(line) && line[k] == indent[k] {
			k++
		}
		lines[i] = line[k:]
	}
	return strings.Join(lines, "\n")
}

// afterLine returns the offset just past the line terminator that ends the
// line containing offset, or -1 if that line is the last one.
func afterLine(file *source.File, offset int) int {
	text := file.Text()
	nl := strings.IndexByte(text[offset:], '\n')
	if nl < 0 {
		return -1
	}
	return offset + nl + 1
}

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
// Package script describes rewrites declaratively, as YAML documents.
//
// A script is a list of operations. Each operation selects its target with a
// [Selector], and may carry a [Payload] describing the node to put into the
// tree: either a synthetic node spelled out field by field, or an existing
// node picked out of the original tree. Operations may nest further
// operations, which apply to the payload of the operation that contains
// them:
//
//	group: swap
//	ops:
//	  - op: replace
//	    target: {kind: Decl, index: 0}
//	    with: {select: {kind: Decl, index: 1}}
//	    ops:
//	      - op: replace
//	        target: {kind: Name, text: a}
//	        with: {kind: Name, text: d}
//	  - op: replace
//	    target: {kind: Decl, index: 1}
//	    with: {select: {kind: Decl, index: 0}}
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/splice"
	"github.com/bufbuild/splice/tree"
)

var (
	// ErrInvalidScript is returned for scripts that are malformed, such as
	// an operation with no target.
	ErrInvalidScript = errors.New("invalid script")
	// ErrNoMatch is returned when a selector matches no node.
	ErrNoMatch = errors.New("no matching node")
)

// Operation names.
const (
	OpRemove  = "remove"
	OpReplace = "replace"
	OpInsert  = "insert"
	OpAppend  = "append"
)

// Script is a list of operations.
type Script struct {
	// The edit group of operations that do not name one.
	Group string `yaml:"group,omitempty"`
	Ops   []Op   `yaml:"ops"`
}

// Op is a single operation.
type Op struct {
	// One of remove, replace, insert, or append.
	Op string `yaml:"op"`
	// The node to remove or replace, or the parent to insert into.
	Target *Selector `yaml:"target"`
	// For insert, the child of Target to insert before.
	Anchor *Selector `yaml:"anchor,omitempty"`
	// The node to put into the tree.
	With  *Payload `yaml:"with,omitempty"`
	Group string   `yaml:"group,omitempty"`
	// Operations on With.
	Ops []Op `yaml:"ops,omitempty"`
}

// Selector picks a node out of a tree.
//
// Candidates are visited in pre-order, and include comments and syntax
// errors. All fields that are set must match.
type Selector struct {
	Kind string `yaml:"kind,omitempty"`
	Text string `yaml:"text,omitempty"`
	// Which match to pick, counting from zero. Negative values count back
	// from the last match.
	Index int `yaml:"index,omitempty"`
	// Restricts candidates to descendants of the selected node.
	Within *Selector `yaml:"within,omitempty"`
}

// Payload describes a node: either a synthetic one, with a kind and either
// text or children, or an existing node of the original tree, with Select.
type Payload struct {
	Kind     string    `yaml:"kind,omitempty"`
	Text     string    `yaml:"text,omitempty"`
	Children []Payload `yaml:"children,omitempty"`
	Select   *Selector `yaml:"select,omitempty"`
}

// Load reads a script from YAML. Unknown fields are an error.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := new(Script)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("script: %w: %w", ErrInvalidScript, err)
	}
	return s, nil
}

// Parse is like [Load], but reads from a string.
func Parse(text string) (*Script, error) {
	return Load(strings.NewReader(text))
}

// Apply records the operations of s through rw, which must be a root handle.
// Payload selectors are resolved against rw's tree; target selectors are
// resolved against the tree of the handle the operation is applied through.
func (s *Script) Apply(rw *splice.Rewrite) error {
	if !rw.IsRoot() {
		return fmt.Errorf("script: %w: scripts apply to a root rewrite", splice.ErrInvalidArgument)
	}
	a := &applier{root: rw.Root(), group: s.Group}
	return a.ops("ops", rw, s.Ops)
}

type applier struct {
	root  *tree.Node
	group string
}

func (a *applier) ops(path string, rw *splice.Rewrite, ops []Op) error {
	for i := range ops {
		if err := a.op(fmt.Sprintf("%s[%d]", path, i), rw, &ops[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) op(path string, rw *splice.Rewrite, op *Op) error {
	if op.Target == nil {
		return fmt.Errorf("script: %s: %w: missing target", path, ErrInvalidScript)
	}
	target, err := op.Target.Find(rw.Root())
	if err != nil {
		return fmt.Errorf("script: %s.target: %w", path, err)
	}
	group := op.Group
	if group == "" {
		group = a.group
	}

	switch op.Op {
	case OpRemove:
		if op.With != nil || op.Anchor != nil || len(op.Ops) > 0 {
			return fmt.Errorf("script: %s: %w: remove takes only a target", path, ErrInvalidScript)
		}
		if err := rw.Remove(target, group); err != nil {
			return fmt.Errorf("script: %s: %w", path, err)
		}
		return nil

	case OpReplace, OpInsert, OpAppend:
	default:
		return fmt.Errorf("script: %s: %w: unknown op %q", path, ErrInvalidScript, op.Op)
	}

	if op.With == nil {
		return fmt.Errorf("script: %s: %w: %s requires with", path, ErrInvalidScript, op.Op)
	}
	payload, err := a.payload(path+".with", op.With)
	if err != nil {
		return err
	}

	var nested *splice.Rewrite
	switch op.Op {
	case OpReplace:
		if op.Anchor != nil {
			return fmt.Errorf("script: %s: %w: replace takes no anchor", path, ErrInvalidScript)
		}
		nested, err = rw.Replace(target, payload, group)
	case OpInsert:
		if op.Anchor == nil {
			return fmt.Errorf("script: %s: %w: insert requires an anchor, use append instead", path, ErrInvalidScript)
		}
		anchor, ferr := op.Anchor.Find(target)
		if ferr != nil {
			return fmt.Errorf("script: %s.anchor: %w", path, ferr)
		}
		nested, err = rw.InsertBefore(target, anchor, payload, group)
	case OpAppend:
		if op.Anchor != nil {
			return fmt.Errorf("script: %s: %w: append takes no anchor", path, ErrInvalidScript)
		}
		nested, err = rw.InsertBefore(target, nil, payload, group)
	}
	if err != nil {
		return fmt.Errorf("script: %s: %w", path, err)
	}
	return a.ops(path+".ops", nested, op.Ops)
}

// payload builds the node p describes.
func (a *applier) payload(path string, p *Payload) (*tree.Node, error) {
	if p.Select != nil {
		if p.Kind != "" || p.Text != "" || len(p.Children) > 0 {
			return nil, fmt.Errorf("script: %s: %w: select excludes other fields", path, ErrInvalidScript)
		}
		n, err := p.Select.Find(a.root)
		if err != nil {
			return nil, fmt.Errorf("script: %s.select: %w", path, err)
		}
		return n, nil
	}

	kind, ok := kindByName(p.Kind)
	if !ok {
		return nil, fmt.Errorf("script: %s: %w: unknown kind %q", path, ErrInvalidScript, p.Kind)
	}
	if len(p.Children) == 0 {
		return tree.Leaf(kind, p.Text), nil
	}
	if p.Text != "" {
		return nil, fmt.Errorf("script: %s: %w: a node has either text or children", path, ErrInvalidScript)
	}

	children := make([]*tree.Node, len(p.Children))
	for i := range p.Children {
		child, err := a.payload(fmt.Sprintf("%s.children[%d]", path, i), &p.Children[i])
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return tree.New(kind, children...), nil
}

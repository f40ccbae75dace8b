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
package splice

import (
	"fmt"
	"log/slog"

	"github.com/bufbuild/splice/edit"
	"github.com/bufbuild/splice/format"
	"github.com/bufbuild/splice/generate"
	"github.com/bufbuild/splice/store"
	"github.com/bufbuild/splice/tree"
)

// Rewrite is a handle for recording modifications.
//
// The handle returned by [Begin] modifies the original tree. Handles returned
// by [Rewrite.Replace] and [Rewrite.InsertBefore] modify the node that was put
// into the tree by that call. All handles of one session share its
// modifications; none of them are safe for concurrent use.
type Rewrite struct {
	session *session
	handle  store.Handle
}

type session struct {
	root  *tree.Node
	store *store.Store
	opts  generate.Options
}

// Option configures a rewrite session.
type Option func(*generate.Options)

// WithStyle sets the indentation and line terminator for new text. By
// default, two spaces and the line terminator of the file being edited are
// used.
func WithStyle(style format.Style) Option {
	return func(o *generate.Options) { o.Style = style }
}

// WithLogger sets the logger that receives debug logs from generation.
func WithLogger(logger *slog.Logger) Option {
	return func(o *generate.Options) { o.Logger = logger }
}

// WithMaxWidth sets the width beyond which lists in new text are broken one
// item per line. Zero, the default, means no limit.
func WithMaxWidth(width int) Option {
	return func(o *generate.Options) { o.MaxWidth = width }
}

// Begin starts a rewrite session for the tree rooted at root, and returns its
// root handle.
func Begin(root *tree.Node, opts ...Option) *Rewrite {
	s := &session{root: root, store: store.New(root)}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return &Rewrite{session: s, handle: store.Root}
}

// Root returns the node this handle's modifications apply to.
func (r *Rewrite) Root() *tree.Node {
	return r.session.store.ScopeRoot(r.handle)
}

// IsRoot returns whether this is the root handle of its session.
func (r *Rewrite) IsRoot() bool {
	return r.handle == store.Root
}

// Remove records the removal of node, along with a separator next to it.
func (r *Rewrite) Remove(node *tree.Node, group string) error {
	return r.session.store.Remove(r.handle, node, group)
}

// Replace records the replacement of node with replacement, and returns a
// handle for modifying replacement.
//
// replacement may be synthetic or positioned; a positioned replacement is
// copied by value, so it may be the target of other modifications as well.
func (r *Rewrite) Replace(node, replacement *tree.Node, group string) (*Rewrite, error) {
	h, err := r.session.store.Replace(r.handle, node, replacement, group)
	if err != nil {
		return nil, err
	}
	return &Rewrite{session: r.session, handle: h}, nil
}

// InsertBefore records the insertion of node as a child of parent before
// anchor, or after parent's last child if anchor is nil. It returns a handle
// for modifying node.
//
// Insertions at the same place appear in the order they were recorded.
func (r *Rewrite) InsertBefore(parent, anchor, node *tree.Node, group string) (*Rewrite, error) {
	h, err := r.session.store.InsertBefore(r.handle, parent, anchor, node, group)
	if err != nil {
		return nil, err
	}
	return &Rewrite{session: r.session, handle: h}, nil
}

// Rewrite generates the change that applies every modification recorded in
// this session. It may only be called on the root handle.
//
// Rewrite may be called more than once; it does not consume the recorded
// modifications.
func (r *Rewrite) Rewrite() (*edit.Change, error) {
	if !r.IsRoot() {
		return nil, fmt.Errorf("splice: %w: root rewrite object required", ErrInvalidArgument)
	}
	return generate.Run(r.session.root, r.session.store, r.session.opts)
}

// Len returns the number of modifications recorded in this session.
func (r *Rewrite) Len() int {
	return r.session.store.Len()
}

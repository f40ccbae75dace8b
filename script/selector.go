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
package script

import (
	"fmt"
	"strings"

	"github.com/bufbuild/splice/internal/cases"
	"github.com/bufbuild/splice/tree"
)

// kindByName looks up a kind, accepting snake_case and camelCase spellings
// such as "ctor_inits" as well as "CtorInits".
func kindByName(name string) (tree.Kind, bool) {
	return tree.KindByName(cases.Pascal(name))
}

// Find returns the node in the tree rooted at root that s selects.
func (s *Selector) Find(root *tree.Node) (*tree.Node, error) {
	var kind tree.Kind
	if s.Kind != "" {
		k, ok := kindByName(s.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidScript, s.Kind)
		}
		kind = k
	}

	scope := root
	if s.Within != nil {
		within, err := s.Within.Find(root)
		if err != nil {
			return nil, fmt.Errorf("within: %w", err)
		}
		scope = within
	}

	var matches []*tree.Node
	for n := range tree.All(scope, tree.Everything) {
		if n == scope && s.Within != nil {
			continue
		}
		if (s.Kind == "" || n.Kind() == kind) && (s.Text == "" || n.Text() == s.Text) {
			matches = append(matches, n)
		}
	}

	i := s.Index
	if i < 0 {
		i += len(matches)
	}
	if i < 0 || i >= len(matches) {
		return nil, fmt.Errorf("%w: %v (%d candidates)", ErrNoMatch, s, len(matches))
	}
	return matches[i], nil
}

// String implements [fmt.Stringer].
func (s *Selector) String() string {
	var b strings.Builder
	b.WriteString("{")
	var fields []string
	if s.Kind != "" {
		fields = append(fields, "kind: "+s.Kind)
	}
	if s.Text != "" {
		fields = append(fields, fmt.Sprintf("text: %q", s.Text))
	}
	if s.Index != 0 {
		fields = append(fields, fmt.Sprintf("index: %d", s.Index))
	}
	if s.Within != nil {
		fields = append(fields, "within: "+s.Within.String())
	}
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString("}")
	return b.String()
}

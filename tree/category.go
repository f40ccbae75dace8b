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

package tree

import "strings"

// Category is a set of broad node categories. It is used as the interest set
// of a traversal: see [Walk].
type Category uint16

const (
	Decls  Category = 1 << iota // Declarations and definitions.
	Stmts                       // Statements.
	Exprs                       // Expressions and literals.
	Names                       // Identifiers.
	Types                       // Type specifiers.
	Lists                       // Delimited child lists: members, parameters, arguments.
	Tokens                      // Keywords and punctuation.
	Misc                        // Constructs with no more specific category.
	Trivia                      // Comments and directives.
	Errors                      // Parser error recovery nodes.

	// Syntax is every category that may be rewritten.
	Syntax = Decls | Stmts | Exprs | Names | Types | Lists | Tokens | Misc
	// Everything is every category.
	Everything = Syntax | Trivia | Errors
)

// Has returns whether c includes any category in other.
func (c Category) Has(other Category) bool {
	return c&other != 0
}

// String implements [fmt.Stringer].
func (c Category) String() string {
	if c == 0 {
		return "none"
	}

	names := [...]string{
		"Decls", "Stmts", "Exprs", "Names", "Types",
		"Lists", "Tokens", "Misc", "Trivia", "Errors",
	}
	var parts []string
	for i, name := range names {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

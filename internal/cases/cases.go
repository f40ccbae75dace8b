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
// Package cases converts identifiers between case styles, so that names
// written by users, such as "ctor_inits", can be matched against names like
// "CtorInits".
package cases

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pascal converts str to PascalCase.
func Pascal(str string) string {
	var buf strings.Builder
	for word := range Words(str) {
		for i, r := range word {
			if i == 0 {
				buf.WriteRune(unicode.ToUpper(r))
			} else {
				buf.WriteRune(unicode.ToLower(r))
			}
		}
	}
	return buf.String()
}

// Snake converts str to snake_case.
func Snake(str string) string {
	var buf strings.Builder
	for word := range Words(str) {
		if buf.Len() > 0 {
			buf.WriteByte('_')
		}
		buf.WriteString(strings.ToLower(word))
	}
	return buf.String()
}

// Words splits str into words. Words are separated by underscores, and a new
// word starts at an uppercase letter that is followed by a lowercase one, or
// that ends str after a lowercase one.
func Words(str string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for part := range strings.SplitSeq(str, "_") {
			start := 0
			var prev rune
			for i, r := range part {
				next, _ := utf8.DecodeRuneInString(part[i+utf8.RuneLen(r):])
				last := i+utf8.RuneLen(r) == len(part)
				split := i > start && unicode.IsUpper(r) &&
					(unicode.IsLower(next) || (last && unicode.IsLower(prev)))
				if split {
					if !yield(part[start:i]) {
						return
					}
					start = i
				}
				prev = r
			}
			if start < len(part) && !yield(part[start:]) {
				return
			}
		}
	}
}

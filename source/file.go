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

package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// File is a source code file that a syntax tree was parsed from.
//
// It contains additional book-keeping information for resolving offsets into
// lines. Files are immutable once created, and may be shared between
// goroutines.
//
// A nil *File behaves like an empty file with the path name "".
type File struct {
	path, text string

	once sync.Once
	// A prefix sum of the line lengths of text. Given a byte offset, it is possible
	// to recover which line that offset is on by performing a binary search on this
	// list.
	//
	// Alternatively, this slice can be interpreted as the index after each \n in the
	// original file.
	lineIndex []int
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's filesystem path.
//
// It doesn't need to be a real path; it is only used for display.
func (f *File) Path() string {
	if f == nil {
		return ""
	}

	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}

	return f.text
}

// Len returns the length of this file, in bytes.
func (f *File) Len() int {
	return len(f.Text())
}

// Span is a shorthand for creating a new Span.
//
// Panics if the range is not within the file.
func (f *File) Span(start, end int) Span {
	if f == nil {
		return Span{}
	}
	if start < 0 || start > end || end > len(f.text) {
		panic(fmt.Sprintf("source: span [%d:%d] out of range for %q (len %d)", start, end, f.path, len(f.text)))
	}

	return Span{f, start, end}
}

// LineStart returns the offset of the first byte of the line containing
// offset.
func (f *File) LineStart(offset int) int {
	return strings.LastIndexByte(f.Text()[:offset], '\n') + 1
}

// LineEnd returns the offset of the newline that terminates the line
// containing offset, or the length of the file if that line is the last one.
//
// If the line is terminated by "\r\n", the offset of the '\r' is returned.
func (f *File) LineEnd(offset int) int {
	text := f.Text()
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		return len(text)
	}
	end += offset
	if end > 0 && text[end-1] == '\r' {
		end--
	}
	return end
}

// Indentation calculates the indentation at some offset.
//
// Indentation is defined as the run of spaces and tabs that begins the line
// containing offset.
func (f *File) Indentation(offset int) string {
	nl := f.LineStart(offset)
	text := f.Text()
	end := nl
	for end < len(text) && isBlank(text[end]) {
		end++
	}
	return text[nl:end]
}

// AtLineStart returns whether only blanks precede offset on its line.
func (f *File) AtLineStart(offset int) bool {
	text := f.Text()
	for i := offset - 1; i >= 0; i-- {
		switch {
		case text[i] == '\n':
			return true
		case !isBlank(text[i]):
			return false
		}
	}
	return true
}

// AtLineEnd returns whether only blanks follow offset on its line.
func (f *File) AtLineEnd(offset int) bool {
	text := f.Text()
	for i := offset; i < len(text); i++ {
		switch {
		case text[i] == '\n', text[i] == '\r':
			return true
		case !isBlank(text[i]):
			return false
		}
	}
	return true
}

// LineTerminator returns the line terminator used by the first line of
// this file, defaulting to "\n" when the file has a single line.
func (f *File) LineTerminator() string {
	text := f.Text()
	nl := strings.IndexByte(text, '\n')
	if nl > 0 && text[nl-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Location returns the 1-indexed line and rune column for a byte offset.
//
// This operation is O(log n).
func (f *File) Location(offset int) Location {
	if f == nil || offset == 0 {
		return Location{Offset: offset, Line: 1, Column: 1}
	}

	lines := f.lines()

	// Find the smallest index in lines such that lines[line] <= offset.
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}

	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(f.text[lines[line]:offset]) + 1,
	}
}

func (f *File) lines() []int {
	f.once.Do(func() {
		f.lineIndex = append(f.lineIndex, 0)
		for i := range len(f.text) {
			if f.text[i] == '\n' {
				f.lineIndex = append(f.lineIndex, i+1)
			}
		}
	})
	return f.lineIndex
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

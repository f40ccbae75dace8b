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
// Package arena provides append-only storage for records addressed by small
// integer pointers.
//
// Records never move once allocated, so a [Pointer] stays valid, and a Go
// pointer obtained from [Arena.At] keeps aliasing the stored record, for the
// life of the arena.
package arena

import (
	"fmt"
	"iter"
	"math/bits"
)

// firstShift is the log2 of the capacity of an arena's first segment.
const firstShift = 4

// Pointer names a record in an [Arena].
//
// A pointer is one plus the number of records allocated before it, so
// pointers from the same arena compare in allocation order. The zero value
// is nil.
type Pointer[T any] uint32

// Nil returns whether p is nil.
func (p Pointer[T]) Nil() bool {
	return p == 0
}

// Arena stores records of type T in segments whose capacities double, starting
// at 1<<firstShift. Segments are never reallocated, which is what keeps
// records in place.
//
// A zero Arena is empty and ready to use.
type Arena[T any] struct {
	segments [][]T
	len      int
}

// New appends value to the arena and returns its pointer.
func (a *Arena[T]) New(value T) Pointer[T] {
	seg, _ := locate(a.len)
	if seg == len(a.segments) {
		a.segments = append(a.segments, make([]T, 0, 1<<(firstShift+seg)))
	}
	a.segments[seg] = append(a.segments[seg], value)
	a.len++
	return Pointer[T](a.len)
}

// At returns the record p points to.
//
// Panics if p is nil or was not allocated by this arena.
func (a *Arena[T]) At(p Pointer[T]) *T {
	if p.Nil() || int(p) > a.len {
		panic(fmt.Sprintf("arena: invalid pointer %d into arena of length %d", p, a.len))
	}
	seg, idx := locate(int(p) - 1)
	return &a.segments[seg][idx]
}

// Len returns the number of records in the arena.
func (a *Arena[T]) Len() int {
	return a.len
}

// All returns an iterator over the records in allocation order.
func (a *Arena[T]) All() iter.Seq2[Pointer[T], *T] {
	return func(yield func(Pointer[T], *T) bool) {
		var p Pointer[T]
		for _, seg := range a.segments {
			for i := range seg {
				p++
				if !yield(p, &seg[i]) {
					return
				}
			}
		}
	}
}

// locate maps the index of a record to its segment and its index within that
// segment.
//
// Segment n begins at index (1<<firstShift)*(2^n - 1), so adding 1<<firstShift
// to an index yields a number whose bit length identifies the segment.
func locate(idx int) (seg, off int) {
	biased := uint(idx) + 1<<firstShift
	seg = bits.Len(biased) - firstShift - 1
	return seg, int(biased) - 1<<(firstShift+seg)
}

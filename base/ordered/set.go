// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ordered

import (
	"iter"
	"slices"
)

// Set is a set of unique elements remembering the order of insertion.
type Set[T comparable] struct {
	elts []T
	in   map[T]bool
}

// NewSet returns a set containing the given elements.
func NewSet[T comparable](elts ...T) *Set[T] {
	s := &Set[T]{in: make(map[T]bool)}
	for _, elt := range elts {
		s.Add(elt)
	}
	return s
}

// Add an element to the set. Adding an element already present is a no-op.
func (s *Set[T]) Add(elt T) {
	if s.in[elt] {
		return
	}
	s.in[elt] = true
	s.elts = append(s.elts, elt)
}

// Update adds all the elements of another set.
func (s *Set[T]) Update(other *Set[T]) {
	if other == nil {
		return
	}
	for _, elt := range other.elts {
		s.Add(elt)
	}
}

// Contains returns true if the element is in the set.
func (s *Set[T]) Contains(elt T) bool {
	return s.in[elt]
}

// All iterates over the elements in insertion order.
func (s *Set[T]) All() iter.Seq[T] {
	return slices.Values(s.elts)
}

// Slice returns the elements in insertion order.
func (s *Set[T]) Slice() []T {
	return slices.Clone(s.elts)
}

// Size returns the number of elements.
func (s *Set[T]) Size() int {
	return len(s.elts)
}

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

// Package ordered provides containers preserving insertion order.
package ordered

import "iter"

// Map is an ordered map. Iter iterates over the map
// using the same order in which the keys have been added.
type Map[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a key,value pair.
// Storing an existing key replaces its value but keeps its position.
func (m *Map[K, V]) Store(k K, v V) {
	if _, in := m.m[k]; !in {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Delete removes a key from the map.
func (m *Map[K, V]) Delete(k K) {
	if _, in := m.m[k]; !in {
		return
	}
	delete(m.m, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Iter returns an iterator over the key,value pairs in insertion order.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				return
			}
		}
	}
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}

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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates names not used yet.
type Unique struct {
	taken map[string]bool
	next  map[string]int
}

// New name generator.
func New() *Unique {
	return &Unique{
		taken: make(map[string]bool),
		next:  make(map[string]int),
	}
}

// Register marks a name as used.
// It returns false if the name was already used.
func (n *Unique) Register(name string) bool {
	if n.taken[name] {
		return false
	}
	n.taken[name] = true
	return true
}

// Release makes a name available again.
func (n *Unique) Release(name string) {
	delete(n.taken, name)
}

// Taken returns true if a name is used.
func (n *Unique) Taken(name string) bool {
	return n.taken[name]
}

// Name registers and returns a unique name given a root.
// The root is returned if available, else a numeric suffix is appended.
func (n *Unique) Name(root string) string {
	name := root
	for n.taken[name] {
		n.next[root]++
		name = fmt.Sprintf("%s%d", root, n.next[root])
	}
	n.taken[name] = true
	return name
}

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

// Package operand defines the capability shared by every value of an expression tree.
package operand

import (
	"fmt"
	"slices"

	"github.com/gx-org/spectral/base/ordered"
	"github.com/pkg/errors"
)

// Kind of operand.
type Kind int

const (
	// ScalarKind is a constant number.
	ScalarKind Kind = iota
	// ArrayKind is an array of values on the grid of a domain.
	ArrayKind
	// FieldKind is a distributed field.
	FieldKind
	// FutureKind is a deferred operation over other operands.
	FutureKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case ArrayKind:
		return "array"
	case FieldKind:
		return "field"
	case FutureKind:
		return "future"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Comparison is the result of comparing two operands.
type Comparison int

const (
	// Incomparable means that the receiver does not know how to compare itself
	// with the other operand. The comparison is then delegated to the other operand.
	Incomparable Comparison = iota
	// Same means that both operands are structurally equal.
	Same
	// Different means that the operands are comparable but not equal.
	Different
)

// Operand is a value participating in an expression tree:
// either a leaf holding data or a deferred operation.
//
// Operands are stored as keys of the sets returned by Atoms.
// The dynamic type of an implementation must be comparable:
// a pointer or a struct without slice, map or function fields.
type Operand interface {
	// Kind of the operand.
	Kind() Kind

	// Atoms returns the leaves of the given kinds reachable from the operand.
	// All the leaves are returned if no kind is specified.
	Atoms(kinds ...Kind) *ordered.Set[Operand]

	// Has returns true if the tree contains any of the targets.
	// A target is either an Operand or an operator identity.
	Has(targets ...any) bool

	// Replace returns a tree in which old has been substituted by new.
	// old and new are both Operands or both operator identities.
	Replace(old, new any) (Operand, error)

	// Compare the operand with another one.
	Compare(other Operand) Comparison

	// String representation of the operand.
	String() string
}

// Equal returns true if two operands are structurally equal.
// If a cannot compare itself to b, the comparison is delegated to b.
// If neither can, the operands are equal only if they are identical.
func Equal(a, b Operand) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	cmp := a.Compare(b)
	if cmp == Incomparable {
		cmp = b.Compare(a)
	}
	switch cmp {
	case Same:
		return true
	case Different:
		return false
	}
	return a == b
}

// NotEqual returns true if two operands are not structurally equal.
func NotEqual(a, b Operand) bool {
	return !Equal(a, b)
}

// EqualSlices returns true if both slices have pairwise equal operands.
func EqualSlices(x, y []Operand) bool {
	return slices.EqualFunc(x, y, Equal)
}

// MatchKind returns true if kind is in kinds or if kinds is empty.
func MatchKind(kind Kind, kinds []Kind) bool {
	return len(kinds) == 0 || slices.Contains(kinds, kind)
}

// LeafAtoms returns the atoms of a leaf: the leaf itself if its kind matches.
func LeafAtoms(leaf Operand, kinds []Kind) *ordered.Set[Operand] {
	atoms := ordered.NewSet[Operand]()
	if MatchKind(leaf.Kind(), kinds) {
		atoms.Add(leaf)
	}
	return atoms
}

// LeafHas returns true if a leaf is equal to one of the targets.
func LeafHas(leaf Operand, targets []any) bool {
	for _, target := range targets {
		op, ok := target.(Operand)
		if ok && Equal(leaf, op) {
			return true
		}
	}
	return false
}

// LeafReplace returns new if the leaf is equal to old, the leaf otherwise.
func LeafReplace(leaf Operand, old, new any) (Operand, error) {
	oldOp, ok := old.(Operand)
	if !ok || !Equal(leaf, oldOp) {
		return leaf, nil
	}
	newOp, ok := new.(Operand)
	if !ok {
		return nil, errors.Errorf("cannot replace %s with %T: not an operand", leaf, new)
	}
	return newOp, nil
}

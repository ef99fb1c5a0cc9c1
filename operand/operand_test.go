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

package operand_test

import (
	"reflect"
	"testing"

	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/operand"
)

// num is compared by value.
type num float64

func (num) Kind() operand.Kind { return operand.ScalarKind }

func (n num) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(n, kinds)
}

func (n num) Has(targets ...any) bool { return operand.LeafHas(n, targets) }

func (n num) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(n, old, new)
}

func (n num) Compare(other operand.Operand) operand.Comparison {
	o, ok := other.(num)
	if !ok {
		return operand.Incomparable
	}
	if o == n {
		return operand.Same
	}
	return operand.Different
}

func (num) String() string { return "num" }

// opaque does not know how to compare itself.
type opaque struct {
	name string
}

func (*opaque) Kind() operand.Kind { return operand.FieldKind }

func (o *opaque) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(o, kinds)
}

func (o *opaque) Has(targets ...any) bool { return operand.LeafHas(o, targets) }

func (o *opaque) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(o, old, new)
}

func (*opaque) Compare(operand.Operand) operand.Comparison { return operand.Incomparable }

func (o *opaque) String() string { return o.name }

// greedy claims to be equal to any num.
type greedy struct{}

func (greedy) Kind() operand.Kind { return operand.ScalarKind }

func (g greedy) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(g, kinds)
}

func (g greedy) Has(targets ...any) bool { return operand.LeafHas(g, targets) }

func (g greedy) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(g, old, new)
}

func (greedy) Compare(other operand.Operand) operand.Comparison {
	if _, ok := other.(num); ok {
		return operand.Same
	}
	return operand.Incomparable
}

func (greedy) String() string { return "greedy" }

func TestEqual(t *testing.T) {
	x, y := &opaque{name: "x"}, &opaque{name: "y"}
	tests := []struct {
		a, b operand.Operand
		want bool
	}{
		{a: num(1), b: num(1), want: true},
		{a: num(1), b: num(2), want: false},
		{a: x, b: x, want: true},
		{a: x, b: y, want: false},
		{a: x, b: num(1), want: false},
		// The comparison is delegated to greedy.
		{a: num(1), b: greedy{}, want: true},
		{a: greedy{}, b: num(3), want: true},
		{a: nil, b: nil, want: true},
		{a: x, b: nil, want: false},
	}
	for i, test := range tests {
		if got := operand.Equal(test.a, test.b); got != test.want {
			t.Errorf("test %d: Equal(%v, %v) = %t but want %t", i, test.a, test.b, got, test.want)
		}
		if got := operand.NotEqual(test.a, test.b); got == test.want {
			t.Errorf("test %d: NotEqual(%v, %v) = %t but want %t", i, test.a, test.b, got, !test.want)
		}
	}
	if !operand.EqualSlices([]operand.Operand{x, num(2)}, []operand.Operand{x, num(2)}) {
		t.Errorf("EqualSlices returned false for equal slices")
	}
	if operand.EqualSlices([]operand.Operand{x}, []operand.Operand{x, x}) {
		t.Errorf("EqualSlices returned true for slices of different lengths")
	}
}

func TestLeaf(t *testing.T) {
	x, y := &opaque{name: "x"}, &opaque{name: "y"}
	if got := x.Atoms().Size(); got != 1 {
		t.Errorf("got %d atoms but want 1", got)
	}
	if got := x.Atoms(operand.ScalarKind).Size(); got != 0 {
		t.Errorf("got %d scalar atoms but want 0", got)
	}
	if !x.Has(y, x) || x.Has(y) || x.Has("x") {
		t.Errorf("incorrect Has results for %s", x)
	}
	got, err := x.Replace(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if got != operand.Operand(y) {
		t.Errorf("got %v but want %v", got, y)
	}
	if got, _ := num(1).Replace(x, y); got != operand.Operand(num(1)) {
		t.Errorf("got %v but want %v", got, num(1))
	}
	if _, err := x.Replace(x, 42); err == nil {
		t.Errorf("expected an error when replacing an operand with a non-operand")
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[operand.Kind]string{
		operand.ScalarKind: "scalar",
		operand.ArrayKind:  "array",
		operand.FieldKind:  "field",
		operand.FutureKind: "future",
		operand.Kind(9):    "Kind(9)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("got %q but want %q", got, want)
		}
	}
}

func TestOperandTypesComparable(t *testing.T) {
	for _, op := range []operand.Operand{
		num(1),
		field.Scalar{Value: 1},
		(*field.Field)(nil),
		(*field.Array)(nil),
		(*future.Node)(nil),
	} {
		if typ := reflect.TypeOf(op); !typ.Comparable() {
			t.Errorf("operand type %s is not comparable", typ)
		}
	}
	atoms := ordered.NewSet[operand.Operand](num(1), field.Scalar{Value: 2}, num(1))
	if got := atoms.Size(); got != 2 {
		t.Errorf("got %d atoms but want 2", got)
	}
}

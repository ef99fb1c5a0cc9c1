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

package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

func newDomain(t *testing.T) *domain.Domain {
	t.Helper()
	dist := domain.NewDistributor([]string{"x"})
	dom, err := domain.New(dist, domain.Bases{domain.NewFourier("x", 4)})
	if err != nil {
		t.Fatal(err)
	}
	return dom
}

func TestFieldLayouts(t *testing.T) {
	dom := newDomain(t)
	dist := dom.Dist()
	f, err := field.New(dom, field.WithName("u"))
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsLayout(dist.CoeffLayout()) {
		t.Errorf("got layout %s but want %s", f.Layout(), dist.CoeffLayout())
	}
	if err := f.SetValues(dist.CoeffLayout(), []float64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := f.RequireScales(1.5); err != nil {
		t.Fatal(err)
	}
	if err := f.RequireGrid(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f.Shape(), []int{6}); diff != "" {
		t.Errorf("unexpected grid shape:\n%s", diff)
	}
	if diff := cmp.Diff(f.Values(), []float64{1, 2, 3, 4, 0, 0}); diff != "" {
		t.Errorf("unexpected grid values:\n%s", diff)
	}
	if err := f.RequireCoeff(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f.Values(), []float64{1, 2, 3, 4}); diff != "" {
		t.Errorf("unexpected coefficients:\n%s", diff)
	}
}

func TestFieldRequireScalesOnGrid(t *testing.T) {
	dom := newDomain(t)
	grid := dom.Dist().GridLayout()
	f, err := field.New(dom, field.WithLayout(grid), field.WithScale(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetValues(grid, []float64{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := f.RequireScales(1); err != nil {
		t.Fatal(err)
	}
	if !f.IsLayout(grid) {
		t.Errorf("got layout %s but want %s", f.Layout(), grid)
	}
	if diff := cmp.Diff(f.Values(), []float64{1, 2, 3, 4}); diff != "" {
		t.Errorf("unexpected values:\n%s", diff)
	}
	f.SetScales(2)
	if diff := cmp.Diff(f.Values(), make([]float64, 8)); diff != "" {
		t.Errorf("grid data not reset after SetScales:\n%s", diff)
	}
}

func TestFieldErrors(t *testing.T) {
	dom := newDomain(t)
	other := domain.NewDistributor([]string{"x"})
	if _, err := field.New(dom, field.WithLayout(other.GridLayout())); !errors.Is(err, field.ErrLayout) {
		t.Errorf("got error %v but want %v", err, field.ErrLayout)
	}
	if _, err := field.New(dom, field.WithDType(dtype.Int32)); err == nil {
		t.Errorf("expected an error for an unsupported data type")
	}
	if _, err := field.New(nil); err == nil {
		t.Errorf("expected an error for a field without domain")
	}
	f, err := field.New(dom)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetValues(dom.Dist().CoeffLayout(), []float64{1, 2}); err == nil {
		t.Errorf("expected an error when writing the wrong number of values")
	}
	data, err := kernels.ToFloatArray([]float32{1, 2, 3, 4}, []int{4})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write(dom.Dist().CoeffLayout(), data); err == nil {
		t.Errorf("expected an error when writing float32 data into a float64 field")
	}
}

func TestArray(t *testing.T) {
	dom := newDomain(t)
	a, err := field.NewArray(dom, field.WithScale(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if a.Layout() != dom.Dist().GridLayout() {
		t.Errorf("got layout %s but want %s", a.Layout(), dom.Dist().GridLayout())
	}
	if err := a.SetValues([]float64{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := a.Write(dom.Dist().CoeffLayout(), a.Data()); !errors.Is(err, field.ErrLayout) {
		t.Errorf("got error %v but want %v", err, field.ErrLayout)
	}
	a.SetScales(1)
	if diff := cmp.Diff(a.Shape(), []int{4}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
}

func TestCompare(t *testing.T) {
	dom := newDomain(t)
	f1, err := field.New(dom)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := field.New(dom)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		a, b operand.Operand
		want bool
	}{
		{a: f1, b: f1, want: true},
		{a: f1, b: f2, want: false},
		{a: field.Scalar{Value: 2}, b: field.Scalar{Value: 2}, want: true},
		{a: field.Scalar{Value: 2}, b: field.Scalar{Value: 3}, want: false},
		{a: field.Scalar{Value: 2}, b: f1, want: false},
	}
	for i, test := range tests {
		if got := operand.Equal(test.a, test.b); got != test.want {
			t.Errorf("test %d: Equal(%s, %s) = %t but want %t", i, test.a, test.b, got, test.want)
		}
	}
	if !f1.Has(f2, f1) {
		t.Errorf("%s.Has(%s, %s) = false but want true", f1, f2, f1)
	}
	got, err := f1.Replace(f1, f2)
	if err != nil {
		t.Fatal(err)
	}
	if got != operand.Operand(f2) {
		t.Errorf("got %s but want %s", got, f2)
	}
	atoms := f1.Atoms(operand.ScalarKind)
	if atoms.Size() != 0 {
		t.Errorf("got %d scalar atoms in a field but want 0", atoms.Size())
	}
}

func TestCast(t *testing.T) {
	dom := newDomain(t)
	f, err := field.New(dom)
	if err != nil {
		t.Fatal(err)
	}
	data, err := kernels.ToFloatArray([]float64{1, 2, 3, 4}, []int{4})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		val  any
		want string
	}{
		{val: f, want: f.Name()},
		{val: 2.5, want: "2.5"},
		{val: 3, want: "3"},
		{val: float32(0.5), want: "0.5"},
		{val: " 1e3 ", want: "1000"},
	}
	for i, test := range tests {
		got, err := field.Cast(test.val, dom)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("test %d: got %s but want %s", i, got, test.want)
		}
	}
	arr, err := field.Cast(data, dom)
	if err != nil {
		t.Fatal(err)
	}
	if arr.Kind() != operand.ArrayKind {
		t.Errorf("got kind %s but want %s", arr.Kind(), operand.ArrayKind)
	}
	for _, val := range []any{"abc", struct{}{}, []float64{1}} {
		if _, err := field.Cast(val, dom); !errors.Is(err, field.ErrCannotCast) {
			t.Errorf("Cast(%v): got error %v but want %v", val, err, field.ErrCannotCast)
		}
	}
}

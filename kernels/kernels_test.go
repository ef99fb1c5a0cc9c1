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

package kernels_test

import (
	"go/token"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/kernels"
)

func mustArray(t *testing.T, vals []float64, dims []int) kernels.Array {
	t.Helper()
	a, err := kernels.ToFloatArray(vals, dims)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		op   token.Token
		x, y kernels.Array
		dims []int
		want []float64
	}{
		{
			op:   token.ADD,
			x:    mustArray(t, []float64{1, 2, 3}, []int{3}),
			y:    mustArray(t, []float64{10, 20, 30}, []int{3}),
			dims: []int{3},
			want: []float64{11, 22, 33},
		},
		{
			op:   token.MUL,
			x:    kernels.ToFloatAtom[float64](2),
			y:    mustArray(t, []float64{1, 2, 3, 4}, []int{2, 2}),
			dims: []int{2, 2},
			want: []float64{2, 4, 6, 8},
		},
		{
			op:   token.SUB,
			x:    mustArray(t, []float64{1, 2}, []int{2, 1}),
			y:    mustArray(t, []float64{10, 20, 30}, []int{1, 3}),
			dims: []int{2, 3},
			want: []float64{-9, -19, -29, -8, -18, -28},
		},
		{
			op:   token.QUO,
			x:    mustArray(t, []float64{3, 6}, []int{2}),
			y:    kernels.ToFloatAtom[float64](3),
			dims: []int{2},
			want: []float64{1, 2},
		},
	}
	for i, test := range tests {
		kernel, sh, err := test.x.Factory().BinaryOp(test.op, test.x.Shape(), test.y.Shape())
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if !cmp.Equal(sh.AxisLengths, test.dims) {
			t.Errorf("test %d: incorrect output axis lengths: got %v but want %v", i, sh.AxisLengths, test.dims)
		}
		got, err := kernel(test.x, test.y)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(got.Float64s(), test.want); diff != "" {
			t.Errorf("test %d: incorrect values (-got +want):\n%s", i, diff)
		}
	}
}

func TestBroadcastError(t *testing.T) {
	x := mustArray(t, []float64{1, 2}, []int{2})
	y := mustArray(t, []float64{1, 2, 3}, []int{3})
	if _, _, err := x.Factory().BinaryOp(token.ADD, x.Shape(), y.Shape()); err == nil {
		t.Errorf("expected an error when broadcasting [2] with [3]")
	}
}

func TestUnaryAndMath(t *testing.T) {
	x := mustArray(t, []float64{0, 1, 4}, []int{3})
	neg, _, err := x.Factory().UnaryOp(token.SUB, x.Shape())
	if err != nil {
		t.Fatal(err)
	}
	got, err := neg(x)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, -1, -4}; !cmp.Equal(got.Float64s(), want) {
		t.Errorf("incorrect negation: got %v but want %v", got.Float64s(), want)
	}
	got, err = x.Factory().Math().Kernelize(math.Sqrt)(x)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 1, 2}; !cmp.Equal(got.Float64s(), want) {
		t.Errorf("incorrect square root: got %v but want %v", got.Float64s(), want)
	}
}

func TestCast(t *testing.T) {
	x := mustArray(t, []float64{1.5, 2.5}, []int{2})
	cast, sh, factory, err := x.Factory().Cast(dtype.Float32, x.Shape().AxisLengths)
	if err != nil {
		t.Fatal(err)
	}
	if sh.DType != dtype.Float32 || factory.DType() != dtype.Float32 {
		t.Errorf("incorrect cast target: got %s/%s but want %s", sh.DType, factory.DType(), dtype.Float32)
	}
	got, err := cast(x)
	if err != nil {
		t.Fatal(err)
	}
	vals, err := kernels.Values[float32](got)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float32{1.5, 2.5}; !cmp.Equal(vals, want) {
		t.Errorf("incorrect cast values: got %v but want %v", vals, want)
	}
	if _, err := kernels.Values[float64](got); err == nil {
		t.Errorf("expected an error when reading float32 values as float64")
	}
}

func TestResize(t *testing.T) {
	x := mustArray(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	tests := []struct {
		dims []int
		want []float64
	}{
		{dims: []int{2, 3}, want: []float64{1, 2, 3, 4, 5, 6}},
		{dims: []int{1, 2}, want: []float64{1, 2}},
		{dims: []int{3, 2}, want: []float64{1, 2, 4, 5, 0, 0}},
		{dims: []int{2, 4}, want: []float64{1, 2, 3, 0, 4, 5, 6, 0}},
	}
	for i, test := range tests {
		got, err := x.Resize(test.dims)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(got.Float64s(), test.want); diff != "" {
			t.Errorf("test %d: incorrect values (-got +want):\n%s", i, diff)
		}
	}
	if _, err := x.Resize([]int{6}); err == nil {
		t.Errorf("expected an error when resizing to a different number of axes")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		a    kernels.Array
		want string
	}{
		{a: kernels.ToFloatAtom[float64](2.5), want: dtype.Float64.String() + "(2.5)"},
		{a: mustArray(t, []float64{1, 2, 3, 4}, []int{2, 2}), want: "[2][2]" + dtype.Float64.String() + "{{1, 2}, {3, 4}}"},
	}
	for i, test := range tests {
		if got := test.a.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

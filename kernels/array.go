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

package kernels

import (
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

// arrayT is a multi-dimensional array stored in row-major order.
type arrayT[T dtype.Float] struct {
	shape  shape.Shape
	values []T
}

var _ Array = (*arrayT[float32])(nil)

func newArray[T dtype.Float](values []T, dims []int) *arrayT[T] {
	return &arrayT[T]{
		shape: shape.Shape{
			DType:       dtype.Generic[T](),
			AxisLengths: slices.Clone(dims),
		},
		values: values,
	}
}

func toArray[T dtype.Float](a Array) *arrayT[T] {
	return a.base().(*arrayT[T])
}

func (a *arrayT[T]) base() any {
	return a
}

func (a *arrayT[T]) dims() []int {
	return a.shape.AxisLengths
}

// Factory returns the kernels for the data type of the array.
func (a *arrayT[T]) Factory() Factory {
	return floatFactory[T]{}
}

// Shape of the array.
func (a *arrayT[T]) Shape() *shape.Shape {
	return &a.shape
}

// Float64s returns a copy of the values converted to float64.
func (a *arrayT[T]) Float64s() []float64 {
	vals := make([]float64, len(a.values))
	for i, v := range a.values {
		vals[i] = float64(v)
	}
	return vals
}

// Clone returns a deep copy of the array.
func (a *arrayT[T]) Clone() Array {
	return newArray(slices.Clone(a.values), a.dims())
}

// Resize truncates or zero-pads the array along each axis.
func (a *arrayT[T]) Resize(dims []int) (Array, error) {
	src := a.dims()
	if len(dims) != len(src) {
		return nil, errors.Errorf("cannot resize an array with %d axes to %d axes", len(src), len(dims))
	}
	if slices.Equal(src, dims) {
		return a.Clone(), nil
	}
	out := newArray(make([]T, Size(dims)), dims)
	common := make([]int, len(dims))
	for i := range dims {
		common[i] = min(src[i], dims[i])
	}
	srcStrides, dstStrides := strides(src), strides(dims)
	idx := make([]int, len(dims))
	for range Size(common) {
		var si, di int
		for ax, x := range idx {
			si += x * srcStrides[ax]
			di += x * dstStrides[ax]
		}
		out.values[di] = a.values[si]
		next(idx, common)
	}
	return out, nil
}

// String representation of the array.
func (a *arrayT[T]) String() string {
	return Sprint(a.values, a.dims())
}

// strides returns the row-major strides of an array given its axis lengths.
func strides(dims []int) []int {
	st := make([]int, len(dims))
	acc := 1
	for i := len(dims) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= dims[i]
	}
	return st
}

// next increments a multi-index in row-major order.
func next(idx, dims []int) {
	for ax := len(idx) - 1; ax >= 0; ax-- {
		idx[ax]++
		if idx[ax] < dims[ax] {
			return
		}
		idx[ax] = 0
	}
}

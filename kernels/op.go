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
	"go/token"
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

type floatFactory[T dtype.Float] struct{}

var _ Factory = floatFactory[float64]{}

func (floatFactory[T]) DType() dtype.DataType {
	return dtype.Generic[T]()
}

func (floatFactory[T]) Zero(dims []int) Array {
	return newArray(make([]T, Size(dims)), dims)
}

func (floatFactory[T]) Atom(val float64) Array {
	return ToFloatAtom(T(val))
}

func (floatFactory[T]) FromFloat64s(vals []float64, dims []int) (Array, error) {
	values := make([]T, len(vals))
	for i, v := range vals {
		values[i] = T(v)
	}
	return ToFloatArray(values, dims)
}

// BroadcastAxes returns the axis lengths of the result of an
// element-wise operation between arrays of axis lengths x and y.
// Axes are aligned from the right and axes of length 1 are broadcast.
func BroadcastAxes(x, y []int) ([]int, error) {
	rank := max(len(x), len(y))
	xa, ya := alignAxes(x, rank), alignAxes(y, rank)
	out := make([]int, rank)
	for i := range out {
		switch {
		case xa[i] == ya[i]:
			out[i] = xa[i]
		case xa[i] == 1:
			out[i] = ya[i]
		case ya[i] == 1:
			out[i] = xa[i]
		default:
			return nil, errors.Errorf("cannot broadcast axis lengths %v and %v", x, y)
		}
	}
	return out, nil
}

func alignAxes(dims []int, rank int) []int {
	out := slices.Repeat([]int{1}, rank-len(dims))
	return append(out, dims...)
}

// broadcastStrides returns the strides to read an array of axis lengths dims
// as if it had axis lengths target.
func broadcastStrides(dims, target []int) []int {
	aligned := alignAxes(dims, len(target))
	st := strides(aligned)
	for i, d := range aligned {
		if d == 1 && target[i] != 1 {
			st[i] = 0
		}
	}
	return st
}

func binaryKernel[T dtype.Float](f func(x, y T) T) Binary {
	return func(xVal, yVal Array) (Array, error) {
		x, y := toArray[T](xVal), toArray[T](yVal)
		dims, err := BroadcastAxes(x.dims(), y.dims())
		if err != nil {
			return nil, err
		}
		z := make([]T, Size(dims))
		if slices.Equal(x.dims(), y.dims()) {
			for i, xi := range x.values {
				z[i] = f(xi, y.values[i])
			}
			return newArray(z, dims), nil
		}
		xSt, ySt := broadcastStrides(x.dims(), dims), broadcastStrides(y.dims(), dims)
		idx := make([]int, len(dims))
		for i := range z {
			var xi, yi int
			for ax, v := range idx {
				xi += v * xSt[ax]
				yi += v * ySt[ax]
			}
			z[i] = f(x.values[xi], y.values[yi])
			next(idx, dims)
		}
		return newArray(z, dims), nil
	}
}

func (floatFactory[T]) BinaryOp(op token.Token, x, y *shape.Shape) (Binary, *shape.Shape, error) {
	if x.DType != y.DType {
		return nil, nil, errors.Errorf("mismatched data types %s and %s for operator %s", x.DType, y.DType, op)
	}
	dims, err := BroadcastAxes(x.AxisLengths, y.AxisLengths)
	if err != nil {
		return nil, nil, err
	}
	out := &shape.Shape{DType: x.DType, AxisLengths: dims}
	switch op {
	case token.ADD:
		return binaryKernel(func(x, y T) T { return x + y }), out, nil
	case token.SUB:
		return binaryKernel(func(x, y T) T { return x - y }), out, nil
	case token.MUL:
		return binaryKernel(func(x, y T) T { return x * y }), out, nil
	case token.QUO:
		return binaryKernel(func(x, y T) T { return x / y }), out, nil
	default:
		return nil, nil, errors.Errorf("operator %s not supported for %s", op, x.DType)
	}
}

func negArray[T dtype.Float](xVal Array) (Array, error) {
	x := toArray[T](xVal)
	z := make([]T, len(x.values))
	for i, xi := range x.values {
		z[i] = -xi
	}
	return newArray(z, x.dims()), nil
}

func (floatFactory[T]) UnaryOp(op token.Token, x *shape.Shape) (Unary, *shape.Shape, error) {
	switch op {
	case token.SUB:
		return negArray[T], x, nil
	case token.ADD:
		return func(a Array) (Array, error) { return a.Clone(), nil }, x, nil
	default:
		return nil, nil, errors.Errorf("unary operator %s not supported", op)
	}
}

func castArray[T, U dtype.Float](xVal Array) (Array, error) {
	x := toArray[T](xVal)
	z := make([]U, len(x.values))
	for i, xi := range x.values {
		z[i] = U(xi)
	}
	return newArray(z, x.dims()), nil
}

func (floatFactory[T]) Cast(target dtype.DataType, dims []int) (Unary, *shape.Shape, Factory, error) {
	out := &shape.Shape{DType: target, AxisLengths: dims}
	switch target {
	case dtype.Float32:
		return castArray[T, float32], out, floatFactory[float32]{}, nil
	case dtype.Float64:
		return castArray[T, float64], out, floatFactory[float64]{}, nil
	default:
		return nil, nil, nil, errors.Errorf("cast to %s not supported", target)
	}
}

func (floatFactory[T]) Math() MathFactory {
	return mathFactory[T]{}
}

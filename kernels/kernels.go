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

// Package kernels implements the numerical kernels operating on field data.
package kernels

import (
	"go/token"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

type (
	// Array is a dense multi-dimensional array of floating point values.
	Array interface {
		// Factory returns the kernels available for the array.
		Factory() Factory

		// Shape returns the data type and axis lengths of the array.
		Shape() *shape.Shape

		// Float64s returns a copy of the values of the array converted to float64.
		Float64s() []float64

		// Clone returns a deep copy of the array.
		Clone() Array

		// Resize returns a new array with the given axis lengths.
		// Values are truncated or zero-padded independently along each axis.
		Resize(dims []int) (Array, error)

		// String representation of the array.
		String() string

		base() any
	}

	// Unary like - or math functions.
	Unary func(Array) (Array, error)

	// Binary like +, -, *, /.
	Binary func(Array, Array) (Array, error)

	// Factory creates arrays and kernels for a given data type.
	Factory interface {
		// DType returns the data type of the arrays created by the factory.
		DType() dtype.DataType

		// Zero returns an array filled with zeros.
		Zero(dims []int) Array

		// Atom returns an array with no axis storing a single value.
		Atom(float64) Array

		// FromFloat64s returns an array given its values.
		FromFloat64s(vals []float64, dims []int) (Array, error)

		// BinaryOp returns a kernel applying a binary operator
		// between two arrays with broadcastable axis lengths.
		BinaryOp(op token.Token, x, y *shape.Shape) (Binary, *shape.Shape, error)

		// UnaryOp returns a kernel applying a unary operator.
		UnaryOp(op token.Token, x *shape.Shape) (Unary, *shape.Shape, error)

		// Cast returns a kernel converting an array to another data type.
		Cast(target dtype.DataType, dims []int) (Unary, *shape.Shape, Factory, error)

		// Math returns the factory of math kernels.
		Math() MathFactory
	}
)

// FactoryFor returns a factory given a data type.
func FactoryFor(dt dtype.DataType) (Factory, error) {
	switch dt {
	case dtype.Float32:
		return floatFactory[float32]{}, nil
	case dtype.Float64:
		return floatFactory[float64]{}, nil
	default:
		return nil, errors.Errorf("no kernel factory for %s: only float32 and float64 are supported", dt.String())
	}
}

// Zero returns an array of zeros given a shape.
func Zero(sh *shape.Shape) (Array, error) {
	factory, err := FactoryFor(sh.DType)
	if err != nil {
		return nil, err
	}
	return factory.Zero(sh.AxisLengths), nil
}

// ToFloatArray returns a new array given some values and axis lengths.
func ToFloatArray[T dtype.Float](values []T, dims []int) (Array, error) {
	if len(values) != Size(dims) {
		return nil, errors.Errorf("mismatch between the number of values (=%d) and the number of elements (=%d) for axis lengths %v", len(values), Size(dims), dims)
	}
	return newArray(values, dims), nil
}

// ToFloatAtom returns an array with no axis storing a single value.
func ToFloatAtom[T dtype.Float](val T) Array {
	return newArray([]T{val}, nil)
}

// Size returns the number of elements given axis lengths.
func Size(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// Values returns the values stored in an array if the array stores values of type T.
func Values[T dtype.Float](a Array) ([]T, error) {
	aT, ok := a.base().(*arrayT[T])
	if !ok {
		return nil, errors.Errorf("cannot access %s values as %s", a.Shape().DType, dtype.Generic[T]())
	}
	return aT.values, nil
}

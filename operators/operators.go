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

// Package operators implements the operators of expression trees.
package operators

import (
	"go/token"
	"slices"

	"github.com/gx-org/backend/shape"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

type (
	based interface {
		Bases() domain.Bases
	}

	withData interface {
		Data() kernels.Array
	}
)

// buildBases combines the bases of the arguments with extra bases.
func buildBases(dist *domain.Distributor, extra domain.Bases, args []operand.Operand) (domain.Bases, error) {
	dim := 0
	if dist != nil {
		dim = dist.Dim()
	}
	all := []domain.Bases{extra}
	for _, arg := range args {
		if b, ok := arg.(based); ok {
			all = append(all, b.Bases())
		}
	}
	return domain.CombineBases(dim, all...)
}

func distOf(args []operand.Operand) *domain.Distributor {
	dist, _ := domain.Unify(args)
	return dist
}

func gridOf(dist *domain.Distributor) *domain.Layout {
	if dist == nil {
		return nil
	}
	return dist.GridLayout()
}

// numData returns the number of arguments storing an array of values.
func numData(args []operand.Operand) int {
	n := 0
	for _, arg := range args {
		if _, ok := arg.(withData); ok {
			n++
		}
	}
	return n
}

// hasScalar returns true if any argument is a scalar.
func hasScalar(args []operand.Operand) bool {
	for _, arg := range args {
		if _, ok := arg.(field.Scalar); ok {
			return true
		}
	}
	return false
}

// sharedLayout returns the layout in which the arguments are combined
// and true if all the fields are already in that layout.
// The layout is the grid if grid is true or if an argument is an array.
func sharedLayout(args []operand.Operand, grid bool) (*domain.Layout, bool) {
	dist := distOf(args)
	if dist == nil {
		return nil, true
	}
	var layout *domain.Layout
	if grid {
		layout = dist.GridLayout()
	}
	for _, arg := range args {
		if _, ok := arg.(*field.Array); ok {
			layout = dist.GridLayout()
			break
		}
	}
	ready := true
	for _, arg := range args {
		f, ok := arg.(*field.Field)
		if !ok {
			continue
		}
		if layout == nil {
			layout = f.Layout()
		}
		if !f.IsLayout(layout) {
			ready = false
		}
	}
	return layout, ready
}

// requireLayout transforms all the fields into a layout.
func requireLayout(args []operand.Operand, layout *domain.Layout) error {
	for _, arg := range args {
		f, ok := arg.(*field.Field)
		if !ok {
			continue
		}
		if err := f.RequireLayout(layout); err != nil {
			return err
		}
	}
	return nil
}

// dataOf returns the values of an argument with the data type of a factory.
func dataOf(arg operand.Operand, factory kernels.Factory) (kernels.Array, error) {
	switch argT := arg.(type) {
	case field.Scalar:
		return factory.Atom(argT.Value), nil
	case withData:
		data := argT.Data()
		if data.Shape().DType == factory.DType() {
			return data, nil
		}
		cast, _, _, err := data.Factory().Cast(factory.DType(), data.Shape().AxisLengths)
		if err != nil {
			return nil, err
		}
		return cast(data)
	}
	return nil, errors.Errorf("operand %s of type %T has no data", arg, arg)
}

// reduce applies a binary operator to all the arguments, from left to right.
func reduce(op token.Token, args []operand.Operand, factory kernels.Factory) (kernels.Array, error) {
	if len(args) == 0 {
		return nil, errors.Errorf("operator %s requires at least one argument", op)
	}
	acc, err := dataOf(args[0], factory)
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		x, err := dataOf(arg, factory)
		if err != nil {
			return nil, err
		}
		kernel, _, err := factory.BinaryOp(op, acc.Shape(), x.Shape())
		if err != nil {
			return nil, err
		}
		if acc, err = kernel(acc, x); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// write broadcasts data to the shape of the output in a layout and writes it.
func write(out future.Output, layout *domain.Layout, data kernels.Array) error {
	dims := out.Domain().Shape(layout, out.Scale())
	if !slices.Equal(data.Shape().AxisLengths, dims) {
		factory := data.Factory()
		zero := &shape.Shape{DType: factory.DType(), AxisLengths: dims}
		add, sh, err := factory.BinaryOp(token.ADD, data.Shape(), zero)
		if err != nil {
			return errors.Wrapf(err, "cannot broadcast the result to %s", out)
		}
		if !slices.Equal(sh.AxisLengths, dims) {
			return errors.Errorf("result with axis lengths %v does not fit into %s with axis lengths %v", data.Shape().AxisLengths, out, dims)
		}
		if data, err = add(data, factory.Zero(dims)); err != nil {
			return err
		}
	}
	return out.Write(layout, data)
}

func outFactory(out future.Output) (kernels.Factory, error) {
	return kernels.FactoryFor(out.DType())
}

// layoutOf returns the layout of the data of an argument.
// Arguments which are not fields are on the grid.
func layoutOf(arg operand.Operand, dist *domain.Distributor) *domain.Layout {
	if f, ok := arg.(*field.Field); ok {
		return f.Layout()
	}
	return gridOf(dist)
}

type unaryKernel func(kernels.Factory, kernels.Array) (kernels.Array, error)

func identity(_ kernels.Factory, x kernels.Array) (kernels.Array, error) {
	return x.Clone(), nil
}

// operateUnary applies a kernel to the data of an argument in a given layout.
func operateUnary(arg operand.Operand, out future.Output, layout *domain.Layout, kernel unaryKernel) error {
	if f, ok := arg.(*field.Field); ok && !f.IsLayout(layout) {
		return errors.Errorf("argument %s is in layout %s but layout %s is required", f, f.Layout(), layout)
	}
	factory, err := outFactory(out)
	if err != nil {
		return err
	}
	x, err := dataOf(arg, factory)
	if err != nil {
		return err
	}
	y, err := kernel(factory, x)
	if err != nil {
		return err
	}
	return write(out, layout, y)
}

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

package operators

import (
	"go/token"

	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

type (
	addOp struct{ future.Base }
	mulOp struct{ future.Base }
	negOp struct{ future.Base }
)

// Operators of the arithmetic.
var (
	AddOp future.Operator = addOp{}
	MulOp future.Operator = mulOp{}
	NegOp future.Operator = negOp{}
)

// Add returns the sum of operands.
// Fields are added in their common layout, or on the grid if an argument is a scalar or an array.
func Add(args []operand.Operand, opts ...future.Option) (*future.Node, error) {
	return future.New(AddOp, args, opts...)
}

// Sub returns x-y.
// The options are used to build both the negation of y and the sum.
func Sub(x, y operand.Operand, opts ...future.Option) (*future.Node, error) {
	negY, err := Neg(y, opts...)
	if err != nil {
		return nil, err
	}
	return Add([]operand.Operand{x, negY}, opts...)
}

// Mul returns the product of operands.
// The product of two fields or arrays is computed on the grid.
func Mul(args []operand.Operand, opts ...future.Option) (*future.Node, error) {
	return future.New(MulOp, args, opts...)
}

// Neg returns -x.
func Neg(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return future.New(NegOp, []operand.Operand{x}, opts...)
}

func (addOp) Name() string {
	return "add"
}

func (addOp) Variant(args []operand.Operand) future.Variant {
	return future.FieldIfAny(args)
}

func (addOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(future.ErrArity, "add requires at least one argument")
	}
	return buildBases(dist, nil, args)
}

func (addOp) CheckConditions(args []operand.Operand) (bool, error) {
	_, ok := sharedLayout(args, hasScalar(args))
	return ok, nil
}

func (addOp) EnforceConditions(args []operand.Operand) error {
	layout, _ := sharedLayout(args, hasScalar(args))
	return requireLayout(args, layout)
}

func (addOp) Operate(args []operand.Operand, out future.Output) error {
	return operateReduce(token.ADD, args, out, hasScalar(args))
}

func (mulOp) Name() string {
	return "mul"
}

func (mulOp) Variant(args []operand.Operand) future.Variant {
	return future.FieldIfAny(args)
}

func (mulOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(future.ErrArity, "mul requires at least one argument")
	}
	return buildBases(dist, nil, args)
}

func (mulOp) CheckConditions(args []operand.Operand) (bool, error) {
	_, ok := sharedLayout(args, numData(args) > 1)
	return ok, nil
}

func (mulOp) EnforceConditions(args []operand.Operand) error {
	layout, _ := sharedLayout(args, numData(args) > 1)
	return requireLayout(args, layout)
}

func (mulOp) Operate(args []operand.Operand, out future.Output) error {
	return operateReduce(token.MUL, args, out, numData(args) > 1)
}

func operateReduce(op token.Token, args []operand.Operand, out future.Output, grid bool) error {
	layout, ok := sharedLayout(args, grid)
	if !ok {
		return errors.Errorf("arguments %v are not in layout %s", args, layout)
	}
	factory, err := outFactory(out)
	if err != nil {
		return err
	}
	data, err := reduce(op, args, factory)
	if err != nil {
		return err
	}
	return write(out, layout, data)
}

func (negOp) Name() string {
	return "neg"
}

func (negOp) Arity() int {
	return 1
}

func (negOp) Variant(args []operand.Operand) future.Variant {
	return future.FieldIfAny(args)
}

func (negOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	return buildBases(dist, nil, args)
}

func (negOp) CheckConditions([]operand.Operand) (bool, error) {
	return true, nil
}

func (negOp) EnforceConditions([]operand.Operand) error {
	return nil
}

func (negOp) Operate(args []operand.Operand, out future.Output) error {
	return operateUnary(args[0], out, layoutOf(args[0], out.Dist()), func(factory kernels.Factory, x kernels.Array) (kernels.Array, error) {
		neg, _, err := factory.UnaryOp(token.SUB, x.Shape())
		if err != nil {
			return nil, err
		}
		return neg(x)
	})
}

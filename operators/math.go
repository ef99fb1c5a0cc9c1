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
	"math"

	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
)

// mathOp applies a function to every value on the grid.
type mathOp struct {
	future.Base
	name string
	f    func(float64) float64
}

// Math functions.
var (
	SinOp  = &mathOp{name: "sin", f: math.Sin}
	CosOp  = &mathOp{name: "cos", f: math.Cos}
	TanhOp = &mathOp{name: "tanh", f: math.Tanh}
	ExpOp  = &mathOp{name: "exp", f: math.Exp}
	SqrtOp = &mathOp{name: "sqrt", f: math.Sqrt}
	AbsOp  = &mathOp{name: "abs", f: math.Abs}
)

// MathOps returns all the math functions.
func MathOps() []future.Operator {
	return []future.Operator{SinOp, CosOp, TanhOp, ExpOp, SqrtOp, AbsOp}
}

// Apply returns a node applying a math function to an operand.
func Apply(op future.Operator, x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return future.New(op, []operand.Operand{x}, opts...)
}

// Sin returns sin(x).
func Sin(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(SinOp, x, opts...)
}

// Cos returns cos(x).
func Cos(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(CosOp, x, opts...)
}

// Tanh returns tanh(x).
func Tanh(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(TanhOp, x, opts...)
}

// Exp returns exp(x).
func Exp(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(ExpOp, x, opts...)
}

// Sqrt returns sqrt(x).
func Sqrt(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(SqrtOp, x, opts...)
}

// Abs returns |x|.
func Abs(x operand.Operand, opts ...future.Option) (*future.Node, error) {
	return Apply(AbsOp, x, opts...)
}

func (op *mathOp) Name() string {
	return op.name
}

func (*mathOp) Arity() int {
	return 1
}

func (*mathOp) Variant(args []operand.Operand) future.Variant {
	return future.FieldIfAny(args)
}

func (*mathOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	return buildBases(dist, nil, args)
}

func (*mathOp) CheckConditions(args []operand.Operand) (bool, error) {
	_, ok := sharedLayout(args, true)
	return ok, nil
}

func (*mathOp) EnforceConditions(args []operand.Operand) error {
	layout, _ := sharedLayout(args, true)
	return requireLayout(args, layout)
}

func (op *mathOp) Operate(args []operand.Operand, out future.Output) error {
	return operateUnary(args[0], out, gridOf(out.Dist()), func(factory kernels.Factory, x kernels.Array) (kernels.Array, error) {
		return factory.Math().Kernelize(op.f)(x)
	})
}

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
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

type (
	copyOp struct {
		future.Base
		future.FieldOutput
		dom *domain.Domain
	}

	convertOp struct {
		future.Base
		dt dtype.DataType
	}
)

// CopyOp returns the operator copying an operand into a field on a domain.
func CopyOp(dom *domain.Domain) future.Operator {
	return copyOp{dom: dom}
}

// Copy returns a node copying an operand into a field on a domain.
func Copy(x operand.Operand, dom *domain.Domain, opts ...future.Option) (*future.Node, error) {
	if dom == nil {
		return nil, errors.Errorf("cannot copy %s: no domain", x)
	}
	opts = append(slices.Clip(opts), future.WithDistributor(dom.Dist()))
	return future.New(CopyOp(dom), []operand.Operand{x}, opts...)
}

func (copyOp) Name() string {
	return "copy"
}

func (copyOp) Arity() int {
	return 1
}

func (op copyOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	if op.dom != nil && op.dom.Dist() != dist {
		return nil, errors.Wrapf(domain.ErrIncompatibleDistributors, "cannot copy %v to %s", args, op.dom)
	}
	var bases domain.Bases
	if op.dom != nil {
		bases = op.dom.Bases()
	}
	return buildBases(dist, bases, args)
}

func (copyOp) CheckConditions([]operand.Operand) (bool, error) {
	return true, nil
}

func (copyOp) EnforceConditions([]operand.Operand) error {
	return nil
}

func (copyOp) Operate(args []operand.Operand, out future.Output) error {
	return operateUnary(args[0], out, layoutOf(args[0], out.Dist()), identity)
}

// ConvertOp returns the operator converting data to another data type.
func ConvertOp(dt dtype.DataType) future.Operator {
	return convertOp{dt: dt}
}

// Convert returns a node converting the data of an operand to another data type.
func Convert(x operand.Operand, dt dtype.DataType, opts ...future.Option) (*future.Node, error) {
	if _, err := kernels.FactoryFor(dt); err != nil {
		return nil, err
	}
	return future.New(ConvertOp(dt), []operand.Operand{x}, opts...)
}

func (op convertOp) Name() string {
	return "convert[" + op.dt.String() + "]"
}

func (convertOp) Arity() int {
	return 1
}

func (convertOp) Variant(args []operand.Operand) future.Variant {
	return future.FieldIfAny(args)
}

func (op convertOp) DType([]operand.Operand) dtype.DataType {
	return op.dt
}

func (convertOp) BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error) {
	return buildBases(dist, nil, args)
}

func (convertOp) CheckConditions([]operand.Operand) (bool, error) {
	return true, nil
}

func (convertOp) EnforceConditions([]operand.Operand) error {
	return nil
}

func (convertOp) Operate(args []operand.Operand, out future.Output) error {
	return operateUnary(args[0], out, layoutOf(args[0], out.Dist()), identity)
}

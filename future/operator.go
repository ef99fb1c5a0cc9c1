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

package future

import (
	"reflect"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

var (
	// ErrOutputBasesMismatch is returned when the output given to a node
	// does not have the bases computed by the node.
	ErrOutputBasesMismatch = errors.New("output bases mismatch")

	// ErrNotImplemented is returned when an operator does not implement a hook.
	ErrNotImplemented = errors.New("operator hook not implemented")

	// ErrArity is returned when the number of arguments does not match the arity of an operator.
	ErrArity = errors.New("wrong number of arguments")
)

// Variant is the kind of output produced by a node.
type Variant int

const (
	// ArrayVariant nodes produce grid arrays.
	ArrayVariant Variant = iota
	// FieldVariant nodes produce distributed fields.
	FieldVariant
)

func (v Variant) String() string {
	if v == FieldVariant {
		return "field"
	}
	return "array"
}

type (
	// Output is a data-bearing operand written by an operator.
	Output interface {
		operand.Operand
		domain.Distributed
		Domain() *domain.Domain
		Bases() domain.Bases
		DType() dtype.DataType
		Layout() *domain.Layout
		Scale() float64
		SetScales(float64)
		Shape() []int
		Data() kernels.Array
		Write(*domain.Layout, kernels.Array) error
	}

	// Operator computes the output of a node given its arguments.
	//
	// An operator is identified by its value: operators must be comparable
	// for a node to match them in Has and Replace.
	Operator interface {
		// Name of the operator.
		Name() string

		// Variant returns the kind of output produced given the arguments.
		Variant(args []operand.Operand) Variant

		// BuildBases returns the output bases given the arguments.
		BuildBases(dist *domain.Distributor, args []operand.Operand) (domain.Bases, error)

		// CheckConditions returns true if the arguments are in the layouts
		// required by the operator. It must not modify the arguments.
		CheckConditions(args []operand.Operand) (bool, error)

		// EnforceConditions changes the layouts of the arguments
		// to the layouts required by the operator.
		EnforceConditions(args []operand.Operand) error

		// Operate writes the complete result into out.
		// It must not modify the data of the arguments.
		Operate(args []operand.Operand, out Output) error
	}

	// Base implements the hooks of an operator by returning ErrNotImplemented.
	Base struct{}

	// FieldOutput is embedded by operators always producing fields.
	FieldOutput struct{}

	// ArrayOutput is embedded by operators always producing arrays.
	ArrayOutput struct{}
)

// BuildBases returns ErrNotImplemented.
func (Base) BuildBases(*domain.Distributor, []operand.Operand) (domain.Bases, error) {
	return nil, errors.Wrap(ErrNotImplemented, "BuildBases")
}

// CheckConditions returns ErrNotImplemented.
func (Base) CheckConditions([]operand.Operand) (bool, error) {
	return false, errors.Wrap(ErrNotImplemented, "CheckConditions")
}

// EnforceConditions returns ErrNotImplemented.
func (Base) EnforceConditions([]operand.Operand) error {
	return errors.Wrap(ErrNotImplemented, "EnforceConditions")
}

// Operate returns ErrNotImplemented.
func (Base) Operate([]operand.Operand, Output) error {
	return errors.Wrap(ErrNotImplemented, "Operate")
}

// Variant returns FieldVariant.
func (FieldOutput) Variant([]operand.Operand) Variant {
	return FieldVariant
}

// Variant returns ArrayVariant.
func (ArrayOutput) Variant([]operand.Operand) Variant {
	return ArrayVariant
}

// VariantOf returns the kind of output an operand provides to an operator.
// It returns false for operands without data, like scalars.
func VariantOf(op operand.Operand) (Variant, bool) {
	switch op.Kind() {
	case operand.FieldKind:
		return FieldVariant, true
	case operand.ArrayKind:
		return ArrayVariant, true
	}
	if node, ok := op.(*Node); ok {
		return node.Variant(), true
	}
	return ArrayVariant, false
}

// FieldIfAny returns FieldVariant if any argument provides a field, ArrayVariant otherwise.
func FieldIfAny(args []operand.Operand) Variant {
	for _, arg := range args {
		if v, ok := VariantOf(arg); ok && v == FieldVariant {
			return FieldVariant
		}
	}
	return ArrayVariant
}

type (
	arityOperator interface {
		Arity() int
	}

	storeLastOperator interface {
		StoreLast() bool
	}

	dtypeOperator interface {
		DType(args []operand.Operand) dtype.DataType
	}

	typed interface {
		DType() dtype.DataType
	}
)

// DTypeOf returns the data type of the result of an operation over arguments:
// float32 if all the typed arguments are float32, float64 otherwise.
func DTypeOf(args []operand.Operand) dtype.DataType {
	found := false
	for _, arg := range args {
		t, ok := arg.(typed)
		if !ok {
			continue
		}
		if t.DType() != dtype.Float32 {
			return dtype.Float64
		}
		found = true
	}
	if found {
		return dtype.Float32
	}
	return dtype.Float64
}

// sameOperator returns true if target is the identity of op.
func sameOperator(op Operator, target any) bool {
	if target == nil || !reflect.TypeOf(op).Comparable() {
		return false
	}
	if reflect.TypeOf(target) != reflect.TypeOf(op) {
		return false
	}
	return any(op) == target
}

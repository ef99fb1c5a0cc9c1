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

package field

import (
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

// Array stores values on the grid of a domain.
// Contrary to a field, an array has no coefficient representation.
type Array struct {
	name  string
	dom   *domain.Domain
	dt    dtype.DataType
	scale float64
	data  kernels.Array
}

var _ operand.Operand = (*Array)(nil)

// NewArray returns a new array filled with zeros.
// The layout option is ignored: arrays are always on the grid.
func NewArray(dom *domain.Domain, opts ...Option) (*Array, error) {
	s, err := newSettings("array", dom, opts)
	if err != nil {
		return nil, err
	}
	return &Array{
		name:  s.name,
		dom:   dom,
		dt:    s.dt,
		scale: s.scale,
	}, nil
}

// Name of the array.
func (a *Array) Name() string {
	return a.name
}

// Kind returns ArrayKind.
func (a *Array) Kind() operand.Kind {
	return operand.ArrayKind
}

// Domain on which the array is defined.
func (a *Array) Domain() *domain.Domain {
	return a.dom
}

// Dist returns the distributor of the array.
func (a *Array) Dist() *domain.Distributor {
	return a.dom.Dist()
}

// Bases returns the basis of the array along each axis.
func (a *Array) Bases() domain.Bases {
	return a.dom.Bases()
}

// DType returns the data type of the values.
func (a *Array) DType() dtype.DataType {
	return a.dt
}

// Layout returns the grid layout of the distributor, or nil without distributor.
func (a *Array) Layout() *domain.Layout {
	if dist := a.dom.Dist(); dist != nil {
		return dist.GridLayout()
	}
	return nil
}

// Scale returns the grid scale of the array.
func (a *Array) Scale() float64 {
	return a.scale
}

// SetScales changes the grid scale of the array. Values are not preserved.
func (a *Array) SetScales(scale float64) {
	if scale == a.scale {
		return
	}
	a.scale = scale
	a.data = nil
}

// Shape returns the axis lengths of the data.
func (a *Array) Shape() []int {
	return a.dom.GridShape(a.scale)
}

// Data returns the values of the array.
func (a *Array) Data() kernels.Array {
	if a.data == nil {
		factory, _ := kernels.FactoryFor(a.dt)
		a.data = factory.Zero(a.Shape())
	}
	return a.data
}

// Values returns a copy of the values converted to float64.
func (a *Array) Values() []float64 {
	return a.Data().Float64s()
}

// Write stores data in the array. layout must be the grid layout of the distributor.
func (a *Array) Write(layout *domain.Layout, data kernels.Array) error {
	if layout != a.Layout() {
		return errors.Wrapf(ErrLayout, "array %s only supports the grid layout, got %s", a.name, layout)
	}
	sh := data.Shape()
	if sh.DType != a.dt {
		return errors.Errorf("cannot write %s data into %s array %s", sh.DType, a.dt, a.name)
	}
	if !slices.Equal(sh.AxisLengths, a.Shape()) {
		return errors.Errorf("cannot write data with axis lengths %v into array %s of axis lengths %v", sh.AxisLengths, a.name, a.Shape())
	}
	a.data = data
	return nil
}

// SetValues stores float64 values in the array.
func (a *Array) SetValues(vals []float64) error {
	factory, err := kernels.FactoryFor(a.dt)
	if err != nil {
		return err
	}
	data, err := factory.FromFloat64s(vals, a.Shape())
	if err != nil {
		return err
	}
	return a.Write(a.Layout(), data)
}

// Atoms returns the array if its kind is requested.
func (a *Array) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(a, kinds)
}

// Has returns true if the array is one of the targets.
func (a *Array) Has(targets ...any) bool {
	return operand.LeafHas(a, targets)
}

// Replace returns new if the array is old.
func (a *Array) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(a, old, new)
}

// Compare arrays by identity.
func (a *Array) Compare(other operand.Operand) operand.Comparison {
	otherA, ok := other.(*Array)
	if !ok {
		return operand.Incomparable
	}
	if otherA == a {
		return operand.Same
	}
	return operand.Different
}

func (a *Array) String() string {
	return a.name
}

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

// Package field implements the leaf operands of expression trees:
// distributed fields, grid arrays, and scalars.
package field

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

// ErrLayout is returned when data is requested or written in a layout unknown to a field.
var ErrLayout = errors.New("invalid layout")

type (
	// Option configures a field or an array at construction.
	Option func(*settings)

	settings struct {
		name   string
		dt     dtype.DataType
		layout *domain.Layout
		scale  float64
	}
)

// WithName sets the name of the field.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithDType sets the data type of the values.
func WithDType(dt dtype.DataType) Option {
	return func(s *settings) {
		s.dt = dt
	}
}

// WithLayout sets the initial layout of a field.
func WithLayout(layout *domain.Layout) Option {
	return func(s *settings) {
		s.layout = layout
	}
}

// WithScale sets the initial grid scale.
func WithScale(scale float64) Option {
	return func(s *settings) {
		s.scale = scale
	}
}

var numNames atomic.Int64

func newSettings(prefix string, dom *domain.Domain, opts []Option) (*settings, error) {
	if dom == nil {
		return nil, errors.Errorf("cannot create a %s without a domain", prefix)
	}
	s := &settings{dt: dtype.Float64, scale: 1}
	if dist := dom.Dist(); dist != nil {
		s.layout = dist.CoeffLayout()
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = fmt.Sprintf("%s%d", prefix, numNames.Add(1))
	}
	if _, err := kernels.FactoryFor(s.dt); err != nil {
		return nil, err
	}
	return s, nil
}

// Field is a scalar field on a domain.
// The data of a field is stored either on the grid or as spectral coefficients.
// A field is not safe for concurrent use.
type Field struct {
	name   string
	dom    *domain.Domain
	dt     dtype.DataType
	layout *domain.Layout
	scale  float64
	data   kernels.Array
}

var _ operand.Operand = (*Field)(nil)

// New returns a new field filled with zeros.
// By default, the field stores float64 coefficients sampled at scale 1.
func New(dom *domain.Domain, opts ...Option) (*Field, error) {
	s, err := newSettings("field", dom, opts)
	if err != nil {
		return nil, err
	}
	f := &Field{
		name:  s.name,
		dom:   dom,
		dt:    s.dt,
		scale: s.scale,
	}
	if err := f.checkLayout(s.layout); err != nil {
		return nil, err
	}
	f.layout = s.layout
	return f, nil
}

// Name of the field.
func (f *Field) Name() string {
	return f.name
}

// Kind returns FieldKind.
func (f *Field) Kind() operand.Kind {
	return operand.FieldKind
}

// Domain on which the field is defined.
func (f *Field) Domain() *domain.Domain {
	return f.dom
}

// Dist returns the distributor of the field.
func (f *Field) Dist() *domain.Distributor {
	return f.dom.Dist()
}

// Bases returns the basis of the field along each axis.
func (f *Field) Bases() domain.Bases {
	return f.dom.Bases()
}

// DType returns the data type of the values.
func (f *Field) DType() dtype.DataType {
	return f.dt
}

// Layout returns the current layout of the data.
func (f *Field) Layout() *domain.Layout {
	return f.layout
}

// IsLayout returns true if the data is currently stored in a given layout.
func (f *Field) IsLayout(layout *domain.Layout) bool {
	return f.layout == layout
}

// Scale returns the grid scale of the field.
func (f *Field) Scale() float64 {
	return f.scale
}

// Shape returns the axis lengths of the data in the current layout.
func (f *Field) Shape() []int {
	return f.dom.Shape(f.layout, f.scale)
}

// Data returns the data of the field in its current layout.
func (f *Field) Data() kernels.Array {
	if f.data == nil {
		factory, _ := kernels.FactoryFor(f.dt)
		f.data = factory.Zero(f.Shape())
	}
	return f.data
}

// Values returns a copy of the data of the field converted to float64.
func (f *Field) Values() []float64 {
	return f.Data().Float64s()
}

func (f *Field) checkLayout(layout *domain.Layout) error {
	dist := f.dom.Dist()
	if dist == nil {
		if layout != nil {
			return errors.Wrapf(ErrLayout, "field %s has no distributor but layout %s was given", f.name, layout)
		}
		return nil
	}
	if layout != dist.GridLayout() && layout != dist.CoeffLayout() {
		return errors.Wrapf(ErrLayout, "layout %s does not belong to the distributor of field %s", layout, f.name)
	}
	return nil
}

// Write stores data in a given layout.
// The axis lengths of the data must match the domain shape in that layout.
func (f *Field) Write(layout *domain.Layout, data kernels.Array) error {
	if err := f.checkLayout(layout); err != nil {
		return err
	}
	sh := data.Shape()
	if sh.DType != f.dt {
		return errors.Errorf("cannot write %s data into %s field %s", sh.DType, f.dt, f.name)
	}
	want := f.dom.Shape(layout, f.scale)
	if !slices.Equal(sh.AxisLengths, want) {
		return errors.Errorf("cannot write data with axis lengths %v into field %s: layout %s requires %v", sh.AxisLengths, f.name, layout, want)
	}
	f.layout = layout
	f.data = data
	return nil
}

// SetValues stores float64 values in a given layout.
func (f *Field) SetValues(layout *domain.Layout, vals []float64) error {
	factory, err := kernels.FactoryFor(f.dt)
	if err != nil {
		return err
	}
	data, err := factory.FromFloat64s(vals, f.dom.Shape(layout, f.scale))
	if err != nil {
		return err
	}
	return f.Write(layout, data)
}

// RequireLayout transforms the data of the field into a given layout.
func (f *Field) RequireLayout(layout *domain.Layout) error {
	if f.layout == layout {
		return nil
	}
	if err := f.checkLayout(layout); err != nil {
		return err
	}
	tr := f.dom.Dist().Transformer()
	var data kernels.Array
	var err error
	if layout.Grid() {
		data, err = tr.ToGrid(f.dom, f.scale, f.Data())
	} else {
		data, err = tr.ToCoeff(f.dom, f.scale, f.Data())
	}
	if err != nil {
		return errors.Wrapf(err, "cannot transform field %s from %s to %s", f.name, f.layout, layout)
	}
	return f.Write(layout, data)
}

// RequireGrid transforms the data to the grid layout.
func (f *Field) RequireGrid() error {
	dist := f.dom.Dist()
	if dist == nil {
		return nil
	}
	return f.RequireLayout(dist.GridLayout())
}

// RequireCoeff transforms the data to the coefficient layout.
func (f *Field) RequireCoeff() error {
	dist := f.dom.Dist()
	if dist == nil {
		return nil
	}
	return f.RequireLayout(dist.CoeffLayout())
}

// RequireScales resamples the field to a new grid scale.
// The layout of the field is preserved.
func (f *Field) RequireScales(scale float64) error {
	if scale == f.scale {
		return nil
	}
	if f.layout == nil || !f.layout.Grid() {
		f.scale = scale
		return nil
	}
	tr := f.dom.Dist().Transformer()
	coeff, err := tr.ToCoeff(f.dom, f.scale, f.Data())
	if err != nil {
		return errors.Wrapf(err, "cannot resample field %s", f.name)
	}
	grid, err := tr.ToGrid(f.dom, scale, coeff)
	if err != nil {
		return errors.Wrapf(err, "cannot resample field %s", f.name)
	}
	f.scale = scale
	return f.Write(f.layout, grid)
}

// SetScales changes the grid scale of the field without preserving grid data.
func (f *Field) SetScales(scale float64) {
	if scale == f.scale {
		return
	}
	f.scale = scale
	if f.layout != nil && f.layout.Grid() {
		f.data = nil
	}
}

// Atoms returns the field if its kind is requested.
func (f *Field) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(f, kinds)
}

// Has returns true if the field is one of the targets.
func (f *Field) Has(targets ...any) bool {
	return operand.LeafHas(f, targets)
}

// Replace returns new if the field is old.
func (f *Field) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(f, old, new)
}

// Compare fields by identity.
func (f *Field) Compare(other operand.Operand) operand.Comparison {
	otherF, ok := other.(*Field)
	if !ok {
		return operand.Incomparable
	}
	if otherF == f {
		return operand.Same
	}
	return operand.Different
}

func (f *Field) String() string {
	return f.name
}

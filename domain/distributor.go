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

package domain

import (
	"slices"

	"github.com/pkg/errors"
)

// ErrIncompatibleDistributors is returned when operands are defined on different distributors.
var ErrIncompatibleDistributors = errors.New("incompatible distributors")

type (
	// Layout is a data representation of a field.
	Layout struct {
		name string
		grid bool
	}

	// Distributor owns the coordinates and data layouts shared by a set of fields.
	Distributor struct {
		coords    []string
		grid      *Layout
		coeff     *Layout
		transform Transformer
	}

	// Option configures a distributor.
	Option func(*Distributor)

	// Distributed is implemented by values attached to a distributor.
	Distributed interface {
		Dist() *Distributor
	}
)

// Name of the layout.
func (l *Layout) Name() string {
	return l.name
}

// Grid returns true if the layout stores values on the grid.
func (l *Layout) Grid() bool {
	return l.grid
}

func (l *Layout) String() string {
	if l == nil {
		return "<nil layout>"
	}
	return l.name
}

// WithTransformer sets the transformer moving data between layouts.
func WithTransformer(t Transformer) Option {
	return func(d *Distributor) {
		d.transform = t
	}
}

// NewDistributor returns a distributor given the names of its coordinates.
func NewDistributor(coords []string, opts ...Option) *Distributor {
	d := &Distributor{
		coords:    slices.Clone(coords),
		grid:      &Layout{name: "grid", grid: true},
		coeff:     &Layout{name: "coeff"},
		transform: Truncation{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dim returns the number of axes.
func (d *Distributor) Dim() int {
	return len(d.coords)
}

// Coords returns the names of the coordinates.
func (d *Distributor) Coords() []string {
	return slices.Clone(d.coords)
}

// GridLayout returns the layout storing values on the grid.
func (d *Distributor) GridLayout() *Layout {
	return d.grid
}

// CoeffLayout returns the layout storing spectral coefficients.
func (d *Distributor) CoeffLayout() *Layout {
	return d.coeff
}

// Transformer returns the transformer moving data between layouts.
func (d *Distributor) Transformer() Transformer {
	return d.transform
}

// Unify returns the distributor shared by all values implementing Distributed.
// Values without a distributor are ignored. Additional distributors
// can be specified with extra (nil entries are ignored).
// It returns nil if no value has a distributor.
func Unify[T any](vals []T, extra ...*Distributor) (*Distributor, error) {
	var dist *Distributor
	check := func(d *Distributor) error {
		switch {
		case d == nil:
		case dist == nil:
			dist = d
		case dist != d:
			return errors.Wrapf(ErrIncompatibleDistributors, "distributor over %v differs from distributor over %v", d.coords, dist.coords)
		}
		return nil
	}
	for _, val := range vals {
		distributed, ok := any(val).(Distributed)
		if !ok {
			continue
		}
		if err := check(distributed.Dist()); err != nil {
			return nil, err
		}
	}
	for _, d := range extra {
		if err := check(d); err != nil {
			return nil, err
		}
	}
	return dist, nil
}

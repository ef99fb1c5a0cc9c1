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
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Domain is a set of bases on a distributor.
type Domain struct {
	dist  *Distributor
	bases Bases
}

// New returns a domain given a distributor and a basis per axis.
// A nil distributor defines a domain without any axis.
func New(dist *Distributor, bases Bases) (*Domain, error) {
	dim := 0
	if dist != nil {
		dim = dist.Dim()
	}
	if len(bases) == 0 {
		bases = make(Bases, dim)
	}
	if len(bases) != dim {
		return nil, errors.Errorf("domain requires %d bases but got %d", dim, len(bases))
	}
	return &Domain{dist: dist, bases: slices.Clone(bases)}, nil
}

// Dist returns the distributor of the domain.
func (d *Domain) Dist() *Distributor {
	return d.dist
}

// Bases returns the basis along each axis.
func (d *Domain) Bases() Bases {
	return slices.Clone(d.bases)
}

// Dim returns the number of axes.
func (d *Domain) Dim() int {
	return len(d.bases)
}

// Dealias returns the largest dealias scale of the bases, or 1 if the domain has no basis.
func (d *Domain) Dealias() float64 {
	scale := 1.0
	for _, b := range d.bases {
		if b != nil {
			scale = max(scale, b.Dealias())
		}
	}
	return scale
}

// CoeffShape returns the axis lengths of data in the coefficient layout.
func (d *Domain) CoeffShape() []int {
	dims := make([]int, len(d.bases))
	for i, b := range d.bases {
		dims[i] = 1
		if b != nil {
			dims[i] = b.Size()
		}
	}
	return dims
}

// GridShape returns the axis lengths of data in the grid layout for a given scale.
func (d *Domain) GridShape(scale float64) []int {
	dims := make([]int, len(d.bases))
	for i, b := range d.bases {
		dims[i] = 1
		if b != nil {
			dims[i] = max(1, int(math.Ceil(scale*float64(b.Size()))))
		}
	}
	return dims
}

// Shape returns the axis lengths of data given a layout and a scale.
func (d *Domain) Shape(layout *Layout, scale float64) []int {
	if layout != nil && layout.Grid() {
		return d.GridShape(scale)
	}
	return d.CoeffShape()
}

func (d *Domain) String() string {
	return fmt.Sprintf("Domain%s", d.bases)
}

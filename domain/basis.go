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

// Package domain describes the coordinate domains on which fields live:
// spectral bases, data layouts, and the distributor owning them.
package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrIncompatibleBases is returned when bases along the same axis cannot be combined.
var ErrIncompatibleBases = errors.New("incompatible bases")

type (
	// Basis is a spectral basis along one coordinate.
	Basis interface {
		// Name of the basis family, for example Fourier.
		Name() string
		// Coord returns the name of the coordinate spanned by the basis.
		Coord() string
		// Size returns the number of coefficients of the basis.
		Size() int
		// Dealias returns the grid scale factor used to dealias products.
		Dealias() float64
		// Bounds returns the interval covered by the basis.
		Bounds() (float64, float64)
	}

	// BasisOption configures a basis at construction.
	BasisOption func(*basis)

	basis struct {
		coord   string
		size    int
		dealias float64
		bounds  [2]float64
	}
)

// WithDealias sets the dealias scale factor of a basis.
func WithDealias(scale float64) BasisOption {
	return func(b *basis) {
		b.dealias = scale
	}
}

// WithBounds sets the interval covered by a basis.
func WithBounds(lo, hi float64) BasisOption {
	return func(b *basis) {
		b.bounds = [2]float64{lo, hi}
	}
}

func newBasis(coord string, size int, bounds [2]float64, opts []BasisOption) basis {
	b := basis{coord: coord, size: size, dealias: 1, bounds: bounds}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *basis) Coord() string {
	return b.coord
}

func (b *basis) Size() int {
	return b.size
}

func (b *basis) Dealias() float64 {
	return b.dealias
}

func (b *basis) Bounds() (float64, float64) {
	return b.bounds[0], b.bounds[1]
}

// Fourier is a periodic basis of complex exponentials stored as real sine/cosine pairs.
type Fourier struct {
	basis
}

var _ Basis = (*Fourier)(nil)

// NewFourier returns a Fourier basis along a coordinate.
// The default interval is [0, 2π).
func NewFourier(coord string, size int, opts ...BasisOption) *Fourier {
	return &Fourier{basis: newBasis(coord, size, [2]float64{0, 2 * math.Pi}, opts)}
}

// Name of the basis family.
func (*Fourier) Name() string {
	return "Fourier"
}

func (b *Fourier) String() string {
	return fmt.Sprintf("Fourier(%s, %d)", b.coord, b.size)
}

// Chebyshev is a basis of Chebyshev polynomials on a bounded interval.
type Chebyshev struct {
	basis
}

var _ Basis = (*Chebyshev)(nil)

// NewChebyshev returns a Chebyshev basis along a coordinate.
// The default interval is [-1, 1].
func NewChebyshev(coord string, size int, opts ...BasisOption) *Chebyshev {
	return &Chebyshev{basis: newBasis(coord, size, [2]float64{-1, 1}, opts)}
}

// Name of the basis family.
func (*Chebyshev) Name() string {
	return "Chebyshev"
}

func (b *Chebyshev) String() string {
	return fmt.Sprintf("Chebyshev(%s, %d)", b.coord, b.size)
}

// Bases assigns a basis to every axis of a distributor.
// A nil entry means that the data is constant along that axis.
type Bases []Basis

// Equal returns true if both sets of bases are identical axis by axis.
func (bs Bases) Equal(other Bases) bool {
	if len(bs) != len(other) {
		return false
	}
	for i, b := range bs {
		if b != other[i] {
			return false
		}
	}
	return true
}

// Any returns true if at least one axis has a basis.
func (bs Bases) Any() bool {
	for _, b := range bs {
		if b != nil {
			return true
		}
	}
	return false
}

func (bs Bases) String() string {
	ss := make([]string, len(bs))
	for i, b := range bs {
		if b == nil {
			ss[i] = "nil"
			continue
		}
		ss[i] = fmt.Sprint(b)
	}
	return "(" + strings.Join(ss, ", ") + ")"
}

// CombineBases merges the bases of several operands on a distributor with dim axes.
// Empty bases (operands without any axis, like scalars) are skipped.
// Along each axis, nil bases are absorbed and non-nil bases must be identical.
func CombineBases(dim int, all ...Bases) (Bases, error) {
	out := make(Bases, dim)
	for _, bs := range all {
		if len(bs) == 0 {
			continue
		}
		if len(bs) != dim {
			return nil, errors.Errorf("cannot combine bases %s with %d axes on a %d-dimensional distributor", bs, len(bs), dim)
		}
		for i, b := range bs {
			switch {
			case b == nil:
			case out[i] == nil:
				out[i] = b
			case out[i] != b:
				return nil, errors.Wrapf(ErrIncompatibleBases, "axis %d: %v and %v", i, out[i], b)
			}
		}
	}
	return out, nil
}

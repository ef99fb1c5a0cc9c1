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

import "github.com/gx-org/spectral/kernels"

type (
	// Transformer moves field data between the grid and coefficient layouts.
	Transformer interface {
		// ToCoeff returns the coefficients of grid data sampled at a given scale.
		ToCoeff(dom *Domain, scale float64, grid kernels.Array) (kernels.Array, error)
		// ToGrid returns grid data sampled at a given scale from coefficients.
		ToGrid(dom *Domain, scale float64, coeff kernels.Array) (kernels.Array, error)
	}

	// Truncation is the transformer used when no basis kernels are registered.
	// It keeps the data values and only truncates or zero-pads them to the
	// axis lengths of the target layout.
	Truncation struct{}
)

var _ Transformer = Truncation{}

// ToCoeff resizes grid data to the coefficient axis lengths.
func (Truncation) ToCoeff(dom *Domain, scale float64, grid kernels.Array) (kernels.Array, error) {
	return grid.Resize(dom.CoeffShape())
}

// ToGrid resizes coefficients to the grid axis lengths.
func (Truncation) ToGrid(dom *Domain, scale float64, coeff kernels.Array) (kernels.Array, error) {
	return coeff.Resize(dom.GridShape(scale))
}

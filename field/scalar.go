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
	"strconv"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
)

// Scalar is a constant number.
type Scalar struct {
	Value float64
}

var _ operand.Operand = Scalar{}

// Kind returns ScalarKind.
func (Scalar) Kind() operand.Kind {
	return operand.ScalarKind
}

// Data returns the value as an array without axis.
func (s Scalar) Data(dt dtype.DataType) (kernels.Array, error) {
	factory, err := kernels.FactoryFor(dt)
	if err != nil {
		return nil, err
	}
	return factory.Atom(s.Value), nil
}

// Atoms returns the scalar if its kind is requested.
func (s Scalar) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	return operand.LeafAtoms(s, kinds)
}

// Has returns true if the scalar is equal to one of the targets.
func (s Scalar) Has(targets ...any) bool {
	return operand.LeafHas(s, targets)
}

// Replace returns new if the scalar is equal to old.
func (s Scalar) Replace(old, new any) (operand.Operand, error) {
	return operand.LeafReplace(s, old, new)
}

// Compare scalars by value.
func (s Scalar) Compare(other operand.Operand) operand.Comparison {
	otherS, ok := other.(Scalar)
	if !ok {
		return operand.Incomparable
	}
	if otherS.Value == s.Value {
		return operand.Same
	}
	return operand.Different
}

func (s Scalar) String() string {
	return strconv.FormatFloat(s.Value, 'g', -1, 64)
}

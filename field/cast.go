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
	"strings"

	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/kernels"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

// ErrCannotCast is returned when a value cannot be converted into an operand.
var ErrCannotCast = errors.New("cannot cast to operand")

// Cast converts a value into an operand.
// Operands are returned unchanged, numbers and numeric strings become scalars,
// and kernel arrays become arrays on the grid of the domain.
func Cast(val any, dom *domain.Domain) (operand.Operand, error) {
	switch valT := val.(type) {
	case operand.Operand:
		return valT, nil
	case float64:
		return Scalar{Value: valT}, nil
	case float32:
		return Scalar{Value: float64(valT)}, nil
	case int:
		return Scalar{Value: float64(valT)}, nil
	case int32:
		return Scalar{Value: float64(valT)}, nil
	case int64:
		return Scalar{Value: float64(valT)}, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(valT), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrCannotCast, "%q is not a number", valT)
		}
		return Scalar{Value: f}, nil
	case kernels.Array:
		return castArray(valT, dom)
	}
	return nil, errors.Wrapf(ErrCannotCast, "value of type %T", val)
}

func castArray(data kernels.Array, dom *domain.Domain) (*Array, error) {
	if dom == nil {
		return nil, errors.Wrapf(ErrCannotCast, "array %s requires a domain", data)
	}
	arr, err := NewArray(dom, WithDType(data.Shape().DType))
	if err != nil {
		return nil, err
	}
	if err := arr.Write(arr.Layout(), data); err != nil {
		return nil, errors.Wrapf(ErrCannotCast, "%v", err)
	}
	return arr, nil
}

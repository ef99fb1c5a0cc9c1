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

package kernels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gx-org/backend/dtype"
)

// Sprint returns a string representation of an array
// prefixed by its axis lengths and data type, for example [2][3]float32{...}.
func Sprint[T dtype.Float](data []T, dims []int) string {
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	b.WriteString(dtype.Generic[T]().String())
	if len(data) != Size(dims) {
		fmt.Fprintf(&b, "{<%d values for %d elements>}", len(data), Size(dims))
		return b.String()
	}
	if len(dims) == 0 {
		b.WriteString("(")
		b.WriteString(formatValue(data[0]))
		b.WriteString(")")
		return b.String()
	}
	writeAxis(&b, data, dims)
	return b.String()
}

func writeAxis[T dtype.Float](b *strings.Builder, data []T, dims []int) {
	b.WriteString("{")
	if len(dims) == 1 {
		for i, v := range data {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatValue(v))
		}
		b.WriteString("}")
		return
	}
	stride := Size(dims[1:])
	for i := range dims[0] {
		if i > 0 {
			b.WriteString(", ")
		}
		writeAxis(b, data[i*stride:(i+1)*stride], dims[1:])
	}
	b.WriteString("}")
}

func formatValue[T dtype.Float](v T) string {
	bits := 64
	if _, ok := any(v).(float32); ok {
		bits = 32
	}
	return strconv.FormatFloat(float64(v), 'g', -1, bits)
}

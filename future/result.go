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
	"fmt"

	"github.com/google/uuid"
)

// ID identifies an evaluation pass, for example the stage of a time step.
// Nodes caching their last output return it when evaluated again with the same ID.
type ID string

// NoID disables caching for an evaluation.
const NoID ID = ""

// NewID returns a new unique evaluation ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Result of the evaluation of a node: either a ready output or not ready.
type Result struct {
	out   Output
	ready bool
}

// NotReady is returned when a node cannot be evaluated yet.
var NotReady = Result{}

// Ready returns a result holding an output.
func Ready(out Output) Result {
	return Result{out: out, ready: true}
}

// IsReady returns true if the result holds an output.
func (r Result) IsReady() bool {
	return r.ready
}

// Value returns the output of the evaluation and true if the result is ready.
func (r Result) Value() (Output, bool) {
	return r.out, r.ready
}

func (r Result) String() string {
	if !r.ready {
		return "NotReady"
	}
	return fmt.Sprintf("Ready(%s)", r.out)
}

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

// Package schedule evaluates a set of expressions, changing the layouts
// of the fields as late as possible.
package schedule

import (
	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/base/uname"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/operand"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// ErrDuplicateTask is returned when a task name is already used.
var ErrDuplicateTask = errors.New("duplicate task")

// Phase of a step in which a task has been evaluated.
type Phase int

const (
	// Current is the phase in which fields are in their current layouts.
	Current Phase = iota
	// Coeff is the phase in which fields are in the coefficient layout.
	Coeff
	// Grid is the phase in which fields are in the grid layout.
	Grid
	// Forced is the phase in which the remaining tasks are forced.
	Forced
)

func (p Phase) String() string {
	switch p {
	case Current:
		return "current"
	case Coeff:
		return "coeff"
	case Grid:
		return "grid"
	case Forced:
		return "forced"
	}
	return "unknown"
}

type (
	// Option configures a scheduler.
	Option func(*Scheduler)

	// Scheduler evaluates named tasks.
	Scheduler struct {
		tasks  *ordered.Map[string, *future.Node]
		names  *uname.Unique
		logger hclog.Logger
	}

	// Result of a task.
	Result struct {
		Out   future.Output
		Phase Phase
	}
)

// WithLogger sets the logger of the scheduler.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New returns a scheduler without tasks.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		tasks:  ordered.NewMap[string, *future.Node](),
		names:  uname.New(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add a task to the scheduler.
func (s *Scheduler) Add(name string, node *future.Node) error {
	if !s.names.Register(name) {
		return errors.Wrapf(ErrDuplicateTask, "task %q", name)
	}
	s.tasks.Store(name, node)
	return nil
}

// Push adds a task named after its operator and returns the name of the task.
func (s *Scheduler) Push(node *future.Node) string {
	name := s.names.Name(node.Name())
	s.tasks.Store(name, node)
	return name
}

// Remove a task from the scheduler.
func (s *Scheduler) Remove(name string) {
	s.tasks.Delete(name)
	s.names.Release(name)
}

// Tasks returns the names of the tasks in the order they were added.
func (s *Scheduler) Tasks() []string {
	var names []string
	for name := range s.tasks.Keys() {
		names = append(names, name)
	}
	return names
}

// Step evaluates all the tasks for an evaluation id.
//
// Tasks are first attempted with the fields in their current layouts.
// The fields of the remaining tasks are then moved to the coefficient
// layout before attempting the tasks again, then to the grid layout.
// The tasks still not ready are finally forced.
func (s *Scheduler) Step(id future.ID) (*ordered.Map[string, Result], error) {
	done := make(map[string]Result)
	var pending []string
	for name := range s.tasks.Keys() {
		pending = append(pending, name)
	}
	for _, phase := range []Phase{Current, Coeff, Grid, Forced} {
		if len(pending) == 0 {
			break
		}
		s.logger.Debug("scheduling phase", "phase", phase.String(), "pending", len(pending))
		if err := s.prepare(phase, pending); err != nil {
			return nil, err
		}
		var next []string
		for _, name := range pending {
			node, _ := s.tasks.Load(name)
			res, err := node.Evaluate(id, phase == Forced)
			if err != nil {
				return nil, errors.Wrapf(err, "task %q", name)
			}
			out, ok := res.Value()
			if !ok {
				next = append(next, name)
				continue
			}
			s.logger.Trace("task evaluated", "task", name, "phase", phase.String())
			done[name] = Result{Out: out, Phase: phase}
		}
		pending = next
	}
	results := ordered.NewMap[string, Result]()
	for name := range s.tasks.Keys() {
		results.Store(name, done[name])
	}
	return results, nil
}

// prepare changes the layouts of the fields of pending tasks for a phase.
func (s *Scheduler) prepare(phase Phase, pending []string) error {
	if phase != Coeff && phase != Grid {
		return nil
	}
	fields := ordered.NewSet[operand.Operand]()
	for _, name := range pending {
		node, _ := s.tasks.Load(name)
		fields.Update(node.Atoms(operand.FieldKind))
	}
	for atom := range fields.All() {
		f, ok := atom.(*field.Field)
		if !ok {
			continue
		}
		var err error
		if phase == Coeff {
			err = f.RequireCoeff()
		} else {
			err = f.RequireGrid()
		}
		if err != nil {
			return errors.Wrapf(err, "cannot move %s to the %s layout", f, phase)
		}
	}
	return nil
}

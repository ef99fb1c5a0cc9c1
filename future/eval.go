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
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/operand"
	"github.com/pkg/errors"
)

var (
	_ Output = (*field.Field)(nil)
	_ Output = (*field.Array)(nil)
)

// scalable is implemented by operands which data can be resampled.
type scalable interface {
	RequireScales(scale float64) error
}

// Evaluate the node recursively.
//
// If force is true, the layouts of the arguments are changed to the layouts
// required by the operators. Otherwise, the result is NotReady if any
// operator in the tree requires a layout change.
// If the node caches its output and id is not NoID, the output of the
// last evaluation with the same id is returned without any computation.
func (n *Node) Evaluate(id ID, force bool) (Result, error) {
	name := n.op.Name()
	n.settings.metrics.Evaluation(name, force)
	if n.storeLast && id != NoID {
		if id == n.lastID {
			n.settings.logger.Trace("cache hit", "node", n.String(), "id", id)
			n.settings.metrics.CacheHit(name)
			return Ready(n.lastOut), nil
		}
		n.lastID, n.lastOut = NoID, nil
	}
	args, ready, err := n.resolve(id, force)
	if err != nil {
		return NotReady, err
	}
	if !ready {
		n.notReady("argument not ready")
		return NotReady, nil
	}
	if force {
		n.settings.logger.Trace("enforcing conditions", "node", n.String())
		n.settings.metrics.Enforcement(name)
		if err := n.op.EnforceConditions(args); err != nil {
			return NotReady, errors.Wrapf(err, "cannot enforce the conditions of %s", n)
		}
	} else {
		ok, err := n.op.CheckConditions(args)
		if err != nil {
			return NotReady, errors.Wrapf(err, "cannot check the conditions of %s", n)
		}
		if !ok {
			n.notReady("conditions not satisfied")
			return NotReady, nil
		}
	}
	out, err := n.output()
	if err != nil {
		return NotReady, err
	}
	out.SetScales(n.scale)
	if err := n.op.Operate(args, out); err != nil {
		return NotReady, errors.Wrapf(err, "cannot evaluate %s", n)
	}
	if n.storeLast && id != NoID {
		n.lastID, n.lastOut = id, out
	}
	return Ready(out), nil
}

// Attempt evaluates the node without changing the layout of any argument.
func (n *Node) Attempt(id ID) (Result, error) {
	return n.Evaluate(id, false)
}

func (n *Node) notReady(reason string) {
	n.settings.logger.Trace("not ready", "node", n.String(), "reason", reason)
	n.settings.metrics.NotReadyResult(n.op.Name())
}

// resolve evaluates the arguments of the node into a new slice.
// Every argument is resolved, even after an argument was found not ready,
// so that the side effects of the evaluation of all the arguments occur.
// Resolution stops at the first error.
//
// Leaves and the outputs allocated by sub-nodes are resampled at the scale
// of the node. Outputs given to a sub-node with WithOut are left unchanged.
func (n *Node) resolve(id ID, force bool) ([]operand.Operand, bool, error) {
	resolved := make([]operand.Operand, len(n.args))
	ready := true
	for i, arg := range n.args {
		rescale := true
		if sub, ok := arg.(*Node); ok {
			res, err := sub.Evaluate(id, force)
			if err != nil {
				return nil, false, err
			}
			out, ok := res.Value()
			if !ok {
				ready = false
				continue
			}
			arg = out
			rescale = sub.Out() == nil
		}
		if sc, ok := arg.(scalable); ok && rescale {
			if err := sc.RequireScales(n.scale); err != nil {
				return nil, false, errors.Wrapf(err, "argument %d of %s", i, n)
			}
		}
		resolved[i] = arg
	}
	return resolved, ready, nil
}

// output returns the operand in which the result of the node is written.
func (n *Node) output() (Output, error) {
	if n.settings.out != nil {
		return n.settings.out, nil
	}
	opts := []field.Option{field.WithDType(n.dt), field.WithScale(n.scale)}
	if n.variant == FieldVariant {
		return field.New(n.dom, opts...)
	}
	return field.NewArray(n.dom, opts...)
}

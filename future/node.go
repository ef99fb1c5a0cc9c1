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

// Package future implements deferred operations over operands.
//
// A node stores an operator and its arguments. Arguments are either
// leaves holding data or other nodes, forming an expression tree.
// Nodes are evaluated recursively, once the data of every argument
// is in the layout required by the operators.
package future

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/spectral/base/ordered"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/metrics"
	"github.com/gx-org/spectral/operand"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type (
	// Option configures a node at construction.
	Option func(*settings)

	settings struct {
		out       Output
		dist      *domain.Distributor
		scale     float64
		dealias   bool
		storeLast bool
		logger    hclog.Logger
		metrics   *metrics.Metrics
	}
)

// WithOut sets the output written by the node when evaluated.
// The bases of the output must match the bases of the node.
func WithOut(out Output) Option {
	return func(s *settings) {
		s.out = out
	}
}

// WithDistributor adds a distributor to the distributors of the arguments.
// It is used by nodes which arguments have no distributor.
func WithDistributor(dist *domain.Distributor) Option {
	return func(s *settings) {
		s.dist = dist
	}
}

// WithScale sets the scale at which arguments are sampled,
// instead of the dealias scale of the domain of the node.
func WithScale(scale float64) Option {
	return func(s *settings) {
		s.scale = scale
		s.dealias = false
	}
}

// WithDealias sets the scale of the node to the dealias scale of its domain.
// This is the default. It cancels a previous WithScale.
func WithDealias() Option {
	return func(s *settings) {
		s.dealias = true
	}
}

// WithStoreLast enables the cache of the last output.
func WithStoreLast() Option {
	return func(s *settings) {
		s.storeLast = true
	}
}

// WithLogger sets the logger of the node.
func WithLogger(logger hclog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics sets the counters updated when the node is evaluated.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// Node is a deferred operation over a list of operands.
// A node is not safe for concurrent use.
type Node struct {
	op       Operator
	variant  Variant
	args     []operand.Operand
	original []operand.Operand
	settings settings

	bases domain.Bases
	dist  *domain.Distributor
	dom   *domain.Domain
	dt    dtype.DataType
	scale float64

	storeLast bool
	lastID    ID
	lastOut   Output
}

var _ operand.Operand = (*Node)(nil)

// New returns a node applying an operator to arguments.
func New(op Operator, args []operand.Operand, opts ...Option) (*Node, error) {
	s := settings{scale: 1, dealias: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	return newNode(op, args, s)
}

func newNode(op Operator, args []operand.Operand, s settings) (*Node, error) {
	if arity, ok := op.(arityOperator); ok && arity.Arity() >= 0 && arity.Arity() != len(args) {
		return nil, errors.Wrapf(ErrArity, "%s requires %d argument(s) but got %d", op.Name(), arity.Arity(), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			return nil, errors.Errorf("argument %d of %s is nil", i, op.Name())
		}
	}
	extra := []*domain.Distributor{s.dist}
	if s.out != nil {
		extra = append(extra, s.out.Dist())
	}
	dist, err := domain.Unify(args, extra...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build %s", op.Name())
	}
	bases, err := op.BuildBases(dist, args)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build the bases of %s", op.Name())
	}
	if s.out != nil && !s.out.Bases().Equal(bases) {
		return nil, errors.Wrapf(ErrOutputBasesMismatch, "%s output %s has bases %s but the operation requires %s", op.Name(), s.out, s.out.Bases(), bases)
	}
	dom, err := domain.New(dist, bases)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build the domain of %s", op.Name())
	}
	n := &Node{
		op:        op,
		variant:   op.Variant(args),
		args:      slices.Clone(args),
		original:  slices.Clone(args),
		settings:  s,
		bases:     bases,
		dist:      dist,
		dom:       dom,
		scale:     s.scale,
		storeLast: s.storeLast,
	}
	if s.dealias {
		n.scale = dom.Dealias()
	}
	if sl, ok := op.(storeLastOperator); ok && sl.StoreLast() {
		n.storeLast = true
	}
	if dto, ok := op.(dtypeOperator); ok {
		n.dt = dto.DType(args)
	} else {
		n.dt = DTypeOf(args)
	}
	return n, nil
}

// Operator returns the operator applied by the node.
func (n *Node) Operator() Operator {
	return n.op
}

// Name returns the name of the operator.
func (n *Node) Name() string {
	return n.op.Name()
}

// Kind returns FutureKind.
func (n *Node) Kind() operand.Kind {
	return operand.FutureKind
}

// Variant returns the kind of output produced by the node.
func (n *Node) Variant() Variant {
	return n.variant
}

// Args returns the current arguments of the node.
func (n *Node) Args() []operand.Operand {
	return slices.Clone(n.args)
}

// OriginalArgs returns the arguments given at construction.
func (n *Node) OriginalArgs() []operand.Operand {
	return slices.Clone(n.original)
}

// Out returns the output given at construction, nil if none.
func (n *Node) Out() Output {
	return n.settings.out
}

// Bases returns the bases of the output.
func (n *Node) Bases() domain.Bases {
	return slices.Clone(n.bases)
}

// Dist returns the distributor shared by the arguments, nil if no argument has one.
func (n *Node) Dist() *domain.Distributor {
	return n.dist
}

// Domain returns the domain of the output.
func (n *Node) Domain() *domain.Domain {
	return n.dom
}

// DType returns the data type of the output.
func (n *Node) DType() dtype.DataType {
	return n.dt
}

// Scale returns the scale at which arguments are sampled.
func (n *Node) Scale() float64 {
	return n.scale
}

// StoreLast returns true if the node caches its last output.
func (n *Node) StoreLast() bool {
	return n.storeLast
}

// GridLayout returns the grid layout of the distributor, nil without distributor.
func (n *Node) GridLayout() *domain.Layout {
	if n.dist == nil {
		return nil
	}
	return n.dist.GridLayout()
}

// CoeffLayout returns the coefficient layout of the distributor, nil without distributor.
func (n *Node) CoeffLayout() *domain.Layout {
	if n.dist == nil {
		return nil
	}
	return n.dist.CoeffLayout()
}

// Reset restores the arguments given at construction.
func (n *Node) Reset() {
	n.args = slices.Clone(n.original)
}

// Atoms returns the leaves of the given kinds in the tree.
func (n *Node) Atoms(kinds ...operand.Kind) *ordered.Set[operand.Operand] {
	atoms := ordered.NewSet[operand.Operand]()
	for _, arg := range n.args {
		atoms.Update(arg.Atoms(kinds...))
	}
	return atoms
}

// Has returns true if the operator of the node is a target
// or if any argument has one of the targets.
func (n *Node) Has(targets ...any) bool {
	for _, target := range targets {
		if sameOperator(n.op, target) {
			return true
		}
	}
	for _, arg := range n.args {
		if arg.Has(targets...) {
			return true
		}
	}
	return false
}

// Replace returns a new tree in which old has been replaced by new.
// old is either an operand or an operator.
func (n *Node) Replace(old, new any) (operand.Operand, error) {
	if oldOp, ok := old.(operand.Operand); ok && operand.Equal(n, oldOp) {
		newOp, ok := new.(operand.Operand)
		if !ok {
			return nil, errors.Errorf("cannot replace %s with %T: not an operand", n, new)
		}
		return newOp, nil
	}
	args := make([]operand.Operand, len(n.args))
	for i, arg := range n.args {
		var err error
		if args[i], err = arg.Replace(old, new); err != nil {
			return nil, err
		}
	}
	op := n.op
	if sameOperator(n.op, old) {
		newOp, ok := new.(Operator)
		if !ok {
			return nil, errors.Errorf("cannot replace operator %s with %T: not an operator", n.op.Name(), new)
		}
		op = newOp
	}
	s := n.settings
	s.out = nil
	return newNode(op, args, s)
}

// Compare the node with another operand.
// Nodes applying the same operator are equal if their arguments are equal.
func (n *Node) Compare(other operand.Operand) operand.Comparison {
	otherN, ok := other.(*Node)
	if !ok {
		return operand.Incomparable
	}
	if !sameOperator(n.op, otherN.op) || n.variant != otherN.variant {
		return operand.Incomparable
	}
	if operand.EqualSlices(n.args, otherN.args) {
		return operand.Same
	}
	return operand.Different
}

func (n *Node) String() string {
	args := make([]string, len(n.args))
	for i, arg := range n.args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", n.op.Name(), strings.Join(args, ", "))
}

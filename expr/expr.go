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

// Package expr builds field expressions from values and text.
package expr

import (
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"sort"
	"strconv"

	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/operand"
	"github.com/gx-org/spectral/operators"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// ErrUndefined is returned when an expression uses an identifier missing from the namespace.
var ErrUndefined = errors.New("undefined identifier")

// Func is a function which can be called in an expression.
type Func func(args ...operand.Operand) (operand.Operand, error)

// Builtins returns the functions and constants available in all expressions.
// The functions build their nodes with the given options.
func Builtins(opts ...future.Option) map[string]any {
	ns := map[string]any{
		"pi": field.Scalar{Value: math.Pi},
		"e":  field.Scalar{Value: math.E},
	}
	for _, op := range operators.MathOps() {
		ns[op.Name()] = Func(func(args ...operand.Operand) (operand.Operand, error) {
			if len(args) != 1 {
				return nil, errors.Wrapf(future.ErrArity, "%s requires 1 argument but got %d", op.Name(), len(args))
			}
			return operators.Apply(op, args[0], opts...)
		})
	}
	return ns
}

// Names returns the sorted names of a namespace.
func Names(ns map[string]any) []string {
	names := maps.Keys(ns)
	sort.Strings(names)
	return names
}

// Cast converts a value into a node producing a field on a domain.
// Nodes producing fields are returned unchanged. Other values are
// wrapped in a copy to the domain built with the given options.
func Cast(val any, dom *domain.Domain, opts ...future.Option) (*future.Node, error) {
	op, err := field.Cast(val, dom)
	if err != nil {
		return nil, err
	}
	if node, ok := op.(*future.Node); ok && node.Variant() == future.FieldVariant {
		return node, nil
	}
	return operators.Copy(op, dom, opts...)
}

// Parse builds a field expression from a Go expression.
// Identifiers are resolved in namespace first, then in the builtins.
// Supported expressions are numbers, identifiers, parentheses,
// the unary operators + and -, the binary operators + - * /,
// and function calls. Divisors must be scalars.
// Every node of the expression is built with the given options.
func Parse(text string, namespace map[string]any, dom *domain.Domain, opts ...future.Option) (*future.Node, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, err
	}
	ns := maps.Clone(Builtins(opts...))
	maps.Copy(ns, namespace)
	var errs error
	for _, ident := range Idents(expr) {
		if _, ok := ns[ident.Name]; !ok {
			errs = multierr.Append(errs, errors.Wrapf(ErrUndefined, "%s", ident.Name))
		}
	}
	if errs != nil {
		return nil, errs
	}
	p := &evaluator{ns: ns, dom: dom, opts: opts}
	val, err := p.eval(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate %q", text)
	}
	return Cast(val, dom, opts...)
}

type evaluator struct {
	ns   map[string]any
	dom  *domain.Domain
	opts []future.Option
}

func (p *evaluator) eval(expr ast.Expr) (operand.Operand, error) {
	switch exprT := expr.(type) {
	case *ast.BasicLit:
		if exprT.Kind != token.INT && exprT.Kind != token.FLOAT {
			return nil, errors.Errorf("literal %s is not a number", exprT.Value)
		}
		val, err := strconv.ParseFloat(exprT.Value, 64)
		if err != nil {
			return nil, err
		}
		return field.Scalar{Value: val}, nil
	case *ast.Ident:
		val := p.ns[exprT.Name]
		if _, ok := val.(Func); ok {
			return nil, errors.Errorf("function %s used as a value", exprT.Name)
		}
		return field.Cast(val, p.dom)
	case *ast.ParenExpr:
		return p.eval(exprT.X)
	case *ast.UnaryExpr:
		return p.evalUnary(exprT)
	case *ast.BinaryExpr:
		return p.evalBinary(exprT)
	case *ast.CallExpr:
		return p.evalCall(exprT)
	}
	return nil, errors.Errorf("unsupported expression %T", expr)
}

func (p *evaluator) evalUnary(expr *ast.UnaryExpr) (operand.Operand, error) {
	x, err := p.eval(expr.X)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case token.ADD:
		return x, nil
	case token.SUB:
		if s, ok := x.(field.Scalar); ok {
			return field.Scalar{Value: -s.Value}, nil
		}
		return operators.Neg(x, p.opts...)
	}
	return nil, errors.Errorf("unsupported unary operator %s", expr.Op)
}

func (p *evaluator) evalBinary(expr *ast.BinaryExpr) (operand.Operand, error) {
	x, err := p.eval(expr.X)
	if err != nil {
		return nil, err
	}
	y, err := p.eval(expr.Y)
	if err != nil {
		return nil, err
	}
	xS, xScalar := x.(field.Scalar)
	yS, yScalar := y.(field.Scalar)
	if xScalar && yScalar {
		return foldScalars(expr.Op, xS.Value, yS.Value)
	}
	switch expr.Op {
	case token.ADD:
		return operators.Add([]operand.Operand{x, y}, p.opts...)
	case token.SUB:
		return operators.Sub(x, y, p.opts...)
	case token.MUL:
		return operators.Mul([]operand.Operand{x, y}, p.opts...)
	case token.QUO:
		if !yScalar {
			return nil, errors.Errorf("cannot divide by %s: only scalar divisors are supported", y)
		}
		return operators.Mul([]operand.Operand{x, field.Scalar{Value: 1 / yS.Value}}, p.opts...)
	}
	return nil, errors.Errorf("unsupported binary operator %s", expr.Op)
}

func foldScalars(op token.Token, x, y float64) (operand.Operand, error) {
	switch op {
	case token.ADD:
		return field.Scalar{Value: x + y}, nil
	case token.SUB:
		return field.Scalar{Value: x - y}, nil
	case token.MUL:
		return field.Scalar{Value: x * y}, nil
	case token.QUO:
		return field.Scalar{Value: x / y}, nil
	}
	return nil, errors.Errorf("unsupported binary operator %s", op)
}

func (p *evaluator) evalCall(expr *ast.CallExpr) (operand.Operand, error) {
	ident, ok := expr.Fun.(*ast.Ident)
	if !ok {
		return nil, errors.Errorf("unsupported function expression %T", expr.Fun)
	}
	fn, ok := p.ns[ident.Name].(Func)
	if !ok {
		return nil, errors.Errorf("%s is not a function", ident.Name)
	}
	args := make([]operand.Operand, len(expr.Args))
	for i, arg := range expr.Args {
		var err error
		if args[i], err = p.eval(arg); err != nil {
			return nil, err
		}
	}
	return fn(args...)
}

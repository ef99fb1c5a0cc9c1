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

package expr_test

import (
	"bytes"
	"go/ast"
	"go/scanner"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gx-org/spectral/config"
	"github.com/gx-org/spectral/domain"
	"github.com/gx-org/spectral/expr"
	"github.com/gx-org/spectral/field"
	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/metrics"
	"github.com/gx-org/spectral/operand"
	"github.com/gx-org/spectral/operators"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func setup(t *testing.T) (*domain.Domain, map[string]any) {
	t.Helper()
	dist := domain.NewDistributor([]string{"x"})
	dom, err := domain.New(dist, domain.Bases{domain.NewFourier("x", 4)})
	if err != nil {
		t.Fatal(err)
	}
	grid := dist.GridLayout()
	ns := map[string]any{}
	for name, vals := range map[string][]float64{
		"a": {1, 2, 3, 4},
		"b": {4, 3, 2, 1},
	} {
		f, err := field.New(dom, field.WithName(name), field.WithLayout(grid))
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetValues(grid, vals); err != nil {
			t.Fatal(err)
		}
		ns[name] = f
	}
	ns["half"] = "0.5"
	return dom, ns
}

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want []float64
	}{
		{text: "a + b", want: []float64{5, 5, 5, 5}},
		{text: "a - b", want: []float64{-3, -1, 1, 3}},
		{text: "2*a + 1", want: []float64{3, 5, 7, 9}},
		{text: "(a + b) / 5", want: []float64{1, 1, 1, 1}},
		{text: "-a * half", want: []float64{-0.5, -1, -1.5, -2}},
		{text: "sqrt(a*a)", want: []float64{1, 2, 3, 4}},
		{text: "1 + 2", want: []float64{3, 3, 3, 3}},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			dom, ns := setup(t)
			node, err := expr.Parse(test.text, ns, dom)
			if err != nil {
				t.Fatal(err)
			}
			if node.Variant() != future.FieldVariant {
				t.Errorf("got variant %s but want %s", node.Variant(), future.FieldVariant)
			}
			res, err := node.Evaluate(future.NoID, true)
			if err != nil {
				t.Fatal(err)
			}
			out, ok := res.Value()
			if !ok {
				t.Fatalf("%s not ready", node)
			}
			if diff := cmp.Diff(out.Data().Float64s(), test.want, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("%s: unexpected values:\n%s", node, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	dom, ns := setup(t)
	_, err := expr.Parse("a + c * d", ns, dom)
	if !errors.Is(err, expr.ErrUndefined) {
		t.Fatalf("got error %v but want %v", err, expr.ErrUndefined)
	}
	for _, name := range []string{"c", "d"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not report %s", err, name)
		}
	}

	_, err = expr.Parse("a +", ns, dom)
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		t.Errorf("got error %v of type %T but want a %T", err, err, list)
	}

	for _, text := range []string{"a / b", "sin", "a(b)", `"abc"`, "sin(a, b)"} {
		if _, err := expr.Parse(text, ns, dom); err == nil {
			t.Errorf("%s: expected an error", text)
		}
	}
}

func TestCast(t *testing.T) {
	dom, ns := setup(t)
	a := ns["a"].(*field.Field)
	first, err := expr.Cast(a, dom)
	if err != nil {
		t.Fatal(err)
	}
	if first.Operator() != operators.CopyOp(dom) {
		t.Errorf("got operator %s but want copy", first.Name())
	}
	second, err := expr.Cast(a, dom)
	if err != nil {
		t.Fatal(err)
	}
	if first == second || !operand.Equal(first, second) {
		t.Errorf("casting %s twice: got %s and %s but want two equal nodes", a, first, second)
	}
	again, err := expr.Cast(first, dom)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Errorf("got %s but want the same node %s", again, first)
	}
	if _, err := expr.Cast(struct{}{}, dom); !errors.Is(err, field.ErrCannotCast) {
		t.Errorf("got error %v but want %v", err, field.ErrCannotCast)
	}
}

func TestIdents(t *testing.T) {
	xVar := &ast.Ident{Name: "x"}
	yVar := &ast.Ident{Name: "y"}
	fVar := &ast.Ident{Name: "f"}
	tests := []struct {
		expr ast.Expr
		want []string
	}{
		{expr: xVar, want: []string{"x"}},
		{expr: &ast.BinaryExpr{X: xVar, Y: yVar}, want: []string{"x", "y"}},
		{expr: &ast.BinaryExpr{X: xVar, Y: xVar}, want: []string{"x"}},
		{
			expr: &ast.CallExpr{Fun: fVar, Args: []ast.Expr{&ast.ParenExpr{X: yVar}, xVar}},
			want: []string{"f", "y", "x"},
		},
	}
	for i, test := range tests {
		var got []string
		for _, ident := range expr.Idents(test.expr) {
			got = append(got, ident.Name)
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: got %v but want %v", i, got, test.want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	got := expr.Names(expr.Builtins())
	want := []string{"abs", "cos", "e", "exp", "pi", "sin", "sqrt", "tanh"}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
}

func TestParseWithOptions(t *testing.T) {
	cfg, err := config.Parse([]byte("version: v1.0.0\nevaluation:\n  store_last: true\nlog:\n  level: trace\nmetrics:\n  enabled: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	m, err := cfg.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	dom, ns := setup(t)
	node, err := expr.Parse("sin(a - b)", ns, dom, cfg.NodeOptions(logger, m)...)
	if err != nil {
		t.Fatal(err)
	}
	nodes := []*future.Node{node}
	for len(nodes) > 0 {
		n := nodes[0]
		nodes = nodes[1:]
		if !n.StoreLast() {
			t.Errorf("cache of %s not enabled", n)
		}
		for _, arg := range n.Args() {
			if sub, ok := arg.(*future.Node); ok {
				nodes = append(nodes, sub)
			}
		}
	}
	id := future.NewID()
	for range 2 {
		if _, err := node.Evaluate(id, true); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []struct {
		op   string
		want float64
	}{
		{op: "sin", want: 2},
		{op: "add", want: 1},
		{op: "neg", want: 1},
	} {
		if got := testutil.ToFloat64(m.Evaluations.WithLabelValues(want.op, metrics.ModeEvaluate)); got != want.want {
			t.Errorf("got %v evaluations of %s but want %v", got, want.op, want.want)
		}
	}
	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("sin")); got != 1 {
		t.Errorf("got %v cache hits but want 1", got)
	}
	if !strings.Contains(buf.String(), "cache hit") {
		t.Errorf("cache hit not logged:\n%s", buf.String())
	}
}

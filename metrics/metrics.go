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

// Package metrics counts the evaluations of deferred operator trees.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation modes.
const (
	ModeEvaluate = "evaluate"
	ModeAttempt  = "attempt"
)

// Metrics groups the counters updated by the evaluation of nodes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Evaluations  *prometheus.CounterVec
	CacheHits    *prometheus.CounterVec
	NotReady     *prometheus.CounterVec
	Enforcements *prometheus.CounterVec
}

// New creates the counters and registers them in reg.
// The counters are not registered if reg is nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spectral_future_evaluations_total",
			Help: "Total node evaluations by operator and mode",
		}, []string{"operator", "mode"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spectral_future_cache_hits_total",
			Help: "Total evaluations served from the last result cache",
		}, []string{"operator"}),
		NotReady: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spectral_future_not_ready_total",
			Help: "Total attempts returning a not ready result",
		}, []string{"operator"}),
		Enforcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spectral_future_enforcements_total",
			Help: "Total layout conditions enforced before operating",
		}, []string{"operator"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Evaluations, m.CacheHits, m.NotReady, m.Enforcements} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "cannot register evaluation metrics")
		}
	}
	return m, nil
}

// Evaluation records the evaluation of a node.
func (m *Metrics) Evaluation(operator string, force bool) {
	if m == nil {
		return
	}
	mode := ModeAttempt
	if force {
		mode = ModeEvaluate
	}
	m.Evaluations.WithLabelValues(operator, mode).Inc()
}

// CacheHit records an evaluation served from the cache.
func (m *Metrics) CacheHit(operator string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(operator).Inc()
}

// NotReadyResult records an attempt for which the layout conditions were not met.
func (m *Metrics) NotReadyResult(operator string) {
	if m == nil {
		return
	}
	m.NotReady.WithLabelValues(operator).Inc()
}

// Enforcement records layout conditions being enforced.
func (m *Metrics) Enforcement(operator string) {
	if m == nil {
		return
	}
	m.Enforcements.WithLabelValues(operator).Inc()
}

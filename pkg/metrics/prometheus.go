// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector exports run counters in Prometheus format alongside
// tracking them in memory.
type PrometheusCollector struct {
	*InMemoryCollector

	registry *prometheus.Registry

	jobsDone       *prometheus.CounterVec
	eventsDone     prometheus.Counter
	deadlineMisses *prometheus.CounterVec
	overruns       *prometheus.CounterVec
}

// NewPrometheusCollector creates a PrometheusCollector registered against a
// fresh registry.
func NewPrometheusCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	c := &PrometheusCollector{
		InMemoryCollector: NewInMemoryCollector(),
		registry:          registry,
		jobsDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edfsim",
			Name:      "jobs_done_total",
			Help:      "Total number of jobs that completed, by task id.",
		}, []string{"task_id"}),
		eventsDone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "edfsim",
			Name:      "events_done_total",
			Help:      "Total number of event-loop steps processed.",
		}),
		deadlineMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edfsim",
			Name:      "deadline_misses_total",
			Help:      "Total number of jobs that missed their absolute deadline, by task id.",
		}, []string{"task_id"}),
		overruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edfsim",
			Name:      "overruns_total",
			Help:      "Total number of low-criticality budget overruns detected, by task id.",
		}, []string{"task_id"}),
	}

	registry.MustRegister(c.jobsDone, c.eventsDone, c.deadlineMisses, c.overruns)
	return c
}

func (c *PrometheusCollector) RecordJobDone(taskID int64) {
	c.InMemoryCollector.RecordJobDone(taskID)
	c.jobsDone.WithLabelValues(taskIDLabel(taskID)).Inc()
}

func (c *PrometheusCollector) RecordEvent() {
	c.InMemoryCollector.RecordEvent()
	c.eventsDone.Inc()
}

func (c *PrometheusCollector) RecordDeadlineMiss(taskID int64) {
	c.InMemoryCollector.RecordDeadlineMiss(taskID)
	c.deadlineMisses.WithLabelValues(taskIDLabel(taskID)).Inc()
}

func (c *PrometheusCollector) RecordOverrun(taskID int64) {
	c.InMemoryCollector.RecordOverrun(taskID)
	c.overruns.WithLabelValues(taskIDLabel(taskID)).Inc()
}

// Handler returns an http.Handler serving this collector's registry in the
// Prometheus exposition format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func taskIDLabel(taskID int64) string {
	return strconv.FormatInt(taskID, 10)
}

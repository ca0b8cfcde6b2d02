// Package refmetrics exposes prometheus metrics for object systems and for
// the ref package's leak backstop.
package refmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/partite-ai/refgo/memobj"
	"github.com/partite-ai/refgo/ref"
)

const namespace = "refgo"

// Collector exports one memobj.System's lifecycle counters. It implements
// prometheus.Collector; register at most one Collector per System.
type Collector struct {
	sys *memobj.System

	live     *prometheus.Desc
	allocs   *prometheus.Desc
	frees    *prometheus.Desc
	retains  *prometheus.Desc
	releases *prometheus.Desc
}

// NewCollector returns a Collector reading from sys.
func NewCollector(sys *memobj.System) *Collector {
	return &Collector{
		sys: sys,
		live: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "objects_live"),
			"Live objects by class.",
			[]string{"class"}, nil,
		),
		allocs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "objects_allocated_total"),
			"Objects allocated since the system was created.",
			nil, nil,
		),
		frees: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "objects_freed_total"),
			"Objects deallocated since the system was created.",
			nil, nil,
		),
		retains: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "retains_total"),
			"Retain calls, including container member retention.",
			nil, nil,
		),
		releases: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "releases_total"),
			"Release calls, including releases of container members.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.live
	ch <- c.allocs
	ch <- c.frees
	ch <- c.retains
	ch <- c.releases
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.sys.Stats()
	for class, n := range st.LiveByClass {
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(n), class.String())
	}
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(st.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(st.Frees))
	ch <- prometheus.MustNewConstMetric(c.retains, prometheus.CounterValue, float64(st.Retains))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(st.Releases))
}

// LeakCollector exports the process-wide count of refs that were released
// by the runtime cleanup instead of Close. Register it once per process.
type LeakCollector struct {
	leaks *prometheus.Desc
}

// NewLeakCollector returns a collector for ref.Leaks.
func NewLeakCollector() *LeakCollector {
	return &LeakCollector{
		leaks: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "ref_leaks_total"),
			"Refs that were never closed and were released by the runtime cleanup.",
			nil, nil,
		),
	}
}

func (c *LeakCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.leaks
}

func (c *LeakCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.leaks, prometheus.CounterValue, float64(ref.Leaks()))
}

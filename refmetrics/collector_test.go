package refmetrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/partite-ai/refgo/memobj"
)

func TestCollector(t *testing.T) {
	sys := memobj.New()
	str := sys.NewString("a")
	b := sys.NewBool(true)
	str.Retain()
	str.Release()
	b.Release()

	expected := `
# HELP refgo_objects_allocated_total Objects allocated since the system was created.
# TYPE refgo_objects_allocated_total counter
refgo_objects_allocated_total 2
# HELP refgo_objects_freed_total Objects deallocated since the system was created.
# TYPE refgo_objects_freed_total counter
refgo_objects_freed_total 1
# HELP refgo_objects_live Live objects by class.
# TYPE refgo_objects_live gauge
refgo_objects_live{class="array"} 0
refgo_objects_live{class="bool"} 0
refgo_objects_live{class="data"} 0
refgo_objects_live{class="date"} 0
refgo_objects_live{class="dict"} 0
refgo_objects_live{class="null"} 0
refgo_objects_live{class="number"} 0
refgo_objects_live{class="set"} 0
refgo_objects_live{class="string"} 1
refgo_objects_live{class="uuid"} 0
# HELP refgo_releases_total Release calls, including releases of container members.
# TYPE refgo_releases_total counter
refgo_releases_total 2
# HELP refgo_retains_total Retain calls, including container member retention.
# TYPE refgo_retains_total counter
refgo_retains_total 1
`
	if err := testutil.CollectAndCompare(NewCollector(sys), strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestLeakCollector(t *testing.T) {
	// Nothing in this test binary leaks refs, so the counter reads zero.
	expected := `
# HELP refgo_ref_leaks_total Refs that were never closed and were released by the runtime cleanup.
# TYPE refgo_ref_leaks_total counter
refgo_ref_leaks_total 0
`
	if err := testutil.CollectAndCompare(NewLeakCollector(), strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestRegisters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewCollector(memobj.New())); err != nil {
		t.Errorf("Register(Collector) error: %v", err)
	}
	if err := reg.Register(NewLeakCollector()); err != nil {
		t.Errorf("Register(LeakCollector) error: %v", err)
	}
	if _, err := reg.Gather(); err != nil {
		t.Errorf("Gather() error: %v", err)
	}
}

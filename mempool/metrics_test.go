package mempool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector(t *testing.T) {
	p := New(1 << 16)
	defer p.Destroy()
	p.Alloc(128)

	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(p)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	got := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			got[mf.GetName()] = m.GetGauge().GetValue()
		}
	}

	if got["tagwire_pool_allocated_bytes"] != float64(1<<16) {
		t.Errorf("allocated_bytes = %v, want %v", got["tagwire_pool_allocated_bytes"], 1<<16)
	}
	if got["tagwire_pool_used_bytes"] != 128 {
		t.Errorf("used_bytes = %v, want 128", got["tagwire_pool_used_bytes"])
	}
	if got["tagwire_pool_blocks"] != 1 {
		t.Errorf("blocks = %v, want 1", got["tagwire_pool_blocks"])
	}
}

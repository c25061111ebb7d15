package internaldefs

import (
	"testing"

	goSession "github.com/MrEthical07/goSession"
)

func TestEveryCounterExportedOnce(t *testing.T) {
	seen := map[goSession.MetricID]bool{}
	for _, def := range CounterDefs {
		if seen[def.ID] {
			t.Fatalf("metric %d exported twice", def.ID)
		}
		seen[def.ID] = true
	}

	snap := goSession.NewMetrics(goSession.MetricsConfig{Enabled: true}).Snapshot()
	for id := range snap.Counters {
		if !seen[id] {
			t.Fatalf("counter %d has no export definition", id)
		}
	}
}

func TestFamiliesAreContiguous(t *testing.T) {
	names := map[string]bool{}
	for _, f := range Families() {
		if names[f.Name] {
			t.Fatalf("family %s split across CounterDefs", f.Name)
		}
		names[f.Name] = true
		if len(f.Defs) > 1 {
			for _, d := range f.Defs {
				if d.Result == "" {
					t.Fatalf("family %s member %d has no result label", f.Name, d.ID)
				}
			}
		}
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [BucketCount]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	if NormalizeBuckets(make([]uint64, BucketCount+3)) != [BucketCount]uint64{} {
		t.Fatal("extra buckets must be dropped")
	}
}

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyStatsFromDurations(t *testing.T) {
	ds := []time.Duration{5 * time.Millisecond, time.Millisecond, 3 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	s := LatencyStatsFromDurations(ds)
	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.P50Ms, 1e-9)
	assert.InDelta(t, 3.0, s.AvgMs, 1e-9)
	assert.InDelta(t, 4.0, s.P99Ms, 1e-9)
	assert.Equal(t, LatencyStats{}, LatencyStatsFromDurations(nil))
}

func TestPercentile_Bounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	assert.Equal(t, 1.0, Percentile(sorted, -5))
	assert.Equal(t, 3.0, Percentile(sorted, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestWriteStageACSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r", "a.csv")
	require.NoError(t, WriteStageACSV([]StageARow{{ChunkSize: 10, Workers: 2, Records: 100, IngestDurMs: 1.5, HeapAllocMB: 2}}, path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "10,2,100,1.50,2.00", lines[1])
}

func TestDiff(t *testing.T) {
	before := Snapshot{TS: time.Unix(0, 0), TotalAlloc: 0, NumGC: 1}
	after := Snapshot{TS: time.Unix(2, 0), TotalAlloc: 2 << 20, NumGC: 4}
	rate, gc := Diff(before, after)
	assert.InDelta(t, float64(1<<20), rate, 1e-6)
	assert.Equal(t, uint32(3), gc)
}

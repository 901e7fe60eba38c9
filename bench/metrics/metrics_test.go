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

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 10.0, Percentile(sorted, 100))
	assert.Equal(t, 5.0, Percentile(sorted, 50))
	assert.Equal(t, 9.0, Percentile(sorted, 99))
}

func TestLatencyStatsFromDurations(t *testing.T) {
	assert.Equal(t, LatencyStats{}, LatencyStatsFromDurations(nil))

	durations := []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}
	s := LatencyStatsFromDurations(durations)
	assert.Equal(t, 3, s.N)
	assert.InDelta(t, 2.0, s.P50Ms, 1e-9)
	assert.InDelta(t, 2.0, s.AvgMs, 1e-9)
	assert.InDelta(t, 2.0, s.P99Ms, 1e-9)
	assert.Equal(t, 3*time.Millisecond, durations[0], "input left unsorted")
}

func TestClock(t *testing.T) {
	for _, name := range []string{"cpu", "wall", ""} {
		c, err := ParseClock(name)
		require.NoError(t, err)
		start := c.Now()
		x := 0
		for i := 0; i < 1_000_000; i++ {
			x += i
		}
		_ = x
		assert.GreaterOrEqual(t, Since(c, start), time.Duration(0), "clock %s", c.Name())
	}
	_, err := ParseClock("sundial")
	assert.Error(t, err)
}

func TestSince_NeverNegative(t *testing.T) {
	c := NewWallClock()
	assert.Equal(t, time.Duration(0), Since(c, c.Now()+time.Hour))
}

func TestWriteStageCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "b.csv")
	require.NoError(t, WriteStageBCSV([]StageBRow{{Size: 3, Capacity: 8, BuildMs: 1.5, Found: true}}, path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Size,Capacity,BuildMs,SearchMs,Found,HeapMB\n3,8,1.50,0.00,true,0.00\n", string(b))

	path = filepath.Join(dir, "c.csv")
	require.NoError(t, WriteStageCCSV([]StageCRow{{Mode: "serial", Concurrency: 4}}, path))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Mode,Concurrency,"))

	path = filepath.Join(dir, "d.json")
	require.NoError(t, WriteJSON([]StageDRow{{Mode: "mmap", FileBytes: 10}}, path))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Mode": "mmap"`)
}

func TestReportPath(t *testing.T) {
	p := ReportPath("x_", ".csv")
	assert.Equal(t, ReportDir, filepath.Dir(p))
	assert.True(t, strings.HasSuffix(p, ".csv"))
}

func TestTake(t *testing.T) {
	s := Take()
	assert.Positive(t, s.NumGoroutine)
	assert.Positive(t, s.HeapSys)
	assert.InDelta(t, 1.0, MB(1<<20), 1e-12)
}

package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

func TestCollector_PassCompleted(t *testing.T) {
	c := NewCollector()

	c.PassCompleted(core.Result{
		Path:      "a.fa",
		Strategy:  core.ArrayStrategy,
		Records:   10,
		Elapsed:   250 * time.Millisecond,
		Capacity:  16,
		Waste:     37.5,
		PeakBytes: 4096,
	})
	c.PassCompleted(core.Result{
		Path:      "a.fa",
		Strategy:  core.ArrayStrategy,
		Records:   12,
		Elapsed:   time.Second,
		Capacity:  16,
		Waste:     25,
		PeakBytes: 5000,
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(c.passesTotal.WithLabelValues("array", "ok")))
	assert.Equal(t, float64(22), testutil.ToFloat64(c.recordsTotal.WithLabelValues("array")))
	assert.Equal(t, float64(16), testutil.ToFloat64(c.capacity.WithLabelValues("array")))
	assert.Equal(t, float64(25), testutil.ToFloat64(c.wastePercent.WithLabelValues("array")), "gauge holds the last pass")
	assert.Equal(t, float64(5000), testutil.ToFloat64(c.peakBytes.WithLabelValues("array")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.passDuration), "one histogram series")
}

func TestCollector_ListHasNoCapacity(t *testing.T) {
	c := NewCollector()
	c.PassCompleted(core.Result{Strategy: core.ListStrategy, Records: 3, PeakBytes: 300})

	assert.Equal(t, float64(3), testutil.ToFloat64(c.recordsTotal.WithLabelValues("list")))
	assert.Equal(t, 0, testutil.CollectAndCount(c.capacity), "list passes set no capacity")
	assert.Equal(t, 0, testutil.CollectAndCount(c.wastePercent), "list passes set no waste")
}

func TestCollector_PassFailed(t *testing.T) {
	c := NewCollector()

	c.PassFailed("a.fa", core.ArrayStrategy, &fault.ParseError{Line: 2, Detail: "bad"})
	c.PassFailed("b.fa", core.ArrayStrategy, &fault.SourceUnavailableError{Path: "b.fa", Err: os.ErrNotExist})
	c.PassFailed("c.fa", core.ListStrategy, &fault.AllocationError{Requested: 8})

	assert.Equal(t, float64(1), testutil.ToFloat64(c.passesTotal.WithLabelValues("array", "parse")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.passesTotal.WithLabelValues("array", "source_unavailable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.passesTotal.WithLabelValues("list", "allocation")))
	assert.Equal(t, 0, testutil.CollectAndCount(c.recordsTotal), "failed passes load nothing")
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.PassCompleted(core.Result{Strategy: core.ArrayStrategy, Records: 7, Capacity: 8, Waste: 12.5})

	buffer := &bytes.Buffer{}
	require.NoError(t, c.WriteText(buffer))
	assert.Contains(t, buffer.String(), `fastaload_records_total{strategy="array"} 7`)

	fileName := filepath.Join(t.TempDir(), "fastaload.prom")
	require.NoError(t, c.WriteTextfile(fileName))

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, buffer.String(), string(data), "file must match the text output")
	assert.True(t, strings.Contains(string(data), "# TYPE fastaload_pass_duration_seconds histogram"))

	entries, err := os.ReadDir(filepath.Dir(fileName))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestCollector_WriteTextfileBadDirectory(t *testing.T) {
	c := NewCollector()
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "fastaload.prom"))
	assert.Error(t, err)
}

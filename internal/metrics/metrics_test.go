package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	p := NewPrometheus()
	p.RowsImported(5)
	p.RowsImported(2)
	p.RowsSkipped(1)
	p.Batch(true, 20*time.Millisecond)
	p.Batch(false, time.Millisecond)

	assert.Equal(t, 7.0, testutil.ToFloat64(p.rowsTotal.WithLabelValues(ResultImported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.rowsTotal.WithLabelValues(ResultSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.batchesTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.batchesTotal.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(p.importDuration))
}

func TestPrometheus_Exposition(t *testing.T) {
	p := NewPrometheus()
	p.RowsSkipped(3)

	expected := `
# HELP budgetflow_import_rows_total CSV rows seen by the importer
# TYPE budgetflow_import_rows_total counter
budgetflow_import_rows_total{result="skipped"} 3
`
	err := testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "budgetflow_import_rows_total")
	assert.NoError(t, err)
}

func TestPrometheus_RegistriesAreIndependent(t *testing.T) {
	a := NewPrometheus()
	b := NewPrometheus()
	a.RowsImported(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rowsTotal.WithLabelValues(ResultImported)))
}

func TestWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.RowsImported(4)
	p.Batch(true, time.Second)

	path := filepath.Join(t.TempDir(), "textfile", "budgetflow.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `budgetflow_import_rows_total{result="imported"} 4`)
	assert.Contains(t, string(data), `budgetflow_import_batches_total{result="success"} 1`)
	assert.Contains(t, string(data), "budgetflow_import_duration_seconds_count 1")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RowsImported(1)
	r.RowsSkipped(1)
	r.Batch(true, time.Second)
}

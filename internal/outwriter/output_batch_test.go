package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() schema.BatchResult {
	dairy := dairyBlend()
	return schema.BatchResult{
		Entries: []schema.BatchEntry{
			{Profile: "dairy", Result: &dairy},
			{Profile: "high-calcium", Error: "infeasible: no blend satisfies calcium", Kind: schema.KindInfeasible},
		},
		Duration: 5 * time.Millisecond,
	}
}

func TestWriteBatchJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBatchJSON(&buf, sampleBatch()))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "ok", entries[0]["status"])
	assert.Contains(t, entries[0], "result")
	assert.NotContains(t, entries[0], "error")

	assert.Equal(t, "failed", entries[1]["status"])
	assert.Equal(t, string(schema.KindInfeasible), entries[1]["error_kind"])
	assert.NotContains(t, entries[1], "result")
}

func TestWriteBatchCSV(t *testing.T) {
	fmtQty, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeBatchCSV(&buf, sampleBatch(), fmtQty))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "profile,status,ingredients,total_cost,objective_value,error_kind,error", lines[0])
	assert.Equal(t, "dairy,ok,4,30.65,30.659143968871597,,", lines[1])
	assert.Equal(t, "high-calcium,failed,,,,INFEASIBLE,infeasible: no blend satisfies calcium", lines[2])
}

func TestWriteBatchTable(t *testing.T) {
	cfg := testConfig()
	fmtQty, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeBatchTable(&buf, sampleBatch(), cfg, fmtQty))

	out := buf.String()
	assert.Contains(t, out, "Silagem de Milho 14.17")
	assert.Contains(t, out, "R$ 30.65")
	assert.Contains(t, out, "high-calcium")
	assert.Contains(t, out, "Formulated 2 profiles (1 failed) in 5ms with 2 workers")
}

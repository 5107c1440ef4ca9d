package handler

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Philipp01105/firelogger/core"
)

func TestCollector(t *testing.T) {
	stats := NewStats()
	stats.IncrementSessions(true)
	stats.IncrementSessions(false)
	stats.AddRecords([]*core.Record{{Level: core.ErrorLevel}})
	stats.AddHeaders(2, 120)

	c := NewCollector(stats, "")
	assert.Equal(t, 7+2*5, testutil.CollectAndCount(c))

	expected := `
# HELP firelogger_requests_total Requests seen by the capture middleware
# TYPE firelogger_requests_total counter
firelogger_requests_total 2
# HELP firelogger_captured_requests_total Requests whose records were captured
# TYPE firelogger_captured_requests_total counter
firelogger_captured_requests_total 1
# HELP firelogger_header_bytes_total Bytes of FireLogger header values emitted
# TYPE firelogger_header_bytes_total counter
firelogger_header_bytes_total 120
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"firelogger_requests_total", "firelogger_captured_requests_total", "firelogger_header_bytes_total"))
}

func TestCollector_RecordsByLevel(t *testing.T) {
	stats := NewStats()
	stats.AddRecords([]*core.Record{{Level: core.ErrorLevel}, {Level: core.ErrorLevel}, {Level: core.InfoLevel}})

	expected := `
# HELP app_firelogger_records_total Records emitted as headers
# TYPE app_firelogger_records_total counter
app_firelogger_records_total{level="critical"} 0
app_firelogger_records_total{level="debug"} 0
app_firelogger_records_total{level="error"} 2
app_firelogger_records_total{level="info"} 1
app_firelogger_records_total{level="warning"} 0
`
	require.NoError(t, testutil.CollectAndCompare(NewCollector(stats, "app"), strings.NewReader(expected),
		"app_firelogger_records_total"))
}

func TestCollector_Registers(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(NewStats(), "x")))
	_, err := reg.Gather()
	assert.NoError(t, err)
}

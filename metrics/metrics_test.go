package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/assocparse/ixgest/report"
)

func TestObserveRun(t *testing.T) {
	m := NewParserMetrics("")
	m.ObserveRun("gaf", 10, 7, 2, 150*time.Millisecond)
	m.ObserveRun("gaf", 5, 5, 0, 50*time.Millisecond)
	m.ObserveRun("gpad", 3, 1, 1, time.Millisecond)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.LinesTotal.WithLabelValues("gaf")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.AssociationsTotal.WithLabelValues("gaf")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkippedTotal.WithLabelValues("gaf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedTotal.WithLabelValues("gpad")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ParseDuration))
}

func TestObserveMessages(t *testing.T) {
	m := NewParserMetrics("test")
	m.ObserveMessages("gaf", []report.Message{
		{Level: report.SeverityError, Type: report.InvalidID},
		{Level: report.SeverityError, Type: report.InvalidID},
		{Level: report.SeverityWarning, Type: report.InvalidTaxon},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("gaf", "ERROR", "Invalid identifier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("gaf", "WARNING", "Invalid taxon")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *ParserMetrics
	assert.NotPanics(t, func() {
		m.ObserveRun("gaf", 1, 1, 0, time.Second)
		m.ObserveMessages("gaf", []report.Message{{Level: report.SeverityError}})
	})
}

func TestRegisterAndServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewParserMetrics("")
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg), "second registration must fail")

	m.ObserveRun("hpoa", 4, 3, 1, time.Second)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	count, err := testutil.GatherAndCount(reg, "assocparse_parser_lines_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP assocparse_parser_associations_total Associations emitted
# TYPE assocparse_parser_associations_total counter
assocparse_parser_associations_total{format="hpoa"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "assocparse_parser_associations_total"))
}

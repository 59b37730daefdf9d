package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.FilesFound.Add(2)
	a.InvalidRecords.WithLabelValues("name_too_short").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(a.FilesFound), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.FilesFound), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.InvalidRecords.WithLabelValues("name_too_short")), 0)
}

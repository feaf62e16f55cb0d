package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSearch(t *testing.T) {
	okBefore := testutil.ToFloat64(SearchTotal.WithLabelValues(StatusOK))
	errBefore := testutil.ToFloat64(SearchTotal.WithLabelValues(StatusError))

	RecordSearch(nil, 0.01)
	RecordSearch(errors.New("boom"), 0.02)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SearchTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(SearchTotal.WithLabelValues(StatusError)))
}

func TestRecordIndexed(t *testing.T) {
	before := testutil.ToFloat64(BookmarksIndexedTotal.WithLabelValues(SourceImport))

	RecordIndexed(SourceImport, 3)
	RecordIndexed(SourceImport, 0)

	assert.Equal(t, before+3, testutil.ToFloat64(BookmarksIndexedTotal.WithLabelValues(SourceImport)))
}

func TestRecordBackup(t *testing.T) {
	before := testutil.ToFloat64(BackupsTotal.WithLabelValues(StatusError))
	RecordBackup(errors.New("disk full"))
	assert.Equal(t, before+1, testutil.ToFloat64(BackupsTotal.WithLabelValues(StatusError)))
}

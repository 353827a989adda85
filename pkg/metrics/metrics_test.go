package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordFareRecord(t *testing.T) {
	saved := FareRecordsTotal.WithLabelValues("save", "success")
	failed := FareRecordsTotal.WithLabelValues("delete", "error")
	beforeSaved := value(t, saved)
	beforeFailed := value(t, failed)

	RecordFareRecord("save", 45, nil)
	RecordFareRecord("delete", 0, errors.New("gone"))

	assert.Equal(t, beforeSaved+1, value(t, saved))
	assert.Equal(t, beforeFailed+1, value(t, failed))
}

func TestRecordLogin(t *testing.T) {
	ok := LoginAttemptsTotal.WithLabelValues("success")
	bad := LoginAttemptsTotal.WithLabelValues("failure")
	broken := LoginAttemptsTotal.WithLabelValues("error")
	before := [3]float64{value(t, ok), value(t, bad), value(t, broken)}

	RecordLogin(true, nil)
	RecordLogin(false, nil)
	RecordLogin(false, errors.New("db"))

	assert.Equal(t, before[0]+1, value(t, ok))
	assert.Equal(t, before[1]+1, value(t, bad))
	assert.Equal(t, before[2]+1, value(t, broken))
}

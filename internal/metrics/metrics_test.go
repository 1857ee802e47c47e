package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/plamo-translate/internal/metrics"
	"github.com/davidhbaek/plamo-translate/plamo"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	c.ObserveCompletion(plamo.OutcomeOK, 10*time.Millisecond)
	c.ObserveCompletion(plamo.OutcomeOK, 20*time.Millisecond)
	c.ObserveCompletion(plamo.OutcomeTransportError, time.Second)
	c.IncRetry()

	require.Equal(t, 2.0, testutil.ToFloat64(c.Requests(plamo.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Requests(plamo.OutcomeTransportError)))
	require.Equal(t, 0.0, testutil.ToFloat64(c.Requests(plamo.OutcomeProtocolError)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Retries()))

	count, err := testutil.GatherAndCount(reg, "plamo_completions_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCollectorDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	_, err = metrics.NewCollector(reg)
	require.Error(t, err)
}

func TestCollectorNilRegisterer(t *testing.T) {
	c, err := metrics.NewCollector(nil)
	require.NoError(t, err)

	c.IncRetry()
	require.Equal(t, 1.0, testutil.ToFloat64(c.Retries()))
}

func TestNilCollectorIsUsableAsRecorder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"text":""}]}`)
	}))
	defer srv.Close()

	var collector *metrics.Collector
	c, err := plamo.NewClient(plamo.NewConfig(srv.URL, "m", time.Second), plamo.WithRecorder(collector))
	require.NoError(t, err)

	require.NotPanics(t, func() {
		out, err := c.Translate(context.Background(), "hi", plamo.LangEnglish, plamo.LangJapanese, plamo.DefaultParams())
		require.NoError(t, err)
		require.Empty(t, out)
	})
}

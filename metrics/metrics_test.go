package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCall(t *testing.T) {
	m, err := New("test", "")
	require.NoError(t, err)

	m.ObserveCall(common.Address{}, nil, time.Millisecond)
	m.ObserveCall(common.Address{}, nil, time.Millisecond)
	m.ObserveCall(common.Address{}, interfaces.NewReplayError("nonce already used"), time.Millisecond)
	m.ObserveCall(common.Address{}, interfaces.NewExternalCallError(errors.New("boom")), time.Millisecond)
	m.ObserveCall(common.Address{}, errors.New("plain"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("ok", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("reverted", "replay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("reverted", "external")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("reverted", "unknown")))
}

func TestHandler(t *testing.T) {
	m, err := New("custody_bridge", "")
	require.NoError(t, err)
	m.ObserveCall(common.Address{}, interfaces.NewStateError("Pausable: paused"), time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `custody_bridge_calls_total{kind="state",outcome="reverted"} 1`)
	assert.Contains(t, string(body), "custody_bridge_call_duration_seconds_count 1")
}

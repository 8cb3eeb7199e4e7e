package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/api/clients"
	"github.com/ruteri/asset-custody-bridge/governance"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	signerAddr   = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func newTestServer(t *testing.T, provider api.BridgeProvider) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(&api.HTTPServerConfig{
		Log:                      logger,
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}, NewHandler(provider, logger))
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.getRouter().ServeHTTP(w, req)
	return w
}

func TestHandleDeployment(t *testing.T) {
	provider := new(clients.MockBridgeProvider)
	provider.On("Deployment", mock.Anything).Return(&api.DeploymentResponse{
		Contracts: map[string]common.Address{"token": contractAddr},
		Now:       42,
	}, nil)

	w := serve(newTestServer(t, provider), http.MethodGet, "/api/deployment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp api.DeploymentResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, contractAddr, resp.Contracts["token"])
	provider.AssertExpectations(t)
}

func TestHandleCall_StatusByKind(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", interfaces.NewValidationError("parameters length mismatch"), http.StatusBadRequest, "validation"},
		{"authorization", interfaces.NewAuthorizationError("only controller"), http.StatusForbidden, "authorization"},
		{"replay", interfaces.NewReplayError("nonce already used"), http.StatusConflict, "replay"},
		{"state", interfaces.NewStateError("Pausable: paused"), http.StatusPreconditionFailed, "state"},
		{"external", interfaces.NewExternalCallError(interfaces.NewStateError("ERC20: transfer amount exceeds balance")), http.StatusBadGateway, "external"},
		{"unknown contract", api.ErrContractNotFound, http.StatusNotFound, ""},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(clients.MockBridgeProvider)
			provider.On("Call", mock.Anything, mock.Anything).Return(nil, tt.err)

			body, err := json.Marshal(api.CallRequest{From: signerAddr, To: contractAddr, Input: []byte{1, 2, 3, 4}})
			require.NoError(t, err)
			w := serve(newTestServer(t, provider), http.MethodPost, "/api/call", body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}

func TestHandleCall_PassesRequest(t *testing.T) {
	provider := new(clients.MockBridgeProvider)
	provider.On("Call", mock.Anything, mock.MatchedBy(func(req *api.CallRequest) bool {
		return req.From == signerAddr && req.To == contractAddr && bytes.Equal(req.Input, []byte{0xaa})
	})).Return(&api.CallResponse{Events: []api.EventView{{Name: "TopUp"}}}, nil)

	body := []byte(`{"from":"` + signerAddr.Hex() + `","to":"` + contractAddr.Hex() + `","input":"0xaa"}`)
	w := serve(newTestServer(t, provider), http.MethodPost, "/api/call", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CallResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "TopUp", resp.Events[0].Name)
	provider.AssertExpectations(t)
}

func TestHandleCall_MalformedBody(t *testing.T) {
	provider := new(clients.MockBridgeProvider)
	w := serve(newTestServer(t, provider), http.MethodPost, "/api/call", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	provider.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
}

func TestHandleEvents(t *testing.T) {
	provider := new(clients.MockBridgeProvider)
	provider.On("Events", mock.Anything, 5).Return(&api.EventsResponse{Next: 5}, nil)
	srv := newTestServer(t, provider)

	w := serve(srv, http.MethodGet, "/api/events?from=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(srv, http.MethodGet, "/api/events?from=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	provider.AssertNumberOfCalls(t, "Events", 1)
}

func TestHandleQueries(t *testing.T) {
	hash := common.HexToHash("0x01")
	provider := new(clients.MockBridgeProvider)
	provider.On("TimelockTransaction", mock.Anything, contractAddr, hash).
		Return(&api.TimelockTxResponse{Hash: hash, State: governance.StateQueued}, nil)
	provider.On("NonceStatus", mock.Anything, contractAddr, mock.MatchedBy(func(n *big.Int) bool { return n.Cmp(big.NewInt(7)) == 0 })).
		Return(&api.NonceResponse{Contract: contractAddr, Nonce: big.NewInt(7), Used: true}, nil)
	provider.On("SignerStatus", mock.Anything, contractAddr, signerAddr).
		Return(&api.SignerResponse{Contract: contractAddr, Signer: signerAddr, Registered: true}, nil)
	srv := newTestServer(t, provider)

	w := serve(srv, http.MethodGet, "/api/timelock/"+contractAddr.Hex()+"/tx/"+hash.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tx api.TimelockTxResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tx))
	assert.Equal(t, governance.StateQueued, tx.State)

	w = serve(srv, http.MethodGet, "/api/nonce/"+contractAddr.Hex()+"/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nonce api.NonceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&nonce))
	assert.True(t, nonce.Used)

	w = serve(srv, http.MethodGet, "/api/signer/"+contractAddr.Hex()+"/"+signerAddr.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var signer api.SignerResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&signer))
	assert.True(t, signer.Registered)

	provider.AssertExpectations(t)
}

func TestHandleQueries_BadPathParameters(t *testing.T) {
	provider := new(clients.MockBridgeProvider)
	srv := newTestServer(t, provider)

	for _, target := range []string{
		"/api/nonce/0x1234/1",
		"/api/nonce/" + contractAddr.Hex() + "/-1",
		"/api/nonce/" + contractAddr.Hex() + "/notanumber",
		"/api/signer/" + contractAddr.Hex() + "/0xzz",
		"/api/timelock/" + contractAddr.Hex() + "/tx/0x1234",
	} {
		w := serve(srv, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	assert.Empty(t, provider.Calls)
}

func TestHealthAndDrain(t *testing.T) {
	srv := newTestServer(t, new(clients.MockBridgeProvider))

	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/livez", nil).Code)
	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/readyz", nil).Code)

	w := serve(srv, http.MethodGet, "/drain", nil)
	assert.Contains(t, w.Body.String(), `"draining"`)
	assert.Equal(t, http.StatusServiceUnavailable, serve(srv, http.MethodGet, "/readyz", nil).Code)
	assert.Contains(t, serve(srv, http.MethodGet, "/drain", nil).Body.String(), "already draining")

	w = serve(srv, http.MethodGet, "/undrain", nil)
	assert.Contains(t, w.Body.String(), `"ready"`)
	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/readyz", nil).Code)
}

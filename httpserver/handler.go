package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

// maxBodySize bounds POST /api/call bodies (1MB).
const maxBodySize = 1024 * 1024

// RequestError carries the status a request failure should be answered with.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf(format, args...)}
}

// Handler serves the devnet API on top of any api.BridgeProvider.
type Handler struct {
	provider api.BridgeProvider
	log      *slog.Logger
}

func NewHandler(provider api.BridgeProvider, log *slog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log,
	}
}

func (h *Handler) HandleDeployment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.provider.Deployment(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.writeError(w, badRequest("failed to read request body: %w", err))
		return
	}
	var req api.CallRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, badRequest("invalid call request: %w", err))
		return
	}

	resp, err := h.provider.Call(r.Context(), &req)
	if err != nil {
		h.log.Info("call reverted", "from", req.From, "to", req.To, "reason", interfaces.Reason(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	from := 0
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, badRequest("invalid from index %q", raw))
			return
		}
		from = parsed
	}

	resp, err := h.provider.Events(r.Context(), from)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleTimelockTransaction(w http.ResponseWriter, r *http.Request) {
	timelock, err := pathAddress(r, "address")
	if err != nil {
		h.writeError(w, err)
		return
	}
	rawHash := chi.URLParam(r, "hash")
	hashBytes, err := hexutil.Decode(rawHash)
	if err != nil || len(hashBytes) != common.HashLength {
		h.writeError(w, badRequest("invalid transaction hash %q", rawHash))
		return
	}

	resp, err := h.provider.TimelockTransaction(r.Context(), timelock, common.BytesToHash(hashBytes))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleNonce(w http.ResponseWriter, r *http.Request) {
	contract, err := pathAddress(r, "address")
	if err != nil {
		h.writeError(w, err)
		return
	}
	nonce, err := interfaces.ParseUint256(chi.URLParam(r, "nonce"))
	if err != nil {
		h.writeError(w, badRequest("invalid nonce: %w", err))
		return
	}

	resp, err := h.provider.NonceStatus(r.Context(), contract, nonce)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) HandleSigner(w http.ResponseWriter, r *http.Request) {
	contract, err := pathAddress(r, "address")
	if err != nil {
		h.writeError(w, err)
		return
	}
	signer, err := pathAddress(r, "signer")
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.provider.SignerStatus(r.Context(), contract, signer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	resp := api.ErrorResponse{Error: err.Error()}
	if kind := interfaces.KindOf(err); kind != interfaces.KindUnknown {
		resp.Kind = kind.String()
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func statusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	switch {
	case errors.Is(err, api.ErrContractNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrWrongContract):
		return http.StatusBadRequest
	}
	switch interfaces.KindOf(err) {
	case interfaces.KindValidation:
		return http.StatusBadRequest
	case interfaces.KindAuthorization:
		return http.StatusForbidden
	case interfaces.KindReplay:
		return http.StatusConflict
	case interfaces.KindState:
		return http.StatusPreconditionFailed
	case interfaces.KindExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func pathAddress(r *http.Request, name string) (common.Address, error) {
	raw := chi.URLParam(r, name)
	addr, err := interfaces.ParseAddress(raw)
	if err != nil {
		return common.Address{}, badRequest("invalid %s %q: %w", name, raw, err)
	}
	return addr, nil
}

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

// BridgeClient talks to the devnet HTTP API.
type BridgeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBridgeClient(baseURL string, timeout ...time.Duration) *BridgeClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}
	return &BridgeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

func (c *BridgeClient) Deployment(ctx context.Context) (*api.DeploymentResponse, error) {
	var out api.DeploymentResponse
	if err := c.do(ctx, http.MethodGet, "/api/deployment", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) Call(ctx context.Context, req *api.CallRequest) (*api.CallResponse, error) {
	var out api.CallResponse
	if err := c.do(ctx, http.MethodPost, "/api/call", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) Events(ctx context.Context, from int) (*api.EventsResponse, error) {
	var out api.EventsResponse
	if err := c.do(ctx, http.MethodGet, "/api/events?from="+strconv.Itoa(from), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) TimelockTransaction(ctx context.Context, timelock common.Address, hash common.Hash) (*api.TimelockTxResponse, error) {
	var out api.TimelockTxResponse
	path := fmt.Sprintf("/api/timelock/%s/tx/%s", timelock.Hex(), hash.Hex())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) NonceStatus(ctx context.Context, contract common.Address, nonce *big.Int) (*api.NonceResponse, error) {
	var out api.NonceResponse
	path := fmt.Sprintf("/api/nonce/%s/%s", contract.Hex(), nonce.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) SignerStatus(ctx context.Context, contract, signer common.Address) (*api.SignerResponse, error) {
	var out api.SignerResponse
	path := fmt.Sprintf("/api/signer/%s/%s", contract.Hex(), signer.Hex())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BridgeClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse response from %s: %w", path, err)
	}
	return nil
}

// decodeError turns an error response back into the error the server saw.
func decodeError(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("endpoint returned non-200 response: %d", resp.StatusCode)
	}
	var parsed api.ErrorResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil || parsed.Error == "" {
		return fmt.Errorf("endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", api.ErrContractNotFound, parsed.Error)
	}
	if parsed.Kind != "" {
		return &interfaces.Error{Kind: interfaces.ParseErrorKind(parsed.Kind), Reason: parsed.Error}
	}
	return fmt.Errorf("endpoint returned error %d: %s", resp.StatusCode, parsed.Error)
}

var _ api.BridgeProvider = (*BridgeClient)(nil)

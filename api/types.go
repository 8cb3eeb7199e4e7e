package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/governance"
)

var (
	ErrContractNotFound = errors.New("no contract at address")
	ErrWrongContract    = errors.New("contract does not support this query")
)

// BridgeProvider is the surface of a running custody deployment.
type BridgeProvider interface {
	Deployment(ctx context.Context) (*DeploymentResponse, error)
	Call(ctx context.Context, req *CallRequest) (*CallResponse, error)
	Events(ctx context.Context, from int) (*EventsResponse, error)
	TimelockTransaction(ctx context.Context, timelock common.Address, hash common.Hash) (*TimelockTxResponse, error)
	NonceStatus(ctx context.Context, contract common.Address, nonce *big.Int) (*NonceResponse, error)
	SignerStatus(ctx context.Context, contract, signer common.Address) (*SignerResponse, error)
}

type DeploymentResponse struct {
	Contracts map[string]common.Address `json:"contracts"`
	Signers   []common.Address          `json:"signers"`
	Now       int64                     `json:"now"`
}

// CallRequest is executed as a transaction from From. Input is ABI calldata;
// an empty Input with a Value is a plain transfer.
type CallRequest struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Input hexutil.Bytes  `json:"input"`
}

type CallResponse struct {
	Events []EventView `json:"events"`
}

type EventsResponse struct {
	Events []EventView `json:"events"`
	Next   int         `json:"next"`
}

// EventView is the JSON form of chain.Event.
type EventView struct {
	Index    int             `json:"index"`
	Contract common.Address  `json:"contract"`
	Name     string          `json:"name"`
	Data     json.RawMessage `json:"data"`
	Time     int64           `json:"time"`
}

func NewEventView(e chain.Event) (EventView, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return EventView{}, err
	}
	return EventView{
		Index:    e.Index,
		Contract: e.Contract,
		Name:     e.Name,
		Data:     data,
		Time:     e.Time.Unix(),
	}, nil
}

func NewEventViews(events []chain.Event) ([]EventView, error) {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		v, err := NewEventView(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type TimelockTxResponse struct {
	Hash        common.Hash             `json:"hash"`
	State       governance.TxState      `json:"state"`
	Transaction *governance.Transaction `json:"transaction,omitempty"`
}

type NonceResponse struct {
	Contract common.Address `json:"contract"`
	Nonce    *big.Int       `json:"nonce"`
	Used     bool           `json:"used"`
}

type SignerResponse struct {
	Contract   common.Address `json:"contract"`
	Signer     common.Address `json:"signer"`
	Registered bool           `json:"registered"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

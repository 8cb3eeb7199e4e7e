package clients

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/stretchr/testify/mock"
)

// MockBridgeProvider is a testify mock of api.BridgeProvider.
type MockBridgeProvider struct {
	mock.Mock
}

func (m *MockBridgeProvider) Deployment(ctx context.Context) (*api.DeploymentResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.DeploymentResponse), args.Error(1)
}

func (m *MockBridgeProvider) Call(ctx context.Context, req *api.CallRequest) (*api.CallResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.CallResponse), args.Error(1)
}

func (m *MockBridgeProvider) Events(ctx context.Context, from int) (*api.EventsResponse, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.EventsResponse), args.Error(1)
}

func (m *MockBridgeProvider) TimelockTransaction(ctx context.Context, timelock common.Address, hash common.Hash) (*api.TimelockTxResponse, error) {
	args := m.Called(ctx, timelock, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.TimelockTxResponse), args.Error(1)
}

func (m *MockBridgeProvider) NonceStatus(ctx context.Context, contract common.Address, nonce *big.Int) (*api.NonceResponse, error) {
	args := m.Called(ctx, contract, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.NonceResponse), args.Error(1)
}

func (m *MockBridgeProvider) SignerStatus(ctx context.Context, contract, signer common.Address) (*api.SignerResponse, error) {
	args := m.Called(ctx, contract, signer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.SignerResponse), args.Error(1)
}

var _ api.BridgeProvider = (*MockBridgeProvider)(nil)

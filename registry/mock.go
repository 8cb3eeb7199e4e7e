package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// MockSignerReader mocks the SignerReader interface
type MockSignerReader struct {
	mock.Mock
}

func (m *MockSignerReader) IsSigner(ctx context.Context, signer common.Address) (bool, error) {
	args := m.Called(ctx, signer)
	return args.Bool(0), args.Error(1)
}

func (m *MockSignerReader) TimeLocker(ctx context.Context) (common.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockSignerReader) Paused(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

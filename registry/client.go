package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var ErrSignerNotRegistered = errors.New("signer is not registered on the custody contract")

// SignerReader answers registry queries against a deployed contract.
type SignerReader interface {
	IsSigner(ctx context.Context, signer common.Address) (bool, error)
	TimeLocker(ctx context.Context) (common.Address, error)
	Paused(ctx context.Context) (bool, error)
}

// OnchainSignerClient implements SignerReader for a custody contract
// deployed on an EVM chain.
type OnchainSignerClient struct {
	contract *CustodyViewsCaller
	address  common.Address
}

func NewOnchainSignerClient(caller bind.ContractCaller, address common.Address) (*OnchainSignerClient, error) {
	contract, err := NewCustodyViewsCaller(address, caller)
	if err != nil {
		return nil, err
	}
	return &OnchainSignerClient{contract: contract, address: address}, nil
}

func (c *OnchainSignerClient) Address() common.Address {
	return c.address
}

func (c *OnchainSignerClient) IsSigner(ctx context.Context, signer common.Address) (bool, error) {
	return c.contract.Signers(&bind.CallOpts{Context: ctx}, signer)
}

func (c *OnchainSignerClient) TimeLocker(ctx context.Context) (common.Address, error) {
	return c.contract.TimeLocker(&bind.CallOpts{Context: ctx})
}

func (c *OnchainSignerClient) Paused(ctx context.Context) (bool, error) {
	return c.contract.Paused(&bind.CallOpts{Context: ctx})
}

// RequireSigner fails unless signer is registered and the contract is
// accepting releases.
func RequireSigner(ctx context.Context, reader SignerReader, signer common.Address) error {
	ok, err := reader.IsSigner(ctx, signer)
	if err != nil {
		return fmt.Errorf("could not query signer registration: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSignerNotRegistered, signer)
	}
	paused, err := reader.Paused(ctx)
	if err != nil {
		return fmt.Errorf("could not query pause state: %w", err)
	}
	if paused {
		return errors.New("custody contract is paused")
	}
	return nil
}

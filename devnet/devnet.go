package devnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/attributes"
	"github.com/ruteri/asset-custody-bridge/bridge"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/governance"
)

// Contract names used in DeploymentResponse.
const (
	ContractTimelock    = "timelock"
	ContractToken       = "token"
	ContractCollection  = "collection"
	ContractAttributes  = "attributes"
	ContractFungible    = "fungible-bridge"
	ContractReceiver    = "receiver-bridge"
	ContractCollectible = "collectible-bridge"
	ContractAttribute   = "attribute-bridge"
)

type Config struct {
	// Owner deploys and owns every contract and is the asset minter.
	Owner      common.Address
	Controller common.Address
	// Admin administers the timelock.
	Admin   common.Address
	Signers []common.Address
	Delay   time.Duration
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

type Devnet struct {
	env *chain.Env
	log *slog.Logger

	Timelock    *governance.Timelock
	Token       *assets.Token
	Collection  *assets.Collection
	Attributes  *attributes.Store
	Fungible    *bridge.FungibleBridge
	Receiver    *bridge.ReceiverBridge
	Collectible *bridge.CollectibleBridge
	Attribute   *bridge.AttributeBridge

	signers []common.Address
}

type nonceReader interface {
	NonceUsed(nonce *big.Int) bool
}

type signerReader interface {
	IsSigner(addr common.Address) bool
}

func New(cfg Config, log *slog.Logger) (*Devnet, error) {
	if cfg.Owner == (common.Address{}) || cfg.Admin == (common.Address{}) {
		return nil, errors.New("owner and admin are required")
	}
	if len(cfg.Signers) == 0 {
		return nil, errors.New("at least one signer is required")
	}

	env := chain.NewEnv(cfg.Clock, log)
	d := &Devnet{env: env, log: log, signers: append([]common.Address(nil), cfg.Signers...)}

	var err error
	d.Timelock, err = chain.Deploy(env, func(addr common.Address) (*governance.Timelock, error) {
		return governance.NewTimelock(addr, cfg.Admin, cfg.Delay, log)
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy timelock: %w", err)
	}

	d.Token, err = chain.Deploy(env, func(addr common.Address) (*assets.Token, error) {
		return assets.NewToken(addr, cfg.Owner), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy token: %w", err)
	}
	d.Collection, err = chain.Deploy(env, func(addr common.Address) (*assets.Collection, error) {
		return assets.NewCollection(addr, cfg.Owner), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy collection: %w", err)
	}
	d.Attributes, err = chain.Deploy(env, func(addr common.Address) (*attributes.Store, error) {
		return attributes.NewStore(addr, d.Collection, attributes.Config{
			Owner:      cfg.Owner,
			Controller: cfg.Controller,
			TimeLocker: d.Timelock.Address(),
			Signers:    cfg.Signers,
		}, log), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy attribute store: %w", err)
	}

	bcfg := bridge.Config{
		Owner:      cfg.Owner,
		Controller: cfg.Controller,
		TimeLocker: d.Timelock.Address(),
		Signers:    cfg.Signers,
	}
	d.Fungible, err = chain.Deploy(env, func(addr common.Address) (*bridge.FungibleBridge, error) {
		return bridge.NewFungibleBridge(addr, d.Token, bcfg, log), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy fungible bridge: %w", err)
	}
	d.Receiver, err = chain.Deploy(env, func(addr common.Address) (*bridge.ReceiverBridge, error) {
		return bridge.NewReceiverBridge(addr, d.Token, bcfg, log), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy receiver bridge: %w", err)
	}
	d.Collectible, err = chain.Deploy(env, func(addr common.Address) (*bridge.CollectibleBridge, error) {
		return bridge.NewCollectibleBridge(addr, bcfg, log), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy collectible bridge: %w", err)
	}
	d.Attribute, err = chain.Deploy(env, func(addr common.Address) (*bridge.AttributeBridge, error) {
		return bridge.NewAttributeBridge(addr, d.Attributes, bcfg, log), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not deploy attribute bridge: %w", err)
	}

	// Genesis grant: the attribute bridge edits the store on release.
	err = env.Transact(d.Timelock.Address(), d.Attributes.Address(), nil, func(c *chain.Call) error {
		return d.Attributes.SetAttributeController(c, d.Attribute.Address(), true)
	})
	if err != nil {
		return nil, fmt.Errorf("could not grant attribute controller: %w", err)
	}

	// The store mints collection tokens on signed game requests.
	err = env.Transact(cfg.Owner, d.Collection.Address(), nil, func(c *chain.Call) error {
		return d.Collection.SetMinter(c, d.Attributes.Address(), true)
	})
	if err != nil {
		return nil, fmt.Errorf("could not grant store minter: %w", err)
	}

	log.Info("devnet deployed", "timelock", d.Timelock.Address(), "signers", len(cfg.Signers))
	return d, nil
}

func (d *Devnet) Env() *chain.Env { return d.env }

func (d *Devnet) Contracts() map[string]common.Address {
	return map[string]common.Address{
		ContractTimelock:    d.Timelock.Address(),
		ContractToken:       d.Token.Address(),
		ContractCollection:  d.Collection.Address(),
		ContractAttributes:  d.Attributes.Address(),
		ContractFungible:    d.Fungible.Address(),
		ContractReceiver:    d.Receiver.Address(),
		ContractCollectible: d.Collectible.Address(),
		ContractAttribute:   d.Attribute.Address(),
	}
}

func (d *Devnet) Deployment(ctx context.Context) (*api.DeploymentResponse, error) {
	return &api.DeploymentResponse{
		Contracts: d.Contracts(),
		Signers:   d.signers,
		Now:       d.env.Now().Unix(),
	}, nil
}

func (d *Devnet) Call(ctx context.Context, req *api.CallRequest) (*api.CallResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := d.env.Execute(req.From, req.To, (*big.Int)(req.Value), req.Input)
	if err != nil {
		return nil, err
	}
	views, err := api.NewEventViews(events)
	if err != nil {
		return nil, err
	}
	return &api.CallResponse{Events: views}, nil
}

func (d *Devnet) Events(ctx context.Context, from int) (*api.EventsResponse, error) {
	events := d.env.Events(from)
	views, err := api.NewEventViews(events)
	if err != nil {
		return nil, err
	}
	next := from
	if len(events) > 0 {
		next = events[len(events)-1].Index + 1
	}
	return &api.EventsResponse{Events: views, Next: next}, nil
}

func (d *Devnet) TimelockTransaction(ctx context.Context, timelock common.Address, hash common.Hash) (*api.TimelockTxResponse, error) {
	contract, found := d.env.Contract(timelock)
	if !found {
		return nil, api.ErrContractNotFound
	}
	tl, ok := contract.(*governance.Timelock)
	if !ok {
		return nil, api.ErrWrongContract
	}

	resp := &api.TimelockTxResponse{Hash: hash}
	d.env.View(func() {
		resp.State = tl.State(hash, d.env.Now())
		if tx, found := tl.Transaction(hash); found {
			resp.Transaction = &tx
		}
	})
	return resp, nil
}

func (d *Devnet) NonceStatus(ctx context.Context, contract common.Address, nonce *big.Int) (*api.NonceResponse, error) {
	c, found := d.env.Contract(contract)
	if !found {
		return nil, api.ErrContractNotFound
	}
	reader, ok := c.(nonceReader)
	if !ok {
		return nil, api.ErrWrongContract
	}

	resp := &api.NonceResponse{Contract: contract, Nonce: new(big.Int).Set(nonce)}
	d.env.View(func() { resp.Used = reader.NonceUsed(nonce) })
	return resp, nil
}

func (d *Devnet) SignerStatus(ctx context.Context, contract, signer common.Address) (*api.SignerResponse, error) {
	c, found := d.env.Contract(contract)
	if !found {
		return nil, api.ErrContractNotFound
	}
	reader, ok := c.(signerReader)
	if !ok {
		return nil, api.ErrWrongContract
	}

	resp := &api.SignerResponse{Contract: contract, Signer: signer}
	d.env.View(func() { resp.Registered = reader.IsSigner(signer) })
	return resp, nil
}

// Fund credits native value to an account, for faucets and tests.
func (d *Devnet) Fund(addr common.Address, amount *big.Int) {
	d.env.Fund(addr, amount)
}

var _ api.BridgeProvider = (*Devnet)(nil)

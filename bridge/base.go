package bridge

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/ledger"
	"github.com/ruteri/asset-custody-bridge/registry"
	"github.com/ruteri/asset-custody-bridge/roles"
)

var (
	ErrNonceUsed     = interfaces.NewReplayError("nonce already used")
	ErrParamLength   = interfaces.NewValidationError("param length error")
	ErrZeroAmount    = interfaces.NewValidationError("amount is zero")
	ErrEmptyBatch    = interfaces.NewValidationError("empty batch")
	ErrNotCollection = interfaces.NewValidationError("asset is not a collectible")
	ErrNoEther       = interfaces.NewStateError("no ether to unlock")
)

type Config struct {
	Owner      common.Address
	Controller common.Address
	TimeLocker common.Address
	Signers    []common.Address
}

// Base is the scaffolding shared by every bridge variant.
type Base struct {
	addr    common.Address
	log     *slog.Logger
	roles   *roles.Roles
	nonces  *ledger.NonceLedger
	signers *registry.SignerRegistry
	auth    *cryptoutils.Authorizer
	methods *chain.Dispatcher
}

func newBase(addr common.Address, kind string, cfg Config, log *slog.Logger) *Base {
	signers := registry.NewSignerRegistry(cfg.Signers)
	b := &Base{
		addr:    addr,
		log:     log.With("contract", kind, "address", addr),
		roles:   roles.New(cfg.Owner, cfg.Controller, cfg.TimeLocker),
		nonces:  ledger.NewNonceLedger(ErrNonceUsed),
		signers: signers,
		auth:    cryptoutils.NewAuthorizer(signers),
		methods: chain.NewDispatcher(),
	}
	b.registerAdminMethods()
	return b
}

func (b *Base) Address() common.Address { return b.addr }

func (b *Base) Call(c *chain.Call, input []byte) error { return b.methods.Dispatch(c, input) }

func (b *Base) Owner() common.Address             { return b.roles.Owner() }
func (b *Base) Controller() common.Address        { return b.roles.Controller() }
func (b *Base) TimeLocker() common.Address        { return b.roles.TimeLocker() }
func (b *Base) Paused() bool                      { return b.roles.Paused() }
func (b *Base) IsSigner(addr common.Address) bool { return b.signers.IsSigner(addr) }
func (b *Base) Signers() []common.Address         { return b.signers.Signers() }
func (b *Base) NonceUsed(nonce *big.Int) bool     { return b.nonces.IsUsed(nonce) }

func (b *Base) SetSigner(c *chain.Call, signer common.Address, allowed bool) error {
	if err := b.roles.OnlyTimeLocker(c); err != nil {
		return err
	}
	b.signers.Set(c, signer, allowed)
	b.log.Info("signer updated", "signer", signer, "allowed", allowed)
	return nil
}

func (b *Base) SetTimeLocker(c *chain.Call, timeLocker common.Address) error {
	if err := b.roles.SetTimeLocker(c, timeLocker); err != nil {
		return err
	}
	b.log.Info("timelocker rotated", "timeLocker", timeLocker)
	return nil
}

func (b *Base) SetController(c *chain.Call, controller common.Address) error {
	return b.roles.SetController(c, controller)
}

func (b *Base) TransferOwnership(c *chain.Call, owner common.Address) error {
	if err := b.roles.TransferOwnership(c, owner); err != nil {
		return err
	}
	b.log.Info("ownership transferred", "owner", owner)
	return nil
}

func (b *Base) Pause(c *chain.Call) error   { return b.roles.Pause(c) }
func (b *Base) Unpause(c *chain.Call) error { return b.roles.Unpause(c) }

// UnLockEther sweeps native value held by the bridge to the Owner.
func (b *Base) UnLockEther(c *chain.Call) error {
	if err := b.roles.OnlyOwner(c); err != nil {
		return err
	}
	balance := c.Balance(b.addr)
	if balance.Sign() == 0 {
		return ErrNoEther
	}
	return c.Transfer(b.roles.Owner(), balance)
}

// verify checks the release preconditions shared by every signature-gated
// release: not paused, nonce fresh, signature from a registered signer.
func (b *Base) verify(nonce *big.Int, digest common.Hash, digestErr error, sig []byte) error {
	if err := b.roles.WhenNotPaused(); err != nil {
		return err
	}
	if err := b.nonces.Check(nonce); err != nil {
		return err
	}
	if digestErr != nil {
		return interfaces.NewValidationError(digestErr.Error())
	}
	signer, err := b.auth.Verify(digest, sig)
	if err != nil {
		b.log.Debug("release signature rejected", "signer", signer, "nonce", nonce, "err", err)
		return err
	}
	return nil
}

// depositFungible pulls amount of token from the caller. The nonce is
// consumed before the token is called.
func (b *Base) depositFungible(c *chain.Call, token assets.Fungible, amount, nonce *big.Int) error {
	if err := b.roles.WhenNotPaused(); err != nil {
		return err
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	sub, err := c.Sub(token.Address())
	if err != nil {
		return err
	}
	if err := token.TransferFrom(sub, c.Sender(), b.addr, amount); err != nil {
		return external(err)
	}
	c.Emit("TopUp", TopUp{Caller: c.Sender(), Asset: token.Address(), AmountOrID: new(big.Int).Set(amount), Nonce: new(big.Int).Set(nonce)})
	return nil
}

func (b *Base) sendFungible(c *chain.Call, token assets.Fungible, to common.Address, amount *big.Int) error {
	sub, err := c.Sub(token.Address())
	if err != nil {
		return err
	}
	return external(token.Transfer(sub, to, amount))
}

func (b *Base) registerAdminMethods() {
	b.methods.Register("setSigner(address,bool)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		signer, allowed := a.Address(0), a.Bool(1)
		if err := a.Err(); err != nil {
			return err
		}
		return b.SetSigner(c, signer, allowed)
	})
	b.methods.Register("setTimeLocker(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		timeLocker := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return b.SetTimeLocker(c, timeLocker)
	})
	b.methods.Register("setController(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		controller := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return b.SetController(c, controller)
	})
	b.methods.Register("transferOwnership(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		owner := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return b.TransferOwnership(c, owner)
	})
	b.methods.Register("pause()", func(c *chain.Call, _ []any) error { return b.Pause(c) })
	b.methods.Register("unpause()", func(c *chain.Call, _ []any) error { return b.Unpause(c) })
	b.methods.Register("unLockEther()", func(c *chain.Call, _ []any) error { return b.UnLockEther(c) })
}

func checkAmount(amount *big.Int) error {
	if !interfaces.IsUint(amount, 256) {
		return interfaces.NewValidationError("amount out of range")
	}
	if amount.Sign() == 0 {
		return ErrZeroAmount
	}
	return nil
}

func external(err error) error {
	if err == nil {
		return nil
	}
	return interfaces.NewExternalCallError(err)
}

func copyBigs(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

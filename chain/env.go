package chain

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

const maxCallDepth = 64

var (
	ErrInsufficientBalance = interfaces.NewStateError("Address: insufficient balance")
	ErrCallDepth           = interfaces.NewStateError("call depth exceeded")
	ErrAlreadyDeployed     = errors.New("contract already deployed at address")
)

// Contract is anything addressable that accepts ABI-encoded calls.
type Contract interface {
	Address() common.Address
	Call(c *Call, input []byte) error
}

// Observer is notified after every top-level call.
type Observer interface {
	ObserveCall(to common.Address, err error, duration time.Duration)
}

// Env holds contracts, native balances and the event log.
type Env struct {
	mu    sync.Mutex
	clock clock.Clock
	log   *slog.Logger

	contractsMu sync.RWMutex
	contracts   map[common.Address]Contract
	deployer    common.Address
	deployed    uint64

	balances map[common.Address]*big.Int
	events   []Event
	observer Observer
}

func NewEnv(clk clock.Clock, log *slog.Logger) *Env {
	if clk == nil {
		clk = clock.New()
	}
	return &Env{
		clock:     clk,
		log:       log,
		contracts: make(map[common.Address]Contract),
		deployer:  common.HexToAddress("0x000000000000000000000000000000000000dE9e"),
		balances:  make(map[common.Address]*big.Int),
	}
}

func (e *Env) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// Now returns the current block timestamp, which has second granularity.
func (e *Env) Now() time.Time {
	return e.clock.Now().Truncate(time.Second)
}

// NextAddress reserves a fresh contract address.
func (e *Env) NextAddress() common.Address {
	e.contractsMu.Lock()
	defer e.contractsMu.Unlock()
	addr := crypto.CreateAddress(e.deployer, e.deployed)
	e.deployed++
	return addr
}

func (e *Env) Register(c Contract) error {
	e.contractsMu.Lock()
	defer e.contractsMu.Unlock()
	if _, found := e.contracts[c.Address()]; found {
		return fmt.Errorf("%w: %s", ErrAlreadyDeployed, c.Address())
	}
	e.contracts[c.Address()] = c
	e.log.Debug("contract deployed", "address", c.Address(), "type", fmt.Sprintf("%T", c))
	return nil
}

// Deploy reserves an address, builds the contract at it and registers it.
func Deploy[T Contract](e *Env, build func(addr common.Address) (T, error)) (T, error) {
	contract, err := build(e.NextAddress())
	if err != nil {
		return contract, err
	}
	return contract, e.Register(contract)
}

func (e *Env) Contract(addr common.Address) (Contract, bool) {
	e.contractsMu.RLock()
	defer e.contractsMu.RUnlock()
	c, found := e.contracts[addr]
	return c, found
}

// Fund credits native value to addr outside of any call.
func (e *Env) Fund(addr common.Address, amount *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setBalance(addr, new(big.Int).Add(e.balanceOf(addr), amount))
}

func (e *Env) Balance(addr common.Address) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.balanceOf(addr))
}

// Events returns a copy of the log starting at index from.
func (e *Env) Events(from int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	if from < 0 || from >= len(e.events) {
		return []Event{}
	}
	out := make([]Event, len(e.events)-from)
	copy(out, e.events[from:])
	return out
}

// View runs fn with the environment locked so it observes a consistent state.
func (e *Env) View(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Transact runs fn as a top-level call from sender to the contract at to,
// moving value from sender to to first. All effects are rolled back if fn
// returns an error.
func (e *Env) Transact(from, to common.Address, value *big.Int, fn func(c *Call) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	c := &Call{
		env:    e,
		sender: from,
		self:   to,
		value:  valueOrZero(value),
		now:    e.Now(),
		j:      &journal{},
	}
	defer func() {
		if err != nil {
			c.j.revert()
			e.log.Debug("call reverted", "from", from, "to", to, "reason", interfaces.Reason(err), "kind", interfaces.KindOf(err))
		} else {
			e.log.Debug("call executed", "from", from, "to", to)
		}
		if e.observer != nil {
			e.observer.ObserveCall(to, err, time.Since(start))
		}
	}()

	if err := c.moveValue(from, to, c.value); err != nil {
		return err
	}
	return fn(c)
}

// Send dispatches ABI-encoded input to the contract at to. Sending to an
// address without a contract only moves value.
func (e *Env) Send(from, to common.Address, value *big.Int, input []byte) error {
	_, err := e.Execute(from, to, value, input)
	return err
}

// Execute is Send that also returns the events emitted by the call.
func (e *Env) Execute(from, to common.Address, value *big.Int, input []byte) ([]Event, error) {
	var emitted []Event
	err := e.Transact(from, to, value, func(c *Call) error {
		start := len(e.events)
		if contract, found := e.Contract(to); found {
			if err := contract.Call(c, input); err != nil {
				return err
			}
		}
		emitted = make([]Event, len(e.events)-start)
		copy(emitted, e.events[start:])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emitted, nil
}

func (e *Env) balanceOf(addr common.Address) *big.Int {
	if b, found := e.balances[addr]; found {
		return b
	}
	return new(big.Int)
}

func (e *Env) setBalance(addr common.Address, amount *big.Int) {
	e.balances[addr] = amount
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

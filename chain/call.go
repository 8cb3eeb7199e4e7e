package chain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

// Call is a single frame of execution.
type Call struct {
	env    *Env
	sender common.Address
	self   common.Address
	value  *big.Int
	now    time.Time
	depth  int
	j      *journal
}

// Sender is the immediate caller of this frame.
func (c *Call) Sender() common.Address { return c.sender }

// Self is the address of the contract executing this frame.
func (c *Call) Self() common.Address { return c.self }

func (c *Call) Value() *big.Int { return new(big.Int).Set(c.value) }

// Now is the block timestamp, fixed for the whole transaction.
func (c *Call) Now() time.Time { return c.now }

func (c *Call) Env() *Env { return c.env }

// OnRevert registers fn to run if the transaction fails.
func (c *Call) OnRevert(fn func()) {
	c.j.append(fn)
}

func (c *Call) Emit(name string, data any) {
	e := c.env
	e.events = append(e.events, Event{
		Index:    len(e.events),
		Contract: c.self,
		Name:     name,
		Data:     data,
		Time:     c.now,
	})
	n := len(e.events) - 1
	c.OnRevert(func() { e.events = e.events[:n] })
}

func (c *Call) Balance(addr common.Address) *big.Int {
	return new(big.Int).Set(c.env.balanceOf(addr))
}

// Transfer moves native value from the executing contract to to.
func (c *Call) Transfer(to common.Address, amount *big.Int) error {
	return c.moveValue(c.self, to, amount)
}

// Sub opens a nested frame in which the executing contract calls to. It
// fails with ErrCallDepth once the frame limit is reached.
func (c *Call) Sub(to common.Address) (*Call, error) {
	return c.SubWithValue(to, nil)
}

// SubWithValue opens a nested frame carrying native value.
func (c *Call) SubWithValue(to common.Address, value *big.Int) (*Call, error) {
	if c.depth+1 > maxCallDepth {
		return nil, ErrCallDepth
	}
	sub := &Call{
		env:    c.env,
		sender: c.self,
		self:   to,
		value:  valueOrZero(value),
		now:    c.now,
		depth:  c.depth + 1,
		j:      c.j,
	}
	if err := c.moveValue(c.self, to, sub.value); err != nil {
		return nil, err
	}
	return sub, nil
}

// Invoke calls the contract at to with ABI-encoded input, attaching value.
// Calling an address without a contract succeeds after moving the value.
func (c *Call) Invoke(to common.Address, value *big.Int, input []byte) error {
	sub, err := c.SubWithValue(to, value)
	if err != nil {
		return err
	}
	contract, found := c.env.Contract(to)
	if !found {
		return nil
	}
	return contract.Call(sub, input)
}

func (c *Call) moveValue(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return interfaces.NewValidationError("negative value")
	}
	e := c.env
	fromBal := e.balanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal := e.balanceOf(to)
	e.setBalance(from, new(big.Int).Sub(fromBal, amount))
	e.setBalance(to, new(big.Int).Add(e.balanceOf(to), amount))
	c.OnRevert(func() {
		e.setBalance(from, fromBal)
		e.setBalance(to, toBal)
	})
	return nil
}

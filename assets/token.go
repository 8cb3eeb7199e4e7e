package assets

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
)

// Token is a minimal ERC20.
type Token struct {
	addr       common.Address
	minter     common.Address
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	supply     *big.Int
	methods    *chain.Dispatcher
}

func NewToken(addr, minter common.Address) *Token {
	t := &Token{
		addr:       addr,
		minter:     minter,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
		supply:     new(big.Int),
		methods:    chain.NewDispatcher(),
	}
	t.methods.Register("transfer(address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		to, amount := a.Address(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return t.Transfer(c, to, amount)
	})
	t.methods.Register("approve(address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		spender, amount := a.Address(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return t.Approve(c, spender, amount)
	})
	t.methods.Register("transferFrom(address,address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		from, to, amount := a.Address(0), a.Address(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return t.TransferFrom(c, from, to, amount)
	})
	t.methods.Register("mint(address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		to, amount := a.Address(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return t.Mint(c, to, amount)
	})
	return t
}

func (t *Token) Address() common.Address { return t.addr }

func (t *Token) Call(c *chain.Call, input []byte) error { return t.methods.Dispatch(c, input) }

func (t *Token) BalanceOf(owner common.Address) *big.Int {
	if b, found := t.balances[owner]; found {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	if a, found := t.allowances[owner][spender]; found {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (t *Token) TotalSupply() *big.Int {
	return new(big.Int).Set(t.supply)
}

func (t *Token) Mint(c *chain.Call, to common.Address, amount *big.Int) error {
	if c.Sender() != t.minter {
		return ErrNotMinter
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	prevSupply := t.supply
	t.supply = new(big.Int).Add(prevSupply, amount)
	c.OnRevert(func() { t.supply = prevSupply })
	t.setBalance(c, to, new(big.Int).Add(t.BalanceOf(to), amount))
	c.Emit("Transfer", Transfer{To: to, Value: new(big.Int).Set(amount)})
	return nil
}

func (t *Token) Approve(c *chain.Call, spender common.Address, amount *big.Int) error {
	t.setAllowance(c, c.Sender(), spender, amount)
	c.Emit("Approval", Approval{Owner: c.Sender(), Spender: spender, Value: new(big.Int).Set(amount)})
	return nil
}

func (t *Token) Transfer(c *chain.Call, to common.Address, amount *big.Int) error {
	return t.move(c, c.Sender(), to, amount)
}

// TransferFrom spends the caller's allowance from owner.
func (t *Token) TransferFrom(c *chain.Call, from, to common.Address, amount *big.Int) error {
	allowance := t.Allowance(from, c.Sender())
	if allowance.Cmp(amount) < 0 {
		return ErrTransferExceedsAllowance
	}
	t.setAllowance(c, from, c.Sender(), new(big.Int).Sub(allowance, amount))
	return t.move(c, from, to, amount)
}

func (t *Token) move(c *chain.Call, from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	fromBal := t.BalanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return ErrTransferExceedsBalance
	}
	t.setBalance(c, from, new(big.Int).Sub(fromBal, amount))
	t.setBalance(c, to, new(big.Int).Add(t.BalanceOf(to), amount))
	c.Emit("Transfer", Transfer{From: from, To: to, Value: new(big.Int).Set(amount)})
	return nil
}

func (t *Token) setBalance(c *chain.Call, owner common.Address, amount *big.Int) {
	prev, existed := t.balances[owner]
	t.balances[owner] = amount
	c.OnRevert(func() {
		if existed {
			t.balances[owner] = prev
		} else {
			delete(t.balances, owner)
		}
	})
}

func (t *Token) setAllowance(c *chain.Call, owner, spender common.Address, amount *big.Int) {
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	prev, existed := t.allowances[owner][spender]
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	c.OnRevert(func() {
		if existed {
			t.allowances[owner][spender] = prev
		} else {
			delete(t.allowances[owner], spender)
		}
	})
}

package assets

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
)

// Collection is a minimal ERC721.
type Collection struct {
	addr      common.Address
	minter    common.Address
	minters   map[common.Address]bool
	supply    *big.Int
	owners    map[string]common.Address
	approvals map[string]common.Address
	operators map[common.Address]map[common.Address]bool
	methods   *chain.Dispatcher
}

func NewCollection(addr, minter common.Address) *Collection {
	col := &Collection{
		addr:      addr,
		minter:    minter,
		minters:   make(map[common.Address]bool),
		supply:    new(big.Int),
		owners:    make(map[string]common.Address),
		approvals: make(map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
		methods:   chain.NewDispatcher(),
	}
	col.methods.Register("approve(address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		to, id := a.Address(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return col.Approve(c, to, id)
	})
	col.methods.Register("setApprovalForAll(address,bool)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		operator, approved := a.Address(0), a.Bool(1)
		if err := a.Err(); err != nil {
			return err
		}
		return col.SetApprovalForAll(c, operator, approved)
	})
	col.methods.Register("transferFrom(address,address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		from, to, id := a.Address(0), a.Address(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return col.TransferFrom(c, from, to, id)
	})
	col.methods.Register("safeTransferFrom(address,address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		from, to, id := a.Address(0), a.Address(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return col.SafeTransferFrom(c, from, to, id, nil)
	})
	col.methods.Register("mint(address,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		to, id := a.Address(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return col.Mint(c, to, id)
	})
	col.methods.Register("setMinter(address,bool)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		minter, allowed := a.Address(0), a.Bool(1)
		if err := a.Err(); err != nil {
			return err
		}
		return col.SetMinter(c, minter, allowed)
	})
	return col
}

func (col *Collection) Address() common.Address { return col.addr }

func (col *Collection) Call(c *chain.Call, input []byte) error { return col.methods.Dispatch(c, input) }

func (col *Collection) OwnerOf(tokenID *big.Int) (common.Address, error) {
	owner, found := col.owners[key(tokenID)]
	if !found {
		return common.Address{}, ErrInvalidTokenID
	}
	return owner, nil
}

func (col *Collection) GetApproved(tokenID *big.Int) common.Address {
	return col.approvals[key(tokenID)]
}

func (col *Collection) IsApprovedForAll(owner, operator common.Address) bool {
	return col.operators[owner][operator]
}

func (col *Collection) TotalSupply() *big.Int { return new(big.Int).Set(col.supply) }

func (col *Collection) IsMinter(addr common.Address) bool {
	return addr == col.minter || col.minters[addr]
}

// SetMinter lets the deploying minter grant or revoke minting to another
// account, typically a contract issuing tokens on signed requests.
func (col *Collection) SetMinter(c *chain.Call, minter common.Address, allowed bool) error {
	if c.Sender() != col.minter {
		return ErrNotMinter
	}
	prev := col.minters[minter]
	if allowed {
		col.minters[minter] = true
	} else {
		delete(col.minters, minter)
	}
	c.OnRevert(func() {
		if prev {
			col.minters[minter] = true
		} else {
			delete(col.minters, minter)
		}
	})
	return nil
}

func (col *Collection) Mint(c *chain.Call, to common.Address, tokenID *big.Int) error {
	if !col.IsMinter(c.Sender()) {
		return ErrNotMinter
	}
	if _, found := col.owners[key(tokenID)]; found {
		return ErrTokenMinted
	}
	col.setOwner(c, tokenID, to)
	prev := col.supply
	col.supply = new(big.Int).Add(prev, big.NewInt(1))
	c.OnRevert(func() { col.supply = prev })
	c.Emit("Transfer", Transfer{To: to, Value: new(big.Int).Set(tokenID)})
	return nil
}

func (col *Collection) Approve(c *chain.Call, to common.Address, tokenID *big.Int) error {
	owner, err := col.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if c.Sender() != owner && !col.IsApprovedForAll(owner, c.Sender()) {
		return ErrNotOwnerNorApproved
	}
	col.setApproval(c, tokenID, to)
	c.Emit("Approval", Approval{Owner: owner, Spender: to, Value: new(big.Int).Set(tokenID)})
	return nil
}

func (col *Collection) SetApprovalForAll(c *chain.Call, operator common.Address, approved bool) error {
	owner := c.Sender()
	if col.operators[owner] == nil {
		col.operators[owner] = make(map[common.Address]bool)
	}
	prev := col.operators[owner][operator]
	col.operators[owner][operator] = approved
	c.OnRevert(func() { col.operators[owner][operator] = prev })
	c.Emit("ApprovalForAll", ApprovalForAll{Owner: owner, Operator: operator, Approved: approved})
	return nil
}

// TransferFrom moves tokenID when the caller is its owner, approved for it,
// or an operator of the owner.
func (col *Collection) TransferFrom(c *chain.Call, from, to common.Address, tokenID *big.Int) error {
	owner, err := col.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	spender := c.Sender()
	if spender != owner && col.GetApproved(tokenID) != spender && !col.IsApprovedForAll(owner, spender) {
		return ErrNotOwnerNorApproved
	}
	if owner != from {
		return ErrWrongFrom
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	col.setApproval(c, tokenID, common.Address{})
	col.setOwner(c, tokenID, to)
	c.Emit("Transfer", Transfer{From: from, To: to, Value: new(big.Int).Set(tokenID)})
	return nil
}

// SafeTransferFrom additionally requires contract recipients to accept the
// token through OnERC721Received.
func (col *Collection) SafeTransferFrom(c *chain.Call, from, to common.Address, tokenID *big.Int, data []byte) error {
	if err := col.TransferFrom(c, from, to, tokenID); err != nil {
		return err
	}
	contract, found := c.Env().Contract(to)
	if !found {
		return nil
	}
	receiver, ok := contract.(CollectibleReceiver)
	if !ok {
		return ErrNonReceiver
	}
	sub, err := c.Sub(to)
	if err != nil {
		return err
	}
	ret, err := receiver.OnERC721Received(sub, c.Sender(), from, tokenID, data)
	if err != nil {
		return err
	}
	if ret != ERC721Received {
		return ErrNonReceiver
	}
	return nil
}

func (col *Collection) setOwner(c *chain.Call, tokenID *big.Int, owner common.Address) {
	k := key(tokenID)
	prev, existed := col.owners[k]
	col.owners[k] = owner
	c.OnRevert(func() {
		if existed {
			col.owners[k] = prev
		} else {
			delete(col.owners, k)
		}
	})
}

func (col *Collection) setApproval(c *chain.Call, tokenID *big.Int, to common.Address) {
	k := key(tokenID)
	prev := col.approvals[k]
	if to == (common.Address{}) {
		delete(col.approvals, k)
	} else {
		col.approvals[k] = to
	}
	c.OnRevert(func() {
		if prev == (common.Address{}) {
			delete(col.approvals, k)
		} else {
			col.approvals[k] = prev
		}
	})
}

func key(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

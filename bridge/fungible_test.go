package bridge

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fungibleTopUp   = "topUp(uint256,uint256)"
	fungibleUpChain = "upChain(uint256,uint256,bytes)"
)

func (f *fixture) fungibleSig(t *testing.T, signer *cryptoutils.Signer, caller common.Address, amount, nonce int64) []byte {
	digest, err := cryptoutils.FungibleUpChainDigest(caller, f.fungible.Address(), f.token.Address(), big.NewInt(amount), big.NewInt(nonce))
	return f.sign(t, signer, digest, err)
}

func TestFungible_TopUpAndUpChain(t *testing.T) {
	f := newFixture(t)
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", f.fungible.Address(), big.NewInt(300))

	require.NoError(t, f.call(user1, f.fungible.Address(), fungibleTopUp, big.NewInt(300), big.NewInt(1)))
	assert.Equal(t, int64(300), f.token.BalanceOf(f.fungible.Address()).Int64())
	assert.Equal(t, int64(700), f.token.BalanceOf(user1).Int64())
	assert.Equal(t, "TopUp", f.lastEvent().Name)
	assert.Equal(t, TopUp{Caller: user1, Asset: f.token.Address(), AmountOrID: big.NewInt(300), Nonce: big.NewInt(1)}, f.lastEvent().Data)

	sig := f.fungibleSig(t, f.signer, user1, 120, 2)
	require.NoError(t, f.call(user1, f.fungible.Address(), fungibleUpChain, big.NewInt(120), big.NewInt(2), sig))
	assert.Equal(t, int64(180), f.token.BalanceOf(f.fungible.Address()).Int64())
	assert.Equal(t, int64(820), f.token.BalanceOf(user1).Int64())
	assert.True(t, f.fungible.NonceUsed(big.NewInt(2)))
	assert.Equal(t, "UpChain", f.lastEvent().Name)

	// replaying the release fails and moves nothing
	err := f.call(user1, f.fungible.Address(), fungibleUpChain, big.NewInt(120), big.NewInt(2), sig)
	assert.ErrorIs(t, err, ErrNonceUsed)
	assert.Equal(t, interfaces.KindReplay, interfaces.KindOf(err))
	assert.Equal(t, int64(820), f.token.BalanceOf(user1).Int64())
}

func TestFungible_UpChainRejections(t *testing.T) {
	f := newFixture(t)
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", f.fungible.Address(), big.NewInt(500))
	f.send(t, user1, f.fungible.Address(), fungibleTopUp, big.NewInt(500), big.NewInt(1))

	outsider, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller common.Address
		amount int64
		nonce  int64
		sig    func() []byte
		err    error
	}{
		{
			name:   "nonce shared with deposit",
			caller: user1,
			amount: 10,
			nonce:  1,
			sig:    func() []byte { return f.fungibleSig(t, f.signer, user1, 10, 1) },
			err:    ErrNonceUsed,
		},
		{
			name:   "unregistered signer",
			caller: user1,
			amount: 10,
			nonce:  2,
			sig:    func() []byte { return f.fungibleSig(t, outsider, user1, 10, 2) },
			err:    cryptoutils.ErrSignerNotRegistered,
		},
		{
			name:   "signature for another caller",
			caller: user2,
			amount: 10,
			nonce:  2,
			sig:    func() []byte { return f.fungibleSig(t, f.signer, user1, 10, 2) },
			err:    cryptoutils.ErrSignerNotRegistered,
		},
		{
			name:   "different amount",
			caller: user1,
			amount: 11,
			nonce:  2,
			sig:    func() []byte { return f.fungibleSig(t, f.signer, user1, 10, 2) },
			err:    cryptoutils.ErrSignerNotRegistered,
		},
		{
			name:   "malformed signature",
			caller: user1,
			amount: 10,
			nonce:  2,
			sig:    func() []byte { return []byte{0x01, 0x02} },
			err:    cryptoutils.ErrSignatureMalformed,
		},
		{
			name:   "zero amount",
			caller: user1,
			amount: 0,
			nonce:  2,
			sig:    func() []byte { return f.fungibleSig(t, f.signer, user1, 0, 2) },
			err:    ErrZeroAmount,
		},
		{
			name:   "more than custody",
			caller: user1,
			amount: 501,
			nonce:  2,
			sig:    func() []byte { return f.fungibleSig(t, f.signer, user1, 501, 2) },
			err:    assets.ErrTransferExceedsBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.call(tt.caller, f.fungible.Address(), fungibleUpChain, big.NewInt(tt.amount), big.NewInt(tt.nonce), tt.sig())
			require.ErrorIs(t, err, tt.err)
			assert.False(t, f.fungible.NonceUsed(big.NewInt(2)))
		})
	}
	assert.Equal(t, int64(500), f.token.BalanceOf(f.fungible.Address()).Int64())
}

func TestFungible_TopUpPropagatesAssetFailure(t *testing.T) {
	f := newFixture(t)
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", f.fungible.Address(), big.NewInt(10))

	err := f.call(user1, f.fungible.Address(), fungibleTopUp, big.NewInt(11), big.NewInt(1))
	require.ErrorIs(t, err, assets.ErrTransferExceedsAllowance)
	assert.Equal(t, interfaces.KindExternal, interfaces.KindOf(err))
	assert.Equal(t, "ERC20: transfer amount exceeds allowance", interfaces.Reason(err))
	assert.False(t, f.fungible.NonceUsed(big.NewInt(1)))

	err = f.call(user1, f.fungible.Address(), fungibleTopUp, big.NewInt(0), big.NewInt(1))
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestFungible_Pause(t *testing.T) {
	f := newFixture(t)
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", f.fungible.Address(), big.NewInt(100))

	assert.ErrorIs(t, f.call(user1, f.fungible.Address(), "pause()"), roles.ErrNotController)
	f.send(t, controller, f.fungible.Address(), "pause()")
	assert.True(t, f.fungible.Paused())
	assert.ErrorIs(t, f.call(controller, f.fungible.Address(), "pause()"), roles.ErrPaused)

	assert.ErrorIs(t, f.call(user1, f.fungible.Address(), fungibleTopUp, big.NewInt(10), big.NewInt(1)), roles.ErrPaused)
	sig := f.fungibleSig(t, f.signer, user1, 10, 2)
	assert.ErrorIs(t, f.call(user1, f.fungible.Address(), fungibleUpChain, big.NewInt(10), big.NewInt(2), sig), roles.ErrPaused)

	f.send(t, controller, f.fungible.Address(), "unpause()")
	assert.ErrorIs(t, f.call(controller, f.fungible.Address(), "unpause()"), roles.ErrNotPaused)
	assert.NoError(t, f.call(user1, f.fungible.Address(), fungibleTopUp, big.NewInt(10), big.NewInt(1)))
}

func TestBase_AdminSetters(t *testing.T) {
	f := newFixture(t)
	next, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)
	b := f.fungible.Address()

	assert.ErrorIs(t, f.call(owner, b, "setSigner(address,bool)", next.Address(), true), roles.ErrNotTimeLocker)
	f.send(t, timeLocker, b, "setSigner(address,bool)", next.Address(), true)
	assert.True(t, f.fungible.IsSigner(next.Address()))
	f.send(t, timeLocker, b, "setSigner(address,bool)", f.signer.Address(), false)
	assert.Equal(t, []common.Address{next.Address()}, f.fungible.Signers())

	// the removed signer no longer authorises releases
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", b, big.NewInt(50))
	f.send(t, user1, b, fungibleTopUp, big.NewInt(50), big.NewInt(1))
	err = f.call(user1, b, fungibleUpChain, big.NewInt(5), big.NewInt(2), f.fungibleSig(t, f.signer, user1, 5, 2))
	assert.ErrorIs(t, err, cryptoutils.ErrSignerNotRegistered)
	assert.NoError(t, f.call(user1, b, fungibleUpChain, big.NewInt(5), big.NewInt(2), f.fungibleSig(t, next, user1, 5, 2)))

	assert.ErrorIs(t, f.call(controller, b, "setController(address)", user2), roles.ErrNotOwner)
	f.send(t, owner, b, "setController(address)", user2)
	assert.Equal(t, user2, f.fungible.Controller())

	newLocker := common.HexToAddress("0x1234")
	assert.ErrorIs(t, f.call(owner, b, "setTimeLocker(address)", newLocker), roles.ErrNotTimeLocker)
	f.send(t, timeLocker, b, "setTimeLocker(address)", newLocker)
	assert.Equal(t, newLocker, f.fungible.TimeLocker())
	assert.ErrorIs(t, f.call(timeLocker, b, "setSigner(address,bool)", user2, true), roles.ErrNotTimeLocker)
}

func TestBase_TransferOwnership(t *testing.T) {
	f := newFixture(t)
	b := f.fungible.Address()

	assert.ErrorIs(t, f.call(user1, b, "transferOwnership(address)", user1), roles.ErrNotOwner)
	assert.ErrorIs(t, f.call(owner, b, "transferOwnership(address)", common.Address{}), roles.ErrZeroAddress)
	f.send(t, owner, b, "transferOwnership(address)", user2)
	assert.Equal(t, user2, f.fungible.Owner())
	assert.Equal(t, roles.RoleChanged{Role: "owner", Previous: owner, Current: user2}, f.lastEvent().Data)

	// only the new owner may sweep
	f.env.Fund(b, big.NewInt(3))
	assert.ErrorIs(t, f.call(owner, b, "unLockEther()"), roles.ErrNotOwner)
	f.send(t, user2, b, "unLockEther()")
	assert.Equal(t, int64(3), f.env.Balance(user2).Int64())
}

func TestBase_UnLockEther(t *testing.T) {
	f := newFixture(t)
	b := f.fungible.Address()

	assert.ErrorIs(t, f.call(owner, b, "unLockEther()"), ErrNoEther)
	f.env.Fund(b, big.NewInt(5))
	assert.ErrorIs(t, f.call(user1, b, "unLockEther()"), roles.ErrNotOwner)
	f.send(t, owner, b, "unLockEther()")
	assert.Equal(t, int64(5), f.env.Balance(owner).Int64())
	assert.Zero(t, f.env.Balance(b).Sign())
}

func TestReceiver_Withdraw(t *testing.T) {
	f := newFixture(t)
	r := f.receiver.Address()
	f.send(t, user1, f.token.Address(), "approve(address,uint256)", r, big.NewInt(100))
	f.send(t, user1, r, fungibleTopUp, big.NewInt(100), big.NewInt(9))
	assert.ErrorIs(t, f.call(user1, r, fungibleTopUp, big.NewInt(1), big.NewInt(9)), ErrNonceUsed)

	// the allowance is spent: the deposit fails and its nonce stays free
	err := f.call(user1, r, fungibleTopUp, big.NewInt(1), big.NewInt(10))
	assert.ErrorIs(t, err, assets.ErrTransferExceedsAllowance)
	assert.Equal(t, interfaces.KindExternal, interfaces.KindOf(err))
	assert.False(t, f.receiver.NonceUsed(big.NewInt(10)))
	assert.ErrorIs(t, f.call(user1, r, fungibleTopUp, big.NewInt(0), big.NewInt(10)), ErrZeroAmount)

	const withdraw = "withdraw(uint256,address)"
	assert.ErrorIs(t, f.call(user1, r, withdraw, big.NewInt(10), user2), roles.ErrNotOwner)
	f.send(t, owner, r, withdraw, big.NewInt(40), f.fungible.Address())
	assert.Equal(t, int64(40), f.token.BalanceOf(f.fungible.Address()).Int64())
	assert.Equal(t, int64(60), f.token.BalanceOf(r).Int64())
	assert.Equal(t, Withdraw{Destination: f.fungible.Address(), Amount: big.NewInt(40)}, f.lastEvent().Data)

	err = f.call(owner, r, withdraw, big.NewInt(61), user2)
	assert.Equal(t, interfaces.KindExternal, interfaces.KindOf(err))
	assert.ErrorIs(t, err, assets.ErrTransferExceedsBalance)

	f.send(t, controller, r, "pause()")
	assert.ErrorIs(t, f.call(owner, r, withdraw, big.NewInt(1), user2), roles.ErrPaused)
}

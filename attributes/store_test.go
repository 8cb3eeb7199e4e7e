package attributes

import (
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner      = common.HexToAddress("0x0a")
	timeLocker = common.HexToAddress("0x0b")
	controller = common.HexToAddress("0x0c")
	user1      = common.HexToAddress("0x0d")
	user2      = common.HexToAddress("0x0e")
)

type fixture struct {
	env        *chain.Env
	collection *assets.Collection
	store      *Store
	signer     *cryptoutils.Signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := chain.NewEnv(clock.NewMock(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	signer, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)

	collection, err := chain.Deploy(env, func(addr common.Address) (*assets.Collection, error) {
		return assets.NewCollection(addr, owner), nil
	})
	require.NoError(t, err)

	store, err := chain.Deploy(env, func(addr common.Address) (*Store, error) {
		return NewStore(addr, collection, Config{
			Owner:       owner,
			Controller:  controller,
			TimeLocker:  timeLocker,
			Signers:     []common.Address{signer.Address()},
			Controllers: []common.Address{controller},
		}, slog.New(slog.NewTextHandler(io.Discard, nil))), nil
	})
	require.NoError(t, err)

	f := &fixture{env: env, collection: collection, store: store, signer: signer}
	for _, id := range []int64{0, 1, 5} {
		f.send(t, owner, collection.Address(), "mint(address,uint256)", user1, big.NewInt(id))
	}
	f.send(t, owner, collection.Address(), "setMinter(address,bool)", store.Address(), true)
	return f
}

func (f *fixture) call(from common.Address, sig string, args ...any) error {
	input, err := chain.EncodeCall(sig, args...)
	if err != nil {
		return err
	}
	return f.env.Send(from, f.store.Address(), nil, input)
}

func (f *fixture) send(t *testing.T, from, to common.Address, sig string, args ...any) {
	t.Helper()
	input, err := chain.EncodeCall(sig, args...)
	require.NoError(t, err)
	require.NoError(t, f.env.Send(from, to, nil, input))
}

func (f *fixture) revealSig(t *testing.T, signer *cryptoutils.Signer, tokenID, nonce int64, ids, values []*big.Int) []byte {
	t.Helper()
	digest, err := cryptoutils.RevealDigest(f.store.Address(), big.NewInt(tokenID), big.NewInt(nonce), ids, values)
	require.NoError(t, err)
	sig, err := signer.SignDigest(digest)
	require.NoError(t, err)
	return sig
}

func bigs(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

const revealBySign = "revealBySign(uint256,uint256,uint128[],uint128[],bytes)"
const revealByMerkle = "revealByMerkle(uint256,uint128[],uint128[],bytes32[])"

func TestRevealBySign_Scenario(t *testing.T) {
	f := newFixture(t)
	ids, values := bigs(1, 2), bigs(10, 20)
	sig := f.revealSig(t, f.signer, 5, 7, ids, values)

	require.NoError(t, f.call(user1, revealBySign, big.NewInt(5), big.NewInt(7), ids, values, sig))
	assert.True(t, f.store.Revealed(big.NewInt(5)))
	assert.True(t, f.store.NonceUsed(big.NewInt(7)))

	attrs := f.store.Attributes(big.NewInt(5))
	require.Len(t, attrs, 2)
	assert.Equal(t, int64(1), attrs[0].ID.Int64())
	assert.Equal(t, int64(10), attrs[0].Value.Int64())
	assert.Equal(t, int64(2), attrs[1].ID.Int64())
	assert.Equal(t, int64(20), attrs[1].Value.Int64())

	events := f.env.Events(0)
	last := events[len(events)-1]
	assert.Equal(t, "Revealed", last.Name)
	assert.Equal(t, Revealed{TokenID: big.NewInt(5)}, last.Data)

	// the identical call fails because the token is revealed
	err := f.call(user1, revealBySign, big.NewInt(5), big.NewInt(7), ids, values, sig)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)

	// so does a fresh nonce with a fresh signature
	sig2 := f.revealSig(t, f.signer, 5, 8, ids, values)
	err = f.call(user1, revealBySign, big.NewInt(5), big.NewInt(8), ids, values, sig2)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
	assert.False(t, f.store.NonceUsed(big.NewInt(8)))
}

func TestRevealBySign_Failures(t *testing.T) {
	f := newFixture(t)
	ids, values := bigs(0, 1, 2), bigs(10, 11, 12)

	// consume nonce 1 on token 0
	require.NoError(t, f.call(user1, revealBySign, big.NewInt(0), big.NewInt(1), ids, values, f.revealSig(t, f.signer, 0, 1, ids, values)))

	outsider, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)

	tests := []struct {
		name     string
		sender   common.Address
		tokenID  int64
		nonce    int64
		ids      []*big.Int
		values   []*big.Int
		sig      []byte
		wantErr  error
		wantKind interfaces.ErrorKind
	}{
		{"not owner", user2, 1, 2, ids, values, f.revealSig(t, f.signer, 1, 2, ids, values), ErrNotTokenOwner, interfaces.KindAuthorization},
		{"length mismatch", user1, 1, 2, ids, bigs(10, 11), f.revealSig(t, f.signer, 1, 2, ids, values), ErrParamLength, interfaces.KindValidation},
		{"nonce reused across tokens", user1, 1, 1, ids, values, f.revealSig(t, f.signer, 1, 1, ids, values), ErrNonceUsed, interfaces.KindReplay},
		{"signature over other token", user1, 1, 2, ids, values, f.revealSig(t, f.signer, 5, 2, ids, values), cryptoutils.ErrSignerNotRegistered, interfaces.KindAuthorization},
		{"unregistered signer", user1, 1, 2, ids, values, f.revealSig(t, outsider, 1, 2, ids, values), cryptoutils.ErrSignerNotRegistered, interfaces.KindAuthorization},
		{"malformed signature", user1, 1, 2, ids, values, []byte{1, 2, 3}, cryptoutils.ErrSignatureMalformed, interfaces.KindValidation},
		{"unminted token", user1, 99, 2, ids, values, nil, assets.ErrInvalidTokenID, interfaces.KindExternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.sig
			if sig == nil {
				sig = make([]byte, 65)
			}
			input, err := chain.EncodeCall(revealBySign, big.NewInt(tt.tokenID), big.NewInt(tt.nonce), tt.ids, tt.values, sig)
			require.NoError(t, err)
			err = f.env.Send(tt.sender, f.store.Address(), nil, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, interfaces.KindOf(err))
			assert.False(t, f.store.Revealed(big.NewInt(1)))
			assert.False(t, f.store.NonceUsed(big.NewInt(2)))
		})
	}
}

func TestRevealBySign_RejectsWideAttributes(t *testing.T) {
	f := newFixture(t)
	wide := []*big.Int{new(big.Int).Lsh(big.NewInt(1), 128)}
	err := f.env.Transact(user1, f.store.Address(), nil, func(c *chain.Call) error {
		return f.store.RevealBySign(c, big.NewInt(1), big.NewInt(2), bigs(1), wide, make([]byte, 65))
	})
	assert.ErrorIs(t, err, ErrAttributeTooLarge)
}

func TestRevealByMerkle(t *testing.T) {
	f := newFixture(t)
	ids, values := bigs(0, 1, 2, 3), bigs(10, 11, 12, 13)

	leaves := make([]common.Hash, 2)
	for tokenID := range leaves {
		leaf, err := cryptoutils.MerkleLeaf(big.NewInt(int64(tokenID)), ids, values)
		require.NoError(t, err)
		leaves[tokenID] = leaf
	}
	tree := cryptoutils.NewMerkleTree(leaves)

	assert.ErrorIs(t, f.call(user1, "setRoot(bytes32)", tree.Root()), roles.ErrNotOwner)
	require.NoError(t, f.call(owner, "setRoot(bytes32)", tree.Root()))
	assert.Equal(t, tree.Root(), f.store.Root())

	err := f.call(user2, revealByMerkle, big.NewInt(0), ids, values, tree.Proof(0))
	assert.ErrorIs(t, err, ErrNotTokenOwner)

	require.NoError(t, f.call(user1, revealByMerkle, big.NewInt(0), ids, values, tree.Proof(0)))
	assert.True(t, f.store.Revealed(big.NewInt(0)))
	assert.Len(t, f.store.Attributes(big.NewInt(0)), 4)

	err = f.call(user1, revealByMerkle, big.NewInt(0), ids, values, tree.Proof(0))
	assert.ErrorIs(t, err, ErrAlreadyRevealed)

	err = f.call(user1, revealByMerkle, big.NewInt(1), ids, bigs(1, 2), tree.Proof(1))
	assert.ErrorIs(t, err, ErrParamLength)

	err = f.call(user1, revealByMerkle, big.NewInt(1), ids, values, tree.Proof(0))
	assert.ErrorIs(t, err, ErrBadMerkleProof)

	// a signature reveal is blocked for a token revealed by proof
	sig := f.revealSig(t, f.signer, 0, 9, ids, values)
	err = f.call(user1, revealBySign, big.NewInt(0), big.NewInt(9), ids, values, sig)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)

	// replacing the root invalidates outstanding proofs
	require.NoError(t, f.call(owner, "setRoot(bytes32)", common.HexToHash("0x1234")))
	err = f.call(user1, revealByMerkle, big.NewInt(1), ids, values, tree.Proof(1))
	assert.ErrorIs(t, err, ErrBadMerkleProof)
	assert.False(t, f.store.Revealed(big.NewInt(1)))
}

func TestAttributeEdits(t *testing.T) {
	f := newFixture(t)
	ids := bigs(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	values := bigs(10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	require.NoError(t, f.call(user1, revealBySign, big.NewInt(0), big.NewInt(0), ids, values, f.revealSig(t, f.signer, 0, 0, ids, values)))

	t.Run("permission denied", func(t *testing.T) {
		for _, op := range []func() error{
			func() error { return f.call(user1, "attach(uint256,uint128,uint128)", big.NewInt(0), big.NewInt(1), big.NewInt(1)) },
			func() error { return f.call(user1, "attachBatch(uint256,uint128[],uint128[])", big.NewInt(0), bigs(1), bigs(1)) },
			func() error { return f.call(user1, "update(uint256,uint256,uint128)", big.NewInt(0), big.NewInt(0), big.NewInt(1)) },
			func() error { return f.call(user1, "updateBatch(uint256,uint256[],uint128[])", big.NewInt(0), bigs(0), bigs(1)) },
			func() error { return f.call(user1, "remove(uint256,uint256)", big.NewInt(0), big.NewInt(0)) },
			func() error { return f.call(user1, "removeBatch(uint256,uint256[])", big.NewInt(0), bigs(0)) },
		} {
			assert.ErrorIs(t, op(), ErrPermissionDenied)
		}
	})

	t.Run("unrevealed token", func(t *testing.T) {
		err := f.call(controller, "attach(uint256,uint128,uint128)", big.NewInt(1), big.NewInt(1), big.NewInt(1))
		assert.ErrorIs(t, err, ErrNotRevealed)
	})

	t.Run("attach update remove", func(t *testing.T) {
		require.NoError(t, f.call(controller, "attachBatch(uint256,uint128[],uint128[])", big.NewInt(0), bigs(10, 11, 12), bigs(100, 110, 120)))
		require.Len(t, f.store.Attributes(big.NewInt(0)), 13)

		require.NoError(t, f.call(controller, "updateBatch(uint256,uint256[],uint128[])", big.NewInt(0), bigs(0, 1, 8), bigs(100, 200, 300)))
		require.NoError(t, f.call(controller, "removeBatch(uint256,uint256[])", big.NewInt(0), bigs(9, 7)))

		attrs := f.store.Attributes(big.NewInt(0))
		require.Len(t, attrs, 11)
		assert.Equal(t, int64(300), attrs[8].Value.Int64())
		assert.Equal(t, int64(100), attrs[0].Value.Int64())
		// index 9 received the former last element, index 7 the one after it
		assert.Equal(t, int64(12), attrs[9].ID.Int64())
		assert.Equal(t, int64(11), attrs[7].ID.Int64())
	})

	t.Run("out of range rolls back the whole batch", func(t *testing.T) {
		before := f.store.Attributes(big.NewInt(0))
		err := f.call(controller, "removeBatch(uint256,uint256[])", big.NewInt(0), bigs(0, 50))
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, before, f.store.Attributes(big.NewInt(0)))
	})
}

func TestStoreAdmin(t *testing.T) {
	f := newFixture(t)
	newController := common.HexToAddress("0x99")

	err := f.call(owner, "setAttributeController(address,bool)", newController, true)
	assert.Equal(t, interfaces.KindAuthorization, interfaces.KindOf(err))

	require.NoError(t, f.call(timeLocker, "setAttributeController(address,bool)", newController, true))
	assert.True(t, f.store.IsController(newController))
	require.NoError(t, f.call(timeLocker, "setAttributeController(address,bool)", controller, false))
	assert.False(t, f.store.IsController(controller))

	other := common.HexToAddress("0x77")
	require.NoError(t, f.call(timeLocker, "setSigner(address,bool)", other, true))
	assert.True(t, f.store.IsSigner(other))

	require.NoError(t, f.call(timeLocker, "setTimeLocker(address)", other))
	assert.Equal(t, other, f.store.TimeLocker())
	err = f.call(timeLocker, "setSigner(address,bool)", other, false)
	assert.Equal(t, "not timelocker", interfaces.Reason(err))

	newOwner := common.HexToAddress("0x55")
	assert.ErrorIs(t, f.call(user1, "transferOwnership(address)", newOwner), roles.ErrNotOwner)
	assert.ErrorIs(t, f.call(owner, "transferOwnership(address)", common.Address{}), roles.ErrZeroAddress)
	require.NoError(t, f.call(owner, "transferOwnership(address)", newOwner))
	assert.Equal(t, newOwner, f.store.Owner())
	assert.ErrorIs(t, f.call(owner, "setRoot(bytes32)", common.HexToHash("0x01")), roles.ErrNotOwner)
	require.NoError(t, f.call(newOwner, "setRoot(bytes32)", common.HexToHash("0x01")))

	assert.ErrorIs(t, f.call(owner, "setController(address)", other), roles.ErrNotOwner)
	require.NoError(t, f.call(newOwner, "setController(address)", other))
	assert.Equal(t, other, f.store.Controller())
}

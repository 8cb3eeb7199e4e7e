package devnet

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/bridge"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/governance"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner      = common.HexToAddress("0x0a")
	controller = common.HexToAddress("0x0c")
	admin      = common.HexToAddress("0x0d")
	user       = common.HexToAddress("0x0e")
)

type fixture struct {
	d      *Devnet
	clk    *clock.Mock
	signer *cryptoutils.Signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	signer, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)
	clk := clock.NewMock()
	clk.Set(time.Unix(1_700_000_000, 0))

	d, err := New(Config{
		Owner:      owner,
		Controller: controller,
		Admin:      admin,
		Signers:    []common.Address{signer.Address()},
		Delay:      governance.MinimumDelay,
		Clock:      clk,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return &fixture{d: d, clk: clk, signer: signer}
}

func (f *fixture) call(t *testing.T, from, to common.Address, signature string, args ...any) (*api.CallResponse, error) {
	t.Helper()
	input, err := chain.EncodeCall(signature, args...)
	require.NoError(t, err)
	return f.d.Call(context.Background(), &api.CallRequest{From: from, To: to, Input: input})
}

func TestNew_RequiresRoles(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(Config{Admin: admin, Signers: []common.Address{user}}, log)
	require.Error(t, err)
	_, err = New(Config{Owner: owner, Admin: admin}, log)
	require.Error(t, err)
}

func TestDeployment(t *testing.T) {
	f := newFixture(t)
	resp, err := f.d.Deployment(context.Background())
	require.NoError(t, err)

	assert.Len(t, resp.Contracts, 8)
	assert.Equal(t, f.d.Fungible.Address(), resp.Contracts[ContractFungible])
	assert.Equal(t, []common.Address{f.signer.Address()}, resp.Signers)
	assert.Equal(t, int64(1_700_000_000), resp.Now)

	for name, addr := range resp.Contracts {
		_, found := f.d.Env().Contract(addr)
		assert.True(t, found, name)
	}
	assert.Equal(t, f.d.Timelock.Address(), f.d.Fungible.TimeLocker())
	assert.True(t, f.d.Attributes.IsController(f.d.Attribute.Address()))
	assert.True(t, f.d.Collection.IsMinter(f.d.Attributes.Address()))
	assert.Equal(t, controller, f.d.Attributes.Controller())
}

func TestCall_DepositAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.call(t, owner, f.d.Token.Address(), "mint(address,uint256)", user, big.NewInt(1000))
	require.NoError(t, err)
	_, err = f.call(t, user, f.d.Token.Address(), "approve(address,uint256)", f.d.Fungible.Address(), big.NewInt(600))
	require.NoError(t, err)

	resp, err := f.call(t, user, f.d.Fungible.Address(), "topUp(uint256,uint256)", big.NewInt(600), big.NewInt(1))
	require.NoError(t, err)
	names := make([]string, 0, len(resp.Events))
	for _, e := range resp.Events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Transfer", "TopUp"}, names)

	nonce, err := f.d.NonceStatus(ctx, f.d.Fungible.Address(), big.NewInt(1))
	require.NoError(t, err)
	assert.True(t, nonce.Used)

	digest, err := cryptoutils.FungibleUpChainDigest(user, f.d.Fungible.Address(), f.d.Token.Address(), big.NewInt(250), big.NewInt(2))
	require.NoError(t, err)
	sig, err := f.signer.SignDigest(digest)
	require.NoError(t, err)
	_, err = f.call(t, user, f.d.Fungible.Address(), "upChain(uint256,uint256,bytes)", big.NewInt(250), big.NewInt(2), sig)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(650), f.d.Token.BalanceOf(user))

	_, err = f.call(t, user, f.d.Fungible.Address(), "upChain(uint256,uint256,bytes)", big.NewInt(250), big.NewInt(2), sig)
	assert.ErrorIs(t, err, bridge.ErrNonceUsed)

	events, err := f.d.Events(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, events.Next, len(events.Events)+events.Events[0].Index)

	tail, err := f.d.Events(ctx, events.Next)
	require.NoError(t, err)
	assert.Empty(t, tail.Events)
	assert.Equal(t, events.Next, tail.Next)
}

func TestCall_RevertsAreTyped(t *testing.T) {
	f := newFixture(t)
	_, err := f.call(t, user, f.d.Fungible.Address(), "pause()")
	assert.ErrorIs(t, err, roles.ErrNotController)
	assert.Equal(t, interfaces.KindAuthorization, interfaces.KindOf(err))
}

func TestCall_PlainTransfer(t *testing.T) {
	f := newFixture(t)
	f.d.Fund(user, big.NewInt(5))
	_, err := f.d.Call(context.Background(), &api.CallRequest{From: user, To: owner, Value: (*hexutil.Big)(big.NewInt(3))})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), f.d.Env().Balance(owner))
}

func TestTimelockRotatesSigner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newSigner := common.HexToAddress("0x5151")

	data, err := chain.EncodeArgs("setSigner(address,bool)", newSigner, true)
	require.NoError(t, err)
	eta := big.NewInt(f.d.Env().Now().Add(governance.MinimumDelay).Unix())
	tx := governance.Transaction{
		Target:    f.d.Fungible.Address(),
		Value:     new(big.Int),
		Signature: "setSigner(address,bool)",
		Data:      data,
		Eta:       eta,
	}
	hash, err := tx.Hash()
	require.NoError(t, err)

	_, err = f.call(t, admin, f.d.Timelock.Address(), governance.QueueSignature, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta)
	require.NoError(t, err)

	state, err := f.d.TimelockTransaction(ctx, f.d.Timelock.Address(), hash)
	require.NoError(t, err)
	assert.Equal(t, governance.StateQueued, state.State)
	require.NotNil(t, state.Transaction)
	assert.Equal(t, tx.Signature, state.Transaction.Signature)

	_, err = f.call(t, admin, f.d.Timelock.Address(), governance.ExecuteSignature, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta)
	assert.ErrorIs(t, err, governance.ErrTooEarly)

	f.clk.Add(governance.MinimumDelay)
	_, err = f.call(t, admin, f.d.Timelock.Address(), governance.ExecuteSignature, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta)
	require.NoError(t, err)

	signer, err := f.d.SignerStatus(ctx, f.d.Fungible.Address(), newSigner)
	require.NoError(t, err)
	assert.True(t, signer.Registered)

	state, err = f.d.TimelockTransaction(ctx, f.d.Timelock.Address(), hash)
	require.NoError(t, err)
	assert.Equal(t, governance.StateExecuted, state.State)
}

func TestQueries_AddressErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := common.HexToAddress("0xdead")

	_, err := f.d.NonceStatus(ctx, missing, big.NewInt(1))
	assert.ErrorIs(t, err, api.ErrContractNotFound)
	_, err = f.d.NonceStatus(ctx, f.d.Token.Address(), big.NewInt(1))
	assert.ErrorIs(t, err, api.ErrWrongContract)
	_, err = f.d.SignerStatus(ctx, f.d.Collection.Address(), user)
	assert.ErrorIs(t, err, api.ErrWrongContract)
	_, err = f.d.TimelockTransaction(ctx, f.d.Fungible.Address(), common.Hash{})
	assert.ErrorIs(t, err, api.ErrWrongContract)
	_, err = f.d.TimelockTransaction(ctx, missing, common.Hash{})
	assert.ErrorIs(t, err, api.ErrContractNotFound)

	attrSigner, err := f.d.SignerStatus(ctx, f.d.Attributes.Address(), f.signer.Address())
	require.NoError(t, err)
	assert.True(t, attrSigner.Registered)
}

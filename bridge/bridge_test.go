package bridge

import (
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/attributes"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
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
	env         *chain.Env
	signer      *cryptoutils.Signer
	token       *assets.Token
	collection  *assets.Collection
	store       *attributes.Store
	fungible    *FungibleBridge
	receiver    *ReceiverBridge
	collectible *CollectibleBridge
	attribute   *AttributeBridge
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := chain.NewEnv(clock.NewMock(), discardLogger())
	signer, err := cryptoutils.GenerateSigner()
	require.NoError(t, err)
	f := &fixture{env: env, signer: signer}

	cfg := Config{
		Owner:      owner,
		Controller: controller,
		TimeLocker: timeLocker,
		Signers:    []common.Address{signer.Address()},
	}

	f.token, err = chain.Deploy(env, func(addr common.Address) (*assets.Token, error) {
		return assets.NewToken(addr, owner), nil
	})
	require.NoError(t, err)
	f.collection, err = chain.Deploy(env, func(addr common.Address) (*assets.Collection, error) {
		return assets.NewCollection(addr, owner), nil
	})
	require.NoError(t, err)
	f.store, err = chain.Deploy(env, func(addr common.Address) (*attributes.Store, error) {
		return attributes.NewStore(addr, f.collection, attributes.Config{
			Owner:      owner,
			TimeLocker: timeLocker,
			Signers:    []common.Address{signer.Address()},
		}, discardLogger()), nil
	})
	require.NoError(t, err)

	f.fungible, err = chain.Deploy(env, func(addr common.Address) (*FungibleBridge, error) {
		return NewFungibleBridge(addr, f.token, cfg, discardLogger()), nil
	})
	require.NoError(t, err)
	f.receiver, err = chain.Deploy(env, func(addr common.Address) (*ReceiverBridge, error) {
		return NewReceiverBridge(addr, f.token, cfg, discardLogger()), nil
	})
	require.NoError(t, err)
	f.collectible, err = chain.Deploy(env, func(addr common.Address) (*CollectibleBridge, error) {
		return NewCollectibleBridge(addr, cfg, discardLogger()), nil
	})
	require.NoError(t, err)
	f.attribute, err = chain.Deploy(env, func(addr common.Address) (*AttributeBridge, error) {
		return NewAttributeBridge(addr, f.store, cfg, discardLogger()), nil
	})
	require.NoError(t, err)

	f.send(t, owner, f.token.Address(), "mint(address,uint256)", user1, big.NewInt(1000))
	for id := int64(0); id < 5; id++ {
		f.send(t, owner, f.collection.Address(), "mint(address,uint256)", user1, big.NewInt(id))
	}
	return f
}

func (f *fixture) call(from, to common.Address, sig string, args ...any) error {
	input, err := chain.EncodeCall(sig, args...)
	if err != nil {
		return err
	}
	return f.env.Send(from, to, nil, input)
}

func (f *fixture) send(t *testing.T, from, to common.Address, sig string, args ...any) {
	t.Helper()
	require.NoError(t, f.call(from, to, sig, args...))
}

func (f *fixture) sign(t *testing.T, signer *cryptoutils.Signer, digest common.Hash, err error) []byte {
	t.Helper()
	require.NoError(t, err)
	sig, err := signer.SignDigest(digest)
	require.NoError(t, err)
	return sig
}

func (f *fixture) lastEvent() chain.Event {
	events := f.env.Events(0)
	return events[len(events)-1]
}

func bigs(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

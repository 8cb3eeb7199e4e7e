package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	args, err := ParseArgs("setSigner(address,bool)", []string{addr.Hex(), "true"})
	require.NoError(t, err)
	assert.Equal(t, []any{addr, true}, args)

	args, err = ParseArgs("upChainBatch(address[],uint256[],uint256,bytes)", []string{addr.Hex() + "," + addr.Hex(), "1, 0x2", "7", "0xdead"})
	require.NoError(t, err)
	require.Len(t, args, 4)
	assert.Equal(t, []common.Address{addr, addr}, args[0])
	ids := args[1].([]*big.Int)
	assert.Equal(t, 0, ids[1].Cmp(big.NewInt(2)))
	assert.Equal(t, []byte{0xde, 0xad}, args[3])

	_, err = EncodeArgs("upChainBatch(address[],uint256[],uint256,bytes)", args...)
	require.NoError(t, err)

	args, err = ParseArgs("setRoot(bytes32)", []string{common.HexToHash("0x01").Hex()})
	require.NoError(t, err)
	assert.Equal(t, [32]byte(common.HexToHash("0x01")), args[0])

	args, err = ParseArgs("attachBatch(uint256,uint128[],uint128[])", []string{"1", "", ""})
	require.NoError(t, err)
	assert.Empty(t, args[1])
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		raw       []string
	}{
		{"arity", "setSigner(address,bool)", []string{"0x00000000000000000000000000000000000000aa"}},
		{"bad address", "setTimeLocker(address)", []string{"0x1234"}},
		{"bad bool", "setSigner(address,bool)", []string{"0x00000000000000000000000000000000000000aa", "maybe"}},
		{"negative uint", "pauseFor(uint256)", []string{"-1"}},
		{"uint8 overflow", "f(uint8)", []string{"256"}},
		{"short bytes32", "setRoot(bytes32)", []string{"0x01"}},
		{"bad signature", "nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.signature, tt.raw)
			assert.Error(t, err)
		})
	}
}

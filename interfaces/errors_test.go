package interfaces

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	sentinel := NewReplayError("nonce already used")

	wrapped := fmt.Errorf("topUp: %w", NewReplayError("nonce already used"))
	assert.ErrorIs(t, wrapped, sentinel)
	assert.Equal(t, KindReplay, KindOf(wrapped))
	assert.Equal(t, "nonce already used", Reason(wrapped))

	assert.NotErrorIs(t, NewStateError("nonce already used"), sentinel)
	assert.NotErrorIs(t, NewReplayError("nonce is used"), sentinel)
}

func TestExternalCallError(t *testing.T) {
	cause := errors.New("ERC20: transfer amount exceeds allowance")
	err := NewExternalCallError(cause)

	require.Error(t, err)
	assert.Equal(t, KindExternal, KindOf(err))
	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, NewExternalCallError(nil))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, "boom", Reason(errors.New("boom")))
	assert.Equal(t, "", Reason(nil))
}

func TestParseErrorKind(t *testing.T) {
	for _, k := range []ErrorKind{KindValidation, KindAuthorization, KindReplay, KindState, KindExternal} {
		assert.Equal(t, k, ParseErrorKind(k.String()))
	}
	assert.Equal(t, KindUnknown, ParseErrorKind("bogus"))
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with prefix", "0x00000000000000000000000000000000000000aa", false},
		{"without prefix", "00000000000000000000000000000000000000aa", false},
		{"too short", "0xaa", true},
		{"not hex", "0xzz000000000000000000000000000000000000aa", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, byte(0xaa), addr[19])
		})
	}
}

func TestParseUint256(t *testing.T) {
	v, err := ParseUint256("1000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), v.Int64())

	v, err = ParseUint256("0x10")
	require.NoError(t, err)
	assert.Equal(t, int64(16), v.Int64())

	_, err = ParseUint256("-1")
	assert.ErrorIs(t, err, ErrInvalidUint256)

	_, err = ParseUint256("0x1" + fmt.Sprintf("%064x", 0))
	assert.ErrorIs(t, err, ErrInvalidUint256)
}

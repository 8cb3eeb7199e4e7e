package chain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// ParseArgs converts textual arguments into the Go values EncodeArgs expects
// for signature. Array elements are comma separated; integers are decimal or
// 0x-prefixed hex; bytes are 0x-prefixed hex.
func ParseArgs(signature string, raw []string) ([]any, error) {
	_, inputs, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", signature, len(inputs), len(raw))
	}
	out := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := parseValue(input.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v.Interface()
	}
	return out, nil
}

func parseValue(t abi.Type, s string) (reflect.Value, error) {
	switch t.T {
	case abi.SliceTy:
		elems := []string{}
		if s = strings.TrimSpace(s); s != "" {
			elems = strings.Split(s, ",")
		}
		slice := reflect.MakeSlice(t.GetType(), 0, len(elems))
		for _, e := range elems {
			v, err := parseValue(*t.Elem, strings.TrimSpace(e))
			if err != nil {
				return reflect.Value{}, err
			}
			slice = reflect.Append(slice, v)
		}
		return slice, nil
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return reflect.Value{}, fmt.Errorf("invalid address %q", s)
		}
		return reflect.ValueOf(common.HexToAddress(s)), nil
	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		return reflect.ValueOf(b), err
	case abi.StringTy:
		return reflect.ValueOf(s), nil
	case abi.BytesTy:
		b, err := hexutil.Decode(s)
		return reflect.ValueOf(b), err
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v, nil
	case abi.UintTy, abi.IntTy:
		n, ok := math.ParseBig256(s)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", s)
		}
		return fitInt(t, n)
	}
	return reflect.Value{}, fmt.Errorf("unsupported argument type %s", t.String())
}

func fitInt(t abi.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return reflect.Value{}, fmt.Errorf("negative value for %s", t.String())
	}
	if t.Size > 64 {
		return reflect.ValueOf(n), nil
	}
	v := reflect.New(t.GetType()).Elem()
	if t.T == abi.UintTy {
		if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", n, t.String())
		}
		v.SetUint(n.Uint64())
		return v, nil
	}
	if !n.IsInt64() || v.OverflowInt(n.Int64()) {
		return reflect.Value{}, fmt.Errorf("%s overflows %s", n, t.String())
	}
	v.SetInt(n.Int64())
	return v, nil
}

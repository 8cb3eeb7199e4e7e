package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var (
	ErrUnknownSelector = interfaces.NewValidationError("function selector was not recognized")
	ErrBadCalldata     = interfaces.NewValidationError("calldata could not be decoded")
	ErrBadSignature    = errors.New("malformed function signature")
)

// Handler receives the decoded arguments of a dispatched call.
type Handler func(c *Call, args []any) error

type Method struct {
	Signature string
	Selector  [4]byte
	Inputs    abi.Arguments
	handler   Handler
}

// Dispatcher routes ABI-encoded input to registered handlers.
type Dispatcher struct {
	methods map[[4]byte]*Method
	receive Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[[4]byte]*Method)}
}

// Register binds a canonical signature such as "setSigner(address,bool)".
// It panics on a malformed signature since registrations are static.
func (d *Dispatcher) Register(signature string, h Handler) {
	_, inputs, err := ParseSignature(signature)
	if err != nil {
		panic(err)
	}
	m := &Method{
		Signature: signature,
		Selector:  Selector(signature),
		Inputs:    inputs,
		handler:   h,
	}
	if _, found := d.methods[m.Selector]; found {
		panic(fmt.Sprintf("duplicate selector for %s", signature))
	}
	d.methods[m.Selector] = m
}

// Receive sets the handler for calls with empty input.
func (d *Dispatcher) Receive(h Handler) {
	d.receive = h
}

func (d *Dispatcher) Methods() []*Method {
	out := make([]*Method, 0, len(d.methods))
	for _, m := range d.methods {
		out = append(out, m)
	}
	return out
}

func (d *Dispatcher) Dispatch(c *Call, input []byte) error {
	if len(input) == 0 {
		if d.receive == nil {
			return nil
		}
		return d.receive(c, nil)
	}
	if len(input) < 4 {
		return ErrUnknownSelector
	}
	var sel [4]byte
	copy(sel[:], input[:4])
	m, found := d.methods[sel]
	if !found {
		return ErrUnknownSelector
	}
	args, err := m.Inputs.Unpack(input[4:])
	if err != nil {
		return &interfaces.Error{Kind: interfaces.KindValidation, Reason: ErrBadCalldata.Reason, Err: err}
	}
	return m.handler(c, args)
}

// Selector returns keccak256(signature)[:4].
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// ParseSignature splits "name(type,...)" into its name and argument list.
func ParseSignature(signature string) (string, abi.Arguments, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return "", nil, fmt.Errorf("%w: %q", ErrBadSignature, signature)
	}
	name := signature[:open]
	params := signature[open+1 : len(signature)-1]

	var args abi.Arguments
	if params == "" {
		return name, args, nil
	}
	for _, typ := range strings.Split(params, ",") {
		t, err := abi.NewType(strings.TrimSpace(typ), "", nil)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %w", ErrBadSignature, signature, err)
		}
		args = append(args, abi.Argument{Type: t})
	}
	return name, args, nil
}

// EncodeCall packs args for signature and prefixes the selector.
func EncodeCall(signature string, args ...any) ([]byte, error) {
	data, err := EncodeArgs(signature, args...)
	if err != nil {
		return nil, err
	}
	sel := Selector(signature)
	return append(sel[:], data...), nil
}

// EncodeArgs packs args for signature without the selector, the form relayed
// through the timelock alongside the signature string.
func EncodeArgs(signature string, args ...any) ([]byte, error) {
	_, inputs, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	return inputs.Pack(args...)
}

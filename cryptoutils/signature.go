package cryptoutils

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

const SignatureLength = crypto.SignatureLength

var (
	// ErrSignatureMalformed is returned when a signature cannot be recovered.
	ErrSignatureMalformed = interfaces.NewValidationError("sign is not correct")
	// ErrSignerNotRegistered is returned for a well-formed signature whose
	// recovered signer is not in the registry.
	ErrSignerNotRegistered = interfaces.NewAuthorizationError("sign is not correct")

	ErrNilKey = errors.New("private key cannot be nil")
)

// SignedMessageHash applies the "\x19Ethereum Signed Message:\n32" prefix
// off-chain signers use when signing a message digest.
func SignedMessageHash(digest common.Hash) []byte {
	return accounts.TextHash(digest.Bytes())
}

// RecoverSigner returns the address that produced sig over the prefixed
// digest. Only 65-byte [R || S || V] signatures with V in {0,1,27,28} and a
// lower-half S are accepted.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, ErrSignatureMalformed
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return common.Address{}, ErrSignatureMalformed
	}
	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[64], r, s, true) {
		return common.Address{}, ErrSignatureMalformed
	}

	pub, err := crypto.SigToPub(SignedMessageHash(digest), normalized)
	if err != nil {
		return common.Address{}, ErrSignatureMalformed
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignerSet answers registry membership queries.
type SignerSet interface {
	IsSigner(addr common.Address) bool
}

// Authorizer verifies that a digest was signed by a registered signer.
type Authorizer struct {
	signers SignerSet
}

func NewAuthorizer(signers SignerSet) *Authorizer {
	return &Authorizer{signers: signers}
}

// Verify recovers the signer of digest and checks its registration.
func (a *Authorizer) Verify(digest common.Hash, sig []byte) (common.Address, error) {
	signer, err := RecoverSigner(digest, sig)
	if err != nil {
		return common.Address{}, err
	}
	if !a.signers.IsSigner(signer) {
		return signer, ErrSignerNotRegistered
	}
	return signer, nil
}

// Signer produces signatures accepted by Authorizer.
type Signer struct {
	key *ecdsa.PrivateKey
}

func NewSigner(key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	return &Signer{key: key}, nil
}

// NewSignerFromHex parses a hex-encoded secp256k1 private key.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(trimHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewSigner(key)
}

func GenerateSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewSigner(key)
}

func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// PrivateKeyHex returns the key hex-encoded without prefix.
func (s *Signer) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(s.key))[2:]
}

// SignDigest signs the prefixed digest and returns a 65-byte signature with
// V in {27,28}.
func (s *Signer) SignDigest(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(SignedMessageHash(digest), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

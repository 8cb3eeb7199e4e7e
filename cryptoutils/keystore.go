package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/argon2"
)

const keystoreVersion = 1

// Argon2id parameters for new keystores.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

var (
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
)

// EncryptedKey is a signer key sealed with a passphrase. The address is
// authenticated with the ciphertext so it cannot be swapped.
type EncryptedKey struct {
	Version    int            `json:"version"`
	Address    common.Address `json:"address"`
	Time       uint32         `json:"time"`
	Memory     uint32         `json:"memory"`
	Threads    uint8          `json:"threads"`
	Salt       hexutil.Bytes  `json:"salt"`
	Nonce      hexutil.Bytes  `json:"nonce"`
	Ciphertext hexutil.Bytes  `json:"ciphertext"`
}

func EncryptSigner(s *Signer, passphrase []byte) (*EncryptedKey, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	ek := &EncryptedKey{
		Version: keystoreVersion,
		Address: s.Address(),
		Time:    argonTime,
		Memory:  argonMemory,
		Threads: argonThreads,
		Salt:    salt,
	}
	gcm, err := ek.cipher(passphrase)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	ek.Nonce = nonce
	ek.Ciphertext = gcm.Seal(nil, nonce, crypto.FromECDSA(s.key), ek.Address.Bytes())
	return ek, nil
}

func DecryptSigner(ek *EncryptedKey, passphrase []byte) (*Signer, error) {
	if ek.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", ek.Version)
	}
	gcm, err := ek.cipher(passphrase)
	if err != nil {
		return nil, err
	}
	if len(ek.Nonce) != gcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	plain, err := gcm.Open(nil, ek.Nonce, ek.Ciphertext, ek.Address.Bytes())
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	key, err := crypto.ToECDSA(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	s, err := NewSigner(key)
	if err != nil {
		return nil, err
	}
	if s.Address() != ek.Address {
		return nil, ErrWrongPassphrase
	}
	return s, nil
}

func (ek *EncryptedKey) cipher(passphrase []byte) (cipher.AEAD, error) {
	if ek.Threads == 0 || ek.Memory == 0 || ek.Time == 0 {
		return nil, errors.New("invalid keystore KDF parameters")
	}
	key := argon2.IDKey(passphrase, ek.Salt, ek.Time, ek.Memory, ek.Threads, argonKeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

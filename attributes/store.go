package attributes

import (
	"log/slog"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/ledger"
	"github.com/ruteri/asset-custody-bridge/registry"
	"github.com/ruteri/asset-custody-bridge/roles"
)

var (
	ErrNotTokenOwner     = interfaces.NewAuthorizationError("token is not yours")
	ErrParamLength       = interfaces.NewValidationError("param length error")
	ErrAlreadyRevealed   = interfaces.NewReplayError("has revealed")
	ErrNonceUsed         = interfaces.NewReplayError("nonce is used")
	ErrBadMerkleProof    = interfaces.NewValidationError("Merkle proof is wrong")
	ErrPermissionDenied  = interfaces.NewAuthorizationError("Permission denied")
	ErrNotRevealed       = interfaces.NewStateError("token is not revealed")
	ErrIndexOutOfRange   = interfaces.NewValidationError("index out of range")
	ErrAttributeTooLarge = interfaces.NewValidationError("attribute exceeds uint128")
	ErrEqIDExists        = interfaces.NewReplayError("this eqID is already exists")
	ErrNotMintable       = interfaces.NewStateError("asset cannot be minted")
)

type Attribute struct {
	ID    *big.Int `json:"id"`
	Value *big.Int `json:"value"`
}

type Config struct {
	Owner common.Address
	// Controller may pause and unpause game minting.
	Controller  common.Address
	TimeLocker  common.Address
	Signers     []common.Address
	Controllers []common.Address
	Root        common.Hash
}

// Store binds attributes to tokens of one collectible asset.
type Store struct {
	addr       common.Address
	log        *slog.Logger
	collection assets.Collectible
	minter     assets.Mintable

	roles       *roles.Roles
	nonces      *ledger.NonceLedger
	signers     *registry.SignerRegistry
	auth        *cryptoutils.Authorizer
	controllers map[common.Address]bool

	root     common.Hash
	revealed map[string]bool
	attrs    map[string][]Attribute
	eqIDs    map[string]bool

	methods *chain.Dispatcher
}

func NewStore(addr common.Address, collection assets.Collectible, cfg Config, log *slog.Logger) *Store {
	signers := registry.NewSignerRegistry(cfg.Signers)
	s := &Store{
		addr:        addr,
		log:         log.With("contract", "attributes", "address", addr),
		collection:  collection,
		roles:       roles.New(cfg.Owner, cfg.Controller, cfg.TimeLocker),
		nonces:      ledger.NewNonceLedger(ErrNonceUsed),
		signers:     signers,
		auth:        cryptoutils.NewAuthorizer(signers),
		controllers: make(map[common.Address]bool),
		root:        cfg.Root,
		revealed:    make(map[string]bool),
		attrs:       make(map[string][]Attribute),
		eqIDs:       make(map[string]bool),
		methods:     chain.NewDispatcher(),
	}
	if m, ok := collection.(assets.Mintable); ok {
		s.minter = m
	}
	for _, c := range cfg.Controllers {
		s.controllers[c] = true
	}
	s.registerMethods()
	return s
}

func (s *Store) Address() common.Address { return s.addr }

func (s *Store) Call(c *chain.Call, input []byte) error { return s.methods.Dispatch(c, input) }

func (s *Store) Collection() common.Address { return s.collection.Address() }

func (s *Store) Owner() common.Address      { return s.roles.Owner() }
func (s *Store) Controller() common.Address { return s.roles.Controller() }
func (s *Store) TimeLocker() common.Address { return s.roles.TimeLocker() }
func (s *Store) Paused() bool               { return s.roles.Paused() }
func (s *Store) Root() common.Hash          { return s.root }

func (s *Store) IsSigner(addr common.Address) bool     { return s.signers.IsSigner(addr) }
func (s *Store) IsController(addr common.Address) bool { return s.controllers[addr] }
func (s *Store) NonceUsed(nonce *big.Int) bool         { return s.nonces.IsUsed(nonce) }
func (s *Store) EqIDUsed(eqID *big.Int) bool           { return s.eqIDs[eqID.String()] }

func (s *Store) Revealed(tokenID *big.Int) bool {
	return s.revealed[tokenID.String()]
}

// Attributes returns a copy of the token's attribute sequence.
func (s *Store) Attributes(tokenID *big.Int) []Attribute {
	out := make([]Attribute, 0, len(s.attrs[tokenID.String()]))
	for _, a := range s.attrs[tokenID.String()] {
		out = append(out, Attribute{ID: new(big.Int).Set(a.ID), Value: new(big.Int).Set(a.Value)})
	}
	return out
}

// RevealBySign binds attributes to tokenID under a registered signer's
// signature. Checks run in order: ownership, lengths, revealed, nonce,
// signature.
func (s *Store) RevealBySign(c *chain.Call, tokenID, nonce *big.Int, attrIDs, attrValues []*big.Int, sig []byte) error {
	if err := s.checkReveal(c, tokenID, attrIDs, attrValues); err != nil {
		return err
	}
	if err := s.nonces.Check(nonce); err != nil {
		return err
	}
	digest, err := cryptoutils.RevealDigest(s.addr, tokenID, nonce, attrIDs, attrValues)
	if err != nil {
		return interfaces.NewValidationError(err.Error())
	}
	signer, err := s.auth.Verify(digest, sig)
	if err != nil {
		s.log.Debug("reveal signature rejected", "tokenID", tokenID, "signer", signer, "err", err)
		return err
	}
	if err := s.nonces.Consume(c, nonce); err != nil {
		return err
	}
	s.reveal(c, tokenID, attrIDs, attrValues)
	return nil
}

// RevealByMerkle binds attributes to tokenID given an inclusion proof
// against the current root. No nonce is consumed.
func (s *Store) RevealByMerkle(c *chain.Call, tokenID *big.Int, attrIDs, attrValues []*big.Int, proof []common.Hash) error {
	if err := s.checkReveal(c, tokenID, attrIDs, attrValues); err != nil {
		return err
	}
	leaf, err := cryptoutils.MerkleLeaf(tokenID, attrIDs, attrValues)
	if err != nil {
		return interfaces.NewValidationError(err.Error())
	}
	if !cryptoutils.VerifyMerkleProof(proof, s.root, leaf) {
		return ErrBadMerkleProof
	}
	s.reveal(c, tokenID, attrIDs, attrValues)
	return nil
}

// GameMint issues the next token id of the collection to the caller for the
// off-chain item eqID and reveals it with the signed attributes. It shares
// the nonce ledger with RevealBySign. Pausing stops minting only.
func (s *Store) GameMint(c *chain.Call, nonce, eqID *big.Int, attrIDs, attrValues []*big.Int, sig []byte) error {
	if err := s.roles.WhenNotPaused(); err != nil {
		return err
	}
	if err := s.nonces.Check(nonce); err != nil {
		return err
	}
	if s.EqIDUsed(eqID) {
		return ErrEqIDExists
	}
	if len(attrIDs) != len(attrValues) {
		return ErrParamLength
	}
	if err := checkUint128(attrIDs, attrValues); err != nil {
		return err
	}
	if s.minter == nil {
		return ErrNotMintable
	}
	digest, err := cryptoutils.GameMintDigest(c.Sender(), s.addr, nonce, eqID, attrIDs, attrValues)
	if err != nil {
		return interfaces.NewValidationError(err.Error())
	}
	signer, err := s.auth.Verify(digest, sig)
	if err != nil {
		s.log.Debug("mint signature rejected", "eqID", eqID, "signer", signer, "err", err)
		return err
	}
	if err := s.nonces.Consume(c, nonce); err != nil {
		return err
	}
	k := eqID.String()
	s.eqIDs[k] = true
	c.OnRevert(func() { delete(s.eqIDs, k) })

	tokenID := s.minter.TotalSupply()
	sub, err := c.Sub(s.minter.Address())
	if err != nil {
		return err
	}
	if err := s.minter.Mint(sub, c.Sender(), tokenID); err != nil {
		return interfaces.NewExternalCallError(err)
	}
	s.reveal(c, tokenID, attrIDs, attrValues)
	c.Emit("GameMint", GameMint{
		Caller:  c.Sender(),
		Asset:   s.minter.Address(),
		TokenID: new(big.Int).Set(tokenID),
		EqID:    new(big.Int).Set(eqID),
		Nonce:   new(big.Int).Set(nonce),
	})
	s.log.Info("game mint", "caller", c.Sender(), "tokenID", tokenID, "eqID", eqID)
	return nil
}

func (s *Store) checkReveal(c *chain.Call, tokenID *big.Int, attrIDs, attrValues []*big.Int) error {
	owner, err := s.collection.OwnerOf(tokenID)
	if err != nil {
		return interfaces.NewExternalCallError(err)
	}
	if owner != c.Sender() {
		return ErrNotTokenOwner
	}
	if len(attrIDs) != len(attrValues) {
		return ErrParamLength
	}
	if err := checkUint128(attrIDs, attrValues); err != nil {
		return err
	}
	if s.Revealed(tokenID) {
		return ErrAlreadyRevealed
	}
	return nil
}

func (s *Store) reveal(c *chain.Call, tokenID *big.Int, attrIDs, attrValues []*big.Int) {
	k := tokenID.String()
	s.revealed[k] = true
	c.OnRevert(func() { delete(s.revealed, k) })

	attrs := make([]Attribute, len(attrIDs))
	for i := range attrIDs {
		attrs[i] = Attribute{ID: new(big.Int).Set(attrIDs[i]), Value: new(big.Int).Set(attrValues[i])}
	}
	s.setAttrs(c, k, attrs)
	c.Emit("Revealed", Revealed{TokenID: new(big.Int).Set(tokenID)})
	s.log.Info("token revealed", "tokenID", tokenID, "attributes", len(attrs))
}

func (s *Store) setAttrs(c *chain.Call, k string, attrs []Attribute) {
	prev, existed := s.attrs[k]
	s.attrs[k] = attrs
	c.OnRevert(func() {
		if existed {
			s.attrs[k] = prev
		} else {
			delete(s.attrs, k)
		}
	})
}

func checkUint128(lists ...[]*big.Int) error {
	for _, l := range lists {
		for _, v := range l {
			if !interfaces.IsUint(v, 128) {
				return ErrAttributeTooLarge
			}
		}
	}
	return nil
}

// editable returns a private copy of the token's attributes for mutation.
func (s *Store) editable(c *chain.Call, tokenID *big.Int) ([]Attribute, error) {
	if !s.controllers[c.Sender()] {
		return nil, ErrPermissionDenied
	}
	if !s.Revealed(tokenID) {
		return nil, ErrNotRevealed
	}
	return slices.Clone(s.attrs[tokenID.String()]), nil
}

func (s *Store) Attach(c *chain.Call, tokenID, attrID, value *big.Int) error {
	return s.AttachBatch(c, tokenID, []*big.Int{attrID}, []*big.Int{value})
}

// AttachBatch appends (attrIDs[i], values[i]) in order.
func (s *Store) AttachBatch(c *chain.Call, tokenID *big.Int, attrIDs, values []*big.Int) error {
	attrs, err := s.editable(c, tokenID)
	if err != nil {
		return err
	}
	if len(attrIDs) != len(values) {
		return ErrParamLength
	}
	if err := checkUint128(attrIDs, values); err != nil {
		return err
	}
	for i := range attrIDs {
		attrs = append(attrs, Attribute{ID: new(big.Int).Set(attrIDs[i]), Value: new(big.Int).Set(values[i])})
		c.Emit("AttributeAttached", AttributeAttached{TokenID: tokenID, AttrID: attrIDs[i], Value: values[i]})
	}
	s.setAttrs(c, tokenID.String(), attrs)
	return nil
}

func (s *Store) Update(c *chain.Call, tokenID, index, value *big.Int) error {
	return s.UpdateBatch(c, tokenID, []*big.Int{index}, []*big.Int{value})
}

// UpdateBatch overwrites the value at each index.
func (s *Store) UpdateBatch(c *chain.Call, tokenID *big.Int, indexes, values []*big.Int) error {
	attrs, err := s.editable(c, tokenID)
	if err != nil {
		return err
	}
	if len(indexes) != len(values) {
		return ErrParamLength
	}
	if err := checkUint128(values); err != nil {
		return err
	}
	for i, idx := range indexes {
		pos, err := position(idx, len(attrs))
		if err != nil {
			return err
		}
		attrs[pos] = Attribute{ID: attrs[pos].ID, Value: new(big.Int).Set(values[i])}
		c.Emit("AttributeUpdated", AttributeUpdated{TokenID: tokenID, Index: idx, Value: values[i]})
	}
	s.setAttrs(c, tokenID.String(), attrs)
	return nil
}

func (s *Store) Remove(c *chain.Call, tokenID, index *big.Int) error {
	return s.RemoveBatch(c, tokenID, []*big.Int{index})
}

// RemoveBatch removes indexes one after another. Each removal moves the last
// element into the removed slot, so later indexes refer to the shifted
// sequence.
func (s *Store) RemoveBatch(c *chain.Call, tokenID *big.Int, indexes []*big.Int) error {
	attrs, err := s.editable(c, tokenID)
	if err != nil {
		return err
	}
	for _, idx := range indexes {
		pos, err := position(idx, len(attrs))
		if err != nil {
			return err
		}
		last := len(attrs) - 1
		attrs[pos] = attrs[last]
		attrs = attrs[:last]
		c.Emit("AttributeRemoved", AttributeRemoved{TokenID: tokenID, Index: idx})
	}
	s.setAttrs(c, tokenID.String(), attrs)
	return nil
}

// ApplyDelta attaches, then updates, then removes.
func (s *Store) ApplyDelta(c *chain.Call, tokenID *big.Int, delta cryptoutils.AttributeDelta) error {
	if len(delta.AttachIDs) > 0 || len(delta.AttachValues) > 0 {
		if err := s.AttachBatch(c, tokenID, delta.AttachIDs, delta.AttachValues); err != nil {
			return err
		}
	}
	if len(delta.UpdateIndexes) > 0 || len(delta.UpdateValues) > 0 {
		if err := s.UpdateBatch(c, tokenID, delta.UpdateIndexes, delta.UpdateValues); err != nil {
			return err
		}
	}
	if len(delta.RemoveIndexes) > 0 {
		if err := s.RemoveBatch(c, tokenID, delta.RemoveIndexes); err != nil {
			return err
		}
	}
	return nil
}

func position(idx *big.Int, n int) (int, error) {
	if idx == nil || idx.Sign() < 0 || !idx.IsInt64() || idx.Int64() >= int64(n) {
		return 0, ErrIndexOutOfRange
	}
	return int(idx.Int64()), nil
}

// SetRoot replaces the Merkle root. Proofs against the previous root stop
// verifying.
func (s *Store) SetRoot(c *chain.Call, root common.Hash) error {
	if err := s.roles.OnlyOwner(c); err != nil {
		return err
	}
	prev := s.root
	s.root = root
	c.OnRevert(func() { s.root = prev })
	c.Emit("RootSet", RootSet{Root: root})
	return nil
}

func (s *Store) SetAttributeController(c *chain.Call, controller common.Address, allowed bool) error {
	if err := s.roles.OnlyTimeLocker(c); err != nil {
		return err
	}
	prev, existed := s.controllers[controller]
	if allowed {
		s.controllers[controller] = true
	} else {
		delete(s.controllers, controller)
	}
	c.OnRevert(func() {
		if existed {
			s.controllers[controller] = prev
		} else {
			delete(s.controllers, controller)
		}
	})
	c.Emit("AttributeControllerSet", AttributeControllerSet{Controller: controller, Allowed: allowed})
	return nil
}

func (s *Store) SetSigner(c *chain.Call, signer common.Address, allowed bool) error {
	if err := s.roles.OnlyTimeLocker(c); err != nil {
		return err
	}
	s.signers.Set(c, signer, allowed)
	return nil
}

func (s *Store) SetTimeLocker(c *chain.Call, timeLocker common.Address) error {
	return s.roles.SetTimeLocker(c, timeLocker)
}

func (s *Store) SetController(c *chain.Call, controller common.Address) error {
	return s.roles.SetController(c, controller)
}

func (s *Store) TransferOwnership(c *chain.Call, owner common.Address) error {
	if err := s.roles.TransferOwnership(c, owner); err != nil {
		return err
	}
	s.log.Info("ownership transferred", "owner", owner)
	return nil
}

func (s *Store) Pause(c *chain.Call) error   { return s.roles.Pause(c) }
func (s *Store) Unpause(c *chain.Call) error { return s.roles.Unpause(c) }

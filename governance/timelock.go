package governance

import (
	"log/slog"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

const (
	GracePeriod  = 14 * 24 * time.Hour
	MinimumDelay = 2 * 24 * time.Hour
	MaximumDelay = 30 * 24 * time.Hour
)

var (
	ErrNotAdmin      = interfaces.NewAuthorizationError("GameLootTimelocker: Call must come from admin.")
	ErrNotTimelock   = interfaces.NewAuthorizationError("GameLootTimelocker: Call must come from Timelock.")
	ErrDelayTooShort = interfaces.NewValidationError("GameLootTimelocker: Delay must exceed minimum delay.")
	ErrDelayTooLong  = interfaces.NewValidationError("GameLootTimelocker: Delay must not exceed maximum delay.")
	ErrEtaTooSoon    = interfaces.NewValidationError("GameLootTimelocker: Estimated execution block must satisfy delay.")
	ErrNotQueued     = interfaces.NewStateError("GameLootTimelocker: Transaction hasn't been queued.")
	ErrTooEarly      = interfaces.NewStateError("GameLootTimelocker: Transaction hasn't surpassed time lock.")
	ErrStale         = interfaces.NewStateError("GameLootTimelocker: Transaction is stale.")
)

// Transaction is a call the timelock relays. Eta is a unix timestamp in
// seconds.
type Transaction struct {
	Target    common.Address `json:"target"`
	Value     *big.Int       `json:"value"`
	Signature string         `json:"signature"`
	Data      []byte         `json:"data"`
	Eta       *big.Int       `json:"eta"`
}

// Hash identifies the transaction in the queue.
func (tx Transaction) Hash() (common.Hash, error) {
	return cryptoutils.TimelockTxHash(tx.Target, valueOrZero(tx.Value), tx.Signature, tx.Data, tx.Eta)
}

// CallData is what the target receives: the selector of Signature followed
// by Data, or Data alone when Signature is empty.
func (tx Transaction) CallData() []byte {
	if tx.Signature == "" {
		return tx.Data
	}
	sel := chain.Selector(tx.Signature)
	return append(sel[:], tx.Data...)
}

type entry struct {
	tx    Transaction
	state TxState
}

type Timelock struct {
	addr    common.Address
	log     *slog.Logger
	admin   common.Address
	delay   time.Duration
	txs     map[common.Hash]*entry
	methods *chain.Dispatcher
}

func NewTimelock(addr, admin common.Address, delay time.Duration, log *slog.Logger) (*Timelock, error) {
	if err := checkDelay(delay); err != nil {
		return nil, err
	}
	t := &Timelock{
		addr:    addr,
		log:     log.With("contract", "timelock", "address", addr),
		admin:   admin,
		delay:   delay,
		txs:     make(map[common.Hash]*entry),
		methods: chain.NewDispatcher(),
	}
	t.registerMethods()
	return t, nil
}

func (t *Timelock) Address() common.Address { return t.addr }

func (t *Timelock) Call(c *chain.Call, input []byte) error { return t.methods.Dispatch(c, input) }

func (t *Timelock) Admin() common.Address { return t.admin }
func (t *Timelock) Delay() time.Duration  { return t.delay }

// State reports the status of the transaction with the given hash at now.
func (t *Timelock) State(hash common.Hash, now time.Time) TxState {
	e, found := t.txs[hash]
	if !found {
		return StateUnknown
	}
	if e.state == StateQueued && now.Unix() > staleAfter(e.tx.Eta) {
		return StateStale
	}
	return e.state
}

// Transaction returns the last recorded transaction with the given hash.
func (t *Timelock) Transaction(hash common.Hash) (Transaction, bool) {
	e, found := t.txs[hash]
	if !found {
		return Transaction{}, false
	}
	return e.tx, true
}

func (t *Timelock) QueueTransaction(c *chain.Call, tx Transaction) (common.Hash, error) {
	if c.Sender() != t.admin {
		return common.Hash{}, ErrNotAdmin
	}
	if err := checkTransaction(tx); err != nil {
		return common.Hash{}, err
	}
	earliest := new(big.Int).SetInt64(c.Now().Add(t.delay).Unix())
	if tx.Eta.Cmp(earliest) < 0 {
		return common.Hash{}, ErrEtaTooSoon
	}
	hash, err := tx.Hash()
	if err != nil {
		return common.Hash{}, interfaces.NewValidationError(err.Error())
	}
	t.setState(c, hash, tx, StateQueued)
	c.Emit("QueueTransaction", newTransactionEvent(hash, tx))
	t.log.Info("transaction queued", "hash", hash, "target", tx.Target, "signature", tx.Signature, "eta", tx.Eta)
	return hash, nil
}

// ExecuteTransaction relays tx to its target. Value is taken from the
// timelock's balance, which includes any value sent with this call.
func (t *Timelock) ExecuteTransaction(c *chain.Call, tx Transaction) (common.Hash, error) {
	if c.Sender() != t.admin {
		return common.Hash{}, ErrNotAdmin
	}
	if err := checkTransaction(tx); err != nil {
		return common.Hash{}, err
	}
	hash, err := tx.Hash()
	if err != nil {
		return common.Hash{}, interfaces.NewValidationError(err.Error())
	}
	if e, found := t.txs[hash]; !found || e.state != StateQueued {
		return hash, ErrNotQueued
	}
	now := c.Now().Unix()
	if now < tx.Eta.Int64() {
		return hash, ErrTooEarly
	}
	if now > staleAfter(tx.Eta) {
		return hash, ErrStale
	}
	t.setState(c, hash, tx, StateExecuted)

	if err := c.Invoke(tx.Target, valueOrZero(tx.Value), tx.CallData()); err != nil {
		t.log.Warn("relayed call failed", "hash", hash, "target", tx.Target, "err", err)
		return hash, err
	}
	c.Emit("ExecuteTransaction", newTransactionEvent(hash, tx))
	t.log.Info("transaction executed", "hash", hash, "target", tx.Target, "signature", tx.Signature)
	return hash, nil
}

func (t *Timelock) CancelTransaction(c *chain.Call, tx Transaction) (common.Hash, error) {
	if c.Sender() != t.admin {
		return common.Hash{}, ErrNotAdmin
	}
	if err := checkTransaction(tx); err != nil {
		return common.Hash{}, err
	}
	hash, err := tx.Hash()
	if err != nil {
		return common.Hash{}, interfaces.NewValidationError(err.Error())
	}
	if e, found := t.txs[hash]; !found || e.state != StateQueued {
		return hash, ErrNotQueued
	}
	t.setState(c, hash, tx, StateCanceled)
	c.Emit("CancelTransaction", newTransactionEvent(hash, tx))
	t.log.Info("transaction canceled", "hash", hash)
	return hash, nil
}

func (t *Timelock) SetAdmin(c *chain.Call, admin common.Address) error {
	if c.Sender() != t.admin {
		return ErrNotAdmin
	}
	prev := t.admin
	t.admin = admin
	c.OnRevert(func() { t.admin = prev })
	c.Emit("NewAdmin", NewAdmin{Admin: admin})
	return nil
}

// SetDelay can only be reached through a transaction the timelock executes
// on itself.
func (t *Timelock) SetDelay(c *chain.Call, delay time.Duration) error {
	if c.Sender() != t.addr {
		return ErrNotTimelock
	}
	if err := checkDelay(delay); err != nil {
		return err
	}
	prev := t.delay
	t.delay = delay
	c.OnRevert(func() { t.delay = prev })
	c.Emit("NewDelay", NewDelay{Delay: uint64(delay / time.Second)})
	return nil
}

func (t *Timelock) setState(c *chain.Call, hash common.Hash, tx Transaction, state TxState) {
	prev, existed := t.txs[hash]
	t.txs[hash] = &entry{tx: tx, state: state}
	c.OnRevert(func() {
		if existed {
			t.txs[hash] = prev
		} else {
			delete(t.txs, hash)
		}
	})
}

func checkDelay(delay time.Duration) error {
	if delay < MinimumDelay {
		return ErrDelayTooShort
	}
	if delay > MaximumDelay {
		return ErrDelayTooLong
	}
	return nil
}

func checkTransaction(tx Transaction) error {
	if tx.Eta == nil || !tx.Eta.IsInt64() || tx.Eta.Sign() < 0 {
		return interfaces.NewValidationError("eta out of range")
	}
	if tx.Value != nil && !interfaces.IsUint(tx.Value, 256) {
		return interfaces.NewValidationError("value out of range")
	}
	return nil
}

// staleAfter saturates at math.MaxInt64 for etas near the top of the range.
func staleAfter(eta *big.Int) int64 {
	grace := int64(GracePeriod / time.Second)
	if eta.Int64() > math.MaxInt64-grace {
		return math.MaxInt64
	}
	return eta.Int64() + grace
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

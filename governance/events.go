package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TransactionEvent is emitted as QueueTransaction, ExecuteTransaction and
// CancelTransaction.
type TransactionEvent struct {
	TxHash    common.Hash    `json:"tx_hash"`
	Target    common.Address `json:"target"`
	Value     *big.Int       `json:"value"`
	Signature string         `json:"signature"`
	Data      hexutil.Bytes  `json:"data"`
	Eta       *big.Int       `json:"eta"`
}

func newTransactionEvent(hash common.Hash, tx Transaction) TransactionEvent {
	return TransactionEvent{
		TxHash:    hash,
		Target:    tx.Target,
		Value:     new(big.Int).Set(valueOrZero(tx.Value)),
		Signature: tx.Signature,
		Data:      append(hexutil.Bytes(nil), tx.Data...),
		Eta:       new(big.Int).Set(tx.Eta),
	}
}

type NewAdmin struct {
	Admin common.Address `json:"admin"`
}

type NewDelay struct {
	Delay uint64 `json:"delay"`
}

package governance

import (
	"time"

	"github.com/ruteri/asset-custody-bridge/chain"
)

const (
	QueueSignature   = "queueTransaction(address,uint256,string,bytes,uint256)"
	ExecuteSignature = "executeTransaction(address,uint256,string,bytes,uint256)"
	CancelSignature  = "cancelTransaction(address,uint256,string,bytes,uint256)"
)

func transactionArgs(args []any) (Transaction, error) {
	a := chain.NewArgs(args)
	tx := Transaction{
		Target:    a.Address(0),
		Value:     a.Big(1),
		Signature: a.String(2),
		Data:      a.Bytes(3),
		Eta:       a.Big(4),
	}
	return tx, a.Err()
}

func (t *Timelock) registerMethods() {
	t.methods.Register(QueueSignature, func(c *chain.Call, args []any) error {
		tx, err := transactionArgs(args)
		if err != nil {
			return err
		}
		_, err = t.QueueTransaction(c, tx)
		return err
	})
	t.methods.Register(ExecuteSignature, func(c *chain.Call, args []any) error {
		tx, err := transactionArgs(args)
		if err != nil {
			return err
		}
		_, err = t.ExecuteTransaction(c, tx)
		return err
	})
	t.methods.Register(CancelSignature, func(c *chain.Call, args []any) error {
		tx, err := transactionArgs(args)
		if err != nil {
			return err
		}
		_, err = t.CancelTransaction(c, tx)
		return err
	})
	t.methods.Register("setAdmin(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		admin := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return t.SetAdmin(c, admin)
	})
	t.methods.Register("setDelay(uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		seconds := a.Big(0)
		if err := a.Err(); err != nil {
			return err
		}
		if !seconds.IsInt64() || seconds.Int64() > int64(MaximumDelay/time.Second) {
			return ErrDelayTooLong
		}
		return t.SetDelay(c, time.Duration(seconds.Int64())*time.Second)
	})
	// plain value transfers fund relayed calls
	t.methods.Receive(func(*chain.Call, []any) error { return nil })
}

var _ chain.Contract = (*Timelock)(nil)

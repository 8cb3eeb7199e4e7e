package governance

import "fmt"

type TxState int

const (
	StateUnknown TxState = iota
	StateQueued
	StateStale
	StateExecuted
	StateCanceled
)

func (s TxState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateStale:
		return "stale"
	case StateExecuted:
		return "executed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (s TxState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TxState) UnmarshalText(b []byte) error {
	for _, candidate := range []TxState{StateUnknown, StateQueued, StateStale, StateExecuted, StateCanceled} {
		if candidate.String() == string(b) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown transaction state %q", b)
}

package chain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event is a log entry emitted by a contract during a successful call.
type Event struct {
	Index    int            `json:"index"`
	Contract common.Address `json:"contract"`
	Name     string         `json:"name"`
	Data     any            `json:"data"`
	Time     time.Time      `json:"time"`
}

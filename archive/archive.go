// Package archive snapshots the custody event log into content-addressed
// storage. Each snapshot names its predecessor, so the head id alone is
// enough to walk the full deposit and release history.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

const snapshotVersion = 1

var ErrBrokenChain = errors.New("archive snapshot chain is broken")

type Snapshot struct {
	Version  int             `json:"version"`
	From     int             `json:"from"`
	Next     int             `json:"next"`
	Previous string          `json:"previous,omitempty"`
	Created  int64           `json:"created"`
	Events   []api.EventView `json:"events"`
}

// Archiver appends new events from a provider to a backend.
type Archiver struct {
	provider api.BridgeProvider
	backend  interfaces.StorageBackend
	clock    clock.Clock
	log      *slog.Logger

	mu     sync.Mutex
	cursor int
	head   *interfaces.ContentID
}

func New(provider api.BridgeProvider, backend interfaces.StorageBackend, clk clock.Clock, log *slog.Logger) *Archiver {
	if clk == nil {
		clk = clock.New()
	}
	return &Archiver{
		provider: provider,
		backend:  backend,
		clock:    clk,
		log:      log,
	}
}

// Resume continues the chain from an existing head snapshot.
func (a *Archiver) Resume(ctx context.Context, head interfaces.ContentID) error {
	snap, err := Load(ctx, a.backend, head)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursor = snap.Next
	a.head = &head
	return nil
}

// Head returns the id of the latest snapshot, if any was written.
func (a *Archiver) Head() (interfaces.ContentID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.head == nil {
		return interfaces.ContentID{}, false
	}
	return *a.head, true
}

// Flush stores the events emitted since the previous snapshot. It reports
// false when there was nothing new.
func (a *Archiver) Flush(ctx context.Context) (interfaces.ContentID, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	resp, err := a.provider.Events(ctx, a.cursor)
	if err != nil {
		return interfaces.ContentID{}, false, fmt.Errorf("could not read events: %w", err)
	}
	if len(resp.Events) == 0 {
		return interfaces.ContentID{}, false, nil
	}

	snap := Snapshot{
		Version: snapshotVersion,
		From:    a.cursor,
		Next:    resp.Next,
		Created: a.clock.Now().Unix(),
		Events:  resp.Events,
	}
	if a.head != nil {
		snap.Previous = a.head.String()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return interfaces.ContentID{}, false, err
	}
	id, err := a.backend.Store(ctx, data)
	if err != nil {
		return interfaces.ContentID{}, false, fmt.Errorf("could not store snapshot: %w", err)
	}

	a.cursor = resp.Next
	a.head = &id
	a.log.Info("Archived events", "snapshot", id.String(), "from", snap.From, "next", snap.Next, "backend", a.backend.Name())
	return id, true, nil
}

// Run flushes every interval until ctx is done, then flushes once more.
func (a *Archiver) Run(ctx context.Context, interval time.Duration) {
	ticker := a.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, _, err := a.Flush(final); err != nil {
				a.log.Error("Final archive flush failed", "err", err)
			}
			cancel()
			return
		case <-ticker.C:
			if _, _, err := a.Flush(ctx); err != nil {
				a.log.Warn("Archive flush failed", "err", err)
			}
		}
	}
}

func Load(ctx context.Context, backend interfaces.StorageBackend, id interfaces.ContentID) (*Snapshot, error) {
	data, err := backend.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("could not parse snapshot %s: %w", id, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot %s has unsupported version %d", id, snap.Version)
	}
	return &snap, nil
}

// Walk visits snapshots from head back to the first one. Consecutive
// snapshots must cover adjacent event ranges.
func Walk(ctx context.Context, backend interfaces.StorageBackend, head interfaces.ContentID, fn func(id interfaces.ContentID, snap *Snapshot) error) error {
	id := head
	expectNext := -1
	for {
		snap, err := Load(ctx, backend, id)
		if err != nil {
			return err
		}
		if expectNext >= 0 && snap.Next != expectNext {
			return fmt.Errorf("%w: %s ends at %d, successor starts at %d", ErrBrokenChain, id, snap.Next, expectNext)
		}
		if err := fn(id, snap); err != nil {
			return err
		}
		if snap.Previous == "" {
			if snap.From != 0 {
				return fmt.Errorf("%w: first snapshot %s starts at %d", ErrBrokenChain, id, snap.From)
			}
			return nil
		}
		if id, err = interfaces.ParseContentID(snap.Previous); err != nil {
			return err
		}
		expectNext = snap.From
	}
}

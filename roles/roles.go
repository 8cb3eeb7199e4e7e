// Package roles holds the Owner, Controller and TimeLocker principals and the
// pause switch shared by every custody contract.
package roles

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var (
	ErrNotOwner      = interfaces.NewAuthorizationError("Ownable: caller is not the owner")
	ErrNotController = interfaces.NewAuthorizationError("only controller")
	ErrNotTimeLocker = interfaces.NewAuthorizationError("not timelocker")
	ErrPaused        = interfaces.NewStateError("Pausable: paused")
	ErrNotPaused     = interfaces.NewStateError("Pausable: not paused")
	ErrZeroAddress   = interfaces.NewValidationError("zero address")
)

type RoleChanged struct {
	Role     string         `json:"role"`
	Previous common.Address `json:"previous"`
	Current  common.Address `json:"current"`
}

type PauseChanged struct {
	Account common.Address `json:"account"`
}

// Roles is held by each custody contract. Mutations register undo
// closures on the call so failed transactions leave roles untouched.
type Roles struct {
	owner      common.Address
	controller common.Address
	timeLocker common.Address
	paused     bool
}

func New(owner, controller, timeLocker common.Address) *Roles {
	return &Roles{
		owner:      owner,
		controller: controller,
		timeLocker: timeLocker,
	}
}

func (r *Roles) Owner() common.Address      { return r.owner }
func (r *Roles) Controller() common.Address { return r.controller }
func (r *Roles) TimeLocker() common.Address { return r.timeLocker }
func (r *Roles) Paused() bool               { return r.paused }

func (r *Roles) OnlyOwner(c *chain.Call) error {
	if c.Sender() != r.owner {
		return ErrNotOwner
	}
	return nil
}

func (r *Roles) OnlyController(c *chain.Call) error {
	if c.Sender() != r.controller {
		return ErrNotController
	}
	return nil
}

// OnlyTimeLocker compares against the TimeLocker current at call time, so a
// rotated-out TimeLocker is rejected even for calls it queued earlier.
func (r *Roles) OnlyTimeLocker(c *chain.Call) error {
	if c.Sender() != r.timeLocker {
		return ErrNotTimeLocker
	}
	return nil
}

func (r *Roles) WhenNotPaused() error {
	if r.paused {
		return ErrPaused
	}
	return nil
}

// Pause requires the Controller.
func (r *Roles) Pause(c *chain.Call) error {
	if err := r.OnlyController(c); err != nil {
		return err
	}
	if r.paused {
		return ErrPaused
	}
	r.setPaused(c, true)
	c.Emit("Paused", PauseChanged{Account: c.Sender()})
	return nil
}

// Unpause requires the Controller.
func (r *Roles) Unpause(c *chain.Call) error {
	if err := r.OnlyController(c); err != nil {
		return err
	}
	if !r.paused {
		return ErrNotPaused
	}
	r.setPaused(c, false)
	c.Emit("Unpaused", PauseChanged{Account: c.Sender()})
	return nil
}

// SetController requires the Owner.
func (r *Roles) SetController(c *chain.Call, controller common.Address) error {
	if err := r.OnlyOwner(c); err != nil {
		return err
	}
	r.swap(c, "controller", &r.controller, controller)
	return nil
}

// SetTimeLocker requires the current TimeLocker.
func (r *Roles) SetTimeLocker(c *chain.Call, timeLocker common.Address) error {
	if err := r.OnlyTimeLocker(c); err != nil {
		return err
	}
	if timeLocker == (common.Address{}) {
		return ErrZeroAddress
	}
	r.swap(c, "timeLocker", &r.timeLocker, timeLocker)
	return nil
}

// TransferOwnership requires the Owner.
func (r *Roles) TransferOwnership(c *chain.Call, owner common.Address) error {
	if err := r.OnlyOwner(c); err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return ErrZeroAddress
	}
	r.swap(c, "owner", &r.owner, owner)
	return nil
}

func (r *Roles) setPaused(c *chain.Call, paused bool) {
	prev := r.paused
	r.paused = paused
	c.OnRevert(func() { r.paused = prev })
}

func (r *Roles) swap(c *chain.Call, role string, slot *common.Address, next common.Address) {
	prev := *slot
	*slot = next
	c.OnRevert(func() { *slot = prev })
	c.Emit("RoleChanged", RoleChanged{Role: role, Previous: prev, Current: next})
}

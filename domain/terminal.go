package domain

import "time"

// Terminal statuses
const (
	TerminalStatusActive         = "Active"
	TerminalStatusDisabled       = "Disabled"
	TerminalStatusMaintenance    = "Maintenance"
	TerminalStatusDecommissioned = "Decommissioned"
)

// TerminalState represents the state of a terminal
type TerminalState struct {
	TerminalID   string
	BranchID     string
	Name         string
	Status       string
	RegisteredAt time.Time
}

// TerminalAggregate is the aggregate for a POS terminal
type TerminalAggregate struct {
	*AggregateBase
	State TerminalState
}

// NewTerminalAggregate creates an empty terminal aggregate bound to an identity
func NewTerminalAggregate(id string) *TerminalAggregate {
	aggregate := &TerminalAggregate{
		State: TerminalState{TerminalID: id},
	}
	aggregate.AggregateBase = NewAggregateBase(id, "terminal", aggregate.applyEvent)
	return aggregate
}

// RegisterTerminal creates a new terminal in Active status
func RegisterTerminal(id, branchID, name string) (*TerminalAggregate, error) {
	aggregate := NewTerminalAggregate(id)
	err := aggregate.Apply(TerminalRegisteredEvent{
		TerminalID:   id,
		BranchID:     branchID,
		Name:         name,
		RegisteredAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// Activate puts the terminal back into Active status
func (a *TerminalAggregate) Activate() error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Cannot activate a decommissioned terminal")
	}

	return a.Apply(TerminalActivatedEvent{
		TerminalID:  a.State.TerminalID,
		ActivatedAt: time.Now(),
	})
}

// Disable puts the terminal into Disabled status
func (a *TerminalAggregate) Disable() error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Cannot disable a decommissioned terminal")
	}

	return a.Apply(TerminalDisabledEvent{
		TerminalID: a.State.TerminalID,
		DisabledAt: time.Now(),
	})
}

// SetMaintenance puts the terminal into Maintenance status
func (a *TerminalAggregate) SetMaintenance() error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Cannot set a decommissioned terminal to maintenance")
	}

	return a.Apply(TerminalMaintenanceSetEvent{
		TerminalID: a.State.TerminalID,
		SetAt:      time.Now(),
	})
}

// Decommission retires the terminal. Rejected while Active: the terminal
// must be disabled or in maintenance first.
func (a *TerminalAggregate) Decommission(reason string) error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Terminal is already decommissioned")
	}

	if a.State.Status == TerminalStatusActive {
		return NewInvariantViolation("Cannot decommission an active terminal; disable or set to maintenance first")
	}

	return a.Apply(TerminalDecommissionedEvent{
		TerminalID:       a.State.TerminalID,
		Reason:           reason,
		DecommissionedAt: time.Now(),
	})
}

// Recommission brings a decommissioned terminal back, in Disabled status
func (a *TerminalAggregate) Recommission(reason string) error {
	if a.State.Status != TerminalStatusDecommissioned {
		return NewInvariantViolation("Terminal is not decommissioned")
	}

	return a.Apply(TerminalRecommissionedEvent{
		TerminalID:       a.State.TerminalID,
		Reason:           reason,
		RecommissionedAt: time.Now(),
	})
}

// Rename changes the terminal display name
func (a *TerminalAggregate) Rename(newName string) error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Cannot rename a decommissioned terminal")
	}

	if a.State.Name == newName {
		return NewInvariantViolation("New name is the same as the current name")
	}

	return a.Apply(TerminalRenamedEvent{
		TerminalID: a.State.TerminalID,
		OldName:    a.State.Name,
		NewName:    newName,
		RenamedAt:  time.Now(),
	})
}

// Reassign moves the terminal to another branch
func (a *TerminalAggregate) Reassign(newBranchID string) error {
	if a.State.Status == TerminalStatusDecommissioned {
		return NewInvariantViolation("Cannot reassign a decommissioned terminal")
	}

	if a.State.Status == TerminalStatusActive {
		return NewInvariantViolation("Cannot reassign an active terminal; disable or set to maintenance first")
	}

	if a.State.BranchID == newBranchID {
		return NewInvariantViolation("New branch is the same as the current branch")
	}

	return a.Apply(TerminalReassignedEvent{
		TerminalID:   a.State.TerminalID,
		OldBranchID:  a.State.BranchID,
		NewBranchID:  newBranchID,
		ReassignedAt: time.Now(),
	})
}

// applyEvent applies an event to the terminal aggregate
func (a *TerminalAggregate) applyEvent(event interface{}) {
	switch e := event.(type) {
	case TerminalRegisteredEvent:
		a.State.TerminalID = e.TerminalID
		a.State.BranchID = e.BranchID
		a.State.Name = e.Name
		a.State.Status = TerminalStatusActive
		a.State.RegisteredAt = e.RegisteredAt

	case TerminalActivatedEvent:
		a.State.Status = TerminalStatusActive

	case TerminalDisabledEvent:
		a.State.Status = TerminalStatusDisabled

	case TerminalMaintenanceSetEvent:
		a.State.Status = TerminalStatusMaintenance

	case TerminalDecommissionedEvent:
		a.State.Status = TerminalStatusDecommissioned

	case TerminalRecommissionedEvent:
		a.State.Status = TerminalStatusDisabled

	case TerminalRenamedEvent:
		a.State.Name = e.NewName

	case TerminalReassignedEvent:
		a.State.BranchID = e.NewBranchID
	}
}

package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/repository"
)

// Command structs
type RegisterTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required,uuid4"`
	BranchID   string `json:"branch_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

type ActivateTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
}

type DisableTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
}

type SetTerminalMaintenanceCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
}

type DecommissionTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

type RecommissionTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

type RenameTerminalCommand struct {
	TerminalID string `json:"terminal_id" validate:"required"`
	NewName    string `json:"new_name" validate:"required"`
}

type ReassignTerminalCommand struct {
	TerminalID  string `json:"terminal_id" validate:"required"`
	NewBranchID string `json:"new_branch_id" validate:"required"`
}

// TerminalHandler handles all terminal-related commands
type TerminalHandler struct {
	repo *repository.TerminalRepository
}

// NewTerminalHandler creates a new terminal handler
func NewTerminalHandler(repo *repository.TerminalRepository) *TerminalHandler {
	return &TerminalHandler{repo: repo}
}

// HandleRegisterTerminal registers a new terminal in Active status
func (h *TerminalHandler) HandleRegisterTerminal(ctx context.Context, cmd RegisterTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling RegisterTerminal command")

	exists, err := h.repo.Exists(ctx, cmd.TerminalID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewInvariantViolation("Terminal %q is already registered", cmd.TerminalID)
	}

	aggregate, err := domain.RegisterTerminal(cmd.TerminalID, cmd.BranchID, cmd.Name)
	if err != nil {
		return err
	}

	return h.repo.Store(ctx, aggregate)
}

// HandleActivateTerminal activates a terminal
func (h *TerminalHandler) HandleActivateTerminal(ctx context.Context, cmd ActivateTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling ActivateTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Activate()
	})
}

// HandleDisableTerminal disables a terminal
func (h *TerminalHandler) HandleDisableTerminal(ctx context.Context, cmd DisableTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling DisableTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Disable()
	})
}

// HandleSetTerminalMaintenance puts a terminal into maintenance
func (h *TerminalHandler) HandleSetTerminalMaintenance(ctx context.Context, cmd SetTerminalMaintenanceCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling SetTerminalMaintenance command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.SetMaintenance()
	})
}

// HandleDecommissionTerminal decommissions a terminal
func (h *TerminalHandler) HandleDecommissionTerminal(ctx context.Context, cmd DecommissionTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling DecommissionTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Decommission(cmd.Reason)
	})
}

// HandleRecommissionTerminal recommissions a decommissioned terminal
func (h *TerminalHandler) HandleRecommissionTerminal(ctx context.Context, cmd RecommissionTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling RecommissionTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Recommission(cmd.Reason)
	})
}

// HandleRenameTerminal renames a terminal
func (h *TerminalHandler) HandleRenameTerminal(ctx context.Context, cmd RenameTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling RenameTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Rename(cmd.NewName)
	})
}

// HandleReassignTerminal reassigns a terminal to another branch
func (h *TerminalHandler) HandleReassignTerminal(ctx context.Context, cmd ReassignTerminalCommand) error {
	log.Info().Str("terminalID", cmd.TerminalID).Msg("Handling ReassignTerminal command")

	return h.mutate(ctx, cmd.TerminalID, func(a *domain.TerminalAggregate) error {
		return a.Reassign(cmd.NewBranchID)
	})
}

// mutate runs one load-mutate-store cycle under the optimistic version
// observed at load time
func (h *TerminalHandler) mutate(ctx context.Context, terminalID string, fn func(*domain.TerminalAggregate) error) error {
	aggregate, err := h.repo.Load(ctx, terminalID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := fn(aggregate); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

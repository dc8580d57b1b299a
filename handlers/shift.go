package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/repository"
)

type OpenShiftCommand struct {
	ShiftID           string       `json:"shift_id" validate:"required,uuid4"`
	TerminalID        string       `json:"terminal_id" validate:"required"`
	BranchID          string       `json:"branch_id" validate:"required"`
	CashierID         string       `json:"cashier_id" validate:"required"`
	OpeningCashAmount domain.Money `json:"opening_cash_amount"`
}

type RecordCashDropCommand struct {
	ShiftID string       `json:"shift_id" validate:"required"`
	Amount  domain.Money `json:"amount"`
}

type CloseShiftCommand struct {
	ShiftID                   string       `json:"shift_id" validate:"required"`
	DeclaredClosingCashAmount domain.Money `json:"declared_closing_cash_amount"`
}

type ForceCloseShiftCommand struct {
	ShiftID      string `json:"shift_id" validate:"required"`
	SupervisorID string `json:"supervisor_id" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
}

// ShiftHandler handles shift lifecycle commands, consulting the terminal
// stream and the read models for the cross-aggregate guards
type ShiftHandler struct {
	repo             *repository.ShiftRepository
	terminalRepo     *repository.TerminalRepository
	enforcement      *domain.MultiTerminalEnforcementService
	closePolicy      *domain.ShiftClosePolicy
	shiftReadModel   ShiftReadModel
	sessionReadModel SessionReadModel
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(
	repo *repository.ShiftRepository,
	terminalRepo *repository.TerminalRepository,
	enforcement *domain.MultiTerminalEnforcementService,
	closePolicy *domain.ShiftClosePolicy,
	shiftReadModel ShiftReadModel,
	sessionReadModel SessionReadModel,
) *ShiftHandler {
	return &ShiftHandler{
		repo:             repo,
		terminalRepo:     terminalRepo,
		enforcement:      enforcement,
		closePolicy:      closePolicy,
		shiftReadModel:   shiftReadModel,
		sessionReadModel: sessionReadModel,
	}
}

// HandleOpenShift opens a shift on a terminal. The terminal must be active,
// and neither the terminal nor the cashier may already hold an open shift.
func (h *ShiftHandler) HandleOpenShift(ctx context.Context, cmd OpenShiftCommand) error {
	log.Info().
		Str("shiftID", cmd.ShiftID).
		Str("terminalID", cmd.TerminalID).
		Str("cashierID", cmd.CashierID).
		Msg("Handling OpenShift command")

	exists, err := h.repo.Exists(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewInvariantViolation("Shift %q already exists", cmd.ShiftID)
	}

	terminal, err := h.terminalRepo.Load(ctx, cmd.TerminalID)
	if err != nil {
		return err
	}
	if terminal.State.Status != domain.TerminalStatusActive {
		return domain.NewInvariantViolation("Cannot open shift on terminal %q in status %s",
			cmd.TerminalID, terminal.State.Status)
	}

	openShiftsByTerminal, err := h.shiftReadModel.OpenShiftsByTerminal(ctx)
	if err != nil {
		return err
	}
	if err := h.enforcement.AssertTerminalHasNoOpenShift(cmd.TerminalID, openShiftsByTerminal); err != nil {
		return err
	}

	activeTerminalByCashier, err := h.shiftReadModel.ActiveTerminalByCashier(ctx)
	if err != nil {
		return err
	}
	if err := h.enforcement.AssertCashierHasNoOpenShift(cmd.CashierID, activeTerminalByCashier); err != nil {
		return err
	}

	aggregate, err := domain.OpenShift(cmd.ShiftID, cmd.TerminalID, cmd.BranchID, cmd.CashierID, cmd.OpeningCashAmount)
	if err != nil {
		return err
	}

	return h.repo.Store(ctx, aggregate)
}

// HandleRecordCashDrop records a cash removal on an open shift
func (h *ShiftHandler) HandleRecordCashDrop(ctx context.Context, cmd RecordCashDropCommand) error {
	log.Info().Str("shiftID", cmd.ShiftID).Msg("Handling RecordCashDrop command")

	aggregate, err := h.repo.Load(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := aggregate.RecordCashDrop(cmd.Amount); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

// HandleCloseShift reconciles and closes a shift. Closure is refused while
// any POS session of the shift still holds an active order.
func (h *ShiftHandler) HandleCloseShift(ctx context.Context, cmd CloseShiftCommand) error {
	log.Info().Str("shiftID", cmd.ShiftID).Msg("Handling CloseShift command")

	aggregate, err := h.repo.Load(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	activeSessionIDs, err := h.sessionReadModel.FindActiveByShiftID(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}
	if err := h.closePolicy.AssertCanClose(cmd.ShiftID, activeSessionIDs); err != nil {
		return err
	}

	if err := aggregate.Close(cmd.DeclaredClosingCashAmount); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

// HandleForceCloseShift closes a shift on supervisor authority without
// cash reconciliation. The session guard is bypassed deliberately.
func (h *ShiftHandler) HandleForceCloseShift(ctx context.Context, cmd ForceCloseShiftCommand) error {
	log.Warn().
		Str("shiftID", cmd.ShiftID).
		Str("supervisorID", cmd.SupervisorID).
		Str("reason", cmd.Reason).
		Msg("Handling ForceCloseShift command")

	aggregate, err := h.repo.Load(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := aggregate.ForceClose(cmd.SupervisorID, cmd.Reason); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

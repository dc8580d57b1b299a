package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DraftLifecycleService sweeps idle draft orders. Orders untouched past the
// deactivation threshold are deactivated (reservation released, order kept
// recoverable); orders idle past the cancellation threshold are cancelled
// outright. The sweeps are run from the scheduler.
type DraftLifecycleService struct {
	sessionHandler        *SessionHandler
	sessionReadModel      SessionReadModel
	deactivationThreshold time.Duration
	cancellationThreshold time.Duration
}

// NewDraftLifecycleService creates the lifecycle service with the given
// idle thresholds
func NewDraftLifecycleService(
	sessionHandler *SessionHandler,
	sessionReadModel SessionReadModel,
	deactivationThreshold time.Duration,
	cancellationThreshold time.Duration,
) *DraftLifecycleService {
	return &DraftLifecycleService{
		sessionHandler:        sessionHandler,
		sessionReadModel:      sessionReadModel,
		deactivationThreshold: deactivationThreshold,
		cancellationThreshold: cancellationThreshold,
	}
}

// SweepDeactivations deactivates active orders idle past the deactivation
// threshold. A failure on one session does not stop the sweep.
func (s *DraftLifecycleService) SweepDeactivations(ctx context.Context) error {
	sessions, err := s.sessionReadModel.GetSessionsWithActiveOrder(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-s.deactivationThreshold)
	swept := 0

	for _, session := range sessions {
		if session.LastActivityAt.After(cutoff) {
			continue
		}

		err := s.sessionHandler.HandleDeactivateOrder(ctx, DeactivateOrderCommand{
			SessionID: session.SessionID,
			Reason:    "idle past deactivation threshold",
		})
		if err != nil {
			log.Error().Err(err).Str("sessionID", session.SessionID).Msg("Failed to deactivate idle order")
			continue
		}
		swept++
	}

	if swept > 0 {
		log.Info().Int("deactivated", swept).Msg("Draft deactivation sweep finished")
	}
	return nil
}

// SweepCancellations cancels active orders idle past the cancellation
// threshold. A failure on one session does not stop the sweep.
func (s *DraftLifecycleService) SweepCancellations(ctx context.Context) error {
	sessions, err := s.sessionReadModel.GetSessionsWithActiveOrder(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-s.cancellationThreshold)
	swept := 0

	for _, session := range sessions {
		if session.LastActivityAt.After(cutoff) {
			continue
		}

		err := s.sessionHandler.HandleCancelOrder(ctx, CancelOrderCommand{
			SessionID: session.SessionID,
			Reason:    "idle past cancellation threshold",
		})
		if err != nil {
			log.Error().Err(err).Str("sessionID", session.SessionID).Msg("Failed to cancel idle order")
			continue
		}
		swept++
	}

	if swept > 0 {
		log.Info().Int("cancelled", swept).Msg("Draft cancellation sweep finished")
	}
	return nil
}

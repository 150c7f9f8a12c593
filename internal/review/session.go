package review

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// newSessionMachine wires the review lifecycle:
// Idle -> Uploading -> Normalizing -> Displaying, with a Failed detour from
// the in-flight states and Reset back to Idle from everywhere it matters.
func newSessionMachine() *Machine {
	return NewBuilder().
		Permit(StateIdle, TriggerUpload, StateUploading).
		Permit(StateUploading, TriggerPayloadReceived, StateNormalizing).
		Permit(StateUploading, TriggerFail, StateFailed).
		Permit(StateNormalizing, TriggerDisplay, StateDisplaying).
		Permit(StateNormalizing, TriggerFail, StateFailed).
		Permit(StateDisplaying, TriggerUpload, StateUploading).
		Permit(StateDisplaying, TriggerReset, StateIdle).
		Permit(StateFailed, TriggerReset, StateIdle).
		Build(StateIdle)
}

// Session owns the state of one review: the FSM plus the currently displayed
// result. Transitions and result updates happen under one lock so a failed
// run can never expose a half-processed result.
type Session struct {
	mu      sync.Mutex
	machine *Machine
	result  *models.ClaimResult
	lastErr error
	logger  *zap.Logger
}

// NewSession creates an idle review session.
func NewSession(logger *zap.Logger) *Session {
	return &Session{
		machine: newSessionMachine(),
		logger:  logger,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Result returns the currently displayed result, nil when none is shown.
func (s *Session) Result() *models.ClaimResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the error recorded by the last failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// StartUpload moves the session into Uploading. Permitted from Idle and,
// for re-submissions, from Displaying.
func (s *Session) StartUpload(ctx context.Context) error {
	return s.fire(ctx, TriggerUpload)
}

// PayloadReceived marks the backend response as received and moves the
// session into Normalizing.
func (s *Session) PayloadReceived(ctx context.Context) error {
	return s.fire(ctx, TriggerPayloadReceived)
}

// Display publishes the normalized result and moves into Displaying. The
// result only becomes visible if the transition is permitted.
func (s *Session) Display(ctx context.Context, result *models.ClaimResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Fire(ctx, TriggerDisplay); err != nil {
		return err
	}
	s.result = result
	s.lastErr = nil
	s.logger.Info("Review session displaying result",
		zap.String("claim_id", result.ClaimID),
		zap.String("status", result.Status))
	return nil
}

// Fail records the failure and moves into Failed. The previously displayed
// result is discarded so a stale view cannot outlive a failed re-run.
func (s *Session) Fail(ctx context.Context, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Fire(ctx, TriggerFail); err != nil {
		return err
	}
	s.result = nil
	s.lastErr = cause
	s.logger.Warn("Review session failed", zap.Error(cause))
	return nil
}

// Reset returns the session to Idle, clearing any recorded failure.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Fire(ctx, TriggerReset); err != nil {
		return err
	}
	s.result = nil
	s.lastErr = nil
	return nil
}

func (s *Session) fire(ctx context.Context, trigger Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Fire(ctx, trigger)
}

// Package deletion implements the two-step confirmation flow that guards
// comment deletion: an email challenge followed by a final confirm.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// State is the flow's position in the confirmation protocol.
type State int

const (
	// Idle means no deletion is pending.
	Idle State = iota
	// PendingEmailChallenge means a delete was requested and the email
	// challenge prompt is open.
	PendingEmailChallenge
	// PendingFinalConfirm means the challenge passed and the final
	// confirmation prompt is open.
	PendingFinalConfirm
)

// String names a state for logs and templates.
func (s State) String() string {
	switch s {
	case PendingEmailChallenge:
		return "email-challenge"
	case PendingFinalConfirm:
		return "final-confirm"
	default:
		return "idle"
	}
}

// Errors surfaced by flow transitions.
var (
	// ErrMissingTarget means a delete was requested without both a
	// comment ID and its stored email; the flow refuses to start.
	ErrMissingTarget = errors.New("missing comment id or email for deletion")
	// ErrEmptyEmail means the challenge was submitted with no email.
	ErrEmptyEmail = errors.New("no email entered")
	// ErrMissingReference means the stored reference email is gone.
	ErrMissingReference = errors.New("reference email missing")
	// ErrChallengeMismatch means the entered email does not match the
	// comment's stored email.
	ErrChallengeMismatch = errors.New("email does not match the one used for this comment")
	// ErrNotPending means a transition fired from the wrong state.
	ErrNotPending = errors.New("no deletion pending")
)

// Deleter issues the actual delete against the document store.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Flow is the single-slot deletion state machine. Only one deletion can
// be pending at a time; beginning a new one overwrites the previous
// pending state. The confirm transition can only be reached through a
// successful email challenge against the slot's stored email.
type Flow struct {
	mu      sync.Mutex
	state   State
	pending string // comment ID awaiting deletion
	email   string // normalized stored reference email
	deleter Deleter
}

// NewFlow creates an idle flow that deletes through d.
func NewFlow(d Deleter) *Flow {
	return &Flow{deleter: d}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending returns the comment ID awaiting deletion, if any.
func (f *Flow) Pending() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Begin starts the flow for a comment. Both the ID and the stored email
// must be known, otherwise the transition is refused. Any previously
// pending deletion is overwritten.
func (f *Flow) Begin(id, storedEmail string) error {
	if id == "" || storedEmail == "" {
		return ErrMissingTarget
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = PendingEmailChallenge
	f.pending = id
	f.email = comment.NormalizeEmail(storedEmail)
	return nil
}

// SubmitChallenge checks the entered email against the stored reference.
// On failure the flow stays in the challenge state; on success it
// advances to the final confirmation, retaining the slot.
func (f *Flow) SubmitChallenge(entered string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != PendingEmailChallenge {
		return ErrNotPending
	}
	normalized := comment.NormalizeEmail(entered)
	if normalized == "" {
		return ErrEmptyEmail
	}
	if f.email == "" {
		return ErrMissingReference
	}
	if normalized != f.email {
		return ErrChallengeMismatch
	}

	f.state = PendingFinalConfirm
	return nil
}

// Confirm commits the deletion for the pending comment. Whatever the
// outcome, the slot is cleared and the flow returns to idle; a store
// failure is reported, never retried, and the comment is not removed
// from any cache here.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != PendingFinalConfirm || f.pending == "" {
		f.reset()
		f.mu.Unlock()
		return ErrNotPending
	}
	id := f.pending
	f.reset()
	f.mu.Unlock()

	if err := f.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	return nil
}

// Cancel abandons any pending deletion without contacting the store.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// reset clears the slot; callers hold the lock.
func (f *Flow) reset() {
	f.state = Idle
	f.pending = ""
	f.email = ""
}

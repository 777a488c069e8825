// Package app wires the store, cache, deletion flow, and remembered
// identity into one application controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arduinolearn/commentboard/internal/cache"
	"github.com/arduinolearn/commentboard/internal/comment"
	"github.com/arduinolearn/commentboard/internal/deletion"
	"github.com/arduinolearn/commentboard/internal/store"
	"github.com/arduinolearn/commentboard/internal/view"
)

// Validation errors for submissions. These are handled locally with an
// inline message; the store is never contacted.
var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidEmail  = errors.New("please enter a valid email address")
)

// Controller owns the application state: the comment cache, the active
// sort key, the remembered author identity, and the single deletion flow
// slot. Every mutation's success path reloads the cache before anything
// re-renders.
type Controller struct {
	store store.Store
	flow  *deletion.Flow

	mu         sync.Mutex
	cache      *cache.Cache
	sortKey    cache.SortKey
	remembered string

	persist func(string) error

	listenerMu sync.Mutex
	listeners  []func()
}

// New creates a controller over the given store. remembered is the
// identity loaded at startup; persist saves it after each successful
// top-level submission (identity.Save in production).
func New(st store.Store, remembered string, persist func(string) error) *Controller {
	if persist == nil {
		persist = func(string) error { return nil }
	}
	return &Controller{
		store:      st,
		flow:       deletion.NewFlow(st),
		cache:      cache.New(),
		sortKey:    cache.SortNewest,
		remembered: comment.NormalizeEmail(remembered),
		persist:    persist,
	}
}

// Refresh reloads the whole cache from the store and re-applies the
// active sort. On failure the cache keeps its last-known-good contents.
func (c *Controller) Refresh(ctx context.Context) error {
	comments, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading comments: %w", err)
	}

	c.mu.Lock()
	c.cache.ReplaceAll(comments)
	c.cache.SortBy(c.sortKey)
	c.mu.Unlock()
	return nil
}

// SetSort switches the active sort key and reorders the cache.
// Re-selecting the current key is a no-op for ordering but still counts
// as a render trigger for the caller.
func (c *Controller) SetSort(key cache.SortKey) {
	c.mu.Lock()
	c.sortKey = key
	c.cache.SortBy(key)
	c.mu.Unlock()
}

// SortKey returns the active sort key.
func (c *Controller) SortKey() cache.SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey
}

// Comments returns the cached comments in display order.
func (c *Controller) Comments() []comment.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Comments()
}

// Page builds the view description for the current state.
func (c *Controller) Page(now time.Time) view.Page {
	c.mu.Lock()
	comments := c.cache.Comments()
	key := c.sortKey
	remembered := c.remembered
	c.mu.Unlock()
	return view.Build(comments, key, remembered, now)
}

// Stats summarizes the cached collection.
func (c *Controller) Stats(now time.Time) comment.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return comment.ComputeStats(c.cache.Comments(), now)
}

// Remembered returns the remembered author email, normalized.
func (c *Controller) Remembered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remembered
}

// SubmitComment validates and posts a top-level comment. Name, email,
// and content must be non-empty and the email must look like
// local@domain.tld. On success the submitted email becomes the
// remembered identity and the cache reloads.
func (c *Controller) SubmitComment(ctx context.Context, name, email, content string) error {
	name = strings.TrimSpace(name)
	email = comment.NormalizeEmail(email)
	content = strings.TrimSpace(content)

	if name == "" || email == "" || content == "" {
		return ErrMissingFields
	}
	if !comment.ValidEmail(email) {
		return ErrInvalidEmail
	}

	_, err := c.store.Insert(ctx, comment.Comment{
		Name:    name,
		Email:   email,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("publishing comment: %w", err)
	}

	c.mu.Lock()
	c.remembered = email
	c.mu.Unlock()
	if err := c.persist(email); err != nil {
		slog.Warn("persisting remembered identity", "error", err)
	}

	return c.Refresh(ctx)
}

// SubmitReply validates and appends a reply to a comment. Only presence
// is checked here; unlike top-level submission the email format is not
// validated, matching the board's historical behavior. The reply's
// creation time is assigned client-side at submission.
func (c *Controller) SubmitReply(ctx context.Context, commentID, name, email, content string) error {
	name = strings.TrimSpace(name)
	email = comment.NormalizeEmail(email)
	content = strings.TrimSpace(content)

	if name == "" || email == "" || content == "" {
		return ErrMissingFields
	}

	reply := comment.Reply{
		Name:      name,
		Email:     email,
		Content:   content,
		CreatedAt: comment.Now(),
	}
	if err := c.store.AppendReply(ctx, commentID, reply); err != nil {
		return fmt.Errorf("publishing reply: %w", err)
	}

	return c.Refresh(ctx)
}

// BeginDelete starts the deletion flow for a cached comment, looking up
// its stored email. Refused if the comment or its email is unknown.
func (c *Controller) BeginDelete(commentID string) error {
	var email string
	c.mu.Lock()
	for _, cached := range c.cache.Comments() {
		if cached.ID == commentID {
			email = cached.Email
			break
		}
	}
	c.mu.Unlock()

	return c.flow.Begin(commentID, email)
}

// SubmitChallenge forwards the entered email to the deletion flow.
func (c *Controller) SubmitChallenge(entered string) error {
	return c.flow.SubmitChallenge(entered)
}

// ConfirmDelete commits the pending deletion and, on success, reloads
// the cache. On failure the cache is left as-is: the comment is not
// optimistically removed.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	if err := c.flow.Confirm(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// CancelDelete abandons any pending deletion without touching the store.
func (c *Controller) CancelDelete() {
	c.flow.Cancel()
}

// DeletionState exposes the flow state for prompts and templates.
func (c *Controller) DeletionState() deletion.State {
	return c.flow.State()
}

// OnChange registers a listener fired after subscription-driven reloads
// and successful local renders.
func (c *Controller) OnChange(fn func()) {
	c.listenerMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenerMu.Unlock()
}

// NotifyChanged fires all change listeners.
func (c *Controller) NotifyChanged() {
	c.listenerMu.Lock()
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenerMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Watch subscribes to store changes for the life of ctx. Every tick
// triggers a full reload and then notifies listeners; ticks racing a
// manual reload are harmless because both replace the cache wholesale.
// Subscription errors are logged and the loop keeps running.
func (c *Controller) Watch(ctx context.Context) (func(), error) {
	onChange := func() {
		if err := c.Refresh(ctx); err != nil {
			slog.Error("reloading after remote change", "error", err)
			return
		}
		c.NotifyChanged()
	}
	onError := func(err error) {
		slog.Error("comment subscription", "error", err)
	}

	stop, err := c.store.Subscribe(ctx, onChange, onError)
	if err != nil {
		return nil, fmt.Errorf("watching comments: %w", err)
	}
	return stop, nil
}

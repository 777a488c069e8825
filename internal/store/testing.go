package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// Fake is an in-memory Store for tests. It records call counts so tests
// can assert, for example, that cancelling a deletion never reached the
// store. This should only be used in tests.
type Fake struct {
	mu       sync.Mutex
	comments []comment.Comment
	nextID   int

	ListCalls   int
	InsertCalls int
	AppendCalls int
	DeleteCalls int

	// Err, when set, is returned by every operation.
	Err error
	// DeleteErr, when set, is returned by Delete only.
	DeleteErr error

	onChange []func()
}

// NewFake creates a fake store seeded with the given comments.
func NewFake(seed ...comment.Comment) *Fake {
	f := &Fake{nextID: 1}
	f.comments = append(f.comments, seed...)
	return f
}

// List returns a copy of the stored comments.
func (f *Fake) List(ctx context.Context) ([]comment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]comment.Comment, len(f.comments))
	copy(out, f.comments)
	return out, nil
}

// Insert stores a comment with a generated ID and the fake's clock.
func (f *Fake) Insert(ctx context.Context, c comment.Comment) (string, error) {
	f.mu.Lock()
	f.InsertCalls++
	if f.Err != nil {
		f.mu.Unlock()
		return "", f.Err
	}
	c.ID = f.generateID()
	c.CreatedAt = comment.Now()
	c.Replies = nil
	f.comments = append(f.comments, c)
	f.mu.Unlock()

	f.fireChange()
	return c.ID, nil
}

// AppendReply appends a reply to the identified comment.
func (f *Fake) AppendReply(ctx context.Context, id string, r comment.Reply) error {
	f.mu.Lock()
	f.AppendCalls++
	if f.Err != nil {
		f.mu.Unlock()
		return f.Err
	}
	found := false
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Replies = append(f.comments[i].Replies, r)
			found = true
			break
		}
	}
	f.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	f.fireChange()
	return nil
}

// Delete removes the identified comment.
func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	f.DeleteCalls++
	if f.Err != nil {
		f.mu.Unlock()
		return f.Err
	}
	if f.DeleteErr != nil {
		f.mu.Unlock()
		return f.DeleteErr
	}
	found := false
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			found = true
			break
		}
	}
	f.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	f.fireChange()
	return nil
}

// Subscribe registers a change listener; stop is a no-op beyond removal.
func (f *Fake) Subscribe(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	f.mu.Lock()
	f.onChange = append(f.onChange, onChange)
	f.mu.Unlock()
	return func() {}, nil
}

// Close is a no-op.
func (f *Fake) Close() error { return nil }

// Comments returns a copy of the current contents without counting a List.
func (f *Fake) Comments() []comment.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]comment.Comment, len(f.comments))
	copy(out, f.comments)
	return out
}

func (f *Fake) generateID() string {
	id := f.nextID
	f.nextID++
	return "c" + strconv.Itoa(id)
}

func (f *Fake) fireChange() {
	f.mu.Lock()
	listeners := make([]func(), len(f.onChange))
	copy(listeners, f.onChange)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

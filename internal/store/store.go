// Package store abstracts the external document store holding the board's
// single comments collection, with pluggable backends.
package store

import (
	"context"
	"errors"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// Collection is the single logical collection name used by the board.
const Collection = "comments"

// Sentinel errors reported by store backends.
var (
	// ErrNotFound means the targeted comment does not exist.
	ErrNotFound = errors.New("comment not found")
	// ErrPermissionDenied means the backend refused the operation; it is
	// surfaced differently from generic failures.
	ErrPermissionDenied = errors.New("permission denied")
)

// Store is the document-store contract the board is written against.
// Implementations assign IDs and creation times on Insert; replies keep
// the client-assigned time they arrive with.
type Store interface {
	// List returns every comment in the collection, in no promised order.
	List(ctx context.Context) ([]comment.Comment, error)

	// Insert adds a new comment and returns its assigned ID. The comment's
	// CreatedAt and Replies fields are ignored: the store stamps the
	// creation time and starts the reply list empty.
	Insert(ctx context.Context, c comment.Comment) (string, error)

	// AppendReply atomically appends a reply to a comment's reply list.
	AppendReply(ctx context.Context, id string, r comment.Reply) error

	// Delete removes a comment and its replies.
	Delete(ctx context.Context, id string) error

	// Subscribe registers for change notifications on the collection.
	// onChange fires after any mutation (local or remote, depending on the
	// backend's reach); onError receives subscription failures. The
	// returned stop function ends the subscription.
	Subscribe(ctx context.Context, onChange func(), onError func(error)) (stop func(), err error)

	// Close releases backend resources.
	Close() error
}

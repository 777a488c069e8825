package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// SqliteStore is an embedded single-node document store over SQLite.
// Replies live in a JSON column on the comment row. Subscriptions only see
// mutations made through this process; that matches the embedded use case
// where the serving process is the only writer.
type SqliteStore struct {
	db *sql.DB

	mu          sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// NewSqliteStore wraps an opened SQLite database (see internal/db.Open).
func NewSqliteStore(database *sql.DB) *SqliteStore {
	return &SqliteStore{
		db:          database,
		subscribers: make(map[int]func()),
	}
}

// List returns every comment in the collection.
func (s *SqliteStore) List(ctx context.Context) ([]comment.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, content, created_at, replies FROM comments")
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var comments []comment.Comment
	for rows.Next() {
		var c comment.Comment
		var createdAt time.Time
		var repliesJSON string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Content, &createdAt, &repliesJSON); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.CreatedAt = comment.At(createdAt)
		if err := json.Unmarshal([]byte(repliesJSON), &c.Replies); err != nil {
			return nil, fmt.Errorf("decoding replies for %s: %w", c.ID, err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Insert adds a comment, stamping the ID and creation time.
func (s *SqliteStore) Insert(ctx context.Context, c comment.Comment) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (id, name, email, content, created_at, replies) VALUES (?, ?, ?, ?, ?, '[]')",
		id, c.Name, c.Email, c.Content, time.Now())
	if err != nil {
		return "", fmt.Errorf("inserting comment: %w", err)
	}

	s.notify()
	return id, nil
}

// AppendReply appends a reply to a comment's reply list inside a
// transaction, so concurrent appends never lose entries.
func (s *SqliteStore) AppendReply(ctx context.Context, id string, r comment.Reply) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var repliesJSON string
	err = tx.QueryRowContext(ctx, "SELECT replies FROM comments WHERE id = ?", id).Scan(&repliesJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("appending reply to %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading replies: %w", err)
	}

	var replies []comment.Reply
	if err := json.Unmarshal([]byte(repliesJSON), &replies); err != nil {
		return fmt.Errorf("decoding replies for %s: %w", id, err)
	}
	replies = append(replies, r)

	updated, err := json.Marshal(replies)
	if err != nil {
		return fmt.Errorf("encoding replies: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE comments SET replies = ? WHERE id = ?", string(updated), id); err != nil {
		return fmt.Errorf("updating replies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reply: %w", err)
	}

	s.notify()
	return nil
}

// Delete removes a comment by ID.
func (s *SqliteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deleting comment %s: %w", id, ErrNotFound)
	}

	s.notify()
	return nil
}

// Subscribe registers an in-process change listener.
func (s *SqliteStore) Subscribe(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = onChange
	s.mu.Unlock()

	stop := func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return stop, nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// notify fires all registered change listeners.
func (s *SqliteStore) notify() {
	s.mu.Lock()
	listeners := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Package cache holds the in-memory working copy of the comment
// collection between reloads and implements the sort contract.
package cache

import (
	"fmt"
	"sort"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// SortKey selects an ordering for the cached comments.
type SortKey string

const (
	// SortNewest orders descending by creation time; unknown times sort
	// as the epoch.
	SortNewest SortKey = "newest"
	// SortOldest orders ascending by creation time, same fallback.
	SortOldest SortKey = "oldest"
	// SortReplies orders descending by reply count; ties keep their
	// previous relative order.
	SortReplies SortKey = "replies"
)

// ParseSortKey validates a sort key string, defaulting to newest for the
// empty string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortReplies:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Cache is the client-side comment cache. It is rebuilt wholesale on
// every load or subscription tick; sorting only reorders, never mutates
// records.
type Cache struct {
	comments []comment.Comment
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// ReplaceAll overwrites the cache contents.
func (c *Cache) ReplaceAll(comments []comment.Comment) {
	c.comments = make([]comment.Comment, len(comments))
	copy(c.comments, comments)
}

// SortBy reorders the cache in place by the given key. Sorting is stable
// and repeatable: applying the same key twice yields the same order.
func (c *Cache) SortBy(key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(c.comments, func(i, j int) bool {
			return seconds(c.comments[i]) > seconds(c.comments[j])
		})
	case SortOldest:
		sort.SliceStable(c.comments, func(i, j int) bool {
			return seconds(c.comments[i]) < seconds(c.comments[j])
		})
	case SortReplies:
		sort.SliceStable(c.comments, func(i, j int) bool {
			return len(c.comments[i].Replies) > len(c.comments[j].Replies)
		})
	}
}

// Comments returns the cached comments in their current order. The
// returned slice is a copy; records are shared.
func (c *Cache) Comments() []comment.Comment {
	out := make([]comment.Comment, len(c.comments))
	copy(out, c.comments)
	return out
}

// Len returns the number of cached comments.
func (c *Cache) Len() int {
	return len(c.comments)
}

// seconds is the sort value of a comment's creation time; an unknown
// time counts as the epoch.
func seconds(c comment.Comment) int64 {
	if c.CreatedAt.IsZero() {
		return 0
	}
	return c.CreatedAt.Unix()
}

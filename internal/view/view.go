// Package view projects the cached comments into a display description.
// Build is a pure function; the web templates and the CLI printer are
// thin adapters over its output.
package view

import (
	"strings"
	"time"

	"github.com/arduinolearn/commentboard/internal/cache"
	"github.com/arduinolearn/commentboard/internal/comment"
	"github.com/arduinolearn/commentboard/internal/format"
)

// Page describes the whole board.
type Page struct {
	Comments    []Comment
	Empty       bool
	SortKey     cache.SortKey
	Stats       comment.Stats
	AuthorEmail string // remembered identity, for form pre-fill
}

// Comment describes one rendered comment card.
type Comment struct {
	ID         string
	Initials   string
	Name       string
	Privileged bool
	When       string
	Lines      []string
	ReplyCount int
	CanDelete  bool
	Replies    []Reply
}

// Reply describes one rendered reply, in stored order under its parent.
type Reply struct {
	Name       string
	Privileged bool
	When       string
	Lines      []string
}

// Build projects a sorted comment collection into a Page. rememberedEmail
// decides delete-control visibility: the control shows only when both the
// comment's email and the remembered one are non-empty and equal after
// normalization.
func Build(comments []comment.Comment, sortKey cache.SortKey, rememberedEmail string, now time.Time) Page {
	page := Page{
		SortKey:     sortKey,
		Empty:       len(comments) == 0,
		Stats:       comment.ComputeStats(comments, now),
		AuthorEmail: rememberedEmail,
	}

	remembered := comment.NormalizeEmail(rememberedEmail)

	for _, c := range comments {
		cv := Comment{
			ID:         c.ID,
			Initials:   format.Initials(c.Name),
			Name:       c.DisplayName(),
			Privileged: format.IsPrivileged(c.Email),
			When:       format.RelativeTime(c.CreatedAt.Time, now),
			Lines:      bodyLines(c.Content),
			ReplyCount: len(c.Replies),
			CanDelete:  remembered != "" && c.Email != "" && comment.NormalizeEmail(c.Email) == remembered,
		}
		for _, r := range c.Replies {
			cv.Replies = append(cv.Replies, Reply{
				Name:       r.DisplayName(),
				Privileged: format.IsPrivileged(r.Email),
				When:       format.RelativeTime(r.CreatedAt.Time, now),
				Lines:      bodyLines(r.Content),
			})
		}
		page.Comments = append(page.Comments, cv)
	}

	return page
}

// bodyLines splits a body on line breaks so templates can preserve them
// without raw HTML.
func bodyLines(content string) []string {
	if content == "" {
		return []string{"(no content)"}
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

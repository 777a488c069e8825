package view

import (
	"reflect"
	"testing"
	"time"

	"github.com/arduinolearn/commentboard/internal/cache"
	"github.com/arduinolearn/commentboard/internal/comment"
	"github.com/arduinolearn/commentboard/internal/format"
)

var buildNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestBuildEmpty(t *testing.T) {
	page := Build(nil, cache.SortNewest, "", buildNow)

	if !page.Empty {
		t.Error("empty board not flagged")
	}
	if len(page.Comments) != 0 {
		t.Errorf("got %d comments, want 0", len(page.Comments))
	}
	if page.SortKey != cache.SortNewest {
		t.Errorf("sort key = %v, want newest", page.SortKey)
	}
}

func TestBuildComment(t *testing.T) {
	comments := []comment.Comment{{
		ID:        "c1",
		Name:      "Jean Mickael",
		Email:     "nagevajeanmickael@gmail.com",
		Content:   "line one\r\nline two",
		CreatedAt: comment.At(buildNow.Add(-2 * time.Hour)),
		Replies: []comment.Reply{{
			Name:      "",
			Email:     "bob@example.com",
			Content:   "",
			CreatedAt: comment.At(buildNow.Add(-time.Hour)),
		}},
	}}

	page := Build(comments, cache.SortNewest, "", buildNow)
	if page.Empty {
		t.Fatal("board with a comment flagged empty")
	}
	if len(page.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(page.Comments))
	}

	got := page.Comments[0]
	if got.Initials != "JM" {
		t.Errorf("initials = %q, want JM", got.Initials)
	}
	if !got.Privileged {
		t.Error("allow-listed author not flagged privileged")
	}
	if got.When != "2 hours ago" {
		t.Errorf("when = %q, want 2 hours ago", got.When)
	}
	if want := []string{"line one", "line two"}; !reflect.DeepEqual(got.Lines, want) {
		t.Errorf("lines = %v, want %v", got.Lines, want)
	}
	if got.ReplyCount != 1 {
		t.Errorf("reply count = %d, want 1", got.ReplyCount)
	}
	if got.CanDelete {
		t.Error("delete control shown with no remembered identity")
	}

	if len(got.Replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(got.Replies))
	}
	r := got.Replies[0]
	if r.Name != comment.DefaultName {
		t.Errorf("reply name = %q, want %q", r.Name, comment.DefaultName)
	}
	if r.Privileged {
		t.Error("ordinary reply flagged privileged")
	}
	if want := []string{"(no content)"}; !reflect.DeepEqual(r.Lines, want) {
		t.Errorf("reply lines = %v, want %v", r.Lines, want)
	}
}

func TestBuildCanDelete(t *testing.T) {
	tests := []struct {
		name       string
		commentEml string
		remembered string
		want       bool
	}{
		{"owner", "a@b.com", "a@b.com", true},
		{"owner different case", "A@B.com", "a@b.com", true},
		{"different author", "a@b.com", "x@y.com", false},
		{"no remembered identity", "a@b.com", "", false},
		{"comment without email", "", "a@b.com", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := []comment.Comment{{ID: "c1", Email: tt.commentEml, Content: "hi"}}
			page := Build(comments, cache.SortNewest, tt.remembered, buildNow)
			if got := page.Comments[0].CanDelete; got != tt.want {
				t.Errorf("CanDelete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildUnknownTime(t *testing.T) {
	comments := []comment.Comment{{ID: "c1", Content: "hi"}}

	page := Build(comments, cache.SortNewest, "", buildNow)
	if got := page.Comments[0].When; got != format.UnknownDate {
		t.Errorf("when = %q, want %q", got, format.UnknownDate)
	}
}

func TestBuildCarriesIdentityAndStats(t *testing.T) {
	comments := []comment.Comment{
		{ID: "c1", Email: "a@b.com", Content: "hi", CreatedAt: comment.At(buildNow.Add(-time.Hour))},
		{ID: "c2", Email: "c@d.com", Content: "yo", CreatedAt: comment.At(buildNow.Add(-48 * time.Hour))},
	}

	page := Build(comments, cache.SortOldest, "a@b.com", buildNow)
	if page.AuthorEmail != "a@b.com" {
		t.Errorf("author email = %q, want a@b.com", page.AuthorEmail)
	}
	if page.Stats.Comments != 2 {
		t.Errorf("stats comments = %d, want 2", page.Stats.Comments)
	}
	if page.Stats.Participants != 2 {
		t.Errorf("stats participants = %d, want 2", page.Stats.Participants)
	}
	if page.Stats.Today != 1 {
		t.Errorf("stats today = %d, want 1", page.Stats.Today)
	}
}

package cache

import (
	"testing"
	"time"

	"github.com/arduinolearn/commentboard/internal/comment"
)

func testComments() []comment.Comment {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return []comment.Comment{
		{ID: "t1", CreatedAt: comment.At(base)},
		{ID: "t2", CreatedAt: comment.At(base.Add(time.Hour)), Replies: []comment.Reply{{}, {}}},
		{ID: "t3", CreatedAt: comment.At(base.Add(2 * time.Hour)), Replies: []comment.Reply{{}}},
	}
}

func order(c *Cache) []string {
	var ids []string
	for _, cm := range c.Comments() {
		ids = append(ids, cm.ID)
	}
	return ids
}

func TestSortBy(t *testing.T) {
	tests := []struct {
		name string
		key  SortKey
		want []string
	}{
		{"newest first", SortNewest, []string{"t3", "t2", "t1"}},
		{"oldest first", SortOldest, []string{"t1", "t2", "t3"}},
		{"most replies first", SortReplies, []string{"t2", "t3", "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.ReplaceAll(testComments())
			c.SortBy(tt.key)

			got := order(c)
			for i, want := range tt.want {
				if got[i] != want {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSortNewestOldestAreReverses(t *testing.T) {
	a := New()
	a.ReplaceAll(testComments())
	a.SortBy(SortNewest)

	b := New()
	b.ReplaceAll(testComments())
	b.SortBy(SortOldest)

	newest := order(a)
	oldest := order(b)
	for i := range newest {
		if newest[i] != oldest[len(oldest)-1-i] {
			t.Fatalf("newest %v is not the reverse of oldest %v", newest, oldest)
		}
	}
}

func TestSortIsIdempotent(t *testing.T) {
	for _, key := range []SortKey{SortNewest, SortOldest, SortReplies} {
		c := New()
		c.ReplaceAll(testComments())

		c.SortBy(key)
		first := order(c)
		c.SortBy(key)
		second := order(c)

		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("%s: second sort reordered %v to %v", key, first, second)
			}
		}
	}
}

func TestSortMissingTimestampAsEpoch(t *testing.T) {
	c := New()
	c.ReplaceAll([]comment.Comment{
		{ID: "dated", CreatedAt: comment.At(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "undated"},
	})

	c.SortBy(SortNewest)
	if got := order(c); got[0] != "dated" {
		t.Errorf("newest order = %v, want dated first", got)
	}

	c.SortBy(SortOldest)
	if got := order(c); got[0] != "undated" {
		t.Errorf("oldest order = %v, want undated first", got)
	}
}

func TestSortRepliesTiesAreStable(t *testing.T) {
	c := New()
	c.ReplaceAll([]comment.Comment{
		{ID: "a"},
		{ID: "b"},
		{ID: "c", Replies: []comment.Reply{{}}},
	})

	c.SortBy(SortReplies)
	got := order(c)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReplaceAllCopies(t *testing.T) {
	src := testComments()
	c := New()
	c.ReplaceAll(src)

	src[0].ID = "mutated"
	if c.Comments()[0].ID == "mutated" {
		t.Error("cache shares backing array with caller")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"", SortNewest, false},
		{"newest", SortNewest, false},
		{"oldest", SortOldest, false},
		{"replies", SortReplies, false},
		{"recent", "", true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParseSortKey(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package comment

import (
	"testing"
	"time"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	comments := []Comment{
		{
			Email:     "a@b.com",
			CreatedAt: At(today),
			Replies: []Reply{
				{Email: "c@d.com", CreatedAt: At(today)},
				{Email: "A@B.com", CreatedAt: At(yesterday)},
			},
		},
		{Email: "e@f.com", CreatedAt: At(yesterday)},
		{CreatedAt: Timestamp{}}, // anonymous, unknown time
	}

	stats := ComputeStats(comments, now)

	if stats.Comments != 3 {
		t.Errorf("Comments = %d, want 3", stats.Comments)
	}
	if stats.Replies != 2 {
		t.Errorf("Replies = %d, want 2", stats.Replies)
	}
	// a@b.com appears twice with different casing and counts once.
	if stats.Participants != 3 {
		t.Errorf("Participants = %d, want 3", stats.Participants)
	}
	// One comment and one reply today; unknown times never count.
	if stats.Today != 2 {
		t.Errorf("Today = %d, want 2", stats.Today)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	if stats != (Stats{}) {
		t.Errorf("stats for empty collection = %+v, want zero", stats)
	}
}

package comment

import "time"

// Stats summarizes board activity for the header panel and the stats verb.
type Stats struct {
	Comments     int `json:"comments"`
	Replies      int `json:"replies"`
	Participants int `json:"participants"`
	Today        int `json:"today"`
}

// ComputeStats tallies a comment collection. Participants are distinct
// normalized emails across comments and replies; Today counts comments and
// replies created since local midnight of now. Items with an unknown
// creation time never count as today's activity.
func ComputeStats(comments []Comment, now time.Time) Stats {
	stats := Stats{Comments: len(comments)}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	seen := make(map[string]struct{})

	countEmail := func(email string) {
		if email == "" {
			return
		}
		seen[NormalizeEmail(email)] = struct{}{}
	}
	isToday := func(ts Timestamp) bool {
		return !ts.IsZero() && !ts.Before(midnight)
	}

	for _, c := range comments {
		stats.Replies += len(c.Replies)
		countEmail(c.Email)
		if isToday(c.CreatedAt) {
			stats.Today++
		}
		for _, r := range c.Replies {
			countEmail(r.Email)
			if isToday(r.CreatedAt) {
				stats.Today++
			}
		}
	}

	stats.Participants = len(seen)
	return stats
}

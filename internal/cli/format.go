package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arduinolearn/commentboard/internal/comment"
	"github.com/arduinolearn/commentboard/internal/view"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBoard prints the board view in text format.
func printBoard(page view.Page) {
	if page.Empty {
		fmt.Println("No comments yet.")
		return
	}

	for _, c := range page.Comments {
		badge := ""
		if c.Privileged {
			badge = " [ADMIN]"
		}
		marker := ""
		if c.CanDelete {
			marker = " (yours)"
		}
		fmt.Printf("[%s] %s%s - %s%s  #%s\n", c.Initials, c.Name, badge, c.When, marker, c.ID)
		for _, line := range c.Lines {
			fmt.Printf("  %s\n", line)
		}
		for _, r := range c.Replies {
			replyBadge := ""
			if r.Privileged {
				replyBadge = " [ADMIN]"
			}
			fmt.Printf("  > %s%s - %s\n", r.Name, replyBadge, r.When)
			for _, line := range r.Lines {
				fmt.Printf("    %s\n", line)
			}
		}
		fmt.Printf("  (%d %s)\n\n", c.ReplyCount, pluralize(c.ReplyCount, "reply", "replies"))
	}

	fmt.Printf("Total: %d comments, sorted by %s\n", len(page.Comments), page.SortKey)
}

// printStats prints board statistics in text format.
func printStats(stats comment.Stats) {
	fmt.Printf("Comments:     %d\n", stats.Comments)
	fmt.Printf("Replies:      %d\n", stats.Replies)
	fmt.Printf("Participants: %d\n", stats.Participants)
	fmt.Printf("Today:        %d\n", stats.Today)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

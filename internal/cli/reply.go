package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/identity"
)

func newReplyCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   `reply <comment-id> "text"`,
		Short: "Reply to a comment",
		Long:  "Append a reply to an existing comment.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReply(args[0], name, email, strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "author display name")
	cmd.Flags().StringVar(&email, "email", "", "author email (default: remembered identity)")

	return cmd
}

func runReply(commentID, name, email, content string) error {
	if email == "" {
		remembered, err := identity.Load()
		if err != nil {
			return err
		}
		email = remembered
	}

	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := ctrl.SubmitReply(context.Background(), commentID, name, email, content); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"replied": true, "comment_id": commentID})
	}

	fmt.Println("Reply published.")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/identity"
)

func newPostCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   `post "text"`,
		Short: "Post a top-level comment",
		Long:  "Post a top-level comment. The email is remembered for future posts and delete controls.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(name, email, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "author display name")
	cmd.Flags().StringVar(&email, "email", "", "author email (default: remembered identity)")

	return cmd
}

func runPost(name, email, content string) error {
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

	if err := ctrl.SubmitComment(context.Background(), name, email, content); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"posted": true, "email": ctrl.Remembered()})
	}

	fmt.Println("Comment published.")
	return nil
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/store"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <comment-id>",
		Short: "Delete a comment",
		Long:  "Delete a comment after re-entering the email it was posted with and confirming.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctrl, st, err := newController()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	if err := ctrl.BeginDelete(args[0]); err != nil {
		return fmt.Errorf("cannot delete %s: %w", args[0], err)
	}

	stdin := bufio.NewReader(os.Stdin)

	entered, err := prompt(stdin, "Email used for this comment: ")
	if err != nil {
		ctrl.CancelDelete()
		return err
	}
	if err := ctrl.SubmitChallenge(entered); err != nil {
		ctrl.CancelDelete()
		return err
	}

	answer, err := prompt(stdin, "Delete this comment? This cannot be undone. [y/N] ")
	if err != nil {
		ctrl.CancelDelete()
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		ctrl.CancelDelete()
		fmt.Println("Cancelled.")
		return nil
	}

	if err := ctrl.ConfirmDelete(ctx); err != nil {
		if errors.Is(err, store.ErrPermissionDenied) {
			return fmt.Errorf("permission denied by the store: %w", err)
		}
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"id": args[0], "removed": true})
	}

	fmt.Println("Comment deleted.")
	return nil
}

// prompt prints a message and reads one trimmed line from the reader.
func prompt(r *bufio.Reader, message string) (string, error) {
	fmt.Print(message)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arduinolearn/commentboard/internal/identity"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the remembered author email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := identity.Load()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(map[string]string{"email": email})
			}

			if email == "" {
				fmt.Println("No remembered identity. Post a comment to set one.")
				return nil
			}
			fmt.Println(email)
			return nil
		},
	}
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Forget the remembered author email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := identity.Forget(); err != nil {
				return err
			}
			fmt.Println("Remembered identity cleared.")
			return nil
		},
	}
}

// ABOUTME: logout subcommand: ends the session locally and remotely
// ABOUTME: Local state is cleared even when the server is unreachable

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cierra la sesión actual",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, store, err := newBackend()
		if err != nil {
			return err
		}

		store.Logout(context.Background())
		fmt.Fprintln(os.Stdout, "Sesión cerrada.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

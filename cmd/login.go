// ABOUTME: login subcommand: authenticates with an access key
// ABOUTME: Reads the key from the flag or prompts without echo

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginKeyFlag string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Inicia sesión con tu clave de acceso",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cli, store, err := newBackend()
		if err != nil {
			return err
		}

		key := strings.TrimSpace(loginKeyFlag)
		if key == "" {
			err := huh.NewInput().
				Title("Clave de acceso").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Run()
			if err != nil {
				return err
			}
			key = strings.TrimSpace(key)
		}
		if key == "" {
			return fmt.Errorf("la clave no puede estar vacía")
		}

		if err := cli.Login(context.Background(), key); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		store.SetAuthenticated(true, key)

		fmt.Fprintln(os.Stdout, "Sesión iniciada.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginKeyFlag, "key", "", "access key (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// ABOUTME: ask subcommand: one question, one answer, no TUI
// ABOUTME: Starts a throwaway chat session and prints the reply

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/markup"
)

var askCmd = &cobra.Command{
	Use:   "ask [pregunta]",
	Short: "Envía una pregunta y muestra la respuesta",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cli, store, err := newBackend()
		if err != nil {
			return err
		}
		if !store.IsAuthenticated() {
			return fmt.Errorf("no has iniciado sesión; ejecuta 'asistente-neae login'")
		}

		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("la pregunta no puede estar vacía")
		}
		if runes := []rune(question); len(runes) > cfg.MaxMessageLength {
			return fmt.Errorf("la pregunta supera el máximo de %d caracteres", cfg.MaxMessageLength)
		}

		ctx := context.Background()
		sessionID, err := cli.StartChat(ctx)
		if err != nil {
			return fmt.Errorf("failed to start chat: %w", err)
		}

		reply, err := cli.SendMessage(ctx, sessionID, question)
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		store.IncrementUsage()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"session_id": sessionID,
				"pregunta":   question,
				"respuesta":  reply,
			})
		}

		fmt.Println(markup.RenderText(reply))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

// ABOUTME: status subcommand: shows session state and usage quota
// ABOUTME: Supports --json for scripting

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/widgets"
)

type statusReport struct {
	Authenticated bool   `json:"authenticated"`
	APIURL        string `json:"api_url"`
	UsageCount    *int   `json:"usage_count,omitempty"`
	MaxUses       *int   `json:"max_uses,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Muestra el estado de la sesión y el uso de la clave",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cli, store, err := newBackend()
		if err != nil {
			return err
		}

		report := statusReport{
			Authenticated: store.IsAuthenticated(),
			APIURL:        cfg.APIURL,
		}
		if report.Authenticated {
			if profile := store.FetchProfile(context.Background()); profile != nil {
				report.UsageCount = &profile.UsageCount
				report.MaxUses = &profile.MaxUses
			}
			// FetchProfile logs out on a 401; reflect that
			report.Authenticated = store.IsAuthenticated()
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Servidor: %s\n", cli.BaseURL())
		if !report.Authenticated {
			fmt.Println("Sesión: no iniciada")
			return nil
		}
		fmt.Println("Sesión: iniciada")
		if report.UsageCount != nil && report.MaxUses != nil {
			fmt.Println(widgets.UsageDisplay(*report.UsageCount, *report.MaxUses, widgets.DefaultQuotaBarConfig()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

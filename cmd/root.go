// ABOUTME: Root cobra command: launches the interactive TUI
// ABOUTME: Builds the shared client, cookie jar and session store for subcommands

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/config"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/debuglog"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui"
)

var (
	apiURLFlag  string
	jsonOutput  bool
	configDir   string
	initialized bool
)

var rootCmd = &cobra.Command{
	Use:   "asistente-neae",
	Short: "Cliente de terminal para el Asistente NEAE",
	Long: `asistente-neae es un cliente de terminal para el servicio de chat
del Asistente NEAE (Necesidades Específicas de Apoyo Educativo).

Sin argumentos abre la interfaz interactiva. Los subcomandos login,
logout, status y ask permiten usar el servicio desde scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir == "" {
			configDir = config.DefaultConfigDir()
		}
		if err := debuglog.Init(configDir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
		}
		initialized = true
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if initialized {
			debuglog.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cli, store, err := newBackend()
		if err != nil {
			return err
		}
		return tui.Run(cli, store, cfg)
	},
}

// newBackend builds the configuration, API client and session store the way
// every command needs them.
func newBackend() (config.Config, *client.Client, *session.Store, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return cfg, nil, nil, err
	}
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}

	jar := client.NewJar(filepath.Join(configDir, "cookies.json"))
	cli := client.New(cfg.APIURL, jar, cfg.Timeout())
	store := session.NewStore(configDir, cli)
	return cfg, cli, store, nil
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "backend URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output where supported")
}

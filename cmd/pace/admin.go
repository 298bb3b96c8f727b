package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pace-org/pace-go/internal/config"
	"github.com/pace-org/pace-go/internal/pacelog"
	"github.com/pace-org/pace-go/internal/statusserver"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a default configuration file if none exists",
	Long: `Writes the default configuration (in-memory storage, UTC, "::"
category separator) to the discovered config path if nothing is there
yet. This is a non-interactive initializer, not the interactive wizard
the original tool offers.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		discovered, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = discovered
	}

	if _, err := os.Stat(path); err == nil {
		infoColor.Printf("Config already exists at %s, leaving it alone.\n", path)
		return nil
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	successColor.Printf("Wrote default config to %s\n", path)
	return nil
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only status HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:9217", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	srv := statusserver.New(statusserver.Config{
		Facade: rt.facade,
		Logger: pacelog.Default("statusserver", pacelog.LevelInfo),
		Addr:   serveAddr,
	})

	infoColor.Printf("Listening on %s\n", serveAddr)
	return srv.ListenAndServe()
}

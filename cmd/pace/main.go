// Command pace is the CLI surface over the activity state engine (spec
// §6.2): a thin cobra command tree whose subcommands each resolve their
// flags into a façade call and render the result, grounded on the
// teacher's single-binary cobra root in cmd/claude-monitor/main.go.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var (
	configPath string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "pace",
	Short: "Track what you're spending your time on",
	Long: `pace is a personal time-tracking engine: begin an activity, hold it
for a break, resume it, end it, and reflect on where the time went.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: discovered via the OS config directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(beginCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(holdCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(nowCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Initializers run after flag parsing, so --no-color is already set.
	cobra.OnInitialize(func() {
		if noColor || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}
	})
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

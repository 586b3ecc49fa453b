// Xmlconfig edits files of user-editable config objects stored as XML.
//
// It provides an interactive overview for adding, editing, deleting,
// importing and exporting bookmarks, plus direct commands for the same
// operations in scripts.
//
// Usage:
//
//	xmlconfig [command] [flags]
//
// Running without arguments launches the interactive overview.
// See 'xmlconfig --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/xmlconfig/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by all commands
type options struct {
	configPath string
	xmlFile    string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "xmlconfig",
		Short: "XML config object editor",
		Long: `An editor for files of user-editable config objects stored as XML.

Objects are kept in memory while you work and written back to the XML file
when you save. While the overview is open, nothing else in this tool writes
to the file.

If no command is specified, the interactive overview will launch automatically.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: open the overview when no subcommand provided
			return runOverview(cmd, opts)
		},
	}

	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Settings file (default: OS config directory)")
	rootCmd.PersistentFlags().StringVarP(&opts.xmlFile, "file", "f", "", "XML file to edit (overrides xml_file from settings)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: silent)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write log output to this file instead of stderr")

	rootCmd.AddCommand(
		newOverviewCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xmlconfig %s\n", version.Full())
		},
	}
}

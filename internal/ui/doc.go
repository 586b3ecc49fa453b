// Package ui provides terminal output components for the xmlconfig CLI.
//
// The interactive overview lives in package screens. The components here
// follow a "run once and exit" pattern for the non-interactive subcommands:
// they render output compellingly but only ask for input through Confirm.
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, warning and failure boxes with details and hints
//   - Table: config objects in aligned columns
//   - Confirm: a y/n question read from any io.Reader
//
// Example:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Bookmarks", "xmlconfig list", ui.Detail{Key: "File", Value: path})
//	p.PrintTable(table)
//	p.PrintSuccess("3 bookmarks exported", ui.Detail{Key: "File", Value: out})
//
// # Logging Integration
//
// This package expects logging to be controlled via the XMLCONFIG_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui

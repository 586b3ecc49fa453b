// Package logging builds the zap logger shared by the xmlconfig commands.
//
// Logging is silent unless a level is given on the command line, in the
// settings file or through XMLCONFIG_LOG_LEVEL. Curated output for the user
// goes through the ui package and the screens; zap output is for diagnosis.
//
// # Log Levels
//
//   - Debug: file reads that were skipped, entries parsed, writes
//   - Info: normal operations
//   - Warn: missing files, refused writes
//   - Error: malformed documents and entries, I/O failures
//
// # Configuration
//
//	if err := logging.Initialize("debug", ""); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	support := bookmarks.NewSupport(path, words, logging.GetLogger(), hooks)
//
// The interactive overview owns the terminal, so its log output should go to
// a file (--log-file or XMLCONFIG_LOG_FILE).
package logging

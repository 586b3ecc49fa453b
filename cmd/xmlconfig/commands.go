package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/xmlconfig/internal/bookmarks"
	"github.com/muurk/xmlconfig/internal/config"
	"github.com/muurk/xmlconfig/internal/logging"
	"github.com/muurk/xmlconfig/internal/screens"
	"github.com/muurk/xmlconfig/internal/ui"
	"github.com/muurk/xmlconfig/internal/watch"
	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// newOverviewCmd launches the interactive overview
func newOverviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Launch the interactive overview",
		Long: `Launch an interactive overview of the bookmarks in the XML file.

The overview provides:
- Adding, editing and deleting bookmarks
- Exporting a selection of bookmarks to another file
- Importing bookmarks from another file
- A warning when the file is changed by another program

Changes are written to the file when you save with s.`,
		Example: `  # Open the file named in the settings
  xmlconfig overview
  # Or simply (overview is default):
  xmlconfig

  # Open a specific file
  xmlconfig --file ~/bookmarks.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverview(cmd, opts)
		},
	}
}

func runOverview(cmd *cobra.Command, opts *options) error {
	e, err := opts.load()
	if err != nil {
		return err
	}
	defer logging.Sync()

	model := screens.NewOverview(e.support, bookmarks.Form{Words: e.settings.BoolStrings()}, screens.OverviewOptions{
		LastDir:          e.settings.LastXMLDir,
		OnLastDirChanged: e.rememberDir,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	w, err := watch.New(e.xmlPath, e.log, func(path string) {
		p.Send(screens.FileChangedMsg{Path: path})
	})
	if err != nil {
		e.log.Warn("Not watching file for external changes", zap.Error(err))
	} else {
		defer w.Close()
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("overview error: %w", err)
	}

	if m, ok := final.(screens.OverviewModel[*bookmarks.Bookmark]); ok && m.Saved() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s saved to %s\n", bookmarks.Nouns.Count(e.support.Len()), e.xmlPath)
	}
	return nil
}

// newListCmd prints the bookmarks of the XML file
func newListCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Example: `  xmlconfig list
  xmlconfig list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if err := e.read(); err != nil {
				return err
			}

			all := e.support.SortedByName()
			switch format {
			case "json":
				return printJSON(cmd, all)
			case "table", "":
			default:
				return fmt.Errorf("unknown format %q (use table or json)", format)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintHeader("Bookmarks", "xmlconfig list", ui.Detail{Key: "File", Value: e.xmlPath})
			if len(all) == 0 {
				p.PrintWarning("No bookmarks yet", ui.Detail{Key: "Hint", Value: "xmlconfig add <name> <location>"})
				return nil
			}

			words := e.settings.BoolStrings()
			table := ui.NewTable("NAME", "ENABLED", "LOCATION")
			for _, b := range all {
				table.AddRow(!b.Active, b.Label, words.Format(b.Active), b.Location)
			}
			p.PrintTable(table)
			p.Println(bookmarks.Nouns.Count(len(all)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")
	return cmd
}

type bookmarkJSON struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Enabled  bool   `json:"enabled"`
}

func printJSON(cmd *cobra.Command, all []*bookmarks.Bookmark) error {
	out := make([]bookmarkJSON, 0, len(all))
	for _, b := range all {
		out = append(out, bookmarkJSON{Name: b.Label, Location: b.Location, Enabled: b.Active})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// newAddCmd adds or replaces one bookmark and saves the file
func newAddCmd(opts *options) *cobra.Command {
	var disabled, overwrite bool

	cmd := &cobra.Command{
		Use:   "add <name> <location>",
		Short: "Add a bookmark",
		Example: `  xmlconfig add Movies /media/hdd/movie

  # Replace an existing bookmark
  xmlconfig add Movies /media/usb/movie --overwrite`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if err := e.read(); err != nil {
				return err
			}

			b := bookmarks.New(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
			b.Active = !disabled
			if msg := b.Validate(); msg != "" {
				return errors.New(msg)
			}

			existing, exists := e.support.Get(b.Key())
			if exists && !overwrite {
				return fmt.Errorf("bookmark %q already exists (use --overwrite to replace it)", b.Label)
			}

			var outcome xmlconfig.CommitOutcome[*bookmarks.Bookmark]
			e.support.AddObject(nil, xmlconfig.EditRequest[*bookmarks.Bookmark]{
				Existing:    b,
				Updating:    exists,
				WriteToDisk: true,
			}, func(o xmlconfig.CommitOutcome[*bookmarks.Bookmark]) { outcome = o })
			if outcome.Err != nil {
				return fmt.Errorf("failed to save %s: %w", e.xmlPath, outcome.Err)
			}

			title := fmt.Sprintf("Bookmark %q added", b.Label)
			if exists {
				title = fmt.Sprintf("Bookmark %q replaced", b.Label)
			}
			result := ui.NewSuccessResult(title, ui.Detail{Key: "Location", Value: b.Location})
			if exists && existing.Location != b.Location {
				result.AddDetail("Was", existing.Location)
			}
			result.AddDetail("File", e.xmlPath)
			ui.NewPrinter(cmd.OutOrStdout()).Println(result.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&disabled, "disabled", false, "Add the bookmark switched off")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace a bookmark with the same name")
	return cmd
}

// newRemoveCmd deletes bookmarks and saves the file
func newRemoveCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <name>...",
		Aliases: []string{"rm"},
		Short:   "Remove bookmarks",
		Example: `  xmlconfig remove Movies
  xmlconfig remove Movies Music --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if err := e.read(); err != nil {
				return err
			}

			for _, name := range args {
				if !e.support.Exists(name) {
					return fmt.Errorf("bookmark %q not found", name)
				}
			}

			question := fmt.Sprintf("Do you really want to delete %s?", quoteAll(args))
			if !yes && !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question, false) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing removed.")
				return nil
			}

			for _, name := range args {
				e.support.Remove(name)
			}
			if err := e.support.WriteXML(xmlconfig.WriteOptions[*bookmarks.Bookmark]{}); err != nil {
				return fmt.Errorf("failed to save %s: %w", e.xmlPath, err)
			}

			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(
				fmt.Sprintf("%s removed", bookmarks.Nouns.Count(len(args))),
				ui.Detail{Key: "File", Value: e.xmlPath},
			)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}

// keySelector picks objects by key; without keys everything preselected is chosen
type keySelector struct {
	keys    []string
	missing []string
}

// OpenSelector implements xmlconfig.Selector
func (s *keySelector) OpenSelector(available, preselected []*bookmarks.Bookmark, done func([]*bookmarks.Bookmark)) {
	if len(s.keys) == 0 {
		done(preselected)
		return
	}

	chosen := make([]*bookmarks.Bookmark, 0, len(s.keys))
	for _, key := range s.keys {
		i := slices.IndexFunc(available, func(b *bookmarks.Bookmark) bool { return b.Key() == key })
		if i < 0 {
			s.missing = append(s.missing, key)
			continue
		}
		chosen = append(chosen, available[i])
	}
	done(chosen)
}

// newExportCmd writes a selection of bookmarks to another file
func newExportCmd(opts *options) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export bookmarks to another XML file",
		Long: `Export all or selected bookmarks to another XML file.

Without a file name the export is written to <name>_YYYYMMDD_HHMMSS.xml in
the directory of the last import or export.`,
		Example: `  xmlconfig export
  xmlconfig export ~/backup.xml --key Movies --key Music`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if err := e.read(); err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = screens.ExpandHome(args[0])
			} else {
				path = filepath.Join(e.lastDir(), xmlconfig.ExportFileName(e.xmlPath, time.Now()))
			}

			selector := &keySelector{keys: keys}
			var chosen []*bookmarks.Bookmark
			e.support.Select(selector, func(objs []*bookmarks.Bookmark) { chosen = objs })
			if len(selector.missing) > 0 {
				return fmt.Errorf("bookmark %s not found", quoteAll(selector.missing))
			}

			count, err := e.support.Export(path, chosen)
			if errors.Is(err, xmlconfig.ErrEmptySelection) {
				return fmt.Errorf("there are no bookmarks to export")
			}
			if err != nil {
				return fmt.Errorf("the configuration couldn't be written: %w", err)
			}

			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			e.rememberDir(filepath.Dir(path))

			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(
				fmt.Sprintf("%s saved", bookmarks.Nouns.Count(count)),
				ui.Detail{Key: "File", Value: path},
			)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "Export only this bookmark (repeatable)")
	return cmd
}

// newImportCmd merges bookmarks from another file and saves the result
func newImportCmd(opts *options) *cobra.Command {
	var keep, overwrite, yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import bookmarks from another XML file",
		Long: `Import the bookmarks of another XML file.

When the file already holds bookmarks you are asked whether to keep them
and, if some names collide, whether the imported bookmarks replace them.
--keep and --overwrite answer these questions in advance; --yes takes the
defaults (keep existing, do not replace).`,
		Example: `  xmlconfig import ~/backup.xml
  xmlconfig import ~/backup.xml --keep --overwrite
  xmlconfig import ~/backup.xml --keep=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if err := e.read(); err != nil {
				return err
			}

			src := screens.ExpandHome(args[0])
			if screens.IsHelpFile(src) {
				return fmt.Errorf("%s is a help file and cannot be imported", filepath.Base(src))
			}

			objects, err := e.support.ParseFile(src)
			if errors.Is(err, xmlconfig.ErrNoData) || (err == nil && len(objects) == 0) {
				fmt.Fprintln(cmd.OutOrStdout(), "There are no (new) entries in the configuration!")
				return nil
			}
			if err != nil {
				return fmt.Errorf("the configuration couldn't be loaded: %w", err)
			}

			in, out := cmd.InOrStdin(), cmd.OutOrStdout()
			session := e.support.BeginImport(objects, src)
			for session.Step() != xmlconfig.StepReady {
				switch session.Step() {
				case xmlconfig.StepAskKeep:
					answer := true
					switch {
					case cmd.Flags().Changed("keep"):
						answer = keep
					case !yes:
						answer = ui.Confirm(in, out, "Do you want to keep the existing entries?", true)
					}
					session.AnswerKeep(answer)

				case xmlconfig.StepAskOverwrite:
					answer := false
					switch {
					case cmd.Flags().Changed("overwrite"):
						answer = overwrite
					case !yes:
						answer = ui.Confirm(in, out, fmt.Sprintf(
							"Do you want to overwrite the entries with similar name (%s)?",
							strings.Join(session.Collisions(), ", ")), false)
					}
					session.AnswerOverwrite(answer)

				default:
					return fmt.Errorf("unexpected import step %s", session.Step())
				}
			}

			count := session.Apply()
			if err := e.support.WriteXML(xmlconfig.WriteOptions[*bookmarks.Bookmark]{}); err != nil {
				return fmt.Errorf("failed to save %s: %w", e.xmlPath, err)
			}

			if abs, err := filepath.Abs(src); err == nil {
				src = abs
			}
			e.rememberDir(filepath.Dir(src))

			ui.NewPrinter(out).PrintSuccess(
				fmt.Sprintf("%s loaded", bookmarks.Nouns.Count(count)),
				ui.Detail{Key: "From", Value: src},
				ui.Detail{Key: "File", Value: e.xmlPath},
				ui.Detail{Key: "Total", Value: bookmarks.Nouns.Count(e.support.Len())},
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", true, "Keep the existing bookmarks")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing bookmarks with the same name")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask, take the defaults")
	return cmd
}

// newInitCmd writes default settings and an empty XML file
func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the settings file and an empty XML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer logging.Sync()

			p := ui.NewPrinter(cmd.OutOrStdout())
			result := ui.NewSuccessResult("xmlconfig is ready")

			created, err := config.CreateDefaultConfig(e.settingsPath)
			if err != nil {
				return fmt.Errorf("failed to create settings: %w", err)
			}
			result.AddDetail("Settings", describe(e.settingsPath, created))

			created = false
			if _, err := os.Stat(e.xmlPath); errors.Is(err, os.ErrNotExist) {
				empty := []*bookmarks.Bookmark{}
				if err := e.support.WriteXML(xmlconfig.WriteOptions[*bookmarks.Bookmark]{Objects: empty}); err != nil {
					return fmt.Errorf("failed to create %s: %w", e.xmlPath, err)
				}
				created = true
			}
			result.AddDetail("XML file", describe(e.xmlPath, created))

			p.Println(result.SetWidth(p.Width()).Render())
			return nil
		},
	}
}

func describe(path string, created bool) string {
	if created {
		return path + " (created)"
	}
	return path + " (exists)"
}

// Package screens implements the interactive Bubble Tea interface for editing
// a configuration file managed by xmlconfig.
//
// # Screens
//
// The OverviewModel is the root model. It lists the objects of one file and
// owns every other screen as a sub-model:
//
//   - EditorModel: form for one object, built from a Form definition
//   - SelectorModel: multi-select list used by import and export
//   - FilePickerModel: chooses the XML file to import
//   - LocationModel: asks where an export is written
//   - ConfirmModel and MessageModel: yes/no questions and result boxes
//
// Sub-models report completion through Done and hand their result back to
// the overview, which then drives the xmlconfig sessions (EditSession,
// ImportSession) with it.
//
// # Locking
//
// While the overview is open it holds the write-forbidden lock on the
// canonical file. Saving from the overview forces the write; closing releases
// the lock.
//
// # Usage
//
//	support := bookmarks.NewSupport(path, words, log, xmlconfig.Hooks[*bookmarks.Bookmark]{})
//	model := screens.NewOverview(support, bookmarks.Form{Words: words}, screens.OverviewOptions{})
//	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package screens

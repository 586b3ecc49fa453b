package screens

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// FileChangedMsg reports that the canonical file was modified by another process
type FileChangedMsg struct {
	Path string
}

// Describer is implemented by objects with a second line for the overview list
type Describer interface {
	Description() string
}

// overviewMode is the sub-screen currently receiving input
type overviewMode int

const (
	modeList overviewMode = iota
	modeEditor
	modeSelector
	modeConfirm
	modeMessage
	modeMenu
	modeHelp
	modePicker
	modeLocation
)

// pendingAction is what a confirmed question triggers
type pendingAction int

const (
	actNone pendingAction = iota
	actDelete
	actDiscardClose
	actDiscardReload
	actSaveBeforeExport
	actImportKeep
	actImportOverwrite
)

// selectPurpose tells what the selector result is used for
type selectPurpose int

const (
	selectForExport selectPurpose = iota
	selectForImport
)

type menuAction int

const (
	menuExport menuAction = iota
	menuImport
	menuHelp
)

type menuEntry struct {
	label  string
	action menuAction
}

// overviewItem wraps a config object for use with bubbles/list
type overviewItem struct {
	key     string
	name    string
	desc    string
	enabled bool
}

// FilterValue implements list.Item
func (i overviewItem) FilterValue() string { return i.name }

// overviewDelegate renders a two-line entry: name and description
type overviewDelegate struct{}

func (d overviewDelegate) Height() int { return 2 }

func (d overviewDelegate) Spacing() int { return 0 }

func (d overviewDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d overviewDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(overviewItem)
	if !ok {
		return
	}

	name := it.name
	if !it.enabled {
		name += " (disabled)"
	}
	line := RenderMenuItem(name, index == m.Index())
	if !it.enabled && index != m.Index() {
		line = MenuItemStyle.Render(DisabledItemStyle.Render(name))
	}
	fmt.Fprintf(w, "%s\n%s", line, MenuItemStyle.Render(SubtitleStyle.Render(it.desc)))
}

// OverviewOptions configure the overview screen.
type OverviewOptions struct {
	// LastDir is where import and export dialogs start
	LastDir string
	// OnLastDirChanged is called when an import or export used another directory
	OnLastDirChanged func(dir string)
	// Now is the clock for export file names (nil: time.Now)
	Now func() time.Time
}

// OverviewModel lists the config objects of one file and drives editing,
// deleting, import and export. It holds the write-forbidden lock on the file
// while open.
type OverviewModel[T xmlconfig.Object] struct {
	support *xmlconfig.Support[T]
	form    Form[T]
	opts    OverviewOptions
	nouns   xmlconfig.Nouns

	mode       overviewMode
	list       list.Model
	editor     EditorModel[T]
	edit       *xmlconfig.EditSession[T]
	selector   SelectorModel[T]
	purpose    selectPurpose
	confirm    ConfirmModel
	action     pendingAction
	message    MessageModel
	picker     FilePickerModel
	location   LocationModel
	menu       []menuEntry
	menuCursor int

	pendingDelete string
	importSource  string
	importSession *xmlconfig.ImportSession[T]
	exportObjects []T

	status      string
	fileChanged bool
	closed      bool
	saved       bool

	width  int
	height int
	keys   overviewKeyMap
	help   help.Model
}

// NewOverview opens the overview for support. It locks writes to the
// canonical file until the overview is closed.
func NewOverview[T xmlconfig.Object](support *xmlconfig.Support[T], form Form[T], opts OverviewOptions) OverviewModel[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	nouns := support.Nouns()

	m := OverviewModel[T]{
		support: support,
		form:    form,
		opts:    opts,
		nouns:   nouns,
		keys:    newOverviewKeyMap(),
		help:    help.New(),
		menu: []menuEntry{
			{label: fmt.Sprintf("Export %s configuration", nouns.Plural), action: menuExport},
			{label: fmt.Sprintf("Import %s configuration", nouns.Plural), action: menuImport},
			{label: "Show help", action: menuHelp},
		},
	}

	support.SetWriteForbidden(true)
	if _, err := support.ReadXML(xmlconfig.ReadOptions[T]{}); err != nil && !errors.Is(err, xmlconfig.ErrNoData) {
		m.status = fmt.Sprintf("Could not load %s: %v", support.Path(), err)
	}

	l := list.New(nil, overviewDelegate{}, DefaultWidth-6, DefaultHeight-8)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.SetStatusBarItemName(nouns.Singular, nouns.Plural)
	m.list = l
	m.refresh("")
	return m
}

// Init implements tea.Model
func (m OverviewModel[T]) Init() tea.Cmd { return nil }

// Closed reports whether the overview was closed
func (m OverviewModel[T]) Closed() bool { return m.closed }

// Saved reports whether the overview was closed with a save
func (m OverviewModel[T]) Saved() bool { return m.saved }

// Status returns the message shown below the list
func (m OverviewModel[T]) Status() string { return m.status }

// Current returns the highlighted object
func (m OverviewModel[T]) Current() (T, bool) {
	var zero T
	it, ok := m.list.SelectedItem().(overviewItem)
	if !ok {
		return zero, false
	}
	return m.support.Get(it.key)
}

// refresh rebuilds the list from the registry and highlights selectKey
func (m *OverviewModel[T]) refresh(selectKey string) {
	objects := m.support.SortedByName()
	items := make([]list.Item, 0, len(objects))
	selectIdx := -1
	for i, obj := range objects {
		it := overviewItem{
			key:     obj.Key(),
			name:    displayName(obj),
			enabled: isEnabled(obj),
		}
		if d, ok := any(obj).(Describer); ok {
			it.desc = d.Description()
		}
		if it.key == selectKey {
			selectIdx = i
		}
		items = append(items, it)
	}
	m.list.SetItems(items)
	if selectIdx >= 0 {
		m.list.Select(selectIdx)
	} else if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// Update routes input to the active sub-screen
func (m OverviewModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := screenSize(msg.Width, msg.Height)
		m.list.SetSize(w-6, h-8)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.discard()
			return m.close(false)
		}

	case FileChangedMsg:
		// Our own saves also trigger events; only a file that differs from
		// what was loaded counts
		if filepath.Clean(msg.Path) == filepath.Clean(m.support.Path()) && m.support.Stale() {
			m.fileChanged = true
		}
		return m, nil
	}

	switch m.mode {
	case modeEditor:
		return m.updateEditor(msg)
	case modeSelector:
		return m.updateSelector(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeMessage:
		return m.updateMessage(msg)
	case modeMenu:
		return m.updateMenu(msg)
	case modeHelp:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.mode = modeList
		}
		return m, nil
	case modePicker:
		return m.updatePicker(msg)
	case modeLocation:
		return m.updateLocation(msg)
	}
	return m.updateList(msg)
}

func (m OverviewModel[T]) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Edit):
		if cur, ok := m.Current(); ok {
			return m.openEditor(cur, true)
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Add):
		var zero T
		return m.openEditor(zero, false)

	case key.Matches(keyMsg, m.keys.Delete):
		if cur, ok := m.Current(); ok {
			m.pendingDelete = cur.Key()
			return m.ask(actDelete, NewConfirm("Delete?",
				fmt.Sprintf("Do you really want to delete %q?", displayName(cur)), true))
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Save):
		return m.save()

	case key.Matches(keyMsg, m.keys.Reload):
		if m.support.Dirty() {
			return m.ask(actDiscardReload, NewConfirm("Reload?",
				fmt.Sprintf("Discard your changes and reload %s from disk?", m.nouns.PluralArticle), false))
		}
		m.reload()
		return m, nil

	case key.Matches(keyMsg, m.keys.Menu):
		m.mode = modeMenu
		m.menuCursor = 0
		return m, nil

	case key.Matches(keyMsg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(keyMsg, m.keys.Close):
		if m.support.Dirty() {
			return m.ask(actDiscardClose, NewConfirm("Close without saving?",
				fmt.Sprintf("Really close without saving %s?", m.nouns.PluralArticle), true))
		}
		return m.close(false)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ask shows a question; the answer is handled by updateConfirm
func (m OverviewModel[T]) ask(action pendingAction, confirm ConfirmModel) (tea.Model, tea.Cmd) {
	m.mode = modeConfirm
	m.action = action
	m.confirm = confirm
	return m, nil
}

// show displays a message box
func (m OverviewModel[T]) show(message MessageModel) (tea.Model, tea.Cmd) {
	m.mode = modeMessage
	m.message = message
	return m, nil
}

func (m OverviewModel[T]) openEditor(obj T, updating bool) (tea.Model, tea.Cmd) {
	m.edit = m.support.BeginEdit(xmlconfig.EditRequest[T]{
		Existing: obj,
		Updating: updating,
	})
	m.editor = NewEditor(m.form, obj, updating, EditorOptions{
		Nouns:   m.nouns,
		Subject: m.support.Path(),
		Exists:  m.support.Exists,
	})
	m.editor, _ = m.editor.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.mode = modeEditor
	return m, m.editor.Init()
}

func (m OverviewModel[T]) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if !m.editor.Done() {
		return m, cmd
	}

	outcome := m.edit.Finish(m.editor.Result())
	m.edit = nil
	m.mode = modeList
	if outcome.Cancelled {
		return m, nil
	}
	m.refresh(outcome.Object.Key())
	if outcome.Err != nil {
		return m.show(NewErrorMessage("Save failed", outcome.Err.Error()))
	}
	return m, nil
}

func (m OverviewModel[T]) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if !m.confirm.Answered() {
		return m, cmd
	}

	yes := m.confirm.Answer()
	action := m.action
	m.action = actNone
	m.mode = modeList

	switch action {
	case actDelete:
		if yes {
			m.support.Remove(m.pendingDelete)
			m.support.MarkDirty(true)
			m.refresh("")
		}
		m.pendingDelete = ""

	case actDiscardClose:
		if yes {
			m.discard()
			return m.close(false)
		}

	case actDiscardReload:
		if yes {
			m.reload()
		}

	case actSaveBeforeExport:
		if yes {
			if err := m.support.WriteXML(xmlconfig.WriteOptions[T]{Force: true}); err != nil {
				return m.show(NewErrorMessage("Export configuration", "The configuration couldn't be written!\n\n"+err.Error()))
			}
		}
		return m.selectForExport()

	case actImportKeep:
		m.importSession.AnswerKeep(yes)
		return m.continueImport()

	case actImportOverwrite:
		m.importSession.AnswerOverwrite(yes)
		return m.continueImport()
	}
	return m, cmd
}

func (m OverviewModel[T]) updateMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.message, cmd = m.message.Update(msg)
	if m.message.Closed() {
		m.mode = modeList
	}
	return m, cmd
}

func (m OverviewModel[T]) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.menuCursor = (m.menuCursor - 1 + len(m.menu)) % len(m.menu)
	case "down", "j":
		m.menuCursor = (m.menuCursor + 1) % len(m.menu)
	case "esc", "m", "q":
		m.mode = modeList
	case "1", "2", "3":
		m.menuCursor = int(keyMsg.String()[0] - '1')
		return m.runMenu(m.menu[m.menuCursor].action)
	case "enter", " ":
		return m.runMenu(m.menu[m.menuCursor].action)
	}
	return m, nil
}

func (m OverviewModel[T]) runMenu(action menuAction) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch action {
	case menuExport:
		return m.startExport()
	case menuImport:
		return m.startImport()
	case menuHelp:
		m.mode = modeHelp
	}
	return m, nil
}

// startExport asks to save pending changes before choosing what to export
func (m OverviewModel[T]) startExport() (tea.Model, tea.Cmd) {
	if m.support.Dirty() {
		return m.ask(actSaveBeforeExport, NewConfirm("Unsaved changes",
			fmt.Sprintf("There are unsaved changes, do you want to save %s before exporting?", m.nouns.PluralArticle), true))
	}
	return m.selectForExport()
}

func (m OverviewModel[T]) selectForExport() (tea.Model, tea.Cmd) {
	all := m.support.SortedByName()
	if len(all) == 0 {
		return m.show(NewMessage("Export configuration", fmt.Sprintf("There are no %s to export.", m.nouns.Plural)))
	}
	return m.openSelector(selectForExport, all, fmt.Sprintf("Select %s for export ...", m.nouns.Plural))
}

func (m OverviewModel[T]) openSelector(purpose selectPurpose, objects []T, title string) (tea.Model, tea.Cmd) {
	m.selector = NewSelector(objects, objects, SelectorOptions{
		Title:   title,
		Subject: m.support.Path(),
		Filter:  true,
	})
	m.selector, _ = m.selector.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.purpose = purpose
	m.mode = modeSelector
	return m, nil
}

func (m OverviewModel[T]) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	if !m.selector.Done() {
		return m, cmd
	}

	m.mode = modeList
	chosen := m.selector.Result()
	if chosen == nil {
		m.importSource = ""
		return m, nil
	}

	switch m.purpose {
	case selectForExport:
		if len(chosen) == 0 {
			return m.show(NewMessage("Export configuration", fmt.Sprintf("No %s selected, nothing exported.", m.nouns.Plural)))
		}
		m.exportObjects = chosen
		name := xmlconfig.ExportFileName(m.support.Path(), m.opts.Now())
		m.location = NewLocation("Select export location", m.support.Path(), filepath.Join(m.lastDir(), name))
		m.location, _ = m.location.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.mode = modeLocation
		return m, m.location.Init()

	case selectForImport:
		if len(chosen) == 0 {
			return m, nil
		}
		m.importSession = m.support.BeginImport(chosen, m.importSource)
		m.importSource = ""
		return m.continueImport()
	}
	return m, cmd
}

func (m OverviewModel[T]) updateLocation(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.location, cmd = m.location.Update(msg)
	if !m.location.Done() {
		return m, cmd
	}

	m.mode = modeList
	path := m.location.Path()
	objects := m.exportObjects
	m.exportObjects = nil
	if path == "" {
		return m, nil
	}

	count, err := m.support.Export(path, objects)
	if err != nil {
		return m.show(NewErrorMessage("Export configuration", "The configuration couldn't be written!\n\n"+err.Error()))
	}
	m.rememberDir(filepath.Dir(path))
	return m.show(NewMessage("Export configuration", fmt.Sprintf("%s saved to %q", m.nouns.Count(count), path)))
}

func (m OverviewModel[T]) startImport() (tea.Model, tea.Cmd) {
	m.picker = NewFilePicker(fmt.Sprintf("Import %s", m.nouns.Plural), m.support.Path(), m.lastDir())
	m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.mode = modePicker
	return m, m.picker.Init()
}

func (m OverviewModel[T]) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if !m.picker.Done() {
		return m, cmd
	}

	m.mode = modeList
	path := m.picker.Path()
	if path == "" {
		return m, nil
	}
	m.rememberDir(filepath.Dir(path))
	return m.loadImport(path)
}

// loadImport parses path and lets the user choose what to import from it
func (m OverviewModel[T]) loadImport(path string) (tea.Model, tea.Cmd) {
	objects, err := m.support.ParseFile(path)
	switch {
	case errors.Is(err, xmlconfig.ErrNoData) || (err == nil && len(objects) == 0):
		return m.show(NewMessage("Configuration import", "There are no (new) entries in the configuration!"))
	case err != nil:
		return m.show(NewErrorMessage("Configuration import", "The configuration couldn't be loaded!\n\n"+err.Error()))
	}

	m.importSource = path
	return m.openSelector(selectForImport, objects, fmt.Sprintf("Select %s for import ...", m.nouns.Plural))
}

// continueImport asks the next import question or applies the import
func (m OverviewModel[T]) continueImport() (tea.Model, tea.Cmd) {
	session := m.importSession
	switch session.Step() {
	case xmlconfig.StepAskKeep:
		return m.ask(actImportKeep, NewConfirm("Add or overwrite configuration?",
			"Do you want to keep the existing entries?", true))

	case xmlconfig.StepAskOverwrite:
		return m.ask(actImportOverwrite, NewConfirm("Overwrite entries?",
			fmt.Sprintf("Do you want to overwrite the entries with similar name?\n"+
				"If you choose no, the matching %s of the file will not be added.\n\n%s",
				m.nouns.Plural, strings.Join(session.Collisions(), ", ")), false))

	case xmlconfig.StepReady:
		count := session.Apply()
		m.importSession = nil
		m.refresh("")
		return m.show(NewMessage("Configuration import",
			fmt.Sprintf("%s loaded from %q!", m.nouns.Count(count), session.Source())))
	}

	m.importSession = nil
	return m, nil
}

// save writes the registry and closes the overview
func (m OverviewModel[T]) save() (tea.Model, tea.Cmd) {
	if err := m.support.WriteXML(xmlconfig.WriteOptions[T]{Force: true}); err != nil {
		return m.show(NewErrorMessage("Save failed", "The configuration couldn't be written!\n\n"+err.Error()))
	}
	return m.close(true)
}

// reload throws away in-memory changes and re-reads the file
func (m *OverviewModel[T]) reload() {
	m.fileChanged = false
	m.status = ""
	if err := m.support.Discard(); err != nil {
		m.status = fmt.Sprintf("Could not reload %s: %v", m.support.Path(), err)
	}
	m.refresh("")
}

// discard drops unsaved changes so they are never flushed later
func (m *OverviewModel[T]) discard() {
	if !m.support.Dirty() {
		return
	}
	if err := m.support.Discard(); err != nil {
		m.support.Logger().Warn("Could not reload file after discarding changes",
			zap.String("path", m.support.Path()),
			zap.Error(err),
		)
	}
}

func (m OverviewModel[T]) close(saved bool) (tea.Model, tea.Cmd) {
	m.support.SetWriteForbidden(false)
	m.closed = true
	m.saved = saved
	return m, tea.Quit
}

// lastDir is where file dialogs start: the remembered directory if it still
// exists, else the directory of the canonical file
func (m OverviewModel[T]) lastDir() string {
	if m.opts.LastDir != "" {
		if info, err := os.Stat(m.opts.LastDir); err == nil && info.IsDir() {
			return m.opts.LastDir
		}
	}
	return filepath.Dir(m.support.Path())
}

func (m *OverviewModel[T]) rememberDir(dir string) {
	if dir == m.opts.LastDir {
		return
	}
	m.opts.LastDir = dir
	if m.opts.OnLastDirChanged != nil {
		m.opts.OnLastDirChanged(dir)
	}
}

// View renders the active sub-screen
func (m OverviewModel[T]) View() string {
	switch m.mode {
	case modeEditor:
		return m.editor.View()
	case modeSelector:
		return m.selector.View()
	case modePicker:
		return m.picker.View()
	case modeLocation:
		return m.location.View()
	case modeConfirm:
		return RenderModal(m.confirm.View(m.width), m.width, m.height)
	case modeMessage:
		return RenderModal(m.message.View(m.width), m.width, m.height)
	case modeMenu:
		return RenderModal(m.renderMenu(), m.width, m.height)
	case modeHelp:
		return RenderModal(m.renderHelp(), m.width, m.height)
	}
	return RenderApplicationContainer(m.support.Path(), m.buildContent(), m.help.View(m.keys), m.width, m.height)
}

func (m OverviewModel[T]) buildContent() string {
	title := fmt.Sprintf("%s (%d)", capitalize(m.nouns.Plural), m.support.Len())
	parts := []string{RenderTitle(title)}

	if m.support.Len() == 0 {
		parts = append(parts, SubtitleStyle.Render(fmt.Sprintf("No %s yet. Press a to add one.", m.nouns.Plural)))
	} else {
		parts = append(parts, m.list.View())
	}

	if m.support.Dirty() {
		parts = append(parts, WarningTextStyle.Render("• unsaved changes"))
	}
	if m.fileChanged {
		parts = append(parts, WarningTextStyle.Render("⚠ The file was changed on disk. Press r to reload."))
	}
	if m.status != "" {
		parts = append(parts, ErrorTextStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m OverviewModel[T]) renderMenu() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Menu"))
	b.WriteString("\n")
	for i, entry := range m.menu {
		b.WriteString(RenderMenuItem(fmt.Sprintf("%d  %s", i+1, entry.label), i == m.menuCursor))
		b.WriteString("\n")
	}
	return ModalStyle.Width(SafeModalWidth(DefaultModalWidth, m.width)).Render(b.String())
}

func (m OverviewModel[T]) renderHelp() string {
	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("Help"),
		fmt.Sprintf("Changes to %s are kept in memory until you save with s.", m.nouns.PluralArticle),
		"Closing with esc asks before discarding them.",
		"",
		h.View(m.keys),
		"",
		SubtitleStyle.Render("Press any key to close"),
	)
	return ModalStyle.Width(SafeModalWidth(DefaultModalWidth, m.width)).Render(content)
}

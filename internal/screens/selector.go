package screens

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// selectItem wraps a config object for use with bubbles/list
type selectItem struct {
	key     string
	name    string
	enabled bool
}

// FilterValue implements list.Item
func (i selectItem) FilterValue() string { return i.name }

// selectDelegate renders one checkbox row
type selectDelegate struct {
	selected map[string]bool
}

func (d selectDelegate) Height() int { return 1 }

func (d selectDelegate) Spacing() int { return 0 }

func (d selectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d selectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(selectItem)
	if !ok {
		return
	}

	box := "[ ]"
	if d.selected[it.key] {
		box = "[x]"
	}
	name := it.name
	if !it.enabled {
		name = DisabledItemStyle.Render(name)
	}
	fmt.Fprint(w, RenderMenuItem(box+" "+name, index == m.Index()))
}

// SelectorModel lets the user pick a subset of config objects.
type SelectorModel[T xmlconfig.Object] struct {
	title        string
	subject      string
	available    []T // sorted by name
	byKey        map[string]T
	selected     map[string]bool
	allSelected  bool
	showDisabled bool
	canFilter    bool

	list   list.Model
	done   bool
	result []T

	width  int
	height int
	keys   selectorKeyMap
	help   help.Model
}

// SelectorOptions configure a selector screen.
type SelectorOptions struct {
	Title   string
	Subject string
	// Filter enables the key that hides disabled objects
	Filter bool
}

// NewSelector creates a selector over available with preselected checked.
func NewSelector[T xmlconfig.Object](available, preselected []T, opts SelectorOptions) SelectorModel[T] {
	sorted := xmlconfig.SortByName(nil, available)
	m := SelectorModel[T]{
		title:        opts.Title,
		subject:      opts.Subject,
		available:    sorted,
		byKey:        make(map[string]T, len(sorted)),
		selected:     make(map[string]bool),
		showDisabled: true,
		canFilter:    opts.Filter,
		keys:         newSelectorKeyMap(),
		help:         help.New(),
	}
	for _, obj := range sorted {
		m.byKey[obj.Key()] = obj
	}
	for _, obj := range preselected {
		if _, ok := m.byKey[obj.Key()]; ok {
			m.selected[obj.Key()] = true
		}
	}
	m.allSelected = len(sorted) > 0 && len(m.selected) == len(sorted)
	m.keys.Filter.SetEnabled(opts.Filter)

	l := list.New(nil, selectDelegate{selected: m.selected}, DefaultWidth, DefaultHeight-8)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	m.list = l
	m.refresh()
	return m
}

// Init implements tea.Model
func (m SelectorModel[T]) Init() tea.Cmd { return nil }

// Done reports whether the selection was accepted or cancelled
func (m SelectorModel[T]) Done() bool { return m.done }

// Result returns the chosen objects in name order, nil when cancelled
func (m SelectorModel[T]) Result() []T { return m.result }

// Selected returns the keys currently checked, in list order
func (m SelectorModel[T]) Selected() []string {
	var keys []string
	for _, obj := range m.available {
		if m.selected[obj.Key()] {
			keys = append(keys, obj.Key())
		}
	}
	return keys
}

// refresh rebuilds the visible rows
func (m *SelectorModel[T]) refresh() {
	items := make([]list.Item, 0, len(m.available))
	for _, obj := range m.available {
		enabled := isEnabled(obj)
		if !m.showDisabled && !enabled {
			continue
		}
		items = append(items, selectItem{key: obj.Key(), name: displayName(obj), enabled: enabled})
	}
	m.list.SetItems(items)
}

// setAll checks or clears every visible object
func (m *SelectorModel[T]) setAll(selected bool) {
	for _, obj := range m.available {
		if !m.showDisabled && !isEnabled(obj) {
			continue
		}
		if selected {
			m.selected[obj.Key()] = true
		} else {
			delete(m.selected, obj.Key())
		}
	}
}

// toggleFilter hides disabled objects, dropping them from the selection, or
// shows them again, re-checking them when everything was selected
func (m *SelectorModel[T]) toggleFilter() {
	m.showDisabled = !m.showDisabled
	for _, obj := range m.available {
		if isEnabled(obj) {
			continue
		}
		if !m.showDisabled {
			delete(m.selected, obj.Key())
		} else if m.allSelected {
			m.selected[obj.Key()] = true
		}
	}
	m.refresh()
}

// Update handles input
func (m SelectorModel[T]) Update(msg tea.Msg) (SelectorModel[T], tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := screenSize(msg.Width, msg.Height)
		m.list.SetSize(w-6, h-8)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.done = true
			m.result = nil
			return m, nil

		case key.Matches(msg, m.keys.Accept):
			m.done = true
			m.result = make([]T, 0, len(m.selected))
			for _, k := range m.Selected() {
				m.result = append(m.result, m.byKey[k])
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if it, ok := m.list.SelectedItem().(selectItem); ok {
				m.allSelected = false
				if m.selected[it.key] {
					delete(m.selected, it.key)
				} else {
					m.selected[it.key] = true
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.All):
			m.allSelected = !m.allSelected
			m.setAll(m.allSelected)
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.toggleFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the selector
func (m SelectorModel[T]) View() string {
	status := fmt.Sprintf("%d of %d selected", len(m.selected), len(m.available))
	if m.canFilter && !m.showDisabled {
		status += " • disabled hidden"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle(m.title),
		m.list.View(),
		SubtitleStyle.Render(status),
	)
	return RenderApplicationContainer(m.subject, content, m.help.View(m.keys), m.width, m.height)
}

// isEnabled treats objects without an enabled flag as enabled
func isEnabled[T xmlconfig.Object](obj T) bool {
	if e, ok := any(obj).(xmlconfig.Enableable); ok {
		return e.Enabled()
	}
	return true
}

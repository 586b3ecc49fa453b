package bookmarks

import (
	"strings"

	"github.com/muurk/xmlconfig/internal/screens"
	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// Form describes the bookmark editor fields.
type Form struct {
	Words xmlconfig.BoolStrings
}

// Fields implements screens.Form
func (f Form) Fields(b *Bookmark, updating bool) []screens.Field {
	words := f.Words.OrDefault()
	if b == nil {
		b = &Bookmark{Active: true}
	}
	return []screens.Field{
		{
			Label:       "Name",
			Value:       b.Label,
			Placeholder: "Movies",
			Help:        "Name shown in menus. Must be unique.",
			CharLimit:   64,
		},
		{
			Label:       "Location",
			Value:       b.Location,
			Placeholder: "/media/hdd/movie",
			Help:        "Absolute path of the directory.",
		},
		{
			Label:   "Enabled",
			Value:   words.Format(b.Active),
			Help:    "Disabled bookmarks are kept but not shown in menus.",
			Choices: []string{words.True, words.False},
		},
	}
}

// Build implements screens.Form
func (f Form) Build(values []string) (*Bookmark, error) {
	words := f.Words.OrDefault()
	b := &Bookmark{Active: true}
	if len(values) > 0 {
		b.Label = strings.TrimSpace(values[0])
	}
	if len(values) > 1 {
		b.Location = strings.TrimSpace(values[1])
	}
	if len(values) > 2 {
		active, err := words.Parse(values[2])
		if err != nil {
			return nil, err
		}
		b.Active = active
	}
	return b, nil
}

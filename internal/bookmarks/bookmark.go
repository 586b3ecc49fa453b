package bookmarks

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

const (
	// RootTag is the document element of a bookmarks file
	RootTag = "bookmarks"
	// EntryTag is the element holding one bookmark
	EntryTag = "bookmark"
)

// Nouns names bookmarks in user-facing messages.
var Nouns = xmlconfig.Nouns{
	Singular:        "bookmark",
	SingularArticle: "the bookmark",
	Plural:          "bookmarks",
	PluralArticle:   "the bookmarks",
}

// Bookmark is a named shortcut to a media location.
// The label is unique and doubles as the key.
type Bookmark struct {
	Label    string // Display name and key
	Location string // Directory the bookmark points to
	Active   bool   // Shown in menus when true
}

// New creates an enabled bookmark.
func New(label, location string) *Bookmark {
	return &Bookmark{Label: label, Location: location, Active: true}
}

// Key implements xmlconfig.Object
func (b *Bookmark) Key() string { return b.Label }

// Name implements xmlconfig.Named
func (b *Bookmark) Name() string { return b.Label }

// Enabled implements xmlconfig.Enableable
func (b *Bookmark) Enabled() bool { return b.Active }

// Validate implements xmlconfig.Validator.
// Returns a message for the user, or "" when the bookmark can be saved.
func (b *Bookmark) Validate() string {
	var problems []string
	if strings.TrimSpace(b.Label) == "" {
		problems = append(problems, "name must not be empty")
	}
	if strings.TrimSpace(b.Location) == "" {
		problems = append(problems, "location must not be empty")
	} else if !strings.HasPrefix(b.Location, "/") {
		problems = append(problems, fmt.Sprintf("location %q must be an absolute path", b.Location))
	}
	if len(problems) == 0 {
		return ""
	}
	return "Invalid bookmark: " + strings.Join(problems, ", ")
}

// Description is shown below the name in the overview
func (b *Bookmark) Description() string { return b.Location }

// String returns a one-line description
func (b *Bookmark) String() string {
	state := "enabled"
	if !b.Active {
		state = "disabled"
	}
	return fmt.Sprintf("%s → %s (%s)", b.Label, b.Location, state)
}

// NewSupport binds a bookmark registry to the XML file at path.
func NewSupport(path string, words xmlconfig.BoolStrings, log *zap.Logger, hooks xmlconfig.Hooks[*Bookmark]) *xmlconfig.Support[*Bookmark] {
	return xmlconfig.New(xmlconfig.Options[*Bookmark]{
		Path:   path,
		Tag:    EntryTag,
		Codec:  NewCodec(words, log),
		Logger: log,
		Hooks:  hooks,
		Nouns:  Nouns,
	})
}

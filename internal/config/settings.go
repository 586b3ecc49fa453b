package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// CurrentVersion is the settings file format written by this build.
const CurrentVersion = 1

// Default values for a fresh settings file.
const (
	DefaultXMLFile   = "bookmarks.xml"
	DefaultBoolTrue  = "yes"
	DefaultBoolFalse = "no"
)

// Settings represents the entire application settings file.
type Settings struct {
	Version int `yaml:"version"`

	// XMLFile is the canonical XML file. Relative paths are resolved against
	// the settings directory.
	XMLFile string `yaml:"xml_file"`
	// LogLevel is used when neither --log-level nor XMLCONFIG_LOG_LEVEL is set
	LogLevel string `yaml:"log_level,omitempty"`

	BoolTrue  string `yaml:"bool_true"`  // XML word for true
	BoolFalse string `yaml:"bool_false"` // XML word for false

	// LastXMLDir is where the last import or export happened
	LastXMLDir string `yaml:"last_xml_dir,omitempty"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:   CurrentVersion,
		XMLFile:   DefaultXMLFile,
		BoolTrue:  DefaultBoolTrue,
		BoolFalse: DefaultBoolFalse,
	}
}

// applyDefaults fills fields a hand-edited file left empty.
func (s *Settings) applyDefaults() {
	if s.XMLFile == "" {
		s.XMLFile = DefaultXMLFile
	}
	if s.BoolTrue == "" || s.BoolFalse == "" {
		s.BoolTrue = DefaultBoolTrue
		s.BoolFalse = DefaultBoolFalse
	}
}

// Validate checks values that would make the XML file unreadable.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported settings version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if strings.ContainsAny(s.BoolTrue+s.BoolFalse, "\"<&") {
		return fmt.Errorf("bool_true and bool_false must not contain quotes, '<' or '&'")
	}
	if s.BoolTrue == s.BoolFalse {
		return fmt.Errorf("bool_true and bool_false must differ (both %q)", s.BoolTrue)
	}
	return nil
}

// BoolStrings returns the configured XML words for booleans.
func (s *Settings) BoolStrings() xmlconfig.BoolStrings {
	return xmlconfig.BoolStrings{True: s.BoolTrue, False: s.BoolFalse}.OrDefault()
}

// XMLPath returns the canonical XML file as an absolute path when possible.
// Relative paths are resolved against dir.
func (s *Settings) XMLPath(dir string) string {
	path := s.XMLFile
	if strings.HasPrefix(path, "~/") {
		if home, err := userHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	return path
}

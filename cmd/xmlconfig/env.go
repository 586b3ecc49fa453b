package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/muurk/xmlconfig/internal/bookmarks"
	"github.com/muurk/xmlconfig/internal/config"
	"github.com/muurk/xmlconfig/internal/logging"
	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// env is what every command works with: settings, logger and the bookmark
// registry bound to the XML file
type env struct {
	settings     *config.Settings
	settingsPath string
	xmlPath      string
	log          *zap.Logger
	support      *xmlconfig.Support[*bookmarks.Bookmark]
}

// load reads the settings, sets up logging and binds the XML file.
// The file itself is not read yet.
func (o *options) load() (*env, error) {
	settingsPath := o.configPath
	if settingsPath == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings path: %w", err)
		}
		settingsPath = p
	}

	settings, err := config.LoadFrom(settingsPath)
	if err != nil {
		return nil, err
	}

	level := o.logLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		level = settings.LogLevel
	}
	if err := logging.Initialize(level, o.logFile); err != nil {
		return nil, err
	}
	log := logging.GetLogger()

	xmlPath := o.xmlFile
	if xmlPath == "" {
		xmlPath = settings.XMLPath(filepath.Dir(settingsPath))
	}

	hooks := xmlconfig.Hooks[*bookmarks.Bookmark]{
		OnAdded: func(b *bookmarks.Bookmark, overwrite, writeToDisk bool) {
			log.Info("Bookmark stored",
				zap.String("name", b.Label),
				zap.Bool("updating", overwrite),
				zap.Bool("write_to_disk", writeToDisk),
			)
		},
		OnOverwritten: func(b, old *bookmarks.Bookmark) {
			log.Info("Bookmark renamed",
				zap.String("old_name", old.Label),
				zap.String("name", b.Label),
			)
		},
	}

	return &env{
		settings:     settings,
		settingsPath: settingsPath,
		xmlPath:      xmlPath,
		log:          log,
		support:      bookmarks.NewSupport(xmlPath, settings.BoolStrings(), log, hooks),
	}, nil
}

// read loads the XML file. A missing or empty file is an empty registry.
func (e *env) read() error {
	if _, err := e.support.ReadXML(xmlconfig.ReadOptions[*bookmarks.Bookmark]{}); err != nil && !errors.Is(err, xmlconfig.ErrNoData) {
		return fmt.Errorf("failed to load %s: %w", e.xmlPath, err)
	}
	return nil
}

// rememberDir stores dir as the last import/export directory
func (e *env) rememberDir(dir string) {
	if dir == e.settings.LastXMLDir {
		return
	}
	e.settings.LastXMLDir = dir
	if err := e.settings.SaveTo(e.settingsPath); err != nil {
		e.log.Warn("Failed to remember last directory",
			zap.String("dir", dir),
			zap.Error(err),
		)
	}
}

// lastDir returns the remembered directory if it still exists, else the
// working directory
func (e *env) lastDir() string {
	if dir := e.settings.LastXMLDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Package config provides the application settings for xmlconfig.
//
// This package manages a YAML settings file that names the XML file being
// edited, the words written for booleans, the log level
// and the directory of the last import or export. The file follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The settings file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/xmlconfig/config.yaml or $HOME/.config/xmlconfig/config.yaml
//   - macOS: $HOME/.config/xmlconfig/config.yaml
//   - Windows: %LOCALAPPDATA%\xmlconfig\config.yaml
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dir, _ := config.GetConfigDir()
//	xmlPath := settings.XMLPath(dir)
//
//	settings.LastXMLDir = "/home/me/exports"
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes.
package config

// Package config provides configuration management for selectpro.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "selectpro"

// Paths holds all the path configurations for selectpro.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/selectpro)
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/selectpro)
	DataDir string

	// StateDir holds logs (~/.local/state/selectpro)
	StateDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory
// spec, with the platform conventions adrg/xdg applies on macOS and Windows.
// The XDG environment is re-read on every call.
func DefaultPaths() *Paths {
	xdg.Reload()
	return &Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, appName),
		DataDir:   filepath.Join(xdg.DataHome, appName),
		StateDir:  filepath.Join(xdg.StateHome, appName),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.StateDir, "logs")
}

// LogFile returns the path to the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "selectpro.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

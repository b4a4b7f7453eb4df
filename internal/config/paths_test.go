package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if paths.StateDir == "" {
		t.Error("StateDir is empty")
	}

	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.DataDir) {
		t.Errorf("DataDir should be absolute: %s", paths.DataDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables are only honored verbatim on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_STATE_HOME", "/custom/state")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/selectpro" {
		t.Errorf("ConfigDir should respect XDG_CONFIG_HOME: %s", paths.ConfigDir)
	}
	if paths.DataDir != "/custom/data/selectpro" {
		t.Errorf("DataDir should respect XDG_DATA_HOME: %s", paths.DataDir)
	}
	if !strings.HasPrefix(paths.LogFile(), "/custom/state/selectpro") {
		t.Errorf("LogFile should live under XDG_STATE_HOME: %s", paths.LogFile())
	}
}

func TestPaths_ConfigFile(t *testing.T) {
	paths := DefaultPaths()
	configFile := paths.ConfigFile()

	if !strings.HasSuffix(configFile, "config.yaml") {
		t.Errorf("ConfigFile should end with config.yaml: %s", configFile)
	}
	if !strings.Contains(configFile, "selectpro") {
		t.Errorf("ConfigFile should contain 'selectpro': %s", configFile)
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	root := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
		StateDir:  filepath.Join(root, "state"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}
	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.LogDir()} {
		if !dirExists(dir) {
			t.Errorf("directory not created: %s", dir)
		}
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// appDirName is the per-user directory under the XDG base directories.
const appDirName = "extpack"

// Paths contains standard per-user filesystem paths for extpack.
type Paths struct {
	// ConfigFile is the user-level config file
	// ($XDG_CONFIG_HOME/extpack/config.yaml).
	ConfigFile string

	// ConfigDir is the directory holding ConfigFile.
	ConfigDir string

	// StateDir holds the optional log file default ($XDG_STATE_HOME/extpack).
	StateDir string
}

// DefaultPaths returns the default paths for extpack.
func DefaultPaths() *Paths {
	configDir := filepath.Join(xdg.ConfigHome, appDirName)
	return &Paths{
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		ConfigDir:  configDir,
		StateDir:   filepath.Join(xdg.StateHome, appDirName),
	}
}

// UserConfigFile returns the user-level config file path.
func UserConfigFile() string {
	return DefaultPaths().ConfigFile
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// ResolvePath expands ~ and makes a relative path absolute against base.
func ResolvePath(base, path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if expanded == "" || filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Abs(filepath.Join(base, expanded))
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

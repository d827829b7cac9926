// ABOUTME: Standard filesystem paths for pi-keys configuration
// ABOUTME: Resolves ~/.pi-go/ for global and <project>/.pi-go/ for project-local files

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".pi-go"
	projectDirName = ".pi-go"

	keybindingsFileName = "keybindings.yaml"
	settingsFileName    = "keys.yaml"
)

// GlobalDir returns the user-global config directory (~/.pi-go/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory.
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalKeybindingsFile returns the path to the global keybindings file.
func GlobalKeybindingsFile() string {
	return filepath.Join(GlobalDir(), keybindingsFileName)
}

// LocalKeybindingsFile returns the path to the project keybindings file.
func LocalKeybindingsFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), keybindingsFileName)
}

// SettingsFile returns the path to the decoder settings file.
func SettingsFile() string {
	return filepath.Join(GlobalDir(), settingsFileName)
}

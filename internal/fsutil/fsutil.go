// Package fsutil provides small filesystem helpers shared across the CLI.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreateDirIfNotExists creates a directory (and parents) if it does not exist
func CreateDirIfNotExists(path string) error {
	if DirExists(path) {
		return nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", path, err)
	}
	return nil
}

// GetDir returns the directory portion of a path
func GetDir(path string) string {
	return filepath.Dir(path)
}

// ReadFile reads an entire file into memory
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories if necessary
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// ListFilesWithExtensions returns the sorted paths of regular files in dir
// whose extension matches one of exts (compared case-insensitively, with the
// leading dot, e.g. ".yaml").
func ListFilesWithExtensions(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// GetConfigDir returns the per-user configuration directory for the app
func GetConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// GetDataDir returns the per-user data directory for the app, used as the
// default location for workflow definitions.
func GetDataDir(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+appName), nil
}

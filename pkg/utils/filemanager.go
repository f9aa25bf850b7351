// =============================================================================
// IN1888 Report Generator - File Manager Utility
// =============================================================================
//
// This module provides the filesystem helpers used around a generation run:
//   - Choosing the output directory (explicit, next to the input, or the
//     user's Documents folder)
//   - Creating the output directory
//   - Existence checks on the input file
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppDirName is the folder created under the user's documents directory.
const AppDirName = "in1888"

// documentsFolders are tried in order under the home directory.
var documentsFolders = []string{"Documents", "Documentos"}

// =============================================================================
// OUTPUT DIRECTORY
// =============================================================================

// ResolveOutputDir returns override when set, otherwise the directory that
// contains inputPath. The result is absolute when inputPath can be made
// absolute.
func ResolveOutputDir(override, inputPath string) string {
	if override != "" {
		return override
	}
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return filepath.Dir(inputPath)
	}
	return filepath.Dir(abs)
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// DocumentsDir returns ~/Documents/in1888 or ~/Documentos/in1888, creating
// the first one that can be created. When neither works it falls back to
// ./in1888 in the working directory.
//
// PARAMETERS:
//   - home: The home directory. Empty means os.UserHomeDir.
//
// RETURNS:
//   - The created directory.
//   - An error only if the fallback cannot be created either.
func DocumentsDir(home string) (string, error) {
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	if home != "" {
		for _, folder := range documentsFolders {
			dir := filepath.Join(home, folder, AppDirName)
			if err := EnsureDir(dir); err == nil {
				return dir, nil
			}
		}
	}

	fallback, err := filepath.Abs(AppDirName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve fallback directory: %w", err)
	}
	if err := EnsureDir(fallback); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", fallback, err)
	}
	return fallback, nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Package security provides path validation for user supplied file locations.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dangerousChars contains shell metacharacters that could be used for injection attacks.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// MemoryDatabase is the SQLite name for a private in-memory database.
const MemoryDatabase = ":memory:"

// ValidateFilePath cleans a file path, makes it absolute and resolves
// symlinks. Paths with shell metacharacters are rejected. A file that does
// not exist yet resolves to its cleaned path.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		cleanPath = filepath.Join(cwd, cleanPath)
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolvedPath, nil
}

// ValidateDatabasePath validates the file part of a SQLite path such as
// "reports.db?mode=ro". Query parameters are kept as given and the
// in-memory name passes through unchanged.
func ValidateDatabasePath(path string) (string, error) {
	if path == MemoryDatabase {
		return path, nil
	}

	file, query, hasQuery := strings.Cut(path, "?")
	cleanPath, err := ValidateFilePath(file)
	if err != nil {
		return "", err
	}
	if hasQuery {
		return cleanPath + "?" + query, nil
	}
	return cleanPath, nil
}

package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateLocation validates a document location as it appears in a
// manifest or on the command line.
//
// The validation rules are intentionally conservative:
//   - No empty locations
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 1024 characters
//
// Locations are opaque to the federation engine, so relative paths, URIs and
// aliases are all accepted.
func ValidateLocation(location string) error {
	if location == "" {
		return New(ErrCodeInvalidLocation, "document location cannot be empty")
	}

	if len(location) > 1024 {
		return New(ErrCodeInvalidLocation, "document location too long (max 1024 characters)")
	}

	for _, r := range location {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLocation, "document location contains invalid control characters")
		}
	}

	if strings.TrimSpace(location) != location {
		return New(ErrCodeInvalidLocation, "document location has leading or trailing whitespace: %q", location)
	}

	return nil
}

// ValidateLibraryName validates an interface, role or system-unit library name.
func ValidateLibraryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "library name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "library name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "library name contains invalid control characters")
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidName, "library name has leading or trailing whitespace: %q", name)
	}

	// Library paths in class references use "/" as separator.
	if strings.Contains(name, "/") {
		return New(ErrCodeInvalidName, "library name cannot contain %q", "/")
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components and
// has a supported extension.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml", ".json":
	default:
		return New(ErrCodeInvalidManifest, "manifest must be a .toml or .json file: %q", filename)
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

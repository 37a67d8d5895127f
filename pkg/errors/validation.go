package errors

import (
	"strings"
	"unicode"
)

// ValidateEventName validates a build-order action name.
// Names become node identifiers and labels, so they must be non-empty
// printable text.
func ValidateEventName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidReplay, "build event name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidReplay, "build event name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidReplay, "build event name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePlayerID validates a player identifier.
// Replay parsers number players from 1; zero and negative ids never occur.
func ValidatePlayerID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "player id must be a positive integer, got %d", id)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateParserCommand validates an external parser command template.
// The template must reference the replay through the {replay} placeholder so
// the parser never reads an unintended file.
func ValidateParserCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return New(ErrCodeInvalidConfig, "parser command cannot be empty")
	}
	if !strings.Contains(command, "{replay}") {
		return New(ErrCodeInvalidConfig, "parser command must contain the {replay} placeholder")
	}
	if strings.ContainsRune(command, '\x00') {
		return New(ErrCodeInvalidConfig, "parser command contains a null byte")
	}
	return nil
}

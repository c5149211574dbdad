package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/translate"
)

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	if Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ParseIndex parses an entry index argument. Bounds are checked by the store.
func ParseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: must be a number", arg)
	}
	if index < 0 {
		return 0, fmt.Errorf("invalid index %d: must not be negative", index)
	}
	return index, nil
}

// ParseOnOff accepts on/off, true/false, yes/no and 1/0
func ParseOnOff(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (must be: on or off)", arg)
	}
}

// ValidateLanguage validates a language code such as "TR" or "en-GB"
func ValidateLanguage(code string) error {
	_, err := translate.ParseLanguage(code)
	return err
}

// ValidatePersistMode validates the --persist flag
func ValidatePersistMode(mode string) error {
	if mode == models.PersistBatch || mode == models.PersistEntry {
		return nil
	}
	return fmt.Errorf("invalid persist mode: %s (must be: batch or entry)", mode)
}

// ValidateErrorPolicy validates the --on-error flag
func ValidateErrorPolicy(policy string) error {
	if policy == models.OnErrorStop || policy == models.OnErrorContinue {
		return nil
	}
	return fmt.Errorf("invalid error policy: %s (must be: stop or continue)", policy)
}

// ValidateTheme validates a theme name
func ValidateTheme(theme string) error {
	if theme == models.ThemeDark || theme == models.ThemeLight {
		return nil
	}
	return fmt.Errorf("invalid theme: %s (must be: dark or light)", theme)
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

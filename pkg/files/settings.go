package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/postudio/postudio-terminal/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	AppDir       = "postudio"
	SettingsFile = "settings.yaml"
	LogFile      = "postudio.log"
	CacheFile    = "cache.db"
	EnvFile      = ".env"

	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "POSTUDIO_CONFIG_DIR"
)

// ConfigDir resolves the configuration directory. An explicit override wins,
// then POSTUDIO_CONFIG_DIR, then the user config directory.
func ConfigDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFile)
}

// ReadSettings reads settings from dir. A missing file yields the defaults.
func ReadSettings(dir string) (*models.Settings, error) {
	path := SettingsPath(dir)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	settings.Normalize()

	return settings, nil
}

// WriteSettings stores settings in dir, creating it if needed.
func WriteSettings(dir string, settings *models.Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := WriteFileAtomic(SettingsPath(dir), content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

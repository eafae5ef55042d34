package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"bible-reader/internal/navigator"
)

type Settings struct {
	ReaderID    string                `json:"reader_id,omitempty"`
	Theme       string                `json:"theme,omitempty"` // theme display name
	LastRead    *navigator.LastRead   `json:"last_read,omitempty"`
	Preferences *navigator.Preference `json:"preferences,omitempty"`
}

// DefaultPath returns the settings file under the user's config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "bible-reader", "config.json"), nil
}

func Load(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		// No config = just return zero value, no error
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// EnsureReaderID returns the stored reader ID, generating and saving a new
// one on first use.
func EnsureReaderID(path string) (string, error) {
	s, err := Load(path)
	if err != nil {
		return "", err
	}
	if s.ReaderID != "" {
		return s.ReaderID, nil
	}

	s.ReaderID = uuid.NewString()
	if err := Save(path, s); err != nil {
		return "", err
	}
	return s.ReaderID, nil
}

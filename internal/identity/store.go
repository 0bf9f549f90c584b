package identity

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Credentials is what survives a restart: the long-lived refresh token and
// enough of the user record to greet them before the first lookup. ID tokens
// are never persisted; they are minted per call.
type Credentials struct {
	RefreshToken string `yaml:"refresh_token"`
	UID          string `yaml:"uid"`
	Email        string `yaml:"email"`
	DisplayName  string `yaml:"display_name"`
}

// CredentialStore reads and writes the credentials file in the user config
// directory.
type CredentialStore struct {
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func DefaultCredentialsPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "omnileap", "credentials.yml")
}

// Load returns the stored credentials, or zero credentials when none exist.
func (s *CredentialStore) Load() (Credentials, error) {
	var creds Credentials
	if s.path == "" {
		return creds, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return creds, nil
		}
		return creds, err
	}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return creds, err
	}
	return creds, nil
}

func (s *CredentialStore) Save(creds Credentials) error {
	if s.path == "" {
		return errors.New("no credentials path configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the credentials file. Clearing an absent file is fine.
func (s *CredentialStore) Clear() error {
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

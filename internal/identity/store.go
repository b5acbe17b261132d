package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialFile is the default credential file name under the config
// home. The bearer token is the only durable client-side state besides
// the config file itself; sessions are memory-only and rebuilt from the
// backend.
const CredentialFile = "credentials"

// Store persists the bearer credential on disk.
type Store struct {
	path string
}

// NewStore creates a credential store rooted at dir (typically
// ~/.paddyguard).
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, CredentialFile)}
}

// Path returns the credential file location.
func (s *Store) Path() string { return s.path }

// Save writes the token with owner-only permissions.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("identity: create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(strings.TrimSpace(token)+"\n"), 0600); err != nil {
		return fmt.Errorf("identity: write credential: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" when none exists.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("identity: read credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored token. Missing files are not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("identity: clear credential: %w", err)
	}
	return nil
}

// Package session owns the authenticated browser state: the credential
// snapshot persisted between runs and the restore-or-login decision.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"alunosync/internal/browser"
)

// Credential is the persisted authentication snapshot. The JSON field names
// are the historical authData.json format and must not change.
type Credential struct {
	Login      string          `json:"login"`
	Senha      string          `json:"senha"`
	AuthCookie *browser.Cookie `json:"authCookie"`
}

// Store reads and writes the credential file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load returns the stored credential, or nil when no snapshot exists yet.
func (s *Store) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", s.path, err)
	}
	return &c, nil
}

// Save overwrites the credential file.
func (s *Store) Save(c *Credential) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Clear removes the credential file if present.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the access token between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored token, or "" if none.
func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Save replaces the stored token.
func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *MemoryStore) Clear(_ context.Context) error {
	return s.Save(context.Background(), "")
}

// FileStore keeps the token in a file readable only by the owner. When a
// passphrase is set the file content is encrypted.
type FileStore struct {
	path       string
	passphrase []byte
}

type tokenFile struct {
	Token     string         `json:"token,omitempty"`
	Encrypted *encryptedData `json:"encrypted,omitempty"`
}

// NewFileStore creates a store backed by path. An empty passphrase stores
// the token in plain text.
func NewFileStore(path string, passphrase string) *FileStore {
	return &FileStore{path: path, passphrase: []byte(passphrase)}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored token, or "" if the file does not exist.
func (s *FileStore) Load(_ context.Context) (string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var f tokenFile
	if err := json.Unmarshal(content, &f); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}

	if f.Encrypted == nil {
		return f.Token, nil
	}
	if len(s.passphrase) == 0 {
		return "", ErrPassphraseRequired
	}
	plain, err := decrypt(f.Encrypted, s.passphrase)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Save writes the token, replacing any previous one.
func (s *FileStore) Save(_ context.Context, token string) error {
	var f tokenFile
	if len(s.passphrase) > 0 {
		enc, err := encrypt([]byte(token), s.passphrase)
		if err != nil {
			return err
		}
		f.Encrypted = enc
	} else {
		f.Token = token
	}

	content, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal token file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear deletes the token file.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Package store provides the durable session cache implementations: a JSON
// file under the user config dir (the default) and a redis hash for shared
// deployments. Both persist the credential and identity as one document so
// the two can never be invalidated independently.
package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/tasklight/tasklight/internal/core/ports"
)

const nonceSize = 24

// FileStore persists the session as a 0600 JSON file. With a key it seals
// the payload with nacl/secretbox so the credential is encrypted at rest.
type FileStore struct {
	path string
	key  *[32]byte
}

// NewFileStore creates a FileStore at path. key must be empty (plaintext)
// or exactly 32 bytes.
func NewFileStore(path string, key []byte) (*FileStore, error) {
	fs := &FileStore{path: path}
	switch len(key) {
	case 0:
	case 32:
		fs.key = new([32]byte)
		copy(fs.key[:], key)
	default:
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}
	return fs, nil
}

// Load reads the persisted session. A missing, unreadable, undecryptable,
// or corrupt file reads as absent: a broken cache must never fail bootstrap.
func (f *FileStore) Load(_ context.Context) (ports.StoredSession, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return ports.StoredSession{}, nil
	}

	if f.key != nil {
		raw, err = f.open(raw)
		if err != nil {
			return ports.StoredSession{}, nil
		}
	}

	var s ports.StoredSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return ports.StoredSession{}, nil
	}
	return normalize(s), nil
}

func (f *FileStore) Save(_ context.Context, s ports.StoredSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}

	if f.key != nil {
		raw, err = f.seal(raw)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// seal encrypts payload as nonce||box.
func (f *FileStore) seal(payload []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], payload, &nonce, f.key), nil
}

func (f *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, errors.New("sealed session too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	payload, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, errors.New("session decryption failed")
	}
	return payload, nil
}

// normalize maps values that spell "absent" (a serialized null that leaked
// into storage) to actually being absent.
func normalize(s ports.StoredSession) ports.StoredSession {
	if s.Credential == "null" || s.Credential == "undefined" {
		s.Credential = ""
	}
	switch string(s.Identity) {
	case "null", "undefined":
		s.Identity = nil
	}
	return s
}

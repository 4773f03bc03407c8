// Package credstore persists the portal bearer token between runs,
// encrypted at rest under a per-machine secret. It is the only client-side
// persisted credential.
package credstore

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	credentialsFile = "credentials"
	secretFile      = "machine.key"

	secretLen = 32
	saltLen   = 16
)

var magic = []byte("TDCRED1")

// Store reads and writes the encrypted token file.
type Store struct {
	fs  afero.Fs
	dir string
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem the store operates on.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// New creates a credential store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		fs:  afero.NewOsFs(),
		dir: dir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored token, or "" when nothing usable is stored. A
// corrupt or undecryptable file behaves like an absent one: the caller
// simply comes up logged out.
func (s *Store) Load() (string, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, credentialsFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	token, err := s.decrypt(data)
	if err != nil {
		log.Printf("[credstore] stored credentials unreadable, treating as logged out: %v", err)
		return "", nil
	}
	return token, nil
}

// Save encrypts and persists the token, via a temp file and rename so a
// crash never leaves a half-written credentials file.
func (s *Store) Save(token string) error {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	sealed, err := s.encrypt(token)
	if err != nil {
		return err
	}

	dest := filepath.Join(s.dir, credentialsFile)
	tmp := dest + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := s.fs.Rename(tmp, dest); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	err := s.fs.Remove(filepath.Join(s.dir, credentialsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// machineSecret loads the per-machine secret, creating it on first use.
func (s *Store) machineSecret() ([]byte, error) {
	path := filepath.Join(s.dir, secretFile)

	secret, err := afero.ReadFile(s.fs, path)
	if err == nil && len(secret) == secretLen {
		return secret, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read machine secret: %w", err)
	}

	secret = make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate machine secret: %w", err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("write machine secret: %w", err)
	}
	return secret, nil
}

// encrypt seals the token as magic || salt || nonce || ciphertext.
func (s *Store) encrypt(token string) ([]byte, error) {
	secret, err := s.machineSecret()
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	aead, err := aeadForSecret(secret, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltLen+len(nonce)+len(token)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(token), nil)
	return out, nil
}

func (s *Store) decrypt(data []byte) (string, error) {
	header := len(magic) + saltLen + chacha20poly1305.NonceSizeX
	if len(data) < header || string(data[:len(magic)]) != string(magic) {
		return "", fmt.Errorf("malformed credentials file")
	}

	salt := data[len(magic) : len(magic)+saltLen]
	nonce := data[len(magic)+saltLen : header]

	secret, err := s.machineSecret()
	if err != nil {
		return "", err
	}
	aead, err := aeadForSecret(secret, salt)
	if err != nil {
		return "", err
	}

	token, err := aead.Open(nil, nonce, data[header:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt credentials: %w", err)
	}
	return string(token), nil
}

// aeadForSecret derives the cipher key from the machine secret and salt.
func aeadForSecret(secret, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(secret, salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return aead, nil
}

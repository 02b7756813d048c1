package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const sealVersion byte = 1

var (
	ErrEmptyKey      = errors.New("cryptox: empty key material")
	ErrSealCorrupted = errors.New("cryptox: sealed payload is corrupted or was sealed with another key")
)

// Sealer encrypts small payloads with AES-256-GCM under a key derived by
// HKDF-SHA256 from operator supplied key material.
//
// Output layout: [version][12-byte nonce][ciphertext + 16-byte tag].
type Sealer struct {
	aead      cipher.AEAD
	ephemeral bool
}

// NewSealer derives the AES key from secret. info separates keys derived
// from the same secret for different purposes.
func NewSealer(secret []byte, info string) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptyKey
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, secret, []byte("portfolio/cryptox/v1"), []byte(info))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("cryptox: derive key: %w", err)
	}
	return newSealer(key)
}

// NewEphemeralSealer uses a random key that lives only as long as the
// process. Anything it seals is unreadable after a restart.
func NewEphemeralSealer() (*Sealer, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("cryptox: generate ephemeral key: %w", err)
	}
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	s.ephemeral = true
	return s, nil
}

func newSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Ephemeral reports whether the key is process-local.
func (s *Sealer) Ephemeral() bool { return s.ephemeral }

// Seal encrypts plaintext. aad is authenticated but not stored; Open must be
// given the same value.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}

	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, sealVersion)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, aad), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < 1+ns+s.aead.Overhead() || sealed[0] != sealVersion {
		return nil, ErrSealCorrupted
	}

	nonce, ct := sealed[1:1+ns], sealed[1+ns:]
	plaintext, err := s.aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrSealCorrupted
	}
	return plaintext, nil
}

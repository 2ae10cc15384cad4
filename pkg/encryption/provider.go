/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package encryption seals the deployment the agent persists between runs.
package encryption

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrInvalidKeyLength indicates the provided key is not the required size.
	ErrInvalidKeyLength = errors.New("encryption: key must be 32 bytes")
	// ErrCiphertextTooShort indicates the payload is shorter than the nonce.
	ErrCiphertextTooShort = errors.New("encryption: ciphertext too short")
)

// Provider seals payloads with XChaCha20-Poly1305. Sealed payloads are the
// base64 encoding of nonce followed by ciphertext.
type Provider struct {
	key []byte
}

// NewProvider constructs a Provider from a 32 byte key.
func NewProvider(key []byte) (*Provider, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKeyLength
	}

	return &Provider{key: append([]byte(nil), key...)}, nil
}

// LoadOrCreate reads the base64 key stored at path, generating and writing
// a new one when the file does not exist.
func LoadOrCreate(path string) (*Provider, error) {
	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		key, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if decodeErr != nil {
			return nil, fmt.Errorf("encryption: decode key %s: %w", path, decodeErr)
		}

		return NewProvider(key)
	case errors.Is(err, os.ErrNotExist):
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("encryption: generate key: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("encryption: create key dir: %w", err)
		}

		if err := os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(key)), 0o600); err != nil {
			return nil, fmt.Errorf("encryption: write key %s: %w", path, err)
		}

		return NewProvider(key)
	default:
		return nil, fmt.Errorf("encryption: read key %s: %w", path, err)
	}
}

// Encrypt seals plaintext.
func (p *Provider) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return nil, fmt.Errorf("encryption: init aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("encryption: generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)

	return out, nil
}

// Decrypt reverses Encrypt.
func (p *Provider) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	payload := make([]byte, base64.StdEncoding.DecodedLen(len(ciphertext)))

	n, err := base64.StdEncoding.Decode(payload, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("encryption: decode ciphertext: %w", err)
	}

	payload = payload[:n]

	if len(payload) < chacha20poly1305.NonceSizeX {
		return nil, ErrCiphertextTooShort
	}

	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return nil, fmt.Errorf("encryption: init aead: %w", err)
	}

	nonce, sealed := payload[:chacha20poly1305.NonceSizeX], payload[chacha20poly1305.NonceSizeX:]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("encryption: decrypt payload: %w", err)
	}

	return plaintext, nil
}

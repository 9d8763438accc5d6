// Package tokencodec turns small JSON payloads into opaque, URL-safe strings using
// authenticated encryption, so a token can only be read (and is only accepted) by a
// holder of the same secret.
package tokencodec

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrDecode is returned for any token that was not produced by Encode under the
// current secret: tampered, truncated, garbage or sealed with another key.
var ErrDecode = errors.New("tokencodec: invalid token")

const keyInfo = "recipes-auth/tokencodec/v1"

// Codec encrypts and decrypts payloads with XChaCha20-Poly1305.
// It is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// New derives a 256-bit key from secret and returns a Codec.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("tokencodec: empty secret")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("tokencodec: derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("tokencodec: init cipher: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encode marshals v to JSON and seals it. The result is base64url without padding.
func (c *Codec) Encode(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("tokencodec: marshal: %w", err)
	}
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("tokencodec: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens token and returns the JSON document it carries.
func (c *Codec) Decode(token string) (json.RawMessage, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrDecode
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return nil, ErrDecode
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrDecode
	}
	if !json.Valid(plain) {
		return nil, ErrDecode
	}
	return plain, nil
}

// DecodeInto opens token and unmarshals the payload into dst.
func (c *Codec) DecodeInto(token string, dst any) error {
	plain, err := c.Decode(token)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		return ErrDecode
	}
	return nil
}

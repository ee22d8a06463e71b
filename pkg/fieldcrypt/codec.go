// Package fieldcrypt encrypts individual column values before they are
// written to storage.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	ErrDecrypt    = errors.New("fieldcrypt: decrypt failed")
	ErrMissingKey = errors.New("fieldcrypt: encryption key is required when encryption is enabled")
)

const (
	encInfo    = "cpf-cnpj/enc"
	digestInfo = "cpf-cnpj/digest"
)

// Codec transforms a sensitive value for storage and back.
// Digest returns a deterministic lookup value for equality filters.
type Codec interface {
	Encrypt(plain string) (string, error)
	Decrypt(stored string) (string, error)
	Digest(plain string) string
	Enabled() bool
}

// AESCodec uses AES-256-GCM with a random nonce per value. When disabled
// every method is the identity.
type AESCodec struct {
	enabled   bool
	aead      cipher.AEAD
	digestKey []byte
}

// New derives independent encryption and digest keys from secret.
func New(secret string, enabled bool) (*AESCodec, error) {
	if !enabled {
		return &AESCodec{}, nil
	}
	if secret == "" {
		return nil, ErrMissingKey
	}
	encKey, err := derive(secret, encInfo)
	if err != nil {
		return nil, err
	}
	digestKey, err := derive(secret, digestInfo)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: gcm: %w", err)
	}
	return &AESCodec{enabled: true, aead: aead, digestKey: digestKey}, nil
}

func derive(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("fieldcrypt: derive key: %w", err)
	}
	return key, nil
}

func (c *AESCodec) Enabled() bool { return c.enabled }

// Encrypt returns base64url(nonce || ciphertext).
func (c *AESCodec) Encrypt(plain string) (string, error) {
	if !c.enabled {
		return plain, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcrypt: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *AESCodec) Decrypt(stored string) (string, error) {
	if !c.enabled {
		return stored, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plain), nil
}

// Digest is a hex HMAC-SHA256 of plain when enabled, otherwise plain itself.
func (c *AESCodec) Digest(plain string) string {
	if !c.enabled {
		return plain
	}
	mac := hmac.New(sha256.New, c.digestKey)
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ Codec = (*AESCodec)(nil)

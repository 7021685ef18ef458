package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealedFormat is returned when a sealed blob cannot be parsed.
var ErrSealedFormat = errors.New("malformed sealed session")

const (
	saltLen       = 16
	argonTime     = 1
	argonMemoryKB = 19 * 1024
	argonThreads  = 2
)

// Sealer encrypts the persisted session with XChaCha20-Poly1305 under a key
// derived from a secret with Argon2id. Each blob carries its own salt.
type Sealer struct {
	secret []byte
}

// NewSealer creates a Sealer for the given secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	return &Sealer{secret: []byte(secret)}, nil
}

func (s *Sealer) key(salt []byte) []byte {
	return argon2.IDKey(s.secret, salt, argonTime, argonMemoryKB, argonThreads, chacha20poly1305.KeySize)
}

// Seal encrypts plaintext and returns "salt$nonce+ciphertext" in base64.
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a blob produced by Seal.
func (s *Sealer) Open(blob string) ([]byte, error) {
	saltStr, body, ok := strings.Cut(blob, "$")
	if !ok {
		return nil, ErrSealedFormat
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltStr)
	if err != nil || len(salt) != saltLen {
		return nil, ErrSealedFormat
	}
	sealed, err := base64.RawStdEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrSealedFormat
	}
	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrSealedFormat
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed session: %w", err)
	}
	return plaintext, nil
}

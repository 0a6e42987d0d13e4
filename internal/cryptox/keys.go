package cryptox

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// MinMasterKeySize is the shortest master secret a Keyring accepts.
const MinMasterKeySize = 16

var ErrEmptyKeyReference = errors.New("empty key reference")

// FileKey is the key material of one file.
type FileKey struct {
	Key         []byte
	NoncePrefix []byte
}

// Wipe zeroes the key material.
func (k *FileKey) Wipe() {
	WipeByteArray(k.Key)
	WipeByteArray(k.NoncePrefix)
}

// KeyProvider resolves a file's key reference to its key material.
type KeyProvider interface {
	FileKey(ctx context.Context, reference string) (FileKey, error)
}

// Keyring derives per-file keys from a single master secret with
// HKDF-SHA256, using the key reference as the info string.
type Keyring struct {
	master []byte
}

func NewKeyring(master []byte) (*Keyring, error) {
	if len(master) < MinMasterKeySize {
		return nil, fmt.Errorf("master key must be at least %d bytes, got %d", MinMasterKeySize, len(master))
	}
	m := make([]byte, len(master))
	copy(m, master)
	return &Keyring{master: m}, nil
}

func (k *Keyring) FileKey(ctx context.Context, reference string) (FileKey, error) {
	if err := ctx.Err(); err != nil {
		return FileKey{}, err
	}
	if reference == "" {
		return FileKey{}, ErrEmptyKeyReference
	}

	r := hkdf.New(sha256.New, k.master, nil, []byte("filedrop/file-key/v1/"+reference))
	buf := make([]byte, chacha20poly1305.KeySize+NoncePrefixSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return FileKey{}, fmt.Errorf("derive file key: %w", err)
	}

	return FileKey{Key: buf[:chacha20poly1305.KeySize], NoncePrefix: buf[chacha20poly1305.KeySize:]}, nil
}

// DeriveMasterKey stretches an operator passphrase into a 32-byte master
// secret with Argon2id.
func DeriveMasterKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// WipeByteArray overwrites b with zeros. A nil slice is left alone.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

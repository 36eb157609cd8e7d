package credstore

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Keys are the codec keys protecting blobs at rest: a MAC key and an AES
// block key, both derived from a machine-local secret.
type Keys struct {
	Hash  []byte
	Block []byte
}

// DeriveKeys stretches a secret and salt into codec keys with argon2id.
// The same secret and salt always yield the same keys, so a store stays
// readable across runs.
func DeriveKeys(secret, salt []byte) Keys {
	material := argon2.IDKey(secret, salt, 3, 16384, 1, 64)
	return Keys{
		Hash:  material[:32],
		Block: material[32:],
	}
}

// DeriveKeysBase64 decodes a base64 secret and salt, as kept in the
// generated secrets file, and derives codec keys from them.
func DeriveKeysBase64(secret, salt string) (Keys, error) {
	rawSecret, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return Keys{}, fmt.Errorf("decode secret: %w", err)
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return Keys{}, fmt.Errorf("decode salt: %w", err)
	}
	if len(rawSecret) == 0 || len(rawSalt) == 0 {
		return Keys{}, fmt.Errorf("empty secret or salt")
	}
	return DeriveKeys(rawSecret, rawSalt), nil
}

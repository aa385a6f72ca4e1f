/*
Copyright © 2026 winterveil <dev@winterveil.net>
*/

package main

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// hiddenPayload is the shape sealed into an identity handle: the target's
// attributes plus the answer itself.
type hiddenPayload struct {
	PlayerAttributes
	HiddenName string `json:"hiddenName"`
}

// secretBox wraps hidden-target payloads so the answer never crosses the wire
// in clear. AES-256-GCM with the nonce prepended to the ciphertext.
type secretBox struct {
	aead cipher.AEAD
}

func newSecretBox(hexKey string) (*secretBox, error) {
	var key []byte
	if hexKey == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	} else {
		var err error
		key, err = hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("decoding secret key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("secret key must be 32 bytes, got %d", len(key))
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &secretBox{aead: aead}, nil
}

func (b *secretBox) seal(plaintext []byte) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := b.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (b *secretBox) open(encoded string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(sealed) < b.aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:b.aead.NonceSize()], sealed[b.aead.NonceSize():]
	return b.aead.Open(nil, nonce, ciphertext, nil)
}

// sealTarget wraps a drawn target into an opaque handle. The profile link is
// dropped first, since its slug gives the name away.
func (b *secretBox) sealTarget(name string, attrs PlayerAttributes) (string, error) {
	attrs.Link = ""
	payload, err := json.Marshal(hiddenPayload{
		PlayerAttributes: attrs,
		HiddenName:       name,
	})
	if err != nil {
		return "", err
	}
	return b.seal(payload)
}

package cloak

import (
	"encoding/base64"
	"fmt"
)

// Cipher is the text-level encrypt/decrypt pair the pipeline invokes once
// per eligible request part and once per eligible response body.
//
// Implementations must fail loudly on malformed input; the pipeline never
// falls back to cleartext.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CipherFuncs adapts a pair of functions to the Cipher interface.
type CipherFuncs struct {
	EncryptFunc func(string) (string, error)
	DecryptFunc func(string) (string, error)
}

// Encrypt calls EncryptFunc.
func (c CipherFuncs) Encrypt(plaintext string) (string, error) {
	return c.EncryptFunc(plaintext)
}

// Decrypt calls DecryptFunc.
func (c CipherFuncs) Decrypt(ciphertext string) (string, error) {
	return c.DecryptFunc(ciphertext)
}

// textCipher renders Encryptor output as unpadded URL-safe base64 so the
// ciphertext can sit in a path segment, a query string or a body unchanged.
type textCipher struct {
	enc Encryptor
}

// TextCipher adapts a byte-level Encryptor to the Cipher contract.
func TextCipher(enc Encryptor) Cipher {
	return &textCipher{enc: enc}
}

func (c *textCipher) Encrypt(plaintext string) (string, error) {
	ciphertext, err := c.enc.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (c *textCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	plaintext, err := c.enc.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

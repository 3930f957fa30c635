// Package seedcipher protects a 16-byte seed under a passphrase.
//
// The key is PBKDF2-HMAC-SHA1 over a fixed salt; the seed is exactly one
// AES-128 block and is enciphered without any mode or padding. A wrong
// passphrase does not fail: it yields a different seed, which callers detect
// by comparing the derived address.
package seedcipher

import (
	"crypto/aes"
	"crypto/sha1"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Salt       = "XRP LEDGER WALLET SALT"
	Iterations = 1024
	KeyLength  = 16
	BlockSize  = aes.BlockSize
)

var (
	ErrSeedLength = errors.New("seed must be exactly 16 bytes")
	ErrPassphrase = errors.New("passphrase must not be empty")
)

// DeriveKey stretches a passphrase into an AES-128 key.
func DeriveKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(Salt), Iterations, KeyLength, sha1.New)
}

// Protect enciphers a 16-byte seed.
func Protect(seed []byte, passphrase string) ([]byte, error) {
	return apply(seed, passphrase, true)
}

// Unprotect reverses Protect. It never reports a wrong passphrase.
func Unprotect(protected []byte, passphrase string) ([]byte, error) {
	return apply(protected, passphrase, false)
}

func apply(in []byte, passphrase string, encrypt bool) ([]byte, error) {
	if len(in) != BlockSize {
		return nil, fmt.Errorf("%w: got %d", ErrSeedLength, len(in))
	}
	if passphrase == "" {
		return nil, ErrPassphrase
	}
	block, err := aes.NewCipher(DeriveKey(passphrase))
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	out := make([]byte, BlockSize)
	if encrypt {
		block.Encrypt(out, in)
	} else {
		block.Decrypt(out, in)
	}
	return out, nil
}

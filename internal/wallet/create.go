package wallet

import (
	"fmt"
	"io"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/mnemonic"
	"LedgerTools/internal/seedcipher"
	"LedgerTools/pkg/logx"
)

// EntropyPolicy keeps at most 16 bytes of operator text and reports how
// many bytes system entropy must supply.
func EntropyPolicy(text string) (fixed []byte, fill int) {
	b := []byte(text)
	if len(b) > crypto.SeedLength {
		b = b[:crypto.SeedLength]
	}
	return b, crypto.SeedLength - len(b)
}

// Created is what the operator writes down. When Encrypted, FamilySeed and
// Mnemonic hold the protected seed and need the passphrase to be used.
type Created struct {
	Address    string
	FamilySeed string
	Mnemonic   string
	Encrypted  bool
}

// NewSeed draws a seed for fixed entropy, filling the rest from r.
func NewSeed(fixed []byte, r io.Reader) ([]byte, error) {
	return crypto.GenerateSeed(fixed, r)
}

// Finish derives the address of seed and renders it for backup, protected
// by passphrase when one is given.
func Finish(seed []byte, alg crypto.Algorithm, passphrase string) (*Created, error) {
	kp, err := crypto.DeriveKeypair(seed, alg)
	if err != nil {
		return nil, err
	}
	payload := seed
	if passphrase != "" {
		payload, err = seedcipher.Protect(seed, passphrase)
		if err != nil {
			return nil, err
		}
	}
	fs, err := crypto.EncodeSeed(payload, alg)
	if err != nil {
		return nil, fmt.Errorf("encode seed: %w", err)
	}
	logx.S().Infow("wallet created", "address", kp.Address(), "encrypted", passphrase != "")
	return &Created{
		Address:    kp.Address(),
		FamilySeed: fs,
		Mnemonic:   mnemonic.Encode(payload),
		Encrypted:  passphrase != "",
	}, nil
}

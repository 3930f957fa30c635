// Package wallet turns operator key material into signing credentials and
// produces new wallets.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/mnemonic"
	"LedgerTools/internal/seedcipher"
)

type Kind int

const (
	KindFamilySeed Kind = iota + 1
	KindMnemonic
	KindBIP39
	KindPrivateKey
)

func (k Kind) String() string {
	switch k {
	case KindFamilySeed:
		return "family seed"
	case KindMnemonic:
		return "mnemonic"
	case KindBIP39:
		return "bip39 phrase"
	case KindPrivateKey:
		return "private key"
	}
	return "unknown"
}

var (
	ErrMalformedSecret    = errors.New("malformed key")
	ErrPassphraseMismatch = errors.New("derived address does not match; wrong passphrase?")
	ErrNotProtectable     = errors.New("only seeds can be passphrase protected")
)

// Secret is key material as entered, before any passphrase is applied.
// Seed is set for family seeds and mnemonics; Keypair for the rest.
type Secret struct {
	Kind      Kind
	Seed      []byte
	Algorithm crypto.Algorithm
	Keypair   *crypto.Keypair
	Path      string
}

// Credentials are unlocked signing keys.
type Credentials struct {
	Keypair *crypto.Keypair
	Address string
	Seed    []byte
}

// ParseSecret accepts a family seed, a ledger mnemonic, a BIP-39 phrase
// (first account on the ledger's BIP-44 path) or a hex private key.
// Ledger mnemonics carry no algorithm and are read as ed25519 seeds.
func ParseSecret(input string) (*Secret, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedSecret)
	}

	if strings.ContainsAny(input, " \t\n") {
		if mnemonic.IsBIP39(input) {
			derived, err := mnemonic.DeriveBIP44(input, "", 1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
			}
			d := derived[0]
			return &Secret{Kind: KindBIP39, Algorithm: crypto.Secp256k1, Keypair: d.Keypair, Path: d.Path}, nil
		}
		body, err := mnemonic.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSecret, err)
		}
		if len(body) != crypto.SeedLength {
			return nil, fmt.Errorf("%w: mnemonic holds %d bytes, not a seed", ErrMalformedSecret, len(body))
		}
		return &Secret{Kind: KindMnemonic, Seed: body, Algorithm: crypto.Ed25519}, nil
	}

	if seed, alg, err := crypto.DecodeSeed(input); err == nil {
		return &Secret{Kind: KindFamilySeed, Seed: seed, Algorithm: alg}, nil
	}
	if kp, err := crypto.KeypairFromPrivateHex(input); err == nil {
		return &Secret{Kind: KindPrivateKey, Algorithm: kp.Algorithm, Keypair: kp}, nil
	}
	return nil, fmt.Errorf("%w: not a seed, mnemonic or private key", ErrMalformedSecret)
}

// Protectable reports whether a passphrase can apply to this secret.
func (s *Secret) Protectable() bool { return s.Seed != nil }

// Unlock applies passphrase (empty for none) and derives the keypair. A
// wrong passphrase is not detected here; compare Address with what the
// operator expects, or use UnlockExpecting.
func (s *Secret) Unlock(passphrase string) (*Credentials, error) {
	if s.Keypair != nil {
		if passphrase != "" {
			return nil, ErrNotProtectable
		}
		return &Credentials{Keypair: s.Keypair, Address: s.Keypair.Address()}, nil
	}
	seed := s.Seed
	if passphrase != "" {
		var err error
		seed, err = seedcipher.Unprotect(s.Seed, passphrase)
		if err != nil {
			return nil, err
		}
	}
	kp, err := crypto.DeriveKeypair(seed, s.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Credentials{Keypair: kp, Address: kp.Address(), Seed: seed}, nil
}

// UnlockExpecting unlocks and checks the derived address.
func (s *Secret) UnlockExpecting(passphrase, address string) (*Credentials, error) {
	c, err := s.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	if c.Address != strings.TrimSpace(address) {
		return nil, ErrPassphraseMismatch
	}
	return c, nil
}

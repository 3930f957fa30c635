package crypto

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	"github.com/Peersyst/xrpl-go/address-codec/interfaces"
	xrplcrypto "github.com/Peersyst/xrpl-go/pkg/crypto"
)

// SeedLength is the size of a seed in bytes; it is also exactly one AES block.
const SeedLength = addresscodec.FamilySeedLength

type Algorithm string

const (
	Ed25519   Algorithm = "ed25519"
	Secp256k1 Algorithm = "secp256k1"
)

var ed25519SeedPrefix = []byte{0x01, 0xE1, 0x4B}

func (a Algorithm) impl() (interfaces.CryptoImplementation, error) {
	switch a {
	case Ed25519:
		return xrplcrypto.ED25519(), nil
	case Secp256k1:
		return xrplcrypto.SECP256K1(), nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", a)
}

// EncodeSeed renders 16 seed bytes as a family seed ("s..." or "sEd...").
func EncodeSeed(seed []byte, alg Algorithm) (string, error) {
	if len(seed) != SeedLength {
		return "", fmt.Errorf("seed: %w: %d", ErrLength, len(seed))
	}
	impl, err := alg.impl()
	if err != nil {
		return "", err
	}
	return addresscodec.EncodeSeed(seed, impl)
}

// DecodeSeed parses a family seed and reports which key algorithm it is for.
func DecodeSeed(s string) ([]byte, Algorithm, error) {
	s = strings.TrimSpace(s)
	payload, err := checkDecode(s)
	if err != nil {
		return nil, "", fmt.Errorf("decode seed: %w", err)
	}
	var alg Algorithm
	switch {
	case len(payload) == len(ed25519SeedPrefix)+SeedLength && bytes.HasPrefix(payload, ed25519SeedPrefix):
		alg = Ed25519
	case len(payload) == 1+SeedLength && payload[0] == addresscodec.FamilySeedPrefix:
		alg = Secp256k1
	case len(payload) == 1+SeedLength, len(payload) == len(ed25519SeedPrefix)+SeedLength:
		return nil, "", fmt.Errorf("decode seed: %w", ErrPrefix)
	default:
		return nil, "", fmt.Errorf("decode seed: %w: %d", ErrLength, len(payload))
	}
	seed, _, err := addresscodec.DecodeSeed(s)
	if err != nil {
		return nil, "", fmt.Errorf("decode seed: %w", err)
	}
	return seed, alg, nil
}

// GenerateSeed uses up to 16 bytes of caller entropy and fills the rest from r.
// A nil r means crypto/rand.
func GenerateSeed(entropy []byte, r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, SeedLength)
	n := copy(seed, entropy)
	if n < SeedLength {
		if _, err := io.ReadFull(r, seed[n:]); err != nil {
			return nil, fmt.Errorf("read entropy: %w", err)
		}
	}
	return seed, nil
}

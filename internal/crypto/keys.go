package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Peersyst/xrpl-go/keypairs"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	ed25519KeyPrefix = "ED"
	secpKeyPrefix    = "00"
	privateHexLen    = 64
)

var ErrPrivateKey = errors.New("invalid private key")

// Keypair is a derived signing key. Public is the 33-byte ledger form
// (0xED-prefixed for ed25519, compressed point for secp256k1).
type Keypair struct {
	Algorithm Algorithm
	Public    []byte

	// private is the prefixed upper-case hex form the keypairs package signs with.
	private string
}

// DeriveKeypair derives the master keypair for a 16-byte seed.
func DeriveKeypair(seed []byte, alg Algorithm) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("seed: %w: %d", ErrLength, len(seed))
	}
	impl, err := alg.impl()
	if err != nil {
		return nil, err
	}
	priv, pub, err := impl.DeriveKeypair(seed, false)
	if err != nil {
		return nil, fmt.Errorf("derive %s keypair: %w", alg, err)
	}
	return fromHex(alg, priv, pub)
}

// KeypairFromSeed decodes a family seed and derives its keypair.
func KeypairFromSeed(familySeed string) (*Keypair, error) {
	familySeed = strings.TrimSpace(familySeed)
	_, alg, err := DecodeSeed(familySeed)
	if err != nil {
		return nil, err
	}
	priv, pub, err := keypairs.DeriveKeypair(familySeed, false)
	if err != nil {
		return nil, fmt.Errorf("derive %s keypair: %w", alg, err)
	}
	return fromHex(alg, priv, pub)
}

// KeypairFromPrivateHex accepts "ED"+64 hex for ed25519, or 64 hex
// (optionally "00"-prefixed) for secp256k1.
func KeypairFromPrivateHex(s string) (*Keypair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrivateKey, err)
	}
	switch {
	case len(raw) == 33 && strings.HasPrefix(s, ed25519KeyPrefix):
		pub := ed25519.NewKeyFromSeed(raw[1:]).Public().(ed25519.PublicKey)
		return &Keypair{
			Algorithm: Ed25519,
			Public:    append([]byte{0xED}, pub...),
			private:   s,
		}, nil
	case len(raw) == 33 && raw[0] == 0x00:
		raw = raw[1:]
		fallthrough
	case len(raw) == 32:
		priv, err := gethcrypto.ToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPrivateKey, err)
		}
		return FromECDSA(priv), nil
	default:
		return nil, fmt.Errorf("%w: length %d", ErrPrivateKey, len(raw))
	}
}

// FromECDSA wraps an existing secp256k1 private key.
func FromECDSA(priv *ecdsa.PrivateKey) *Keypair {
	return &Keypair{
		Algorithm: Secp256k1,
		Public:    gethcrypto.CompressPubkey(&priv.PublicKey),
		private:   secpKeyPrefix + strings.ToUpper(hex.EncodeToString(gethcrypto.FromECDSA(priv))),
	}
}

func fromHex(alg Algorithm, priv, pub string) (*Keypair, error) {
	public, err := hex.DecodeString(pub)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	priv = strings.ToUpper(priv)
	if alg == Secp256k1 {
		// the scalar loses leading zero bytes on its way out of big.Int
		body := strings.TrimPrefix(priv, secpKeyPrefix)
		if len(body) < privateHexLen {
			body = strings.Repeat("0", privateHexLen-len(body)) + body
		}
		priv = secpKeyPrefix + body
	}
	return &Keypair{Algorithm: alg, Public: public, private: priv}, nil
}

func (k *Keypair) Address() string { return AddressFromPublicKey(k.Public) }

func (k *Keypair) PublicHex() string { return strings.ToUpper(hex.EncodeToString(k.Public)) }

// PrivateHex renders the private key the way KeypairFromPrivateHex reads it.
func (k *Keypair) PrivateHex() string { return k.private }

// Sign signs a signing payload. ed25519 signs the message itself;
// secp256k1 signs its SHA-512Half digest and returns a DER signature.
func (k *Keypair) Sign(message []byte) ([]byte, error) {
	sig, err := keypairs.Sign(string(message), k.private)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return hex.DecodeString(sig)
}

// Verify checks a signature produced by Sign.
func (k *Keypair) Verify(message, sig []byte) bool {
	impl, err := k.Algorithm.impl()
	if err != nil {
		return false
	}
	return impl.Validate(string(message), k.PublicHex(), strings.ToUpper(hex.EncodeToString(sig)))
}

package crypto

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
)

const AccountIDLength = addresscodec.AccountAddressLength

var (
	ErrChecksum = errors.New("checksum mismatch")
	ErrPrefix   = errors.New("unexpected version prefix")
	ErrLength   = errors.New("unexpected payload length")
	ErrEncoding = errors.New("not a base58 string")
)

// EncodeAccountID renders a 20-byte account ID as a classic r-address.
func EncodeAccountID(id []byte) (string, error) {
	if len(id) != AccountIDLength {
		return "", fmt.Errorf("account id: %w: %d", ErrLength, len(id))
	}
	return addresscodec.EncodeAccountIDToClassicAddress(id)
}

// DecodeAccountID parses a classic r-address back into its account ID.
func DecodeAccountID(address string) ([]byte, error) {
	payload, err := checkDecode(address)
	if err != nil {
		return nil, err
	}
	if len(payload) != 1+AccountIDLength {
		return nil, ErrLength
	}
	if payload[0] != addresscodec.AccountAddressPrefix {
		return nil, ErrPrefix
	}
	return payload[1:], nil
}

// IsValidClassicAddress reports whether address carries a valid checksum and version.
func IsValidClassicAddress(address string) bool {
	_, err := DecodeAccountID(address)
	return err == nil && addresscodec.IsValidClassicAddress(address)
}

// AddressFromPublicKey derives the classic address for a 33-byte public key.
func AddressFromPublicKey(publicKey []byte) string {
	addr, _ := addresscodec.EncodeAccountIDToClassicAddress(addresscodec.Sha256RipeMD160(publicKey))
	return addr
}

// checkDecode strips and verifies the base58check checksum.
func checkDecode(s string) ([]byte, error) {
	// the decoder indexes its alphabet table by rune
	if strings.IndexFunc(s, func(r rune) bool { return r > unicode.MaxASCII }) >= 0 {
		return nil, ErrEncoding
	}
	payload, err := addresscodec.Base58CheckDecode(s)
	switch {
	case errors.Is(err, addresscodec.ErrChecksum):
		return nil, ErrChecksum
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrLength, err)
	}
	return payload, nil
}

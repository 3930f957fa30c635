package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	xrplcrypto "github.com/Peersyst/xrpl-go/pkg/crypto"
	"github.com/Peersyst/xrpl-go/xrpl/hash"

	"LedgerTools/internal/crypto"
)

// Signed is a signed transaction ready for submission.
type Signed struct {
	Record map[string]any
	Blob   string
	Hash   string
}

type Signer struct {
	Codec Codec
}

// Sign fills SigningPubKey and TxnSignature for the keypair and encodes
// the result.
func (s Signer) Sign(record map[string]any, kp *crypto.Keypair) (*Signed, error) {
	rec := make(map[string]any, len(record)+2)
	for k, v := range record {
		rec[k] = v
	}
	delete(rec, "TxnSignature")
	rec["SigningPubKey"] = kp.PublicHex()

	payload, err := s.Codec.EncodeForSigning(rec)
	if err != nil {
		return nil, fmt.Errorf("encode for signing: %w", err)
	}
	msg, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("signing payload: %w", err)
	}
	sig, err := kp.Sign(msg)
	if err != nil {
		return nil, err
	}
	rec["TxnSignature"] = strings.ToUpper(hex.EncodeToString(sig))

	blob, err := s.Codec.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("encode signed: %w", err)
	}
	txHash, err := TransactionHash(blob)
	if err != nil {
		return nil, err
	}
	return &Signed{Record: rec, Blob: blob, Hash: txHash}, nil
}

// TransactionHash is SHA512Half("TXN\0" || blob) in upper-case hex.
func TransactionHash(blob string) (string, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("blob: %w", err)
	}
	payload := binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(raw)), hash.TransactionPrefix)
	return strings.ToUpper(hex.EncodeToString(xrplcrypto.Sha512Half(append(payload, raw...)))), nil
}

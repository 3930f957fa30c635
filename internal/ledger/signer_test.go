package ledger

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/fields"
)

// jsonCodec encodes records as hex JSON; the signing form drops TxnSignature.
type jsonCodec struct{}

func (jsonCodec) Encode(rec map[string]any) (string, error) {
	b, err := json.Marshal(rec)
	return hex.EncodeToString(b), err
}

func (jsonCodec) Decode(blob string) (map[string]any, error) {
	b, err := hex.DecodeString(blob)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	return out, json.Unmarshal(b, &out)
}

func (c jsonCodec) EncodeForSigning(rec map[string]any) (string, error) {
	cp := map[string]any{}
	for k, v := range rec {
		if k != "TxnSignature" {
			cp[k] = v
		}
	}
	return c.Encode(cp)
}

func TestSignerSignsForSigningPayload(t *testing.T) {
	for _, alg := range []crypto.Algorithm{crypto.Ed25519, crypto.Secp256k1} {
		kp, err := crypto.DeriveKeypair(bytes.Repeat([]byte{3}, crypto.SeedLength), alg)
		require.NoError(t, err)

		rec := map[string]any{"TransactionType": "Payment", "Account": kp.Address(), "TxnSignature": "stale"}
		signed, err := Signer{Codec: jsonCodec{}}.Sign(rec, kp)
		require.NoError(t, err)

		assert.Equal(t, kp.PublicHex(), signed.Record["SigningPubKey"])
		assert.Equal(t, "stale", rec["TxnSignature"], "input record is not mutated")

		payload, err := jsonCodec{}.EncodeForSigning(signed.Record)
		require.NoError(t, err)
		msg, _ := hex.DecodeString(payload)
		sig, err := hex.DecodeString(signed.Record["TxnSignature"].(string))
		require.NoError(t, err)
		assert.True(t, kp.Verify(msg, sig), alg)

		hash, err := TransactionHash(signed.Blob)
		require.NoError(t, err)
		assert.Equal(t, hash, signed.Hash)
		assert.Len(t, signed.Hash, 64)
	}
}

func TestTransactionHashRejectsBadHex(t *testing.T) {
	_, err := TransactionHash("xyz")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	issue := fields.Issue{Currency: "USD", Issuer: "rIssuer"}
	rec := map[string]any{
		"Sequence":   uint64(7),
		"Amount":     fields.IssuedAmount{Issue: issue, Value: "1"},
		"Asset":      issue,
		"Fee":        "12",
		"Flags":      json.Number("131072"),
		"TickSize":   uint64(5),
		"TradingFee": 500,
		"Creds":      []any{map[string]any{"Credential": map[string]any{"Expiration": uint64(5)}}},
	}
	got, err := Normalize(rec)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got["Sequence"])
	assert.Equal(t, map[string]any{"currency": "USD", "issuer": "rIssuer", "value": "1"}, got["Amount"])
	assert.Equal(t, map[string]any{"currency": "USD", "issuer": "rIssuer"}, got["Asset"])
	assert.Equal(t, "12", got["Fee"])
	assert.Equal(t, uint32(131072), got["Flags"])
	assert.Equal(t, 5, got["TickSize"])
	assert.Equal(t, 500, got["TradingFee"])
	assert.Equal(t, []any{map[string]any{"Credential": map[string]any{"Expiration": uint32(5)}}}, got["Creds"])
	assert.Equal(t, uint64(7), rec["Sequence"], "input record is not mutated")
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	cases := map[string]map[string]any{
		"uint32 overflow": {"Sequence": uint64(1) << 32},
		"uint8 overflow":  {"TickSize": uint64(300)},
		"uint16 overflow": {"TradingFee": uint64(70000)},
		"negative":        {"Flags": -1},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(rec)
			assert.Error(t, err)
		})
	}
}

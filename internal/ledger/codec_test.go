package ledger

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/fields"
	"LedgerTools/internal/txspec"
)

const (
	genesis = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	issuer  = "rn5M6BQCmQAzBxms9A84qEpx1Fdn9y7jdD"
	zero    = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
)

func usd(value string) fields.IssuedAmount {
	return fields.IssuedAmount{Issue: fields.Issue{Currency: "USD", Issuer: issuer}, Value: value}
}

func depositPreauthRecord(t *testing.T) map[string]any {
	t.Helper()
	s, err := txspec.Lookup("DepositPreauth")
	require.NoError(t, err)
	d := txspec.Draft{
		"Account":                   genesis,
		"AuthorizeCredentialType":   "4B5943",
		"AuthorizeCredentialIssuer": zero,
		"Sequence":                  uint64(3),
		"Fee":                       "12",
	}
	s.Preprocess(d)
	return d.Record(s.Name)
}

func TestXRPLCodecRoundTrip(t *testing.T) {
	longCode, r := fields.ParseAmount("10 RLUSD:" + issuer)
	require.True(t, r.Accepted())

	cases := []struct {
		name   string
		record map[string]any
		want   map[string]any
	}{
		{
			name: "native payment",
			record: map[string]any{
				"TransactionType": "Payment",
				"Account":         genesis,
				"Destination":     issuer,
				"Amount":          "1000000",
				"Fee":             "12",
				"Sequence":        uint64(5),
				"Flags":           uint64(0x00020000),
			},
			want: map[string]any{
				"TransactionType": "Payment",
				"Amount":          "1000000",
				"Fee":             "12",
				"Sequence":        uint32(5),
				"Flags":           uint32(0x00020000),
			},
		},
		{
			name: "issued payment",
			record: map[string]any{
				"TransactionType": "Payment",
				"Account":         genesis,
				"Destination":     zero,
				"DestinationTag":  uint64(9),
				"Amount":          usd("1.5"),
				"SendMax":         "2000000",
				"Fee":             "12",
				"Sequence":        uint64(6),
			},
			want: map[string]any{
				"Amount":         map[string]any{"currency": "USD", "issuer": issuer, "value": "1.5"},
				"SendMax":        "2000000",
				"DestinationTag": uint32(9),
			},
		},
		{
			name: "long currency code",
			record: map[string]any{
				"TransactionType": "Payment",
				"Account":         genesis,
				"Destination":     zero,
				"Amount":          longCode,
				"Fee":             "12",
				"Sequence":        uint64(7),
			},
			want: map[string]any{
				"Amount": map[string]any{
					"currency": "524C555344000000000000000000000000000000",
					"issuer":   issuer,
					"value":    "10",
				},
			},
		},
		{
			name: "account set",
			record: map[string]any{
				"TransactionType": "AccountSet",
				"Account":         genesis,
				"TickSize":        uint64(5),
				"EmailHash":       "0123456789ABCDEF0123456789ABCDEF",
				"SetFlag":         uint64(8),
				"Domain":          "6578616D706C652E636F6D",
				"Fee":             "12",
				"Sequence":        uint64(1),
			},
			want: map[string]any{
				"TransactionType": "AccountSet",
				"TickSize":        5,
				"EmailHash":       "0123456789ABCDEF0123456789ABCDEF",
				"SetFlag":         uint32(8),
				"Domain":          "6578616D706C652E636F6D",
			},
		},
		{
			name:   "deposit preauth with credentials",
			record: depositPreauthRecord(t),
			want: map[string]any{
				"TransactionType": "DepositPreauth",
				"AuthorizeCredentials": []any{
					map[string]any{"Credential": map[string]any{
						"CredentialType": "4B5943",
						"Issuer":         zero,
					}},
				},
			},
		},
		{
			name: "amm create",
			record: map[string]any{
				"TransactionType": "AMMCreate",
				"Account":         genesis,
				"Amount":          "25000000",
				"Amount2":         usd("250"),
				"TradingFee":      uint64(500),
				"Fee":             "12",
				"Sequence":        uint64(2),
			},
			want: map[string]any{
				"TransactionType": "AMMCreate",
				"Amount":          "25000000",
				"Amount2":         map[string]any{"currency": "USD", "issuer": issuer, "value": "250"},
				"TradingFee":      500,
			},
		},
	}

	codec := XRPLCodec{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := codec.Encode(tc.record)
			require.NoError(t, err)

			got, err := codec.Decode(blob)
			require.NoError(t, err)
			for k, v := range tc.want {
				assert.Equal(t, v, got[k], k)
			}
			assert.Equal(t, tc.record["Account"], got["Account"])

			again, err := codec.Encode(got)
			require.NoError(t, err)
			assert.Equal(t, blob, again, "decoded record encodes to the same blob")

			kp, err := crypto.DeriveKeypair(bytes.Repeat([]byte{9}, crypto.SeedLength), crypto.Ed25519)
			require.NoError(t, err)
			signed, err := Signer{Codec: codec}.Sign(tc.record, kp)
			require.NoError(t, err)

			decoded, err := codec.Decode(signed.Blob)
			require.NoError(t, err)
			assert.Equal(t, kp.PublicHex(), decoded["SigningPubKey"])

			payload, err := codec.EncodeForSigning(decoded)
			require.NoError(t, err)
			msg, err := hex.DecodeString(payload)
			require.NoError(t, err)
			sig, err := hex.DecodeString(decoded["TxnSignature"].(string))
			require.NoError(t, err)
			assert.True(t, kp.Verify(msg, sig))
		})
	}
}

// sampleValue is a valid draft value for each field type.
func sampleValue(t fields.Type) any {
	switch t {
	case fields.AccountID:
		return zero
	case fields.UInt8, fields.UInt16, fields.UInt32:
		return uint64(1)
	case fields.Hash128:
		return "0123456789ABCDEF0123456789ABCDEF"
	case fields.Hash256:
		return "0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF"
	case fields.Blob:
		return "AB"
	case fields.Amount:
		return "1"
	}
	return nil
}

func TestEveryTransactionTypeEncodes(t *testing.T) {
	codec := XRPLCodec{}
	for _, name := range txspec.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := txspec.Lookup(name)
			require.NoError(t, err)
			d := txspec.Draft{}
			for _, f := range s.FormFields() {
				v := sampleValue(f.Type)
				require.NotNil(t, v, "%s has no encodable sample", f.Key)
				d[f.Key] = v
			}
			d["Account"] = genesis
			if s.Preprocess != nil {
				s.Preprocess(d)
			}
			blob, err := codec.Encode(d.Record(s.Name))
			require.NoError(t, err)
			got, err := codec.Decode(blob)
			require.NoError(t, err)
			assert.Equal(t, s.Name, got["TransactionType"])
			assert.Len(t, got, len(d)+1)
		})
	}
}

func TestXRPLCodecSignsWithSecp256k1(t *testing.T) {
	kp, err := crypto.KeypairFromSeed("snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.NoError(t, err)
	rec := map[string]any{
		"TransactionType": "Payment",
		"Account":         kp.Address(),
		"Destination":     issuer,
		"Amount":          "1",
		"Fee":             "10",
		"Sequence":        uint64(1),
	}
	signed, err := Signer{Codec: XRPLCodec{}}.Sign(rec, kp)
	require.NoError(t, err)

	hash, err := TransactionHash(signed.Blob)
	require.NoError(t, err)
	assert.Equal(t, signed.Hash, hash)

	payload, err := XRPLCodec{}.EncodeForSigning(signed.Record)
	require.NoError(t, err)
	msg, _ := hex.DecodeString(payload)
	sig, err := hex.DecodeString(signed.Record["TxnSignature"].(string))
	require.NoError(t, err)
	assert.True(t, kp.Verify(msg, sig))
}

func TestXRPLCodecReturnsErrorsInsteadOfPanicking(t *testing.T) {
	cases := map[string]map[string]any{
		"issued amount without issuer": {
			"TransactionType": "Payment",
			"Account":         genesis,
			"Amount":          map[string]any{"currency": "USD", "value": "1"},
		},
		"currency and issuer pair": {
			"TransactionType": "AMMDeposit",
			"Account":         genesis,
			"Asset":           fields.Issue{Currency: fields.NativeCurrency},
			"Asset2":          fields.Issue{Currency: "USD", Issuer: issuer},
		},
		"sequence wider than 32 bits": {
			"TransactionType": "Payment",
			"Account":         genesis,
			"Sequence":        uint64(1) << 40,
		},
		"tick size wider than 8 bits": {
			"TransactionType": "AccountSet",
			"Account":         genesis,
			"TickSize":        uint64(256),
		},
		"unknown transaction type": {
			"TransactionType": "NotATransaction",
			"Account":         genesis,
		},
	}
	codec := XRPLCodec{}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := codec.Encode(rec)
				assert.Error(t, err)
				_, err = codec.EncodeForSigning(rec)
				assert.Error(t, err)
			})
		})
	}

	assert.NotPanics(t, func() {
		_, err := codec.Decode("12")
		assert.Error(t, err)
	})
}

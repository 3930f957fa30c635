package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genesisSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	genesisAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	genesisPublic  = "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020"
)

func TestEncodeAccountIDZero(t *testing.T) {
	addr, err := EncodeAccountID(make([]byte, AccountIDLength))
	require.NoError(t, err)
	assert.Equal(t, "rrrrrrrrrrrrrrrrrrrrrhoLvTp", addr)

	_, err = EncodeAccountID(make([]byte, 19))
	assert.ErrorIs(t, err, ErrLength)
}

func TestIsValidClassicAddress(t *testing.T) {
	cases := map[string]bool{
		genesisAddress:                       true,
		"rrrrrrrrrrrrrrrrrrrrrhoLvTp":        true,
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTi": false,
		"":                                   false,
		"0x52908400098527886E0F7030069857D2E4169EE7": false,
		genesisSeed:                          false,
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTé": false,
		"r":                                  false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidClassicAddress(in), in)
	}
}

func TestGenesisSecp256k1(t *testing.T) {
	kp, err := KeypairFromSeed(genesisSeed)
	require.NoError(t, err)
	assert.Equal(t, Secp256k1, kp.Algorithm)
	assert.Equal(t, genesisPublic, kp.PublicHex())
	assert.Equal(t, genesisAddress, kp.Address())
}

func TestEd25519SeedVector(t *testing.T) {
	kp, err := KeypairFromSeed("sEd7io6yt5dFJrcePgRiFVHvmkJhJD1")
	require.NoError(t, err)
	assert.Equal(t, Ed25519, kp.Algorithm)
	assert.Equal(t, "EDC9DA1AA7513D891B58B3C9BEBAE3EB12620AFF4ABBA806B23BB3FA62109CE87F", kp.PublicHex())
	assert.Equal(t, "EDE01A1644C9FDE0367A7A285CA69798066C131C1133E1128B170CA65AEA5C6D19", kp.PrivateHex())
	assert.Equal(t, "rn5M6BQCmQAzBxms9A84qEpx1Fdn9y7jdD", kp.Address())
}

func TestDeriveMatchesFamilySeed(t *testing.T) {
	for _, alg := range []Algorithm{Ed25519, Secp256k1} {
		raw := bytes.Repeat([]byte{0x42}, SeedLength)
		direct, err := DeriveKeypair(raw, alg)
		require.NoError(t, err)
		s, err := EncodeSeed(raw, alg)
		require.NoError(t, err)
		viaSeed, err := KeypairFromSeed(s)
		require.NoError(t, err)
		assert.Equal(t, direct.PublicHex(), viaSeed.PublicHex(), alg)
		assert.Equal(t, direct.PrivateHex(), viaSeed.PrivateHex(), alg)
		assert.Len(t, direct.PrivateHex(), 66, alg)
	}
}

func TestSeedRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0xA5}, SeedLength)
	for _, alg := range []Algorithm{Ed25519, Secp256k1} {
		s, err := EncodeSeed(raw, alg)
		require.NoError(t, err)
		if alg == Ed25519 {
			assert.True(t, len(s) > 3 && s[:3] == "sEd", s)
		} else {
			assert.Equal(t, byte('s'), s[0])
		}
		got, gotAlg, err := DecodeSeed(s)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
		assert.Equal(t, alg, gotAlg)
	}
}

func TestDecodeSeedRejectsAddress(t *testing.T) {
	_, _, err := DecodeSeed(genesisAddress)
	assert.ErrorIs(t, err, ErrLength)

	_, _, err = DecodeSeed("snoPBrXtMeMyMHUVTgbuqAfg1SUTc")
	assert.ErrorIs(t, err, ErrChecksum)

	_, _, err = DecodeSeed("sé")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestGenerateSeedUsesEntropyPrefix(t *testing.T) {
	fill := bytes.NewReader(bytes.Repeat([]byte{0x01}, 32))
	seed, err := GenerateSeed([]byte("hello"), fill)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), seed[:5])
	assert.Equal(t, bytes.Repeat([]byte{0x01}, SeedLength-5), seed[5:])

	long := bytes.Repeat([]byte("x"), 40)
	seed, err = GenerateSeed(long, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, long[:SeedLength], seed)

	_, err = GenerateSeed(nil, bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	msg := []byte("payload to sign")
	for _, alg := range []Algorithm{Ed25519, Secp256k1} {
		kp, err := DeriveKeypair(bytes.Repeat([]byte{7}, SeedLength), alg)
		require.NoError(t, err)
		sig, err := kp.Sign(msg)
		require.NoError(t, err)
		assert.True(t, kp.Verify(msg, sig), alg)
		assert.False(t, kp.Verify([]byte("other"), sig), alg)
	}
}

func TestPrivateHexRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Ed25519, Secp256k1} {
		kp, err := DeriveKeypair(bytes.Repeat([]byte{9}, SeedLength), alg)
		require.NoError(t, err)
		back, err := KeypairFromPrivateHex(kp.PrivateHex())
		require.NoError(t, err)
		assert.Equal(t, kp.Address(), back.Address())
	}
	_, err := KeypairFromPrivateHex("zz")
	assert.ErrorIs(t, err, ErrPrivateKey)
}

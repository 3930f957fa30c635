package mnemonic

import (
	"fmt"
	"strings"

	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	bip39 "github.com/tyler-smith/go-bip39"

	"LedgerTools/internal/crypto"
)

// PathTemplate is the BIP-44 path for ledger accounts (coin type 144).
const PathTemplate = "m/44'/144'/0'/0/%d"

type Derived struct {
	Index   int
	Path    string
	Keypair *crypto.Keypair
	Address string
}

// IsBIP39 reports whether phrase is a valid BIP-39 mnemonic. Ledger codec
// phrases never collide: a seed frame is 13 words.
func IsBIP39(phrase string) bool {
	return bip39.IsMnemonicValid(normalize(phrase))
}

// DeriveBIP44 derives n secp256k1 accounts from a BIP-39 phrase.
func DeriveBIP44(phrase, passphrase string, n int) ([]Derived, error) {
	if n <= 0 {
		n = 1
	}
	phrase = normalize(phrase)
	if !bip39.IsMnemonicValid(phrase) {
		return nil, fmt.Errorf("invalid bip39 mnemonic")
	}
	seed := bip39.NewSeed(phrase, passphrase)
	w, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return nil, err
	}
	out := make([]Derived, 0, n)
	for i := 0; i < n; i++ {
		pathStr := fmt.Sprintf(PathTemplate, i)
		acct, err := w.Derive(hdwallet.MustParseDerivationPath(pathStr), false)
		if err != nil {
			return nil, err
		}
		priv, err := w.PrivateKey(acct)
		if err != nil {
			return nil, err
		}
		kp := crypto.FromECDSA(priv)
		out = append(out, Derived{
			Index:   i,
			Path:    pathStr,
			Keypair: kp,
			Address: kp.Address(),
		})
	}
	return out, nil
}

func normalize(phrase string) string {
	return strings.ToLower(strings.Join(strings.Fields(phrase), " "))
}

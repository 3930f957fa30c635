package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/vanity"
	"LedgerTools/internal/wallet"
	"LedgerTools/pkg/config"
	"LedgerTools/pkg/logx"
)

// presetPrefix marks a vanity criterion as a preset name from the
// patterns file instead of a regular expression.
const presetPrefix = "@"

// CreateWallet draws a new ed25519 seed, optionally by vanity search, and
// prints its address, family seed and mnemonic.
func (a *App) CreateWallet(ctx context.Context, entropy string, askEntropy bool) error {
	t := a.Term
	if askEntropy {
		var err error
		entropy, err = t.Ask(ctx, "entropy for seed", "optional")
		if err != nil {
			return err
		}
	}
	fixed, fill := wallet.EntropyPolicy(entropy)

	var seed []byte
	if fill > 0 {
		if len(fixed) > 0 {
			t.Notify(fmt.Sprintf("got %d bytes of user entropy, filling %d bytes with system entropy", len(fixed), fill))
		}
		expr, caseSensitive, err := a.askCriteria(ctx)
		if err != nil {
			return err
		}
		if expr != "" {
			res, err := a.searchVanity(ctx, expr, caseSensitive, fixed)
			if err != nil {
				return err
			}
			seed = res.Seed
		}
	}
	if seed == nil {
		var err error
		if seed, err = wallet.NewSeed(fixed, nil); err != nil {
			return err
		}
	}

	pass, err := a.askNewPassphrase(ctx)
	if err != nil {
		return err
	}
	created, err := wallet.Finish(seed, crypto.Ed25519, pass)
	if err != nil {
		return err
	}

	t.Notify("")
	t.Notify("wallet address: " + cyan(created.Address))
	t.Notify("wallet seed: " + cyan(created.FamilySeed))
	t.Notify("wallet mnemonic: " + cyan(created.Mnemonic))
	if created.Encrypted {
		t.Notify(faint("seed and mnemonic are passphrase protected; the passphrase is needed to use them"))
	}
	return nil
}

// askCriteria returns a vanity expression, or "" when the operator wants
// none. "@name" selects a preset from the patterns file.
func (a *App) askCriteria(ctx context.Context) (string, bool, error) {
	var expr string
	caseSensitive := true
	_, err := a.Term.AskValid(ctx, "wallet address criteria in regex format", "optional, @preset for a saved pattern", func(s string) error {
		expr, caseSensitive = s, true
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, presetPrefix) {
			cfg, err := config.Load(a.Cfg.PatternsPath)
			if err != nil {
				return err
			}
			p, ok := cfg.Find(strings.TrimPrefix(s, presetPrefix))
			if !ok {
				return fmt.Errorf("no preset %q in %s", strings.TrimPrefix(s, presetPrefix), a.Cfg.PatternsPath)
			}
			expr, caseSensitive = p.Pattern, cfg.CaseSensitive
		}
		_, err := vanity.Compile(expr, caseSensitive)
		return err
	})
	return expr, caseSensitive, err
}

func (a *App) searchVanity(ctx context.Context, expr string, caseSensitive bool, fixed []byte) (vanity.Result, error) {
	t := a.Term
	sctx, stop := withInterrupt(ctx)
	defer stop()

	workers := a.Cfg.Cores
	t.Notify("")
	t.Notify(fmt.Sprintf("performing vanity search with %d workers", effectiveWorkers(workers)))
	t.Notify("")

	found := 0
	results, err := vanity.Search(sctx, vanity.Options{
		Pattern:       expr,
		CaseSensitive: caseSensitive,
		Algorithm:     crypto.Ed25519,
		Workers:       workers,
		Entropy:       fixed,
		StopAfter:     a.Cfg.VanityStopAfter,
		OnProgress: func(p vanity.Progress) {
			fmt.Fprintf(t.out, "\rsearched %d keypairs (%.0f/s)... press CTRL+C to stop", p.Total, p.Rate())
		},
		OnFound: func(r vanity.Result) {
			found++
			fmt.Fprintf(t.out, "\r\033[K[%s] %s\n", cyan(found), r.Address)
		},
	})
	fmt.Fprintln(t.out)
	if err != nil {
		if errors.Is(err, vanity.ErrNoMatch) {
			t.Notify("no wallets found")
		}
		return vanity.Result{}, err
	}
	// workers drain after StopAfter is reached; every printed match stays selectable
	if len(results) == 1 {
		return results[0], nil
	}

	var chosen vanity.Result
	_, err = t.AskValid(ctx, fmt.Sprintf("select wallet from above (1-%d)", len(results)), "", func(s string) error {
		r, err := vanity.Choose(results, s)
		chosen = r
		return err
	})
	return chosen, err
}

func (a *App) askNewPassphrase(ctx context.Context) (string, error) {
	t := a.Term
	for {
		pass, err := t.Secret(ctx, "passphrase to encrypt the seed (enter for none)")
		if err != nil {
			return "", err
		}
		if pass == "" {
			return "", nil
		}
		again, err := t.Secret(ctx, "repeat passphrase")
		if err != nil {
			return "", err
		}
		if again == pass {
			return pass, nil
		}
		t.Notify(red("passphrases do not match - try again"))
	}
}

// AskCredentials reads a secret and, for seeds, an optional passphrase,
// then has the operator confirm the derived address. A refused address
// starts over; there is no attempt limit.
func (a *App) AskCredentials(ctx context.Context, label string) (*wallet.Credentials, error) {
	t := a.Term
	for {
		raw, err := t.Secret(ctx, label+" (seed, mnemonic or private key)")
		if err != nil {
			return nil, err
		}
		s, err := wallet.ParseSecret(raw)
		if err != nil {
			t.Notify(red(err.Error()))
			continue
		}
		var pass string
		if s.Protectable() {
			if pass, err = t.Secret(ctx, "passphrase (enter for none)"); err != nil {
				return nil, err
			}
		}
		c, err := s.Unlock(pass)
		if err != nil {
			t.Notify(red(err.Error()))
			continue
		}

		t.Notify("")
		t.Notify(fmt.Sprintf("%s (%s)", s.Kind, s.Algorithm))
		if s.Path != "" {
			t.Notify("derivation path: " + s.Path)
		}
		t.Notify("wallet address: " + cyan(c.Address))
		ok, err := t.Confirm(ctx, "is this the expected address?")
		if err != nil {
			return nil, err
		}
		if ok {
			logx.S().Infow("credentials unlocked", "address", c.Address, "kind", s.Kind.String())
			return c, nil
		}
		t.Notify(red("address not confirmed - check the secret and passphrase"))
	}
}

// VerifyWallet unlocks a secret and shows its address.
func (a *App) VerifyWallet(ctx context.Context) error {
	c, err := a.AskCredentials(ctx, "wallet secret")
	if err != nil {
		return err
	}
	a.Term.Notify(green("verified ") + c.Address)
	return nil
}

func effectiveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

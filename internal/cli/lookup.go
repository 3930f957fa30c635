package cli

import (
	"context"
	"errors"
	"fmt"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/fields"
	"LedgerTools/internal/ledger"
	"LedgerTools/internal/ops/encdec"
	"LedgerTools/pkg/config"
)

func (a *App) LookupAccount(ctx context.Context, account string) error {
	t := a.Term
	if account == "" {
		var err error
		account, err = t.AskValid(ctx, "account address", "", func(s string) error {
			if !crypto.IsValidClassicAddress(s) {
				return errors.New("not a valid r-address")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	c, err := a.Client(ctx)
	if err != nil {
		return err
	}
	t.Notify(faint("reading account " + account))
	info, err := c.AccountInfo(ctx, account)
	if err != nil {
		if ledger.IsNotFound(err) {
			return fmt.Errorf("account %s does not exist on this network", account)
		}
		return err
	}
	objects, err := c.AccountObjects(ctx, account)
	if err != nil {
		return err
	}
	t.Notify("")
	t.Show("account info", info.AccountData)
	if len(objects) > 0 {
		t.Show("account objects", objects)
	}
	return nil
}

func (a *App) LookupObject(ctx context.Context, index string) error {
	t := a.Term
	if index == "" {
		var err error
		index, err = t.AskValid(ctx, "ledger object index", "hex", func(s string) error {
			if r := fields.Hash256.Validate(s); !r.Accepted() {
				return errors.New(string(r))
			}
			return nil
		})
		if err != nil {
			return err
		}
	} else if r := fields.Hash256.Validate(index); !r.Accepted() {
		return fmt.Errorf("index: %s", r)
	}
	c, err := a.Client(ctx)
	if err != nil {
		return err
	}
	node, err := c.LedgerEntry(ctx, index)
	if err != nil {
		if ledger.IsNotFound(err) {
			return fmt.Errorf("no ledger object %s", index)
		}
		return err
	}
	t.Notify("")
	t.Show("ledger object", node)
	return nil
}

// EncryptSeeds runs the batch protection job over inputs/encrypt/seeds.txt.
func (a *App) EncryptSeeds(ctx context.Context) error {
	t := a.Term
	pass, err := a.askNewPassphrase(ctx)
	if err != nil {
		return err
	}
	if pass == "" {
		return encdec.ErrNoPassphrase
	}
	hint, err := t.Ask(ctx, a.Msg.HintPrompt, "")
	if err != nil {
		return err
	}
	jctx, stop := withInterrupt(ctx)
	defer stop()
	sum, err := encdec.EncryptSeeds(jctx, encdec.EncryptOptions{
		InputsBaseDir:        a.Cfg.InputsDir,
		LogsBase:             a.Cfg.LogsDir,
		Passphrase:           pass,
		PassHint:             hint,
		HideSecretsInConsole: a.Cfg.HideSecretsInConsole,
	})
	if err != nil {
		return err
	}
	t.Notify(fmt.Sprintf("encrypted %d of %d seeds into %s", sum.OK, sum.Total, sum.Dir))
	return nil
}

// DecryptSeeds unlocks inputs/decrypt/*.jsonl in memory. Verified addresses
// are listed; seeds are printed only when the operator asks for them.
func (a *App) DecryptSeeds(ctx context.Context) error {
	t := a.Term
	pass, err := t.Secret(ctx, a.Msg.PassphrasePrompt)
	if err != nil {
		return err
	}
	jctx, stop := withInterrupt(ctx)
	defer stop()
	sum, err := encdec.DecryptSeeds(jctx, encdec.DecryptOptions{
		InputsBaseDir: a.Cfg.InputsDir,
		LogsBase:      a.Cfg.LogsDir,
		Passphrase:    pass,
	})
	if err != nil {
		return err
	}
	t.Notify(fmt.Sprintf("unlocked %d of %d records; addresses listed in %s", sum.OK, sum.Total, sum.Dir))
	if sum.Failed > 0 {
		t.Notify(red(fmt.Sprintf("%d records failed; see app.log", sum.Failed)))
	}
	if len(sum.Unlocked) == 0 {
		return nil
	}
	for i, u := range sum.Unlocked {
		fmt.Fprintf(t.out, "[%d] %s\n", i+1, u.Address)
	}
	show, err := t.Confirm(ctx, "show the unlocked seeds on screen")
	if err != nil || !show {
		return err
	}
	for _, u := range sum.Unlocked {
		fmt.Fprintf(t.out, "%s %s\n", u.Address, cyan(u.Seed))
	}
	return nil
}

// ShowPatterns prints the vanity presets file.
func (a *App) ShowPatterns() error {
	t := a.Term
	cfg, err := config.Load(a.Cfg.PatternsPath)
	if err != nil {
		t.Notify(a.Msg.ConfigNotLoaded)
		return err
	}
	t.Notify(a.Msg.ConfigHeader)
	fmt.Fprintf(t.out, a.Msg.ConfigCaseSensitive, cfg.CaseSensitive)
	t.Notify(a.Msg.ConfigRegexp)
	for _, p := range cfg.Regexp {
		fmt.Fprintf(t.out, "  %s%-16s %s\n", presetPrefix, p.Name, p.Pattern)
	}
	return nil
}

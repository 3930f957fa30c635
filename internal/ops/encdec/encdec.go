// Package encdec runs batch passphrase protection over files of seeds.
package encdec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"LedgerTools/internal/crypto"
	"LedgerTools/internal/keystore"
	"LedgerTools/internal/logsink"
	"LedgerTools/internal/wallet"
	"LedgerTools/pkg/logx"
)

var ErrNoPassphrase = errors.New("passphrase is required")

// EncryptOptions controls the encryption job.
type EncryptOptions struct {
	InputsBaseDir        string // e.g. "inputs"
	LogsBase             string // e.g. "logs"
	Passphrase           string // required
	PassHint             string // optional text stored next to the output
	HideSecretsInConsole bool
}

// DecryptOptions controls the decryption job.
type DecryptOptions struct {
	InputsBaseDir string
	LogsBase      string
	Passphrase    string
}

// Unlocked is a record whose seed derived its recorded address.
type Unlocked struct {
	Address string
	Seed    string // family seed
}

// Summary counts what a job did.
type Summary struct {
	Dir    string
	Total  int
	OK     int
	Failed int

	// Unlocked is filled by DecryptSeeds and never leaves memory.
	Unlocked []Unlocked
}

// EncryptSeeds reads inputs/encrypt/seeds.txt (one family seed or ledger
// mnemonic per line, # for comments) and writes
//
//	logs/encrypt/<DD.MM.YYYY>/encrypt_<HH-MM-SS>/app.log
//	logs/encrypt/.../all.jsonl (one protected record per line)
func EncryptSeeds(ctx context.Context, opt EncryptOptions) (*Summary, error) {
	if opt.Passphrase == "" {
		return nil, ErrNoPassphrase
	}
	dir, err := logsink.MakeModuleDirs(opt.LogsBase, "encrypt")
	if err != nil {
		return nil, err
	}
	_ = logsink.WriteHint(dir, opt.PassHint)

	app, closeLog, err := logx.Fork(filepath.Join(dir, "app.log"))
	if err != nil {
		return nil, fmt.Errorf("job log: %w", err)
	}
	defer closeLog()

	inFile := filepath.Join(opt.InputsBaseDir, "encrypt", "seeds.txt")
	f, err := os.Open(inFile)
	if err != nil {
		return nil, fmt.Errorf("open seeds.txt: %w", err)
	}
	defer f.Close()

	app.Infow("encrypt started", "inputs", inFile, "out", dir)

	sum := &Summary{Dir: dir}
	allPath := filepath.Join(dir, "all.jsonl")
	start := time.Now()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		sum.Total++

		rec, err := protectOne(raw, opt.Passphrase)
		if err != nil {
			sum.Failed++
			app.Errorw("protect failed", "line", line, "err", err)
			continue
		}
		if err := keystore.AppendRecord(allPath, *rec); err != nil {
			sum.Failed++
			app.Errorw("append jsonl failed", "address", rec.Address, "err", err)
			continue
		}
		sum.OK++
		if opt.HideSecretsInConsole {
			app.Infow("ENCRYPTED", "address", rec.Address)
		} else {
			app.Infow("ENCRYPTED", "address", rec.Address, "seed", raw)
		}
	}
	if err := sc.Err(); err != nil {
		return sum, fmt.Errorf("read seeds.txt: %w", err)
	}

	app.Infow("encrypt finished", "total", sum.Total, "ok", sum.OK, "failed", sum.Failed, "elapsed", time.Since(start).String())
	return sum, nil
}

func protectOne(raw, passphrase string) (*keystore.Record, error) {
	s, err := wallet.ParseSecret(raw)
	if err != nil {
		return nil, err
	}
	if !s.Protectable() {
		return nil, fmt.Errorf("%s: %w", s.Kind, wallet.ErrNotProtectable)
	}
	plain, err := s.Unlock("")
	if err != nil {
		return nil, err
	}
	created, err := wallet.Finish(plain.Seed, s.Algorithm, passphrase)
	if err != nil {
		return nil, err
	}
	return &keystore.Record{
		Address:       created.Address,
		Algorithm:     string(s.Algorithm),
		EncryptedSeed: created.FamilySeed,
		Mnemonic:      created.Mnemonic,
	}, nil
}

// DecryptSeeds reads inputs/decrypt/*.jsonl records written by EncryptSeeds
// and unlocks them in memory. Only the verified addresses are written, to
// logs/decrypt/.../addresses.txt; the seeds come back in Summary.Unlocked.
// A record whose seed does not derive its recorded address counts as failed.
func DecryptSeeds(ctx context.Context, opt DecryptOptions) (*Summary, error) {
	if opt.Passphrase == "" {
		return nil, ErrNoPassphrase
	}
	dir, err := logsink.MakeModuleDirs(opt.LogsBase, "decrypt")
	if err != nil {
		return nil, err
	}
	app, closeLog, err := logx.Fork(filepath.Join(dir, "app.log"))
	if err != nil {
		return nil, fmt.Errorf("job log: %w", err)
	}
	defer closeLog()

	inDir := filepath.Join(opt.InputsBaseDir, "decrypt")
	files, _ := filepath.Glob(filepath.Join(inDir, "*.jsonl"))
	sum := &Summary{Dir: dir}
	if len(files) == 0 {
		app.Warnw("no jsonl files found", "dir", inDir)
		return sum, nil
	}

	outF, err := os.OpenFile(filepath.Join(dir, "addresses.txt"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create addresses.txt: %w", err)
	}
	defer outF.Close()

	app.Infow("decrypt started", "inputs", inDir, "out", dir, "files", len(files))
	start := time.Now()

	for _, p := range files {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		err := keystore.ReadRecords(p, func(line int, rec keystore.Record, rerr error) {
			sum.Total++
			if rerr != nil {
				sum.Failed++
				app.Errorw("bad record", "file", p, "err", rerr)
				return
			}
			seed, err := unprotectOne(rec, opt.Passphrase)
			if err != nil {
				sum.Failed++
				app.Errorw("decrypt failed", "file", p, "line", line, "address", rec.Address, "err", err)
				return
			}
			if _, err := fmt.Fprintln(outF, rec.Address); err != nil {
				sum.Failed++
				app.Errorw("write failed", "err", err)
				return
			}
			sum.OK++
			sum.Unlocked = append(sum.Unlocked, Unlocked{Address: rec.Address, Seed: seed})
			app.Infow("DECRYPTED", "address", rec.Address)
		})
		if err != nil {
			app.Errorw("read jsonl failed", "file", p, "err", err)
		}
	}

	app.Infow("decrypt finished", "total", sum.Total, "ok", sum.OK, "failed", sum.Failed, "elapsed", time.Since(start).String())
	return sum, nil
}

func unprotectOne(rec keystore.Record, passphrase string) (string, error) {
	src := rec.EncryptedSeed
	if src == "" {
		src = rec.Mnemonic
	}
	s, err := wallet.ParseSecret(src)
	if err != nil {
		return "", err
	}
	if rec.Algorithm != "" {
		s.Algorithm = crypto.Algorithm(rec.Algorithm)
	}
	c, err := s.UnlockExpecting(passphrase, rec.Address)
	if err != nil {
		return "", err
	}
	return crypto.EncodeSeed(c.Seed, s.Algorithm)
}

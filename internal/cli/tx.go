package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"LedgerTools/internal/ledger"
	"LedgerTools/internal/mnemonic"
	"LedgerTools/internal/txspec"
	"LedgerTools/pkg/logx"
)

var hexBlob = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

// CreateTx builds a transaction of typeName, asking for the type when it
// is empty, and then signs or prints it.
func (a *App) CreateTx(ctx context.Context, typeName string) error {
	t := a.Term
	if typeName == "" {
		names := txspec.Names()
		labels := make([]string, len(names))
		for i, n := range names {
			spec, _ := txspec.Lookup(n)
			labels[i] = fmt.Sprintf("%s %s", n, faint(spec.Description))
		}
		idx, err := t.Choice(ctx, "transaction type", labels)
		if err != nil {
			return err
		}
		typeName = names[idx]
	}
	spec, err := txspec.Lookup(typeName)
	if err != nil {
		return err
	}

	t.Notify(faint(fmt.Sprintf("%s: %s", spec.Name, spec.Description)))
	t.Notify(faint(fmt.Sprintf("enter %s to go back a field, %s to clear one", BackToken, ClearToken)))

	eng := txspec.New(spec, txspec.Collaborators{
		Prompter: t,
		Querier:  lazyQuerier{app: a},
		Codec:    a.Codec,
		Signer:   termSigner{app: a},
	})
	res, err := eng.Run(ctx)
	if err != nil {
		return err
	}
	return eng.Finalize(ctx, res)
}

// ParseTransaction reads a transaction given as JSON, a hex blob or a
// mnemonic and returns it as the codec decodes it.
func ParseTransaction(codec ledger.Codec, input string) (map[string]any, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return nil, errors.New("no input provided")
	case strings.HasPrefix(input, "{"):
		var rec map[string]any
		dec := json.NewDecoder(strings.NewReader(input))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("not valid json: %w", err)
		}
		blob, err := codec.Encode(rec)
		if err != nil {
			return nil, fmt.Errorf("malformed tx: %w", err)
		}
		return codec.Decode(blob)
	case hexBlob.MatchString(input):
		rec, err := codec.Decode(strings.ToUpper(input))
		if err != nil {
			return nil, fmt.Errorf("malformed blob: %w", err)
		}
		return rec, nil
	default:
		raw, err := mnemonic.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("bad mnemonic: %w", err)
		}
		rec, err := codec.Decode(strings.ToUpper(hex.EncodeToString(raw)))
		if err != nil {
			return nil, fmt.Errorf("bad mnemonic: %w", err)
		}
		return rec, nil
	}
}

// readMultiline collects lines until an empty one.
func (a *App) readMultiline(ctx context.Context, label, hint string) (string, error) {
	t := a.Term
	fmt.Fprintf(t.out, "%s %s\n", bold(label), faint("("+hint+", empty line to finish)"))
	var buf bytes.Buffer
	for {
		s, err := t.line(ctx)
		if err != nil {
			if errors.Is(err, ErrNoInput) && buf.Len() > 0 {
				break
			}
			return "", err
		}
		if strings.TrimSpace(s) == "" {
			if buf.Len() == 0 {
				continue
			}
			break
		}
		buf.WriteString(s)
		buf.WriteByte('\n')
	}
	text := strings.TrimSpace(buf.String())
	// a mnemonic pasted over several lines is still one phrase
	if !strings.HasPrefix(text, "{") {
		text = strings.Join(strings.Fields(text), " ")
	}
	return text, nil
}

// Sign asks for a transaction and signs it.
func (a *App) Sign(ctx context.Context) error {
	t := a.Term
	for {
		input, err := a.readMultiline(ctx, "transaction to sign", "json, hex or mnemonic")
		if err != nil {
			return err
		}
		rec, err := ParseTransaction(a.Codec, input)
		if err != nil {
			t.Notify(red(err.Error()))
			continue
		}
		t.Show("SIGNABLE PAYLOAD", rec)
		return a.SignRecord(ctx, rec)
	}
}

// SignRecord unlocks credentials, signs rec and lets the operator submit
// the result or print it as QR codes.
func (a *App) SignRecord(ctx context.Context, rec map[string]any) error {
	t := a.Term
	c, err := a.AskCredentials(ctx, "secret key to sign")
	if err != nil {
		return err
	}
	signed, err := ledger.Signer{Codec: a.Codec}.Sign(rec, c.Keypair)
	if err != nil {
		t.Notify(red("failed to sign: " + err.Error()))
		return err
	}
	logx.S().Infow("transaction signed", "address", c.Address, "hash", signed.Hash)

	t.Notify(green("signed") + " as " + c.Address)
	t.Notify("")
	t.Notify("signed blob:\n" + cyan(signed.Blob))
	t.Notify("")
	t.Show("signed json", signed.Record)
	t.Notify("hash: " + signed.Hash)

	for {
		t.Notify("")
		idx, err := t.Choice(ctx, "proceed with signed transaction", []string{
			"submit to network",
			"print blob as QR code",
			"done",
		})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return a.SubmitBlob(ctx, signed.Blob)
		case 1:
			if err := PrintQR(ctx, t, signed.Blob); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// Submit asks for a signed blob and submits it.
func (a *App) Submit(ctx context.Context) error {
	blob, err := a.Term.AskValid(ctx, "tx to submit", "hex", func(s string) error {
		if !hexBlob.MatchString(s) {
			return errors.New("not a hex blob")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return a.SubmitBlob(ctx, blob)
}

func (a *App) SubmitBlob(ctx context.Context, blob string) error {
	t := a.Term
	c, err := a.Client(ctx)
	if err != nil {
		return err
	}
	t.Notify(faint("submitting transaction to " + a.Cfg.NodeURL))
	res, err := c.Submit(ctx, strings.ToUpper(blob))
	if err != nil {
		var rpcErr *ledger.RPCError
		if errors.As(err, &rpcErr) {
			return fmt.Errorf("%s responded with: %s", a.Cfg.NodeURL, rpcErr.Error())
		}
		return err
	}
	t.Notify("")
	result := res.EngineResult
	if strings.HasPrefix(result, "tes") {
		result = green(result)
	} else {
		result = red(result)
	}
	t.Notify("engine result: " + result)
	t.Notify(res.EngineResultMessage)
	if res.Pending() {
		t.Notify("hash: " + res.Hash())
	}
	return nil
}

// termSigner hands records confirmed by the transaction engine to the
// interactive signing flow.
type termSigner struct{ app *App }

func (s termSigner) Sign(ctx context.Context, record map[string]any) error {
	return s.app.SignRecord(ctx, record)
}

package txspec

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"LedgerTools/internal/fields"
	"LedgerTools/internal/mnemonic"
	"LedgerTools/pkg/logx"
)

// ErrStepBack is returned when the operator steps back from the first field.
var ErrStepBack = errors.New("operator stepped back from the first field")

// FeeMargin is added to the open-ledger fee when Fee is autofilled.
const FeeMargin = 2

// Prompt is one field solicitation. Default is the operator's previous
// input for the field; Rejection is why that input was refused, if it was.
type Prompt struct {
	Label     string
	Hint      string
	Default   string
	Rejection fields.Rejection
}

// Reply is the operator's answer. Back asks to reopen the previous field.
type Reply struct {
	Text string
	Back bool
}

// Prompter solicits input from the operator. Calls never overlap.
type Prompter interface {
	Input(ctx context.Context, p Prompt) (Reply, error)
	MultiSelect(ctx context.Context, label string, options, selected []string) ([]string, error)
	Confirm(ctx context.Context, question string) (bool, error)
	Notify(msg string)
	Show(title string, v any)
}

// Querier reads live ledger state for autofill.
type Querier interface {
	AccountSequence(ctx context.Context, account string) (uint32, error)
	OpenLedgerFee(ctx context.Context) (uint64, error)
}

// Codec is the binary transaction codec.
type Codec interface {
	Encode(record map[string]any) (string, error)
	Decode(blob string) (map[string]any, error)
}

// Signer takes a confirmed record from here on; it owns the key material.
type Signer interface {
	Sign(ctx context.Context, record map[string]any) error
}

type Collaborators struct {
	Prompter Prompter
	Querier  Querier
	Codec    Codec
	Signer   Signer
}

// Result is a confirmed transaction.
type Result struct {
	Type   string
	Draft  Draft
	Record map[string]any
	Blob   string
}

type Engine struct {
	spec *TransactionTypeSpec
	c    Collaborators

	draft  Draft
	inputs map[string]string
}

func New(spec *TransactionTypeSpec, c Collaborators) *Engine {
	return &Engine{
		spec:   spec,
		c:      c,
		draft:  Draft{},
		inputs: map[string]string{},
	}
}

// Draft exposes the current draft; tests and callers read it after Run.
func (e *Engine) Draft() Draft { return e.draft }

// Run drives CollectFields, Flags, Autofill and Review until the operator
// confirms. Only prompter errors, context cancellation and a step back
// from the first field end it early.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	log := logx.S().With("tx_type", e.spec.Name)
	log.Infow("building transaction")

	for {
		if err := e.collect(ctx); err != nil {
			return nil, err
		}
		if err := e.selectFlags(ctx); err != nil {
			return nil, err
		}
		if err := e.autofill(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warnw("autofill failed", "err", err)
			e.c.Prompter.Notify(fmt.Sprintf("cannot autofill due to error: %v", err))
			e.c.Prompter.Notify("please fill fields manually")
			continue
		}
		res, ok, err := e.review(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			log.Infow("transaction confirmed", "fields", len(res.Record))
			return res, nil
		}
	}
}

type outcomeKind int

const (
	accepted outcomeKind = iota
	rejected
	stepBack
)

type outcome struct {
	kind   outcomeKind
	value  any
	clear  bool
	reason fields.Rejection
}

func evaluate(f FieldSpec, r Reply) outcome {
	if r.Back {
		return outcome{kind: stepBack}
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		if f.Optional {
			return outcome{kind: accepted, clear: true}
		}
		return outcome{kind: rejected, reason: "required"}
	}
	if reason := f.Type.Validate(text); !reason.Accepted() {
		return outcome{kind: rejected, reason: reason}
	}
	v, err := f.Type.Parse(text)
	if err != nil {
		return outcome{kind: rejected, reason: fields.Rejection(err.Error())}
	}
	return outcome{kind: accepted, value: v}
}

func (e *Engine) collect(ctx context.Context) error {
	form := e.spec.FormFields()
	var reason fields.Rejection
	for i := 0; i < len(form); {
		f := form[i]
		reply, err := e.c.Prompter.Input(ctx, Prompt{
			Label:     f.Key,
			Hint:      hint(f),
			Default:   e.inputs[f.Key],
			Rejection: reason,
		})
		if err != nil {
			return err
		}
		o := evaluate(f, reply)
		switch o.kind {
		case stepBack:
			if i == 0 {
				return ErrStepBack
			}
			i--
			reason = ""
		case rejected:
			e.inputs[f.Key] = reply.Text
			reason = o.reason
		case accepted:
			e.inputs[f.Key] = reply.Text
			if o.clear {
				delete(e.draft, f.Key)
			} else {
				e.draft[f.Key] = o.value
			}
			reason = ""
			i++
		}
	}
	return nil
}

func hint(f FieldSpec) string {
	h := f.Type.String()
	switch {
	case f.Autofillable:
		h += ", optional (autofills)"
	case f.Optional:
		h += ", optional"
	}
	if f.Hint != "" {
		h += ": " + f.Hint
	}
	return h
}

func (e *Engine) selectFlags(ctx context.Context) error {
	if len(e.spec.Flags) == 0 {
		return nil
	}
	names := make([]string, len(e.spec.Flags))
	for i, f := range e.spec.Flags {
		names[i] = f.Name
	}
	selected, err := e.c.Prompter.MultiSelect(ctx, "transaction flags", names,
		SelectedFlags(e.spec.Flags, e.draft.flagsOf()))
	if err != nil {
		return err
	}
	applyFlags(e.draft, e.spec.Flags, selected)
	return nil
}

// autofill resolves unset autofillable fields. Nothing is written to the
// draft unless every lookup succeeds.
func (e *Engine) autofill(ctx context.Context) error {
	var pending []string
	for _, f := range e.spec.FormFields() {
		if f.Autofillable && !e.draft.Has(f.Key) {
			pending = append(pending, f.Key)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if e.c.Querier == nil {
		return errors.New("no ledger connection")
	}

	filled := make(map[string]any, len(pending))
	for _, key := range pending {
		switch key {
		case "Sequence":
			account, _ := e.draft["Account"].(string)
			seq, err := e.c.Querier.AccountSequence(ctx, account)
			if err != nil {
				return fmt.Errorf("sequence: %w", err)
			}
			filled[key] = uint64(seq)
		case "Fee":
			fee, err := e.c.Querier.OpenLedgerFee(ctx)
			if err != nil {
				return fmt.Errorf("fee: %w", err)
			}
			filled[key] = strconv.FormatUint(fee+FeeMargin, 10)
		}
	}
	for k, v := range filled {
		e.draft[k] = v
		e.inputs[k] = fmt.Sprint(v)
	}
	logx.S().Infow("autofilled", "fields", pending)
	return nil
}

// review shows the record exactly as the codec would transmit it.
func (e *Engine) review(ctx context.Context) (*Result, bool, error) {
	d := e.draft.Clone()
	if e.spec.Preprocess != nil {
		e.spec.Preprocess(d)
	}
	blob, err := e.c.Codec.Encode(d.Record(e.spec.Name))
	if err != nil {
		e.c.Prompter.Notify(fmt.Sprintf("cannot encode transaction: %v", err))
		return nil, false, nil
	}
	record, err := e.c.Codec.Decode(blob)
	if err != nil {
		e.c.Prompter.Notify(fmt.Sprintf("cannot decode transaction: %v", err))
		return nil, false, nil
	}

	e.c.Prompter.Show("PLEASE CONFIRM", record)
	ok, err := e.c.Prompter.Confirm(ctx, "are the above details correct?")
	if err != nil || !ok {
		return nil, false, err
	}
	return &Result{Type: e.spec.Name, Draft: d, Record: record, Blob: blob}, true, nil
}

// Finalize hands a confirmed transaction to the signer if the operator
// wants to sign now, otherwise prints it as JSON, hex blob and mnemonic.
func (e *Engine) Finalize(ctx context.Context, res *Result) error {
	if e.c.Signer != nil {
		sign, err := e.c.Prompter.Confirm(ctx, "sign now?")
		if err != nil {
			return err
		}
		if sign {
			return e.c.Signer.Sign(ctx, res.Record)
		}
	}
	raw, err := hex.DecodeString(res.Blob)
	if err != nil {
		return fmt.Errorf("blob: %w", err)
	}
	e.c.Prompter.Show("transaction json", res.Record)
	e.c.Prompter.Notify("transaction blob:\n" + res.Blob)
	e.c.Prompter.Notify("transaction mnemonic:\n" + mnemonic.Encode(raw))
	return nil
}

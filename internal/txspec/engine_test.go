package txspec

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LedgerTools/internal/fields"
	"LedgerTools/internal/ledger"
	"LedgerTools/internal/mnemonic"
)

const (
	testAccount = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	rAddr2      = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
)

type scriptedPrompter struct {
	replies    []Reply
	confirms   []bool
	selections [][]string

	prompts  []Prompt
	selected [][]string
	notes    []string
	shown    []any
}

func (p *scriptedPrompter) Input(_ context.Context, pr Prompt) (Reply, error) {
	p.prompts = append(p.prompts, pr)
	if len(p.replies) == 0 {
		return Reply{}, errors.New("script exhausted")
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r, nil
}

func (p *scriptedPrompter) MultiSelect(_ context.Context, _ string, _ []string, selected []string) ([]string, error) {
	p.selected = append(p.selected, selected)
	if len(p.selections) == 0 {
		return nil, errors.New("no selection scripted")
	}
	s := p.selections[0]
	p.selections = p.selections[1:]
	return s, nil
}

func (p *scriptedPrompter) Confirm(context.Context, string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	c := p.confirms[0]
	p.confirms = p.confirms[1:]
	return c, nil
}

func (p *scriptedPrompter) Notify(msg string) { p.notes = append(p.notes, msg) }
func (p *scriptedPrompter) Show(_ string, v any) { p.shown = append(p.shown, v) }

func (p *scriptedPrompter) promptsFor(label string) []Prompt {
	var out []Prompt
	for _, pr := range p.prompts {
		if pr.Label == label {
			out = append(out, pr)
		}
	}
	return out
}

type fakeQuerier struct {
	failures int
	calls    int
	seq      uint32
	fee      uint64
}

func (q *fakeQuerier) AccountSequence(context.Context, string) (uint32, error) {
	q.calls++
	if q.failures > 0 {
		q.failures--
		return 0, errors.New("connection refused")
	}
	return q.seq, nil
}

func (q *fakeQuerier) OpenLedgerFee(context.Context) (uint64, error) { return q.fee, nil }

// jsonCodec stands in for the binary codec.
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

type recordingSigner struct{ got map[string]any }

func (s *recordingSigner) Sign(_ context.Context, rec map[string]any) error {
	s.got = rec
	return nil
}

func paymentLike() *TransactionTypeSpec {
	return &TransactionTypeSpec{
		Name: "Payment",
		Fields: []FieldSpec{
			req("Amount", fields.Amount),
			opt("DestinationTag", fields.UInt32),
		},
	}
}

func text(s ...string) []Reply {
	out := make([]Reply, len(s))
	for i, v := range s {
		out[i] = Reply{Text: v}
	}
	return out
}

func TestEndToEndNativeAmount(t *testing.T) {
	p := &scriptedPrompter{
		replies:  text(testAccount, "10 XRP", "", "", ""),
		confirms: []bool{true},
	}
	q := &fakeQuerier{seq: 7, fee: 12}
	e := New(paymentLike(), Collaborators{Prompter: p, Querier: q, Codec: jsonCodec{}})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	d := res.Draft
	assert.Equal(t, testAccount, d["Account"])
	assert.Equal(t, "10000000", d["Amount"])
	assert.False(t, d.Has("DestinationTag"))
	assert.Equal(t, uint64(7), d["Sequence"])
	assert.Equal(t, "14", d["Fee"])

	assert.Equal(t, "Payment", res.Record["TransactionType"])
	require.Len(t, p.shown, 1)
}

func TestAutofillFailureReturnsToCollect(t *testing.T) {
	p := &scriptedPrompter{
		replies: append(
			text(testAccount, "5", "99", "", ""),
			text(testAccount, "5", "99", "", "")...,
		),
		confirms: []bool{true},
	}
	q := &fakeQuerier{failures: 1, seq: 3, fee: 10}
	e := New(paymentLike(), Collaborators{Prompter: p, Querier: q, Codec: jsonCodec{}})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	seqPrompts := p.promptsFor("Sequence")
	require.Len(t, seqPrompts, 2)
	assert.Equal(t, "", seqPrompts[1].Default, "sequence stays unset after failed autofill")

	acctPrompts := p.promptsFor("Account")
	require.Len(t, acctPrompts, 2)
	assert.Equal(t, testAccount, acctPrompts[1].Default)
	assert.Equal(t, "99", p.promptsFor("DestinationTag")[1].Default)

	require.NotEmpty(t, p.notes)
	assert.Contains(t, p.notes[0], "connection refused")

	assert.Equal(t, 2, q.calls)
	assert.Equal(t, uint64(3), res.Draft["Sequence"])
	assert.Equal(t, "12", res.Draft["Fee"])
	assert.Equal(t, uint64(99), res.Draft["DestinationTag"])
}

func TestAutofillFailureLeavesDraftUntouched(t *testing.T) {
	p := &scriptedPrompter{replies: text(testAccount, "5", "", "", "")}
	q := &fakeQuerier{failures: 1, fee: 10}
	e := New(paymentLike(), Collaborators{Prompter: p, Querier: q, Codec: jsonCodec{}})

	_, err := e.Run(context.Background())
	require.Error(t, err, "script runs out on the second pass")

	d := e.Draft()
	assert.False(t, d.Has("Sequence"))
	assert.False(t, d.Has("Fee"))
	assert.Equal(t, "5", d["Amount"])
	assert.Equal(t, testAccount, d["Account"])
}

func TestRejectionRepromptsWithReason(t *testing.T) {
	p := &scriptedPrompter{
		replies:  text("rNotAnAddress", testAccount, "", "5", "", "1", "10"),
		confirms: []bool{true},
	}
	e := New(paymentLike(), Collaborators{Prompter: p, Codec: jsonCodec{}})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	acct := p.promptsFor("Account")
	require.Len(t, acct, 2)
	assert.Equal(t, fields.Rejection("not a valid address"), acct[1].Rejection)
	assert.Equal(t, "rNotAnAddress", acct[1].Default)

	amt := p.promptsFor("Amount")
	require.Len(t, amt, 2)
	assert.Equal(t, fields.Rejection("required"), amt[1].Rejection)
}

func TestStepBack(t *testing.T) {
	replies := []Reply{
		{Text: testAccount},
		{Back: true},
		{Text: testAccount},
		{Text: "5"},
		{Back: true},
		{Back: true},
		{Back: true},
	}
	p := &scriptedPrompter{replies: replies}
	e := New(paymentLike(), Collaborators{Prompter: p, Codec: jsonCodec{}})

	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, ErrStepBack)

	labels := make([]string, len(p.prompts))
	for i, pr := range p.prompts {
		labels[i] = pr.Label
	}
	assert.Equal(t, []string{
		"Account", "Amount", "Account", "Amount", "DestinationTag", "Amount", "Account",
	}, labels)
	assert.Equal(t, testAccount, p.prompts[2].Default)
}

func TestFlagsCombineAndClear(t *testing.T) {
	spec, err := Lookup("payment")
	require.NoError(t, err)

	p := &scriptedPrompter{
		replies: append(
			text(testAccount, rAddr2, "", "1", "", "", "1", "10"),
			text(testAccount, rAddr2, "", "1", "", "", "1", "10")...,
		),
		selections: [][]string{{"tfPartialPayment", "tfLimitQuality"}, {}},
		confirms:   []bool{false, true},
	}
	e := New(spec, Collaborators{Prompter: p, Codec: jsonCodec{}})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, p.selected, 2)
	assert.ElementsMatch(t, []string{"tfPartialPayment", "tfLimitQuality"}, p.selected[1])
	assert.False(t, res.Draft.Has("Flags"), "empty selection removes flags")
}

func TestFlagsValue(t *testing.T) {
	spec, err := Lookup("Payment")
	require.NoError(t, err)
	d := Draft{}
	applyFlags(d, spec.Flags, []string{"tfPartialPayment", "tfLimitQuality"})
	assert.Equal(t, uint64(0x00060000), d["Flags"])
	applyFlags(d, spec.Flags, nil)
	assert.False(t, d.Has("Flags"))
}

func TestFinalize(t *testing.T) {
	p := &scriptedPrompter{}
	e := New(paymentLike(), Collaborators{Prompter: p, Codec: jsonCodec{}})
	blob, _ := jsonCodec{}.Encode(map[string]any{"TransactionType": "Payment"})
	res := &Result{Type: "Payment", Record: map[string]any{"TransactionType": "Payment"}, Blob: blob}

	require.NoError(t, e.Finalize(context.Background(), res))
	require.Len(t, p.notes, 2)
	phrase := p.notes[1][len("transaction mnemonic:\n"):]
	raw, err := mnemonic.Decode(phrase)
	require.NoError(t, err)
	assert.Equal(t, blob, hex.EncodeToString(raw))

	s := &recordingSigner{}
	p = &scriptedPrompter{confirms: []bool{true}}
	e = New(paymentLike(), Collaborators{Prompter: p, Codec: jsonCodec{}, Signer: s})
	require.NoError(t, e.Finalize(context.Background(), res))
	assert.Equal(t, res.Record, s.got)
}

func TestReviewThroughBinaryCodec(t *testing.T) {
	spec, err := Lookup("Payment")
	require.NoError(t, err)

	p := &scriptedPrompter{
		replies:    text(testAccount, rAddr2, "99", "1.5 USD:"+rAddr2, "", "", "", ""),
		selections: [][]string{{"tfPartialPayment"}},
		confirms:   []bool{true},
	}
	q := &fakeQuerier{seq: 5, fee: 10}
	e := New(spec, Collaborators{Prompter: p, Querier: q, Codec: ledger.XRPLCodec{}})

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, p.notes)

	assert.Equal(t, uint32(5), res.Record["Sequence"])
	assert.Equal(t, "12", res.Record["Fee"])
	assert.Equal(t, uint32(0x00020000), res.Record["Flags"])
	assert.Equal(t, uint32(99), res.Record["DestinationTag"])
	assert.Equal(t, map[string]any{"currency": "USD", "issuer": rAddr2, "value": "1.5"}, res.Record["Amount"])
	require.Len(t, p.shown, 1)
	assert.Equal(t, res.Record, p.shown[0])
}

func TestCodecRejectionReturnsToCollect(t *testing.T) {
	spec, err := Lookup("AccountSet")
	require.NoError(t, err)

	p := &scriptedPrompter{
		replies: append(
			text(testAccount, "", "", "", "", "", "", "300", "1", "10"),
			text(testAccount, "", "", "", "", "", "", "5", "1", "10")...,
		),
		confirms: []bool{true},
	}
	e := New(spec, Collaborators{Prompter: p, Codec: ledger.XRPLCodec{}})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, p.notes)
	assert.Contains(t, p.notes[0], "cannot encode transaction")
	assert.Equal(t, "300", p.promptsFor("TickSize")[1].Default)
	assert.Equal(t, 5, res.Record["TickSize"])
}

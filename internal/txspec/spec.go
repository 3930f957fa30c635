package txspec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"LedgerTools/internal/fields"
)

// FieldSpec describes one transaction field. Autofillable implies Optional.
type FieldSpec struct {
	Key          string
	Type         fields.Type
	Optional     bool
	Autofillable bool
	Hint         string
}

type Flag struct {
	Name  string
	Value uint32
}

// TransactionTypeSpec is the schema for one transaction type.
// Preprocess, when set, reshapes a finished draft before review.
type TransactionTypeSpec struct {
	Name        string
	Description string
	Fields      []FieldSpec
	Flags       []Flag
	Preprocess  func(Draft)
}

var ErrUnknownTransactionType = errors.New("unknown transaction type")

// CommonFields are part of every transaction.
var CommonFields = []FieldSpec{
	{Key: "Account", Type: fields.AccountID},
	{Key: "Sequence", Type: fields.UInt32, Optional: true, Autofillable: true},
	{Key: "Fee", Type: fields.Amount, Optional: true, Autofillable: true},
}

func req(key string, t fields.Type) FieldSpec { return FieldSpec{Key: key, Type: t} }

func opt(key string, t fields.Type) FieldSpec { return FieldSpec{Key: key, Type: t, Optional: true} }

func hinted(f FieldSpec, hint string) FieldSpec { f.Hint = hint; return f }

var table = []TransactionTypeSpec{
	{
		Name:        "AccountSet",
		Description: "modifies the properties of an account in the XRP Ledger",
		Fields: []FieldSpec{
			opt("SetFlag", fields.UInt32),
			opt("ClearFlag", fields.UInt32),
			opt("Domain", fields.Blob),
			opt("EmailHash", fields.Hash128),
			opt("MessageKey", fields.Blob),
			opt("TransferRate", fields.UInt32),
			opt("TickSize", fields.UInt8),
		},
	},
	{
		Name:        "AccountDelete",
		Description: "deletes an account and any objects it owns, sending the remaining XRP to a destination account",
		Fields: []FieldSpec{
			req("Destination", fields.AccountID),
			opt("DestinationTag", fields.UInt32),
		},
	},
	{
		Name:        "AMMCreate",
		Description: "creates a new Automated Market Maker instance for trading a pair of assets",
		Fields: []FieldSpec{
			opt("Amount", fields.Amount),
			opt("Amount2", fields.Amount),
			opt("TradingFee", fields.UInt16),
		},
	},
	{
		Name:        "CheckCancel",
		Description: "cancels an unredeemed Check without sending any money",
		Fields:      []FieldSpec{req("CheckID", fields.Hash256)},
	},
	{
		Name:        "CheckCash",
		Description: "redeems a Check for up to the amount authorized by the matching CheckCreate",
		Fields: []FieldSpec{
			req("CheckID", fields.Hash256),
			opt("Amount", fields.Amount),
			opt("DeliverMin", fields.Amount),
		},
	},
	{
		Name:        "CheckCreate",
		Description: "creates a Check, a deferred payment that can be cashed by its intended destination",
		Fields: []FieldSpec{
			req("Destination", fields.AccountID),
			opt("DestinationTag", fields.UInt32),
			req("SendMax", fields.Amount),
			opt("Expiration", fields.UInt32),
			opt("InvoiceID", fields.Hash256),
		},
	},
	{
		Name:        "Clawback",
		Description: "claws back tokens issued by your account",
		Fields:      []FieldSpec{req("Amount", fields.Amount)},
	},
	{
		Name:        "CredentialCreate",
		Description: "creates a Credential object; must be sent by the issuer",
		Fields: []FieldSpec{
			hinted(req("CredentialType", fields.Blob), "type of credential from the issuer"),
			hinted(req("Subject", fields.AccountID), "account the credential is about"),
			hinted(opt("URI", fields.Blob), "link to the credential document"),
			opt("Expiration", fields.UInt32),
		},
	},
	{
		Name:        "CredentialAccept",
		Description: "accepts a credential, which makes it valid; only the subject can do this",
		Fields: []FieldSpec{
			hinted(req("Issuer", fields.AccountID), "issuer that created the credential"),
			hinted(req("CredentialType", fields.Blob), "1 to 64 bytes"),
		},
	},
	{
		Name:        "CredentialDelete",
		Description: "deletes a credential; may be sent by its issuer or its subject",
		Fields: []FieldSpec{
			req("CredentialType", fields.Blob),
			opt("Issuer", fields.AccountID),
			opt("Subject", fields.AccountID),
		},
	},
	{
		Name:        "DepositPreauth",
		Description: "gives another account or credential pre-approval to deliver payments to the sender",
		Fields: []FieldSpec{
			hinted(opt("Authorize", fields.AccountID), "sender to preauthorize"),
			hinted(opt("Unauthorize", fields.AccountID), "sender whose preauthorization is revoked"),
			opt("AuthorizeCredentialType", fields.Blob),
			opt("AuthorizeCredentialIssuer", fields.AccountID),
			opt("UnauthorizeCredentialType", fields.Blob),
			opt("UnauthorizeCredentialIssuer", fields.AccountID),
		},
		Preprocess: foldCredentials,
	},
	{
		Name:        "DIDDelete",
		Description: "deletes the DID ledger entry associated with the account",
	},
	{
		Name:        "DIDSet",
		Description: "creates a new DID ledger entry or updates an existing one",
		Fields: []FieldSpec{
			opt("Data", fields.Blob),
			opt("DIDDocument", fields.Blob),
			opt("URI", fields.Blob),
		},
	},
	{
		Name:        "EscrowCancel",
		Description: "returns escrowed XRP to the sender",
		Fields: []FieldSpec{
			req("Owner", fields.AccountID),
			req("OfferSequence", fields.UInt32),
		},
	},
	{
		Name:        "EscrowCreate",
		Description: "sequesters XRP until the escrow either finishes or is canceled",
		Fields: []FieldSpec{
			req("Destination", fields.AccountID),
			opt("DestinationTag", fields.UInt32),
			req("Amount", fields.Amount),
			opt("FinishAfter", fields.UInt32),
			opt("CancelAfter", fields.UInt32),
			opt("Condition", fields.Blob),
		},
	},
	{
		Name:        "EscrowFinish",
		Description: "delivers XRP from a held payment to the recipient",
		Fields: []FieldSpec{
			req("Owner", fields.AccountID),
			req("OfferSequence", fields.UInt32),
			opt("Condition", fields.Blob),
			opt("Fulfillment", fields.Blob),
		},
	},
	{
		Name:        "OfferCreate",
		Description: "places an Offer in the decentralized exchange",
		Fields: []FieldSpec{
			req("TakerGets", fields.Amount),
			req("TakerPays", fields.Amount),
			opt("Expiration", fields.UInt32),
		},
		Flags: []Flag{
			{"tfPassive", 0x00010000},
			{"tfImmediateOrCancel", 0x00020000},
			{"tfFillOrKill", 0x00040000},
			{"tfSell", 0x00080000},
		},
	},
	{
		Name:        "OfferCancel",
		Description: "removes an Offer object from the XRP Ledger",
		Fields:      []FieldSpec{req("OfferSequence", fields.UInt32)},
	},
	{
		Name:        "Payment",
		Description: "represents a transfer of value from one account to another",
		Fields: []FieldSpec{
			req("Destination", fields.AccountID),
			opt("DestinationTag", fields.UInt32),
			req("Amount", fields.Amount),
			opt("DeliverMin", fields.Amount),
			opt("SendMax", fields.Amount),
		},
		Flags: []Flag{
			{"tfNoRippleDirect", 0x00010000},
			{"tfPartialPayment", 0x00020000},
			{"tfLimitQuality", 0x00040000},
		},
	},
	{
		Name:        "PaymentChannelClaim",
		Description: "claims XRP from a payment channel, adjusts its expiration, or both",
		Fields: []FieldSpec{
			req("Channel", fields.Hash256),
			opt("Balance", fields.Amount),
			opt("Amount", fields.Amount),
			opt("Signature", fields.Blob),
			opt("PublicKey", fields.Blob),
		},
		Flags: []Flag{
			{"tfRenew", 0x00010000},
			{"tfClose", 0x00020000},
		},
	},
	{
		Name:        "PaymentChannelCreate",
		Description: "creates a payment channel and funds it with XRP",
		Fields: []FieldSpec{
			req("Amount", fields.Amount),
			req("Destination", fields.AccountID),
			opt("DestinationTag", fields.UInt32),
			req("SettleDelay", fields.UInt32),
			req("PublicKey", fields.Blob),
			opt("CancelAfter", fields.UInt32),
		},
	},
	{
		Name:        "PaymentChannelFund",
		Description: "adds XRP to an open payment channel and optionally updates its expiration",
		Fields: []FieldSpec{
			req("Channel", fields.Hash256),
			opt("Amount", fields.Amount),
			opt("Expiration", fields.UInt32),
		},
	},
	{
		Name:        "SetRegularKey",
		Description: "assigns, changes, or removes the regular key pair of an account",
		Fields:      []FieldSpec{opt("RegularKey", fields.AccountID)},
	},
	{
		Name:        "TicketCreate",
		Description: "sets aside one or more sequence numbers as Tickets",
		Fields:      []FieldSpec{req("TicketCount", fields.UInt32)},
	},
	{
		Name:        "TrustSet",
		Description: "creates or modifies a trust line linking two accounts",
		Fields:      []FieldSpec{req("LimitAmount", fields.Amount)},
		Flags: []Flag{
			{"tfSetfAuth", 0x00010000},
			{"tfSetNoRipple", 0x00020000},
			{"tfClearNoRipple", 0x00040000},
			{"tfSetFreeze", 0x00100000},
			{"tfClearFreeze", 0x00200000},
		},
	},
}

var registry = map[string]*TransactionTypeSpec{}

func init() {
	for i := range table {
		s := &table[i]
		if err := s.Validate(); err != nil {
			panic(fmt.Sprintf("txspec: %v", err))
		}
		registry[strings.ToLower(s.Name)] = s
	}
}

// Lookup finds a transaction type by name, ignoring case.
func Lookup(name string) (*TransactionTypeSpec, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTransactionType, name)
	}
	return s, nil
}

// Names returns all registered transaction types in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, s := range registry {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// Validate checks the schema invariants: autofillable fields are optional,
// keys are unique, types are known, and no two flags share a bit.
func (s *TransactionTypeSpec) Validate() error {
	if s.Name == "" {
		return errors.New("schema without name")
	}
	seen := map[string]bool{}
	for _, f := range s.FormFields() {
		if seen[f.Key] {
			return fmt.Errorf("%s: duplicate field %s", s.Name, f.Key)
		}
		seen[f.Key] = true
		if !f.Type.Valid() {
			return fmt.Errorf("%s.%s: unknown type %v", s.Name, f.Key, f.Type)
		}
		if f.Autofillable && !f.Optional {
			return fmt.Errorf("%s.%s: autofillable field must be optional", s.Name, f.Key)
		}
	}
	var used uint32
	for _, fl := range s.Flags {
		if fl.Value == 0 {
			return fmt.Errorf("%s.%s: flag without bits", s.Name, fl.Name)
		}
		if used&fl.Value != 0 {
			return fmt.Errorf("%s.%s: flag bits overlap", s.Name, fl.Name)
		}
		used |= fl.Value
	}
	return nil
}

// FormFields is the prompt order: Account first, then the type's own
// fields, then the remaining common fields.
func (s *TransactionTypeSpec) FormFields() []FieldSpec {
	out := make([]FieldSpec, 0, len(s.Fields)+len(CommonFields))
	out = append(out, CommonFields[0])
	out = append(out, s.Fields...)
	out = append(out, CommonFields[1:]...)
	return out
}

// foldCredentials turns the flat credential fields of DepositPreauth into
// the nested arrays the ledger expects.
func foldCredentials(d Draft) {
	fold := func(prefix, target string) {
		typ, okT := d[prefix+"CredentialType"]
		issuer, okI := d[prefix+"CredentialIssuer"]
		if !okT || !okI {
			return
		}
		d[target] = []any{
			map[string]any{"Credential": map[string]any{
				"CredentialType": typ,
				"Issuer":         issuer,
			}},
		}
		delete(d, prefix+"CredentialType")
		delete(d, prefix+"CredentialIssuer")
	}
	fold("Authorize", "AuthorizeCredentials")
	fold("Unauthorize", "UnauthorizeCredentials")
}

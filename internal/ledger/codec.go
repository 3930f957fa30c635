package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"
	"github.com/Peersyst/xrpl-go/binary-codec/definitions"
)

// Codec is the binary transaction codec.
type Codec interface {
	Encode(record map[string]any) (string, error)
	Decode(blob string) (map[string]any, error)
	EncodeForSigning(record map[string]any) (string, error)
}

// XRPLCodec adapts the xrpl-go binary codec. The codec asserts value types
// and panics on a mismatch; those panics come back as errors.
type XRPLCodec struct{}

func (XRPLCodec) Encode(record map[string]any) (blob string, err error) {
	defer recoverCodec("encode", &err)
	rec, err := Normalize(record)
	if err != nil {
		return "", err
	}
	return binarycodec.Encode(rec)
}

func (XRPLCodec) Decode(blob string) (record map[string]any, err error) {
	defer recoverCodec("decode", &err)
	return binarycodec.Decode(strings.ToUpper(blob))
}

func (XRPLCodec) EncodeForSigning(record map[string]any) (blob string, err error) {
	defer recoverCodec("encode for signing", &err)
	rec, err := Normalize(record)
	if err != nil {
		return "", err
	}
	return binarycodec.EncodeForSigning(rec)
}

func recoverCodec(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: codec rejected the record: %v", op, r)
	}
}

type mapper interface {
	Map() map[string]any
}

// Normalize converts draft values into the JSON shapes the codec reads for
// each field's serialized type: UInt32 fields become uint32, UInt8 and
// UInt16 become int, UInt64 becomes 16 hex digits and typed amounts become
// maps. Nested objects and arrays are normalized by their own field names.
func Normalize(record map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(record))
	for k, v := range record {
		nv, err := normalizeField(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeField(name string, v any) (any, error) {
	switch t := v.(type) {
	case mapper:
		return t.Map(), nil
	case map[string]any:
		return Normalize(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			nv, err := normalizeField(name, e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	}

	n, ok, err := unsignedOf(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !ok {
		return plain(v), nil
	}
	typeName, _ := definitions.Get().GetTypeNameByFieldName(name)
	switch typeName {
	case "UInt8":
		return narrow(name, n, math.MaxUint8)
	case "UInt16":
		return narrow(name, n, math.MaxUint16)
	case "UInt32":
		if n > math.MaxUint32 {
			return nil, fmt.Errorf("%s: %d does not fit in 32 bits", name, n)
		}
		return uint32(n), nil
	case "UInt64":
		return fmt.Sprintf("%016X", n), nil
	case "Amount":
		return strconv.FormatUint(n, 10), nil
	}
	return plain(v), nil
}

// plain turns a leftover JSON number into its text form.
func plain(v any) any {
	if num, ok := v.(json.Number); ok {
		return num.String()
	}
	return v
}

func narrow(name string, n, limit uint64) (any, error) {
	if n > limit {
		return nil, fmt.Errorf("%s: %d is larger than %d", name, n, limit)
	}
	return int(n), nil
}

// unsignedOf reads the integer kinds a draft or decoded record may carry.
// ok is false for any other value, which passes through unchanged.
func unsignedOf(v any) (n uint64, ok bool, err error) {
	switch t := v.(type) {
	case uint64:
		return t, true, nil
	case uint32:
		return uint64(t), true, nil
	case uint16:
		return uint64(t), true, nil
	case uint8:
		return uint64(t), true, nil
	case uint:
		return uint64(t), true, nil
	case int:
		if t < 0 {
			return 0, false, fmt.Errorf("negative value %d", t)
		}
		return uint64(t), true, nil
	case int64:
		if t < 0 {
			return 0, false, fmt.Errorf("negative value %d", t)
		}
		return uint64(t), true, nil
	case json.Number:
		u, err := strconv.ParseUint(t.String(), 10, 64)
		if err != nil {
			return 0, false, nil
		}
		return u, true, nil
	}
	return 0, false, nil
}

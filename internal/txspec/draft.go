package txspec

import (
	"sort"
	"strconv"
)

// Draft maps field keys to parsed values. A missing key means unset.
type Draft map[string]any

func (d Draft) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Record returns the draft as a transaction record of the given type.
func (d Draft) Record(txType string) map[string]any {
	rec := make(map[string]any, len(d)+1)
	for k, v := range d {
		rec[k] = v
	}
	rec["TransactionType"] = txType
	return rec
}

func (d Draft) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flagsOf reads the current Flags value; absent means zero.
func (d Draft) flagsOf() uint64 {
	switch v := d["Flags"].(type) {
	case uint64:
		return v
	case uint32:
		return uint64(v)
	case int:
		return uint64(v)
	case string:
		n, _ := strconv.ParseUint(v, 10, 64)
		return n
	}
	return 0
}

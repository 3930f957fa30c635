package txspec

// CombineFlags ORs the bits of every selected flag name. Unknown names are ignored.
func CombineFlags(flags []Flag, selected []string) (uint32, bool) {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	var v uint32
	hit := false
	for _, f := range flags {
		if want[f.Name] {
			v |= f.Value
			hit = true
		}
	}
	return v, hit
}

// SelectedFlags lists the names whose bits are all set in value.
func SelectedFlags(flags []Flag, value uint64) []string {
	var out []string
	for _, f := range flags {
		if value&uint64(f.Value) == uint64(f.Value) {
			out = append(out, f.Name)
		}
	}
	return out
}

// applyFlags stores the OR of the selection, or removes Flags when nothing is selected.
func applyFlags(d Draft, flags []Flag, selected []string) {
	v, ok := CombineFlags(flags, selected)
	if !ok {
		delete(d, "Flags")
		return
	}
	d["Flags"] = uint64(v)
}

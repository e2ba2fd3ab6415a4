package schema

import "sort"

// CategoryMap maps slot name -> label -> trained integer code.
type CategoryMap map[string]map[string]int

// Has reports whether the map carries codes for slot.
func (m CategoryMap) Has(slot string) bool {
	_, ok := m[slot]
	return ok
}

// Lookup returns the code for label in slot.
func (m CategoryMap) Lookup(slot, label string) (int, bool) {
	codes, ok := m[slot]
	if !ok {
		return 0, false
	}
	code, ok := codes[label]
	return code, ok
}

// Labels returns the labels of slot ordered by code.
func (m CategoryMap) Labels(slot string) []string {
	codes := m[slot]
	out := make([]string, 0, len(codes))
	for label := range codes {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool { return codes[out[i]] < codes[out[j]] })
	return out
}

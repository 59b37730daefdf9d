package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DedupKey returns the identity of s across source files: normalized address
// and trimmed NFC name joined by "_". It returns false for records that cannot be
// keyed.
func DedupKey(s Shelter) (string, bool) {
	if s.Name == "" || s.Address == "" {
		return "", false
	}
	return NormalizeAddress(s.Address) + "_" + strings.TrimSpace(norm.NFC.String(s.Name)), true
}

// Dedupe keeps the first record per DedupKey, in input order. Records without
// a name or address are skipped. The shelter type is not part of the key, so
// the same site listed in an earthquake file and a flood file collapses into
// whichever file was read first.
func Dedupe(shelters []Shelter) []Shelter {
	seen := make(map[string]struct{}, len(shelters))
	out := make([]Shelter, 0, len(shelters))
	for _, s := range shelters {
		key, ok := DedupKey(s)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

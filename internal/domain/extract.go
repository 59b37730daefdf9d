package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)

	addressPunctReplacer = strings.NewReplacer("(", "", ")", "", ",", "")

	// leadingIntRe takes the integer prefix of a capacity cell, so "1,200명"
	// and "300 (최대)" both parse once separators are removed.
	leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)
)

// NormalizeAddress composes Hangul to NFC, strips parentheses and commas,
// collapses whitespace runs to one space, and trims the ends. Stripping first
// keeps the result idempotent.
func NormalizeAddress(s string) string {
	s = norm.NFC.String(s)
	s = addressPunctReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractText resolves field as trimmed NFC text. Whitespace-only values
// count as missing.
func extractText(aliases AliasTable, rec RawRecord, field Field) (string, bool) {
	v, ok := aliases.Resolve(rec, field)
	if !ok {
		return "", false
	}
	s, ok := v.Text()
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(norm.NFC.String(s))
	return s, s != ""
}

func extractName(aliases AliasTable, rec RawRecord) (string, bool) {
	return extractText(aliases, rec, FieldName)
}

// extractAddress returns the normalized address.
func extractAddress(aliases AliasTable, rec RawRecord) (string, bool) {
	s, ok := extractText(aliases, rec, FieldAddress)
	if !ok {
		return "", false
	}
	s = NormalizeAddress(s)
	return s, s != ""
}

// extractLocation resolves lat and lng independently and accepts the pair only
// when both parse and fall within [-90,90]×[-180,180].
func extractLocation(aliases AliasTable, rec RawRecord) (Location, bool) {
	lat, ok := extractCoordinate(aliases, rec, FieldLat)
	if !ok {
		return Location{}, false
	}
	lng, ok := extractCoordinate(aliases, rec, FieldLng)
	if !ok {
		return Location{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, false
	}
	return Location{Lat: lat, Lng: lng}, true
}

func extractCoordinate(aliases AliasTable, rec RawRecord, field Field) (float64, bool) {
	v, ok := aliases.Resolve(rec, field)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// toFloat coerces numbers, numeric strings, and lists of either.
func toFloat(v Value) (float64, bool) {
	if f, ok := v.Num(); ok {
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	s, ok := v.Text()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// extractCapacity returns a non-negative head count. Thousands separators and
// trailing units are tolerated; anything without a leading integer is absent.
func extractCapacity(aliases AliasTable, rec RawRecord) (int, bool) {
	v, ok := aliases.Resolve(rec, FieldCapacity)
	if !ok {
		return 0, false
	}
	if f, ok := v.Num(); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	}
	s, ok := v.Text()
	if !ok {
		return 0, false
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	digits := leadingIntRe.FindString(s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func extractContact(aliases AliasTable, rec RawRecord) (string, bool) {
	return extractText(aliases, rec, FieldContact)
}

// extractFacilities keeps lists as-is and wraps a single string. Numbers are
// not facility descriptions and yield nothing.
func extractFacilities(aliases AliasTable, rec RawRecord) ([]string, bool) {
	v, ok := aliases.Resolve(rec, FieldFacilities)
	if !ok {
		return nil, false
	}
	if items, ok := v.Items(); ok {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = norm.NFC.String(item)
		}
		return out, true
	}
	if s, ok := v.Str(); ok {
		return []string{strings.TrimSpace(norm.NFC.String(s))}, true
	}
	return nil, false
}

package domain

import (
	"strconv"
	"strings"
)

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is a single cell of a raw record. Source files carry strings, numbers,
// and occasionally multi-valued cells, so the value is a tagged union rather
// than a bare string.
type Value struct {
	kind Kind
	str  string
	num  float64
	list []string
}

// String wraps a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// List wraps a multi-valued cell.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Items returns the list payload and whether v is a list.
func (v Value) Items() ([]string, bool) { return v.list, v.kind == KindList }

// IsBlank reports whether v carries no usable data: absent, a whitespace-only
// string, or an empty list.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindNumber:
		return false
	case KindList:
		return len(v.list) == 0
	default:
		return true
	}
}

// Text returns the scalar text form of v. Lists yield their first element and
// numbers use the shortest decimal form (37 → "37", 37.5 → "37.5").
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindList:
		if len(v.list) == 0 {
			return "", false
		}
		return v.list[0], true
	default:
		return "", false
	}
}

// RawRecord is one row of a source file keyed by its header cells. The key set
// differs from file to file.
type RawRecord map[string]Value

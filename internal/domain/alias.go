package domain

// Field is a logical shelter attribute resolved from raw columns.
type Field string

const (
	FieldName       Field = "name"
	FieldAddress    Field = "address"
	FieldLat        Field = "lat"
	FieldLng        Field = "lng"
	FieldCapacity   Field = "capacity"
	FieldContact    Field = "contact"
	FieldFacilities Field = "facilities"
)

// Fields lists every logical field in a stable order.
var Fields = []Field{FieldName, FieldAddress, FieldLat, FieldLng, FieldCapacity, FieldContact, FieldFacilities}

// AliasTable maps a logical field to its header spellings in priority order.
// Treat it as immutable once built; With returns a modified copy.
type AliasTable map[Field][]string

// DefaultAliases returns the built-in alias table.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldName:       {"대피소명", "시설명", "명칭", "대피소", "시설물명", "대피소_명칭"},
		FieldAddress:    {"주소", "소재지", "위치", "대피소_위치", "시설물주소", "도로명주소", "지번주소"},
		FieldLat:        {"위도", "lat", "latitude", "LAT", "Latitude", "대피소_위도"},
		FieldLng:        {"경도", "lng", "longitude", "LNG", "Longitude", "대피소_경도"},
		FieldCapacity:   {"수용인원", "수용능력", "수용가능인원", "최대수용인원", "대피소_수용인원"},
		FieldContact:    {"연락처", "전화번호", "담당자연락처", "관리자연락처", "대피소_연락처"},
		FieldFacilities: {"시설", "부대시설", "편의시설", "대피소_시설"},
	}
}

// With returns a copy of t with aliases appended to field's list, after the
// existing entries. Duplicates are ignored.
func (t AliasTable) With(field Field, aliases ...string) AliasTable {
	out := make(AliasTable, len(t)+1)
	for f, keys := range t {
		out[f] = append([]string(nil), keys...)
	}
	seen := make(map[string]struct{}, len(out[field]))
	for _, k := range out[field] {
		seen[k] = struct{}{}
	}
	for _, a := range aliases {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out[field] = append(out[field], a)
	}
	return out
}

// Keys returns the alias list for field.
func (t AliasTable) Keys(field Field) []string { return t[field] }

// Resolve looks up field in rec using t's aliases.
func (t AliasTable) Resolve(rec RawRecord, field Field) (Value, bool) {
	return Resolve(rec, t[field])
}

// Resolve returns the first value in rec under one of keys, tried in order,
// that is not blank. A missing or blank column is not an error.
func Resolve(rec RawRecord, keys []string) (Value, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v.IsBlank() {
			continue
		}
		return v, true
	}
	return Value{}, false
}

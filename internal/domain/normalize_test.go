package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(nil, discardLogger())
	seq := 0
	n.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return n
}

func TestNormalize_FullRecord(t *testing.T) {
	fixed := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	raw := RawRecord{
		"대피소명": String(" A센터 "),
		"주소":   String("서울특별시  종로구 (세종로) 1"),
		"위도":   String("37.57"),
		"경도":   String("126.98"),
		"수용인원": String("1,500"),
		"전화번호": String("02-120"),
		"부대시설": List("화장실", "급수대"),
	}

	s, ok := newTestNormalizer().Normalize(raw, testFileQuake)
	require.True(t, ok)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, "A센터", s.Name)
	assert.Equal(t, "서울특별시 종로구 세종로 1", s.Address)
	require.NotNil(t, s.Location)
	assert.Equal(t, Location{Lat: 37.57, Lng: 126.98}, *s.Location)
	assert.Equal(t, TypeEarthquake, s.Type)
	require.NotNil(t, s.Details.Capacity)
	assert.Equal(t, 1500, *s.Details.Capacity)
	require.NotNil(t, s.Details.Contact)
	assert.Equal(t, "02-120", *s.Details.Contact)
	assert.Equal(t, []string{"화장실", "급수대"}, s.Details.Facilities)
	assert.Equal(t, fixed, s.Details.LastUpdated)
	assert.Equal(t, "서울특별시", s.Source.Region)
	assert.Equal(t, testFileQuake, s.Source.OriginalFile)
	assert.Equal(t, fixed, s.Source.LastUpdated)
	assert.Equal(t, GeoSourceOriginal, s.Source.GeoSource)
}

func TestNormalize_CoordinateRoundTrip(t *testing.T) {
	raw := RawRecord{
		"대피소명": String("B센터"),
		"주소":   String("경기도 수원시 팔달구 1"),
		"위도":   String("37.5"),
		"경도":   String("127.0"),
	}

	s, ok := newTestNormalizer().Normalize(raw, "shelters.csv")
	require.True(t, ok)
	require.NotNil(t, s.Location)
	assert.Equal(t, Location{Lat: 37.5, Lng: 127.0}, *s.Location)
	assert.Equal(t, "경기도", s.Source.Region)
	assert.Equal(t, TypeOther, s.Type)
}

func TestNormalize_OmitsLocationWhenUnparseable(t *testing.T) {
	raw := RawRecord{
		"시설명": String("C센터"),
		"소재지": String("알수없음 123"),
		"위도":  String("abc"),
		"경도":  String("127.0"),
	}

	s, ok := newTestNormalizer().Normalize(raw, "flood.csv")
	require.True(t, ok)
	assert.Nil(t, s.Location)
	assert.Empty(t, s.Source.GeoSource)
	assert.Equal(t, RegionOther, s.Source.Region)
	assert.Nil(t, s.Details.Capacity)
	assert.Nil(t, s.Details.Contact)
	assert.Nil(t, s.Details.Facilities)
}

func TestNormalize_DropsMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"no name or address", RawRecord{"위도": String("37.5"), "경도": String("127")}},
		{"no name", RawRecord{"주소": String(testAddressSeoul)}},
		{"no address", RawRecord{"대피소명": String("A센터")}},
		{"blank name", RawRecord{"대피소명": String("  "), "주소": String(testAddressSeoul)}},
		{"unknown headers only", RawRecord{"facility": String("A"), "addr": String(testAddressSeoul)}},
		{"empty record", RawRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := newTestNormalizer().Normalize(tt.raw, testFileQuake)
			assert.False(t, ok)
			assert.Equal(t, Shelter{}, s)
		})
	}
}

func TestNormalize_DropsAcrossEveryAlias(t *testing.T) {
	aliases := DefaultAliases()
	raw := RawRecord{}
	for _, f := range []Field{FieldLat, FieldLng, FieldCapacity, FieldContact, FieldFacilities} {
		for _, k := range aliases.Keys(f) {
			raw[k] = String("1")
		}
	}
	for _, k := range aliases.Keys(FieldName) {
		raw[k] = String("")
	}
	for _, k := range aliases.Keys(FieldAddress) {
		raw[k] = String(" ")
	}

	_, ok := newTestNormalizer().Normalize(raw, testFileQuake)
	assert.False(t, ok)
}

func TestNormalize_CustomAliases(t *testing.T) {
	aliases := DefaultAliases().With(FieldName, "shelter").With(FieldAddress, "addr")
	n := NewNormalizer(aliases, discardLogger())

	s, ok := n.Normalize(RawRecord{"shelter": String("D센터"), "addr": String("부산광역시 중구 1")}, "tsunami.csv")
	require.True(t, ok)
	assert.Equal(t, "D센터", s.Name)
	assert.Equal(t, TypeTsunami, s.Type)
	assert.Equal(t, "부산광역시", s.Source.Region)
}

func TestNormalize_UniqueIDs(t *testing.T) {
	n := NewNormalizer(nil, discardLogger())
	raw := RawRecord{"대피소명": String("A센터"), "주소": String(testAddressSeoul)}

	seen := make(map[string]struct{})
	for range 100 {
		s, ok := n.Normalize(raw, testFileQuake)
		require.True(t, ok)
		require.NotEmpty(t, s.ID)
		_, dup := seen[s.ID]
		require.False(t, dup)
		seen[s.ID] = struct{}{}
	}
}

func TestNormalize_ComposesDecomposedText(t *testing.T) {
	raw := RawRecord{
		"대피소명": String(norm.NFD.String("종로구민회관")),
		"주소":   String(norm.NFD.String("서울특별시 종로구 삼일대로 1")),
		"연락처":  String(norm.NFD.String("관리사무소")),
		"시설":   List(norm.NFD.String("화장실")),
	}

	s, ok := newTestNormalizer().Normalize(raw, testFileQuake)
	require.True(t, ok)

	assert.Equal(t, "종로구민회관", s.Name)
	assert.Equal(t, "서울특별시 종로구 삼일대로 1", s.Address)
	assert.Equal(t, "서울특별시", s.Source.Region)
	require.NotNil(t, s.Details.Contact)
	assert.Equal(t, "관리사무소", *s.Details.Contact)
	assert.Equal(t, []string{"화장실"}, s.Details.Facilities)
}

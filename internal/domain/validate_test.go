package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := func() Shelter {
		return Shelter{ID: "1", Name: "A센터", Address: testAddressSeoul}
	}

	tests := []struct {
		name   string
		mutate func(*Shelter)
		want   error
	}{
		{"valid without location", func(*Shelter) {}, nil},
		{"valid with location", func(s *Shelter) { s.Location = &Location{Lat: 37.57, Lng: 126.98} }, nil},
		{"missing name", func(s *Shelter) { s.Name = "" }, ErrMissingName},
		{"missing address", func(s *Shelter) { s.Address = "" }, ErrMissingAddress},
		{"one character name", func(s *Shelter) { s.Name = "A" }, ErrNameTooShort},
		{"one hangul syllable name", func(s *Shelter) { s.Name = "센" }, ErrNameTooShort},
		{"two hangul syllables", func(s *Shelter) { s.Name = "센터" }, nil},
		{"short address", func(s *Shelter) { s.Address = "서울 1" }, ErrAddressTooShort},
		{"five character address", func(s *Shelter) { s.Address = "서울시 1번" }, nil},
		{"NaN coordinate", func(s *Shelter) { s.Location = &Location{Lat: math.NaN(), Lng: 127} }, ErrLocationOutOfRange},
		{"outside country", func(s *Shelter) { s.Location = &Location{Lat: 35.68, Lng: 139.69} }, ErrLocationOutOfRange},
		{"zero coordinates", func(s *Shelter) { s.Location = &Location{} }, ErrLocationOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			assert.ErrorIs(t, Validate(s), tt.want)
			assert.Equal(t, tt.want == nil, IsValid(s))
		})
	}
}

func TestValidate_BoundingBoxEdges(t *testing.T) {
	tests := []struct {
		lat, lng float64
		valid    bool
	}{
		{33.0, 124.0, true},
		{32.999, 124.0, false},
		{39.0, 132.0, true},
		{39.001, 132.0, false},
		{36.0, 123.999, false},
		{36.0, 132.001, false},
	}

	for _, tt := range tests {
		s := Shelter{Name: "A센터", Address: testAddressSeoul, Location: &Location{Lat: tt.lat, Lng: tt.lng}}
		assert.Equal(t, tt.valid, IsValid(s), "lat=%v lng=%v", tt.lat, tt.lng)
	}
}

func TestValidate_ShortNameAlwaysRejected(t *testing.T) {
	s := Shelter{
		ID:       "1",
		Name:     "A",
		Address:  "서울특별시 종로구 세종대로 209",
		Location: &Location{Lat: 37.57, Lng: 126.98},
		Type:     TypeEarthquake,
	}
	assert.False(t, IsValid(s))
}

func TestReasonLabel(t *testing.T) {
	assert.Equal(t, "", ReasonLabel(nil))
	assert.Equal(t, "name_too_short", ReasonLabel(ErrNameTooShort))
	assert.Equal(t, "location_out_of_range", ReasonLabel(ErrLocationOutOfRange))
}

func TestValidateText_IgnoresLocation(t *testing.T) {
	s := Shelter{Name: "A센터", Address: testAddressSeoul, Location: &Location{Lat: 0, Lng: 0}}

	assert.NoError(t, ValidateText(s))
	assert.ErrorIs(t, Validate(s), ErrLocationOutOfRange)

	s.Name = "A"
	assert.ErrorIs(t, ValidateText(s), ErrNameTooShort)
	s.Name, s.Address = "A센터", "서울"
	assert.ErrorIs(t, ValidateText(s), ErrAddressTooShort)
}

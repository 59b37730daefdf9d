package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
	last   string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, address string) (GeocodingResult, error) {
	m.calls++
	m.last = address
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	s := Shelter{ID: "s-1", Name: "A센터", Address: testAddressSeoul}

	result := EnrichWithGeocoding(context.Background(), s, nil, discardLogger())

	assert.Nil(t, result.Location)
	assert.Empty(t, result.Source.GeoSource)
}

func TestEnrichWithGeocoding_Forward(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{Lat: 37.5729, Lng: 126.9794, FormattedAddress: testAddressSeoul}}
	s := Shelter{ID: "s-1", Name: "A센터", Address: testAddressSeoul}

	result := EnrichWithGeocoding(context.Background(), s, geo, discardLogger())

	require.NotNil(t, result.Location)
	assert.Equal(t, 37.5729, result.Location.Lat)
	assert.Equal(t, 126.9794, result.Location.Lng)
	assert.Equal(t, GeoSourceForward, result.Source.GeoSource)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, testAddressSeoul, geo.last)
}

func TestEnrichWithGeocoding_KeepsExistingLocation(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{Lat: 35.1, Lng: 129.0}}
	s := Shelter{
		ID:       "s-1",
		Address:  testAddressSeoul,
		Location: &Location{Lat: 37.57, Lng: 126.98},
		Source:   Source{GeoSource: GeoSourceOriginal},
	}

	result := EnrichWithGeocoding(context.Background(), s, geo, discardLogger())

	assert.Equal(t, 37.57, result.Location.Lat)
	assert.Equal(t, GeoSourceOriginal, result.Source.GeoSource)
	assert.Equal(t, 0, geo.calls)
}

func TestEnrichWithGeocoding_Error(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}
	s := Shelter{ID: "s-1", Address: testAddressSeoul}

	result := EnrichWithGeocoding(context.Background(), s, geo, discardLogger())

	assert.Nil(t, result.Location)
	assert.Equal(t, GeoSourceFailed, result.Source.GeoSource)
}

func TestEnrichWithGeocoding_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}
	s := Shelter{ID: "s-1", Address: testAddressSeoul}

	result := EnrichWithGeocoding(context.Background(), s, geo, discardLogger())

	assert.Nil(t, result.Location)
	assert.Empty(t, result.Source.GeoSource)
	assert.Equal(t, 1, geo.calls)
}

func TestEnrichWithGeocoding_OutOfBoundsIgnored(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{Lat: 35.68, Lng: 139.69}}
	s := Shelter{ID: "s-1", Name: "A센터", Address: testAddressSeoul}

	result := EnrichWithGeocoding(context.Background(), s, geo, discardLogger())

	assert.Nil(t, result.Location)
	assert.True(t, IsValid(result))
}

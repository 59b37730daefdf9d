package domain

import "time"

// ShelterType is the disaster category a shelter is designated for.
type ShelterType string

const (
	TypeEarthquake ShelterType = "지진"
	TypeFlood      ShelterType = "수해"
	TypeLandslide  ShelterType = "산사태"
	TypeTsunami    ShelterType = "해일"
	TypeOther      ShelterType = "기타"
)

// ShelterTypes lists the closed set of categories in classification order.
var ShelterTypes = []ShelterType{TypeEarthquake, TypeFlood, TypeLandslide, TypeTsunami, TypeOther}

// Valid reports whether t belongs to the closed category set.
func (t ShelterType) Valid() bool {
	for _, s := range ShelterTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Geo source labels recorded on Source.GeoSource.
const (
	GeoSourceOriginal = "original"
	GeoSourceForward  = "forward"
	GeoSourceFailed   = "failed"
)

// Location is a WGS-84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Details holds optional descriptive fields.
type Details struct {
	Capacity    *int      `json:"capacity,omitempty"`
	Contact     *string   `json:"contact,omitempty"`
	Facilities  []string  `json:"facilities,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Source records where a shelter came from.
type Source struct {
	Region       string    `json:"region"`
	OriginalFile string    `json:"originalFile"`
	LastUpdated  time.Time `json:"lastUpdated"`
	GeoSource    string    `json:"geoSource,omitempty"`
}

// Shelter is a normalized shelter record. Between normalization and
// validation it may be partial: a zero Name or Address marks a row that
// could not be keyed.
type Shelter struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Location *Location   `json:"location,omitempty"`
	Type     ShelterType `json:"type"`
	Details  Details     `json:"details"`
	Source   Source      `json:"source"`
}

// HasLocation reports whether coordinates were attached.
func (s Shelter) HasLocation() bool { return s.Location != nil }

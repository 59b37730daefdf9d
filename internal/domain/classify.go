package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RegionOther is the region label for addresses that do not start with a
// known province or metropolitan city.
const RegionOther = "기타"

// Regions lists the 17 first-level administrative divisions, matched as
// address prefixes in this order.
var Regions = []string{
	"서울특별시",
	"부산광역시",
	"대구광역시",
	"인천광역시",
	"광주광역시",
	"대전광역시",
	"울산광역시",
	"세종특별자치시",
	"경기도",
	"강원도",
	"충청북도",
	"충청남도",
	"전라북도",
	"전라남도",
	"경상북도",
	"경상남도",
	"제주특별자치도",
}

type typeKeyword struct {
	keyword string
	typ     ShelterType
}

// typeKeywords is checked in order against the lower-cased file name.
var typeKeywords = []typeKeyword{
	{"지진", TypeEarthquake},
	{"earthquake", TypeEarthquake},
	{"수해", TypeFlood},
	{"flood", TypeFlood},
	{"산사태", TypeLandslide},
	{"landslide", TypeLandslide},
	{"해일", TypeTsunami},
	{"tsunami", TypeTsunami},
}

// ClassifyRegion returns the province or metropolitan city the address starts
// with, or RegionOther. Only the start of the address is considered, so a
// street named after another city does not match.
func ClassifyRegion(address string) string {
	address = strings.TrimSpace(norm.NFC.String(address))
	for _, r := range Regions {
		if strings.HasPrefix(address, r) {
			return r
		}
	}
	return RegionOther
}

// ClassifyType infers the shelter category from the source file name.
func ClassifyType(fileName string) ShelterType {
	name := strings.ToLower(norm.NFC.String(fileName))
	for _, kw := range typeKeywords {
		if strings.Contains(name, kw.keyword) {
			return kw.typ
		}
	}
	return TypeOther
}

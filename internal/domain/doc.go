// Package domain models disaster-shelter records collected from public
// open-data portals and normalizes them into a single shelter collection.
//
// # Data Source
//
// Shelter lists are published per region and per disaster category as CSV or
// XLSX downloads (earthquake outdoor evacuation sites, flood shelters,
// landslide shelters, tsunami evacuation sites, civil-defense shelters). Each
// publisher uses its own header names, sometimes in Korean, sometimes in
// English, and occasionally with a "대피소_" prefix. Files are dropped into a
// single directory and processed as one batch.
//
// # Column Aliases
//
// A logical field (name, address, lat, lng, capacity, contact, facilities) is
// resolved through an ordered alias list. The first alias whose cell is
// present and non-blank wins:
//
//	name:    대피소명, 시설명, 명칭, 대피소, 시설물명, 대피소_명칭
//	address: 주소, 소재지, 위치, 대피소_위치, 시설물주소, 도로명주소, 지번주소
//	lat:     위도, lat, latitude, LAT, Latitude, 대피소_위도
//	lng:     경도, lng, longitude, LNG, Longitude, 대피소_경도
//
// Extra aliases can be appended per deployment without code changes
// (see [AliasTable.With]).
//
// # Address Conventions
//
// Addresses start with the province or metropolitan city in its full form,
// e.g. "서울특별시 종로구 세종대로 209". Normalization collapses whitespace and
// strips parentheses and commas, so "서울특별시 종로구 (세종로) 1, 2층" and
// "서울특별시  종로구 세종로 1 2층" compare closely. The region is the full
// province name found at the very start of the address; anything else is
// classified as [RegionOther].
//
// # Shelter Type
//
// The disaster category is never read from cell data. It is inferred from the
// source file name ("지진_옥외대피장소.csv" → earthquake). Korean and English
// keywords are both recognized.
//
// # Coordinates
//
// Extraction rejects only physically impossible coordinates (outside
// [-90,90]×[-180,180]). Validation is stricter and requires the country
// bounding box lat 33–39, lng 124–132. A record without coordinates is still
// valid; it is listed but cannot be placed on a map.
//
// # Deduplication
//
// Records are keyed by normalized address + "_" + trimmed name. The first
// record seen for a key wins. Files are processed in lexical file-name order
// and rows in file order, so the surviving variant is stable across runs.
package domain

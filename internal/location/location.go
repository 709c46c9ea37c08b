// Package location decodes the compact pipe-delimited location encoding
// stored in the users table: "Address | Latitude | Longitude | MapLink".
package location

import (
	"strconv"
	"strings"
)

// Delimiter separates the segments of an encoded location string. The
// surrounding spaces are part of the delimiter.
const Delimiter = " | "

// Location is the decoded form of a raw location string. When AutoDetected
// is false the whole raw string is treated as a free-text address and the
// coordinate fields are nil.
type Location struct {
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	MapLink      *string  `json:"map_link"`
	AutoDetected bool     `json:"is_auto_detected"`
	Raw          string   `json:"full_string,omitempty"`
}

// Parse decodes a raw location string. It never fails: anything that is not
// a well-formed four-segment encoding with numeric coordinates degrades to a
// manual (plain address) classification. Segments beyond the fourth are
// ignored.
//
// Note: the storage layer filters auto/manual with a shape-only LIKE pattern
// that does not check the coordinates parse as numbers, so a row can be
// selected by the "auto" filter yet decode here as manual. That discrepancy
// is intentional.
func Parse(raw string) Location {
	if raw == "" {
		return Location{}
	}

	parts := strings.Split(raw, Delimiter)
	if len(parts) < 4 {
		return manual(raw)
	}

	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return manual(raw)
	}
	lng, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return manual(raw)
	}

	link := parts[3]
	return Location{
		Address:      parts[0],
		Latitude:     &lat,
		Longitude:    &lng,
		MapLink:      &link,
		AutoDetected: true,
		Raw:          raw,
	}
}

func manual(raw string) Location {
	return Location{Address: raw, Raw: raw}
}

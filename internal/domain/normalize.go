package domain

import (
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns raw records into shelter records using a fixed alias table.
type Normalizer struct {
	aliases AliasTable
	newID   func() string
	logger  *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil alias table means DefaultAliases.
func NewNormalizer(aliases AliasTable, logger *slog.Logger) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{
		aliases: aliases,
		newID:   uuid.NewString,
		logger:  logger,
	}
}

// Aliases returns the table the normalizer resolves columns with.
func (n *Normalizer) Aliases() AliasTable { return n.aliases }

// Normalize builds a shelter record from raw, tagging it with fileName. It
// returns false, together with a zero Shelter, when no name or no address can
// be extracted; the row should be dropped.
func (n *Normalizer) Normalize(raw RawRecord, fileName string) (Shelter, bool) {
	fileName = norm.NFC.String(fileName)

	name, okName := extractName(n.aliases, raw)
	address, okAddr := extractAddress(n.aliases, raw)
	if !okName || !okAddr {
		n.logger.Warn("missing required fields, dropping record",
			"file", fileName,
			"has_name", okName,
			"has_address", okAddr,
		)
		return Shelter{}, false
	}

	now := clock.Now()
	s := Shelter{
		ID:      n.newID(),
		Name:    name,
		Address: address,
		Type:    ClassifyType(fileName),
		Details: Details{LastUpdated: now},
		Source: Source{
			Region:       ClassifyRegion(address),
			OriginalFile: fileName,
			LastUpdated:  now,
		},
	}

	if loc, ok := extractLocation(n.aliases, raw); ok {
		s.Location = &loc
		s.Source.GeoSource = GeoSourceOriginal
	}
	if c, ok := extractCapacity(n.aliases, raw); ok {
		s.Details.Capacity = &c
	}
	if c, ok := extractContact(n.aliases, raw); ok {
		s.Details.Contact = &c
	}
	if f, ok := extractFacilities(n.aliases, raw); ok {
		s.Details.Facilities = f
	}

	return s, true
}

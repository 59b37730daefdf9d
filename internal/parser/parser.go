package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Parser dispatches a source file to the reader for its format.
type Parser struct {
	logger *slog.Logger
}

// New creates a Parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads every data row of the file at path. Unsupported formats are
// logged and yield no records and no error. Malformed rows inside a delimited
// file are skipped; an error means the whole file could not be read.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := FormatOf(path)
	var (
		recs []domain.RawRecord
		err  error
	)
	switch format {
	case FormatCSV:
		recs, err = p.parseDelimited(path, ',')
	case FormatTSV:
		recs, err = p.parseDelimited(path, '\t')
	case FormatXLSX:
		recs, err = p.parseSpreadsheet(path)
	default:
		p.logger.Warn("unsupported file format, skipping", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s file %s: %w", format, path, err)
	}
	return recs, nil
}

// normalizeHeader trims a header cell and composes decomposed Hangul so keys
// match the alias table.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(norm.NFC.String(s))
}

// buildRecord pairs header keys with row cells. Empty header cells are
// ignored and the first column wins when a header repeats.
func buildRecord(header, row []string) domain.RawRecord {
	rec := make(domain.RawRecord, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if _, exists := rec[key]; exists {
			continue
		}
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		rec[key] = domain.String(cell)
	}
	return rec
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

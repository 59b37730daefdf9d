package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"golang.org/x/text/encoding/korean"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText returns data as UTF-8. Public-sector exports are often CP949
// (EUC-KR superset); anything that is not valid UTF-8 is decoded as such.
func decodeText(data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, "utf-8", nil
	}
	out, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode cp949: %w", err)
	}
	return out, "cp949", nil
}

// parseDelimited reads a header-first delimited file. Quoting is relaxed, and
// rows that fail to parse or whose column count differs from the header are
// skipped rather than failing the file.
func (p *Parser) parseDelimited(path string, comma rune) ([]domain.RawRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, encoding, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = normalizeHeader(header[i])
	}

	var (
		recs    []domain.RawRecord
		skipped int
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				p.logger.Debug("skipping malformed row", "path", path, "line", perr.Line, "error", perr.Err)
				skipped++
				continue
			}
			return nil, err
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) != len(header) {
			line, _ := r.FieldPos(0)
			p.logger.Debug("skipping row with wrong column count",
				"path", path, "line", line, "want", len(header), "got", len(row))
			skipped++
			continue
		}
		recs = append(recs, buildRecord(header, row))
	}

	if skipped > 0 {
		p.logger.Warn("skipped malformed rows", "path", path, "skipped", skipped)
	}
	p.logger.Debug("parsed delimited file", "path", path, "encoding", encoding, "records", len(recs))
	return recs, nil
}

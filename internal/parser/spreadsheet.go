package parser

import (
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet reads the first worksheet of an XLSX workbook. The first
// row is the header; other sheets are ignored. Cell values are read raw so
// coordinates keep their full precision regardless of display format.
func (p *Parser) parseSpreadsheet(path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.Warn("close workbook failed", "path", path, "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	if len(sheets) > 1 {
		p.logger.Debug("workbook has multiple sheets, reading the first only",
			"path", path, "sheet", sheets[0], "sheets", len(sheets))
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	recs := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		recs = append(recs, buildRecord(header, row))
	}

	p.logger.Debug("parsed spreadsheet", "path", path, "sheet", sheets[0], "records", len(recs))
	return recs, nil
}

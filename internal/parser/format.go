// Package parser reads shelter source files into raw records. The format is
// chosen from the file extension; each format is a closed variant of Format.
package parser

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported source file layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for path based on its extension, ignoring case.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatUnknown
	}
}

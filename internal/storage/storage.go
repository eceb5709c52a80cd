// Package storage saves and loads sheet snapshots as JSON, CSV or XLSX.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hitenkalda/SpreadSheets/internal/sheet"
)

// Format is a snapshot file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnknownFormat   = errors.New("unknown snapshot format")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ParseFormat accepts a format name such as "csv" or ".csv".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, filename)
	}
	return ParseFormat(ext)
}

// Save writes s to filename in the given format.
func Save(s *sheet.Sheet, filename string, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		err = SaveJSON(s, filename)
	case FormatCSV:
		err = SaveCSV(s, filename)
	case FormatXLSX:
		err = SaveXLSX(s, filename)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	logger().Info("snapshot saved",
		slog.String("path", filename),
		slog.String("format", string(format)),
		slog.Int("cells", len(s.Cells)),
	)
	return nil
}

// Load reads a snapshot from filename in the given format.
func Load(filename string, format Format) (*sheet.Sheet, error) {
	var (
		s   *sheet.Sheet
		err error
	)
	switch format {
	case FormatJSON:
		s, err = LoadJSON(filename)
	case FormatCSV:
		s, err = LoadCSV(filename)
	case FormatXLSX:
		s, err = LoadXLSX(filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	logger().Info("snapshot loaded",
		slog.String("path", filename),
		slog.String("format", string(format)),
		slog.Int("cells", len(s.Cells)),
	)
	return s, nil
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "storage"))
}

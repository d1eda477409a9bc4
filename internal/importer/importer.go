// Package importer reads ticker symbol lists from local files, either a
// plain newline-separated list or a CSV export with a Symbol column.
package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "divscout/internal/errors"
	"divscout/internal/models"
)

// Result holds the outcome of parsing a symbol list.
type Result struct {
	Symbols []string
	Skipped []string
}

// ReadFile parses the symbol list at the given path.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidationFailed, fmt.Errorf("opening symbol file: %w", err))
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads a symbol list from r. When the first non-blank line is a CSV
// header containing a "symbol" column, the file is parsed as CSV and that
// column is used; otherwise every line is treated as one symbol. Blank
// lines and lines starting with # are ignored. Symbols are normalized,
// validated, and deduplicated preserving first-seen order; rejects land
// in Skipped.
func Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidationFailed, fmt.Errorf("reading symbol list: %w", err))
	}
	if len(lines) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "Symbol list is empty")
	}

	raw := lines
	if col := symbolColumn(lines[0]); col >= 0 {
		values, err := csvColumn(lines, col)
		if err != nil {
			return nil, err
		}
		raw = values
	}

	result := &Result{}
	seen := make(map[string]bool)
	for _, candidate := range raw {
		symbol := models.NormalizeTicker(candidate)
		if symbol == "" || seen[symbol] {
			continue
		}
		if !models.ValidTicker(symbol) {
			result.Skipped = append(result.Skipped, candidate)
			continue
		}
		seen[symbol] = true
		result.Symbols = append(result.Symbols, symbol)
	}

	if len(result.Symbols) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "Symbol list has no valid symbols")
	}
	return result, nil
}

// symbolColumn returns the index of the "symbol" column if the line looks
// like a CSV header, or -1.
func symbolColumn(header string) int {
	if !strings.Contains(header, ",") {
		return -1
	}
	fields, err := csv.NewReader(strings.NewReader(header)).Read()
	if err != nil {
		return -1
	}
	for i, field := range fields {
		if strings.EqualFold(strings.TrimSpace(field), "symbol") {
			return i
		}
	}
	return -1
}

// csvColumn extracts one column from the CSV body (lines after the header).
func csvColumn(lines []string, col int) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.Join(lines[1:], "\n")))
	reader.FieldsPerRecord = -1

	var values []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrValidationFailed, fmt.Errorf("parsing CSV: %w", err))
		}
		if col >= len(record) {
			continue
		}
		values = append(values, record[col])
	}
	return values, nil
}

package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"school-navigator/internal/dataset"
)

const utf8BOM = "\ufeff"

// delimiters are the separators ReadCSV recognizes, in tie-break order
var delimiters = []rune{',', ';', '\t', '|'}

// ReadCSV parses delimited text with a header row into rows. The delimiter
// is detected from the header line. Blank lines are skipped and rows may
// have fewer cells than the header.
func ReadCSV(r io.Reader) ([]dataset.Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text := strings.TrimSpace(strings.TrimPrefix(string(raw), utf8BOM))
	if text == "" {
		return []dataset.Row{}, nil
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	for i, name := range table[0] {
		table[0][i] = strings.TrimSpace(name)
	}
	return dataset.RowsFromTable(table), nil
}

// detectDelimiter returns the candidate delimiter occurring most often in
// the first line outside quotes, or a comma when none occurs
func detectDelimiter(text string) rune {
	header, _, _ := strings.Cut(text, "\n")

	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, c := range header {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

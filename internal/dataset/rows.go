package dataset

// Row is one imported table row keyed by its header cells
type Row map[string]string

// first returns the first non-empty value among the given header synonyms
func (r Row) first(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// RowsFromTable turns a header row plus data rows into Rows.
// Rows whose cells are all empty are skipped and short rows are padded.
func RowsFromTable(table [][]string) []Row {
	if len(table) == 0 {
		return []Row{}
	}
	header := table[0]
	rows := make([]Row, 0, len(table)-1)
	for _, record := range table[1:] {
		if blank(record) {
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

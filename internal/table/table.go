// Package table turns raw ledger payloads into header-resolved tables and
// assigns semantic roles to their columns.
//
// Exports arrive either as a genuine grid (spreadsheet-shaped) or as a flat
// list of text lines. Headers are rarely where they should be, so the
// normalizer hunts for them instead of trusting row 0.
package table

import (
	"fmt"
	"strings"
)

// Grid is a rectangular-ish payload of raw cells. Cells may be strings,
// numbers, decimals, or times; ragged rows are tolerated.
type Grid [][]any

// RawColumn is the synthetic column name used for line-based payloads.
const RawColumn = "raw"

// headerKeywords mark a row as a probable header. A row qualifies when at
// least two of them occur in its concatenated lowercase text.
var headerKeywords = []string{"дата", "контраг", "дебет", "кредит", "остат", "назнач", "опис"}

// headerScanRows caps how deep the header search goes.
const headerScanRows = 10

// Table is a header-resolved view of a Grid.
type Table struct {
	// Columns are the lowercased, de-duplicated header names, in
	// original order.
	Columns []string
	// Rows are the data rows, padded to len(Columns).
	Rows [][]any
	// Raw marks a single-column payload routed through the free-text
	// path.
	Raw bool
}

// FromLines builds a single-column Grid from raw text lines. Blank lines
// are dropped, matching how flat PDF/text exports are consumed.
func FromLines(lines []string) Grid {
	var g Grid
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		g = append(g, []any{l})
	}
	return g
}

// Normalize finds the header row and returns the data rows under named
// columns. Single-column grids skip the header search entirely: every row
// is raw text. An empty grid yields an empty table.
func Normalize(g Grid) Table {
	if len(g) == 0 {
		return Table{}
	}

	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return Table{}
	}

	if width == 1 {
		rows := make([][]any, 0, len(g))
		for _, row := range g {
			if len(row) == 0 {
				continue
			}
			rows = append(rows, []any{row[0]})
		}
		return Table{Columns: []string{RawColumn}, Rows: rows, Raw: true}
	}

	headerIdx := findHeaderRow(g)
	headers := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(g[headerIdx]) {
			headers[i] = strings.ToLower(strings.TrimSpace(CellText(g[headerIdx][i])))
		}
	}

	var rows [][]any
	for _, row := range g[headerIdx+1:] {
		padded := make([]any, width)
		copy(padded, row)
		rows = append(rows, padded)
	}

	return Table{Columns: uniqueHeaders(headers), Rows: rows}
}

// findHeaderRow scans the first rows for one that mentions at least two
// header keywords; the first hit wins. Without a hit, row 0 is assumed to
// be the header.
func findHeaderRow(g Grid) int {
	limit := len(g)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		var parts []string
		for _, cell := range g[i] {
			parts = append(parts, CellText(cell))
		}
		text := strings.ToLower(strings.Join(parts, " "))
		hits := 0
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return i
		}
	}
	return 0
}

// uniqueHeaders guarantees distinct, non-empty column names by filling
// blanks with col_<i> and suffixing repeats with an ordinal.
func uniqueHeaders(headers []string) []string {
	res := make([]string, 0, len(headers))
	seen := make(map[string]int)
	for i, h := range headers {
		name := h
		if name == "" {
			name = fmt.Sprintf("col_%d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		res = append(res, name)
	}
	return res
}

// CellText renders any cell as text for keyword and regex heuristics.
func CellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(cell)
	}
}

// RowText concatenates a row's cells for whole-row scanning.
func RowText(row []any) string {
	var parts []string
	for _, cell := range row {
		parts = append(parts, CellText(cell))
	}
	return strings.Join(parts, " ")
}

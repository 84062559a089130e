// Package loader reads ledger export files into raw payloads for the
// parsers: CSV files become grids, text and PDF files become line
// sequences. Classification of what a document *is* stays with the
// caller.
package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dmitriimasiakin/pd-bot/internal/table"
)

// FromCSV reads a CSV payload into a grid. Ragged rows are kept; the
// normalizer pads them.
func FromCSV(r io.Reader) (table.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	g := make(table.Grid, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		g = append(g, row)
	}
	return g, nil
}

// FromText reads a flat text payload into lines.
func FromText(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	return lines, nil
}

// FromPDF extracts the plain text of each PDF page into lines. Scanned
// (image-only) PDFs yield no lines.
func FromPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i, err)
		}
		for _, l := range strings.Split(text, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}
	return lines, nil
}

// Load reads a file into a grid by extension: .csv as a table, .pdf and
// everything else as raw lines.
func Load(path string) (table.Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return FromCSV(f)
	case ".pdf":
		lines, err := FromPDF(path)
		if err != nil {
			return nil, err
		}
		return table.FromLines(lines), nil
	default:
		f, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		lines, err := FromText(f)
		if err != nil {
			return nil, err
		}
		return table.FromLines(lines), nil
	}
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

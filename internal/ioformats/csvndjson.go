
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// monomerColumn is the CSV header and NDJSON key naming a monomer.
const monomerColumn = "monomer"

// ReadMonomers reads monomer keys from a CSV file with a "monomer" header, or
// from NDJSON where each line is either {"monomer": "..."} or a bare key.
// Files with another extension are tried as CSV first, then NDJSON.
func ReadMonomers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(f)
	case ".ndjson", ".jsonl":
		return readNDJSON(f)
	}
	if out, err := readCSV(f); err == nil && len(out) > 0 {
		return out, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return readNDJSON(f)
}

// bom is the UTF-8 byte order mark spreadsheet exports put before the header.
const bom = "\ufeff"

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		_, _ = br.Discard(len(bom))
	}
	return br
}

// readCSV streams rows and keeps the non-empty cells of the monomer column.
// Lines starting with '#' are comments.
func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	col := slices.IndexFunc(header, func(h string) bool {
		return strings.EqualFold(strings.TrimSpace(h), monomerColumn)
	})
	if col < 0 {
		return nil, fmt.Errorf("csv must contain a %q header column", monomerColumn)
	}

	var out []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if col >= len(row) {
			continue
		}
		if m := strings.TrimSpace(row[col]); m != "" {
			out = append(out, m)
		}
	}
}

// readNDJSON accepts three line shapes: {"monomer": "..."}, a JSON string,
// or a bare monomer key. An object without a monomer is an error.
func readNDJSON(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(skipBOM(r))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "{"):
			var row struct {
				Monomer string `json:"monomer"`
			}
			if err := json.Unmarshal([]byte(line), &row); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if row.Monomer == "" {
				return nil, fmt.Errorf("line %d: object has no %q", n, monomerColumn)
			}
			out = append(out, row.Monomer)
		case strings.HasPrefix(line, `"`):
			var m string
			if err := json.Unmarshal([]byte(line), &m); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			out = append(out, m)
		default:
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no monomers found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes items to w, one JSON document per line.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

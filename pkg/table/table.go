// Package table loads the CSV files produced by plot_contacts and the
// domains description of a protein.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
)

// Contacts is a loaded contacts CSV.
type Contacts struct {
	Header []string
	Format contacts.Format
	Rows   []contacts.Row
}

// ReadContacts loads the contacts CSV at path. With contacts.FormatAuto the
// format is sniffed from the header and the first atoms contacts field.
func ReadContacts(path string, format contacts.Format) (*Contacts, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &contacts.MissingFileError{Kind: "contacts", Path: path}
		}
		return nil, err
	}
	defer f.Close()

	c, err := ParseContacts(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseContacts reads contact rows from a CSV stream.
func ParseContacts(r io.Reader, format contacts.Format) (*Contacts, error) {
	records, header, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	cols := columnIndex(header)

	if format == contacts.FormatAuto {
		var samples []string
		if i, ok := cols[strings.ToLower(contacts.ColumnAtomsContacts)]; ok {
			for _, rec := range records {
				samples = append(samples, rec[i])
			}
		}
		if format, err = contacts.SniffFormat(header, samples); err != nil {
			return nil, err
		}
	}

	positionColumn := format.PositionColumn()
	required := []string{
		positionColumn,
		contacts.ColumnSecondPosition,
		contacts.ColumnSecondDomain,
		contacts.ColumnAtomsContacts,
		contacts.ColumnNumberContacts,
	}
	for _, name := range required {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("missing column %q for the %s format", name, format)
		}
	}

	out := &Contacts{Header: header, Format: format}
	for i, rec := range records {
		line := i + 2
		get := func(name string) string {
			idx, ok := cols[strings.ToLower(name)]
			if !ok {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		row := contacts.Row{
			Contact:       get(contacts.ColumnContact),
			SecondDomain:  get(contacts.ColumnSecondDomain),
			AtomsContacts: get(contacts.ColumnAtomsContacts),
		}
		if row.Position, err = atoi(get(positionColumn)); err != nil {
			return nil, fmt.Errorf("line %d, column %q: %w", line, positionColumn, err)
		}
		if row.SecondPosition, err = atoi(get(contacts.ColumnSecondPosition)); err != nil {
			return nil, fmt.Errorf("line %d, column %q: %w", line, contacts.ColumnSecondPosition, err)
		}
		if row.NumberContacts, err = atoi(get(contacts.ColumnNumberContacts)); err != nil {
			return nil, fmt.Errorf("line %d, column %q: %w", line, contacts.ColumnNumberContacts, err)
		}
		if row.NumberContacts < 0 {
			return nil, fmt.Errorf("line %d: negative number of atoms contacts", line)
		}
		if row.Contact == "" {
			row.Contact = fmt.Sprintf("%d-%d", row.Position, row.SecondPosition)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func readRecords(r io.Reader) ([][]string, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty CSV, a header is required")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return records[1:], header, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// atoi accepts integers written as floats by pandas, like "105.0".
func atoi(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

package table

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
)

// Domain is a colored range of residues, 1-indexed and inclusive.
type Domain struct {
	Name  string
	Start int
	End   int
	Color string
}

// RangeColorer colors a residue range in the session.
type RangeColorer interface {
	ColorRange(color string, start, end int)
}

// ReadDomains loads the domains CSV, with the columns domain, start, end
// and "pymol color".
func ReadDomains(path string) ([]Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &contacts.MissingFileError{Kind: "domains", Path: path}
		}
		return nil, err
	}
	defer f.Close()

	records, header, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cols := columnIndex(header)
	for _, name := range []string{"domain", "start", "end", "pymol color"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	domains := make([]Domain, 0, len(records))
	for i, rec := range records {
		d := Domain{
			Name:  strings.TrimSpace(rec[cols["domain"]]),
			Color: strings.TrimSpace(rec[cols["pymol color"]]),
		}
		if d.Start, err = atoi(strings.TrimSpace(rec[cols["start"]])); err != nil {
			return nil, fmt.Errorf("%s: line %d, column \"start\": %w", path, i+2, err)
		}
		if d.End, err = atoi(strings.TrimSpace(rec[cols["end"]])); err != nil {
			return nil, fmt.Errorf("%s: line %d, column \"end\": %w", path, i+2, err)
		}
		if d.Start > d.End {
			return nil, fmt.Errorf("%s: line %d: start %d > end %d", path, i+2, d.Start, d.End)
		}
		domains = append(domains, d)
	}
	return domains, nil
}

// DomainNames lists the domain names, in file order.
func DomainNames(domains []Domain) []string {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Name
	}
	return names
}

// ColorDomains colors every domain with a color set.
func ColorDomains(c RangeColorer, domains []Domain) int {
	colored := 0
	for _, d := range domains {
		if d.Color == "" {
			continue
		}
		c.ColorRange(d.Color, d.Start, d.End)
		colored++
	}
	return colored
}

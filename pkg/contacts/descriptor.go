// Package contacts resolves the atom contacts found by the plot_contacts
// analysis against a loaded structure and draws them in a PyMOL session.
package contacts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Format identifies the layout of the atoms contacts column.
type Format int

const (
	FormatAuto Format = iota
	// FormatV1 separates segments with a space: LYS105_NZ-GLU210_OE1
	FormatV1
	// FormatV2 separates segments with ';' and writes the second atom as
	// <fallback>-<preferred>: LYS105_NZ-GLU210_OE2-OE1
	FormatV2
	// FormatV3 separates segments with ' | ' and writes the second atom as
	// <preferred>[-<fallback>]: LYS105_NZ-GLU210_OE1-OE2
	FormatV3
)

func (f Format) String() string {
	switch f {
	case FormatV1:
		return "v1"
	case FormatV2:
		return "v2"
	case FormatV3:
		return "v3"
	}
	return "auto"
}

// ParseFormat maps a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "v1", "a", "space":
		return FormatV1, nil
	case "v2", "b", "semicolon":
		return FormatV2, nil
	case "v3", "c", "pipe":
		return FormatV3, nil
	}
	return FormatAuto, &UsageError{Flag: "format", Value: s, Reason: "it should be one of: auto, v1, v2, v3."}
}

// Descriptor is one atom pair parsed from the atoms contacts field.
type Descriptor struct {
	Raw      string
	Resi1    int
	Atom1    string
	Resi2    int
	Atom2    string
	Fallback string
}

// HasFallback reports whether an alternate atom name exists for the second atom.
func (d Descriptor) HasFallback() bool {
	return d.Fallback != ""
}

// atomName is a PDB atom name: letters, digits, primes and stars.
const atomName = `[A-Za-z0-9'*]+`

var (
	patternV1     = regexp.MustCompile(`^\D{3}(\d+)_(` + atomName + `)-\D{3}(\d+)_(?:` + atomName + `-)*(` + atomName + `)$`)
	patternV2     = regexp.MustCompile(`^\D{3}(\d+)_(` + atomName + `)-\D{3}(\d+)_(` + atomName + `)-(` + atomName + `)$`)
	patternV3     = regexp.MustCompile(`^\D{3}(\d+)_(` + atomName + `)-\D{3}(\d+)_(` + atomName + `(?:-` + atomName + `)?)$`)
	patternAtomV3 = regexp.MustCompile(`^(` + atomName + `)-(` + atomName + `)$`)
)

// PositionColumn is the column holding the partner position checked against
// the Region Of Interest.
func (f Format) PositionColumn() string {
	if f == FormatV1 {
		return ColumnFirstPosition
	}
	return ColumnROIPosition
}

func (f Format) separator() string {
	switch f {
	case FormatV2:
		return ";"
	case FormatV3:
		return " | "
	}
	return " "
}

func (f Format) pattern() *regexp.Regexp {
	switch f {
	case FormatV2:
		return patternV2
	case FormatV3:
		return patternV3
	}
	return patternV1
}

// ParseDescriptors splits the atoms contacts field of a row and parses every
// segment. A segment that does not match is an error, never skipped.
func ParseDescriptors(raw string, f Format) ([]Descriptor, error) {
	if f == FormatAuto {
		f = sniffSeparator(raw)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var descriptors []Descriptor
	for _, segment := range strings.Split(raw, f.separator()) {
		segment = strings.TrimSpace(segment)
		if segment == "" && f == FormatV2 {
			// trailing ';'
			continue
		}
		d, err := parseSegment(segment, f)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func parseSegment(segment string, f Format) (Descriptor, error) {
	pattern := f.pattern()
	m := pattern.FindStringSubmatch(segment)
	if m == nil {
		return Descriptor{}, &ParseError{Segment: segment, Format: f, Pattern: pattern.String()}
	}

	d := Descriptor{Raw: segment, Atom1: m[2]}
	var err error
	if d.Resi1, err = strconv.Atoi(m[1]); err != nil {
		return Descriptor{}, fmt.Errorf("residue position %q: %w", m[1], err)
	}
	if d.Resi2, err = strconv.Atoi(m[3]); err != nil {
		return Descriptor{}, fmt.Errorf("residue position %q: %w", m[3], err)
	}

	switch f {
	case FormatV2:
		// groups are (second, first), the first one is preferred
		d.Atom2, d.Fallback = m[5], m[4]
	case FormatV3:
		if am := patternAtomV3.FindStringSubmatch(m[4]); am != nil {
			d.Atom2, d.Fallback = am[1], am[2]
		} else {
			d.Atom2 = m[4]
		}
	default:
		d.Atom2 = m[4]
	}
	return d, nil
}

// sniffSeparator guesses the format of a single field from its separators.
func sniffSeparator(raw string) Format {
	switch {
	case strings.Contains(raw, " | "):
		return FormatV3
	case strings.Contains(raw, ";"):
		return FormatV2
	case strings.Contains(strings.TrimSpace(raw), " "):
		return FormatV1
	}
	// A single segment is ambiguous, V3 is the current producer output.
	return FormatV3
}

// SniffFormat picks the row format from the CSV header and the atoms
// contacts fields of every row. Without the ROI partner position column the
// table is v1. Otherwise a ' | ' separator means v3 and a ';' means v2; when
// no row has a separator, a second atom without the <fallback>-<preferred>
// pair rules v2 out. A table mixing both separators, or whose rows fit both
// formats, needs an explicit --format.
func SniffFormat(header []string, samples []string) (Format, error) {
	roiColumn := false
	for _, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), ColumnROIPosition) {
			roiColumn = true
			break
		}
	}
	if !roiColumn {
		return FormatV1, nil
	}

	var pipe, semicolon, notV2, fields bool
	for _, sample := range samples {
		sample = strings.TrimSpace(sample)
		if sample == "" {
			continue
		}
		fields = true
		switch {
		case strings.Contains(sample, " | "):
			pipe = true
		case strings.Contains(sample, ";"):
			semicolon = true
		case !patternV2.MatchString(sample):
			notV2 = true
		}
	}

	switch {
	case pipe && semicolon:
		return FormatAuto, &UsageError{Flag: "format", Value: FormatAuto.String(),
			Reason: "the atoms contacts column mixes ' | ' and ';' separators, set the format explicitly."}
	case semicolon:
		return FormatV2, nil
	case pipe, notV2, !fields:
		return FormatV3, nil
	}
	return FormatAuto, &UsageError{Flag: "format", Value: FormatAuto.String(),
		Reason: "every atoms contacts field is a single segment valid as both v2 and v3, set the format explicitly."}
}

package contacts

import (
	"fmt"
	"strings"
)

// UsageError reports a malformed command-line value, such as a bad --roi.
type UsageError struct {
	Flag   string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("'%s' argument for the option --%s is malformed, %s", e.Value, e.Flag, e.Reason)
}

// MissingFileError is returned when an input file does not exist.
type MissingFileError struct {
	Kind string
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s file not found: %s", e.Kind, e.Path)
}

// ParseError is returned when a segment of the atoms contacts field matches
// none of the patterns of the row format.
type ParseError struct {
	Segment string
	Format  Format
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no match in %q for the %s pattern '%s'", e.Segment, e.Format, e.Pattern)
}

// ResolutionError is returned when an atom selection does not match exactly
// one atom and no fallback atom rescued it.
type ResolutionError struct {
	Contact   string
	Attempted []Selection
	Counts    []int
}

func (e *ResolutionError) Error() string {
	parts := make([]string, 0, len(e.Attempted))
	for i, s := range e.Attempted {
		parts = append(parts, fmt.Sprintf("select %s (%d atoms)", s, e.Counts[i]))
	}
	return fmt.Sprintf("%s: selection failed, expected exactly one atom: %s", e.Contact, strings.Join(parts, ", then "))
}

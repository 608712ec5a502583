package contacts

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Column names written by plot_contacts.
const (
	ColumnContact        = "contact"
	ColumnFirstPosition  = "first partner position"
	ColumnROIPosition    = "ROI partner position"
	ColumnSecondPosition = "second partner position"
	ColumnSecondDomain   = "second partner domain"
	ColumnAtomsContacts  = "atoms contacts"
	ColumnNumberContacts = "number atoms contacts"
)

// Row is one residues pair of the contacts CSV.
type Row struct {
	Contact string
	// Position is the partner position governed by the region of interest.
	Position       int
	SecondPosition int
	SecondDomain   string
	AtomsContacts  string
	NumberContacts int
}

// Region is an inclusive [Start, End] interval of residue positions.
type Region struct {
	Start int
	End   int
}

var patternRegion = regexp.MustCompile(`^\s*(\d+)-(\d+)\s*$`)

// ParseRegion reads a region of interest written as "100-200".
func ParseRegion(s string) (*Region, error) {
	m := patternRegion.FindStringSubmatch(s)
	if m == nil {
		return nil, &UsageError{Flag: "roi", Value: s, Reason: "it should be two integers separated by an hyphen, i.e: '100-200'."}
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, &UsageError{Flag: "roi", Value: s, Reason: err.Error()}
	}
	end, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, &UsageError{Flag: "roi", Value: s, Reason: err.Error()}
	}
	if start > end {
		return nil, &UsageError{
			Flag:   "roi",
			Value:  s,
			Reason: "the first position (" + m[1] + ") is > to the second position (" + m[2] + ").",
		}
	}
	return &Region{Start: start, End: end}, nil
}

// Contains reports whether pos is within the region, bounds included.
func (r *Region) Contains(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

func (r *Region) String() string {
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// DomainSet is a case-insensitive set of domain names.
type DomainSet map[string]string

func normalizeDomain(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewDomainSet builds the set from command-line values. Blank names are ignored.
func NewDomainSet(names []string) DomainSet {
	set := make(DomainSet)
	for _, n := range names {
		key := normalizeDomain(n)
		if key == "" {
			continue
		}
		if _, ok := set[key]; !ok {
			set[key] = strings.TrimSpace(n)
		}
	}
	return set
}

// Has reports whether the domain belongs to the set.
func (s DomainSet) Has(domain string) bool {
	_, ok := s[normalizeDomain(domain)]
	return ok
}

// Validate removes the names absent from the known domains and returns them.
func (s DomainSet) Validate(known []string) []string {
	knownSet := NewDomainSet(known)
	var dropped []string
	for key, name := range s {
		if !knownSet.Has(key) {
			dropped = append(dropped, name)
			delete(s, key)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// Names returns the lower-cased names, sorted.
func (s DomainSet) Names() []string {
	names := make([]string, 0, len(s))
	for key := range s {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Decision is the fate of a row before atom resolution.
type Decision int

const (
	Keep Decision = iota
	DropROI
	DropDomain
)

// Filter decides which rows are resolved.
type Filter struct {
	ROI      *Region
	Excluded DomainSet
}

// Decide applies the region of interest first, then the excluded domains.
func (f *Filter) Decide(row Row) Decision {
	if f.ROI != nil && !f.ROI.Contains(row.Position) {
		return DropROI
	}
	if len(f.Excluded) > 0 && f.Excluded.Has(row.SecondDomain) {
		return DropDomain
	}
	return Keep
}

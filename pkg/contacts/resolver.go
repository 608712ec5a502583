package contacts

import "fmt"

// Selection addresses atoms by residue position and atom name, the way
// "resi 105 and name NZ" does in PyMOL.
type Selection struct {
	Resi int
	Name string
}

func (s Selection) String() string {
	return fmt.Sprintf("resi %d and name %s", s.Resi, s.Name)
}

// Viewer is the part of the visualization session the contacts need.
type Viewer interface {
	// CountAtoms returns how many atoms the selection matches.
	CountAtoms(sel Selection) int
	// Distance draws a measurement object named name between two atoms.
	Distance(name string, a, b Selection) error
	HideLabels(name string)
	Color(color, target string)
	// Show switches the given residues to a representation.
	Show(representation string, residues ...int)
}

// Status is the confidence label attached to a resolved descriptor.
type Status int

const (
	Accepted Status = iota
	Downgraded
)

func (s Status) String() string {
	if s == Downgraded {
		return "downgraded"
	}
	return "accepted"
}

// Outcome is a successfully resolved descriptor.
type Outcome struct {
	Status Status
	Atom1  Selection
	Atom2  Selection
	// Preferred is the selection that failed when Status is Downgraded.
	Preferred Selection
}

// Resolve finds exactly one atom on each side of the descriptor. When the
// preferred second atom is missing or ambiguous, the fallback name is tried
// before giving up.
func Resolve(v Viewer, d Descriptor) (Outcome, error) {
	first := Selection{Resi: d.Resi1, Name: d.Atom1}
	if n := v.CountAtoms(first); n != 1 {
		return Outcome{}, &ResolutionError{Contact: d.Raw, Attempted: []Selection{first}, Counts: []int{n}}
	}

	preferred := Selection{Resi: d.Resi2, Name: d.Atom2}
	n := v.CountAtoms(preferred)
	if n == 1 {
		return Outcome{Status: Accepted, Atom1: first, Atom2: preferred}, nil
	}
	if !d.HasFallback() {
		return Outcome{}, &ResolutionError{Contact: d.Raw, Attempted: []Selection{preferred}, Counts: []int{n}}
	}

	fallback := Selection{Resi: d.Resi2, Name: d.Fallback}
	m := v.CountAtoms(fallback)
	if m != 1 {
		return Outcome{}, &ResolutionError{
			Contact:   d.Raw,
			Attempted: []Selection{preferred, fallback},
			Counts:    []int{n, m},
		}
	}
	return Outcome{Status: Downgraded, Atom1: first, Atom2: fallback, Preferred: preferred}, nil
}

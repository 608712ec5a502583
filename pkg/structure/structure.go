// Package structure reads the atoms of a protein structure from PDB files.
package structure

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Atom is one ATOM or HETATM record.
type Atom struct {
	Serial  int
	Name    string
	AltLoc  string
	ResName string
	Chain   string
	ResSeq  int
	ICode   string
	X, Y, Z float64
	Element string
}

// Structure holds the atoms of the first model of an entry.
type Structure struct {
	Path  string
	Name  string
	Atoms []Atom

	index map[atomKey][]int
}

type atomKey struct {
	resi  int
	icode string
	name  string
}

// Read loads a PDB file, optionally gzip compressed.
func Read(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("could not decompress %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	s, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("could not read structure %s: %w", path, err)
	}
	s.Path = path
	s.Name = ObjectName(path)
	return s, nil
}

// ObjectName is the name PyMOL gives to an object loaded from path.
func ObjectName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads ATOM and HETATM records until the end of the first model.
func Parse(r io.Reader) (*Structure, error) {
	s := &Structure{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		record := field(line, 0, 6)
		switch record {
		case "ATOM", "HETATM":
			a, err := parseAtom(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			s.Atoms = append(s.Atoms, a)
		case "ENDMDL":
			return s.indexed(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s.Atoms) == 0 {
		return nil, fmt.Errorf("no ATOM or HETATM records")
	}
	return s.indexed(), nil
}

// field returns the trimmed [start, end) columns of a fixed-width line.
func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

func parseAtom(line string) (Atom, error) {
	if len(line) < 54 {
		return Atom{}, fmt.Errorf("atom record too short (%d columns)", len(line))
	}
	a := Atom{
		Name:    field(line, 12, 16),
		AltLoc:  field(line, 16, 17),
		ResName: field(line, 17, 20),
		Chain:   field(line, 21, 22),
		ICode:   field(line, 26, 27),
		Element: field(line, 76, 78),
	}
	var err error
	if serial := field(line, 6, 11); serial != "" {
		// hybrid-36 serials past 99999 are not decimal, the serial is informative only
		a.Serial, _ = strconv.Atoi(serial)
	}
	if a.ResSeq, err = strconv.Atoi(field(line, 22, 26)); err != nil {
		return Atom{}, fmt.Errorf("residue sequence number: %w", err)
	}
	coords := []*float64{&a.X, &a.Y, &a.Z}
	for i, c := range coords {
		v, err := strconv.ParseFloat(field(line, 30+8*i, 38+8*i), 64)
		if err != nil {
			return Atom{}, fmt.Errorf("coordinate: %w", err)
		}
		*c = v
	}
	return a, nil
}

func (s *Structure) indexed() *Structure {
	s.index = make(map[atomKey][]int, len(s.Atoms))
	for i, a := range s.Atoms {
		k := atomKey{resi: a.ResSeq, icode: a.ICode, name: a.Name}
		s.index[k] = append(s.index[k], i)
	}
	return s
}

// Count returns how many atoms match the residue position and atom name,
// across all chains and alternate locations. Like PyMOL's "resi 105",
// residues with an insertion code (105A) are not matched.
func (s *Structure) Count(resi int, name string) int {
	return len(s.index[atomKey{resi: resi, name: name}])
}

// Find returns the atoms matching the residue position and atom name.
func (s *Structure) Find(resi int, name string) []Atom {
	idx := s.index[atomKey{resi: resi, name: name}]
	atoms := make([]Atom, 0, len(idx))
	for _, i := range idx {
		atoms = append(atoms, s.Atoms[i])
	}
	return atoms
}

// Residues returns the distinct residue positions, in file order.
func (s *Structure) Residues() []int {
	seen := make(map[int]struct{})
	var residues []int
	for _, a := range s.Atoms {
		if _, ok := seen[a.ResSeq]; !ok {
			seen[a.ResSeq] = struct{}{}
			residues = append(residues, a.ResSeq)
		}
	}
	return residues
}

// Distance is the euclidean distance between two atoms, in Angstroms.
func Distance(a, b Atom) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

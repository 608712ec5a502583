package contacts

import "fmt"

// fakeViewer answers selection counts from a table and records every call.
type fakeViewer struct {
	atoms    map[Selection]int
	queries  []Selection
	drawn    []string
	hidden   []string
	colored  map[string]string
	shown    [][]int
	failDraw bool
}

func newFakeViewer(atoms map[Selection]int) *fakeViewer {
	return &fakeViewer{atoms: atoms, colored: make(map[string]string)}
}

func (f *fakeViewer) CountAtoms(sel Selection) int {
	f.queries = append(f.queries, sel)
	return f.atoms[sel]
}

func (f *fakeViewer) Distance(name string, a, b Selection) error {
	if f.failDraw {
		return fmt.Errorf("distance %s failed", name)
	}
	f.drawn = append(f.drawn, name)
	return nil
}

func (f *fakeViewer) HideLabels(name string) {
	f.hidden = append(f.hidden, name)
}

func (f *fakeViewer) Color(color, target string) {
	f.colored[target] = color
}

func (f *fakeViewer) Show(representation string, residues ...int) {
	f.shown = append(f.shown, residues)
}

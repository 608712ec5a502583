package contacts

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	d := Descriptor{Raw: "LYS105_NZ-GLU210_OE1-OE2", Resi1: 105, Atom1: "NZ", Resi2: 210, Atom2: "OE1", Fallback: "OE2"}
	nz := Selection{Resi: 105, Name: "NZ"}
	oe1 := Selection{Resi: 210, Name: "OE1"}
	oe2 := Selection{Resi: 210, Name: "OE2"}

	tests := []struct {
		name      string
		atoms     map[Selection]int
		desc      Descriptor
		status    Status
		atom2     Selection
		wantErr   bool
		attempted int
	}{
		{
			name:   "preferred atom found",
			atoms:  map[Selection]int{nz: 1, oe1: 1, oe2: 1},
			desc:   d,
			status: Accepted,
			atom2:  oe1,
		},
		{
			name:   "preferred atom missing uses fallback",
			atoms:  map[Selection]int{nz: 1, oe2: 1},
			desc:   d,
			status: Downgraded,
			atom2:  oe2,
		},
		{
			name:   "preferred atom ambiguous uses fallback",
			atoms:  map[Selection]int{nz: 1, oe1: 2, oe2: 1},
			desc:   d,
			status: Downgraded,
			atom2:  oe2,
		},
		{
			name:      "first atom missing",
			atoms:     map[Selection]int{oe1: 1},
			desc:      d,
			wantErr:   true,
			attempted: 1,
		},
		{
			name:      "first atom ambiguous",
			atoms:     map[Selection]int{nz: 2, oe1: 1},
			desc:      d,
			wantErr:   true,
			attempted: 1,
		},
		{
			name:      "preferred and fallback missing",
			atoms:     map[Selection]int{nz: 1},
			desc:      d,
			wantErr:   true,
			attempted: 2,
		},
		{
			name:      "no fallback",
			atoms:     map[Selection]int{nz: 1, oe2: 1},
			desc:      Descriptor{Raw: "LYS105_NZ-GLU210_OE1", Resi1: 105, Atom1: "NZ", Resi2: 210, Atom2: "OE1"},
			wantErr:   true,
			attempted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newFakeViewer(tt.atoms)
			got, err := Resolve(v, tt.desc)
			if tt.wantErr {
				var rerr *ResolutionError
				if !errors.As(err, &rerr) {
					t.Fatalf("expected a ResolutionError, got %v", err)
				}
				if len(rerr.Attempted) != tt.attempted {
					t.Fatalf("expected %d attempted selections, got %v", tt.attempted, rerr.Attempted)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.status {
				t.Fatalf("expected status %s, got %s", tt.status, got.Status)
			}
			if got.Atom1 != nz || got.Atom2 != tt.atom2 {
				t.Fatalf("unexpected atoms: %v / %v", got.Atom1, got.Atom2)
			}
		})
	}
}

func TestResolveFirstAtomFailureStopsEarly(t *testing.T) {
	v := newFakeViewer(map[Selection]int{})
	d := Descriptor{Raw: "LYS105_NZ-GLU210_OE1", Resi1: 105, Atom1: "NZ", Resi2: 210, Atom2: "OE1"}
	if _, err := Resolve(v, d); err == nil {
		t.Fatal("expected an error")
	}
	if len(v.queries) != 1 {
		t.Fatalf("expected a single query, got %v", v.queries)
	}
}

func TestResolutionErrorMessage(t *testing.T) {
	v := newFakeViewer(map[Selection]int{{Resi: 105, Name: "NZ"}: 1, {Resi: 210, Name: "OE2"}: 3})
	d := Descriptor{Raw: "LYS105_NZ-GLU210_OE1-OE2", Resi1: 105, Atom1: "NZ", Resi2: 210, Atom2: "OE1", Fallback: "OE2"}
	_, err := Resolve(v, d)
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	for _, want := range []string{"resi 210 and name OE1 (0 atoms)", "resi 210 and name OE2 (3 atoms)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

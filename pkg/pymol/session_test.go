package pymol

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
	"github.com/sw33tLie/pmcontacts/pkg/structure"
)

const samplePDB = `ATOM      1  NZ  LYS A 105      12.104   6.134  -6.504  1.00  0.00           N
ATOM      2  OE2 GLU A 210      14.104   6.134  -6.504  1.00  0.00           O
`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := structure.Parse(strings.NewReader(samplePDB))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Path = "/data/model.pdb"
	return NewSession(s, nil)
}

func TestSessionCommands(t *testing.T) {
	sess := newTestSession(t)
	nz := contacts.Selection{Resi: 105, Name: "NZ"}
	oe2 := contacts.Selection{Resi: 210, Name: "OE2"}

	if n := sess.CountAtoms(nz); n != 1 {
		t.Fatalf("expected 1 atom, got %d", n)
	}
	sess.Show("licorice", 105, 210)
	if err := sess.Distance("LYS105_NZ-GLU210_OE1-OE2", nz, oe2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess.HideLabels("LYS105_NZ-GLU210_OE1-OE2")
	sess.Color("red", "LYS105_NZ-GLU210_OE1-OE2")

	expected := []string{
		"load /data/model.pdb",
		"select tmp, resi 105 or resi 210",
		"show licorice, tmp",
		"delete tmp",
		"select p1, (resi 105 and name NZ)",
		"select p2, (resi 210 and name OE2)",
		"distance LYS105_NZ-GLU210_OE1-OE2, p1, p2",
		"delete p1",
		"delete p2",
		"hide labels, LYS105_NZ-GLU210_OE1-OE2",
		"color red, LYS105_NZ-GLU210_OE1-OE2",
	}
	got := sess.Commands()
	if len(got) != len(expected) {
		t.Fatalf("expected %d commands, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("command %d: got %q, want %q", i, got[i], expected[i])
		}
	}
}

func TestSessionDistanceRejectsAmbiguous(t *testing.T) {
	sess := newTestSession(t)
	err := sess.Distance("x", contacts.Selection{Resi: 105, Name: "NZ"}, contacts.Selection{Resi: 210, Name: "OE1"})
	if err == nil {
		t.Fatal("expected an error for a missing atom")
	}
	if len(sess.Commands()) != 1 {
		t.Fatalf("no command should be recorded, got %v", sess.Commands())
	}
}

func TestSessionSave(t *testing.T) {
	sess := newTestSession(t)
	prefix := filepath.Join(t.TempDir(), "out")
	script, err := sess.Save(prefix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if script != prefix+".pml" {
		t.Fatalf("unexpected script path: %s", script)
	}
	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(string(data), "save "+prefix+".pse\n") {
		t.Fatalf("script should end with the session save, got:\n%s", data)
	}
}

func TestQuote(t *testing.T) {
	if got := quote("a | b"); got != `"a | b"` {
		t.Fatalf("unexpected quoting: %s", got)
	}
	if got := quote("plain"); got != "plain" {
		t.Fatalf("unexpected quoting: %s", got)
	}
}

// Package pymol builds a PyMOL session as a command script, answering atom
// selections from the loaded structure.
package pymol

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
	"github.com/sw33tLie/pmcontacts/pkg/structure"
)

// Session records the commands applied to a structure.
type Session struct {
	structure *structure.Structure
	commands  []string
	log       logrus.FieldLogger
}

// NewSession starts a session with the structure loaded.
func NewSession(s *structure.Structure, log logrus.FieldLogger) *Session {
	sess := &Session{structure: s, log: log}
	path, err := filepath.Abs(s.Path)
	if err != nil {
		path = s.Path
	}
	sess.record("load %s", quote(path))
	return sess
}

func (s *Session) record(format string, args ...interface{}) {
	s.commands = append(s.commands, fmt.Sprintf(format, args...))
}

// Commands returns the recorded commands.
func (s *Session) Commands() []string {
	return s.commands
}

// CountAtoms answers "select resi X and name Y" from the structure.
func (s *Session) CountAtoms(sel contacts.Selection) int {
	return s.structure.Count(sel.Resi, sel.Name)
}

// Distance selects both atoms as p1 and p2, measures them and releases the
// selections.
func (s *Session) Distance(name string, a, b contacts.Selection) error {
	if n := s.CountAtoms(a); n != 1 {
		return fmt.Errorf("select p1, %s: %d atoms", a, n)
	}
	if n := s.CountAtoms(b); n != 1 {
		return fmt.Errorf("select p2, %s: %d atoms", b, n)
	}
	s.record("select p1, (%s)", a)
	s.record("select p2, (%s)", b)
	s.record("distance %s, p1, p2", quote(name))
	s.record("delete p1")
	s.record("delete p2")

	if s.log != nil {
		d := structure.Distance(s.structure.Find(a.Resi, a.Name)[0], s.structure.Find(b.Resi, b.Name)[0])
		s.log.Debugf("%s: %s / %s, %.2f A", name, a, b, d)
	}
	return nil
}

func (s *Session) HideLabels(name string) {
	s.record("hide labels, %s", quote(name))
}

func (s *Session) Color(color, target string) {
	s.record("color %s, %s", color, quote(target))
}

// Show changes the representation of residues through a temporary selection.
func (s *Session) Show(representation string, residues ...int) {
	if len(residues) == 0 {
		return
	}
	parts := make([]string, len(residues))
	for i, r := range residues {
		parts[i] = "resi " + strconv.Itoa(r)
	}
	s.record("select tmp, %s", strings.Join(parts, " or "))
	s.record("show %s, tmp", representation)
	s.record("delete tmp")
}

// ColorRange colors a residue range, used for the domains.
func (s *Session) ColorRange(color string, start, end int) {
	s.record("color %s, resi %d-%d", color, start, end)
}

// quote protects object names holding spaces or pipes.
func quote(name string) string {
	if strings.ContainsAny(name, " |;,") {
		return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
	}
	return name
}

// Save writes <prefix>.pml ending with the save of <prefix>.pse and returns
// the script path.
func (s *Session) Save(prefix string) (string, error) {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return "", err
	}
	script := abs + ".pml"
	f, err := os.Create(script)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	for _, c := range s.commands {
		fmt.Fprintln(w, c)
	}
	fmt.Fprintf(w, "save %s\n", quote(abs+".pse"))
	if err := w.Flush(); err != nil {
		f.Close()
		return "", err
	}
	return script, f.Close()
}

// Render runs PyMOL headless on the script, which writes the .pse file.
func Render(ctx context.Context, binary, script string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("PyMOL binary %q not found: %w", binary, err)
	}
	out, err := exec.CommandContext(ctx, path, "-cq", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s -cq %s: %w: %s", binary, script, err, strings.TrimSpace(string(out)))
	}
	return nil
}

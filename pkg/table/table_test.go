package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
)

const v3CSV = `contact,ROI partner position,ROI partner domain,second partner position,second partner domain,atoms contacts,number atoms contacts
LYS105-GLU210,105,Macro,210,Hinge,LYS105_NZ-GLU210_OE1-OE2,1
SER106-ASP211,106.0,Macro,211,X domain,SER106_OG-ASP211_OD2 | SER106_OG-ASP211_OD1,2
`

const v1CSV = `contact,first partner position,second partner position,second partner domain,atoms contacts,number atoms contacts
LYS105-GLU210,105,210,Hinge,LYS105_NZ-GLU210_OE1 LYS105_NZ-GLU210_OE2,2
`

func TestParseContactsV3(t *testing.T) {
	c, err := ParseContacts(strings.NewReader(v3CSV), contacts.FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Format != contacts.FormatV3 {
		t.Fatalf("expected v3, got %s", c.Format)
	}
	if len(c.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(c.Rows))
	}
	r := c.Rows[1]
	if r.Position != 106 || r.SecondPosition != 211 || r.SecondDomain != "X domain" || r.NumberContacts != 2 {
		t.Fatalf("unexpected row: %+v", r)
	}
}

func TestParseContactsV1(t *testing.T) {
	c, err := ParseContacts(strings.NewReader(v1CSV), contacts.FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Format != contacts.FormatV1 {
		t.Fatalf("expected v1, got %s", c.Format)
	}
	if c.Rows[0].Position != 105 {
		t.Fatalf("the first partner position should govern the ROI, got %+v", c.Rows[0])
	}
}

const v2CSV = `contact,ROI partner position,ROI partner domain,second partner position,second partner domain,atoms contacts,number atoms contacts
LYS105-GLU210,105,Macro,210,Hinge,LYS105_NZ-GLU210_OE2-OE1,1
SER106-ASP211,106,Macro,211,Hinge,SER106_OG-ASP211_HD2-OD2;SER106_OG-ASP211_HD1-OD1,2
`

func TestParseContactsV2SingleSegmentFirst(t *testing.T) {
	c, err := ParseContacts(strings.NewReader(v2CSV), contacts.FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Format != contacts.FormatV2 {
		t.Fatalf("expected v2, got %s", c.Format)
	}

	first, err := contacts.ParseDescriptors(c.Rows[0].AtomsContacts, c.Format)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].Atom2 != "OE1" || first[0].Fallback != "OE2" {
		t.Fatalf("unexpected descriptors for the first row: %+v", first)
	}
	second, err := contacts.ParseDescriptors(c.Rows[1].AtomsContacts, c.Format)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 2 || second[1].Atom2 != "OD1" || second[1].Fallback != "HD1" {
		t.Fatalf("unexpected descriptors for the second row: %+v", second)
	}
}

func TestParseContactsAmbiguousFormat(t *testing.T) {
	single := strings.Replace(v2CSV, "SER106_OG-ASP211_HD2-OD2;SER106_OG-ASP211_HD1-OD1,2", "SER106_OG-ASP211_HD2-OD2,1", 1)
	_, err := ParseContacts(strings.NewReader(single), contacts.FormatAuto)
	var uerr *contacts.UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected a UsageError, got %v", err)
	}

	c, err := ParseContacts(strings.NewReader(single), contacts.FormatV2)
	if err != nil {
		t.Fatalf("an explicit format should be accepted: %v", err)
	}
	if c.Format != contacts.FormatV2 {
		t.Fatalf("expected v2, got %s", c.Format)
	}
}

func TestParseContactsErrors(t *testing.T) {
	// forcing v3 on a v1 file lacks the ROI partner position column
	if _, err := ParseContacts(strings.NewReader(v1CSV), contacts.FormatV3); err == nil {
		t.Fatal("expected a missing column error")
	}
	bad := strings.Replace(v1CSV, ",2\n", ",two\n", 1)
	if _, err := ParseContacts(strings.NewReader(bad), contacts.FormatV1); err == nil {
		t.Fatal("expected an integer error")
	}
	if _, err := ParseContacts(strings.NewReader(""), contacts.FormatV1); err == nil {
		t.Fatal("expected an error on empty input")
	}
}

func TestReadDomains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.csv")
	content := "domain,start,end,pymol color\nMacro,1,150,cyan\nHinge,151,230,orange\nTail,231,300,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	domains, err := ReadDomains(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domains) != 3 || domains[1] != (Domain{Name: "Hinge", Start: 151, End: 230, Color: "orange"}) {
		t.Fatalf("unexpected domains: %+v", domains)
	}

	rc := &rangeRecorder{}
	if n := ColorDomains(rc, domains); n != 2 {
		t.Fatalf("expected 2 colored domains, got %d", n)
	}
	if rc.calls[0] != "cyan 1-150" {
		t.Fatalf("unexpected color call: %v", rc.calls)
	}

	_, err = ReadDomains(filepath.Join(dir, "missing.csv"))
	var merr *contacts.MissingFileError
	if !errors.As(err, &merr) {
		t.Fatalf("expected a MissingFileError, got %v", err)
	}
}

type rangeRecorder struct {
	calls []string
}

func (r *rangeRecorder) ColorRange(color string, start, end int) {
	r.calls = append(r.calls, fmt.Sprintf("%s %d-%d", color, start, end))
}

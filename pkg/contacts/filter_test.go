package contacts

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("100-200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start != 100 || r.End != 200 {
		t.Fatalf("unexpected region: %+v", r)
	}

	for _, bad := range []string{"200-100", "100", "a-b", "100:200", ""} {
		_, err := ParseRegion(bad)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("ParseRegion(%q): expected a UsageError, got %v", bad, err)
		}
	}
}

func TestRegionInclusiveBounds(t *testing.T) {
	r := &Region{Start: 100, End: 200}
	cases := map[int]bool{99: false, 100: true, 150: true, 200: true, 201: false}
	for pos, want := range cases {
		if got := r.Contains(pos); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", pos, got, want)
		}
	}
}

func TestDomainSet(t *testing.T) {
	s := NewDomainSet([]string{" hinge ", "X domain", ""})
	if !s.Has("Hinge") {
		t.Fatal("expected case-insensitive, trimmed match")
	}
	if !s.Has("x DOMAIN") {
		t.Fatal("expected match with inner space")
	}
	if len(s) != 2 {
		t.Fatalf("expected 2 domains, got %v", s.Names())
	}

	dropped := s.Validate([]string{"Hinge", "Macro domain"})
	if !reflect.DeepEqual(dropped, []string{"X domain"}) {
		t.Fatalf("unexpected dropped domains: %v", dropped)
	}
	if s.Has("X domain") || !s.Has("hinge") {
		t.Fatalf("unexpected set after validation: %v", s.Names())
	}
}

func TestFilterDecide(t *testing.T) {
	f := Filter{
		ROI:      &Region{Start: 100, End: 200},
		Excluded: NewDomainSet([]string{" hinge "}),
	}
	tests := []struct {
		row  Row
		want Decision
	}{
		{Row{Position: 100, SecondDomain: "Macro"}, Keep},
		{Row{Position: 200, SecondDomain: "Macro"}, Keep},
		{Row{Position: 99, SecondDomain: "Macro"}, DropROI},
		{Row{Position: 201, SecondDomain: "Macro"}, DropROI},
		{Row{Position: 150, SecondDomain: "Hinge"}, DropDomain},
		// ROI wins over the domain
		{Row{Position: 300, SecondDomain: "Hinge"}, DropROI},
	}
	for _, tt := range tests {
		if got := f.Decide(tt.row); got != tt.want {
			t.Fatalf("Decide(%+v) = %d, want %d", tt.row, got, tt.want)
		}
	}

	var open Filter
	if got := open.Decide(Row{Position: 1, SecondDomain: "Hinge"}); got != Keep {
		t.Fatalf("empty filter should keep every row, got %d", got)
	}
}

package storage

import (
	"time"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
)

// Run is one execution of the contacts pipeline.
type Run struct {
	ID        int64
	StartedAt time.Time

	// Inputs
	Input           string
	Structure       string
	Session         string
	Format          string
	ROI             string
	ExcludedDomains string // comma separated

	// Counters
	InitialContacts    int
	ValidatedContacts  int
	DowngradedContacts int
	ValidatedPairs     int
	TotalPairs         int
	ExcludedByDomain   int
	OutOfROI           int
}

// Measurement is a distance drawn during a run.
type Measurement struct {
	Name   string
	Resi1  int
	Atom1  string
	Resi2  int
	Atom2  string
	Status string // accepted | downgraded
}

// BuildMeasurements converts the measurements of a contacts report.
func BuildMeasurements(ms []contacts.Measurement) []Measurement {
	out := make([]Measurement, 0, len(ms))
	for _, m := range ms {
		out = append(out, Measurement{
			Name:   m.Name,
			Resi1:  m.Resi1,
			Atom1:  m.Atom1,
			Resi2:  m.Resi2,
			Atom2:  m.Atom2,
			Status: m.Status.String(),
		})
	}
	return out
}

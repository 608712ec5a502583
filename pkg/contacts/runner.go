package contacts

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Representation applied to both residues of a kept row.
const Representation = "licorice"

// Runner processes contact rows against a viewer, in input order.
type Runner struct {
	Viewer         Viewer
	Filter         Filter
	Format         Format
	DowngradeColor string
	Log            logrus.FieldLogger
}

// Report is the result of a complete run.
type Report struct {
	Counters     Counters
	Measurements []Measurement
	Downgraded   int
}

// Run filters, parses, resolves and draws every row. The first parse or
// resolution error stops the run: a skipped row would make the validated
// count diverge from what was drawn.
func (r *Runner) Run(ctx context.Context, rows []Row) (*Report, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	classifier := &Classifier{Viewer: r.Viewer, DowngradeColor: r.DowngradeColor, Log: log}
	report := &Report{}
	counters := &report.Counters
	counters.TotalPairs = len(rows)
	counters.PositionColumn = r.Format.PositionColumn()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		counters.Initial += row.NumberContacts

		switch r.Filter.Decide(row) {
		case DropROI:
			counters.OutROI += row.NumberContacts
			log.Debugf("%s: %d contacts excluded because the %s (%d) is outside the Region Of Interest limits: %s.",
				row.Contact, row.NumberContacts, counters.PositionColumn, row.Position, r.Filter.ROI)
			continue
		case DropDomain:
			counters.addExcludedDomain(row.SecondDomain, row.NumberContacts)
			log.Debugf("%s: %d contacts excluded because the second partner domain (%s) is in the list of the excluded domains.",
				row.Contact, row.NumberContacts, row.SecondDomain)
			continue
		}

		r.Viewer.Show(Representation, row.Position, row.SecondPosition)

		descriptors, err := ParseDescriptors(row.AtomsContacts, r.Format)
		if err != nil {
			return report, fmt.Errorf("%s: %w", row.Contact, err)
		}
		if len(descriptors) != row.NumberContacts {
			log.Warnf("%s: %d atoms contacts declared but %d parsed from '%s'.",
				row.Contact, row.NumberContacts, len(descriptors), row.AtomsContacts)
		}

		for _, d := range descriptors {
			outcome, err := Resolve(r.Viewer, d)
			if err != nil {
				return report, err
			}
			m, err := classifier.Apply(d, outcome)
			if err != nil {
				return report, fmt.Errorf("%s: %w", d.Raw, err)
			}
			report.Measurements = append(report.Measurements, m)
			if m.Status == Downgraded {
				report.Downgraded++
			}
			counters.Validated++
		}
		counters.Pairs++
		log.Debugf("%s: %d contacts added.", row.Contact, len(descriptors))
	}
	return report, nil
}

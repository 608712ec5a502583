package contacts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Counters accumulates the contacts seen during a run.
type Counters struct {
	Initial        int
	Validated      int
	Pairs          int
	TotalPairs     int
	ExcludedDomain int
	OutROI         int
	// PositionColumn names the column checked against the ROI.
	PositionColumn string
	// excludedBy holds the domains that actually excluded a row.
	excludedBy map[string]struct{}
}

func (c *Counters) addExcludedDomain(domain string, n int) {
	c.ExcludedDomain += n
	if c.excludedBy == nil {
		c.excludedBy = make(map[string]struct{})
	}
	c.excludedBy[normalizeDomain(domain)] = struct{}{}
}

// ExcludedDomains returns the domains which caused exclusions, sorted.
func (c *Counters) ExcludedDomains() []string {
	domains := make([]string, 0, len(c.excludedBy))
	for d := range c.excludedBy {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// SummaryLine is one line of the end-of-run summary.
type SummaryLine struct {
	Level   logrus.Level
	Message string
}

// Summary builds the end-of-run summary. roi may be nil.
func (c *Counters) Summary(roi *Region) []SummaryLine {
	var lines []SummaryLine
	if c.OutROI != 0 {
		column := c.PositionColumn
		if column == "" {
			column = ColumnROIPosition
		}
		msg := fmt.Sprintf("%d contacts excluded because the %s was outside of the Region Of Interest limits", c.OutROI, column)
		if roi != nil {
			msg += ": " + roi.String()
		}
		lines = append(lines, SummaryLine{Level: logrus.WarnLevel, Message: msg})
	}
	if c.ExcludedDomain != 0 {
		lines = append(lines, SummaryLine{
			Level: logrus.WarnLevel,
			Message: fmt.Sprintf("%d contacts excluded because the second partner domain was one of the excluded domains: %s.",
				c.ExcludedDomain, strings.Join(c.ExcludedDomains(), ", ")),
		})
	}
	lines = append(lines, SummaryLine{
		Level: logrus.InfoLevel,
		Message: fmt.Sprintf("%d/%d contacts added for %d/%d pairs of residues.",
			c.Validated, c.Initial, c.Pairs, c.TotalPairs),
	})
	return lines
}

// LogSummary writes the summary lines to the logger.
func (c *Counters) LogSummary(log logrus.FieldLogger, roi *Region) {
	for _, l := range c.Summary(roi) {
		switch l.Level {
		case logrus.WarnLevel:
			log.Warn(l.Message)
		default:
			log.Info(l.Message)
		}
	}
}

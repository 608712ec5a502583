package contacts

import (
	"github.com/sirupsen/logrus"
)

// DefaultDowngradeColor marks the measurements drawn with a fallback atom.
const DefaultDowngradeColor = "red"

// Classifier turns resolved descriptors into measurements in the viewer.
type Classifier struct {
	Viewer         Viewer
	DowngradeColor string
	Log            logrus.FieldLogger
}

// Apply draws the distance for a resolved descriptor and hides its label.
// Downgraded contacts are colored so they can be audited in the session.
func (c *Classifier) Apply(d Descriptor, o Outcome) (Measurement, error) {
	if err := c.Viewer.Distance(d.Raw, o.Atom1, o.Atom2); err != nil {
		return Measurement{}, err
	}
	c.Viewer.HideLabels(d.Raw)

	if o.Status == Downgraded {
		color := c.DowngradeColor
		if color == "" {
			color = DefaultDowngradeColor
		}
		c.Viewer.Color(color, d.Raw)
		if c.Log != nil {
			c.Log.Warnf("%s: no single atom for 'select %s', the fallback 'select %s' was used instead (%s -> %s).",
				d.Raw, o.Preferred, o.Atom2, o.Preferred.Name, o.Atom2.Name)
		}
	}

	return Measurement{
		Name:   d.Raw,
		Resi1:  o.Atom1.Resi,
		Atom1:  o.Atom1.Name,
		Resi2:  o.Atom2.Resi,
		Atom2:  o.Atom2.Name,
		Status: o.Status,
	}, nil
}

// Measurement is a distance drawn in the session.
type Measurement struct {
	Name   string
	Resi1  int
	Atom1  string
	Resi2  int
	Atom2  string
	Status Status
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
	"github.com/sw33tLie/pmcontacts/pkg/pymol"
	"github.com/sw33tLie/pmcontacts/pkg/structure"
	"github.com/sw33tLie/pmcontacts/pkg/table"
)

func main() {
	// Usage: go run *.go -structure model.pdb -contacts contacts.csv -prefix out/model

	structureFlag := flag.String("structure", "", "PDB file of the protein")
	contactsFlag := flag.String("contacts", "", "Contacts CSV file")
	prefixFlag := flag.String("prefix", "contacts", "Output prefix of the PyMOL script")
	roiFlag := flag.String("roi", "", "Region of interest, e.g. 100-200")

	// Parse the command-line flags
	flag.Parse()

	if *structureFlag == "" || *contactsFlag == "" {
		fmt.Println("Both -structure and -contacts are required.")
		return
	}

	log := logrus.New()

	s, err := structure.Read(*structureFlag)
	if err != nil {
		log.Fatal(err)
	}
	tbl, err := table.ReadContacts(*contactsFlag, contacts.FormatAuto)
	if err != nil {
		log.Fatal(err)
	}

	filter := contacts.Filter{}
	if *roiFlag != "" {
		if filter.ROI, err = contacts.ParseRegion(*roiFlag); err != nil {
			log.Fatal(err)
		}
	}

	// Any contacts.Viewer works, the PyMOL session records a .pml script
	session := pymol.NewSession(s, log)
	runner := &contacts.Runner{Viewer: session, Filter: filter, Format: tbl.Format, Log: log}
	report, err := runner.Run(context.Background(), tbl.Rows)
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range report.Measurements {
		fmt.Println(m.Name, m.Status)
	}
	report.Counters.LogSummary(log, filter.ROI)

	script, err := session.Save(*prefixFlag)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(script)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/pmcontacts/internal/utils"
	"github.com/sw33tLie/pmcontacts/pkg/contacts"
	"github.com/sw33tLie/pmcontacts/pkg/pymol"
	"github.com/sw33tLie/pmcontacts/pkg/storage"
	"github.com/sw33tLie/pmcontacts/pkg/structure"
	"github.com/sw33tLie/pmcontacts/pkg/table"
)

// runOptions are the resolved inputs of a run.
type runOptions struct {
	Input          string
	Prefix         string
	Structure      string
	ROI            string
	Domains        string
	ExcludeDomains []string
	Format         string
	DowngradeColor string
	LogPath        string
	PymolBinary    string
	NoRender       bool
	SaveHistory    bool
	DBPath         string
	Args           []string
}

// runCmd implements: pmcontacts run [flags] <contacts.csv>
var runCmd = &cobra.Command{
	Use:   "run <contacts.csv>",
	Short: "Add the contacts of a plot_contacts CSV to a PyMOL session",
	Long: `Add to a structure file of a protein the contacts discovered by the plot_contacts.py script.

The contacts outside the Region Of Interest (--roi) or whose second partner domain is excluded
(--exclude-domains) are skipped. Every other atoms pair must resolve to exactly one atom on each
side, if needed through the alternate atom name of the hydrogen bond donor, or the run fails.

Each excluded domain takes its own flag, names with spaces are quoted:
  pmcontacts run -p out/model -s model.pdb -e Hinge -e "X domain" contacts.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions{
			Input:          args[0],
			Prefix:         viper.GetString("prefix"),
			Structure:      viper.GetString("structure"),
			ROI:            viper.GetString("roi"),
			Domains:        viper.GetString("domains"),
			Format:         viper.GetString("format"),
			DowngradeColor: viper.GetString("downgrade-color"),
			LogPath:        viper.GetString("log"),
			PymolBinary:    viper.GetString("pymol"),
			NoRender:       viper.GetBool("no-render"),
			SaveHistory:    viper.GetBool("db"),
			DBPath:         viper.GetString("dbpath"),
			Args:           os.Args,
		}
		opts.ExcludeDomains, _ = cmd.Flags().GetStringArray("exclude-domains")

		if opts.Prefix == "" || opts.Structure == "" {
			return fmt.Errorf("required flags \"prefix\" and \"structure\" must be set")
		}
		return runContacts(cmd.Context(), opts)
	},
}

func runContacts(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	prefix, err := utils.ExpandPath(opts.Prefix)
	if err != nil {
		return err
	}
	prefix, err = filepath.Abs(prefix)
	if err != nil {
		return err
	}
	outDir := filepath.Dir(prefix)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	// create the logger
	logPath := opts.LogPath
	if logPath == "" {
		logPath = filepath.Join(outDir, "pmcontacts.log")
	}
	if logPath, err = utils.ExpandPath(logPath); err != nil {
		return err
	}
	logCloser, err := utils.SetLogFile(logPath)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log := utils.Log

	log.Infof("version: %s", VERSION)
	log.Infof("CMD: %s", strings.Join(opts.Args, " "))

	fail := func(err error) error {
		log.Error(err)
		return &loggedError{err}
	}

	// get the Region Of Interest if specified
	var roi *contacts.Region
	if opts.ROI != "" {
		if roi, err = contacts.ParseRegion(opts.ROI); err != nil {
			return fail(err)
		}
	}

	format, err := contacts.ParseFormat(opts.Format)
	if err != nil {
		return fail(err)
	}

	var domains []table.Domain
	if opts.Domains != "" {
		path, err := utils.ExpandPath(opts.Domains)
		if err != nil {
			return fail(err)
		}
		if domains, err = table.ReadDomains(path); err != nil {
			return fail(err)
		}
	}

	input, err := utils.ExpandPath(opts.Input)
	if err != nil {
		return fail(err)
	}
	rows, err := table.ReadContacts(input, format)
	if err != nil {
		return fail(err)
	}
	log.Infof("%d pairs of residues read from %s (%s format).", len(rows.Rows), input, rows.Format)

	excluded := contacts.NewDomainSet(opts.ExcludeDomains)
	if len(excluded) > 0 && len(domains) > 0 && rows.Format == contacts.FormatV3 {
		for _, name := range excluded.Validate(table.DomainNames(domains)) {
			log.Warnf("the excluded domain '%s' is not in the domains file %s, it is ignored.", name, opts.Domains)
		}
	}

	s, err := loadStructure(ctx, opts.Structure, outDir, log)
	if err != nil {
		return fail(err)
	}
	log.Infof("structure %s loaded: %d atoms.", s.Path, len(s.Atoms))

	lock, err := utils.NewFileLock(prefix)
	if err != nil {
		return fail(err)
	}
	if err := lock.Lock(); err != nil {
		return fail(err)
	}
	defer lock.Unlock()

	session := pymol.NewSession(s, log)
	if len(domains) > 0 {
		n := table.ColorDomains(session, domains)
		log.Infof("%d domains colored from %s.", n, opts.Domains)
	}

	runner := &contacts.Runner{
		Viewer:         session,
		Filter:         contacts.Filter{ROI: roi, Excluded: excluded},
		Format:         rows.Format,
		DowngradeColor: opts.DowngradeColor,
		Log:            log,
	}
	report, err := runner.Run(ctx, rows.Rows)
	if err != nil {
		return fail(err)
	}
	report.Counters.LogSummary(log, roi)
	if report.Downgraded > 0 {
		log.Warnf("%d contacts were drawn with an alternate atom name, they are colored in %s.",
			report.Downgraded, downgradeColor(opts.DowngradeColor))
	}

	script, err := session.Save(prefix)
	if err != nil {
		return fail(err)
	}
	log.Infof("PyMOL script written: %s", script)
	if !opts.NoRender {
		if err := pymol.Render(ctx, opts.PymolBinary, script); err != nil {
			log.Warnf("the PyMOL session was not rendered, run 'pymol -cq %s' to create it: %v", script, err)
		} else {
			log.Infof("PyMOL file written: %s.pse", prefix)
		}
	}

	if opts.SaveHistory {
		run := storage.Run{
			StartedAt:          started,
			Input:              input,
			Structure:          s.Path,
			Session:            prefix + ".pse",
			Format:             rows.Format.String(),
			ExcludedDomains:    strings.Join(excluded.Names(), ","),
			InitialContacts:    report.Counters.Initial,
			ValidatedContacts:  report.Counters.Validated,
			DowngradedContacts: report.Downgraded,
			ValidatedPairs:     report.Counters.Pairs,
			TotalPairs:         report.Counters.TotalPairs,
			ExcludedByDomain:   report.Counters.ExcludedDomain,
			OutOfROI:           report.Counters.OutROI,
		}
		if roi != nil {
			run.ROI = roi.String()
		}
		id, err := saveRun(ctx, opts.DBPath, run, storage.BuildMeasurements(report.Measurements))
		if err != nil {
			return fail(fmt.Errorf("could not save the run history: %w", err))
		}
		log.Infof("run %d saved in the history database.", id)
	}
	return nil
}

// loadStructure reads a local structure file, or downloads it from the RCSB
// when ref is a PDB identifier that is not a local file.
func loadStructure(ctx context.Context, ref, outDir string, log *logrus.Logger) (*structure.Structure, error) {
	path, err := utils.ExpandPath(ref)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if !structure.IsPDBID(ref) {
			return nil, &contacts.MissingFileError{Kind: "structure", Path: path}
		}
		fetcher := structure.NewFetcher(log)
		if path, err = fetcher.Fetch(ctx, ref, outDir); err != nil {
			return nil, err
		}
		if info, err := fetcher.Info(ctx, ref); err == nil {
			log.Infof("%s: %s (%s, %.2f A)", info.ID, info.Title, info.Method, info.Resolution)
		} else {
			log.Debugf("no RCSB metadata for %s: %v", ref, err)
		}
	}
	if strings.HasSuffix(strings.ToLower(path), ".pse") {
		return nil, fmt.Errorf("%s: PyMOL session files cannot be read, use the PDB file of the structure", path)
	}
	return structure.Read(path)
}

func saveRun(ctx context.Context, dbPathRaw string, run storage.Run, ms []storage.Measurement) (int64, error) {
	dbPath, err := utils.GetAbsDBPath(dbPathRaw)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return 0, err
	}

	lock, err := utils.NewFileLock(dbPath)
	if err != nil {
		return 0, err
	}
	if err := lock.Lock(); err != nil {
		return 0, err
	}
	defer lock.Unlock()

	db, err := storage.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.RecordRun(ctx, run, ms)
}

// loggedError is an error already written to the log.
type loggedError struct {
	error
}

func (e *loggedError) Unwrap() error {
	return e.error
}

func downgradeColor(c string) string {
	if c == "" {
		return contacts.DefaultDowngradeColor
	}
	return c
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("prefix", "p", "", "the prefix of the path to the PyMOL file. A '.pse' extension will be added to this prefix (required)")
	runCmd.Flags().StringP("structure", "s", "", "the protein structure file ('.pdb', '.ent', optionally gzipped), or a PDB identifier to download (required)")
	runCmd.Flags().StringP("roi", "r", "", "the ROI partner position (first partner position for v1 files) Region Of Interest coordinates, as two integers separated by an hyphen, i.e: '100-200'")
	runCmd.Flags().StringP("domains", "d", "", "the domains CSV file, with the columns 'domain', 'start', 'end' and 'pymol color'")
	runCmd.Flags().StringArrayP("exclude-domains", "e", nil, "a domain to exclude, as it appears in the 'second partner domain' column. Repeat the flag for several domains: -e Hinge -e \"X domain\"")
	runCmd.Flags().String("format", "auto", "the contacts CSV format: auto, v1 (space separated), v2 (';' separated) or v3 (' | ' separated)")
	runCmd.Flags().String("downgrade-color", contacts.DefaultDowngradeColor, "PyMOL color of the contacts drawn with an alternate atom name")
	runCmd.Flags().StringP("log", "l", "", "the path for the log file. If this option is skipped, the log file is created in the output directory")
	runCmd.Flags().String("pymol", "pymol", "PyMOL binary used to write the session file from the script")
	runCmd.Flags().Bool("no-render", false, "only write the PyMOL script, do not run PyMOL")
	runCmd.Flags().Bool("db", false, "Save the run and its measurements to the history database")

	for _, name := range []string{"prefix", "structure", "roi", "domains", "format", "downgrade-color", "log", "pymol", "no-render", "db"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}

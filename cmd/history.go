package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/pmcontacts/internal/utils"
	"github.com/sw33tLie/pmcontacts/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the runs saved with --db, or the measurements of one run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		if runID > 0 {
			return printMeasurements(cmd.Context(), os.Stdout, db, runID)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return printRuns(cmd.Context(), os.Stdout, db, limit)
	},
}

// historyShellCmd represents the history shell command
var historyShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive sqlite3 shell to the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := utils.GetAbsDBPath(viper.GetString("dbpath"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the history shell")
		}

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func openHistory() (*storage.DB, error) {
	dbPath, err := utils.GetAbsDBPath(viper.GetString("dbpath"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found: %s (runs are saved with 'pmcontacts run --db')", dbPath)
		}
		return nil, err
	}
	return storage.Open(dbPath)
}

func printRuns(ctx context.Context, out io.Writer, db *storage.DB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No run in the history database.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tINPUT\tROI\tCONTACTS\tDOWNGRADED\tPAIRS\tSESSION\t")
	for _, r := range runs {
		roi := r.ROI
		if roi == "" {
			roi = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%d\t%d/%d\t%s\t\n",
			r.ID, r.StartedAt.Local().Format("2006/01/02 15:04:05"), r.Input, roi,
			r.ValidatedContacts, r.InitialContacts, r.DowngradedContacts, r.ValidatedPairs, r.TotalPairs, r.Session)
	}
	return w.Flush()
}

func printMeasurements(ctx context.Context, out io.Writer, db *storage.DB, runID int64) error {
	ms, err := db.ListMeasurements(ctx, runID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CONTACT\tATOM 1\tATOM 2\tSTATUS\t")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%d/%s\t%d/%s\t%s\t\n", m.Name, m.Resi1, m.Atom1, m.Resi2, m.Atom2, m.Status)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShellCmd)
	historyCmd.Flags().Int64("run", 0, "Print the measurements of this run")
	historyCmd.Flags().Int("limit", 20, "Number of runs to print")
}

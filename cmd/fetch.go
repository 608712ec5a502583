package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/pmcontacts/internal/utils"
	"github.com/sw33tLie/pmcontacts/pkg/structure"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <pdb id>",
	Short: "Download a structure from the RCSB Protein Data Bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("output-dir")
		dir, err := utils.ExpandPath(dir)
		if err != nil {
			return err
		}

		fetcher := structure.NewFetcher(utils.Log)
		path, err := fetcher.Fetch(cmd.Context(), args[0], dir)
		if err != nil {
			return err
		}
		if info, err := fetcher.Info(cmd.Context(), args[0]); err == nil {
			fmt.Printf("%s\t%s\t%s\t%.2f\n", info.ID, info.Title, info.Method, info.Resolution)
		} else {
			utils.Log.Warnf("could not read the RCSB metadata of %s: %v", args[0], err)
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("output-dir", "o", ".", "Directory where the PDB file is written")
}

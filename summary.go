package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"signalboard/render"
)

var summaryJSON bool

// summaryCmd prints the aggregate statistics once.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the signal summary",
	Long:  "Load the export once and print the summary cards, theme counts and priority histogram.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, snap, err := loadOnce(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if summaryJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Stats)
		}
		return render.WriteText(out, snap.Stats, snap.Source)
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the statistics as JSON")
}

package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"signalboard/render"
)

var exportOutput string

// exportCmd writes the dashboard as a static HTML page.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard as a static HTML file",
	Long:  "Load the export once and write a self-contained dashboard page. Use -o - to write to stdout.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		board, snap, err := loadOnce(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := render.WritePage(&buf, board.Page(snap, "")); err != nil {
			return err
		}
		if exportOutput == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil { //nolint:gosec // static page
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		slog.Info("dashboard written", "path", exportOutput, "bytes", buf.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "dashboard.html", "output file, or - for stdout")
}

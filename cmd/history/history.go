// Package history implements the history command.
package history

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"fjacquet/settle2qif/cmd/root"
	"fjacquet/settle2qif/internal/fileutils"
	runhistory "fjacquet/settle2qif/internal/history"

	"github.com/spf13/cobra"
)

var limit int

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long:  `List the most recent conversion runs stored in the history database (history.path).`,
	RunE:  runHistory,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := root.GetContainer().GetConfig()

	if !fileutils.FileExists(cfg.History.Path) {
		fmt.Fprintf(cmd.OutOrStdout(), "No history recorded at %s\n", cfg.History.Path)
		return nil
	}

	store, err := runhistory.Open(cfg.History.Path, root.GetContainer().GetLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tINPUT\tOUTPUT\tCONVERTED\tSKIPPED")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.InputPath,
			run.OutputPath,
			run.Converted,
			run.Skipped)
	}
	return w.Flush()
}

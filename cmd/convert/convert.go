// Package convert implements the convert command.
package convert

import (
	"context"

	"fjacquet/settle2qif/cmd/common"
	"fjacquet/settle2qif/cmd/root"
	"fjacquet/settle2qif/internal/config"
	"fjacquet/settle2qif/internal/history"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a settlement CSV export to a QIF file",
	Long: `Convert a settlement CSV export to a QIF bank file.

Each line must carry at least six columns: date, deposit id, net deposit,
fees, tax and revenue. Shorter lines are reported and skipped. Amounts may use
currency symbols, thousands separators and parentheses for negatives.`,
	RunE: runConvert,
}

func init() {
	f := Cmd.Flags()
	f.StringP("input", "i", "", "Input CSV file (default from input.path)")
	f.StringP("output", "o", "", "Output QIF file (default from output.path)")
	f.StringP("delimiter", "d", "", "CSV column delimiter (default from csv.delimiter)")
	f.String("fees", "", "Category for the fee split")
	f.String("tax", "", "Category for the tax split")
	f.String("revenue", "", "Category for the revenue split")
	f.String("encoding", "", "Input encoding: utf-8, windows-1252 or iso-8859-1")
	f.Bool("skip-header", false, "Treat the first non-empty line as a header and skip it")
	f.String("audit", "", "Also write an audit CSV of the converted rows to this path")
	f.Bool("history", false, "Record this run in the history database")
	f.Bool("verify", false, "Read the QIF and audit output back before writing them")
}

// applyFlags returns a copy of cfg with every flag set on cmd applied.
func applyFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	f := cmd.Flags()

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"input", &out.Input.Path},
		{"output", &out.Output.Path},
		{"delimiter", &out.CSV.Delimiter},
		{"fees", &out.Accounts.Fees},
		{"tax", &out.Accounts.Tax},
		{"revenue", &out.Accounts.Revenue},
		{"encoding", &out.Input.Encoding},
		{"audit", &out.Audit.Path},
	}
	for _, s := range stringFlags {
		if !f.Changed(s.name) {
			continue
		}
		v, err := f.GetString(s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = v
	}

	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"skip-header", &out.Input.SkipHeader},
		{"history", &out.History.Enabled},
		{"verify", &out.Output.Verify},
	}
	for _, b := range boolFlags {
		if !f.Changed(b.name) {
			continue
		}
		v, err := f.GetBool(b.name)
		if err != nil {
			return nil, err
		}
		*b.dst = v
	}

	if err := config.Validate(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	base := root.GetContainer()

	cfg, err := applyFlags(cmd, base.GetConfig())
	if err != nil {
		return err
	}
	c, err := base.WithConfig(cfg)
	if err != nil {
		return err
	}

	var recorder history.Recorder
	store, err := c.OpenHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		recorder = store
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, err = common.ProcessFile(ctx, c.GetConverter(), common.Options{
		InputPath:  cfg.Input.Path,
		OutputPath: cfg.Output.Path,
		Encoding:   cfg.Input.Encoding,
		SkipHeader: cfg.Input.SkipHeader,
		AuditPath:  cfg.Audit.Path,
		Verify:     cfg.Output.Verify,
	}, recorder, c.GetLogger())
	return err
}

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/workbook"
)

func newAnalyzeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Detect column types in a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ledgermatch.yaml)")
	return cmd
}

func runAnalyze(path, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	detector := newDetector(cfg)

	tables, err := workbook.DefaultRegistry().Load(path)
	if err != nil {
		return err
	}
	slog.Debug("loaded workbook", "file", path, "tables", len(tables))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range tables {
		fmt.Fprintf(w, "%s\t(%d rows)\t\t\n", t.Name, len(t.Rows))
		report := detector.AnalyzeTable(t)

		cols := make([]string, 0, len(report))
		for col := range report {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		for _, col := range cols {
			r := report[col]
			fmt.Fprintf(w, "  %s\t%s\t%.2f\t%s\n", col, r.Type, r.Confidence, r.FormatPattern)
		}
	}
	return w.Flush()
}

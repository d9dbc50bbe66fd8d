package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/config"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/reconcile"
	"github.com/ledgermatch/ledgermatch/internal/report"
	"github.com/ledgermatch/ledgermatch/internal/runlog"
	"github.com/ledgermatch/ledgermatch/internal/workbook"
)

func newReconcileCommand() *cobra.Command {
	var (
		configPath  string
		bankSheet   string
		ledgerSheet string
		dateDays    int
		amountTol   float64
		threshold   float64
		exportDir   string
		rootDir     string
	)

	cmd := &cobra.Command{
		Use:   "reconcile <bank-file> <ledger-file>",
		Short: "Match bank transactions against ledger entries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("date-tolerance") {
				cfg.Tolerances.DateDays = dateDays
			}
			if cmd.Flags().Changed("amount-tolerance") {
				cfg.Tolerances.Amount = amountTol
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Matching.AcceptThreshold = threshold
			}
			return runReconcile(cfg, reconcileParams{
				bankPath:    args[0],
				ledgerPath:  args[1],
				bankSheet:   bankSheet,
				ledgerSheet: ledgerSheet,
				exportDir:   exportDir,
				rootDir:     rootDir,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ledgermatch.yaml)")
	cmd.Flags().StringVar(&bankSheet, "bank-sheet", "", "sheet name in the bank file (default first)")
	cmd.Flags().StringVar(&ledgerSheet, "ledger-sheet", "", "sheet name in the ledger file (default first)")
	cmd.Flags().IntVar(&dateDays, "date-tolerance", 3, "maximum date difference in days")
	cmd.Flags().Float64Var(&amountTol, "amount-tolerance", 0.01, "maximum amount difference")
	cmd.Flags().Float64Var(&threshold, "threshold", 50, "match acceptance threshold")
	cmd.Flags().StringVar(&exportDir, "export", "", "directory for CSV exports")
	cmd.Flags().StringVar(&rootDir, "root", ".", "workspace root for the run log")

	return cmd
}

type reconcileParams struct {
	bankPath    string
	ledgerPath  string
	bankSheet   string
	ledgerSheet string
	exportDir   string
	rootDir     string
}

func runReconcile(cfg *config.Config, p reconcileParams) error {
	registry := workbook.DefaultRegistry()

	bankTable, err := loadTable(registry, p.bankPath, p.bankSheet)
	if err != nil {
		return fmt.Errorf("loading bank file: %w", err)
	}
	ledgerTable, err := loadTable(registry, p.ledgerPath, p.ledgerSheet)
	if err != nil {
		return fmt.Errorf("loading ledger file: %w", err)
	}

	b := newBuilder(cfg)
	bankTxns, err := b.Build(bankTable, model.BankStatement)
	if err != nil {
		return fmt.Errorf("parsing bank transactions: %w", err)
	}
	ledgerTxns, err := b.Build(ledgerTable, model.CustomerLedger)
	if err != nil {
		return fmt.Errorf("parsing ledger transactions: %w", err)
	}
	slog.Debug("built transactions", "bank", len(bankTxns), "ledger", len(ledgerTxns))

	engine := newEngine(cfg)
	result := engine.Reconcile(bankTxns, ledgerTxns)
	summary := reconcile.Summarize(result)

	printSummary(summary)

	if p.exportDir != "" {
		if err := exportResult(p.exportDir, result); err != nil {
			return err
		}
	}

	return logRun(p, summary)
}

func printSummary(s reconcile.Summary) {
	fmt.Printf("Bank transactions:    %d\n", s.BankCount)
	fmt.Printf("Ledger transactions:  %d\n", s.LedgerCount)
	fmt.Printf("Matched:              %d (%.1f%%)\n", s.Matched, s.MatchRate*100)
	fmt.Printf("Unmatched bank:       %d (%s)\n", s.UnmatchedBank, s.UnmatchedBankAmount.StringFixed(2))
	fmt.Printf("Unmatched ledger:     %d (%s)\n", s.UnmatchedLedger, s.UnmatchedLedgerAmount.StringFixed(2))
}

func exportResult(dir string, result model.ReconciliationResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	writes := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"matches.csv", func(f *os.File) error { return report.WriteMatches(f, result.Matches) }},
		{"unmatched_bank.csv", func(f *os.File) error { return report.WriteTransactions(f, result.UnmatchedBank) }},
		{"unmatched_ledger.csv", func(f *os.File) error { return report.WriteTransactions(f, result.UnmatchedLedger) }},
	}
	for _, w := range writes {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", w.name, err)
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", w.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", w.name, err)
		}
	}
	return nil
}

func logRun(p reconcileParams, s reconcile.Summary) error {
	now := time.Now().UTC()
	runID, err := runlog.NextRunID(p.rootDir, now)
	if err != nil {
		return fmt.Errorf("computing run ID: %w", err)
	}
	entry := runlog.Entry{
		Timestamp:       now,
		RunID:           runID,
		BankSource:      filepath.Base(p.bankPath),
		LedgerSource:    filepath.Base(p.ledgerPath),
		Matched:         s.Matched,
		UnmatchedBank:   s.UnmatchedBank,
		UnmatchedLedger: s.UnmatchedLedger,
		MatchRate:       s.MatchRate,
	}
	if err := runlog.Append(p.rootDir, []runlog.Entry{entry}); err != nil {
		return fmt.Errorf("appending run log: %w", err)
	}
	slog.Debug("logged run", "run_id", runID)
	return nil
}

package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/builder"
	"github.com/ledgermatch/ledgermatch/internal/config"
	"github.com/ledgermatch/ledgermatch/internal/detect"
	"github.com/ledgermatch/ledgermatch/internal/formats"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/reconcile"
	"github.com/ledgermatch/ledgermatch/internal/workbook"
)

// loadConfig reads the config file, falling back to defaults when the path
// is empty or the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = configFileName
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newDetector(cfg *config.Config) *detect.Detector {
	d := detect.NewDetector()
	d.Parser = formats.Parser{DayFirst: cfg.Detection.DayFirst}
	if cfg.Detection.HighConfidence > 0 {
		d.HighConfidence = cfg.Detection.HighConfidence
	}
	if cfg.Detection.NameHintBonus > 0 {
		d.NameHintBonus = cfg.Detection.NameHintBonus
	}
	if cfg.Detection.SampleSize > 0 {
		d.SampleSize = cfg.Detection.SampleSize
	}
	return d
}

func newBuilder(cfg *config.Config) *builder.Builder {
	rules := cfg.Categories
	if len(rules) == 0 {
		rules = builder.DefaultCategoryRules()
	}
	return builder.New(newDetector(cfg), rules)
}

func newEngine(cfg *config.Config) *reconcile.Engine {
	e := reconcile.NewEngine()
	if cfg.Tolerances.DateDays > 0 {
		e.DateToleranceDays = cfg.Tolerances.DateDays
	}
	if cfg.Tolerances.Amount > 0 {
		e.AmountTolerance = decimal.NewFromFloat(cfg.Tolerances.Amount)
	}
	if cfg.Matching.AcceptThreshold > 0 {
		e.AcceptThreshold = cfg.Matching.AcceptThreshold
	}
	return e
}

// loadTable loads one table from a spreadsheet file: the named sheet, or the
// first one when sheet is empty.
func loadTable(registry *workbook.Registry, path, sheet string) (model.Table, error) {
	tables, err := registry.Load(path)
	if err != nil {
		return model.Table{}, err
	}
	if len(tables) == 0 {
		return model.Table{}, fmt.Errorf("no tables found in %s", path)
	}
	if sheet == "" {
		return tables[0], nil
	}
	for _, t := range tables {
		if t.Name == sheet {
			return t, nil
		}
	}
	return model.Table{}, fmt.Errorf("sheet %q not found in %s", sheet, path)
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
	repo "github.com/mamadbah2/foodcost/internal/repository/sheets"
)

// MenuJournal records saved recipe analyses in a spreadsheet range with the
// columns `timestamp | dish | total_cost | sell_price | gross_margin | cost_ratio`.
type MenuJournal struct {
	repo       repo.Repository
	sheetRange string
	loc        *time.Location
}

// NewMenuJournal wires a journal over the given spreadsheet range.
func NewMenuJournal(repository repo.Repository, sheetRange string, loc *time.Location) *MenuJournal {
	if loc == nil {
		loc = time.UTC
	}
	return &MenuJournal{repo: repository, sheetRange: sheetRange, loc: loc}
}

// SaveAnalysis appends one analysis row.
func (j *MenuJournal) SaveAnalysis(ctx context.Context, analysis models.MenuAnalysis) error {
	if err := j.repo.AppendRow(ctx, j.sheetRange, MenuRow(analysis, j.loc)); err != nil {
		return fmt.Errorf("append menu analysis: %w", err)
	}
	return nil
}

// MenuRow renders the display figures of an analysis. Undefined ratios are
// left blank.
func MenuRow(analysis models.MenuAnalysis, loc *time.Location) []interface{} {
	summary := analysis.Result.Display()
	return []interface{}{
		analysis.Timestamp.In(loc).Format(TimestampLayout),
		analysis.Dish,
		summary.TotalCost.StringFixed(1),
		analysis.Result.SellPrice.String(),
		percentCell(summary.GrossMarginPercent),
		percentCell(summary.CostRatioPercent),
	}
}

func percentCell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(1) + "%"
}

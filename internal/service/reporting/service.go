package reporting

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
	"github.com/mamadbah2/foodcost/internal/ledger"
)

const (
	dateLayout     = "2006-01-02"
	digestWindow   = 7 * 24 * time.Hour
	digestTopItems = 10

	purchasesSheet = "Purchases"
	pricesSheet    = "Prices"
)

// Service exposes purchase summaries built from the ledger.
type Service struct {
	reader ledger.Reader
	loc    *time.Location
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(reader ledger.Reader, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{reader: reader, loc: loc, logger: logger}
}

type ingredientSpend struct {
	name     string
	spend    decimal.Decimal
	grams    decimal.Decimal
	unitCost decimal.Decimal
	count    int
}

// WeeklyDigest summarizes purchases of the seven days ending at now: total
// spend, the ingredients with the highest spend and their latest unit cost.
func (s *Service) WeeklyDigest(ctx context.Context, now time.Time) (string, error) {
	records, err := s.reader.Records(ctx)
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	end := now.In(s.loc)
	start := end.Add(-digestWindow)
	prices := costing.BuildPriceLookup(records)

	byName := make(map[string]*ingredientSpend)
	total := decimal.Zero
	entries := 0

	for _, rec := range records {
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		key := costing.NormalizeName(rec.Ingredient)
		item, ok := byName[key]
		if !ok {
			item = &ingredientSpend{name: rec.Ingredient}
			if price, found := prices[key]; found {
				item.unitCost = price.UnitCost
			}
			byName[key] = item
		}
		item.spend = item.spend.Add(rec.TotalPrice)
		item.grams = item.grams.Add(rec.GramWeight)
		item.count++
		total = total.Add(rec.TotalPrice)
		entries++
	}

	header := fmt.Sprintf("Purchases %s to %s", start.Format(dateLayout), end.Format(dateLayout))
	if entries == 0 {
		return header + ": no purchases recorded.", nil
	}

	items := make([]*ingredientSpend, 0, len(byName))
	for _, item := range byName {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].spend.Equal(items[j].spend) {
			return items[i].spend.GreaterThan(items[j].spend)
		}
		return items[i].name < items[j].name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s spent across %d purchases of %d ingredients.", header, total.StringFixed(0), entries, len(items))
	for i, item := range items {
		if i == digestTopItems {
			fmt.Fprintf(&b, "\n... and %d more.", len(items)-digestTopItems)
			break
		}
		fmt.Fprintf(&b, "\n- %s: %s for %sg (latest %s/g)", item.name, item.spend.StringFixed(0), item.grams.StringFixed(0), item.unitCost.StringFixed(4))
	}

	s.logger.Debug("weekly digest built", zap.Int("entries", entries), zap.Int("ingredients", len(items)))
	return b.String(), nil
}

// ExportWorkbook writes the ledger and the current price lookup as an xlsx
// workbook.
func (s *Service) ExportWorkbook(ctx context.Context, w io.Writer) error {
	records, err := s.reader.Records(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", purchasesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, purchasesSheet, 1, ledger.Header); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writeRow(f, purchasesSheet, i+2, purchaseCells(rec, s.loc)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(pricesSheet); err != nil {
		return fmt.Errorf("create prices sheet: %w", err)
	}
	if err := writeRow(f, pricesSheet, 1, []interface{}{"ingredient", "unit_cost_per_gram", "observed_at", "shop"}); err != nil {
		return err
	}
	for i, price := range costing.BuildPriceLookup(records).Sorted() {
		row := []interface{}{price.Ingredient, price.UnitCost.InexactFloat64(), price.ObservedAt.In(s.loc).Format(ledger.TimestampLayout), price.Shop}
		if err := writeRow(f, pricesSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func purchaseCells(rec models.PurchaseRecord, loc *time.Location) []interface{} {
	return []interface{}{
		rec.Timestamp.In(loc).Format(ledger.TimestampLayout),
		rec.Shop,
		rec.Ingredient,
		rec.TotalPrice.InexactFloat64(),
		rec.Quantity.InexactFloat64(),
		string(rec.Unit),
		rec.GramWeight.InexactFloat64(),
		rec.UnitCost.InexactFloat64(),
		string(rec.Category),
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

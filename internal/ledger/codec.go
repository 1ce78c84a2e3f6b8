package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// TimestampLayout is the format purchase timestamps are written with.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
}

// Header is the column layout of the ledger sheet.
var Header = []interface{}{
	"timestamp", "shop", "ingredient", "total_price", "quantity", "unit", "gram_weight", "unit_cost_per_gram", "category",
}

const (
	fullRowColumns   = 8
	legacyRowColumns = 5
)

// EncodeRow renders a record as a ledger sheet row.
func EncodeRow(rec models.PurchaseRecord, loc *time.Location) []interface{} {
	return []interface{}{
		rec.Timestamp.In(loc).Format(TimestampLayout),
		rec.Shop,
		rec.Ingredient,
		rec.TotalPrice.String(),
		rec.Quantity.String(),
		string(rec.Unit),
		rec.GramWeight.String(),
		rec.UnitCost.StringFixed(4),
		string(rec.Category),
	}
}

// DecodeRow parses a ledger sheet row. Two layouts are understood: the full
// nine-column layout written by EncodeRow (trailing blanks may be trimmed by
// the sheet), and the five-column legacy layout
// `date | ingredient | total | grams | unit cost` where weights are grams.
// Gram weight and unit cost are always recomputed rather than trusted.
func DecodeRow(row []interface{}, loc *time.Location) (models.PurchaseRecord, error) {
	switch {
	case len(row) >= fullRowColumns:
		return decodeFull(row, loc)
	case len(row) >= legacyRowColumns:
		return decodeLegacy(row, loc)
	default:
		return models.PurchaseRecord{}, fmt.Errorf("%w: %d columns", ErrMalformedRow, len(row))
	}
}

func decodeFull(row []interface{}, loc *time.Location) (models.PurchaseRecord, error) {
	ts, err := parseTimestamp(row[0], loc)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	total, err := parseDecimal(row[3])
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("total_price: %w", err)
	}
	qty, err := parseDecimal(row[4])
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("quantity: %w", err)
	}

	category := ""
	if len(row) > fullRowColumns {
		category = cell(row[fullRowColumns])
	}

	rec, err := costing.NewPurchaseRecord(costing.PurchaseInput{
		Shop:       cell(row[1]),
		Category:   category,
		Ingredient: cell(row[2]),
		TotalPrice: total,
		Quantity:   qty,
		Unit:       cell(row[5]),
	}, ts)
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return rec, nil
}

func decodeLegacy(row []interface{}, loc *time.Location) (models.PurchaseRecord, error) {
	ts, err := parseTimestamp(row[0], loc)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	total, err := parseDecimal(row[2])
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("total_price: %w", err)
	}
	grams, err := parseDecimal(row[3])
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("gram_weight: %w", err)
	}

	rec, err := costing.NewPurchaseRecord(costing.PurchaseInput{
		Ingredient: cell(row[1]),
		TotalPrice: total,
		Quantity:   grams,
		Unit:       string(models.UnitGram),
	}, ts)
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return rec, nil
}

func cell(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func parseTimestamp(value interface{}, loc *time.Location) (time.Time, error) {
	str := cell(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformedRow)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, str, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrMalformedRow, str)
}

func parseDecimal(value interface{}) (decimal.Decimal, error) {
	str := strings.ReplaceAll(cell(value), ",", "")
	str = strings.TrimPrefix(str, "$")
	if str == "" {
		return decimal.Zero, fmt.Errorf("%w: empty numeric value", ErrMalformedRow)
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return d, nil
}

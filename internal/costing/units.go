package costing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// Gram conversion factors. The table is authoritative for all stored rows.
var gramFactors = map[models.Unit]decimal.Decimal{
	models.UnitGram:     decimal.NewFromInt(1),
	models.UnitKilogram: decimal.NewFromInt(1000),
	models.UnitCatty:    decimal.NewFromInt(600),
	models.UnitTael:     decimal.RequireFromString("37.5"),
}

// UnitFactor describes one supported unit.
type UnitFactor struct {
	Unit  models.Unit     `json:"unit"`
	Grams decimal.Decimal `json:"grams"`
}

// Units lists the supported units ordered by gram factor.
func Units() []UnitFactor {
	out := make([]UnitFactor, 0, len(gramFactors))
	for unit, factor := range gramFactors {
		out = append(out, UnitFactor{Unit: unit, Grams: factor})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Grams.LessThan(out[j].Grams) })
	return out
}

// ParseUnit resolves a unit name or alias, case-insensitively.
func ParseUnit(raw string) (models.Unit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "g", "gram", "grams", "公克", "克":
		return models.UnitGram, nil
	case "kg", "kilogram", "kilograms", "公斤":
		return models.UnitKilogram, nil
	case "catty", "taiwanese-catty", "台斤", "斤":
		return models.UnitCatty, nil
	case "tael", "兩", "两":
		return models.UnitTael, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, raw)
	}
}

// Normalize converts a purchase quantity into grams. No rounding is applied.
func Normalize(quantity decimal.Decimal, unit models.Unit) (decimal.Decimal, error) {
	factor, ok := gramFactors[unit]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidQuantity, quantity)
	}
	return quantity.Mul(factor), nil
}

// UnitPrice derives the per-gram cost of a purchase, rounded half-to-even to
// four places so re-derived values match existing spreadsheet data.
func UnitPrice(total, grams decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrNegativePrice, total)
	}
	if !grams.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrDivisionByZero, grams)
	}
	return total.Div(grams).RoundBank(4), nil
}

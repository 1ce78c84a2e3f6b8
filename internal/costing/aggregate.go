package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// Aggregate prices every line against the lookup and derives the recipe
// economics. Each line subtotal is rounded half-to-even to two places before
// summation. A line's own UnitCost takes precedence over the lookup.
// Ingredients missing from the lookup are priced at zero and reported once
// in Unpriced. Gross margin is measured against food cost only,
// while cost ratio includes overhead.
func Aggregate(lines []models.IngredientLine, overhead models.Overhead, sellPrice decimal.Decimal, lookup PriceLookup) (models.RecipeCostResult, error) {
	if sellPrice.IsNegative() {
		return models.RecipeCostResult{}, fmt.Errorf("sell price: %w", ErrNegativePrice)
	}
	if overhead.Value.IsNegative() {
		return models.RecipeCostResult{}, fmt.Errorf("overhead value: %w", ErrNegativePrice)
	}

	result := models.RecipeCostResult{
		Lines:     make([]models.LineCost, 0, len(lines)),
		SellPrice: sellPrice,
	}

	foodCost := decimal.Zero
	unpriced := make(map[string]bool)
	for i, line := range lines {
		if line.QuantityGrams.IsNegative() {
			return models.RecipeCostResult{}, fmt.Errorf("line %d (%s): %w", i+1, line.Ingredient, ErrNegativeQuantity)
		}

		unitCost, priced := decimal.Zero, false
		switch {
		case line.UnitCost != nil:
			if line.UnitCost.IsNegative() {
				return models.RecipeCostResult{}, fmt.Errorf("line %d (%s) unit cost: %w", i+1, line.Ingredient, ErrNegativePrice)
			}
			unitCost, priced = *line.UnitCost, true
		case lookup != nil:
			unitCost, priced = lookup.UnitCost(line.Ingredient)
		}
		if key := NormalizeName(line.Ingredient); !priced && key != "" && !unpriced[key] {
			unpriced[key] = true
			result.Unpriced = append(result.Unpriced, line.Ingredient)
		}

		subtotal := line.QuantityGrams.Mul(unitCost).RoundBank(2)
		foodCost = foodCost.Add(subtotal)

		result.Lines = append(result.Lines, models.LineCost{
			Ingredient:    line.Ingredient,
			QuantityGrams: line.QuantityGrams,
			UnitCost:      unitCost,
			Subtotal:      subtotal,
			Priced:        priced,
		})
	}

	overheadCost, err := OverheadCost(overhead, foodCost)
	if err != nil {
		return models.RecipeCostResult{}, err
	}

	result.FoodCost = foodCost
	result.OverheadCost = overheadCost
	result.TotalCost = foodCost.Add(overheadCost)
	result.NetProfit = sellPrice.Sub(result.TotalCost)

	if sellPrice.IsPositive() {
		result.GrossMarginPercent = decimal.NewNullDecimal(sellPrice.Sub(foodCost).Div(sellPrice).Mul(hundred))
		result.CostRatioPercent = decimal.NewNullDecimal(result.TotalCost.Div(sellPrice).Mul(hundred))
	}

	return result, nil
}

// OverheadCost applies an overhead policy to a food cost. The zero Overhead
// adds nothing.
func OverheadCost(overhead models.Overhead, foodCost decimal.Decimal) (decimal.Decimal, error) {
	switch overhead.Mode {
	case models.OverheadFixed, "":
		return overhead.Value, nil
	case models.OverheadPercent:
		return foodCost.Mul(overhead.Value).Div(hundred), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownOverheadMode, overhead.Mode)
	}
}

package models

import "github.com/shopspring/decimal"

// OverheadMode selects how non-ingredient cost is added to a recipe.
type OverheadMode string

const (
	OverheadFixed   OverheadMode = "fixed"
	OverheadPercent OverheadMode = "percent"
)

// Overhead is the packaging/utilities/commission policy of a recipe.
type Overhead struct {
	Name  string          `json:"name,omitempty"`
	Mode  OverheadMode    `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// IngredientLine is one row of a recipe composition. UnitCost, when set,
// prices this line instead of the lookup.
type IngredientLine struct {
	Ingredient    string           `json:"ingredient"`
	QuantityGrams decimal.Decimal  `json:"grams"`
	UnitCost      *decimal.Decimal `json:"unit_cost_per_gram,omitempty"`
}

// LineCost is the priced view of an IngredientLine at calculation time.
type LineCost struct {
	Ingredient    string          `json:"ingredient"`
	QuantityGrams decimal.Decimal `json:"grams"`
	UnitCost      decimal.Decimal `json:"unit_cost_per_gram"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Priced        bool            `json:"priced"`
}

// RecipeCostResult is the outcome of one aggregation run. GrossMarginPercent
// and CostRatioPercent are invalid when no sell price was given.
type RecipeCostResult struct {
	Lines              []LineCost          `json:"lines"`
	FoodCost           decimal.Decimal     `json:"food_cost"`
	OverheadCost       decimal.Decimal     `json:"overhead_cost"`
	TotalCost          decimal.Decimal     `json:"total_cost"`
	SellPrice          decimal.Decimal     `json:"sell_price"`
	NetProfit          decimal.Decimal     `json:"net_profit"`
	GrossMarginPercent decimal.NullDecimal `json:"gross_margin_percent"`
	CostRatioPercent   decimal.NullDecimal `json:"cost_ratio_percent"`
	Unpriced           []string            `json:"unpriced,omitempty"`
}

// RecipeCostSummary carries the one-decimal figures shown to users.
type RecipeCostSummary struct {
	TotalCost          decimal.Decimal     `json:"total_cost"`
	NetProfit          decimal.Decimal     `json:"net_profit"`
	GrossMarginPercent decimal.NullDecimal `json:"gross_margin_percent"`
	CostRatioPercent   decimal.NullDecimal `json:"cost_ratio_percent"`
}

// Display rounds the headline figures to one decimal place. The result
// itself keeps full precision.
func (r RecipeCostResult) Display() RecipeCostSummary {
	return RecipeCostSummary{
		TotalCost:          r.TotalCost.RoundBank(1),
		NetProfit:          r.NetProfit.RoundBank(1),
		GrossMarginPercent: roundNull(r.GrossMarginPercent, 1),
		CostRatioPercent:   roundNull(r.CostRatioPercent, 1),
	}
}

func roundNull(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.RoundBank(places))
}

package models

import "time"

// MenuAnalysis is a saved recipe cost calculation.
type MenuAnalysis struct {
	Timestamp time.Time        `json:"timestamp"`
	Dish      string           `json:"dish"`
	Overhead  Overhead         `json:"overhead"`
	Result    RecipeCostResult `json:"result"`
}

// AnalysisDocument is the MongoDB archive shape of a MenuAnalysis.
type AnalysisDocument struct {
	Dish               string                 `bson:"dish" json:"dish"`
	FoodCost           float64                `bson:"food_cost" json:"food_cost"`
	OverheadName       string                 `bson:"overhead_name,omitempty" json:"overhead_name,omitempty"`
	OverheadMode       string                 `bson:"overhead_mode" json:"overhead_mode"`
	OverheadValue      float64                `bson:"overhead_value" json:"overhead_value"`
	OverheadCost       float64                `bson:"overhead_cost" json:"overhead_cost"`
	TotalCost          float64                `bson:"total_cost" json:"total_cost"`
	SellPrice          float64                `bson:"sell_price" json:"sell_price"`
	NetProfit          float64                `bson:"net_profit" json:"net_profit"`
	GrossMarginPercent *float64               `bson:"gross_margin_percent" json:"gross_margin_percent"`
	CostRatioPercent   *float64               `bson:"cost_ratio_percent" json:"cost_ratio_percent"`
	Lines              []AnalysisLineDocument `bson:"lines" json:"lines"`
	Unpriced           []string               `bson:"unpriced,omitempty" json:"unpriced,omitempty"`
	CreatedAt          time.Time              `bson:"created_at" json:"created_at"`
}

// AnalysisLineDocument is one priced ingredient inside an AnalysisDocument.
type AnalysisLineDocument struct {
	Ingredient string  `bson:"ingredient" json:"ingredient"`
	Grams      float64 `bson:"grams" json:"grams"`
	UnitCost   float64 `bson:"unit_cost" json:"unit_cost"`
	Subtotal   float64 `bson:"subtotal" json:"subtotal"`
}

// NewAnalysisDocument flattens a MenuAnalysis for archival.
func NewAnalysisDocument(a MenuAnalysis) AnalysisDocument {
	doc := AnalysisDocument{
		Dish:          a.Dish,
		FoodCost:      a.Result.FoodCost.InexactFloat64(),
		OverheadName:  a.Overhead.Name,
		OverheadMode:  string(a.Overhead.Mode),
		OverheadValue: a.Overhead.Value.InexactFloat64(),
		OverheadCost:  a.Result.OverheadCost.InexactFloat64(),
		TotalCost:     a.Result.TotalCost.InexactFloat64(),
		SellPrice:     a.Result.SellPrice.InexactFloat64(),
		NetProfit:     a.Result.NetProfit.InexactFloat64(),
		Unpriced:      a.Result.Unpriced,
		CreatedAt:     a.Timestamp,
	}
	if a.Result.GrossMarginPercent.Valid {
		v := a.Result.GrossMarginPercent.Decimal.InexactFloat64()
		doc.GrossMarginPercent = &v
	}
	if a.Result.CostRatioPercent.Valid {
		v := a.Result.CostRatioPercent.Decimal.InexactFloat64()
		doc.CostRatioPercent = &v
	}
	for _, line := range a.Result.Lines {
		doc.Lines = append(doc.Lines, AnalysisLineDocument{
			Ingredient: line.Ingredient,
			Grams:      line.QuantityGrams.InexactFloat64(),
			UnitCost:   line.UnitCost.InexactFloat64(),
			Subtotal:   line.Subtotal.InexactFloat64(),
		})
	}
	return doc
}

package costing

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// PriceLookup resolves the current per-gram cost of an ingredient.
type PriceLookup interface {
	UnitCost(ingredient string) (decimal.Decimal, bool)
}

// Price is the latest observation for one ingredient.
type Price struct {
	Ingredient string          `json:"ingredient"`
	UnitCost   decimal.Decimal `json:"unit_cost_per_gram"`
	ObservedAt time.Time       `json:"observed_at"`
	Shop       string          `json:"shop,omitempty"`
}

// Prices is a PriceLookup keyed by normalized ingredient name.
type Prices map[string]Price

// UnitCost implements PriceLookup.
func (p Prices) UnitCost(ingredient string) (decimal.Decimal, bool) {
	price, ok := p[NormalizeName(ingredient)]
	if !ok {
		return decimal.Zero, false
	}
	return price.UnitCost, true
}

// Sorted returns the prices ordered by ingredient name.
func (p Prices) Sorted() []Price {
	out := make([]Price, 0, len(p))
	for _, price := range p {
		out = append(out, price)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })
	return out
}

// BuildPriceLookup projects the ledger onto the latest unit cost per
// ingredient. Records must be in append order: on equal timestamps the later
// record wins.
func BuildPriceLookup(records []models.PurchaseRecord) Prices {
	prices := make(Prices, len(records))
	for _, rec := range records {
		key := NormalizeName(rec.Ingredient)
		if key == "" {
			continue
		}
		if current, ok := prices[key]; ok && rec.Timestamp.Before(current.ObservedAt) {
			continue
		}
		prices[key] = Price{
			Ingredient: rec.Ingredient,
			UnitCost:   rec.UnitCost,
			ObservedAt: rec.Timestamp,
			Shop:       rec.Shop,
		}
	}
	return prices
}

// NormalizeName lowercases and trims an ingredient name for matching.
func NormalizeName(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

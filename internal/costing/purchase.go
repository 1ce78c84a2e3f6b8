package costing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// PurchaseInput is a purchase as entered by a user, before derivation.
type PurchaseInput struct {
	Shop       string          `json:"shop"`
	Category   string          `json:"category"`
	Ingredient string          `json:"ingredient"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
}

// NewPurchaseRecord validates the input and derives the gram weight and the
// per-gram unit cost.
func NewPurchaseRecord(in PurchaseInput, at time.Time) (models.PurchaseRecord, error) {
	name := strings.TrimSpace(in.Ingredient)
	if name == "" {
		return models.PurchaseRecord{}, ErrEmptyIngredient
	}

	unit, err := ParseUnit(in.Unit)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	grams, err := Normalize(in.Quantity, unit)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	unitCost, err := UnitPrice(in.TotalPrice, grams)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	return models.PurchaseRecord{
		Timestamp:  at,
		Shop:       strings.TrimSpace(in.Shop),
		Category:   models.Category(strings.TrimSpace(in.Category)),
		Ingredient: name,
		TotalPrice: in.TotalPrice,
		Quantity:   in.Quantity,
		Unit:       unit,
		GramWeight: grams,
		UnitCost:   unitCost,
	}, nil
}

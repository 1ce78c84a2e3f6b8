package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit enumerates the purchase weight units accepted by the ledger.
type Unit string

const (
	UnitGram     Unit = "g"
	UnitKilogram Unit = "kg"
	UnitCatty    Unit = "catty" // Taiwanese catty (台斤)
	UnitTael     Unit = "tael"  // 兩
)

// Category is the optional grouping chosen when a purchase is logged.
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryMeat      Category = "meat"
	CategorySeafood   Category = "seafood"
	CategoryDryGoods  Category = "dry_goods"
	CategoryOther     Category = "other"
)

// PurchaseRecord is one immutable ledger entry. GramWeight and UnitCost are
// always derived from Quantity, Unit and TotalPrice.
type PurchaseRecord struct {
	Timestamp  time.Time       `json:"timestamp"`
	Shop       string          `json:"shop,omitempty"`
	Category   Category        `json:"category,omitempty"`
	Ingredient string          `json:"ingredient"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       Unit            `json:"unit"`
	GramWeight decimal.Decimal `json:"gram_weight"`
	UnitCost   decimal.Decimal `json:"unit_cost_per_gram"`
}

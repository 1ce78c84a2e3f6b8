package costing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
)

func testPrices() costing.Prices {
	return costing.Prices{
		"a": {Ingredient: "A", UnitCost: dec("0.5")},
		"b": {Ingredient: "B", UnitCost: dec("0.2")},
	}
}

func line(name, grams string) models.IngredientLine {
	return models.IngredientLine{Ingredient: name, QuantityGrams: dec(grams)}
}

func fixed(v string) models.Overhead {
	return models.Overhead{Mode: models.OverheadFixed, Value: dec(v)}
}

func percent(v string) models.Overhead {
	return models.Overhead{Mode: models.OverheadPercent, Value: dec(v)}
}

// =============================================================================
// FOOD COST
// =============================================================================

func TestAggregate_LineSubtotalsSumToFoodCost(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200"), line("B", "300")}, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assert.True(t, dec("100").Equal(res.Lines[0].Subtotal))
	assert.True(t, dec("60").Equal(res.Lines[1].Subtotal))
	assert.True(t, dec("160").Equal(res.FoodCost))
	assert.Empty(t, res.Unpriced)
}

func TestAggregate_LineUnitCostTakesPrecedence(t *testing.T) {
	own := dec("0.1")
	lines := []models.IngredientLine{
		{Ingredient: "A", QuantityGrams: dec("100"), UnitCost: &own},
		line("A", "100"),
		{Ingredient: "Ghost", QuantityGrams: dec("10"), UnitCost: &own},
	}

	res, err := costing.Aggregate(lines, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(res.Lines[0].Subtotal))
	assert.True(t, dec("50").Equal(res.Lines[1].Subtotal))
	assert.True(t, res.Lines[2].Priced)
	assert.True(t, dec("61").Equal(res.FoodCost))
	assert.Empty(t, res.Unpriced)
}

func TestAggregate_NegativeLineUnitCost(t *testing.T) {
	neg := dec("-0.1")
	_, err := costing.Aggregate([]models.IngredientLine{{Ingredient: "A", QuantityGrams: dec("1"), UnitCost: &neg}}, fixed("0"), decimal.Zero, nil)
	assert.ErrorIs(t, err, costing.ErrNegativePrice)
}

func TestAggregate_UnpricedListedOncePerIngredient(t *testing.T) {
	lines := []models.IngredientLine{line("Saffron", "1"), line("A", "10"), line(" saffron ", "2"), line("Yuzu", "3")}

	res, err := costing.Aggregate(lines, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)
	assert.Equal(t, []string{"Saffron", "Yuzu"}, res.Unpriced)
	assert.False(t, res.Lines[2].Priced)
}

func TestAggregate_EmptyLinesYieldZeroFoodCost(t *testing.T) {
	for _, oh := range []models.Overhead{fixed("15"), percent("30"), {}} {
		res, err := costing.Aggregate(nil, oh, dec("100"), testPrices())
		require.NoError(t, err)
		assert.True(t, res.FoodCost.IsZero(), "mode %q", oh.Mode)
		assert.Empty(t, res.Lines)
	}
}

func TestAggregate_RoundsEachLineBeforeSumming(t *testing.T) {
	prices := costing.Prices{"x": {UnitCost: dec("0.0125")}}

	// Each line is 0.125 -> 0.12 (half to even); summed unrounded it would be 0.25.
	res, err := costing.Aggregate([]models.IngredientLine{line("x", "10"), line("x", "10")}, fixed("0"), decimal.Zero, prices)
	require.NoError(t, err)
	assert.Equal(t, "0.24", res.FoodCost.StringFixed(2))
}

func TestAggregate_ZeroQuantityLineContributesNothing(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "0"), line("B", "300")}, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(res.FoodCost))
	assert.True(t, res.Lines[0].Priced)
}

func TestAggregate_UnpricedIngredientIsZeroAndFlagged(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200"), line("saffron", "5"), line("", "0")}, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)

	assert.True(t, dec("100").Equal(res.FoodCost))
	assert.Equal(t, []string{"saffron"}, res.Unpriced)
	assert.False(t, res.Lines[1].Priced)
	assert.True(t, res.Lines[1].Subtotal.IsZero())
}

func TestAggregate_NilLookupPricesEverythingAtZero(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200")}, fixed("5"), decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, res.FoodCost.IsZero())
	assert.True(t, dec("5").Equal(res.TotalCost))
}

func TestAggregate_LookupMatchesNormalizedNames(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("  a ", "200")}, fixed("0"), decimal.Zero, testPrices())
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(res.FoodCost))
}

// =============================================================================
// OVERHEAD & ECONOMICS
// =============================================================================

func TestAggregate_FixedOverheadScenario(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200"), line("B", "300")}, fixed("20"), dec("300"), testPrices())
	require.NoError(t, err)

	assert.True(t, dec("160").Equal(res.FoodCost))
	assert.True(t, dec("20").Equal(res.OverheadCost))
	assert.True(t, dec("180").Equal(res.TotalCost))
	assert.True(t, dec("120").Equal(res.NetProfit))

	require.True(t, res.GrossMarginPercent.Valid)
	require.True(t, res.CostRatioPercent.Valid)
	assert.Equal(t, "46.7", res.GrossMarginPercent.Decimal.RoundBank(1).String())
	assert.Equal(t, "60", res.CostRatioPercent.Decimal.RoundBank(1).String())

	summary := res.Display()
	assert.Equal(t, "46.7", summary.GrossMarginPercent.Decimal.String())
	assert.Equal(t, "180", summary.TotalCost.String())
}

func TestAggregate_PercentOverhead(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200"), line("B", "300")}, percent("12.5"), dec("400"), testPrices())
	require.NoError(t, err)

	assert.True(t, dec("20").Equal(res.OverheadCost))
	assert.True(t, dec("180").Equal(res.TotalCost))
	assert.Equal(t, "45", res.CostRatioPercent.Decimal.String())
}

func TestAggregate_ZeroPercentOverheadIsZero(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "1234"), line("B", "77")}, percent("0"), dec("10"), testPrices())
	require.NoError(t, err)
	assert.True(t, res.OverheadCost.IsZero())
	assert.True(t, res.FoodCost.Equal(res.TotalCost))
}

func TestAggregate_GrossMarginExcludesOverhead(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200")}, fixed("30"), dec("250"), testPrices())
	require.NoError(t, err)
	require.True(t, res.OverheadCost.IsPositive())

	withOverhead := res.SellPrice.Sub(res.TotalCost).Div(res.SellPrice).Mul(decimal.NewFromInt(100))
	assert.False(t, res.GrossMarginPercent.Decimal.Equal(withOverhead))
	assert.True(t, dec("60").Equal(res.GrossMarginPercent.Decimal))
	assert.True(t, dec("52").Equal(res.CostRatioPercent.Decimal))
}

func TestAggregate_NoSellPriceLeavesRatiosUndefined(t *testing.T) {
	res, err := costing.Aggregate([]models.IngredientLine{line("A", "200")}, fixed("20"), decimal.Zero, testPrices())
	require.NoError(t, err)

	assert.False(t, res.GrossMarginPercent.Valid)
	assert.False(t, res.CostRatioPercent.Valid)
	assert.True(t, dec("-120").Equal(res.NetProfit))

	raw, err := json.Marshal(res.Display())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"gross_margin_percent":null`)
	assert.Contains(t, string(raw), `"cost_ratio_percent":null`)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestAggregate_RejectsNegativeInputs(t *testing.T) {
	_, err := costing.Aggregate([]models.IngredientLine{line("A", "-1")}, fixed("0"), decimal.Zero, testPrices())
	assert.ErrorIs(t, err, costing.ErrNegativeQuantity)

	_, err = costing.Aggregate(nil, fixed("0"), dec("-5"), testPrices())
	assert.ErrorIs(t, err, costing.ErrNegativePrice)

	_, err = costing.Aggregate(nil, fixed("-5"), decimal.Zero, testPrices())
	assert.ErrorIs(t, err, costing.ErrNegativePrice)
}

func TestAggregate_RejectsUnknownOverheadMode(t *testing.T) {
	_, err := costing.Aggregate(nil, models.Overhead{Mode: "weekly", Value: dec("1")}, decimal.Zero, testPrices())
	assert.ErrorIs(t, err, costing.ErrUnknownOverheadMode)
}

// =============================================================================
// PRICE LOOKUP
// =============================================================================

func purchase(name, unitCost string, at time.Time) models.PurchaseRecord {
	return models.PurchaseRecord{Ingredient: name, UnitCost: dec(unitCost), Timestamp: at}
}

func TestBuildPriceLookup_LatestTimestampWins(t *testing.T) {
	t0 := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)
	records := []models.PurchaseRecord{
		purchase("Pork", "0.30", t0.Add(48*time.Hour)),
		purchase("pork ", "0.25", t0),
		purchase("Onion", "0.04", t0),
	}

	prices := costing.BuildPriceLookup(records)

	cost, ok := prices.UnitCost("PORK")
	require.True(t, ok)
	assert.True(t, dec("0.3").Equal(cost))
	assert.Len(t, prices, 2)
}

func TestBuildPriceLookup_TiesBrokenByAppendOrder(t *testing.T) {
	at := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)
	records := []models.PurchaseRecord{
		purchase("Egg", "0.10", at),
		purchase("Egg", "0.12", at),
	}

	cost, ok := costing.BuildPriceLookup(records).UnitCost("egg")
	require.True(t, ok)
	assert.True(t, dec("0.12").Equal(cost))
}

func TestBuildPriceLookup_SkipsBlankNames(t *testing.T) {
	prices := costing.BuildPriceLookup([]models.PurchaseRecord{purchase("  ", "1", time.Now())})
	assert.Empty(t, prices)

	_, ok := prices.UnitCost("anything")
	assert.False(t, ok)
}

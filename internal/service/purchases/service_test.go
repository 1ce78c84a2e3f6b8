package purchases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
)

type memoryLedger struct {
	records   []models.PurchaseRecord
	appendErr error
}

func (m *memoryLedger) Append(_ context.Context, rec models.PurchaseRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryLedger) Records(context.Context) ([]models.PurchaseRecord, error) {
	return m.records, nil
}

func newTestService(store *memoryLedger, clock time.Time) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return clock }
	return svc
}

func TestRecord_AppendsDerivedRecord(t *testing.T) {
	store := &memoryLedger{}
	clock := time.Date(2026, time.February, 14, 7, 30, 0, 0, time.UTC)
	svc := newTestService(store, clock)

	rec, err := svc.Record(context.Background(), costing.PurchaseInput{
		Ingredient: "Pork belly",
		TotalPrice: decimal.NewFromInt(600),
		Quantity:   decimal.NewFromInt(1),
		Unit:       "taiwanese-catty",
	})
	require.NoError(t, err)

	assert.Equal(t, clock, rec.Timestamp)
	assert.Equal(t, "1", rec.UnitCost.String())
	require.Len(t, store.records, 1)
	assert.Equal(t, rec, store.records[0])
}

func TestRecord_ValidationErrorsDoNotAppend(t *testing.T) {
	store := &memoryLedger{}
	svc := newTestService(store, time.Now())

	_, err := svc.Record(context.Background(), costing.PurchaseInput{
		Ingredient: "Salt",
		TotalPrice: decimal.NewFromInt(20),
		Quantity:   decimal.NewFromInt(1),
		Unit:       "bag",
	})
	assert.ErrorIs(t, err, costing.ErrUnknownUnit)
	assert.Empty(t, store.records)
}

func TestRecord_WrapsStoreFailure(t *testing.T) {
	store := &memoryLedger{appendErr: errors.New("sheet unavailable")}
	svc := newTestService(store, time.Now())

	_, err := svc.Record(context.Background(), costing.PurchaseInput{
		Ingredient: "Salt",
		TotalPrice: decimal.NewFromInt(20),
		Quantity:   decimal.NewFromInt(1),
		Unit:       "kg",
	})
	assert.ErrorIs(t, err, store.appendErr)
}

func TestPrices_ProjectsLatest(t *testing.T) {
	store := &memoryLedger{}
	t0 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	svc := newTestService(store, t0)
	_, err := svc.Record(ctx, costing.PurchaseInput{Ingredient: "Egg", TotalPrice: decimal.NewFromInt(60), Quantity: decimal.NewFromInt(600), Unit: "g"})
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(24 * time.Hour) }
	_, err = svc.Record(ctx, costing.PurchaseInput{Ingredient: "egg", TotalPrice: decimal.NewFromInt(90), Quantity: decimal.NewFromInt(600), Unit: "g"})
	require.NoError(t, err)

	prices, err := svc.Prices(ctx)
	require.NoError(t, err)
	cost, ok := prices.UnitCost("EGG")
	require.True(t, ok)
	assert.Equal(t, "0.15", cost.String())

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

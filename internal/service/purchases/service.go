package purchases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
	"github.com/mamadbah2/foodcost/internal/ledger"
)

// Service records purchases into the ledger and serves the price lookup.
type Service struct {
	store  ledger.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a purchase service.
func NewService(store ledger.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Record derives the gram weight and unit cost of a purchase and appends it.
// Validation failures wrap the costing sentinel errors.
func (s *Service) Record(ctx context.Context, in costing.PurchaseInput) (models.PurchaseRecord, error) {
	rec, err := costing.NewPurchaseRecord(in, s.now())
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("record purchase: %w", err)
	}

	s.logger.Info("purchase recorded",
		zap.String("ingredient", rec.Ingredient),
		zap.String("unit", string(rec.Unit)),
		zap.Stringer("grams", rec.GramWeight),
		zap.Stringer("unit_cost", rec.UnitCost))

	return rec, nil
}

// List returns the ledger in append order.
func (s *Service) List(ctx context.Context) ([]models.PurchaseRecord, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return records, nil
}

// Prices rebuilds the latest-price projection from the current ledger.
func (s *Service) Prices(ctx context.Context) (costing.Prices, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	return costing.BuildPriceLookup(records), nil
}

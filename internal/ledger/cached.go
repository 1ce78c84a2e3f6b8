package ledger

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

const snapshotKey = "ledger:records"

// CachedStore serves ledger snapshots from memory for up to ttl. Appends made
// through it invalidate the snapshot; appends made elsewhere (for example
// directly in the spreadsheet) become visible once the ttl expires.
type CachedStore struct {
	inner  Store
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCachedStore wraps a store. A zero ttl disables caching.
func NewCachedStore(inner Store, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &CachedStore{inner: inner, cache: c, logger: logger}
}

// Append forwards to the wrapped store and drops the cached snapshot.
func (s *CachedStore) Append(ctx context.Context, record models.PurchaseRecord) error {
	if err := s.inner.Append(ctx, record); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Records returns a copy of the cached snapshot, loading it when missing.
func (s *CachedStore) Records(ctx context.Context) ([]models.PurchaseRecord, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(snapshotKey); ok {
			return cloneRecords(cached.([]models.PurchaseRecord)), nil
		}
	}

	records, err := s.inner.Records(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(snapshotKey, records, cache.DefaultExpiration)
		s.logger.Debug("ledger snapshot cached", zap.Int("records", len(records)))
	}
	return cloneRecords(records), nil
}

// Invalidate drops the cached snapshot.
func (s *CachedStore) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(snapshotKey)
	}
}

func cloneRecords(records []models.PurchaseRecord) []models.PurchaseRecord {
	out := make([]models.PurchaseRecord, len(records))
	copy(out, records)
	return out
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/domain/models"
	repo "github.com/mamadbah2/foodcost/internal/repository/sheets"
)

// SheetStore keeps the ledger in a spreadsheet range.
type SheetStore struct {
	repo       repo.Repository
	sheetRange string
	loc        *time.Location
	logger     *zap.Logger
}

// NewSheetStore wires a ledger over the given spreadsheet range.
func NewSheetStore(repository repo.Repository, sheetRange string, loc *time.Location, logger *zap.Logger) *SheetStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SheetStore{repo: repository, sheetRange: sheetRange, loc: loc, logger: logger}
}

// Append writes the record as a new row.
func (s *SheetStore) Append(ctx context.Context, record models.PurchaseRecord) error {
	if err := s.repo.AppendRow(ctx, s.sheetRange, EncodeRow(record, s.loc)); err != nil {
		return fmt.Errorf("append purchase: %w", err)
	}
	return nil
}

// Records reads the whole range. Rows that are not purchase records (the
// header, blank or hand-edited rows) are skipped.
func (s *SheetStore) Records(ctx context.Context) ([]models.PurchaseRecord, error) {
	rows, err := s.repo.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("load ledger range: %w", err)
	}
	return decodeRows(rows, s.loc, s.logger), nil
}

func decodeRows(rows [][]interface{}, loc *time.Location, logger *zap.Logger) []models.PurchaseRecord {
	records := make([]models.PurchaseRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := DecodeRow(row, loc)
		if err != nil {
			logger.Debug("skip ledger row", zap.Int("row", i+1), zap.Any("values", row), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

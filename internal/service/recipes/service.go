package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
	"github.com/mamadbah2/foodcost/internal/ledger"
)

// ErrNoAnalysisStorage indicates neither a journal nor an archive is configured.
var ErrNoAnalysisStorage = errors.New("no storage configured for menu analyses")

const defaultDish = "new dish"

// AnalysisJournal persists saved analyses.
type AnalysisJournal interface {
	SaveAnalysis(ctx context.Context, analysis models.MenuAnalysis) error
}

// AnalysisHistory lists saved analyses.
type AnalysisHistory interface {
	RecentAnalyses(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error)
}

// LineInput is one requested recipe line. UnitCost, when set, overrides the
// ledger price for that line only.
type LineInput struct {
	Ingredient string           `json:"ingredient"`
	Grams      decimal.Decimal  `json:"grams"`
	UnitCost   *decimal.Decimal `json:"unit_cost_per_gram,omitempty"`
}

// AnalyzeRequest is a recipe to cost.
type AnalyzeRequest struct {
	Dish      string          `json:"dish"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Overhead  models.Overhead `json:"overhead"`
	Lines     []LineInput     `json:"lines"`
}

// Service costs recipes against the purchase ledger.
type Service struct {
	reader  ledger.Reader
	journal AnalysisJournal
	archive AnalysisJournal
	history AnalysisHistory
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires the recipe service. journal is the system of record for
// saved analyses; archive receives a best-effort copy. Any of journal,
// archive and history may be nil.
func NewService(reader ledger.Reader, journal, archive AnalysisJournal, history AnalysisHistory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:  reader,
		journal: journal,
		archive: archive,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Analyze prices the recipe against a fresh projection of the ledger. The
// ledger is not read when every line carries its own unit cost.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (models.RecipeCostResult, error) {
	lines := make([]models.IngredientLine, 0, len(req.Lines))
	needsLedger := false
	for _, in := range req.Lines {
		lines = append(lines, models.IngredientLine{Ingredient: in.Ingredient, QuantityGrams: in.Grams, UnitCost: in.UnitCost})
		if in.UnitCost == nil {
			needsLedger = true
		}
	}

	var lookup costing.PriceLookup
	if needsLedger && s.reader != nil {
		records, err := s.reader.Records(ctx)
		if err != nil {
			return models.RecipeCostResult{}, fmt.Errorf("load ledger: %w", err)
		}
		lookup = costing.BuildPriceLookup(records)
	}

	result, err := costing.Aggregate(lines, req.Overhead, req.SellPrice, lookup)
	if err != nil {
		return models.RecipeCostResult{}, err
	}

	if len(result.Unpriced) > 0 {
		s.logger.Info("recipe has unpriced ingredients", zap.String("dish", req.Dish), zap.Strings("ingredients", result.Unpriced))
	}
	return result, nil
}

// Save analyzes the recipe and records the analysis. The journal error is
// returned; an archive failure is only logged.
func (s *Service) Save(ctx context.Context, req AnalyzeRequest) (models.MenuAnalysis, error) {
	if s.journal == nil && s.archive == nil {
		return models.MenuAnalysis{}, ErrNoAnalysisStorage
	}

	result, err := s.Analyze(ctx, req)
	if err != nil {
		return models.MenuAnalysis{}, err
	}

	dish := strings.TrimSpace(req.Dish)
	if dish == "" {
		dish = defaultDish
	}

	analysis := models.MenuAnalysis{
		Timestamp: s.now(),
		Dish:      dish,
		Overhead:  req.Overhead,
		Result:    result,
	}

	if s.journal != nil {
		if err := s.journal.SaveAnalysis(ctx, analysis); err != nil {
			return models.MenuAnalysis{}, fmt.Errorf("save analysis: %w", err)
		}
	}

	if s.archive != nil {
		if err := s.archive.SaveAnalysis(ctx, analysis); err != nil {
			if s.journal == nil {
				return models.MenuAnalysis{}, fmt.Errorf("archive analysis: %w", err)
			}
			s.logger.Error("failed to archive analysis", zap.String("dish", dish), zap.Error(err))
		}
	}

	s.logger.Info("menu analysis saved", zap.String("dish", dish), zap.Stringer("total_cost", result.TotalCost))
	return analysis, nil
}

// History lists saved analyses, newest first.
func (s *Service) History(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error) {
	if s.history == nil {
		return nil, ErrNoAnalysisStorage
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	docs, err := s.history.RecentAnalyses(ctx, strings.TrimSpace(dish), limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return docs, nil
}

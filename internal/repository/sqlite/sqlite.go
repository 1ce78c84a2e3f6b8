/*
Package sqlite provides a local, append-only purchase ledger on SQLite.

It is the offline alternative to the spreadsheet ledger: the same records,
the same append order guarantee (an autoincrement sequence), and a table of
saved menu analyses. There are no UPDATE or DELETE statements on either
table; corrections are new rows.

USAGE:

	store, err := sqlite.New("./data/foodcost.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// Store implements the ledger and analysis journal on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS purchases (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		shop TEXT,
		category TEXT,
		ingredient TEXT NOT NULL,
		total_price TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit TEXT NOT NULL,
		gram_weight TEXT NOT NULL,
		unit_cost TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchases_ingredient
		ON purchases(ingredient, recorded_at);

	CREATE TABLE IF NOT EXISTS menu_analyses (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		dish TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		sell_price TEXT NOT NULL,
		analysis_json TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts a purchase record.
func (s *Store) Append(ctx context.Context, rec models.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO purchases
		(recorded_at, shop, category, ingredient, total_price, quantity, unit, gram_weight, unit_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.Timestamp.Format(time.RFC3339Nano),
		nullString(rec.Shop),
		nullString(string(rec.Category)),
		rec.Ingredient,
		rec.TotalPrice.String(),
		rec.Quantity.String(),
		string(rec.Unit),
		rec.GramWeight.String(),
		rec.UnitCost.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append purchase: %w", err)
	}
	return nil
}

// Records returns every purchase in insertion order.
func (s *Store) Records(ctx context.Context) ([]models.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT recorded_at, shop, category, ingredient, total_price, quantity, unit, gram_weight, unit_cost
		FROM purchases ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var records []models.PurchaseRecord
	for rows.Next() {
		rec, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanPurchase(rows *sql.Rows) (models.PurchaseRecord, error) {
	var (
		rec        models.PurchaseRecord
		recordedAt string
		shop       sql.NullString
		category   sql.NullString
		total      string
		quantity   string
		unit       string
		grams      string
		unitCost   string
	)

	err := rows.Scan(&recordedAt, &shop, &category, &rec.Ingredient, &total, &quantity, &unit, &grams, &unitCost)
	if err != nil {
		return rec, fmt.Errorf("failed to scan purchase: %w", err)
	}

	if rec.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return rec, fmt.Errorf("invalid recorded_at %q: %w", recordedAt, err)
	}
	rec.Shop = shop.String
	rec.Category = models.Category(category.String)
	rec.Unit = models.Unit(unit)

	for _, f := range []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&rec.TotalPrice, total},
		{&rec.Quantity, quantity},
		{&rec.GramWeight, grams},
		{&rec.UnitCost, unitCost},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return rec, fmt.Errorf("invalid decimal %q: %w", f.raw, err)
		}
		*f.dst = d
	}

	return rec, nil
}

// SaveAnalysis stores a menu analysis with its full breakdown.
func (s *Store) SaveAnalysis(ctx context.Context, analysis models.MenuAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO menu_analyses (recorded_at, dish, total_cost, sell_price, analysis_json)
		VALUES (?, ?, ?, ?, ?)
	`,
		analysis.Timestamp.Format(time.RFC3339Nano),
		analysis.Dish,
		analysis.Result.TotalCost.String(),
		analysis.Result.SellPrice.String(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// RecentAnalyses returns saved analyses, newest first, optionally for one
// dish, up to limit.
func (s *Store) RecentAnalyses(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT analysis_json FROM menu_analyses
		WHERE ? = '' OR dish = ?
		ORDER BY seq DESC LIMIT ?
	`, dish, dish, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var out []models.AnalysisDocument
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		var analysis models.MenuAnalysis
		if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		out = append(out, models.NewAnalysisDocument(analysis))
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

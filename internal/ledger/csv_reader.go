package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// CSVReader reads the ledger from a publicly shared CSV export, e.g.
// https://docs.google.com/spreadsheets/d/<id>/gviz/tq?tqx=out:csv&sheet=Purchases.
// It cannot append.
type CSVReader struct {
	httpClient *resty.Client
	url        string
	loc        *time.Location
	logger     *zap.Logger
}

// NewCSVReader builds a reader for the given export URL.
func NewCSVReader(url string, loc *time.Location, logger *zap.Logger) *CSVReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CSVReader{
		httpClient: resty.New().SetTimeout(15 * time.Second),
		url:        url,
		loc:        loc,
		logger:     logger,
	}
}

// Records downloads and decodes the export.
func (r *CSVReader) Records(ctx context.Context) ([]models.PurchaseRecord, error) {
	resp, err := r.httpClient.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return nil, fmt.Errorf("fetch ledger csv: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch ledger csv: unexpected status %d", resp.StatusCode())
	}

	reader := csv.NewReader(bytes.NewReader(resp.Body()))
	reader.FieldsPerRecord = -1
	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger csv: %w", err)
	}

	rows := make([][]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, trimRow(line))
	}
	return decodeRows(rows, r.loc, r.logger), nil
}

// Append always fails with ErrReadOnly.
func (r *CSVReader) Append(context.Context, models.PurchaseRecord) error {
	return ErrReadOnly
}

// trimRow drops trailing empty cells so exports match the sheet API shape.
func trimRow(line []string) []interface{} {
	end := len(line)
	for end > 0 && line[end-1] == "" {
		end--
	}
	row := make([]interface{}, end)
	for i := 0; i < end; i++ {
		row[i] = line[i]
	}
	return row
}

// Package ledger holds the append-only purchase ledger collaborators: the
// spreadsheet row codec, the stores that persist rows, and the readers that
// serve ledger snapshots to the price lookup.
package ledger

import (
	"context"
	"errors"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// ErrReadOnly is returned by stores that can only be read, such as a public
// CSV export.
var ErrReadOnly = errors.New("ledger is read-only")

// ErrMalformedRow indicates a spreadsheet row that is not a purchase record.
var ErrMalformedRow = errors.New("malformed ledger row")

// Reader returns the current ledger snapshot in append order.
type Reader interface {
	Records(ctx context.Context) ([]models.PurchaseRecord, error)
}

// Store is an append-only purchase ledger.
type Store interface {
	Reader
	Append(ctx context.Context, record models.PurchaseRecord) error
}

package csvio

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
)

var outputHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders a snapshot as CSV, one row per client.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSnapshot writes the header and one row per account. Amounts always
// carry four decimal places.
func (w *Writer) WriteSnapshot(_ context.Context, accounts []models.AccountSnapshot) error {
	cw := csv.NewWriter(w.w)
	if err := cw.Write(outputHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Balances.Available.StringFixed(4),
			a.Balances.Held.StringFixed(4),
			a.Balances.Total.StringFixed(4),
			strconv.FormatBool(a.Balances.Locked),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write client %d", a.Client)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush output")
}

var _ interfaces.SnapshotSink = (*Writer)(nil)

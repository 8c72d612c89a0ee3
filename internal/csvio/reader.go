// Package csvio is the delimited-text boundary of the replay: it turns input
// rows into records and writes final balances back out.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// maxAmountExponent bounds the decimal exponent of an amount. Arithmetic on a
// decimal rescales to its exponent, so "1e10000000" would otherwise expand to
// ten million digits.
const maxAmountExponent = 28

const (
	colType = iota
	colClient
	colTx
	colAmount
)

// Reader decodes a headed CSV stream of transaction records.
type Reader struct {
	csv        *csv.Reader
	headerSeen bool
}

// NewReader wraps r. The header row fixes the column count for every row.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 0
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next record, io.EOF at the end of input, or an error
// describing the first malformed row.
func (r *Reader) Next() (models.TransactionRecord, error) {
	if !r.headerSeen {
		header, err := r.csv.Read()
		if err == io.EOF {
			return models.TransactionRecord{}, io.EOF
		}
		if err != nil {
			return models.TransactionRecord{}, errors.Wrap(err, "read header")
		}
		if n := len(header); n < colAmount || n > colAmount+1 {
			return models.TransactionRecord{}, errors.Errorf("header has %d columns, want 3 or 4", n)
		}
		r.headerSeen = true
	}

	row, err := r.csv.Read()
	if err == io.EOF {
		return models.TransactionRecord{}, io.EOF
	}
	if err != nil {
		return models.TransactionRecord{}, errors.Wrap(err, "read record")
	}
	line, _ := r.csv.FieldPos(0)

	rec, err := parseRow(row)
	if err != nil {
		return models.TransactionRecord{}, errors.Wrapf(err, "line %d", line)
	}
	return rec, nil
}

func parseRow(row []string) (models.TransactionRecord, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	client, err := strconv.ParseUint(row[colClient], 10, 16)
	if err != nil {
		return models.TransactionRecord{}, errors.Wrapf(err, "invalid client %q", row[colClient])
	}
	tx, err := strconv.ParseUint(row[colTx], 10, 32)
	if err != nil {
		return models.TransactionRecord{}, errors.Wrapf(err, "invalid tx %q", row[colTx])
	}

	var amount decimal.NullDecimal
	if len(row) > colAmount && row[colAmount] != "" {
		d, err := decimal.NewFromString(row[colAmount])
		if err != nil {
			return models.TransactionRecord{}, errors.Wrapf(err, "invalid amount %q", row[colAmount])
		}
		if exp := d.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
			return models.TransactionRecord{}, errors.Errorf("invalid amount %q: exponent out of range", row[colAmount])
		}
		amount = decimal.NewNullDecimal(d)
	}

	kind := models.ParseKind(row[colType])
	return models.NewRecord(kind, models.ClientID(client), models.TxID(tx), amount), nil
}

var _ interfaces.RecordSource = (*Reader)(nil)

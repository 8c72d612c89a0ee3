package interfaces

import "github.com/sheikh-saqib/toy-payments-ledger/internal/models"

// RecordSource yields records in input order. Next returns io.EOF once the
// stream is exhausted; any other error is fatal for the run.
type RecordSource interface {
	Next() (models.TransactionRecord, error)
}

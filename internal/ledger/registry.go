package ledger

import (
	"cmp"
	"io"
	"iter"
	"slices"

	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"go.uber.org/zap"
)

// Registry owns every client's Ledger for the duration of a run and routes
// records to them in input order.
type Registry struct {
	accounts map[models.ClientID]*Ledger
	logger   *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger discards diagnostics.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		accounts: make(map[models.ClientID]*Ledger),
		logger:   logger,
	}
}

// Process applies rec to its client's ledger, creating the ledger on first
// sight of the client. Records the ledger refuses are absorbed.
func (r *Registry) Process(rec models.TransactionRecord) {
	acct, ok := r.accounts[rec.Client]
	if !ok {
		acct = NewLedger(rec.Client)
		r.accounts[rec.Client] = acct
	}

	if err := acct.Apply(rec); err != nil {
		r.logger.Debug("record ignored",
			zap.Uint16("client", uint16(rec.Client)),
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Stringer("kind", rec.Kind),
			zap.String("reason", err.Error()),
		)
	}
}

// ProcessStream feeds every record from src to Process until src reports
// io.EOF. Any other error from src aborts the stream and is returned as is.
func (r *Registry) ProcessStream(src interfaces.RecordSource) (int, error) {
	n := 0
	for {
		rec, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		r.Process(rec)
		n++
	}
}

// Snapshot yields the balances of every account ever created. Iteration
// order is unspecified.
func (r *Registry) Snapshot() iter.Seq2[models.ClientID, models.AccountBalances] {
	return func(yield func(models.ClientID, models.AccountBalances) bool) {
		for id, acct := range r.accounts {
			if !yield(id, acct.Balances()) {
				return
			}
		}
	}
}

// Account returns the ledger for client, if one exists.
func (r *Registry) Account(client models.ClientID) (*Ledger, bool) {
	acct, ok := r.accounts[client]
	return acct, ok
}

// Len is the number of known clients.
func (r *Registry) Len() int { return len(r.accounts) }

// Collect drains a snapshot into a slice ordered by client id.
func Collect(seq iter.Seq2[models.ClientID, models.AccountBalances]) []models.AccountSnapshot {
	out := make([]models.AccountSnapshot, 0)
	for id, b := range seq {
		out = append(out, models.AccountSnapshot{Client: id, Balances: b})
	}
	slices.SortFunc(out, func(a, b models.AccountSnapshot) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return out
}

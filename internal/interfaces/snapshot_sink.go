package interfaces

import (
	"context"

	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
)

// SnapshotSink receives the final balances once the whole stream is replayed.
type SnapshotSink interface {
	WriteSnapshot(ctx context.Context, accounts []models.AccountSnapshot) error
}

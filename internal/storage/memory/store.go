package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
)

// SnapshotStore keeps every snapshot written to it in memory.
// The CLI never writes to it: it is the sink for tests and for programs that
// embed the replay through app.WithSinks. It is safe for concurrent use.
type SnapshotStore struct {
	mu        sync.Mutex                 // protects snapshots
	snapshots [][]models.AccountSnapshot // one entry per WriteSnapshot call, oldest first
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// WriteSnapshot stores a copy of accounts.
func (m *SnapshotStore) WriteSnapshot(_ context.Context, accounts []models.AccountSnapshot) error {
	m.mu.Lock()         // lock to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when the function returns

	// copy so the caller can reuse its slice
	copied := make([]models.AccountSnapshot, len(accounts))
	copy(copied, accounts)
	m.snapshots = append(m.snapshots, copied)
	return nil
}

// Latest returns the most recent snapshot, or nil if none was written.
func (m *SnapshotStore) Latest() []models.AccountSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.snapshots) == 0 {
		return nil
	}
	last := m.snapshots[len(m.snapshots)-1]
	copied := make([]models.AccountSnapshot, len(last))
	copy(copied, last)
	return copied
}

// Count is the number of snapshots written.
func (m *SnapshotStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

// Compile-time check: ensure SnapshotStore implements SnapshotSink
var _ interfaces.SnapshotSink = (*SnapshotStore)(nil)

package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models/events"
)

// SettlementSink turns a snapshot into one AccountSettled event per client.
type SettlementSink struct {
	publisher interfaces.EventPublisher
	runID     string
	now       func() time.Time
}

func NewSettlementSink(publisher interfaces.EventPublisher, runID string) *SettlementSink {
	return &SettlementSink{publisher: publisher, runID: runID, now: time.Now}
}

func (s *SettlementSink) WriteSnapshot(ctx context.Context, accounts []models.AccountSnapshot) error {
	at := s.now().UTC()
	for _, a := range accounts {
		event := events.AccountSettled{
			RunID:      s.runID,
			Client:     uint16(a.Client),
			Available:  a.Balances.Available,
			Held:       a.Balances.Held,
			Total:      a.Balances.Total,
			Locked:     a.Balances.Locked,
			OccurredAt: at,
		}
		key := strconv.FormatUint(uint64(a.Client), 10)
		if err := s.publisher.Publish(ctx, key, event); err != nil {
			return errors.Wrapf(err, "publish client %d", a.Client)
		}
	}
	return nil
}

var _ interfaces.SnapshotSink = (*SettlementSink)(nil)

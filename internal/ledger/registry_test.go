package ledger

import (
	"errors"
	"io"
	"testing"

	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// sliceSource replays a fixed list of records, then fails with err if set.
type sliceSource struct {
	records []models.TransactionRecord
	err     error
}

func (s *sliceSource) Next() (models.TransactionRecord, error) {
	if len(s.records) == 0 {
		if s.err != nil {
			return models.TransactionRecord{}, s.err
		}
		return models.TransactionRecord{}, io.EOF
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

func TestRegistryCreatesAccountsLazily(t *testing.T) {
	r := NewRegistry(nil)
	assert.Equal(t, 0, r.Len())

	r.Process(models.NewDeposit(1, 1, dec("10")))
	r.Process(models.NewDeposit(2, 2, dec("3")))
	r.Process(models.NewDeposit(1, 3, dec("1")))
	assert.Equal(t, 2, r.Len())

	acct, ok := r.Account(1)
	require.True(t, ok)
	requireBalances(t, acct, "11", "0", "11", false)

	_, ok = r.Account(9)
	assert.False(t, ok)
}

func TestRegistryCreatesAccountForIgnoredRecord(t *testing.T) {
	r := NewRegistry(nil)
	r.Process(models.NewRecord(models.ParseKind("foo"), 5, 1, decimal.NullDecimal{}))

	acct, ok := r.Account(5)
	require.True(t, ok)
	requireBalances(t, acct, "0", "0", "0", false)
}

func TestRegistryKeepsClientsIsolated(t *testing.T) {
	r := NewRegistry(nil)
	r.Process(models.NewDeposit(1, 1, dec("10")))
	r.Process(models.NewDeposit(2, 1, dec("20")))
	// tx 1 of client 2 must not be reachable from client 1's dispute
	r.Process(models.NewDispute(1, 1))
	r.Process(models.NewDispute(1, 1))
	r.Process(models.NewChargeback(1, 1))

	one, _ := r.Account(1)
	two, _ := r.Account(2)
	requireBalances(t, one, "0", "0", "0", true)
	requireBalances(t, two, "20", "0", "20", false)
}

func TestRegistryLogsIgnoredRecords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(zap.New(core))

	r.Process(models.NewDeposit(1, 1, dec("10")))
	r.Process(models.NewResolve(1, 1))

	entries := logs.FilterMessage("record ignored").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["client"])
	assert.EqualValues(t, 1, fields["tx"])
	assert.Equal(t, "resolve", fields["kind"])
	assert.Equal(t, ErrNotDisputed.Error(), fields["reason"])
}

func TestProcessStream(t *testing.T) {
	r := NewRegistry(nil)
	n, err := r.ProcessStream(&sliceSource{records: []models.TransactionRecord{
		models.NewDeposit(1, 1, dec("10.0")),
		models.NewDispute(1, 1),
		models.NewResolve(1, 1),
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	acct, _ := r.Account(1)
	requireBalances(t, acct, "10", "0", "10", false)
}

func TestProcessStreamStopsOnSourceError(t *testing.T) {
	boom := errors.New("bad row")
	r := NewRegistry(nil)
	n, err := r.ProcessStream(&sliceSource{
		records: []models.TransactionRecord{models.NewDeposit(1, 1, dec("1"))},
		err:     boom,
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}

func TestSnapshotCoversEveryAccount(t *testing.T) {
	r := NewRegistry(nil)
	r.Process(models.NewDeposit(3, 1, dec("3")))
	r.Process(models.NewDeposit(1, 2, dec("1")))
	r.Process(models.NewWithdrawal(2, 3, dec("2")))

	seen := map[models.ClientID]models.AccountBalances{}
	for id, b := range r.Snapshot() {
		seen[id] = b
	}
	require.Len(t, seen, 3)
	assert.Equal(t, "-2", seen[2].Available.String())

	sorted := Collect(r.Snapshot())
	require.Len(t, sorted, 3)
	assert.Equal(t, []models.ClientID{1, 2, 3},
		[]models.ClientID{sorted[0].Client, sorted[1].Client, sorted[2].Client})
}

func TestSnapshotStopsEarly(t *testing.T) {
	r := NewRegistry(nil)
	for c := models.ClientID(1); c <= 5; c++ {
		r.Process(models.NewDeposit(c, 1, dec("1")))
	}
	count := 0
	for range r.Snapshot() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestCollectEmpty(t *testing.T) {
	assert.Empty(t, Collect(NewRegistry(nil).Snapshot()))
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
)

// SnapshotStore exports final balances into a Postgres table. Each run is
// written in one database transaction and tagged with the run id, so
// exports of different runs never overwrite each other.
type SnapshotStore struct {
	db    *sql.DB
	table string
	runID string
}

func NewSnapshotStore(db *sql.DB, table, runID string) *SnapshotStore {
	return &SnapshotStore{
		db:    db,
		table: table,
		runID: runID,
	}
}

// Open connects with the lib/pq driver and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

// EnsureTable creates the export table if it does not exist.
func (p *SnapshotStore) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id    text    NOT NULL,
	client    integer NOT NULL,
	available numeric(20,4) NOT NULL,
	held      numeric(20,4) NOT NULL,
	total     numeric(20,4) NOT NULL,
	locked    boolean NOT NULL,
	PRIMARY KEY (run_id, client)
)`, pq.QuoteIdentifier(p.table))

	_, err := p.db.ExecContext(ctx, query)
	return errors.Wrap(err, "create balances table")
}

func (p *SnapshotStore) saveAccount(ctx context.Context, dbTx *sql.Tx, a models.AccountSnapshot) error {
	query := fmt.Sprintf(`INSERT INTO %s (run_id, client, available, held, total, locked)
	VALUES ($1,$2,$3,$4,$5,$6)`, pq.QuoteIdentifier(p.table))

	_, err := dbTx.ExecContext(ctx, query,
		p.runID,
		int(a.Client),
		a.Balances.Available.StringFixed(4),
		a.Balances.Held.StringFixed(4),
		a.Balances.Total.StringFixed(4),
		a.Balances.Locked,
	)
	return err
}

// WriteSnapshot inserts every account or none of them.
func (p *SnapshotStore) WriteSnapshot(ctx context.Context, accounts []models.AccountSnapshot) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin export")
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, a := range accounts {
		if err = p.saveAccount(ctx, dbTx, a); err != nil {
			return errors.Wrapf(err, "export client %d", a.Client)
		}
	}
	if err = dbTx.Commit(); err != nil {
		return errors.Wrap(err, "commit export")
	}
	return nil
}

var _ interfaces.SnapshotSink = (*SnapshotStore)(nil)

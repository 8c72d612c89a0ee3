// Package app drives one replay run: read the input, feed the registry,
// then hand the final balances to every sink.
package app

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/config"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/csvio"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/toy-payments-ledger/internal/interfaces"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/ledger"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/storage/postgres"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	logger *zap.Logger
	stdout io.Writer
	runID  string
	sinks  []interfaces.SnapshotSink
}

func New(cfg config.Config, logger *zap.Logger, stdout io.Writer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	return &App{
		cfg:    cfg,
		logger: logger.With(zap.String("run_id", runID)),
		stdout: stdout,
		runID:  runID,
	}
}

// RunID identifies this run in logs and exported data.
func (a *App) RunID() string { return a.runID }

// WithSinks adds sinks that receive the snapshot after the CSV output.
func (a *App) WithSinks(sinks ...interfaces.SnapshotSink) *App {
	a.sinks = append(a.sinks, sinks...)
	return a
}

// Run replays the file at inputPath. Nothing is written anywhere unless the
// whole file was read without error.
func (a *App) Run(ctx context.Context, inputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	return a.Replay(ctx, f)
}

// Replay is Run over an already opened input.
func (a *App) Replay(ctx context.Context, input io.Reader) error {
	registry := ledger.NewRegistry(a.logger)

	n, err := registry.ProcessStream(csvio.NewReader(bufio.NewReader(input)))
	if err != nil {
		return errors.Wrapf(err, "after %d records", n)
	}
	accounts := ledger.Collect(registry.Snapshot())
	a.logger.Info("replay finished",
		zap.Int("records", n),
		zap.Int("clients", len(accounts)),
	)

	external, closeAll, err := a.openConfiguredSinks(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	sinks := []interfaces.SnapshotSink{csvio.NewWriter(a.stdout)}
	sinks = append(sinks, a.sinks...)
	sinks = append(sinks, external...)
	for _, s := range sinks {
		if err := s.WriteSnapshot(ctx, accounts); err != nil {
			return err
		}
	}
	return nil
}

// openConfiguredSinks connects the exports enabled in the config. They are
// opened before any output is produced so a bad DSN leaves stdout empty.
func (a *App) openConfiguredSinks(ctx context.Context) ([]interfaces.SnapshotSink, func(), error) {
	var (
		sinks   []interfaces.SnapshotSink
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				a.logger.Warn("close sink", zap.Error(err))
			}
		}
	}

	if a.cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, db.Close)

		store := postgres.NewSnapshotStore(db, a.cfg.PostgresTable, a.runID)
		if err := store.EnsureTable(ctx); err != nil {
			closeAll()
			return nil, func() {}, err
		}
		sinks = append(sinks, store)
		a.logger.Info("postgres export enabled", zap.String("table", a.cfg.PostgresTable))
	}

	if len(a.cfg.KafkaBrokers) > 0 {
		pub := kafka.NewPublisher(a.cfg.KafkaBrokers, a.cfg.KafkaTopic)
		closers = append(closers, pub.Close)
		sinks = append(sinks, kafka.NewSettlementSink(pub, a.runID))
		a.logger.Info("event publishing enabled",
			zap.Strings("brokers", a.cfg.KafkaBrokers),
			zap.String("topic", a.cfg.KafkaTopic),
		)
	}

	return sinks, closeAll, nil
}

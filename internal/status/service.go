package status

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dagnet/noded/internal/core/domain"
	"github.com/dagnet/noded/internal/infra/discovery"
	"github.com/dagnet/noded/internal/infra/storage"
	"github.com/dagnet/noded/internal/status/metrics"
)

// DB is the narrow database surface the status service needs.
// *sql.DB satisfies it.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Config holds the node settings the checks depend on.
type Config struct {
	// Version is the build identifier reported in the status body.
	Version string

	// Standalone marks a single-node deployment.
	Standalone bool

	// Bootstrap lists the configured bootstrap addresses (host:port).
	Bootstrap []string

	// Validator is this node's validator identity; empty for a pure
	// observer.
	Validator domain.ValidatorID
}

// Service evaluates the five node health checks and aggregates them
// into a Status. It holds no mutable state; every call reads the
// collaborators' current view.
type Service struct {
	cfg  Config
	db   DB
	disc discovery.Service
	dag  storage.DagReader
	log  *slog.Logger
}

// NewService creates a status service over the given collaborators.
func NewService(
	cfg Config,
	db DB,
	disc discovery.Service,
	dag storage.DagReader,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:  cfg,
		db:   db,
		disc: disc,
		dag:  dag,
		log:  log,
	}
}

// Status runs all five checks and aggregates the results. The checks
// are independent read-only probes, so everything after the database
// check runs concurrently. A database failure aborts the computation;
// every other collaborator failure degrades to ok=false in the body.
func (s *Service) Status(ctx context.Context) (Status, error) {
	log := s.log.With("run_id", uuid.NewString())

	dbCheck, err := timedFatal(ctx, "database", s.checkDatabase)
	if err != nil {
		metrics.DatabaseCheckFailures.Inc()
		return Status{}, err
	}

	var (
		wg        sync.WaitGroup
		peers     SimpleCheck
		bootstrap SimpleCheck
		received  LastBlockCheck
		created   LastBlockCheck
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		peers = timed(ctx, log, "peers", s.checkPeers)
	}()
	go func() {
		defer wg.Done()
		bootstrap = timed(ctx, log, "bootstrap", s.checkBootstrap)
	}()
	go func() {
		defer wg.Done()
		received = timed(ctx, log, "last_received_block", s.checkLastReceived)
	}()
	go func() {
		defer wg.Done()
		created = timed(ctx, log, "last_created_block", s.checkLastCreated)
	}()
	wg.Wait()

	checklist := Checklist{
		Database:          dbCheck,
		Peers:             peers,
		Bootstrap:         bootstrap,
		LastReceivedBlock: received,
		LastCreatedBlock:  created,
	}

	return Status{
		Version:   s.cfg.Version,
		Ok:        checklist.Ok(),
		Checklist: checklist,
	}, nil
}

func timed[C any](
	ctx context.Context,
	log *slog.Logger,
	name string,
	check func(context.Context, *slog.Logger) C,
) C {
	start := time.Now()
	result := check(ctx, log)
	metrics.CheckDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return result
}

func timedFatal(
	ctx context.Context,
	name string,
	check func(context.Context) (SimpleCheck, error),
) (SimpleCheck, error) {
	start := time.Now()
	result, err := check(ctx)
	metrics.CheckDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return result, err
}

// Package control wires configuration, storage, discovery and the
// status service together and manages their lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/dagnet/noded/internal/core/config"
	"github.com/dagnet/noded/internal/core/domain"
	"github.com/dagnet/noded/internal/core/version"
	"github.com/dagnet/noded/internal/infra/discovery"
	"github.com/dagnet/noded/internal/infra/storage/postgres"
	"github.com/dagnet/noded/internal/status"
)

// Config holds the application configuration.
type Config struct {
	Port          int
	Node          config.NodeConfig
	Redis         discovery.Config
	Database      postgres.Config
	MigrationsDir string // defaults to "migrations"
}

// Node is the application struct managing the status service lifecycle.
type Node struct {
	cfg    Config
	db     *postgres.DB
	disc   *discovery.Redis
	server *status.Server
	log    *slog.Logger
}

// NewNode creates a Node with all dependencies initialized.
func NewNode(cfg Config) (*Node, error) {
	log := slog.Default()

	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	// Run migrations
	migrationsDir := cfg.MigrationsDir
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	disc, err := discovery.NewRedis(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to init discovery: %w", err)
	}

	svc := status.NewService(
		status.Config{
			Version:    version.String(),
			Standalone: cfg.Node.Standalone,
			Bootstrap:  cfg.Node.Bootstrap,
			Validator:  domain.ValidatorID(cfg.Node.ValidatorPublicKey),
		},
		db.DB,
		disc,
		postgres.NewDagRepo(db),
		log,
	)

	return &Node{
		cfg:    cfg,
		db:     db,
		disc:   disc,
		server: status.NewServer(svc, cfg.Port, log),
		log:    log,
	}, nil
}

// Start launches the HTTP server.
func (n *Node) Start(ctx context.Context) error {
	go func() {
		n.log.Info("Status server listening", "port", n.cfg.Port)
		if err := n.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.log.Error("Status server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down and releases connections.
func (n *Node) Stop(ctx context.Context) error {
	var firstErr error

	if err := n.server.Stop(ctx); err != nil {
		firstErr = fmt.Errorf("failed to stop server: %w", err)
	}
	if err := n.disc.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close discovery: %w", err)
	}
	if err := n.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close db: %w", err)
	}
	return firstErr
}

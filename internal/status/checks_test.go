package status

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dagnet/noded/internal/core/domain"
	"github.com/dagnet/noded/internal/infra/discovery"
	"github.com/dagnet/noded/internal/infra/storage/memory"
)

// =============================================================================
// Stubs
// =============================================================================

type stubDB struct {
	err error
}

func (s stubDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, s.err
}

type failingDiscovery struct{}

func (failingDiscovery) AlivePeers(ctx context.Context) ([]domain.Peer, error) {
	return nil, errors.New("discovery unavailable")
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(cfg Config, db DB, disc discovery.Service, dag *memory.DagStore) *Service {
	if dag == nil {
		dag = memory.NewDagStore()
	}
	return NewService(cfg, db, disc, dag, discardLog())
}

func seedDag(msgs ...domain.Message) *memory.DagStore {
	dag := memory.NewDagStore()
	var tips domain.TipSet
	for _, m := range msgs {
		dag.AddMessage(m)
		tips = append(tips, m.Hash)
	}
	dag.SetTips(tips)
	return dag
}

// =============================================================================
// Checklist aggregation
// =============================================================================

func TestChecklist_OkIsConjunction(t *testing.T) {
	all := Checklist{
		Database:          SimpleCheck{Ok: true},
		Peers:             SimpleCheck{Ok: true},
		Bootstrap:         SimpleCheck{Ok: true},
		LastReceivedBlock: LastBlockCheck{Ok: true},
		LastCreatedBlock:  LastBlockCheck{Ok: true},
	}
	if !all.Ok() {
		t.Error("Expected checklist with all checks passing to be ok")
	}

	flip := []func(c *Checklist){
		func(c *Checklist) { c.Database.Ok = false },
		func(c *Checklist) { c.Peers.Ok = false },
		func(c *Checklist) { c.Bootstrap.Ok = false },
		func(c *Checklist) { c.LastReceivedBlock.Ok = false },
		func(c *Checklist) { c.LastCreatedBlock.Ok = false },
	}
	for i, f := range flip {
		c := all
		f(&c)
		if c.Ok() {
			t.Errorf("Expected checklist to fail when check %d fails", i)
		}
	}
}

// =============================================================================
// Database check
// =============================================================================

func TestCheckDatabase_RoundTrip(t *testing.T) {
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), nil)

	check, err := svc.checkDatabase(context.Background())
	if err != nil {
		t.Fatalf("checkDatabase failed: %v", err)
	}
	if !check.Ok {
		t.Error("Expected ok=true")
	}
	if check.Message != nil {
		t.Errorf("Expected no message, got %q", *check.Message)
	}
}

func TestCheckDatabase_FailureIsFatal(t *testing.T) {
	svc := newTestService(Config{}, stubDB{err: errors.New("connection refused")}, discovery.NewMemory(), nil)

	if _, err := svc.checkDatabase(context.Background()); err == nil {
		t.Error("Expected database failure to surface as an error")
	}
}

// =============================================================================
// Peers check
// =============================================================================

func TestCheckPeers_WithPeers(t *testing.T) {
	disc := discovery.NewMemory(
		domain.Peer{ChainID: "aa", Host: "node1", Port: 40400},
		domain.Peer{ChainID: "aa", Host: "node2", Port: 40400},
	)
	svc := newTestService(Config{}, stubDB{}, disc, nil)

	check := svc.checkPeers(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true with alive peers")
	}
	if check.Message == nil || *check.Message != "2 recently alive peers." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

func TestCheckPeers_NoPeers(t *testing.T) {
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkPeers(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false with no peers")
	}
	if check.Message == nil || *check.Message != "0 recently alive peers." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

func TestCheckPeers_StandaloneNeverPenalized(t *testing.T) {
	svc := newTestService(Config{Standalone: true}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkPeers(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true in standalone mode with no peers")
	}
}

func TestCheckPeers_DiscoveryFailureDegrades(t *testing.T) {
	svc := newTestService(Config{}, stubDB{}, failingDiscovery{}, nil)

	check := svc.checkPeers(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false when discovery fails")
	}
	if check.Message == nil || *check.Message != "0 recently alive peers." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

// =============================================================================
// Bootstrap check
// =============================================================================

func bootstrapDag(genesis domain.Hash) *memory.DagStore {
	dag := memory.NewDagStore()
	dag.SetGenesis(genesis)
	return dag
}

func TestCheckBootstrap_NoneConfigured(t *testing.T) {
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkBootstrap(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true with no bootstrap nodes configured")
	}
	if check.Message == nil || *check.Message != "Connected to 0 of the bootstrap nodes." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

func TestCheckBootstrap_Intersection(t *testing.T) {
	genesis := domain.Hash{0xde, 0xad}
	disc := discovery.NewMemory(
		domain.Peer{ChainID: "dead", Host: "boot1", Port: 40400},
		domain.Peer{ChainID: "dead", Host: "other", Port: 40400},
	)
	cfg := Config{Bootstrap: []string{"boot1:40400", "boot2:40400"}}
	svc := newTestService(cfg, stubDB{}, disc, bootstrapDag(genesis))

	check := svc.checkBootstrap(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true with one bootstrap node alive")
	}
	if check.Message == nil || *check.Message != "Connected to 1 of the bootstrap nodes." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

func TestCheckBootstrap_NoIntersection(t *testing.T) {
	genesis := domain.Hash{0xde, 0xad}
	disc := discovery.NewMemory(
		domain.Peer{ChainID: "dead", Host: "stranger", Port: 40400},
	)
	cfg := Config{Bootstrap: []string{"boot1:40400"}}
	svc := newTestService(cfg, stubDB{}, disc, bootstrapDag(genesis))

	check := svc.checkBootstrap(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false when no bootstrap node is alive")
	}
	if check.Message == nil || *check.Message != "Connected to 0 of the bootstrap nodes." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

func TestCheckBootstrap_ChainMismatch(t *testing.T) {
	// The peer is at a configured bootstrap address but belongs to a
	// different chain, so it must not count.
	genesis := domain.Hash{0xde, 0xad}
	disc := discovery.NewMemory(
		domain.Peer{ChainID: "beef", Host: "boot1", Port: 40400},
	)
	cfg := Config{Bootstrap: []string{"boot1:40400"}}
	svc := newTestService(cfg, stubDB{}, disc, bootstrapDag(genesis))

	check := svc.checkBootstrap(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false for a bootstrap peer on another chain")
	}
}

func TestTaggedBootstrap(t *testing.T) {
	peer, err := taggedBootstrap("boot1.dagnet.io:40400", "dead")
	if err != nil {
		t.Fatalf("taggedBootstrap failed: %v", err)
	}
	if peer.Key() != "dead@boot1.dagnet.io:40400" {
		t.Errorf("Unexpected key: %s", peer.Key())
	}

	if _, err := taggedBootstrap("no-port", "dead"); err == nil {
		t.Error("Expected error for address without port")
	}
}

// =============================================================================
// Last-received-block check
// =============================================================================

func TestCheckLastReceived_PicksMaxTimestamp(t *testing.T) {
	dag := seedDag(
		domain.Message{Validator: "v1", Hash: domain.Hash{0x01}, Timestamp: 5, JRank: 10},
		domain.Message{Validator: "v2", Hash: domain.Hash{0x02}, Timestamp: 9, JRank: 12},
		domain.Message{Validator: "v3", Hash: domain.Hash{0x03}, Timestamp: 3, JRank: 8},
	)
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), dag)

	check := svc.checkLastReceived(context.Background(), discardLog())
	if !check.Ok {
		t.Fatal("Expected ok=true with known messages")
	}
	if check.Message != nil {
		t.Errorf("Expected no message, got %q", *check.Message)
	}
	if check.Timestamp == nil || *check.Timestamp != 9 {
		t.Errorf("Expected timestamp 9, got %v", check.Timestamp)
	}
	if check.BlockHash == nil || *check.BlockHash != "02" {
		t.Errorf("Expected blockHash 02, got %v", check.BlockHash)
	}
	if check.JRank == nil || *check.JRank != 12 {
		t.Errorf("Expected jRank 12, got %v", check.JRank)
	}
}

func TestCheckLastReceived_ExcludesSelfAuthored(t *testing.T) {
	dag := seedDag(
		domain.Message{Validator: "self", Hash: domain.Hash{0x01}, Timestamp: 100, JRank: 20},
	)
	svc := newTestService(Config{Validator: "self"}, stubDB{}, discovery.NewMemory(), dag)

	check := svc.checkLastReceived(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false when the only messages are self-authored")
	}
	if check.Message == nil || *check.Message != "Haven't received any blocks yet." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
	if check.BlockHash != nil || check.Timestamp != nil || check.JRank != nil {
		t.Error("Expected empty block fields")
	}
}

func TestCheckLastReceived_TimestampTies(t *testing.T) {
	// Among tied timestamps only the max value is guaranteed, not the
	// winner.
	dag := seedDag(
		domain.Message{Validator: "v1", Hash: domain.Hash{0x01}, Timestamp: 9, JRank: 10},
		domain.Message{Validator: "v2", Hash: domain.Hash{0x02}, Timestamp: 9, JRank: 11},
	)
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), dag)

	check := svc.checkLastReceived(context.Background(), discardLog())
	if !check.Ok {
		t.Fatal("Expected ok=true")
	}
	if check.Timestamp == nil || *check.Timestamp != 9 {
		t.Errorf("Expected timestamp 9, got %v", check.Timestamp)
	}
}

func TestCheckLastReceived_EmptyDag(t *testing.T) {
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkLastReceived(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false with no messages")
	}
}

func TestCheckLastReceived_EmptyDagStandalone(t *testing.T) {
	svc := newTestService(Config{Standalone: true}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkLastReceived(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true in standalone mode with no messages")
	}
	if check.Message == nil || *check.Message != "Haven't received any blocks yet." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

// =============================================================================
// Last-created-block check
// =============================================================================

func TestCheckLastCreated_NoIdentity(t *testing.T) {
	dag := seedDag(
		domain.Message{Validator: "v1", Hash: domain.Hash{0x01}, Timestamp: 50, JRank: 5},
	)
	svc := newTestService(Config{}, stubDB{}, discovery.NewMemory(), dag)

	check := svc.checkLastCreated(context.Background(), discardLog())
	if !check.Ok {
		t.Error("Expected ok=true without a validator identity")
	}
	if check.Message != nil || check.BlockHash != nil || check.Timestamp != nil || check.JRank != nil {
		t.Error("Expected all optional fields absent")
	}
}

func TestCheckLastCreated_WithMessage(t *testing.T) {
	dag := seedDag(
		domain.Message{Validator: "self", Hash: domain.Hash{0xab, 0xcd}, Timestamp: 7, JRank: 3},
	)
	svc := newTestService(Config{Validator: "self"}, stubDB{}, discovery.NewMemory(), dag)

	check := svc.checkLastCreated(context.Background(), discardLog())
	if !check.Ok {
		t.Fatal("Expected ok=true with a created message")
	}
	if check.Timestamp == nil || *check.Timestamp != 7 {
		t.Errorf("Expected timestamp 7, got %v", check.Timestamp)
	}
	if check.BlockHash == nil || *check.BlockHash != "abcd" {
		t.Errorf("Expected blockHash abcd, got %v", check.BlockHash)
	}
	if check.JRank == nil || *check.JRank != 3 {
		t.Errorf("Expected jRank 3, got %v", check.JRank)
	}
}

func TestCheckLastCreated_NoneYet(t *testing.T) {
	svc := newTestService(Config{Validator: "self"}, stubDB{}, discovery.NewMemory(), nil)

	check := svc.checkLastCreated(context.Background(), discardLog())
	if check.Ok {
		t.Error("Expected ok=false with a validator identity and no messages")
	}
	if check.Message == nil || *check.Message != "Haven't created any blocks yet." {
		t.Errorf("Unexpected message: %v", check.Message)
	}
}

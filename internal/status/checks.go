package status

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/dagnet/noded/internal/core/domain"
)

// checkDatabase runs a minimal round trip against the node database.
// Unlike every other check, a failure here is fatal to the whole status
// computation: the caller gets an error, not an ok=false check.
func (s *Service) checkDatabase(ctx context.Context) (SimpleCheck, error) {
	if _, err := s.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return SimpleCheck{}, fmt.Errorf("database round trip failed: %w", err)
	}
	return SimpleCheck{Ok: true}, nil
}

// checkPeers verifies the node is connected to at least one alive peer.
// A standalone node is never penalized for having none.
func (s *Service) checkPeers(ctx context.Context, log *slog.Logger) SimpleCheck {
	peers := s.alivePeers(ctx, log)
	msg := fmt.Sprintf("%d recently alive peers.", len(peers))
	return SimpleCheck{
		Ok:      s.cfg.Standalone || len(peers) > 0,
		Message: &msg,
	}
}

// checkBootstrap verifies at least one configured bootstrap node is
// among the alive peers. Configured addresses are tagged with the
// genesis hash so peers from a different chain never count.
func (s *Service) checkBootstrap(ctx context.Context, log *slog.Logger) SimpleCheck {
	chainID := ""
	genesis, err := s.dag.Genesis(ctx)
	if err != nil {
		log.Warn("Failed to read genesis hash", "error", err)
	} else {
		chainID = genesis.Hex()
	}

	configured := make(map[string]struct{}, len(s.cfg.Bootstrap))
	for _, addr := range s.cfg.Bootstrap {
		peer, err := taggedBootstrap(addr, chainID)
		if err != nil {
			log.Warn("Skipping malformed bootstrap address", "address", addr, "error", err)
			continue
		}
		configured[peer.Key()] = struct{}{}
	}

	connected := 0
	for _, peer := range s.alivePeers(ctx, log) {
		if _, ok := configured[peer.Key()]; ok {
			connected++
		}
	}

	msg := fmt.Sprintf("Connected to %d of the bootstrap nodes.", connected)
	return SimpleCheck{
		Ok:      len(s.cfg.Bootstrap) == 0 || connected > 0,
		Message: &msg,
	}
}

// checkLastReceived reports the newest message received from other
// validators. Self-authored messages are excluded so the check
// reflects inbound traffic, not block production.
func (s *Service) checkLastReceived(ctx context.Context, log *slog.Logger) LastBlockCheck {
	tips := s.tips(ctx, log)

	latest, err := s.dag.LatestMessages(ctx, tips)
	if err != nil {
		log.Warn("Failed to read latest messages", "error", err)
		latest = nil
	}

	var newest *domain.Message
	for _, msg := range latest {
		if s.cfg.Validator != "" && msg.Validator == s.cfg.Validator {
			continue
		}
		if newest == nil || msg.Timestamp >= newest.Timestamp {
			m := msg
			newest = &m
		}
	}

	if newest == nil {
		msg := "Haven't received any blocks yet."
		return LastBlockCheck{Ok: s.cfg.Standalone, Message: &msg}
	}
	return lastBlockOf(*newest)
}

// checkLastCreated reports this validator's newest message. A node
// without a validator identity passes vacuously.
func (s *Service) checkLastCreated(ctx context.Context, log *slog.Logger) LastBlockCheck {
	if s.cfg.Validator == "" {
		return LastBlockCheck{Ok: true}
	}

	tips := s.tips(ctx, log)

	created, err := s.dag.LatestMessage(ctx, tips, s.cfg.Validator)
	if err != nil {
		log.Warn("Failed to read latest created message", "error", err)
		created = nil
	}

	if created == nil {
		msg := "Haven't created any blocks yet."
		return LastBlockCheck{Ok: false, Message: &msg}
	}
	return lastBlockOf(*created)
}

// alivePeers fetches the discovery view, degrading to an empty list on
// failure so checks other than the database never abort the request.
func (s *Service) alivePeers(ctx context.Context, log *slog.Logger) []domain.Peer {
	peers, err := s.disc.AlivePeers(ctx)
	if err != nil {
		log.Warn("Failed to list alive peers", "error", err)
		return nil
	}
	return peers
}

// tips fetches the current global tip set, degrading to empty on
// failure.
func (s *Service) tips(ctx context.Context, log *slog.Logger) domain.TipSet {
	tips, err := s.dag.Tips(ctx)
	if err != nil {
		log.Warn("Failed to read tips", "error", err)
		return nil
	}
	return tips
}

func lastBlockOf(msg domain.Message) LastBlockCheck {
	hash := msg.Hash.Hex()
	ts := msg.Timestamp
	rank := msg.JRank
	return LastBlockCheck{
		Ok:        true,
		BlockHash: &hash,
		Timestamp: &ts,
		JRank:     &rank,
	}
}

// taggedBootstrap parses a configured "host:port" address and tags it
// with the chain identifier.
func taggedBootstrap(addr, chainID string) (domain.Peer, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return domain.Peer{}, fmt.Errorf("invalid bootstrap address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return domain.Peer{}, fmt.Errorf("invalid bootstrap port %q: %w", portStr, err)
	}
	return domain.Peer{ChainID: chainID, Host: host, Port: port}, nil
}

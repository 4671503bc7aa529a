package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dagnet/noded/internal/core/domain"
)

// alivePeersKey is a sorted set of peer members scored by network
// distance. The discovery layer refreshes it as peers come and go.
const alivePeersKey = "discovery:alive_peers"

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Redis reads alive peers from the discovery layer's Redis state.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a new Redis-backed discovery reader.
func NewRedis(cfg Config) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

// AlivePeers returns the alive peers ordered by ascending distance
// score.
func (r *Redis) AlivePeers(ctx context.Context) ([]domain.Peer, error) {
	members, err := r.rdb.ZRangeWithScores(ctx, alivePeersKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	peers := make([]domain.Peer, 0, len(members))
	for _, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			continue
		}
		peer, err := parsePeer(raw)
		if err != nil {
			// Malformed registry entries are skipped, not fatal.
			continue
		}
		peers = append(peers, peer)
	}
	return peers, nil
}

// parsePeer decodes a registry member of the form
// "<chainID>@<host>:<port>".
func parsePeer(member string) (domain.Peer, error) {
	chainID, addr, found := strings.Cut(member, "@")
	if !found {
		return domain.Peer{}, fmt.Errorf("invalid peer member %q", member)
	}

	host, portStr, found := strings.Cut(addr, ":")
	if !found || host == "" {
		return domain.Peer{}, fmt.Errorf("invalid peer address %q", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return domain.Peer{}, fmt.Errorf("invalid peer port %q: %w", portStr, err)
	}

	return domain.Peer{ChainID: chainID, Host: host, Port: port}, nil
}

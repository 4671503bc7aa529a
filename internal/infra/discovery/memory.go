package discovery

import (
	"context"
	"sync"

	"github.com/dagnet/noded/internal/core/domain"
)

// Memory is an in-memory discovery view for tests and local runs.
// Peers are returned in insertion order, which stands in for ascending
// network distance.
type Memory struct {
	peers []domain.Peer
	mu    sync.RWMutex
}

func NewMemory(peers ...domain.Peer) *Memory {
	return &Memory{peers: peers}
}

// SetPeers replaces the alive-peer view.
func (m *Memory) SetPeers(peers []domain.Peer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peers = peers
}

func (m *Memory) AlivePeers(ctx context.Context) ([]domain.Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Peer, len(m.peers))
	copy(out, m.peers)
	return out, nil
}

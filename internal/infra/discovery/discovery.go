// Package discovery reads the alive-peer view maintained by the node's
// networking layer. It does not implement the discovery protocol
// itself; it only observes its current result.
package discovery

import (
	"context"

	"github.com/dagnet/noded/internal/core/domain"
)

// Service lists the currently-alive peers sorted by ascending network
// distance.
type Service interface {
	AlivePeers(ctx context.Context) ([]domain.Peer, error)
}

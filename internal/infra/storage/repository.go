// Package storage defines read interfaces over the node's local view of
// the message DAG. The consensus engine maintains the underlying state;
// this package only observes it.
package storage

import (
	"context"

	"github.com/dagnet/noded/internal/core/domain"
)

// DagReader exposes read-only lookups against the message DAG.
type DagReader interface {
	// Genesis returns the hash of the genesis block, or nil when the
	// chain has not been initialized yet.
	Genesis(ctx context.Context) (domain.Hash, error)

	// Tips returns the current global tip set.
	Tips(ctx context.Context) (domain.TipSet, error)

	// LatestMessages returns the latest known message per validator in
	// the view identified by the given tips.
	LatestMessages(ctx context.Context, tips domain.TipSet) (map[domain.ValidatorID]domain.Message, error)

	// LatestMessage returns the latest known message authored by the
	// given validator in the view identified by the given tips, or nil
	// when the validator has not produced any message.
	LatestMessage(ctx context.Context, tips domain.TipSet, validator domain.ValidatorID) (*domain.Message, error)
}

package domain

import "fmt"

// Peer is a node address as seen by the discovery service. ChainID ties
// the peer to a specific network (the genesis block hash in hex), so
// that addresses from different chains never compare equal.
type Peer struct {
	ChainID string
	Host    string
	Port    int
}

// Key returns the canonical identity of the peer used for set
// membership comparisons.
func (p Peer) Key() string {
	return fmt.Sprintf("%s@%s:%d", p.ChainID, p.Host, p.Port)
}

package domain

import "encoding/hex"

// ValidatorID identifies a block producer by its hex-encoded public key.
type ValidatorID string

// Hash is a raw block/message hash.
type Hash []byte

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h)
}

// HashFromHex decodes a hex-encoded hash string.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Hash(b), nil
}

// TipSet is the current set of most-recent known message hashes in the
// local view of the message DAG.
type TipSet []Hash

// Message represents a block message in the DAG as seen by this node.
type Message struct {
	Validator ValidatorID
	Hash      Hash
	Timestamp int64
	JRank     int64
}

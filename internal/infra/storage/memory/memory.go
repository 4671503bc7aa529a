package memory

import (
	"context"
	"sync"

	"github.com/dagnet/noded/internal/core/domain"
)

// DagStore is an in-memory DagReader used by tests and local runs. The
// caller seeds it with messages and marks the tip set explicitly.
type DagStore struct {
	messages []domain.Message
	tips     domain.TipSet
	genesis  domain.Hash
	mu       sync.RWMutex
}

func NewDagStore() *DagStore {
	return &DagStore{}
}

// SetGenesis records the genesis block hash.
func (s *DagStore) SetGenesis(hash domain.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genesis = hash
}

// AddMessage appends a message to the local view.
func (s *DagStore) AddMessage(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// SetTips replaces the current global tip set.
func (s *DagStore) SetTips(tips domain.TipSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tips = tips
}

func (s *DagStore) Genesis(ctx context.Context) (domain.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genesis, nil
}

func (s *DagStore) Tips(ctx context.Context) (domain.TipSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tips, nil
}

func (s *DagStore) LatestMessages(
	ctx context.Context,
	tips domain.TipSet,
) (map[domain.ValidatorID]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[domain.ValidatorID]domain.Message)
	if len(tips) == 0 {
		return latest, nil
	}
	for _, msg := range s.messages {
		cur, ok := latest[msg.Validator]
		if !ok || msg.JRank > cur.JRank || (msg.JRank == cur.JRank && msg.Timestamp >= cur.Timestamp) {
			latest[msg.Validator] = msg
		}
	}
	return latest, nil
}

func (s *DagStore) LatestMessage(
	ctx context.Context,
	tips domain.TipSet,
	validator domain.ValidatorID,
) (*domain.Message, error) {
	all, err := s.LatestMessages(ctx, tips)
	if err != nil {
		return nil, err
	}
	msg, ok := all[validator]
	if !ok {
		return nil, nil
	}
	return &msg, nil
}

package memory

import (
	"context"
	"testing"

	"github.com/dagnet/noded/internal/core/domain"
)

func TestDagStore_LatestMessagesPerValidator(t *testing.T) {
	store := NewDagStore()
	store.AddMessage(domain.Message{Validator: "v1", Hash: domain.Hash{0x01}, Timestamp: 5, JRank: 1})
	store.AddMessage(domain.Message{Validator: "v1", Hash: domain.Hash{0x02}, Timestamp: 8, JRank: 2})
	store.AddMessage(domain.Message{Validator: "v2", Hash: domain.Hash{0x03}, Timestamp: 6, JRank: 1})
	store.SetTips(domain.TipSet{{0x02}, {0x03}})

	latest, err := store.LatestMessages(context.Background(), domain.TipSet{{0x02}, {0x03}})
	if err != nil {
		t.Fatalf("LatestMessages failed: %v", err)
	}

	if len(latest) != 2 {
		t.Fatalf("Expected 2 validators, got %d", len(latest))
	}
	if latest["v1"].JRank != 2 {
		t.Errorf("Expected v1 latest jRank 2, got %d", latest["v1"].JRank)
	}
}

func TestDagStore_EmptyTipsMeansEmptyView(t *testing.T) {
	store := NewDagStore()
	store.AddMessage(domain.Message{Validator: "v1", Hash: domain.Hash{0x01}, Timestamp: 5, JRank: 1})

	latest, err := store.LatestMessages(context.Background(), nil)
	if err != nil {
		t.Fatalf("LatestMessages failed: %v", err)
	}
	if len(latest) != 0 {
		t.Errorf("Expected empty view without tips, got %d entries", len(latest))
	}

	msg, err := store.LatestMessage(context.Background(), nil, "v1")
	if err != nil {
		t.Fatalf("LatestMessage failed: %v", err)
	}
	if msg != nil {
		t.Errorf("Expected nil message without tips, got %+v", msg)
	}
}

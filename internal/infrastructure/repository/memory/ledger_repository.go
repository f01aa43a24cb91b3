package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
)

type LedgerRepository struct {
	mu      sync.RWMutex
	entries map[string]ledger.Entry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{entries: make(map[string]ledger.Entry)}
}

func ledgerKey(matchID, userID string) string {
	return matchID + "|" + userID
}

func (r *LedgerRepository) Append(_ context.Context, entry ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerKey(entry.MatchID, entry.UserID)
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: match=%s user=%s", ledger.ErrDuplicateEntry, entry.MatchID, entry.UserID)
	}
	r.entries[key] = entry
	return nil
}

func (r *LedgerRepository) Get(_ context.Context, matchID, userID string) (ledger.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.entries[ledgerKey(matchID, userID)]
	return item, found, nil
}

func (r *LedgerRepository) ListByUser(_ context.Context, userID string) ([]ledger.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ledger.Entry, 0)
	for _, item := range r.entries {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.Before(out[j].PlayedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *LedgerRepository) ListUserIDsByMatch(_ context.Context, matchID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for _, item := range r.entries {
		if item.MatchID == matchID {
			out[item.UserID] = struct{}{}
		}
	}
	return out, nil
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/userservice/user-service/internal/core/domain"
)

const ledgerKey = "cascade:failures"

// CascadeLedger keeps unresolved wallet cascade failures in a Redis hash.
// Field format: <user_id>:<action>; a newer failure for the same pair
// overwrites the older one.
type CascadeLedger struct {
	client *redis.Client
}

// NewCascadeLedger creates a CascadeLedger wrapping the given Redis client.
func NewCascadeLedger(client *redis.Client) *CascadeLedger {
	return &CascadeLedger{client: client}
}

// Record stores f until a later successful propagation resolves it.
func (l *CascadeLedger) Record(ctx context.Context, f domain.CascadeFailure) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("ledger encode: %w", err)
	}
	if err := l.client.HSet(ctx, ledgerKey, l.field(f.UserID, f.Action), payload).Err(); err != nil {
		return fmt.Errorf("ledger record: %w", err)
	}
	return nil
}

// Resolve drops the entry for (userID, action), if any.
func (l *CascadeLedger) Resolve(ctx context.Context, userID int64, action domain.CascadeAction) error {
	if err := l.client.HDel(ctx, ledgerKey, l.field(userID, action)).Err(); err != nil {
		return fmt.Errorf("ledger resolve: %w", err)
	}
	return nil
}

// List returns every unresolved failure, oldest first.
func (l *CascadeLedger) List(ctx context.Context) ([]domain.CascadeFailure, error) {
	entries, err := l.client.HGetAll(ctx, ledgerKey).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger list: %w", err)
	}

	out := make([]domain.CascadeFailure, 0, len(entries))
	for field, raw := range entries {
		var f domain.CascadeFailure
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("ledger decode %s: %w", field, err)
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (l *CascadeLedger) field(userID int64, action domain.CascadeAction) string {
	return fmt.Sprintf("%d:%s", userID, action)
}

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/userservice/user-service/internal/core/domain"
)

func TestLedgerField(t *testing.T) {
	l := NewCascadeLedger(nil)
	if got := l.field(42, domain.CascadeBlacklist); got != "42:blacklist" {
		t.Fatalf("field = %q", got)
	}
}

// TestLedger_RoundTrip runs against a real Redis when REDIS_TEST_ADDR is set.
func TestLedger_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		client.Del(ctx, ledgerKey)
		_ = client.Close()
	})
	client.Del(ctx, ledgerKey)

	l := NewCascadeLedger(client)
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	for _, f := range []domain.CascadeFailure{
		{UserID: 2, Action: domain.CascadeDelete, Reason: "timeout", OccurredAt: newer},
		{UserID: 1, Action: domain.CascadeBlacklist, Reason: "503", OccurredAt: older},
	} {
		if err := l.Record(ctx, f); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := l.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].UserID != 1 || got[1].UserID != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}

	if err := l.Resolve(ctx, 1, domain.CascadeBlacklist); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, _ = l.List(ctx)
	if len(got) != 1 || got[0].UserID != 2 {
		t.Fatalf("unexpected entries after resolve: %+v", got)
	}
}

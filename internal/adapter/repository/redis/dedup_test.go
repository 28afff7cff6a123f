package redis

import (
	"context"
	"testing"
	"time"
)

func TestDedupStore_ClaimWinsOnce(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewDedupStore(client)
	ctx := context.Background()

	won, err := store.Claim(ctx, "loan-1:2024-06-10T00:00:00Z:borrower_reminder", time.Hour)
	if err != nil || !won {
		t.Fatalf("expected first claim to win, got won=%v err=%v", won, err)
	}

	won, err = store.Claim(ctx, "loan-1:2024-06-10T00:00:00Z:borrower_reminder", time.Hour)
	if err != nil || won {
		t.Fatalf("expected second claim to lose, got won=%v err=%v", won, err)
	}
}

func TestDedupStore_DistinctKeysAreIndependent(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewDedupStore(client)
	ctx := context.Background()

	for _, key := range []string{
		"loan-1:2024-06-10T00:00:00Z:borrower_reminder",
		"loan-1:2024-06-10T00:00:00Z:owner_due_notice",
		"loan-1:2024-07-10T00:00:00Z:borrower_reminder",
		"loan-2:2024-06-10T00:00:00Z:borrower_reminder",
	} {
		won, err := store.Claim(ctx, key, time.Hour)
		if err != nil || !won {
			t.Fatalf("expected claim on %s to win, got won=%v err=%v", key, won, err)
		}
	}
}

func TestDedupStore_ReleaseAllowsReclaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewDedupStore(client)
	ctx := context.Background()

	if _, err := store.Claim(ctx, "key", time.Hour); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if err := store.Release(ctx, "key"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	won, err := store.Claim(ctx, "key", time.Hour)
	if err != nil || !won {
		t.Fatalf("expected reclaim after release to win, got won=%v err=%v", won, err)
	}
}

func TestDedupStore_ClaimExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewDedupStore(client)
	ctx := context.Background()

	if _, err := store.Claim(ctx, "key", time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	won, err := store.Claim(ctx, "key", time.Minute)
	if err != nil || !won {
		t.Fatalf("expected claim after expiry to win, got won=%v err=%v", won, err)
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:")
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	want := payload{Name: "algebra", Count: 3}
	if err := helper.Set(ctx, "quiz:1", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "quiz:1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper := newTestHelper(t)

	var got payload
	err := helper.Get(context.Background(), "missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "k", payload{Name: "x"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected miss after delete, got %v", err)
	}
}

func TestCacheHelper_NilClientDegrades(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", payload{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}
	var got payload
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return payload{Name: "fetched", Count: calls}, nil
	}

	var got payload
	if err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	if calls != 1 || got.Name != "fetched" {
		t.Fatalf("first call: calls=%d got=%+v", calls, got)
	}

	// The backfill runs off the request path; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ok, _ := helper.Exists(ctx, "k"); ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	var cached payload
	if err := helper.CacheOrExecute(ctx, "k", &cached, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
	if cached != got {
		t.Errorf("cached %+v, want %+v", cached, got)
	}
}

func TestCacheHelper_CacheOrExecuteFetchError(t *testing.T) {
	helper := newTestHelper(t)

	wantErr := errors.New("boom")
	var got payload
	err := helper.CacheOrExecute(context.Background(), "k", &got, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected fetch error to pass through, got %v", err)
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type payload struct {
		Score   int      `json:"score"`
		Reasons []string `json:"reasons"`
	}

	in := payload{Score: 50, Reasons: []string{"1 shared interest"}}
	if err := helper.Set(ctx, "pair:s1:m1", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	if err := helper.Get(ctx, "pair:s1:m1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Score != in.Score || len(out.Reasons) != 1 {
		t.Errorf("roundtrip mismatch: %+v", out)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var out map[string]any
	err := helper.Get(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"student:s1:rank", "student:s1:shortlist", "student:s2:rank"} {
		if err := helper.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "student:s1:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var out string
	if err := helper.Get(ctx, "student:s1:rank", &out); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected s1 keys gone, got %v", err)
	}
	if err := helper.Get(ctx, "student:s2:rank", &out); err != nil {
		t.Errorf("expected s2 key kept, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}
	var out string
	if err := helper.Get(ctx, "k", &out); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return 42, nil
	}

	var out int
	if err := helper.CacheOrExecute(ctx, "answer", &out, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if out != 42 || calls != 1 {
		t.Errorf("first call: out=%d calls=%d", out, calls)
	}
}

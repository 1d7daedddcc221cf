package report

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/times/internal/models"
)

func TestContextCacheRoundTrip(t *testing.T) {
	now := time.Now()
	cache := NewContextCache(time.Hour)
	owner := models.Owner{TeamID: "T1", UserID: "U1"}

	created := cache.Create(owner, now)
	if created.Token == "" {
		t.Fatal("expected a token")
	}

	got, err := cache.Get(created.Token, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Owner != owner {
		t.Errorf("owner = %+v, want %+v", got.Owner, owner)
	}
}

func TestContextCacheUnknownToken(t *testing.T) {
	cache := NewContextCache(time.Hour)
	if _, err := cache.Get("nope", time.Now()); !errors.Is(err, ErrContextNotFound) {
		t.Errorf("err = %v, want ErrContextNotFound", err)
	}
}

func TestContextCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := NewContextCache(time.Hour)
	created := cache.Create(models.Owner{TeamID: "T1", UserID: "U1"}, now)

	if _, err := cache.Get(created.Token, now.Add(2*time.Hour)); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("err = %v, want ErrContextNotFound", err)
	}
	// The expired entry is gone, not just hidden.
	if cache.Len() != 0 {
		t.Errorf("cache len = %d, want 0", cache.Len())
	}
}

func TestContextCacheSweep(t *testing.T) {
	now := time.Now()
	cache := NewContextCache(time.Hour)
	owner := models.Owner{TeamID: "T1", UserID: "U1"}
	cache.Create(owner, now.Add(-2*time.Hour))
	cache.Create(owner, now.Add(-90*time.Minute))
	keep := cache.Create(owner, now)

	if removed := cache.Sweep(now); removed != 2 {
		t.Errorf("swept %d, want 2", removed)
	}
	if _, err := cache.Get(keep.Token, now); err != nil {
		t.Errorf("live entry lost: %v", err)
	}
}

func TestContextCacheDefaultTTL(t *testing.T) {
	cache := NewContextCache(0)
	now := time.Now()
	created := cache.Create(models.Owner{TeamID: "T1", UserID: "U1"}, now)
	if got := created.ExpiresAt.Sub(created.CreatedAt); got != DefaultContextTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultContextTTL)
	}
}

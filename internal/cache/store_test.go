package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"bom-dashboard/internal/components/chrono"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestTTL(t *testing.T) {
	table := []struct {
		name    string
		ttl     time.Duration
		elapsed time.Duration
		present bool
	}{
		{name: "before expiry", ttl: time.Minute, elapsed: time.Minute - time.Millisecond, present: true},
		{name: "at expiry", ttl: time.Minute, elapsed: time.Minute, present: false},
		{name: "after expiry", ttl: time.Minute, elapsed: time.Hour, present: false},
		{name: "never expires", ttl: 0, elapsed: 24 * 365 * time.Hour, present: true},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			clock := chrono.NewFake(epoch)
			store := New[string](clock)

			require.Equal(t, "value", store.Set("key", "value", test.ttl))
			clock.Advance(test.elapsed)

			value, ok := store.Get("key")
			require.Equal(t, test.present, ok)
			if test.present {
				require.Equal(t, "value", value)
				require.Equal(t, 1, store.Len())
				return
			}
			// expired entries are purged on read
			require.Equal(t, 0, store.Len())
		})
	}
}

func TestHasAndRemove(t *testing.T) {
	store := New[int](chrono.NewFake(epoch))
	require.False(t, store.Has("a"))

	store.Set("a", 1, 0)
	require.True(t, store.Has("a"))

	store.Remove("a")
	require.False(t, store.Has("a"))
}

func TestClearPrefix(t *testing.T) {
	store := New[int](chrono.NewFake(epoch))
	store.Set("https://data.chnm.org/bom/bills?limit=100", 1, 0)
	store.Set("https://data.chnm.org/bom/bills?limit=25", 2, 0)
	store.Set("https://data.chnm.org/bom/parishes", 3, 0)

	require.Equal(t, 2, store.Clear("https://data.chnm.org/bom/bills"))
	require.False(t, store.Has("https://data.chnm.org/bom/bills?limit=100"))
	require.True(t, store.Has("https://data.chnm.org/bom/parishes"))

	require.Equal(t, 1, store.Clear(""))
	require.Equal(t, 0, store.Len())
}

func TestStats(t *testing.T) {
	clock := chrono.NewFake(epoch)
	store := New[int](clock)
	store.Set("short", 1, time.Second)
	store.Set("long", 2, time.Hour)
	store.Set("forever", 3, 0)

	clock.Advance(time.Minute)
	require.Equal(t, Stats{Total: 3, Expired: 1, Active: 2}, store.Stats())
	require.Len(t, store.Entries(), 2)
}

func TestMemoize(t *testing.T) {
	store := New[string](chrono.NewFake(epoch))
	calls := 0
	failNext := true

	lookup := Memoize(
		store,
		func(ctx context.Context, parish string) (string, error) {
			calls++
			if failNext {
				failNext = false
				return "", errors.New("temporary failure")
			}
			return "canonical " + parish, nil
		},
		func(parish string) string { return "parish:" + parish },
		0,
	)

	_, err := lookup(context.Background(), "st olave")
	require.Error(t, err)
	require.False(t, store.Has("parish:st olave"))

	for i := 0; i < 3; i++ {
		value, err := lookup(context.Background(), "st olave")
		require.NoError(t, err)
		require.Equal(t, "canonical st olave", value)
	}
	require.Equal(t, 2, calls)
}

func TestRestoreSkipsExpired(t *testing.T) {
	clock := chrono.NewFake(epoch)
	store := New[int](clock)

	require.False(t, store.Restore("old", Entry[int]{Value: 1, ExpiresAt: epoch.Add(-time.Second)}))
	require.True(t, store.Restore("new", Entry[int]{Value: 2, ExpiresAt: epoch.Add(time.Second)}))
	require.True(t, store.Restore("forever", Entry[int]{Value: 3}))
	require.Equal(t, 2, store.Len())
}

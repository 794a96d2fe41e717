package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paymentKey mirrors how the reconciliation service namespaces a client key
func paymentKey(raw string) string {
	return "payment:" + raw
}

func TestInMemoryIdempotencyStore_PaymentKeyLifecycle(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()
	key := paymentKey("7f3c-retry")

	// step is one call a payment request makes against the store
	type step struct {
		name    string
		do      func() (bool, error)
		want    bool
		heldNow bool
	}
	claim := func() (bool, error) { return store.MarkProcessed(ctx, key, time.Hour) }
	release := func() (bool, error) { return true, store.Release(ctx, key) }

	steps := []step{
		{name: "first request claims", do: claim, want: true, heldNow: true},
		{name: "retry while held is a duplicate", do: claim, want: false, heldNow: true},
		{name: "rolled back payment releases", do: release, want: true, heldNow: false},
		{name: "retry after release claims again", do: claim, want: true, heldNow: true},
		{name: "replay after success is a duplicate", do: claim, want: false, heldNow: true},
	}
	for _, s := range steps {
		got, err := s.do()
		require.NoError(t, err, s.name)
		assert.Equal(t, s.want, got, s.name)

		held, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, s.heldNow, held, s.name)
	}
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_KeysAreScopedByPrefix(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.MarkProcessed(ctx, paymentKey("abc"), time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	for _, other := range []string{"abc", "refund:abc", paymentKey("abcd"), paymentKey("ABC")} {
		ok, err := store.MarkProcessed(ctx, other, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "%q must not collide with the payment key", other)
	}

	// releasing a neighbour leaves the payment claim in place
	require.NoError(t, store.Release(ctx, "refund:abc"))
	held, err := store.IsProcessed(ctx, paymentKey("abc"))
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, 4, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentRetriesOfOnePayment(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const clients = 64
	var wins, dupes atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := store.MarkProcessed(ctx, paymentKey("double-click"), time.Hour)
			if err != nil {
				return
			}
			if ok {
				wins.Add(1)
			} else {
				dupes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(clients-1), dupes.Load())
}

func TestInMemoryIdempotencyStore_ConcurrentDistinctPayments(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const payments = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range payments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, paymentKey(fmt.Sprintf("fee-%d", i)), time.Hour)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(payments), wins.Load())
	assert.Equal(t, payments, store.Size())
}

func TestInMemoryIdempotencyStore_ExpiredClaim(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, paymentKey("stale"), 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, paymentKey("fresh"), time.Hour)
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	held, err := store.IsProcessed(ctx, paymentKey("stale"))
	require.NoError(t, err)
	assert.False(t, held)

	store.cleanup()
	assert.Equal(t, 1, store.Size(), "sweep drops only the expired claim")

	ok, err := store.MarkProcessed(ctx, paymentKey("stale"), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "a payment retried after the TTL is accepted again")
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	key := paymentKey("failed")

	ok, err := store.MarkProcessed(ctx, key, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, key))

	ok, err = store.MarkProcessed(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "released key should be claimable again")

	assert.NoError(t, store.Release(ctx, paymentKey("never-claimed")))
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

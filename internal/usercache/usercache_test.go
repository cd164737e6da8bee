package usercache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	fail  map[uint]bool
	delay time.Duration
}

func (f *countingFetcher) GetUserProfile(ctx context.Context, userID uint) (api.UserRecord, error) {
	f.mu.Lock()
	f.calls++
	fail := f.fail[userID]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if fail {
		return api.UserRecord{}, errors.New("user service unavailable")
	}
	return api.UserRecord{ID: userID, Name: fmt.Sprintf("user-%d", userID)}, nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestResolveCachesRecord(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, quietLogger())

	cache.Resolve(context.Background(), 7)

	record, ok := cache.Get(7)
	require.True(t, ok)
	assert.Equal(t, uint(7), record.ID)
	assert.Equal(t, "user-7", record.Name)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestResolveIsIdempotent(t *testing.T) {
	fetcher := &countingFetcher{delay: 10 * time.Millisecond}
	cache := New(fetcher, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Resolve(context.Background(), 42)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount(), "concurrent resolves must share one fetch")
	assert.Equal(t, 1, cache.Len())
}

func TestResolveAlreadyCachedHasNoSideEffect(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, quietLogger())

	cache.Resolve(context.Background(), 3)
	cache.Resolve(context.Background(), 3)
	cache.Resolve(context.Background(), 3)

	assert.Equal(t, 1, fetcher.callCount())
}

func TestResolveFailureLeavesUnresolved(t *testing.T) {
	fetcher := &countingFetcher{fail: map[uint]bool{9: true}}
	cache := New(fetcher, quietLogger())

	cache.Resolve(context.Background(), 9)

	_, ok := cache.Get(9)
	assert.False(t, ok, "failed fetch must leave the ID unresolved")
	assert.Equal(t, 0, cache.Len())

	// A later resolve retries.
	fetcher.mu.Lock()
	fetcher.fail[9] = false
	fetcher.mu.Unlock()
	cache.Resolve(context.Background(), 9)
	_, ok = cache.Get(9)
	assert.True(t, ok)
}

func TestPutUpdatesInPlace(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, quietLogger())

	cache.Resolve(context.Background(), 5)
	cache.Put(api.UserRecord{ID: 5, Name: "renamed", Theme: "midnight-blue"})

	record, ok := cache.Get(5)
	require.True(t, ok)
	assert.Equal(t, "renamed", record.Name)
	assert.Equal(t, "midnight-blue", record.Theme)
	assert.Equal(t, 1, fetcher.callCount(), "Put must not trigger a fetch")
}

func TestResolveAllSkipsCached(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, quietLogger())

	cache.ResolveAll(context.Background(), []uint{1, 2, 1, 3, 2})

	assert.Equal(t, 3, fetcher.callCount())
	assert.Equal(t, 3, cache.Len())
}

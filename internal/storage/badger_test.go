package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerGetSetRemove(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	_, found, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("color", `"dark"`))

	value, found, err := store.Get("color")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, value)

	require.NoError(t, store.Remove("color"))

	_, found, err = store.Get("color")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Remove("never-set"))
}

func TestBadgerPersists(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Set("color", `"light"`))
	require.NoError(t, store.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get("color")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"light"`, value)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestBadgerSubscribe(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notified := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Subscribe(ctx, "color", func() {
			notified <- struct{}{}
		})
	}()

	// Subscribe registers asynchronously; keep writing until it is observed.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	received := false
	for !received {
		select {
		case <-ticker.C:
			require.NoError(t, store.Set("other", "x"))
			require.NoError(t, store.Set("color", `"dark"`))
		case <-notified:
			received = true
		case <-deadline:
			t.Fatal("timed out waiting for subscription notification")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}

func TestBadgerSharedDirectory(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig(dir)
	cfg.PollInterval = 20 * time.Millisecond

	first, err := Open(cfg)
	require.NoError(t, err)
	defer first.Close()

	second, err := Open(cfg)
	require.NoError(t, err, "a second handle on the same directory must open")
	defer second.Close()

	require.NoError(t, first.Set("color", `"dark"`))
	value, found, err := second.Get("color")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, value)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notified := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- second.Subscribe(ctx, "color", func() {
			notified <- struct{}{}
		})
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	flip := []string{`"light"`, `"dark"`}
	received := false
	for i := 0; !received; i++ {
		select {
		case <-ticker.C:
			require.NoError(t, first.Set("color", flip[i%2]))
		case <-notified:
			received = true
		case <-deadline:
			t.Fatal("write from one handle was not observed by the other")
		}
	}

	require.NoError(t, first.Remove("color"))
	_, found, err = second.Get("color")
	require.NoError(t, err)
	assert.False(t, found)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}

func TestSubscribeIgnoresUnchangedValue(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("color", `"dark"`))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := 0
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ctx.Err() == nil {
			_ = store.Set("color", `"dark"`)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	require.NoError(t, store.Subscribe(ctx, "color", func() { calls++ }))
	<-writerDone
	assert.Zero(t, calls)
}

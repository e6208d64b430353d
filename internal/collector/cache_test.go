package collector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// blockingCapturer returns its next value once release is closed.
type blockingCapturer struct {
	calls   atomic.Int32
	active  atomic.Int32
	peak    atomic.Int32
	started chan struct{}
	release chan struct{}
	values  []string
	err     error
}

func newBlockingCapturer(values ...string) *blockingCapturer {
	return &blockingCapturer{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		values:  values,
	}
}

func (b *blockingCapturer) Capture(ctx context.Context) (string, error) {
	n := b.calls.Add(1)
	cur := b.active.Add(1)
	defer b.active.Add(-1)
	for {
		p := b.peak.Load()
		if cur <= p || b.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	b.started <- struct{}{}
	<-b.release
	if b.err != nil {
		return "", b.err
	}
	return b.values[min(int(n), len(b.values))-1], nil
}

func waitStarted(t *testing.T, b *blockingCapturer) {
	t.Helper()
	select {
	case <-b.started:
	case <-time.After(5 * time.Second):
		t.Fatal("capture never started")
	}
}

func TestSnapshotCacheCoalesces(t *testing.T) {
	capt := newBlockingCapturer("snap")
	cache := NewSnapshotCache(capt, nil)

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Get(context.Background())
		}(i)
	}
	waitStarted(t, capt)
	close(capt.release)
	wg.Wait()

	for i := range results {
		if errs[i] != nil || results[i] != "snap" {
			t.Errorf("caller %d = (%q, %v)", i, results[i], errs[i])
		}
	}
	if n := capt.calls.Load(); n != 1 {
		t.Fatalf("captures = %d, want 1", n)
	}
	if !cache.Valid() || cache.CapturedAt().IsZero() {
		t.Error("snapshot was not stored")
	}
}

func TestSnapshotCacheReusesUntilInvalidated(t *testing.T) {
	var calls int
	cache := NewSnapshotCache(CaptureFunc(func(context.Context) (string, error) {
		calls++
		return "snap", nil
	}), nil)

	for i := 0; i < 3; i++ {
		if _, err := cache.Get(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("captures = %d, want 1", calls)
	}

	cache.Invalidate()
	if cache.Valid() {
		t.Fatal("cache still valid after Invalidate")
	}
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("captures = %d, want 2", calls)
	}
}

func TestSnapshotCacheErrorLeavesCacheEmpty(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	cache := NewSnapshotCache(CaptureFunc(func(context.Context) (string, error) {
		calls++
		return "", boom
	}), nil)

	for i := 0; i < 2; i++ {
		_, err := cache.Get(context.Background())
		var capErr *CaptureError
		if !errors.As(err, &capErr) {
			t.Fatalf("err = %v, want CaptureError", err)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want wrapped boom", err)
		}
	}
	if calls != 2 {
		t.Fatalf("captures = %d, want a retry per Get", calls)
	}
	if cache.Valid() {
		t.Fatal("failed capture was cached")
	}
}

func TestSnapshotCacheInvalidateDuringCapture(t *testing.T) {
	capt := newBlockingCapturer("old", "new")
	cache := NewSnapshotCache(capt, nil)

	done := make(chan string)
	go func() {
		raw, _ := cache.Get(context.Background())
		done <- raw
	}()
	waitStarted(t, capt)
	cache.Invalidate()
	close(capt.release)

	if raw := <-done; raw != "old" {
		t.Fatalf("in-flight waiter got %q, want old", raw)
	}
	if cache.Valid() {
		t.Fatal("capture started before Invalidate was stored")
	}

	raw, err := cache.Get(context.Background())
	if err != nil || raw != "new" {
		t.Fatalf("Get = (%q, %v), want new", raw, err)
	}
	if n := capt.calls.Load(); n != 2 {
		t.Fatalf("captures = %d, want 2", n)
	}
}

func TestSnapshotCacheGetAfterInvalidateWaitsForStaleCapture(t *testing.T) {
	capt := newBlockingCapturer("old", "new")
	cache := NewSnapshotCache(capt, nil)

	first := make(chan string)
	go func() {
		raw, _ := cache.Get(context.Background())
		first <- raw
	}()
	waitStarted(t, capt)
	cache.Invalidate()

	second := make(chan string)
	go func() {
		raw, _ := cache.Get(context.Background())
		second <- raw
	}()

	select {
	case <-capt.started:
		t.Fatal("second capture started while the first was still running")
	case <-time.After(100 * time.Millisecond):
	}
	close(capt.release)

	if raw := <-first; raw != "old" {
		t.Errorf("first waiter got %q, want old", raw)
	}
	if raw := <-second; raw != "new" {
		t.Errorf("waiter after Invalidate got %q, want new", raw)
	}
	if n := capt.calls.Load(); n != 2 {
		t.Errorf("captures = %d, want 2", n)
	}
	if p := capt.peak.Load(); p != 1 {
		t.Fatalf("peak concurrent captures = %d, want 1", p)
	}
	if raw, _ := cache.Get(context.Background()); raw != "new" {
		t.Fatalf("cached = %q, want new", raw)
	}
}

func TestSnapshotCacheCallerCancel(t *testing.T) {
	capt := newBlockingCapturer("snap")
	cache := NewSnapshotCache(capt, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() {
		_, err := cache.Get(ctx)
		errc <- err
	}()
	waitStarted(t, capt)
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(capt.release)
	raw, err := cache.Get(context.Background())
	if err != nil || raw != "snap" {
		t.Fatalf("Get = (%q, %v)", raw, err)
	}
	if n := capt.calls.Load(); n != 1 {
		t.Fatalf("captures = %d, want 1", n)
	}
}

package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("scoreboard", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_TryDoSkipsWhileInFlight(t *testing.T) {
	var g SingleFlight
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = g.TryDo("reconcile", func() (any, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()

	<-started
	if !g.InFlight("reconcile") {
		t.Fatalf("expected key to be in flight")
	}
	if _, err := g.TryDo("reconcile", func() (any, error) {
		t.Fatalf("second call must not run")
		return nil, nil
	}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	<-done

	if g.InFlight("reconcile") {
		t.Fatalf("expected key to be released")
	}
	got, err := g.TryDo("reconcile", func() (any, error) { return 7, nil })
	if err != nil || got.(int) != 7 {
		t.Fatalf("expected fresh call after release, got %v %v", got, err)
	}
}

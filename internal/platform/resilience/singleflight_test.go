package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroupDoDeduplicatesConcurrentCalls(t *testing.T) {
	var g Group[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("season-fetch", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != "ok" {
				t.Errorf("unexpected value %q", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestGroupDoSeparateKeysRunSeparately(t *testing.T) {
	var g Group[int]

	a, err, _ := g.Do("players", func() (int, error) { return 1, nil })
	if err != nil || a != 1 {
		t.Fatalf("players call: got %d, %v", a, err)
	}
	b, err, _ := g.Do("coaches", func() (int, error) { return 2, nil })
	if err != nil || b != 2 {
		t.Fatalf("coaches call: got %d, %v", b, err)
	}
}

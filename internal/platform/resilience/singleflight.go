package resilience

import "sync"

// Group collapses concurrent calls that share a key into one execution.
// The provider client keys it by request URL so a season-wide import
// fan-out issues each fixture query once; the token cache keys it by
// token hash so a burst of requests introspects once.
type Group[V any] struct {
	mu       sync.Mutex
	inflight map[string]*flight[V]
}

type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Do runs fn once per key at a time. Late arrivals block until the first
// caller finishes and receive its result with shared=true.
func (g *Group[V]) Do(key string, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight[V])
	}

	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight[V]{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	close(f.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return f.val, f.err, false
}

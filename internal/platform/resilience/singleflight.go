package resilience

import (
	"errors"
	"sync"
)

// ErrInFlight is returned by TryDo when a call for the key is already running.
var ErrInFlight = errors.New("call already in flight")

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. Callers arriving while it runs wait and share the result.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	c, leader := g.join(key)
	if !leader {
		<-c.done
		return c.val, c.err, true
	}
	g.run(key, c, fn)
	return c.val, c.err, false
}

// TryDo runs fn only when no call for key is in flight. Otherwise it returns ErrInFlight immediately.
func (g *SingleFlight) TryDo(key string, fn func() (any, error)) (any, error) {
	c, leader := g.join(key)
	if !leader {
		return nil, ErrInFlight
	}
	g.run(key, c, fn)
	return c.val, c.err
}

// InFlight reports whether a call for key is running.
func (g *SingleFlight) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}

func (g *SingleFlight) join(key string) (*call, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		return c, false
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	return c, true
}

func (g *SingleFlight) run(key string, c *call, fn func() (any, error)) {
	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = fn()
}

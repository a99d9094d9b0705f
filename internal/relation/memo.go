package relation

import (
	"context"
	"sync"
)

type memoKey struct{}

type pair struct{ my, their uint }

// memo holds the outcomes resolved while serving one page load.
type memo struct {
	mu  sync.Mutex
	out map[pair]Outcome
}

// WithMemo returns a context under which every Resolver reuses outcomes
// already computed for the same pair. Scope it to a single read-only
// pass, such as loading a page; writes made under it are not seen.
func WithMemo(ctx context.Context) context.Context {
	if memoFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, memoKey{}, &memo{out: make(map[pair]Outcome)})
}

func memoFrom(ctx context.Context) *memo {
	m, _ := ctx.Value(memoKey{}).(*memo)
	return m
}

func (m *memo) get(my, their uint) (Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, ok := m.out[pair{my, their}]
	return out, ok
}

// put skips degraded outcomes so a failed reverse probe is retried.
func (m *memo) put(my, their uint, out Outcome) {
	if out.ReverseErr != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out[pair{my, their}] = out
}

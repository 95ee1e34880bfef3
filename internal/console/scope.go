// Package console holds the view controllers behind the console screens.
// Each controller owns a cancellable scope: Close aborts every fetch it
// started, and results arriving after Close are discarded.
package console

import (
	"context"
	"sync"
)

type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newScope(parent context.Context) scope {
	ctx, cancel := context.WithCancel(parent)
	return scope{ctx: ctx, cancel: cancel}
}

// bind derives a context that ends when either ctx or the view scope ends.
func (s scope) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s scope) closed() bool { return s.ctx.Err() != nil }

// generation tags fetches so that only the latest one may publish.
type generation struct {
	mu  sync.Mutex
	seq uint64
}

func (g *generation) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq
}

func (g *generation) current(n uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq == n
}

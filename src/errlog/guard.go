package errlog

import (
	"context"
	"sync"
)

// Guard tracks which error instances were already persisted during one
// request, so nested handlers and the top-level interceptor can both ask
// for logging without producing duplicate rows. It replaces the older
// pattern of flagging the error value itself.
type Guard struct {
	mu   sync.Mutex
	seen map[error]struct{}
}

func NewGuard() *Guard {
	return &Guard{seen: map[error]struct{}{}}
}

// FirstAttempt reports whether err has not been logged yet and marks it
// as logged. Identity is instance identity of the error value.
func (g *Guard) FirstAttempt(err error) (first bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Non-comparable error values cannot be map keys; treat each
	// occurrence as a first attempt rather than panicking.
	defer func() {
		if recover() != nil {
			first = true
		}
	}()

	if _, logged := g.seen[err]; logged {
		return false
	}
	g.seen[err] = struct{}{}
	return true
}

type guardKey struct{}

func WithGuard(ctx context.Context) context.Context {
	return context.WithValue(ctx, guardKey{}, NewGuard())
}

func GuardFromContext(ctx context.Context) *Guard {
	guard, ok := ctx.Value(guardKey{}).(*Guard)
	if !ok {
		return nil
	}
	return guard
}

package session

import (
	"context"
	"time"

	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
)

// startRenewalLocked arms the renewal ticker. The goroutine keeps the values of
// ctx, so request scoped logger attributes survive, but not its cancellation.
func (m *Manager) startRenewalLocked(ctx context.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r := &renewal{cancel: cancel, done: make(chan struct{})}
	m.renewal = r

	ticks, stop := m.newTicker(m.renewInterval)
	go m.renew(ctx, ticks, stop, r.done)
}

// stopRenewalLocked cancels the renewal goroutine and returns a channel that is
// closed once it has exited. Callers holding mu must not wait on it.
func (m *Manager) stopRenewalLocked() <-chan struct{} {
	if m.renewal == nil {
		done := make(chan struct{})
		close(done)

		return done
	}

	r := m.renewal
	m.renewal = nil
	r.cancel()

	return r.done
}

func (m *Manager) renew(ctx context.Context, ticks <-chan time.Time, stop func(), done chan<- struct{}) {
	defer close(done)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if ctx.Err() != nil {
				return
			}
			if _, err := m.EnsureFreshToken(ctx); err != nil && ctx.Err() == nil {
				logger.FromCtx(ctx).Error(errors.Wrap(err, "Manager.EnsureFreshToken()"))
			}
		}
	}
}

package session

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cccteam/logger"
	"github.com/cccteam/officesession/identity"
	"github.com/cccteam/officesession/metrics"
	"github.com/cccteam/officesession/tokenstore"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const name = "github.com/cccteam/officesession/session"

// Manager owns the session. It is the only writer of the token store.
//
// Every transition bumps or checks an epoch under mu. Work started in one epoch
// never commits into a later one, so a refresh that completes after a logout is
// discarded.
type Manager struct {
	client         identity.Client
	store          *tokenstore.Store
	metrics        *metrics.Metrics
	renewInterval  time.Duration
	refreshTimeout time.Duration
	newTicker      TickerFunc

	mu      sync.Mutex
	epoch   uint64
	closed  bool
	renewal *renewal
	current atomic.Pointer[Snapshot]
	flights singleflight.Group
	subs    subscribers
}

type renewal struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a logged out Manager.
func New(client identity.Client, store *tokenstore.Store, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, errors.New("identity client is required")
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}

	m := &Manager{
		client:         client,
		store:          store,
		renewInterval:  DefaultRenewInterval,
		refreshTimeout: DefaultRefreshTimeout,
		newTicker:      newTicker,
		subs:           subscribers{chans: make(map[int]chan Snapshot)},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current.Store(loggedOut)

	return m, nil
}

// Snapshot returns the current session without locking.
func (m *Manager) Snapshot() Snapshot {
	return *m.current.Load()
}

// AccessToken returns a copy of the current access token, or nil.
func (m *Manager) AccessToken() *oauth2.Token {
	return m.store.AccessToken()
}

// Login authenticates with the identity service. When remember is set the
// refresh token survives a restart.
func (m *Manager) Login(ctx context.Context, identifier, secret string, remember bool) (Snapshot, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Login()")
	defer span.End()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()

		return Snapshot{}, ErrClosed
	}
	m.epoch++
	epoch := m.epoch
	done := m.stopRenewalLocked()
	// A new login replaces any previous session, whatever its outcome.
	if err := m.store.Clear(ctx); err != nil {
		logger.FromCtx(ctx).Error(errors.Wrap(err, "tokenstore.Store.Clear()"))
	}
	m.publishLocked(&Snapshot{Status: Authenticating, IsLoading: true})
	m.mu.Unlock()
	<-done

	res, err := m.client.Login(ctx, identity.Credentials{Identifier: identifier, Secret: secret, RememberMe: remember})
	if err != nil {
		m.abortLogin(epoch)
		if identity.IsRejected(err) {
			m.metrics.Login(metrics.OutcomeRejected)

			return Snapshot{}, &InvalidCredentialsError{err: err}
		}
		m.metrics.Login(metrics.OutcomeError)

		return Snapshot{}, errors.Wrap(err, "identity.Client.Login()")
	}
	if res.User == nil {
		if res.User, err = m.client.WhoAmI(ctx, res.AccessToken.AccessToken); err != nil {
			m.abortLogin(epoch)
			m.metrics.Login(metrics.OutcomeError)

			return Snapshot{}, errors.Wrap(err, "identity.Client.WhoAmI()")
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		m.abortLogin(epoch)

		return Snapshot{}, errors.Wrap(err, "uuid.NewV4()")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		m.metrics.Login(metrics.OutcomeStale)

		return Snapshot{}, errors.New("login superseded by a concurrent session change")
	}

	m.store.SetAccessToken(res.AccessToken)
	if err := m.store.SetRefreshToken(ctx, res.RefreshToken, remember); err != nil {
		m.clearLocked(ctx)
		m.metrics.Login(metrics.OutcomeError)

		return Snapshot{}, errors.Wrap(err, "tokenstore.Store.SetRefreshToken()")
	}

	snap := &Snapshot{
		ID:          id,
		User:        res.User,
		AccessToken: res.AccessToken,
		Status:      Authenticated,
		Remembered:  m.store.Location() == tokenstore.LocationDurable,
	}
	m.publishLocked(snap)
	m.startRenewalLocked(ctx)
	m.metrics.Login(metrics.OutcomeSuccess)

	logger.FromCtx(ctx).Infof("session %s started for user %s", id, res.User.ID)

	return *snap, nil
}

func (m *Manager) abortLogin(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch == epoch {
		m.publishLocked(loggedOut)
	}
}

// Logout ends the session. Local state is cleared before the identity
// service is notified, and a failed notification is only logged.
func (m *Manager) Logout(ctx context.Context) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Logout()")
	defer span.End()

	m.mu.Lock()
	m.epoch++
	done := m.stopRenewalLocked()
	tok := m.store.AccessToken()
	id := m.current.Load().ID
	m.clearLocked(ctx)
	m.mu.Unlock()
	<-done

	if tok == nil {
		return
	}

	logger.FromCtx(ctx).Infof("session %s logged out", id)

	if err := m.client.Logout(ctx, tok.AccessToken); err != nil {
		logger.FromCtx(ctx).Error(errors.Wrap(err, "identity.Client.Logout()"))
	}
}

// EnsureFreshToken renews the access token. Concurrent callers share one
// refresh and observe the same outcome. A failed refresh ends the session.
//
// ctx only bounds how long this caller waits; cancelling it does not cancel
// the shared refresh.
func (m *Manager) EnsureFreshToken(ctx context.Context) (*oauth2.Token, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.EnsureFreshToken()")
	defer span.End()

	m.mu.Lock()
	epoch := m.epoch
	status := m.current.Load().Status
	closed := m.closed
	m.mu.Unlock()

	switch {
	case closed:
		return nil, &RefreshError{err: ErrClosed}
	case status == LoggedOut, status == Authenticating:
		return nil, &RefreshError{err: ErrNoSession}
	}

	return m.joinRefresh(ctx, epoch)
}

// Restore attempts a silent login from a persisted refresh token. It is a
// no-op unless the session is LoggedOut.
func (m *Manager) Restore(ctx context.Context) (Snapshot, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Restore()")
	defer span.End()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()

		return Snapshot{}, ErrClosed
	}
	if cur := m.current.Load(); cur.Status != LoggedOut {
		m.mu.Unlock()

		return *cur, nil
	}
	m.epoch++
	epoch := m.epoch
	m.publishLocked(&Snapshot{Status: Restoring, IsLoading: true})
	m.mu.Unlock()

	tok, _, err := m.store.RefreshToken(ctx)
	if err != nil || tok == "" {
		if err != nil {
			logger.FromCtx(ctx).Error(errors.Wrap(err, "tokenstore.Store.RefreshToken()"))
		}
		m.abortLogin(epoch)

		return m.Snapshot(), nil
	}

	if _, err := m.joinRefresh(ctx, epoch); err != nil {
		return m.Snapshot(), errors.Wrap(err, "Manager.joinRefresh()")
	}

	return m.Snapshot(), nil
}

// Close stops background renewal and closes every subscription. The session
// is not logged out and a remembered refresh token stays persisted.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()

		return nil
	}
	m.closed = true
	m.epoch++
	done := m.stopRenewalLocked()
	m.mu.Unlock()
	<-done

	m.subs.closeAll()

	if err := m.store.Close(ctx); err != nil {
		return errors.Wrap(err, "tokenstore.Store.Close()")
	}

	return nil
}

func (m *Manager) joinRefresh(ctx context.Context, epoch uint64) (*oauth2.Token, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := m.flights.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		return m.refresh(flightCtx, epoch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, errors.Wrap(res.Err, "Manager.refresh()")
		}
		tok := *res.Val.(*oauth2.Token)

		return &tok, nil
	case <-ctx.Done():
		return nil, errors.Wrap(context.Cause(ctx), "Manager.joinRefresh()")
	}
}

// refresh runs at most once per epoch at a time.
func (m *Manager) refresh(ctx context.Context, epoch uint64) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, m.refreshTimeout, errors.New("session refresh timeout"))
	defer cancel()

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.metrics.Refresh(metrics.OutcomeStale)

		return nil, &RefreshError{err: ErrSessionEnded}
	}
	prev := m.current.Load()
	if prev.Status == Authenticated {
		next := *prev
		next.Status = Refreshing
		m.publishLocked(&next)
	}
	m.mu.Unlock()

	refreshToken, loc, err := m.store.RefreshToken(ctx)
	if err != nil {
		return nil, m.expire(ctx, epoch, errors.Wrap(err, "tokenstore.Store.RefreshToken()"))
	}
	if refreshToken == "" {
		return nil, m.expire(ctx, epoch, ErrNoSession)
	}

	res, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, m.expire(ctx, epoch, errors.Wrap(err, "identity.Client.Refresh()"))
	}

	user, err := m.client.WhoAmI(ctx, res.AccessToken.AccessToken)
	if err != nil {
		return nil, m.expire(ctx, epoch, errors.Wrap(err, "identity.Client.WhoAmI()"))
	}

	id := prev.ID
	if id == uuid.Nil {
		if id, err = uuid.NewV4(); err != nil {
			return nil, m.expire(ctx, epoch, errors.Wrap(err, "uuid.NewV4()"))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		m.metrics.Refresh(metrics.OutcomeStale)

		return nil, &RefreshError{err: ErrSessionEnded}
	}

	remembered := loc == tokenstore.LocationDurable
	m.store.SetAccessToken(res.AccessToken)
	if res.RefreshToken != "" {
		if err := m.store.SetRefreshToken(ctx, res.RefreshToken, remembered); err != nil {
			return nil, m.expireLocked(ctx, epoch, errors.Wrap(err, "tokenstore.Store.SetRefreshToken()"))
		}
	}

	m.publishLocked(&Snapshot{
		ID:          id,
		User:        user,
		AccessToken: res.AccessToken,
		Status:      Authenticated,
		Remembered:  remembered,
	})
	if m.renewal == nil {
		m.startRenewalLocked(ctx)
	}
	m.metrics.Refresh(metrics.OutcomeSuccess)

	if prev.Status == Restoring {
		logger.FromCtx(ctx).Infof("session %s restored for user %s", id, user.ID)
	}

	return res.AccessToken, nil
}

func (m *Manager) expire(ctx context.Context, epoch uint64, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireLocked(ctx, epoch, cause)
}

// expireLocked ends the session for a failed refresh. It does not wait for the
// renewal goroutine, which may itself be waiting on this refresh.
func (m *Manager) expireLocked(ctx context.Context, epoch uint64, cause error) error {
	if m.epoch != epoch {
		m.metrics.Refresh(metrics.OutcomeStale)

		return &RefreshError{err: ErrSessionEnded}
	}

	m.epoch++
	m.stopRenewalLocked()
	m.clearLocked(ctx)
	if identity.IsRejected(cause) {
		m.metrics.Refresh(metrics.OutcomeRejected)
	} else {
		m.metrics.Refresh(metrics.OutcomeError)
	}

	logger.FromCtx(ctx).Error(errors.Wrap(cause, "session expired"))

	return &RefreshError{err: cause}
}

func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		logger.FromCtx(ctx).Error(errors.Wrap(err, "tokenstore.Store.Clear()"))
	}
	m.publishLocked(loggedOut)
}

func (m *Manager) publishLocked(s *Snapshot) {
	m.current.Store(s)
	m.subs.notify(*s)
}

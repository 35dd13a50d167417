// Package officesession ties the session manager, the authenticated request
// executor and the permission resolver into one service owned by the
// application.
package officesession

import (
	"context"
	"sync"

	"github.com/cccteam/logger"
	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/authhttp"
	"github.com/cccteam/officesession/identity"
	"github.com/cccteam/officesession/permissions"
	"github.com/cccteam/officesession/session"
	"github.com/cccteam/officesession/tokenstore"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

const name = "github.com/cccteam/officesession"

// AuthService owns the session of one application instance. Call Init before
// use and Teardown when done.
type AuthService struct {
	sessions    *session.Manager
	executor    *authhttp.Executor
	permissions *permissions.Resolver

	mu          sync.Mutex
	initialized bool
	cancel      context.CancelFunc
	unsubscribe func()
	watching    chan struct{}
}

// New wires an AuthService. apiURL is the base of the application API that
// authenticated requests are sent to.
func New(client identity.Client, store *tokenstore.Store, apiURL string, opts ...Option) (*AuthService, error) {
	var (
		svc      serviceOptions
		sessOpts []session.Option
		execOpts []authhttp.Option
		permOpts []permissions.Option
	)
	for _, opt := range opts {
		switch o := any(opt).(type) {
		case SessionOption:
			sessOpts = append(sessOpts, session.Option(o))
		case ExecutorOption:
			execOpts = append(execOpts, authhttp.Option(o))
		case PermissionOption:
			permOpts = append(permOpts, permissions.Option(o))
		case ServiceOption:
			o(&svc)
		}
	}

	if svc.metrics != nil {
		sessOpts = append(sessOpts, session.WithMetrics(svc.metrics))
		execOpts = append(execOpts, authhttp.WithMetrics(svc.metrics))
		permOpts = append(permOpts, permissions.WithMetrics(svc.metrics))
	}

	sessions, err := session.New(client, store, sessOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "session.New()")
	}

	executor, err := authhttp.New(apiURL, sessions, execOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "authhttp.New()")
	}

	if svc.remotePermissions {
		// Prepended so an explicit WithPermissionSource still wins.
		permOpts = append([]permissions.Option{permissions.WithSource(permissions.NewHTTPSource(executor))}, permOpts...)
	}

	return &AuthService{
		sessions:    sessions,
		executor:    executor,
		permissions: permissions.NewResolver(permOpts...),
	}, nil
}

// Init starts following the session and silently restores a remembered one.
// A failed restore is logged and leaves the service logged out.
func (a *AuthService) Init(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "AuthService.Init()")
	defer span.End()

	a.mu.Lock()
	if a.initialized {
		a.mu.Unlock()

		return errors.New("AuthService already initialized")
	}
	a.initialized = true

	updates, unsubscribe := a.sessions.Subscribe()
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	watching := make(chan struct{})
	go func() {
		defer close(watching)
		a.permissions.Watch(watchCtx, updates)
	}()
	a.cancel, a.unsubscribe, a.watching = cancel, unsubscribe, watching
	a.mu.Unlock()

	snap, err := a.sessions.Restore(ctx)
	if err != nil {
		if errors.Is(err, session.ErrClosed) {
			return errors.Wrap(err, "session.Manager.Restore()")
		}
		logger.FromCtx(ctx).Error(errors.Wrap(err, "session.Manager.Restore()"))

		return nil
	}
	a.permissions.Apply(ctx, snap)

	return nil
}

// Teardown stops background work. A remembered session stays persisted for the
// next Init.
func (a *AuthService) Teardown(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "AuthService.Teardown()")
	defer span.End()

	a.mu.Lock()
	cancel, unsubscribe, watching := a.cancel, a.unsubscribe, a.watching
	a.cancel, a.unsubscribe, a.watching = nil, nil, nil
	a.mu.Unlock()

	if cancel != nil {
		unsubscribe()
		cancel()
		<-watching
	}

	if err := a.sessions.Close(ctx); err != nil {
		return errors.Wrap(err, "session.Manager.Close()")
	}
	a.permissions.Clear()

	return nil
}

// Sessions returns the session manager.
func (a *AuthService) Sessions() *session.Manager {
	return a.sessions
}

// Executor returns the executor for authenticated API requests.
func (a *AuthService) Executor() *authhttp.Executor {
	return a.executor
}

// Permissions returns the permission resolver.
func (a *AuthService) Permissions() *permissions.Resolver {
	return a.permissions
}

// Session returns the current session snapshot.
func (a *AuthService) Session() session.Snapshot {
	return a.sessions.Snapshot()
}

// Login authenticates and resolves the user's permissions before returning.
func (a *AuthService) Login(ctx context.Context, identifier, secret string, remember bool) (session.Snapshot, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "AuthService.Login()")
	defer span.End()

	snap, err := a.sessions.Login(ctx, identifier, secret, remember)
	if err != nil {
		a.permissions.Apply(ctx, a.sessions.Snapshot())

		return snap, errors.Wrap(err, "session.Manager.Login()")
	}
	a.permissions.Apply(ctx, snap)

	return snap, nil
}

// Logout ends the session and drops the cached permissions.
func (a *AuthService) Logout(ctx context.Context) {
	ctx, span := otel.Tracer(name).Start(ctx, "AuthService.Logout()")
	defer span.End()

	a.sessions.Logout(ctx)
	a.permissions.Clear()
}

// HasAccess reports if the signed in user has any capability on m.
func (a *AuthService) HasAccess(m access.Module) bool {
	return a.permissions.HasAccess(m)
}

// CanRead reports if the signed in user may read m.
func (a *AuthService) CanRead(m access.Module) bool {
	return a.permissions.CanRead(m)
}

// CanWrite reports if the signed in user may write m.
func (a *AuthService) CanWrite(m access.Module) bool {
	return a.permissions.CanWrite(m)
}

// CanDelete reports if the signed in user may delete m.
func (a *AuthService) CanDelete(m access.Module) bool {
	return a.permissions.CanDelete(m)
}

// PermissionsLoading reports if the matrix for the signed in user is not yet
// available.
func (a *AuthService) PermissionsLoading() bool {
	if a.permissions.IsLoading() {
		return true
	}

	snap := a.sessions.Snapshot()
	if !snap.Authenticated() {
		return false
	}

	want, ok := snap.Role()
	if !ok {
		want = access.Role(snap.User.Role)
	}
	cur, ok := a.permissions.Role()

	return !ok || cur != want
}

// Package permissions resolves which modules the signed in user may read,
// write or delete.
package permissions

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cccteam/logger"
	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/metrics"
	"github.com/cccteam/officesession/session"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

const name = "github.com/cccteam/officesession/permissions"

// Fallback selects the matrix used when the permissions source fails.
type Fallback int

const (
	// FallbackMinimal grants the minimal permissions. (default)
	FallbackMinimal Fallback = iota
	// FallbackDefaultTable grants the role's built in default permissions.
	FallbackDefaultTable
)

func (f Fallback) String() string {
	if f == FallbackDefaultTable {
		return "default"
	}

	return "minimal"
}

// ParseFallback parses "minimal" or "default".
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "", "minimal":
		return FallbackMinimal, nil
	case "default":
		return FallbackDefaultTable, nil
	default:
		return FallbackMinimal, errors.Newf("unknown permissions fallback %q", s)
	}
}

type resolved struct {
	role   access.Role
	matrix access.Matrix
}

// Resolver caches the matrix of one role at a time. Lookups read a published
// immutable value and never block.
type Resolver struct {
	source   Source
	fallback Fallback
	metrics  *metrics.Metrics

	// mu serializes resolutions.
	mu sync.Mutex

	// commitMu guards generation and the publication of current. Clear bumps
	// the generation so a resolution started before it is never published.
	commitMu   sync.Mutex
	generation uint64
	current    atomic.Pointer[resolved]
	loading    atomic.Int32
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource sets the remote permissions source. Without one the built in
// default table is used.
func WithSource(s Source) Option {
	return Option(func(r *Resolver) {
		r.source = s
	})
}

// WithFallback sets the policy applied when the source fails. (default: FallbackMinimal)
func WithFallback(f Fallback) Option {
	return Option(func(r *Resolver) {
		r.fallback = f
	})
}

// WithMetrics records where each matrix came from.
func WithMetrics(m *metrics.Metrics) Option {
	return Option(func(r *Resolver) {
		r.metrics = m
	})
}

// NewResolver returns an empty Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the matrix for role, from the cache when role is the cached
// role. It never fails: unknown roles and source errors resolve to a fallback.
func (r *Resolver) Resolve(ctx context.Context, role access.Role) access.Matrix {
	ctx, span := otel.Tracer(name).Start(ctx, "Resolver.Resolve()")
	defer span.End()

	return r.resolve(ctx, role, false)
}

// Refresh re-resolves the cached role, bypassing the cache. It returns nil when
// nothing is cached.
func (r *Resolver) Refresh(ctx context.Context) access.Matrix {
	ctx, span := otel.Tracer(name).Start(ctx, "Resolver.Refresh()")
	defer span.End()

	cur := r.current.Load()
	if cur == nil {
		return nil
	}

	return r.resolve(ctx, cur.role, true)
}

func (r *Resolver) resolve(ctx context.Context, role access.Role, force bool) access.Matrix {
	if cur := r.current.Load(); !force && cur != nil && cur.role == role {
		r.metrics.Resolution(metrics.SourceCache)

		return cur.matrix.Clone()
	}

	r.commitMu.Lock()
	generation := r.generation
	r.commitMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur := r.current.Load(); !force && cur != nil && cur.role == role {
		r.metrics.Resolution(metrics.SourceCache)

		return cur.matrix.Clone()
	}

	r.loading.Add(1)
	defer r.loading.Add(-1)

	matrix, source := r.build(ctx, role)
	r.metrics.Resolution(source)

	r.commitMu.Lock()
	if r.generation == generation {
		r.current.Store(&resolved{role: role, matrix: matrix})
	}
	r.commitMu.Unlock()

	return matrix.Clone()
}

func (r *Resolver) build(ctx context.Context, role access.Role) (access.Matrix, string) {
	if !role.Valid() {
		logger.FromCtx(ctx).Infof("unknown role %q, using minimal permissions", role)

		return access.MinimalPermissions(), metrics.SourceUnknown
	}

	if r.source == nil {
		return access.DefaultPermissions(role), metrics.SourceDefault
	}

	res, err := r.source.Fetch(ctx, role)
	if err != nil {
		logger.FromCtx(ctx).Error(errors.Wrapf(err, "Source.Fetch(): using %s permissions for role %s", r.fallback, role))

		if r.fallback == FallbackDefaultTable {
			return access.DefaultPermissions(role), metrics.SourceFallback
		}

		return access.MinimalPermissions(), metrics.SourceFallback
	}

	return res.Matrix(ctx), metrics.SourceRemote
}

// Clear drops the cached matrix. A resolution still in flight is discarded.
func (r *Resolver) Clear() {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	r.generation++
	r.current.Store(nil)
}

// IsLoading reports if a resolution is in flight.
func (r *Resolver) IsLoading() bool {
	return r.loading.Load() > 0
}

// Role returns the role of the cached matrix.
func (r *Resolver) Role() (access.Role, bool) {
	cur := r.current.Load()
	if cur == nil {
		return "", false
	}

	return cur.role, true
}

// Matrix returns a copy of the cached matrix, or nil.
func (r *Resolver) Matrix() access.Matrix {
	cur := r.current.Load()
	if cur == nil {
		return nil
	}

	return cur.matrix.Clone()
}

func (r *Resolver) capability(m access.Module) access.Capability {
	cur := r.current.Load()
	if cur == nil {
		return access.Capability{}
	}

	return cur.matrix.Capability(m)
}

// HasAccess reports if any capability is granted on m.
func (r *Resolver) HasAccess(m access.Module) bool {
	return r.capability(m).Any()
}

// CanRead reports if m may be read.
func (r *Resolver) CanRead(m access.Module) bool {
	return r.capability(m).Read
}

// CanWrite reports if m may be written.
func (r *Resolver) CanWrite(m access.Module) bool {
	return r.capability(m).Write
}

// CanDelete reports if m may be deleted.
func (r *Resolver) CanDelete(m access.Module) bool {
	return r.capability(m).Delete
}

// Apply brings the cache in line with one session snapshot: it resolves when the
// user's role differs from the cached one and clears the cache when the session
// is logged out.
func (r *Resolver) Apply(ctx context.Context, snap session.Snapshot) {
	switch {
	case snap.Status == session.LoggedOut:
		r.Clear()
	case snap.Authenticated():
		role, ok := snap.Role()
		if !ok {
			role = access.Role(snap.User.Role)
		}
		if cur, ok := r.Role(); !ok || cur != role {
			r.Resolve(ctx, role)
		}
	}
}

// Watch applies session snapshots until ctx is done or updates is closed.
func (r *Resolver) Watch(ctx context.Context, updates <-chan session.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			r.Apply(ctx, snap)
		}
	}
}

// Package cli implements the officectl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cccteam/officesession"
	"github.com/cccteam/officesession/identity"
	"github.com/cccteam/officesession/internal/config"
	"github.com/cccteam/officesession/metrics"
	"github.com/cccteam/officesession/tokenstore"
	"github.com/go-playground/errors/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath  string
	showMetrics bool
}

// NewRootCmd returns the officectl command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "officectl",
		Short: "Sign in to the office platform and inspect your access",
		Long: `officectl signs in to the office platform, keeps the session fresh and
reports which modules the signed in user may read, write or delete.

A session started with --remember is restored silently on the next run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is "+config.DefaultPath()+" when present)")
	root.PersistentFlags().BoolVar(&flags.showMetrics, "metrics", false, "print session metrics to stderr when the command ends")

	root.AddCommand(
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newWhoAmICmd(flags),
		newCanCmd(flags),
		newPermissionsCmd(flags),
		newGetCmd(flags),
		newKeyCmd(),
	)

	return root
}

// ExecuteContext runs officectl with os.Args.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// app is the state of one invocation.
type app struct {
	cfg      *config.Config
	service  *officesession.AuthService
	registry *prometheus.Registry
}

func (f *rootFlags) load() (*config.Config, error) {
	path := f.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultPath()); err == nil {
			path = config.DefaultPath()
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "config.Load()")
	}

	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	client, err := identity.NewHTTPClient(cfg.Identity.URL, identity.WithTimeout(cfg.Identity.Timeout))
	if err != nil {
		return nil, errors.Wrap(err, "identity.NewHTTPClient()")
	}

	var durable tokenstore.Persister
	if cfg.Remembering() {
		fp, err := tokenstore.NewFilePersister(cfg.Session.TokenFile, cfg.Session.StorageKey)
		if err != nil {
			return nil, errors.Wrap(err, "tokenstore.NewFilePersister()")
		}
		durable = fp
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return nil, errors.Wrap(err, "metrics.New()")
	}

	opts := []officesession.Option{
		officesession.WithRenewInterval(cfg.Session.RenewInterval),
		officesession.WithRefreshTimeout(cfg.Session.RefreshTimeout),
		officesession.WithRequestTimeout(cfg.API.Timeout),
		officesession.WithPermissionFallback(cfg.Fallback()),
		officesession.WithMetrics(m),
	}
	if cfg.Permissions.Remote {
		opts = append(opts, officesession.WithRemotePermissions())
	}

	service, err := officesession.New(client, tokenstore.New(durable, nil), cfg.API.URL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "officesession.New()")
	}

	return &app{cfg: cfg, service: service, registry: registry}, nil
}

// run loads the configuration, initializes the service, runs fn and tears the
// service down again.
func (f *rootFlags) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()

	cfg, err := f.load()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	if err := a.service.Init(ctx); err != nil {
		return errors.Wrap(err, "AuthService.Init()")
	}
	defer func() {
		if tErr := a.service.Teardown(ctx); tErr != nil && err == nil {
			err = errors.Wrap(tErr, "AuthService.Teardown()")
		}
		if f.showMetrics {
			if mErr := a.writeMetrics(cmd.ErrOrStderr()); mErr != nil && err == nil {
				err = mErr
			}
		}
	}()

	return fn(ctx, a)
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "prometheus.Registry.Gather()")
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "expfmt.MetricFamilyToText()")
		}
	}

	return nil
}

func requireSession(a *app) error {
	if !a.service.Session().Authenticated() {
		return errors.New("not signed in, run officectl login")
	}

	return nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

package cli

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/authhttp"
	"github.com/cccteam/officesession/tokenstore"
	"github.com/go-playground/errors/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCanCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "can <module>",
		Short: "Show what the signed in user may do in a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := access.ParseModule(args[0])
			if !ok {
				return errors.Newf("unknown module %q", args[0])
			}

			return flags.run(cmd, func(_ context.Context, a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}

				printf(cmd, "%s: read=%t write=%t delete=%t\n", m, a.service.CanRead(m), a.service.CanWrite(m), a.service.CanDelete(m))

				return nil
			})
		},
	}
}

func newPermissionsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the signed in user's capabilities in every module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, func(_ context.Context, a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}

				role, _ := a.service.Permissions().Role()
				matrix := a.service.Permissions().Matrix()
				printf(cmd, "Role %s\n", role)

				table := pterm.TableData{{"MODULE", "ACCESS"}}
				for _, m := range access.Modules() {
					table = append(table, []string{string(m), flagsOf(matrix.Capability(m))})
				}
				if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(table).Render(); err != nil {
					return errors.Wrap(err, "pterm.TablePrinter.Render()")
				}

				return nil
			})
		},
	}
}

func flagsOf(c access.Capability) string {
	b := []byte("---")
	if c.Read {
		b[0] = 'r'
	}
	if c.Write {
		b[1] = 'w'
	}
	if c.Delete {
		b[2] = 'd'
	}

	return string(b)
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Send an authenticated GET request to the office API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			return flags.run(cmd, func(ctx context.Context, a *app) error {
				resp, err := a.service.Executor().Execute(ctx, &authhttp.Request{Method: http.MethodGet, Path: path})
				if err != nil {
					return errors.Wrap(err, "authhttp.Executor.Execute()")
				}
				defer resp.Body.Close()

				if resp.StatusCode < 200 || resp.StatusCode >= 300 {
					return errors.Newf("GET %s: %s", path, resp.Status)
				}
				if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
					return errors.Wrap(err, "io.Copy()")
				}

				return nil
			})
		},
	}
}

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Generate a storage key for remembered sessions",
		Long: `Generate a random key that encrypts the remembered refresh token on disk.
Store it in the OFFICECTL_STORAGE_KEY environment variable or session.storage_key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := tokenstore.GenerateStorageKey()
			if err != nil {
				return errors.Wrap(err, "tokenstore.GenerateStorageKey()")
			}
			printf(cmd, "%s\n", key)

			return nil
		},
	}
}

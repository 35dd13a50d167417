package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/go-playground/errors/v5"
	"github.com/spf13/cobra"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var (
		username string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with a username or email address. The password is read from the
first line of stdin when --password is not given.

Examples:
  officectl login --username jdoe --remember
  echo "$PASSWORD" | officectl login --username jdoe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given on stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return flags.run(cmd, func(ctx context.Context, a *app) error {
				if remember && !a.cfg.Remembering() {
					return errors.New("--remember needs session.token_file and session.storage_key to be configured")
				}

				snap, err := a.service.Login(ctx, username, password, remember)
				if err != nil {
					return errors.Wrap(err, "AuthService.Login()")
				}

				printf(cmd, "Signed in as %s (%s)\n", snap.User.DisplayName(), snap.User.Role)
				if snap.Remembered {
					printf(cmd, "Session remembered on this device.\n")
				}

				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session across runs")

	return cmd
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, func(ctx context.Context, a *app) error {
				signedIn := a.service.Session().Authenticated()
				a.service.Logout(ctx)

				if signedIn {
					printf(cmd, "Signed out.\n")
				} else {
					printf(cmd, "Not signed in.\n")
				}

				return nil
			})
		},
	}
}

func newWhoAmICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, func(_ context.Context, a *app) error {
				snap := a.service.Session()
				if !snap.Authenticated() {
					printf(cmd, "Not signed in.\n")

					return nil
				}

				printf(cmd, "Name:       %s\n", snap.User.DisplayName())
				printf(cmd, "Email:      %s\n", snap.User.Email)
				printf(cmd, "Role:       %s\n", snap.User.Role)
				printf(cmd, "Session:    %s\n", snap.ID)
				printf(cmd, "Remembered: %t\n", snap.Remembered)

				return nil
			})
		},
	}
}

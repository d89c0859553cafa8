package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/notify"
	"gourmetto/internal/platform/config"
)

var clipboardWriteAll = clipboard.WriteAll

// App carries what every command shares: where the API lives and where
// the operator's session is kept.
type App struct {
	APIURL   string
	Sessions *SessionFile
}

func NewApp(cfg config.ClientConfig) *App {
	return &App{APIURL: cfg.APIURL, Sessions: NewSessionFile(cfg.SessionFile)}
}

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rhctl",
		Short:         "Operator tools for Gourmetto RH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.APIURL, "api", app.APIURL, "base URL of the RH service")

	root.AddCommand(
		newStatusCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newRemediationCommand(),
		newHashPasswordCommand(),
	)
	return root
}

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the store through the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := NewClient(app.APIURL, "")
			ready, err := client.Ready(cmd.Context())
			if err != nil {
				return fmt.Errorf("service unreachable: %w", err)
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store: %s\n", status.State)
			if !ready {
				return errors.New("store is offline")
			}
			return nil
		},
	}
}

func newLoginCommand(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv("RH_PASSWORD")
			}
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return errors.New("password required (flag, RH_PASSWORD or stdin)")
				}
				password = line
			}

			res, err := NewClient(app.APIURL, "").Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			sess := Session{User: res.User, Token: res.Token, APIURL: app.APIURL, ExpiresAt: res.ExpiresAt}
			if err := app.Sessions.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo, %s\n", res.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.Sessions.Load()
			if err == nil {
				if err := NewClient(sess.APIURL, sess.Token).Logout(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
				}
			} else if !errors.Is(err, ErrNoSession) {
				return err
			}
			if err := app.Sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.Sessions.Load()
			if err != nil {
				return err
			}
			user, err := NewClient(sess.APIURL, sess.Token).Me(cmd.Context())
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.Status == 401 {
					_ = app.Sessions.Clear()
					return ErrNoSession
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

func newRemediationCommand() *cobra.Command {
	var copyToClipboard bool
	cmd := &cobra.Command{
		Use:   "remediation",
		Short: "Print the SQL that brings the store schema up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			script := notify.RemediationScript()
			if copyToClipboard {
				if err := clipboardWriteAll(script); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "script copied to clipboard")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy to the system clipboard instead of printing")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for a users.password_hash column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return errors.New("password required")
				}
				password = line
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	return line, nil
}

// Package cli implements statusctl, the terminal client of the status
// backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/session"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables read as flag defaults.
const (
	EnvAPIURL     = "STATUSCTL_API_URL"
	EnvTokenFile  = "STATUSCTL_TOKEN_FILE"
	EnvPassphrase = "STATUSCTL_PASSPHRASE"
)

// Options are the process-level dependencies of the command tree.
type Options struct {
	Out          io.Writer
	Err          io.Writer
	In           io.Reader
	ReadPassword func(prompt string) (string, error)
	Now          func() time.Time
	Location     *time.Location
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.ReadPassword == nil {
		o.ReadPassword = func(prompt string) (string, error) {
			return readPassword(o.In, o.Err, prompt)
		}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
}

type globalFlags struct {
	apiURL     string
	tokenFile  string
	passphrase string
	output     string
	timeout    time.Duration
}

// runtime is built once flags are parsed.
type runtime struct {
	opts    Options
	flags   *globalFlags
	printer *printer
	client  *apiclient.Client
	store   *session.FileStore
}

// session hydrates the persisted login and returns a client that sends
// its token.
func (rt *runtime) session(ctx context.Context) (*session.Session, *apiclient.Client, error) {
	sess := session.New(rt.store, rt.client)
	if err := sess.Hydrate(ctx); err != nil {
		return nil, nil, err
	}
	return sess, rt.client.WithTokenSource(sess), nil
}

// requireLogin is session for commands that cannot run anonymously.
func (rt *runtime) requireLogin(ctx context.Context) (*session.Session, *apiclient.Client, error) {
	sess, client, err := rt.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !sess.IsAuthenticated() {
		return nil, nil, errNotLoggedIn
	}
	return sess, client, nil
}

var errNotLoggedIn = errors.New("not logged in, run 'statusctl login' first")

// NewRootCommand builds the statusctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts.defaults()
	flags := &globalFlags{}
	rt := &runtime{opts: opts, flags: flags}

	root := &cobra.Command{
		Use:   "statusctl",
		Short: "statusctl - status backend command line client",
		Long: `statusctl shows the status page, timeline and uptime of a status
backend and manages the login used for authenticated views.

Examples:
  # Log in and persist the token
  statusctl login --email ops@example.com

  # Show the current status page
  statusctl status

  # Show the 30 day uptime of service 3 as JSON
  statusctl uptime 3 --period 30d -o json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			format, err := parseFormat(flags.output)
			if err != nil {
				return err
			}
			if flags.apiURL == "" {
				return fmt.Errorf("api url is required, set --api-url or %s", EnvAPIURL)
			}
			rt.printer = newPrinter(opts.Out, format, opts.Location)
			rt.client = apiclient.New(apiclient.Config{
				BaseURL: flags.apiURL,
				Timeout: flags.timeout,
			}, nil)
			rt.store = session.NewFileStore(flags.tokenFile, flags.passphrase)
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.SetIn(opts.In)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", os.Getenv(EnvAPIURL), "status backend origin, e.g. https://status.example.com")
	pf.StringVar(&flags.tokenFile, "token-file", envOr(EnvTokenFile, defaultTokenFile()), "file the access token is stored in")
	pf.StringVar(&flags.passphrase, "passphrase", os.Getenv(EnvPassphrase), "encrypt the stored token with this passphrase")
	pf.StringVarP(&flags.output, "output", "o", string(formatTable), "output format (table, json, yaml)")
	pf.DurationVar(&flags.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		newLoginCmd(rt),
		newRegisterCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newStatusCmd(rt),
		newTimelineCmd(rt),
		newServicesCmd(rt),
		newIncidentsCmd(rt),
		newUptimeCmd(rt),
		newVersionCmd(rt),
	)
	return root
}

// Execute runs statusctl with the process streams.
func Execute() error {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	cmd := NewRootCommand(Options{})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return err
	}
	return nil
}

// describe turns upstream error kinds into actionable messages.
func describe(err error) string {
	var verr *apiclient.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "authentication failed or session expired, run 'statusctl login'"
	case errors.Is(err, apiclient.ErrForbidden):
		return "insufficient permissions"
	case errors.Is(err, apiclient.ErrNetwork):
		return fmt.Sprintf("cannot reach the status backend: %v", err)
	case errors.Is(err, session.ErrPassphraseRequired):
		return fmt.Sprintf("the stored token is encrypted, set --passphrase or %s", EnvPassphrase)
	}
	return err.Error()
}

// loadDotEnv exports the variables in path without overriding ones already
// set. It runs before the flags read their environment defaults. A missing
// file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "statusdash", "token.json")
}

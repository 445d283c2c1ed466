package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/session"
	"github.com/spf13/cobra"
)

type whoami struct {
	User         *domain.User         `json:"user"`
	Capabilities session.Capabilities `json:"capabilities"`
}

func newLoginCmd(rt *runtime) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := rt.opts.ReadPassword("Password: ")
			if err != nil {
				return err
			}

			sess := session.New(rt.store, rt.client)
			user, err := sess.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return rt.printUser(user, sess.Capabilities())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var in apiclient.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := rt.opts.ReadPassword("Password: ")
			if err != nil {
				return err
			}
			in.Password = password

			sess := session.New(rt.store, rt.client)
			user, err := sess.Register(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			return rt.printUser(user, sess.Capabilities())
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := session.New(rt.store, rt.client).Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user and what they may do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := rt.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printUser(sess.CurrentUser(), sess.Capabilities())
		},
	}
}

func (rt *runtime) printUser(user *domain.User, caps session.Capabilities) error {
	return rt.printer.print(whoami{User: user, Capabilities: caps}, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "EMAIL\t%s\n", user.Email)
		fmt.Fprintf(tw, "NAME\t%s\n", orDash(user.FullName))
		fmt.Fprintf(tw, "ROLE\t%s\n", orDash(string(user.Role)))
		fmt.Fprintf(tw, "SUPERUSER\t%t\n", user.IsSuperuser)
		fmt.Fprintf(tw, "CAN MANAGE\t%t\n", caps.ManagerOrAdmin)
		fmt.Fprintf(tw, "CAN ADMINISTER\t%t\n", caps.Admin)
	})
}

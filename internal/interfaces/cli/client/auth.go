package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
)

type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.password, "password", "", "Account password (prompted when omitted)")
}

// resolve prompts for whatever was not given as a flag.
func (c *credentials) resolve(cmd *cobra.Command) error {
	in := bufio.NewReader(cmd.InOrStdin())
	if c.email == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		c.email = strings.TrimSpace(line)
	}
	if c.password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			raw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.password = string(raw)
		} else {
			line, err := in.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			c.password = strings.TrimRight(line, "\r\n")
		}
	}
	return nil
}

func newLoginCommand(g *Globals) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
	}
	creds.bind(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := creds.resolve(cmd); err != nil {
			return err
		}
		return runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.store.SignIn(ctx, creds.email, creds.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", sess.User.Email)
			return a.acceptPendingInvite(ctx, sess)
		})(cmd, args)
	}
	return cmd
}

func newSignupCommand(g *Globals) *cobra.Command {
	var (
		creds    credentials
		fullName string
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
	}
	creds.bind(cmd)
	cmd.Flags().StringVar(&fullName, "name", "", "Full name shown on leaderboards")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := creds.resolve(cmd); err != nil {
			return err
		}
		return runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.store.SignUp(ctx, creds.email, creds.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Account created for %s\n", sess.User.Email)

			if name := strings.TrimSpace(fullName); name != "" {
				if _, err := remote.NewProfiles(a.gateway).UpdateProfile(ctx, sess, remote.ProfileUpdate{FullName: &name}); err != nil {
					return err
				}
			}
			return a.acceptPendingInvite(ctx, sess)
		})(cmd, args)
	}
	return cmd
}

func newLogoutCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			if _, ok := a.store.Current(); !ok {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			if err := a.store.SignOut(ctx); err != nil {
				a.log.Warnw("session revoked locally only", "error", err)
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}

func newWhoamiCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			user, err := a.store.ReloadUser(ctx)
			if err != nil {
				return err
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			prof, err := remote.NewProfiles(a.gateway).GetProfile(ctx, sess)
			if err != nil {
				return err
			}

			w := newTable(a.out)
			w.row("ID", user.ID)
			w.row("Email", user.Email)
			w.row("Role", user.Role)
			w.row("Name", prof.FullName)
			w.row("Onboarding", string(prof.OnboardingStep))
			w.row("Session expires", formatTime(sess.ExpiresAt))
			return w.flush()
		}),
	}
}

// acceptPendingInvite answers a family invite remembered before login.
func (a *app) acceptPendingInvite(ctx context.Context, sess *session.Session) error {
	res, err := a.referrals().AcceptFamilyInvite(ctx, sess, "")
	if errors.Is(err, remote.ErrNoInviteToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if !res.Success {
		fmt.Fprintf(a.out, "Family invite not accepted: %s\n", res.Message)
		return nil
	}
	fmt.Fprintln(a.out, "Family invite accepted")
	return nil
}

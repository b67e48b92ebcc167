package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
)

func newReferralCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "referral",
		Short: "Show your referral code",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			code, err := a.referrals().GetOrCreateCode(ctx, sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, code)
			return nil
		}),
	}
}

func newFamilyCommand(g *Globals) *cobra.Command {
	invite := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite someone to your family plan",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			inv, err := a.referrals().CreateFamilyInvite(ctx, sess, args[0])
			if err != nil {
				return err
			}
			t := newTable(a.out)
			t.row("Invite token", inv.Token)
			t.row("Expires", formatTime(inv.ExpiresAt))
			return t.flush()
		}),
	}

	accept := &cobra.Command{
		Use:   "accept [token]",
		Short: "Join the family plan of an invite",
		Long: `Accept a family invite. When not logged in the token is remembered and
accepted right after the next login or signup. Without a token the
remembered one is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			}

			sess, err := a.session()
			if errors.Is(err, errNotLoggedIn) && token != "" {
				a.store.SetPendingInvite(token)
				fmt.Fprintln(a.out, "Invite saved: it will be accepted after you log in")
				return nil
			}
			if err != nil {
				return err
			}

			res, err := a.referrals().AcceptFamilyInvite(ctx, sess, token)
			if errors.Is(err, remote.ErrNoInviteToken) {
				return errors.New("no invite token given or remembered")
			}
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("invite not accepted: %s", res.Message)
			}
			fmt.Fprintln(a.out, "Family invite accepted")
			return nil
		}),
	}

	cmd := &cobra.Command{
		Use:   "family",
		Short: "Manage family plan invites",
	}
	cmd.AddCommand(invite, accept)
	return cmd
}

package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/domain/competition"
)

func newCompetitionsCommand(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "competitions",
		Aliases: []string{"competition"},
		Short:   "Browse and join check-in competitions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List running competitions",
			RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
				sess, err := a.session()
				if err != nil {
					return err
				}
				rows, err := a.competitions().ListActive(ctx, sess)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintln(a.out, "No competitions running")
					return nil
				}
				t := newTable(a.out)
				t.row("ID", "TITLE", "ACADEMY", "ENDS AT")
				for _, c := range rows {
					academy := "all"
					if c.AcademyID != nil {
						academy = *c.AcademyID
					}
					t.row(c.ID, c.Title, academy, formatTime(c.EndsAt))
				}
				return t.flush()
			}),
		},
		&cobra.Command{
			Use:   "leaderboard <competition-id>",
			Short: "Show the ranking of a competition",
			Args:  cobra.ExactArgs(1),
			RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
				sess, err := a.session()
				if err != nil {
					return err
				}
				svc := a.competitions()
				c, err := svc.Get(ctx, sess, args[0])
				if err != nil {
					return err
				}
				rows, err := svc.Leaderboard(ctx, sess, c.ID)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "%s (%s to %s)\n", c.Title, formatTime(c.StartsAt), formatTime(c.EndsAt))
				t := newTable(a.out)
				t.row("RANK", "USER", "SCORE")
				for _, p := range rows {
					rank := "-"
					if p.Rank != nil {
						rank = strconv.Itoa(*p.Rank)
					}
					user := p.UserID
					if p.UserID == sess.UserID() {
						user += " (you)"
					}
					t.row(rank, user, strconv.FormatInt(p.Score, 10))
				}
				return t.flush()
			}),
		},
		&cobra.Command{
			Use:   "join <competition-id>",
			Short: "Join a competition",
			Args:  cobra.ExactArgs(1),
			RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
				sess, err := a.session()
				if err != nil {
					return err
				}
				_, err = a.competitions().Join(ctx, sess, args[0])
				if errors.Is(err, competition.ErrAlreadyJoined) {
					fmt.Fprintln(a.out, "Already participating")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Joined competition")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rank <competition-id>",
			Short: "Recompute scores and ranks (competition owners)",
			Args:  cobra.ExactArgs(1),
			RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
				sess, err := a.session()
				if err != nil {
					return err
				}
				n, err := a.competitions().RefreshRankings(ctx, sess, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated %d participant(s)\n", n)
				return nil
			}),
		},
	)
	return cmd
}

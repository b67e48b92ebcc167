package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
)

func newAcademiesCommand(g *Globals) *cobra.Command {
	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List academies",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			rows, err := remote.NewAcademies(a.gateway).List(ctx, sess, limit, offset)
			if err != nil {
				return err
			}
			t := newTable(a.out)
			t.row("ID", "NAME", "ADDRESS", "RADIUS (M)")
			for _, ac := range rows {
				t.row(ac.ID, ac.Name, orDash(ac.Address), strconv.FormatFloat(ac.RadiusMeters, 'f', 0, 64))
			}
			return t.flush()
		}),
	}
	list.Flags().IntVar(&limit, "limit", 20, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	show := &cobra.Command{
		Use:   "show <academy-id>",
		Short: "Show an academy with its rating",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			ac, err := remote.NewAcademies(a.gateway).Get(ctx, sess, args[0])
			if err != nil {
				return err
			}
			summary, err := remote.NewReviews(a.gateway).AverageRating(ctx, sess, ac.ID)
			if err != nil {
				return err
			}

			t := newTable(a.out)
			t.row("ID", ac.ID)
			t.row("Name", ac.Name)
			t.row("Address", orDash(ac.Address))
			t.row("Location", fmt.Sprintf("%.6f,%.6f (radius %.0f m)", ac.Latitude, ac.Longitude, ac.RadiusMeters))
			t.row("Rating", ratingLine(summary.Average, summary.Count))
			return t.flush()
		}),
	}

	cmd := &cobra.Command{
		Use:     "academies",
		Aliases: []string{"academy"},
		Short:   "Browse academies",
	}
	cmd.AddCommand(list, show)
	return cmd
}

func ratingLine(average float64, count int) string {
	if count == 0 {
		return "no reviews yet"
	}
	return fmt.Sprintf("%s %.1f (%d review(s))", stars(int(average+0.5)), average, count)
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("*", n) + strings.Repeat(".", 5-n)
}

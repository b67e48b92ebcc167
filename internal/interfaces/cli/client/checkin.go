package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	domainCheckin "github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
)

var errNoPendingCheckin = errors.New("no pending check-in: run `fitpass checkin reserve <academy-id>` first")

func newCheckinCommand(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Reserve and validate academy check-ins",
	}
	cmd.AddCommand(
		newCheckinStatusCommand(g),
		newCheckinReserveCommand(g),
		newCheckinValidateCommand(g),
		newCheckinHistoryCommand(g),
	)
	return cmd
}

func newCheckinStatusCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the pending check-in, if any",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			flow, err := a.flow(nil, "")
			if err != nil {
				return err
			}
			lookup, err := flow.ResolvePendingReservation(ctx, sess)
			if err != nil {
				return err
			}
			r, ok := lookup.Found()
			if !ok {
				fmt.Fprintln(a.out, "No pending check-in")
				return nil
			}
			printReservation(a.out, r)
			return nil
		}),
	}
}

func newCheckinReserveCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <academy-id>",
		Short: "Reserve a check-in at an academy",
		Long: `Reserve a check-in at an academy. When a check-in is already pending,
at this or any other academy, it is shown instead of creating a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			flow, err := a.flow(nil, "")
			if err != nil {
				return err
			}

			step := flow.Enter(ctx, sess, args[0])
			if step.Alert != nil || step.State == domainCheckin.StatePending {
				if step.Reservation != nil && step.Reservation.AcademyID != args[0] {
					fmt.Fprintln(a.out, "You already have a pending check-in at another academy:")
				}
				return reportStep(a.out, step)
			}
			return reportStep(a.out, flow.Reserve(ctx, sess, ""))
		}),
	}
}

func newCheckinValidateCommand(g *Globals) *cobra.Command {
	var (
		lat, lng   float64
		permission string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Confirm presence at the academy of the pending check-in",
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Current latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Current longitude")
	cmd.Flags().StringVar(&permission, "location-permission", "", "Override location permission (granted, denied, prompt)")
	cmd.RunE = runE(g, func(ctx context.Context, a *app, _ []string) error {
		sess, err := a.session()
		if err != nil {
			return err
		}

		var position *domainCheckin.Coordinates
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			position = &domainCheckin.Coordinates{Latitude: lat, Longitude: lng}
			if err := position.Validate(); err != nil {
				return err
			}
		}
		flow, err := a.flow(position, permission)
		if err != nil {
			return err
		}

		step := flow.Enter(ctx, sess, "")
		if step.Alert != nil {
			return reportStep(a.out, step)
		}
		if step.State != domainCheckin.StatePending {
			return errNoPendingCheckin
		}
		return reportStep(a.out, flow.Validate(ctx, sess))
	})
	return cmd
}

func newCheckinHistoryCommand(g *Globals) *cobra.Command {
	var (
		limit        int
		since, until string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent check-ins",
		Long:  "List recent check-ins. --since and --until take YYYY-MM-DD dates in the business timezone and are inclusive.",
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of check-ins")
	cmd.Flags().StringVar(&since, "since", "", "Only check-ins reserved on or after this date")
	cmd.Flags().StringVar(&until, "until", "", "Only check-ins reserved on or before this date")
	cmd.RunE = runE(g, func(ctx context.Context, a *app, _ []string) error {
		window, err := parseDayWindow(since, until)
		if err != nil {
			return err
		}
		sess, err := a.session()
		if err != nil {
			return err
		}
		rows, err := a.checkins().History(ctx, sess, remote.HistoryQuery{
			Limit: limit,
			Since: window.from,
			Until: window.to,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(a.out, "No check-ins yet")
			return nil
		}
		t := newTable(a.out)
		t.row("ID", "ACADEMY", "STATUS", "RESERVED AT")
		for _, r := range rows {
			t.row(r.ID, orDash(r.AcademyName), string(r.Status), formatTime(r.CreatedAt))
		}
		return t.flush()
	})
	return cmd
}

// dayWindow is an inclusive range of business days; zero bounds are open.
type dayWindow struct {
	from, to time.Time
}

func parseDayWindow(since, until string) (dayWindow, error) {
	var w dayWindow
	if since != "" {
		from, err := biztime.ParseDateInBizTimezone(since)
		if err != nil {
			return w, fmt.Errorf("--since: %w", err)
		}
		w.from = from
	}
	if until != "" {
		day, err := biztime.ParseDateInBizTimezone(until)
		if err != nil {
			return w, fmt.Errorf("--until: %w", err)
		}
		w.to = biztime.EndOfDayUTC(day)
	}
	if !w.from.IsZero() && !w.to.IsZero() && w.to.Before(w.from) {
		return w, fmt.Errorf("--until is before --since")
	}
	return w, nil
}

package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	appCheckin "github.com/fitpass-app/fitpass/internal/application/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
)

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer) *table {
	return &table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return biztime.FormatInBizTimezone(ts, "2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printReservation(out io.Writer, r checkin.Reservation) {
	t := newTable(out)
	t.row("Check-in", r.ID)
	t.row("Academy", orDash(r.AcademyName)+" ("+r.AcademyID+")")
	t.row("Status", string(r.Status))
	t.row("Reserved at", formatTime(r.CreatedAt))
	_ = t.flush()
}

// reportStep prints a flow step. Alerts and failed results become errors so
// the process exits non-zero.
func reportStep(out io.Writer, step appCheckin.Step) error {
	if step.Alert != nil {
		return fmt.Errorf("%s: %s", step.Alert.Kind, step.Alert.Message)
	}
	if nav := step.Navigation; nav != nil {
		if nav.Success {
			fmt.Fprintln(out, "Check-in confirmed")
			return nil
		}
		return fmt.Errorf("check-in failed: %s", nav.Message)
	}
	if step.Reservation != nil {
		printReservation(out, *step.Reservation)
		return nil
	}
	fmt.Fprintf(out, "Check-in %s\n", step.State)
	return nil
}

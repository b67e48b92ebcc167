package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type academyRef struct {
	Name string `json:"name"`
}

type checkinRow struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	AcademyID   string      `json:"academy_id"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	ValidatedAt *time.Time  `json:"validated_at,omitempty"`
	Academy     *academyRef `json:"academies,omitempty"`
}

func (r checkinRow) toReservation() checkin.Reservation {
	res := checkin.Reservation{
		ID:        r.ID,
		UserID:    r.UserID,
		AcademyID: r.AcademyID,
		Status:    checkin.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if r.Academy != nil {
		res.AcademyName = r.Academy.Name
	}
	return res
}

const checkinColumns = "*,academies(name)"

// Checkins implements the remote side of the check-in flow.
type Checkins struct {
	client *supabase.Client
	logger logger.Interface
}

func NewCheckins(client *supabase.Client, log logger.Interface) *Checkins {
	return &Checkins{client: client, logger: log}
}

func (s *Checkins) FindPending(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return checkin.None(), err
	}
	var row checkinRow
	found, err := c.From(TableCheckins).
		Select(checkinColumns).
		Eq("user_id", sess.UserID()).
		Eq("status", checkin.StatusPending).
		Order("created_at", false).
		Limit(1).
		MaybeSingle(ctx, &row)
	if err != nil {
		return checkin.None(), fmt.Errorf("find pending check-in: %w", err)
	}
	if !found {
		return checkin.None(), nil
	}
	return checkin.Found(row.toReservation()), nil
}

func (s *Checkins) Reserve(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return checkin.Reservation{}, err
	}
	payload := map[string]string{
		"user_id":    sess.UserID(),
		"academy_id": academyID,
		"status":     string(checkin.StatusPending),
	}
	var rows []checkinRow
	if err := c.From(TableCheckins).Select(checkinColumns).Insert(ctx, payload, &rows); err != nil {
		if supabase.IsConflict(err) {
			return checkin.Reservation{}, fmt.Errorf("%w: %s", checkin.ErrPendingExists, apiMessage(err))
		}
		return checkin.Reservation{}, fmt.Errorf("reserve check-in: %w", err)
	}
	if len(rows) == 0 {
		return checkin.Reservation{}, fmt.Errorf("reserve check-in: backend returned no row")
	}
	return rows[0].toReservation(), nil
}

// Validate never returns an error; failures become checkin.TransportFailure.
func (s *Checkins) Validate(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
	c, err := as(s.client, sess)
	if err != nil {
		return checkin.TransportFailure{Detail: err.Error()}
	}
	params := map[string]any{
		"p_checkin_id": checkinID,
		"p_user_id":    sess.UserID(),
		"p_latitude":   at.Latitude,
		"p_longitude":  at.Longitude,
	}
	var result checkin.ValidationResult
	if err := c.RPC(ctx, RPCValidateCheckin, params, &result); err != nil {
		s.logger.Warnw("validate_checkin failed",
			"checkin_id", checkinID,
			"transport", supabase.IsTransport(err),
			"error", err,
		)
		return checkin.TransportFailure{Detail: apiMessage(err)}
	}
	return result.Verdict()
}

// HistoryQuery narrows History. Zero Since or Until leave that side open.
type HistoryQuery struct {
	Limit int
	Since time.Time
	Until time.Time
}

// History lists the user's check-ins created inside the query window,
// newest first.
func (s *Checkins) History(ctx context.Context, sess *session.Session, hq HistoryQuery) ([]checkin.Reservation, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	if hq.Limit <= 0 {
		hq.Limit = 20
	}
	q := c.From(TableCheckins).
		Select(checkinColumns).
		Eq("user_id", sess.UserID())
	if !hq.Since.IsZero() {
		q = q.Gte("created_at", hq.Since)
	}
	if !hq.Until.IsZero() {
		q = q.Lte("created_at", hq.Until)
	}
	var rows []checkinRow
	if err := q.Order("created_at", false).Limit(hq.Limit).Execute(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	out := make([]checkin.Reservation, len(rows))
	for i, r := range rows {
		out[i] = r.toReservation()
	}
	return out, nil
}

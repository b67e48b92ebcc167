package rpc

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	checkinuc "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionuc "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	referraluc "github.com/fitpass-app/fitpass/internal/application/referral/usecases"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/testutil"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
)

type mockValidateCheckinUC struct {
	cmd    checkinuc.ValidateCheckinCommand
	result *checkin.ValidationResult
	err    error
}

func (m *mockValidateCheckinUC) Execute(ctx context.Context, cmd checkinuc.ValidateCheckinCommand) (*checkin.ValidationResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockUpdateRankingsUC struct {
	result *competitionuc.RankingResult
	err    error
}

func (m *mockUpdateRankingsUC) Execute(ctx context.Context, cmd competitionuc.UpdateCompetitionRankingsCommand) (*competitionuc.RankingResult, error) {
	return m.result, m.err
}

type mockAcceptInviteUC struct {
	cmd    referraluc.AcceptFamilyInviteCommand
	result *referral.Result
}

func (m *mockAcceptInviteUC) Execute(ctx context.Context, cmd referraluc.AcceptFamilyInviteCommand) (*referral.Result, error) {
	m.cmd = cmd
	return m.result, nil
}

func call(h *Handler, fn string, body any, userID, role string) (int, string) {
	c, w := testutil.NewTestContext(http.MethodPost, "/rest/v1/rpc/"+fn, body)
	testutil.SetURLParam(c, "fn", fn)
	if userID != "" {
		testutil.SetCaller(c, userID, role)
	}
	h.Call(c)
	return w.Code, w.Body.String()
}

func TestHandler_ValidateCheckin(t *testing.T) {
	uc := &mockValidateCheckinUC{result: &checkin.ValidationResult{Success: true}}
	h := NewHandler(UseCases{ValidateCheckin: uc}, testutil.NewMockLogger())

	code, body := call(h, ValidateCheckin, map[string]any{
		"p_checkin_id": "chk-1",
		"p_user_id":    "u1",
		"p_latitude":   0.0,
		"p_longitude":  -46.6,
	}, "u1", profile.RoleMember)

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":true}`, body)
	assert.Equal(t, "chk-1", uc.cmd.CheckinID)
	assert.Equal(t, "u1", uc.cmd.CallerID)
	assert.Equal(t, profile.RoleMember, uc.cmd.CallerRole)
	assert.Equal(t, 0.0, uc.cmd.Latitude)
	assert.Equal(t, -46.6, uc.cmd.Longitude)
}

func TestHandler_ValidateCheckin_MissingCoordinates(t *testing.T) {
	uc := &mockValidateCheckinUC{}
	h := NewHandler(UseCases{ValidateCheckin: uc}, testutil.NewMockLogger())

	code, _ := call(h, ValidateCheckin, map[string]any{"p_checkin_id": "chk-1", "p_user_id": "u1"}, "u1", profile.RoleMember)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, uc.cmd.CheckinID)
}

func TestHandler_UpdateRankings(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		h := NewHandler(UseCases{UpdateRankings: &mockUpdateRankingsUC{result: &competitionuc.RankingResult{Updated: 3}}}, testutil.NewMockLogger())
		code, body := call(h, UpdateCompetitionRankings, map[string]string{"p_competition_id": "comp"}, "owner", profile.RoleOwner)
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"updated":3}`, body)
	})

	t.Run("unknown competition", func(t *testing.T) {
		h := NewHandler(UseCases{UpdateRankings: &mockUpdateRankingsUC{err: errors.NewNotFoundError("competition not found")}}, testutil.NewMockLogger())
		code, _ := call(h, UpdateCompetitionRankings, map[string]string{"p_competition_id": "nope"}, "owner", profile.RoleOwner)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestHandler_AcceptInvite_RejectionIsOK(t *testing.T) {
	uc := &mockAcceptInviteUC{result: &referral.Result{Success: false, Message: "invite expired"}}
	h := NewHandler(UseCases{AcceptInvite: uc}, testutil.NewMockLogger())

	code, body := call(h, AcceptFamilyInvite, map[string]string{"p_token": "tok", "p_user_id": "u2"}, "u2", profile.RoleMember)

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":false,"message":"invite expired"}`, body)
	assert.Equal(t, "tok", uc.cmd.Token)
	assert.Equal(t, "u2", uc.cmd.CallerID)
}

func TestHandler_UnknownFunction(t *testing.T) {
	h := NewHandler(UseCases{}, testutil.NewMockLogger())

	code, body := call(h, "drop_everything", nil, "u1", profile.RoleSuperadmin)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, CodeUndefinedFunction)
}

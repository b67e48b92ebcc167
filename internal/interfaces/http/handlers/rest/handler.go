// Package rest serves /rest/v1/:table in the PostgREST dialect. Reads go
// straight to the table views; writes are routed to use cases.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	academyuc "github.com/fitpass-app/fitpass/internal/application/academy/usecases"
	checkinuc "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionuc "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	"github.com/fitpass-app/fitpass/internal/application/permission"
	profileuc "github.com/fitpass-app/fitpass/internal/application/profile/usecases"
	reviewuc "github.com/fitpass-app/fitpass/internal/application/review/usecases"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/repository"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/query"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// CodeUndefinedTable is sent for tables that are not exposed.
const CodeUndefinedTable = "42P01"

const maxBodyBytes = 1 << 20

// write performs one insert or update and returns the filters that select
// the written row.
type write func(ctx context.Context, caller middleware.Caller, p *query.Params, body []byte) ([]query.Filter, error)

type Handler struct {
	rows    rowReader
	uc      UseCases
	inserts map[string]write
	updates map[string]write
	logger  logger.Interface
}

func NewHandler(rows rowReader, uc UseCases, logger logger.Interface) *Handler {
	h := &Handler{rows: rows, uc: uc, logger: logger}
	h.inserts = map[string]write{
		constants.TableCheckins:                h.insertCheckin,
		constants.TableCompetitionParticipants: h.insertParticipant,
		constants.TableReviews:                 h.insertReview,
		constants.TableAcademies:               h.insertAcademy,
		constants.TableCompetitions:            h.insertCompetition,
	}
	h.updates = map[string]write{
		constants.TableProfiles:  h.updateProfile,
		constants.TableAcademies: h.updateAcademy,
	}
	return h
}

// Select handles GET /rest/v1/:table.
// @Summary Read rows
// @Description PostgREST filters (col=op.value), order, limit, offset and select with embeds. Owner-scoped tables only return the caller's rows.
// @Tags REST
// @Produce json
// @Param apikey header string true "Anon key"
// @Param table path string true "academies, checkins, competitions, competition_participants, profiles or reviews"
// @Param select query string false "Columns and embeds, e.g. *,academies(name)"
// @Param order query string false "col.asc or col.desc"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Param Accept header string false "application/vnd.pgrst.object+json for a single object"
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Failure 406 {object} utils.ErrorBody
// @Router /rest/v1/{table} [get]
func (h *Handler) Select(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	p, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	caller := middleware.CallerFrom(c)
	ownerID := ""
	if repository.OwnerScoped(table) {
		if caller.Anonymous() {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
			return
		}
		if caller.Role != profile.RoleSuperadmin {
			ownerID = caller.UserID
		}
	}

	rows, err := h.rows.Select(c.Request.Context(), table, p, ownerID)
	if err != nil {
		h.fail(c, table, err)
		return
	}
	respondRows(c, http.StatusOK, rows)
}

// Insert handles POST /rest/v1/:table.
// @Summary Insert a row
// @Tags REST
// @Accept json
// @Produce json
// @Param apikey header string true "Anon key"
// @Param table path string true "checkins, competition_participants, reviews, academies or competitions"
// @Param Prefer header string false "return=representation"
// @Param request body object true "Row"
// @Security BearerAuth
// @Success 201 {array} object
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Failure 405 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Router /rest/v1/{table} [post]
func (h *Handler) Insert(c *gin.Context) {
	h.mutate(c, h.inserts, http.StatusCreated)
}

// Update handles PATCH /rest/v1/:table.
// @Summary Update a row
// @Tags REST
// @Accept json
// @Produce json
// @Param apikey header string true "Anon key"
// @Param table path string true "profiles or academies"
// @Param id query string true "eq.<id>"
// @Param request body object true "Changed columns"
// @Security BearerAuth
// @Success 200 {array} object
// @Success 204
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Router /rest/v1/{table} [patch]
func (h *Handler) Update(c *gin.Context) {
	h.mutate(c, h.updates, http.StatusOK)
}

// MethodNotAllowed answers writes the REST surface does not support.
func (h *Handler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, utils.ErrorBody{
		Code:    utils.CodePermissionDenied,
		Message: fmt.Sprintf("%s is not supported on %s", c.Request.Method, c.Param("table")),
	})
}

func (h *Handler) mutate(c *gin.Context, writes map[string]write, status int) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	fn, ok := writes[table]
	if !ok {
		h.MethodNotAllowed(c)
		return
	}
	p, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	body, err := readObject(c.Request.Body)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	caller := middleware.CallerFrom(c)
	keys, err := fn(c.Request.Context(), caller, p, body)
	if err != nil {
		h.fail(c, table, err)
		return
	}

	if !wantsRepresentation(c) {
		if status == http.StatusOK {
			status = http.StatusNoContent
		}
		c.Status(status)
		c.Writer.WriteHeaderNow()
		return
	}
	rows, err := h.rows.Select(c.Request.Context(), table, &query.Params{Filters: keys, Select: p.Select}, "")
	if err != nil {
		h.fail(c, table, err)
		return
	}
	respondRows(c, status, rows)
}

// Resolve rejects unknown tables before authorization runs.
func (h *Handler) Resolve(c *gin.Context) {
	if _, ok := h.table(c); !ok {
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) table(c *gin.Context) (string, bool) {
	table := c.Param("table")
	if !repository.HasTable(table) {
		c.JSON(http.StatusNotFound, utils.ErrorBody{
			Code:    CodeUndefinedTable,
			Message: fmt.Sprintf("relation \"public.%s\" does not exist", table),
		})
		return "", false
	}
	return table, true
}

func (h *Handler) fail(c *gin.Context, table string, err error) {
	if errors.GetAppError(err) == nil && !stderrors.Is(err, query.ErrInvalidQuery) {
		h.logger.Errorw("rest request failed", "table", table, "method", c.Request.Method, "error", err)
	}
	utils.ErrorResponseWithError(c, err)
}

// actingUser resolves the user_id column of a write: it defaults to the
// caller and only superadmins may name someone else.
func actingUser(caller middleware.Caller, requested string) (string, error) {
	if requested == "" {
		requested = caller.UserID
	}
	if err := permission.ActingFor(caller.UserID, caller.Role, requested); err != nil {
		return "", err
	}
	return requested, nil
}

func eq(column, value string) query.Filter {
	return query.Filter{Column: column, Op: query.OpEq, Value: value}
}

func decode(body []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return errors.NewBadRequestError("invalid request body", err.Error())
	}
	return utils.ValidateStruct(target)
}

func (h *Handler) insertCheckin(ctx context.Context, caller middleware.Caller, _ *query.Params, body []byte) ([]query.Filter, error) {
	var req CheckinInsert
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := actingUser(caller, req.UserID)
	if err != nil {
		return nil, err
	}
	c, err := h.uc.ReserveCheckin.Execute(ctx, checkinuc.ReserveCheckinCommand{UserID: userID, AcademyID: req.AcademyID})
	if err != nil {
		return nil, err
	}
	return []query.Filter{eq("id", c.ID())}, nil
}

func (h *Handler) insertParticipant(ctx context.Context, caller middleware.Caller, _ *query.Params, body []byte) ([]query.Filter, error) {
	var req ParticipantInsert
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := actingUser(caller, req.UserID)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.JoinCompetition.Execute(ctx, competitionuc.JoinCompetitionCommand{CompetitionID: req.CompetitionID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return []query.Filter{eq("competition_id", p.CompetitionID), eq("user_id", p.UserID)}, nil
}

// insertReview always merges on (user_id, academy_id).
func (h *Handler) insertReview(ctx context.Context, caller middleware.Caller, _ *query.Params, body []byte) ([]query.Filter, error) {
	var req ReviewInsert
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := actingUser(caller, req.UserID)
	if err != nil {
		return nil, err
	}
	r, err := h.uc.SubmitReview.Execute(ctx, reviewuc.SubmitReviewCommand{
		UserID:    userID,
		AcademyID: req.AcademyID,
		Rating:    req.Rating,
		Body:      req.Body,
	})
	if err != nil {
		return nil, err
	}
	return []query.Filter{eq("user_id", r.UserID), eq("academy_id", r.AcademyID)}, nil
}

func (h *Handler) insertAcademy(ctx context.Context, caller middleware.Caller, _ *query.Params, body []byte) ([]query.Filter, error) {
	var req AcademyInsert
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	a, err := h.uc.CreateAcademy.Execute(ctx, academyuc.CreateAcademyCommand{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		OwnerID:      req.OwnerID,
		CallerID:     caller.UserID,
		CallerRole:   caller.Role,
	})
	if err != nil {
		return nil, err
	}
	return []query.Filter{eq("id", a.ID)}, nil
}

func (h *Handler) insertCompetition(ctx context.Context, caller middleware.Caller, _ *query.Params, body []byte) ([]query.Filter, error) {
	var req CompetitionInsert
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	comp, err := h.uc.CreateCompetition.Execute(ctx, competitionuc.CreateCompetitionCommand{
		Title:       req.Title,
		Description: req.Description,
		AcademyID:   req.AcademyID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CallerID:    caller.UserID,
		CallerRole:  caller.Role,
	})
	if err != nil {
		return nil, err
	}
	return []query.Filter{eq("id", comp.ID)}, nil
}

func targetID(p *query.Params) (string, error) {
	id, ok := p.FilterValue("id")
	if !ok || id == "" {
		return "", fmt.Errorf("%w: updates require an id=eq filter", query.ErrInvalidQuery)
	}
	return id, nil
}

func (h *Handler) updateProfile(ctx context.Context, caller middleware.Caller, p *query.Params, body []byte) ([]query.Filter, error) {
	id, err := targetID(p)
	if err != nil {
		return nil, err
	}
	if err := permission.ActingFor(caller.UserID, caller.Role, id); err != nil {
		return nil, err
	}
	var req ProfilePatch
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if _, err := h.uc.UpdateProfile.Execute(ctx, profileuc.UpdateProfileCommand{
		UserID:    id,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Goals:     req.Goals,
	}); err != nil {
		return nil, err
	}
	return []query.Filter{eq("id", id)}, nil
}

func (h *Handler) updateAcademy(ctx context.Context, caller middleware.Caller, p *query.Params, body []byte) ([]query.Filter, error) {
	id, err := targetID(p)
	if err != nil {
		return nil, err
	}
	var req AcademyPatch
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if _, err := h.uc.UpdateAcademy.Execute(ctx, academyuc.UpdateAcademyCommand{
		ID:           id,
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		CallerID:     caller.UserID,
		CallerRole:   caller.Role,
	}); err != nil {
		return nil, err
	}
	return []query.Filter{eq("id", id)}, nil
}

// readObject returns the JSON object of a request body. A single element
// array is unwrapped; bulk writes are rejected.
func readObject(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, errors.NewBadRequestError("failed to read request body")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.NewBadRequestError("request body is empty")
	}
	if raw[0] != '[' {
		return raw, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.NewBadRequestError("invalid request body", err.Error())
	}
	if len(items) != 1 {
		return nil, errors.NewBadRequestError("bulk writes are not supported")
	}
	return items[0], nil
}

func wantsRepresentation(c *gin.Context) bool {
	for _, pref := range strings.Split(c.GetHeader(constants.HeaderPrefer), ",") {
		if strings.TrimSpace(pref) == "return=representation" {
			return true
		}
	}
	return false
}

// respondRows writes rows as an array, or as one object when the caller
// asked for the single object media type.
func respondRows(c *gin.Context, status int, rows []repository.Row) {
	if strings.Contains(c.GetHeader(constants.HeaderAccept), constants.ContentTypeSingleObject) {
		if len(rows) != 1 {
			c.JSON(http.StatusNotAcceptable, utils.ErrorBody{
				Code:    utils.CodeNotAcceptable,
				Message: "JSON object requested, multiple (or no) rows returned",
				Details: fmt.Sprintf("The result contains %d rows", len(rows)),
			})
			return
		}
		c.Header(constants.HeaderContentType, constants.ContentTypeSingleObject+"; charset=utf-8")
		c.Status(status)
		_ = json.NewEncoder(c.Writer).Encode(rows[0])
		return
	}
	if rows == nil {
		rows = []repository.Row{}
	}
	c.JSON(status, rows)
}

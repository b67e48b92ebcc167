package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/query"
)

// ErrUnknownTable is returned for tables the REST surface does not expose.
var ErrUnknownTable = errors.New("relation does not exist")

// Row is one REST row keyed by exposed column name.
type Row map[string]any

type scope = func(*gorm.DB) *gorm.DB

type finder func(ctx context.Context, conn *gorm.DB, cols Columns, p *query.Params, scopes ...scope) ([]Row, error)

func findAs[M any](view func(*M) Row) finder {
	return func(ctx context.Context, conn *gorm.DB, cols Columns, p *query.Params, scopes ...scope) ([]Row, error) {
		models, err := FindRows[M](ctx, conn, cols, p, scopes...)
		if err != nil {
			return nil, err
		}
		rows := make([]Row, len(models))
		for i, m := range models {
			rows[i] = view(m)
		}
		return rows, nil
	}
}

type table struct {
	columns Columns
	// owner is the column compared with the reading user; empty for public tables.
	owner string
	find  finder
}

// embed is a resource reachable from a row through a foreign key column.
type embed struct {
	table  string
	fk     string
	public map[string]bool // nil allows every column
}

var embeds = map[string]embed{
	constants.TableAcademies: {table: constants.TableAcademies, fk: "academy_id"},
	constants.TableProfiles: {
		table:  constants.TableProfiles,
		fk:     "user_id",
		public: map[string]bool{"id": true, "full_name": true, "avatar_url": true},
	},
}

var tables = map[string]table{
	constants.TableAcademies: {
		columns: Columns{
			"id":            {Name: "id"},
			"name":          {Name: "name"},
			"address":       {Name: "address"},
			"latitude":      {Name: "latitude", Kind: KindFloat},
			"longitude":     {Name: "longitude", Kind: KindFloat},
			"radius_meters": {Name: "radius_meters", Kind: KindFloat},
			"owner_id":      {Name: "owner_id"},
			"created_at":    {Name: "created_at", Kind: KindTime},
			"updated_at":    {Name: "updated_at", Kind: KindTime},
		},
		find: findAs(func(m *models.AcademyModel) Row {
			return Row{
				"id":            m.ID,
				"name":          m.Name,
				"address":       m.Address,
				"latitude":      m.Latitude,
				"longitude":     m.Longitude,
				"radius_meters": m.RadiusMeters,
				"owner_id":      m.OwnerID,
				"created_at":    m.CreatedAt,
				"updated_at":    m.UpdatedAt,
			}
		}),
	},
	constants.TableCheckins: {
		columns: Columns{
			"id":           {Name: "id"},
			"user_id":      {Name: "user_id"},
			"academy_id":   {Name: "academy_id"},
			"status":       {Name: "status"},
			"validated_at": {Name: "validated_at", Kind: KindTime},
			"expired_at":   {Name: "expired_at", Kind: KindTime},
			"created_at":   {Name: "created_at", Kind: KindTime},
			"updated_at":   {Name: "updated_at", Kind: KindTime},
		},
		owner: "user_id",
		find:  findAs(checkinRow),
	},
	constants.TableCompetitions: {
		columns: Columns{
			"id":          {Name: "id"},
			"title":       {Name: "title"},
			"description": {Name: "description"},
			"academy_id":  {Name: "academy_id"},
			"starts_at":   {Name: "starts_at", Kind: KindTime},
			"ends_at":     {Name: "ends_at", Kind: KindTime},
			"created_by":  {Name: "created_by"},
			"created_at":  {Name: "created_at", Kind: KindTime},
		},
		find: findAs(func(m *models.CompetitionModel) Row {
			return Row{
				"id":          m.ID,
				"title":       m.Title,
				"description": m.Description,
				"academy_id":  m.AcademyID,
				"starts_at":   m.StartsAt,
				"ends_at":     m.EndsAt,
				"created_by":  m.CreatedBy,
				"created_at":  m.CreatedAt,
			}
		}),
	},
	constants.TableCompetitionParticipants: {
		columns: Columns{
			"competition_id": {Name: "competition_id"},
			"user_id":        {Name: "user_id"},
			"score":          {Name: "score", Kind: KindInt},
			"rank":           {Name: "standing", Kind: KindInt},
			"joined_at":      {Name: "joined_at", Kind: KindTime},
			"updated_at":     {Name: "updated_at", Kind: KindTime},
		},
		find: findAs(func(m *models.CompetitionParticipantModel) Row {
			return Row{
				"competition_id": m.CompetitionID,
				"user_id":        m.UserID,
				"score":          m.Score,
				"rank":           m.Rank,
				"joined_at":      m.JoinedAt,
				"updated_at":     m.UpdatedAt,
			}
		}),
	},
	constants.TableProfiles: {
		columns: Columns{
			"id":              {Name: "id"},
			"email":           {Name: "email"},
			"full_name":       {Name: "full_name"},
			"avatar_url":      {Name: "avatar_url"},
			"role":            {Name: "role"},
			"onboarding_step": {Name: "onboarding_step"},
			"family_owner_id": {Name: "family_owner_id"},
			"referral_code":   {Name: "referral_code"},
			"created_at":      {Name: "created_at", Kind: KindTime},
			"updated_at":      {Name: "updated_at", Kind: KindTime},
		},
		owner: "id",
		find: findAs(func(m *models.ProfileModel) Row {
			var goals any
			if len(m.Goals) > 0 {
				goals = m.Goals
			}
			return Row{
				"id":              m.ID,
				"email":           m.Email,
				"full_name":       m.FullName,
				"avatar_url":      m.AvatarURL,
				"role":            m.Role,
				"onboarding_step": m.OnboardingStep,
				"goals":           goals,
				"family_owner_id": m.FamilyOwnerID,
				"referral_code":   m.ReferralCode,
				"created_at":      m.CreatedAt,
				"updated_at":      m.UpdatedAt,
			}
		}),
	},
	constants.TableReviews: {
		columns: Columns{
			"id":         {Name: "id"},
			"user_id":    {Name: "user_id"},
			"academy_id": {Name: "academy_id"},
			"rating":     {Name: "rating", Kind: KindInt},
			"created_at": {Name: "created_at", Kind: KindTime},
			"updated_at": {Name: "updated_at", Kind: KindTime},
		},
		find: findAs(func(m *models.ReviewModel) Row {
			return Row{
				"id":         m.ID,
				"user_id":    m.UserID,
				"academy_id": m.AcademyID,
				"rating":     m.Rating,
				"body":       m.Body,
				"body_html":  m.BodyHTML,
				"created_at": m.CreatedAt,
				"updated_at": m.UpdatedAt,
			}
		}),
	},
}

func checkinRow(m *models.CheckinModel) Row {
	row := Row{
		"id":           m.ID,
		"user_id":      m.UserID,
		"academy_id":   m.AcademyID,
		"status":       m.Status,
		"validated_at": m.ValidatedAt,
		"expired_at":   m.ExpiredAt,
		"created_at":   m.CreatedAt,
		"updated_at":   m.UpdatedAt,
	}
	if d, ok := m.DecodedDetails(); ok {
		row["latitude"] = d.Latitude
		row["longitude"] = d.Longitude
		row["distance_meters"] = d.DistanceMeters
	}
	return row
}

// HasTable reports whether name is exposed over REST.
func HasTable(name string) bool {
	_, ok := tables[name]
	return ok
}

// OwnerScoped reports whether rows of name are only visible to their owner.
func OwnerScoped(name string) bool {
	return tables[name].owner != ""
}

// RestRepository serves PostgREST style reads over the exposed tables.
type RestRepository struct {
	db *gorm.DB
}

func NewRestRepository(db *gorm.DB) *RestRepository {
	return &RestRepository{db: db}
}

// Select returns the rows of name matching p. When ownerID is set, owner
// scoped tables only yield that user's rows.
func (r *RestRepository) Select(ctx context.Context, name string, p *query.Params, ownerID string) ([]Row, error) {
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	for _, e := range p.Select.Embeds {
		if _, ok := embeds[e.Resource]; !ok {
			return nil, fmt.Errorf("%w: could not find a relationship with %s", query.ErrInvalidQuery, e.Resource)
		}
	}

	var scopes []scope
	if t.owner != "" && ownerID != "" {
		col := t.columns[t.owner].Name
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where(col+" = ?", ownerID)
		})
	}
	rows, err := t.find(ctx, r.db, t.columns, p, scopes...)
	if err != nil {
		return nil, err
	}
	if err := r.attachEmbeds(ctx, rows, p.Select.Embeds); err != nil {
		return nil, err
	}
	return projectRows(rows, p.Select)
}

func (r *RestRepository) attachEmbeds(ctx context.Context, rows []Row, requested []query.Embed) error {
	for _, e := range requested {
		rel := embeds[e.Resource]
		ids := distinctStrings(rows, rel.fk)
		related := map[string]Row{}
		if len(ids) > 0 {
			t := tables[rel.table]
			found, err := t.find(ctx, r.db, t.columns, &query.Params{
				Filters: []query.Filter{{Column: "id", Op: query.OpIn, Values: ids}},
			})
			if err != nil {
				return err
			}
			for _, row := range found {
				id, _ := row["id"].(string)
				related[id] = row
			}
		}
		for _, row := range rows {
			id, _ := stringValue(row[rel.fk])
			target, ok := related[id]
			if !ok {
				row[e.Resource] = nil
				continue
			}
			projected, err := projectRow(target, query.Select{Columns: e.Columns}, rel.public)
			if err != nil {
				return err
			}
			row[e.Resource] = projected
		}
	}
	return nil
}

func projectRows(rows []Row, sel query.Select) ([]Row, error) {
	if sel.All() {
		return rows, nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		projected, err := projectRow(row, sel, nil)
		if err != nil {
			return nil, err
		}
		for _, e := range sel.Embeds {
			projected[e.Resource] = row[e.Resource]
		}
		out[i] = projected
	}
	return out, nil
}

func projectRow(row Row, sel query.Select, public map[string]bool) (Row, error) {
	cols := sel.Columns
	if sel.All() {
		if public == nil {
			return row, nil
		}
		for c := range public {
			cols = append(cols, c)
		}
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		v, ok := row[c]
		if !ok || (public != nil && !public[c]) {
			return nil, fmt.Errorf("%w: column %q does not exist", query.ErrInvalidQuery, c)
		}
		out[c] = v
	}
	return out, nil
}

func distinctStrings(rows []Row, column string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		v, ok := stringValue(row[column])
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	}
	return "", false
}

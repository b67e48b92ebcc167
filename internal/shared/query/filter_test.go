package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Filters(t *testing.T) {
	values, err := url.ParseQuery("user_id=eq.u1&status=in.(pending,validated)&validated_at=is.null&rating=not.lt.3&name=ilike.*iron*")
	require.NoError(t, err)

	p, err := Parse(values)
	require.NoError(t, err)
	require.Len(t, p.Filters, 5)

	byColumn := map[string]Filter{}
	for _, f := range p.Filters {
		byColumn[f.Column] = f
	}
	assert.Equal(t, Filter{Column: "user_id", Op: OpEq, Value: "u1"}, byColumn["user_id"])
	assert.Equal(t, []string{"pending", "validated"}, byColumn["status"].Values)
	assert.Equal(t, "null", byColumn["validated_at"].Value)
	assert.True(t, byColumn["rating"].Not)
	assert.Equal(t, OpLt, byColumn["rating"].Op)
	assert.Equal(t, "%iron%", byColumn["name"].Value)

	v, ok := p.FilterValue("user_id")
	assert.True(t, ok)
	assert.Equal(t, "u1", v)
}

func TestParse_OrderLimitOffset(t *testing.T) {
	values, _ := url.ParseQuery("order=rank.asc,score.desc.nullslast&limit=10&offset=20")
	p, err := Parse(values)
	require.NoError(t, err)

	require.Len(t, p.Orders, 2)
	assert.Equal(t, "rank", p.Orders[0].Column)
	assert.False(t, p.Orders[0].Descending)
	assert.True(t, p.Orders[1].Descending)
	require.NotNil(t, p.Orders[1].NullsFirst)
	assert.False(t, *p.Orders[1].NullsFirst)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)
}

func TestParse_Select(t *testing.T) {
	tests := []struct {
		in      string
		columns []string
		embeds  []Embed
	}{
		{"", nil, nil},
		{"*", nil, nil},
		{"rating", []string{"rating"}, nil},
		{"*,academies(name)", nil, []Embed{{Resource: "academies", Columns: []string{"name"}}}},
		{"id, status ,academies(*)", []string{"id", "status"}, []Embed{{Resource: "academies"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := parseSelect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.columns, s.Columns)
			assert.Equal(t, tt.embeds, s.Embeds)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, q := range []string{
		"user_id=u1",
		"user_id=between.1",
		"status=in.pending",
		"validated_at=is.maybe",
		"limit=-1",
		"offset=x",
		"order=rank.sideways",
		"select=academies(name",
	} {
		t.Run(q, func(t *testing.T) {
			values, _ := url.ParseQuery(q)
			_, err := Parse(values)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestParse_OnConflict(t *testing.T) {
	values, _ := url.ParseQuery("on_conflict=user_id,academy_id")
	p, err := Parse(values)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "academy_id"}, p.OnConflict)
}

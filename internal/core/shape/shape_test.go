package shape

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	N      int
	Secret string
}

type ext struct {
	Label string `json:"label"`
}

var project Projector[rec, ext] = func(r rec) ext { return ext{Label: "#" + strconv.Itoa(r.N)} }

func TestOnePassesNil(t *testing.T) {
	assert.Nil(t, One(project, nil))
	assert.Equal(t, &ext{Label: "#3"}, One(project, &rec{N: 3, Secret: "x"}))
}

func TestListNeverNil(t *testing.T) {
	out := List(project, nil)
	require.NotNil(t, out)
	b, _ := json.Marshal(out)
	assert.Equal(t, "[]", string(b))
	assert.Equal(t, []ext{{"#1"}, {"#2"}}, List(project, []rec{{N: 1}, {N: 2}}))
}

func TestPagedKeepsMetadata(t *testing.T) {
	in := NewPage([]rec{{N: 3}, {N: 4}}, 7, 2, 2)
	out := Paged(project, in)

	assert.Equal(t, []ext{{"#3"}, {"#4"}}, out.Items)
	assert.Equal(t, 7, out.TotalCount)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.Limit)
	assert.Equal(t, 4, out.TotalPages)
	assert.True(t, out.HasPrevPage)
	assert.True(t, out.HasNextPage)
	assert.Equal(t, 1, *out.PrevPage)
	assert.Equal(t, 3, *out.NextPage)
}

func TestNewPageEdges(t *testing.T) {
	p := NewPage[rec](nil, 0, 1, 10)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.Nil(t, p.PrevPage)
	assert.Nil(t, p.NextPage)

	last := NewPage([]rec{{N: 9}}, 9, 5, 2)
	assert.Equal(t, 5, last.TotalPages)
	assert.False(t, last.HasNextPage)
	assert.LessOrEqual(t, len(last.Items), last.Limit)

	b, err := json.Marshal(NewPage([]rec{}, 0, 1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total_count":0,"page":1,"limit":2,"total_pages":0,
		"has_prev_page":false,"has_next_page":false,"prev_page":null,"next_page":null}`, string(b))
}

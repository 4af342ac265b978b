package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/users", nil)

	p, err := ParsePagination(r, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePagination_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?page=3&page_size=10", nil)

	p, err := ParsePagination(r, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset())
}

func TestParsePagination_ClampsPageSize(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?page_size=5000", nil)

	p, err := ParsePagination(r, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, p.PageSize)
}

func TestParsePagination_Invalid(t *testing.T) {
	for _, query := range []string{
		"page=0",
		"page=-1",
		"page=abc",
		"page_size=0",
		"page_size=nope",
	} {
		r := httptest.NewRequest("GET", "/users?"+query, nil)

		_, err := ParsePagination(r, 20, 100)
		assert.Error(t, err, query)
	}
}

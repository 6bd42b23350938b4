package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-03-15T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := "2024-01-02"
	got, err = ParseOptionalDate(&s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-02", FormatDate(*got))
	assert.Equal(t, "2024-01-02", *FormatOptionalDate(got))
	assert.Nil(t, FormatOptionalDate(nil))
}

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewPaginationParams(3, 10)
	assert.Equal(t, 20, p.Offset)

	p = NewPaginationParams(1, 1000)
	assert.Equal(t, 20, p.Limit)

	assert.Equal(t, PaginationResponse{Page: 3, Limit: 10, Total: 42}, NewPaginationParams(3, 10).Response(42))
}

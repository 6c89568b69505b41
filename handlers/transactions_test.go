package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingestao/fingestao-api/services"
)

func TestParseDateQueryBareDate(t *testing.T) {
	loc := services.ReferenceLocation()

	start, err := parseDateQuery("2024-06-01", false, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), start)

	end, err := parseDateQuery("2024-06-01", true, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 23, 59, 59, 0, loc), end)
}

func TestParseDateQueryRFC3339(t *testing.T) {
	loc := services.ReferenceLocation()

	parsed, err := parseDateQuery("2024-06-01T15:04:05Z", false, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC), parsed.UTC())
}

func TestParseDateQueryRejectsGarbage(t *testing.T) {
	_, err := parseDateQuery("01/06/2024", false, services.ReferenceLocation())
	assert.Error(t, err)
}

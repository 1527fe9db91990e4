package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDates(t *testing.T) {
	dates, err := ParseDates("2024-08-01, 2024-09-10,,2024-11-09 ")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC),
	}, dates)

	_, err = ParseDates("2024-08-01, 09/10/2024")
	assert.ErrorContains(t, err, "09/10/2024")

	_, err = ParseDates(" , ")
	assert.Error(t, err)
}

func TestSceneRole(t *testing.T) {
	assert.Equal(t, "pre-fire", sceneRole(0))
	assert.Equal(t, "post-fire, burn detection", sceneRole(1))
	assert.Equal(t, "recovery", sceneRole(4))
}

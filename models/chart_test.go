package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartType(t *testing.T) {
	for in, want := range map[string]ChartType{
		"bar":         ChartBar,
		" Line ":      ChartLine,
		"3D Column":   Chart3DColumn,
		"3d-donut":    Chart3DDonut,
		"3D_Scatter":  Chart3DScatter,
		"3d   column": Chart3DColumn,
	} {
		got, err := ParseChartType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseChartType("radar")
	assert.Error(t, err)
	_, err = ParseChartType("")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	r, err = ParseRole("ADMIN")
	require.NoError(t, err)
	assert.True(t, r.IsAdmin())

	_, err = ParseRole("superuser")
	assert.Error(t, err)
	assert.False(t, Role("superuser").Valid())
}

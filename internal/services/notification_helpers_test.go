package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseOnlyOn(t *testing.T) {
	def := map[int]struct{}{7: {}, 3: {}, 1: {}, 0: {}}

	require.Equal(t, def, ParseOnlyOn(""))
	require.Equal(t, def, ParseOnlyOn("мусор, , -5"))
	require.Equal(t, map[int]struct{}{14: {}, 7: {}}, ParseOnlyOn("14,7"))
	require.Equal(t, map[int]struct{}{0: {}, 3: {}}, ParseOnlyOn(" 0 , 3 "))
	// отрицательные дни отбрасываем, остальное остаётся
	require.Equal(t, map[int]struct{}{5: {}}, ParseOnlyOn("-1,5"))
}

func TestNormalizeTemplateType(t *testing.T) {
	for raw, want := range map[string]string{
		"CarReady":        TemplateCarReady,
		"carready":        TemplateCarReady,
		" UPCOMINGVISIT ": TemplateUpcomingVisit,
		"PartsNeeded":     TemplatePartsNeeded,
	} {
		got, ok := normalizeTemplateType(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got)
	}

	_, ok := normalizeTemplateType("NoSuchTemplate")
	require.False(t, ok)
}

func TestDaysUntil(t *testing.T) {
	now := time.Now().UTC()
	require.Equal(t, 0, daysUntil(now))
	require.Equal(t, 1, daysUntil(now.AddDate(0, 0, 1)))
	require.Equal(t, 7, daysUntil(now.AddDate(0, 0, 7)))
	require.Equal(t, -2, daysUntil(now.AddDate(0, 0, -2)))
}

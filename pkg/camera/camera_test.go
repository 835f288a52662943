package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasgo/pkg/model"
	"atlasgo/pkg/session"
)

func lesson() *model.Lesson {
	return &model.Lesson{
		ID: "water",
		Places: []model.Place{
			{ID: "nile", Title: "نهر النيل", Lat: 26.0, Lng: 32.0},
			{ID: "nasser", Title: "بحيرة ناصر", Lat: 22.9, Lng: 32.5},
			{ID: "bardawil", Title: "بحيرة البردويل", Lat: 31.15, Lng: 33.2},
		},
	}
}

func TestActivePlaceWins(t *testing.T) {
	snap := session.Snapshot{
		ActivePlaceID: "nile",
		HighlightIDs:  []string{"nasser", "bardawil"},
		Draw: []model.DrawAction{
			{Kind: model.DrawText, At: model.LatLng{Lat: 30, Lng: 31}, Text: "هنا"},
		},
	}

	cmd := Plan(snap, lesson())

	require.Equal(t, KindFlyTo, cmd.Kind)
	assert.Equal(t, model.LatLng{Lat: 26.0, Lng: 32.0}, cmd.Center)
	assert.Equal(t, FlyToZoom, cmd.Zoom)
	assert.Equal(t, FlyDurationSec, cmd.DurationSec)
}

func TestHighlightsFitBounds(t *testing.T) {
	snap := session.Snapshot{HighlightIDs: []string{"nasser", "bardawil"}}

	cmd := Plan(snap, lesson())

	require.Equal(t, KindFitBounds, cmd.Kind, "two distinct points take the fit branch")
	// The region must contain both coordinates.
	assert.LessOrEqual(t, cmd.SouthWest.Lat, 22.9)
	assert.GreaterOrEqual(t, cmd.NorthEast.Lat, 31.15)
	assert.LessOrEqual(t, cmd.SouthWest.Lng, 32.5)
	assert.GreaterOrEqual(t, cmd.NorthEast.Lng, 33.2)
	assert.Equal(t, FitPadding, cmd.Padding)
	assert.Equal(t, FitMaxZoom, cmd.MaxZoom)
}

func TestSingleHighlightFliesToPoint(t *testing.T) {
	snap := session.Snapshot{HighlightIDs: []string{"nasser"}}

	cmd := Plan(snap, lesson())

	require.Equal(t, KindFlyTo, cmd.Kind, "a degenerate region flies instead of fitting")
	assert.InDelta(t, 22.9, cmd.Center.Lat, 1e-9)
	assert.InDelta(t, 32.5, cmd.Center.Lng, 1e-9)
}

func TestDrawBeatsHighlights(t *testing.T) {
	snap := session.Snapshot{
		HighlightIDs: []string{"nile"},
		Draw: []model.DrawAction{
			{Kind: model.DrawPolyline, Points: []model.LatLng{
				{Lat: 30.0, Lng: 31.0},
				{Lat: 31.2, Lng: 29.9},
			}},
		},
	}

	cmd := Plan(snap, lesson())

	require.Equal(t, KindFitBounds, cmd.Kind)
	assert.LessOrEqual(t, cmd.SouthWest.Lng, 29.9)
	assert.GreaterOrEqual(t, cmd.NorthEast.Lng, 31.0)
}

func TestCircleExpandsRegion(t *testing.T) {
	snap := session.Snapshot{
		Draw: []model.DrawAction{
			{Kind: model.DrawCircle, Center: model.LatLng{Lat: 26.0, Lng: 32.0}, RadiusM: 20000},
		},
	}

	cmd := Plan(snap, lesson())

	// A circle counts as two effective points, so it is framed.
	require.Equal(t, KindFitBounds, cmd.Kind)
	assert.Less(t, cmd.SouthWest.Lat, 26.0)
	assert.Greater(t, cmd.NorthEast.Lat, 26.0)
	assert.Less(t, cmd.SouthWest.Lng, 32.0)
	assert.Greater(t, cmd.NorthEast.Lng, 32.0)
}

func TestFocusPlacesOverlay(t *testing.T) {
	snap := session.Snapshot{
		Draw: []model.DrawAction{
			{Kind: model.DrawFocusPlaces, PlaceIDs: []string{"nile", "bardawil", "ghost"}},
		},
	}

	cmd := Plan(snap, lesson())

	require.Equal(t, KindFitBounds, cmd.Kind)
	assert.LessOrEqual(t, cmd.SouthWest.Lat, 26.0)
	assert.GreaterOrEqual(t, cmd.NorthEast.Lat, 31.15)
}

func TestNothingToFrame(t *testing.T) {
	cmd := Plan(session.Snapshot{}, lesson())
	assert.Equal(t, KindNone, cmd.Kind)

	// Unknown ids everywhere degrade to none rather than a bogus frame.
	cmd = Plan(session.Snapshot{ActivePlaceID: "ghost", HighlightIDs: []string{"ghost"}}, lesson())
	assert.Equal(t, KindNone, cmd.Kind)
}

// Package camera turns a session snapshot into a declarative framing
// command for the map frontend: fly to a point, fit a bounding region, or
// stay put. The policy mirrors the dashboard's framing rules: active place
// first, then draw overlays, then highlighted places.
package camera

import (
	"github.com/paulmach/orb"

	"atlasgo/pkg/geo"
	"atlasgo/pkg/model"
	"atlasgo/pkg/session"
)

// Framing constants shared with the frontend animation.
const (
	FlyToZoom      = 14
	FitMaxZoom     = 14
	FitPadding     = 80
	FlyDurationSec = 1.5
	EaseLinearity  = 0.25

	// circleMargin scales a circle's radius before it extends the
	// bounding region, giving the ring some breathing room.
	circleMargin = 1.2
)

// Kind discriminates camera commands.
type Kind string

const (
	KindNone      Kind = "none"
	KindFlyTo     Kind = "flyTo"
	KindFitBounds Kind = "fitBounds"
)

// Command tells the frontend how to frame the map.
type Command struct {
	Kind Kind `json:"kind"`

	// flyTo
	Center model.LatLng `json:"center,omitempty"`
	Zoom   int          `json:"zoom,omitempty"`

	// fitBounds
	SouthWest model.LatLng `json:"southWest,omitempty"`
	NorthEast model.LatLng `json:"northEast,omitempty"`
	Padding   int          `json:"padding,omitempty"`
	MaxZoom   int          `json:"maxZoom,omitempty"`

	DurationSec   float64 `json:"durationSec,omitempty"`
	EaseLinearity float64 `json:"easeLinearity,omitempty"`
}

// region accumulates a bounding box plus the count of effective points,
// which decides between fly-to (degenerate region) and fit-to-bounds.
type region struct {
	bound  orb.Bound
	empty  bool
	points int
}

func newRegion() region {
	return region{empty: true}
}

func (r *region) extend(lat, lng float64) {
	pt := orb.Point{lng, lat}
	if r.empty {
		r.bound = orb.Bound{Min: pt, Max: pt}
		r.empty = false
		return
	}
	r.bound = r.bound.Extend(pt)
}

func (r *region) add(lat, lng float64) {
	r.extend(lat, lng)
	r.points++
}

// addCircle extends the region by the circle's margin box. Counts as two
// effective points so a lone circle is framed, not flown through.
func (r *region) addCircle(center model.LatLng, radiusM float64) {
	c := geo.Point{Lat: center.Lat, Lng: center.Lng}
	half := radiusM * circleMargin / 2
	for _, bearing := range []float64{0, 90, 180, 270} {
		edge := geo.DestinationPoint(c, half, bearing)
		r.extend(edge.Lat, edge.Lng)
	}
	r.points += 2
}

// Plan computes the framing command for the given snapshot.
func Plan(snap session.Snapshot, lesson *model.Lesson) Command {
	if snap.ActivePlaceID != "" {
		if p := lesson.Place(snap.ActivePlaceID); p != nil {
			return flyTo(model.LatLng{Lat: p.Lat, Lng: p.Lng})
		}
	}

	if r := regionFromDraw(snap.Draw, lesson); r.points > 0 {
		return frame(r)
	}

	if r := regionFromPlaceIDs(snap.HighlightIDs, lesson); r.points > 0 {
		return frame(r)
	}

	return Command{Kind: KindNone}
}

func regionFromDraw(draw []model.DrawAction, lesson *model.Lesson) region {
	r := newRegion()
	for _, d := range draw {
		switch d.Kind {
		case model.DrawCircle:
			r.addCircle(d.Center, d.RadiusM)
		case model.DrawPolyline:
			for _, pt := range d.Points {
				r.add(pt.Lat, pt.Lng)
			}
		case model.DrawPolygon:
			for _, ring := range d.Rings {
				for _, pt := range ring {
					r.add(pt.Lat, pt.Lng)
				}
			}
		case model.DrawText:
			r.add(d.At.Lat, d.At.Lng)
		case model.DrawFocusPlaces:
			for _, id := range d.PlaceIDs {
				if p := lesson.Place(id); p != nil {
					r.add(p.Lat, p.Lng)
				}
			}
		}
	}
	return r
}

func regionFromPlaceIDs(ids []string, lesson *model.Lesson) region {
	r := newRegion()
	for _, id := range ids {
		if p := lesson.Place(id); p != nil {
			r.add(p.Lat, p.Lng)
		}
	}
	return r
}

// frame picks fly-to for a degenerate region, fit-to-bounds otherwise.
func frame(r region) Command {
	if r.points <= 1 {
		center := r.bound.Center()
		return flyTo(model.LatLng{Lat: center[1], Lng: center[0]})
	}
	return Command{
		Kind:          KindFitBounds,
		SouthWest:     model.LatLng{Lat: r.bound.Min[1], Lng: r.bound.Min[0]},
		NorthEast:     model.LatLng{Lat: r.bound.Max[1], Lng: r.bound.Max[0]},
		Padding:       FitPadding,
		MaxZoom:       FitMaxZoom,
		DurationSec:   FlyDurationSec,
		EaseLinearity: EaseLinearity,
	}
}

func flyTo(center model.LatLng) Command {
	return Command{
		Kind:          KindFlyTo,
		Center:        center,
		Zoom:          FlyToZoom,
		DurationSec:   FlyDurationSec,
		EaseLinearity: EaseLinearity,
	}
}

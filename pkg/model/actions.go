package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LatLng is a coordinate pair serialized as a two-element [lat, lng] array,
// matching how the frontend and the authored content express coordinates.
type LatLng struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the coordinate as [lat, lng].
func (c LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (c *LatLng) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the coordinate as a flow sequence.
func (c LatLng) MarshalYAML() (interface{}, error) {
	return [2]float64{c.Lat, c.Lng}, nil
}

// UnmarshalYAML decodes a [lat, lng] sequence.
func (c *LatLng) UnmarshalYAML(node *yaml.Node) error {
	var pair [2]float64
	if err := node.Decode(&pair); err != nil {
		return fmt.Errorf("coordinate must be a [lat, lng] pair: %w", err)
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// DrawKind tags the draw overlay variants.
type DrawKind string

const (
	DrawCircle      DrawKind = "circle"
	DrawPolyline    DrawKind = "polyline"
	DrawPolygon     DrawKind = "polygon"
	DrawText        DrawKind = "text"
	DrawFocusPlaces DrawKind = "focusPlaces"
)

// DrawAction is an ephemeral map annotation. Exactly the fields of its kind
// are populated; the rest stay zero. Created by the action dispatcher,
// cleared automatically by the session's draw-expiry timer.
type DrawAction struct {
	Kind DrawKind `yaml:"kind" json:"kind"`

	// circle
	Center  LatLng  `yaml:"center,omitempty" json:"center,omitempty"`
	RadiusM float64 `yaml:"radius_m,omitempty" json:"radiusM,omitempty"`

	// polyline
	Points []LatLng `yaml:"points,omitempty" json:"points,omitempty"`

	// polygon
	Rings [][]LatLng `yaml:"rings,omitempty" json:"rings,omitempty"`

	// text
	At   LatLng `yaml:"at,omitempty" json:"at,omitempty"`
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// focusPlaces
	PlaceIDs []string `yaml:"place_ids,omitempty" json:"placeIds,omitempty"`

	// circle/polyline/polygon
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Layers is the set of map layer visibility flags. Pointers distinguish
// "leave alone" from "set" when used as a patch inside AnswerAction.
type Layers struct {
	ShowPlaces bool `json:"showPlaces"`
	ShowLabels bool `json:"showLabels"`
	ShowEgypt  bool `json:"showEgypt"`
	ShowNile   bool `json:"showNile"`
	ShowDelta  bool `json:"showDelta"`
	ShowHeat   bool `json:"showHeat"`
	ShowCoords bool `json:"showCoords"`
}

// DefaultLayers returns the layer flags a fresh session starts with.
func DefaultLayers() Layers {
	return Layers{
		ShowPlaces: true,
		ShowLabels: true,
		ShowEgypt:  true,
		ShowNile:   true,
		ShowDelta:  true,
	}
}

// LayerPatch is a partial update merged shallowly into Layers.
type LayerPatch struct {
	ShowPlaces *bool `yaml:"show_places,omitempty" json:"showPlaces,omitempty"`
	ShowLabels *bool `yaml:"show_labels,omitempty" json:"showLabels,omitempty"`
	ShowEgypt  *bool `yaml:"show_egypt,omitempty" json:"showEgypt,omitempty"`
	ShowNile   *bool `yaml:"show_nile,omitempty" json:"showNile,omitempty"`
	ShowDelta  *bool `yaml:"show_delta,omitempty" json:"showDelta,omitempty"`
	ShowHeat   *bool `yaml:"show_heat,omitempty" json:"showHeat,omitempty"`
	ShowCoords *bool `yaml:"show_coords,omitempty" json:"showCoords,omitempty"`
}

// Apply merges the patch into the given layer flags.
func (p *LayerPatch) Apply(l *Layers) {
	if p == nil {
		return
	}
	if p.ShowPlaces != nil {
		l.ShowPlaces = *p.ShowPlaces
	}
	if p.ShowLabels != nil {
		l.ShowLabels = *p.ShowLabels
	}
	if p.ShowEgypt != nil {
		l.ShowEgypt = *p.ShowEgypt
	}
	if p.ShowNile != nil {
		l.ShowNile = *p.ShowNile
	}
	if p.ShowDelta != nil {
		l.ShowDelta = *p.ShowDelta
	}
	if p.ShowHeat != nil {
		l.ShowHeat = *p.ShowHeat
	}
	if p.ShowCoords != nil {
		l.ShowCoords = *p.ShowCoords
	}
}

// AnswerAction is the declarative side-effect descriptor attached to a
// question: where to fly, what to highlight, what to draw, which layers to
// toggle. Purely data; the session manager interprets it.
type AnswerAction struct {
	FlyToPlaceID      string       `yaml:"fly_to_place_id,omitempty" json:"flyToPlaceId,omitempty"`
	HighlightPlaceIDs []string     `yaml:"highlight_place_ids,omitempty" json:"highlightPlaceIds,omitempty"`
	Draw              []DrawAction `yaml:"draw,omitempty" json:"draw,omitempty"`
	SetLayers         *LayerPatch  `yaml:"set_layers,omitempty" json:"setLayers,omitempty"`
}

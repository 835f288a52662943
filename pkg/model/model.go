// Package model defines the content records of the atlas dashboard:
// lessons, places, concept cards and quiz questions. Everything here is
// read-only at runtime; the content library loads it once at startup.
package model

// Category classifies a place on the map. The set is fixed; content
// validation rejects anything else.
type Category string

const (
	CategoryFresh       Category = "fresh"
	CategorySalty       Category = "salty"
	CategoryProblem     Category = "problem"
	CategoryProject     Category = "project"
	CategoryMega        Category = "mega"
	CategoryAgri        Category = "agri"
	CategoryTransport   Category = "transport"
	CategoryUrban       Category = "urban"
	CategoryAquaculture Category = "aquaculture"
	CategoryWaterway    Category = "waterway"
	CategoryEnergy      Category = "energy"
	CategoryRenewable   Category = "renewable"
	CategoryMineral     Category = "mineral"
)

var categories = map[Category]bool{
	CategoryFresh:       true,
	CategorySalty:       true,
	CategoryProblem:     true,
	CategoryProject:     true,
	CategoryMega:        true,
	CategoryAgri:        true,
	CategoryTransport:   true,
	CategoryUrban:       true,
	CategoryAquaculture: true,
	CategoryWaterway:    true,
	CategoryEnergy:      true,
	CategoryRenewable:   true,
	CategoryMineral:     true,
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	return categories[c]
}

// Media bundles optional images/videos attached to a place.
type Media struct {
	Images      []string `yaml:"images,omitempty" json:"images,omitempty"`
	Videos      []string `yaml:"videos,omitempty" json:"videos,omitempty"`
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
}

// Place is a named geographic point of interest within a lesson.
type Place struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Category Category `yaml:"category" json:"category"`
	Lat      float64  `yaml:"lat" json:"lat"`
	Lng      float64  `yaml:"lng" json:"lng"`
	Summary  string   `yaml:"summary" json:"summary"`
	Details  []string `yaml:"details,omitempty" json:"details,omitempty"`
	Media    *Media   `yaml:"media,omitempty" json:"media,omitempty"`
}

// ValidCoordinates reports whether the place sits on the globe.
func (p *Place) ValidCoordinates() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// ConceptCard is a short teaching card: a headline plus bullet fragments.
// The tutor mines the bullets as a last-resort answer source.
type ConceptCard struct {
	Title   string   `yaml:"title" json:"title"`
	Bullets []string `yaml:"bullets" json:"bullets"`
}

// Activity is a suggested offline/classroom activity attached to a lesson.
type Activity struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Lesson is an immutable content unit: places, concept cards and the
// question bank all hang off a lesson id.
type Lesson struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	AgeHint      string        `yaml:"age_hint,omitempty" json:"age_hint,omitempty"`
	Objectives   []string      `yaml:"objectives" json:"objectives"`
	ConceptCards []ConceptCard `yaml:"concept_cards" json:"concept_cards"`
	Places       []Place       `yaml:"places" json:"places"`
	Activities   []Activity    `yaml:"activities,omitempty" json:"activities,omitempty"`
}

// Place returns the place with the given id, or nil.
func (l *Lesson) Place(id string) *Place {
	for i := range l.Places {
		if l.Places[i].ID == id {
			return &l.Places[i]
		}
	}
	return nil
}

// QuickFact is a short key/value pair for compact display.
type QuickFact struct {
	K string `yaml:"k" json:"k"`
	V string `yaml:"v" json:"v"`
}

// Answer is the prepared response attached to a quiz question.
type Answer struct {
	Title           string      `yaml:"title" json:"title"`
	Paragraphs      []string    `yaml:"paragraphs" json:"paragraphs"`
	QuickFacts      []QuickFact `yaml:"quick_facts,omitempty" json:"quick_facts,omitempty"`
	NextSuggestions []string    `yaml:"next_suggestions,omitempty" json:"next_suggestions,omitempty"`
}

// QuizQuestion is a predefined Q&A unit scoped to exactly one lesson.
type QuizQuestion struct {
	ID               string        `yaml:"id" json:"id"`
	LessonID         string        `yaml:"lesson_id" json:"lesson_id"`
	Difficulty       int           `yaml:"difficulty" json:"difficulty"` // 1..3
	Prompt           string        `yaml:"prompt" json:"prompt"`
	ExpectedKeywords []string      `yaml:"expected_keywords,omitempty" json:"expected_keywords,omitempty"`
	Answer           Answer        `yaml:"answer" json:"answer"`
	Action           *AnswerAction `yaml:"action,omitempty" json:"action,omitempty"`
}

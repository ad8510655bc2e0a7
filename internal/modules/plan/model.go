// README: Trip request / itinerary aggregate and error kinds.
package plan

import (
	"errors"
	"time"
)

var (
	ErrInvalidRequest   = errors.New("invalid trip request")
	ErrGenerationFailed = errors.New("plan generation failed")
	ErrNotFound         = errors.New("plan not found")
	ErrStoreUnavailable = errors.New("plan store unavailable")
)

// TripRequest is the user-supplied trip specification. It is consumed once per
// generation and never stored on its own.
type TripRequest struct {
	Destination string  `json:"destination"`
	Days        int     `json:"days"`
	Budget      float64 `json:"budget"`
	Travelers   int     `json:"travelers"`
	Preferences string  `json:"preferences,omitempty"`
	UserID      string  `json:"userId,omitempty"`
}

// Validate checks the request shape before any vendor call is made.
func (r TripRequest) Validate() error {
	if r.Destination == "" || r.Days <= 0 || r.Budget < 0 || r.Travelers <= 0 {
		return ErrInvalidRequest
	}
	return nil
}

// Activity is a single itinerary entry. Time, type, location and duration are
// free text from the model; only cost is constrained (>= 0).
type Activity struct {
	Time        string  `json:"time"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Cost        float64 `json:"cost"`
	Duration    string  `json:"duration"`
}

// DayPlan is one day of the itinerary. Day indices are 1-based and unique
// within an itinerary; gaps are tolerated.
type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
	TotalCost  float64    `json:"totalCost"`
}

// Summary aggregates itinerary costs and advice.
type Summary struct {
	TotalCost float64            `json:"totalCost"`
	Breakdown map[string]float64 `json:"breakdown"`
	Tips      []string           `json:"tips"`
}

// GeneratedItinerary is the normalized generation output. Destination, days
// and budget always echo the originating request, never the model. RawContent
// is set only when structured extraction failed.
type GeneratedItinerary struct {
	Destination string    `json:"destination"`
	Days        int       `json:"days"`
	Budget      float64   `json:"budget"`
	Itinerary   []DayPlan `json:"itinerary"`
	Summary     Summary   `json:"summary"`
	RawContent  string    `json:"rawContent,omitempty"`
}

// Degraded reports whether this itinerary is the fallback structure produced
// when vendor output could not be parsed.
func (g GeneratedItinerary) Degraded() bool {
	return g.RawContent != ""
}

// Record is a persisted plan. The identifier is assigned on insert and stable
// for the record's lifetime; records are never updated in place.
type Record struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Destination string             `json:"destination"`
	Days        int                `json:"days"`
	Budget      float64            `json:"budget"`
	Travelers   int                `json:"travelers"`
	Preferences string             `json:"preferences,omitempty"`
	Plan        GeneratedItinerary `json:"planData"`
	CreatedAt   time.Time          `json:"createdAt"`
}

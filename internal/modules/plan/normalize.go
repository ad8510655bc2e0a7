// README: Vendor output normalizer; balanced-brace extraction with graceful degradation.
package plan

import "encoding/json"

// rawSummary mirrors Summary with a pointer total so an absent totalCost can be
// told apart from an explicit zero.
type rawSummary struct {
	TotalCost *float64           `json:"totalCost"`
	Breakdown map[string]float64 `json:"breakdown"`
	Tips      []string           `json:"tips"`
}

type rawDayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
	TotalCost  *float64   `json:"totalCost"`
}

type rawItinerary struct {
	Itinerary *[]rawDayPlan `json:"itinerary"`
	Summary   *rawSummary   `json:"summary"`
}

// Normalize turns raw vendor text into a GeneratedItinerary. It never fails:
// unparseable output degrades to an empty itinerary carrying the raw text.
// Destination, days and budget are always taken from req, regardless of what
// the model echoed.
func Normalize(raw string, req TripRequest) GeneratedItinerary {
	span, ok := extractJSONSpan(raw)
	if !ok {
		return degraded(req, raw)
	}

	var parsed rawItinerary
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return degraded(req, raw)
	}
	if parsed.Itinerary == nil || parsed.Summary == nil {
		return degraded(req, raw)
	}

	days := make([]DayPlan, 0, len(*parsed.Itinerary))
	seen := make(map[int]bool, len(*parsed.Itinerary))
	for _, rd := range *parsed.Itinerary {
		// Duplicate day indices are not tolerated; the first occurrence wins.
		if seen[rd.Day] {
			continue
		}
		seen[rd.Day] = true

		acts := rd.Activities
		if acts == nil {
			acts = []Activity{}
		}
		for i := range acts {
			acts[i].Cost = clamp(acts[i].Cost)
		}

		var total float64
		if rd.TotalCost != nil {
			total = clamp(*rd.TotalCost)
		} else {
			for _, a := range acts {
				total += a.Cost
			}
		}

		days = append(days, DayPlan{
			Day:        rd.Day,
			Date:       rd.Date,
			Activities: acts,
			TotalCost:  total,
		})
	}

	var total float64
	if parsed.Summary.TotalCost != nil {
		total = clamp(*parsed.Summary.TotalCost)
	} else {
		for _, d := range days {
			total += d.TotalCost
		}
	}

	breakdown := make(map[string]float64, len(parsed.Summary.Breakdown))
	for k, v := range parsed.Summary.Breakdown {
		breakdown[k] = clamp(v)
	}
	tips := parsed.Summary.Tips
	if tips == nil {
		tips = []string{}
	}

	return GeneratedItinerary{
		Destination: req.Destination,
		Days:        req.Days,
		Budget:      req.Budget,
		Itinerary:   days,
		Summary: Summary{
			TotalCost: total,
			Breakdown: breakdown,
			Tips:      tips,
		},
	}
}

// degraded is the well-defined fallback structure: empty itinerary, zeroed
// summary, and the full vendor text preserved for display.
func degraded(req TripRequest, raw string) GeneratedItinerary {
	return GeneratedItinerary{
		Destination: req.Destination,
		Days:        req.Days,
		Budget:      req.Budget,
		Itinerary:   []DayPlan{},
		Summary: Summary{
			TotalCost: 0,
			Breakdown: map[string]float64{},
			Tips:      []string{},
		},
		RawContent: raw,
	}
}

// extractJSONSpan returns the first balanced {...} span in s. Matching counts
// nesting depth over bytes, so objects nested inside the span do not truncate
// it. Only the first outermost span is attempted; there is no backtracking to
// a later span.
func extractJSONSpan(s string) (string, bool) {
	start := -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

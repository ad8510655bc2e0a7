// README: Voice-transcript extraction into partial trip parameters.
package speech

import (
	"regexp"
	"strconv"

	"roam/internal/modules/plan"
)

var (
	reDestination = regexp.MustCompile(`去(.+?)(?:旅行|旅游|玩)`)
	reBudget      = regexp.MustCompile(`(\d+)(万|千|元)`)
	reDays        = regexp.MustCompile(`(\d+)天`)
	reTravelers   = regexp.MustCompile(`(\d+)(?:个人|人|位)`)
)

// ParseTripRequest extracts trip parameters from a spoken transcript like
// "我想去日本，5天，预算1万元，2个人". Fields that cannot be extracted stay
// zero-valued; the caller decides what to do with an incomplete request.
func ParseTripRequest(text string) plan.TripRequest {
	var req plan.TripRequest

	if m := reDestination.FindStringSubmatch(text); m != nil {
		req.Destination = m[1]
	}
	if m := reBudget.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "万":
			n *= 10000
		case "千":
			n *= 1000
		}
		req.Budget = float64(n)
	}
	if m := reDays.FindStringSubmatch(text); m != nil {
		req.Days, _ = strconv.Atoi(m[1])
	}
	if m := reTravelers.FindStringSubmatch(text); m != nil {
		req.Travelers, _ = strconv.Atoi(m[1])
	}
	return req
}

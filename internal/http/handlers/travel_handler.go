// README: Travel plan handler (generation, retrieval, deletion, geo proxying).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roam/internal/http/middleware"
	"roam/internal/maps"
	"roam/internal/modules/plan"
)

// PlanService is the orchestration boundary consumed by this handler.
// Satisfied by *plan.Service.
type PlanService interface {
	CreatePlan(ctx context.Context, req plan.TripRequest) (*plan.PlanResult, error)
	GetPlan(ctx context.Context, id string) (*plan.Record, error)
	ListPlans(ctx context.Context, userID string) ([]plan.Record, error)
	DeletePlan(ctx context.Context, id string) error
}

type TravelHandler struct {
	plans  PlanService
	geo    *maps.AmapService
	routes *maps.RouteService

	genTimeout time.Duration
}

func NewTravelHandler(plans PlanService, geo *maps.AmapService, routes *maps.RouteService, genTimeout time.Duration) *TravelHandler {
	if genTimeout <= 0 {
		genTimeout = 90 * time.Second
	}
	return &TravelHandler{plans: plans, geo: geo, routes: routes, genTimeout: genTimeout}
}

// CreatePlan handles POST /api/travel/plan.
func (h *TravelHandler) CreatePlan(c *gin.Context) {
	var req plan.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	// When a verified identity is present it wins over whatever the body says;
	// an unauthenticated caller may still generate anonymously or by body id.
	if uid, ok := middleware.UID(c); ok {
		if req.UserID != "" && req.UserID != uid {
			writeError(c, http.StatusForbidden, "userId does not match token")
			return
		}
		req.UserID = uid
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.genTimeout)
	defer cancel()

	res, err := h.plans.CreatePlan(ctx, req)
	if err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success": true,
		"plan":    res.Itinerary,
		"planId":  res.PlanID,
	})
}

// ListPlans handles GET /api/travel/plans/:userId.
func (h *TravelHandler) ListPlans(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		writeError(c, http.StatusBadRequest, "missing userId")
		return
	}

	records, err := h.plans.ListPlans(c.Request.Context(), userID)
	if err != nil {
		writePlanError(c, err)
		return
	}
	if records == nil {
		records = []plan.Record{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "plans": records})
}

// GetPlan handles GET /api/travel/plan/:planId.
func (h *TravelHandler) GetPlan(c *gin.Context) {
	rec, err := h.plans.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "plan": rec})
}

// DeletePlan handles DELETE /api/travel/plan/:planId.
func (h *TravelHandler) DeletePlan(c *gin.Context) {
	if err := h.plans.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}

// POI handles GET /api/travel/poi.
func (h *TravelHandler) POI(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		writeError(c, http.StatusBadRequest, "missing keyword")
		return
	}

	data, err := h.geo.SearchPOI(c.Request.Context(), keyword, c.Query("city"))
	if err != nil {
		writeGeoError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "data": data})
}

// Geocode handles GET /api/travel/geocode.
func (h *TravelHandler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		writeError(c, http.StatusBadRequest, "missing address")
		return
	}

	data, err := h.geo.Geocode(c.Request.Context(), address)
	if err != nil {
		writeGeoError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "data": data})
}

// Estimate handles GET /api/travel/estimate.
func (h *TravelHandler) Estimate(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, "route service not configured")
		return
	}
	origin, destination := c.Query("origin"), c.Query("destination")
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "missing origin or destination")
		return
	}

	est, err := h.routes.GetTravelEstimate(c.Request.Context(), origin, destination)
	if err != nil {
		writeError(c, http.StatusBadGateway, "route lookup failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success":         true,
		"durationMinutes": est.Duration.Minutes(),
		"distance":        est.Distance,
	})
}

func writeGeoError(c *gin.Context, err error) {
	if errors.Is(err, maps.ErrMapKeyMissing) {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeError(c, http.StatusBadGateway, "map vendor request failed")
}

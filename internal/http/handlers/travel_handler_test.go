// README: Tests for travel handler routing, authorization, and error mapping.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"roam/internal/ai"
	"roam/internal/http/handlers"
	httpmiddleware "roam/internal/http/middleware"
	"roam/internal/infra"
	"roam/internal/modules/plan"
)

// stubPlanService is a test double for handlers.PlanService.
type stubPlanService struct {
	createRes *plan.PlanResult
	createErr error
	getRec    *plan.Record
	getErr    error
	listRecs  []plan.Record
	listErr   error
	deleteErr error

	lastCreate plan.TripRequest
}

func (s *stubPlanService) CreatePlan(_ context.Context, req plan.TripRequest) (*plan.PlanResult, error) {
	s.lastCreate = req
	return s.createRes, s.createErr
}

func (s *stubPlanService) GetPlan(_ context.Context, _ string) (*plan.Record, error) {
	return s.getRec, s.getErr
}

func (s *stubPlanService) ListPlans(_ context.Context, _ string) ([]plan.Record, error) {
	return s.listRecs, s.listErr
}

func (s *stubPlanService) DeletePlan(_ context.Context, _ string) error {
	return s.deleteErr
}

// stubTokenVerifier is a test double for infra.TokenVerifier.
type stubTokenVerifier struct {
	token *infra.AuthToken
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.AuthToken, error) {
	return s.token, s.err
}

func buildTestRouter(svc handlers.PlanService, verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	h := handlers.NewTravelHandler(svc, nil, nil, 0)
	r.POST("/api/travel/plan", h.CreatePlan)
	r.GET("/api/travel/plans/:userId", h.ListPlans)
	r.GET("/api/travel/plan/:planId", h.GetPlan)
	r.DELETE("/api/travel/plan/:planId", h.DeletePlan)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"destination": "Kyoto",
		"days":        3,
		"budget":      5000,
		"travelers":   2,
	}
}

func TestCreatePlan_Success(t *testing.T) {
	id := "plan-1"
	svc := &stubPlanService{createRes: &plan.PlanResult{
		Itinerary: plan.GeneratedItinerary{Destination: "Kyoto", Days: 3, Budget: 5000},
		PlanID:    &id,
	}}
	r := buildTestRouter(svc, nil)
	w := doRequest(r, http.MethodPost, "/api/travel/plan", validBody(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"planId":"plan-1"`) {
		t.Errorf("expected planId in body, got %s", w.Body.String())
	}
}

func TestCreatePlan_TokenUIDOverridesBody(t *testing.T) {
	svc := &stubPlanService{createRes: &plan.PlanResult{}}
	verifier := &stubTokenVerifier{token: &infra.AuthToken{UID: "user-a"}}
	r := buildTestRouter(svc, verifier)
	body := validBody()
	w := doRequest(r, http.MethodPost, "/api/travel/plan", body, "Bearer tok")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastCreate.UserID != "user-a" {
		t.Errorf("expected verified uid to be applied, got %q", svc.lastCreate.UserID)
	}
}

func TestCreatePlan_UIDMismatchForbidden(t *testing.T) {
	svc := &stubPlanService{createRes: &plan.PlanResult{}}
	verifier := &stubTokenVerifier{token: &infra.AuthToken{UID: "user-a"}}
	r := buildTestRouter(svc, verifier)
	body := validBody()
	body["userId"] = "user-b"
	w := doRequest(r, http.MethodPost, "/api/travel/plan", body, "Bearer tok")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestCreatePlan_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid request", plan.ErrInvalidRequest, http.StatusBadRequest},
		{"credentials missing", ai.ErrCredentialsMissing, http.StatusBadRequest},
		{"generation failed", fmt.Errorf("%w: %w", plan.ErrGenerationFailed, ai.ErrVendorUnreachable), http.StatusBadGateway},
		{"store unavailable", plan.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := buildTestRouter(&stubPlanService{createErr: tc.err}, nil)
			w := doRequest(r, http.MethodPost, "/api/travel/plan", validBody(), "")
			if w.Code != tc.code {
				t.Errorf("expected %d, got %d", tc.code, w.Code)
			}
		})
	}
}

func TestListPlans_EmptyIsArray(t *testing.T) {
	r := buildTestRouter(&stubPlanService{listRecs: nil}, nil)
	w := doRequest(r, http.MethodGet, "/api/travel/plans/user-a", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"plans":[]`) {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	r := buildTestRouter(&stubPlanService{getErr: plan.ErrNotFound}, nil)
	w := doRequest(r, http.MethodGet, "/api/travel/plan/missing", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDeletePlan_OK(t *testing.T) {
	r := buildTestRouter(&stubPlanService{}, nil)
	w := doRequest(r, http.MethodDelete, "/api/travel/plan/plan-1", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

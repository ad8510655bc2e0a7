// README: Plan orchestrator; prompt -> generate -> normalize -> optional persist.
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"roam/internal/ai"
)

// Generator is the single-attempt generation boundary. Satisfied by the
// clients in internal/ai.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlanStore is the persistence boundary for stored plan records.
type PlanStore interface {
	Insert(ctx context.Context, rec *Record) (string, error)
	Get(ctx context.Context, id string) (*Record, error)
	ListByOwner(ctx context.Context, userID string) ([]Record, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store        PlanStore
	gen          Generator
	log          *zap.Logger
	storeTimeout time.Duration
}

func NewService(store PlanStore, gen Generator, log *zap.Logger, storeTimeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &Service{store: store, gen: gen, log: log, storeTimeout: storeTimeout}
}

// PlanResult is the orchestrator's API-facing result: the normalized itinerary
// plus the assigned record id, or nil when the plan was not persisted.
type PlanResult struct {
	Itinerary GeneratedItinerary `json:"plan"`
	PlanID    *string            `json:"planId"`
}

// CreatePlan runs one generation attempt end to end. Generation failures
// propagate and nothing is persisted; a persistence failure after a successful
// generation still returns the itinerary, with a nil plan id.
func (s *Service) CreatePlan(ctx context.Context, req TripRequest) (*PlanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrCredentialsMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	itinerary := Normalize(raw, req)

	var planID *string
	// Persist only for identified owners, and only while the caller still
	// wants the response.
	if req.UserID != "" && ctx.Err() == nil {
		sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		id, err := s.store.Insert(sctx, &Record{
			UserID:      req.UserID,
			Destination: req.Destination,
			Days:        req.Days,
			Budget:      req.Budget,
			Travelers:   req.Travelers,
			Preferences: req.Preferences,
			Plan:        itinerary,
			CreatedAt:   time.Now(),
		})
		cancel()
		if err != nil {
			s.log.Warn("plan generated but not persisted",
				zap.String("user_id", req.UserID), zap.Error(err))
		} else {
			planID = &id
		}
	}

	return &PlanResult{Itinerary: itinerary, PlanID: planID}, nil
}

// GetPlan fetches a stored record by id. Store errors surface directly.
func (s *Service) GetPlan(ctx context.Context, id string) (*Record, error) {
	return s.store.Get(ctx, id)
}

// ListPlans returns the owner's stored records, newest first.
func (s *Service) ListPlans(ctx context.Context, userID string) ([]Record, error) {
	return s.store.ListByOwner(ctx, userID)
}

// DeletePlan removes a stored record by id.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

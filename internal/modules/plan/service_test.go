package plan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"roam/internal/ai"
)

// stubGenerator returns a fixed response or error.
type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

// memStore is an in-memory PlanStore.
type memStore struct {
	records   map[string]*Record
	nextID    int
	insertErr error
	inserts   int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*Record{}}
}

func (m *memStore) Insert(_ context.Context, rec *Record) (string, error) {
	m.inserts++
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.nextID++
	id := fmt.Sprintf("plan-%d", m.nextID)
	cp := *rec
	cp.ID = id
	m.records[id] = &cp
	return id, nil
}

func (m *memStore) Get(_ context.Context, id string) (*Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) ListByOwner(_ context.Context, userID string) ([]Record, error) {
	var out []Record
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

const validVendorText = `{"itinerary": [{"day": 1, "date": "d1", "totalCost": 100}], "summary": {"totalCost": 100}}`

func validRequest() TripRequest {
	return TripRequest{Destination: "大阪", Days: 3, Budget: 6000, Travelers: 2, UserID: "user-1"}
}

func TestCreatePlan_ValidationFailures(t *testing.T) {
	gen := &stubGenerator{text: validVendorText}
	svc := NewService(newMemStore(), gen, nil, 0)

	tests := []struct {
		name string
		req  TripRequest
	}{
		{"empty destination", TripRequest{Days: 1, Budget: 1, Travelers: 1}},
		{"zero days", TripRequest{Destination: "x", Budget: 1, Travelers: 1}},
		{"negative budget", TripRequest{Destination: "x", Days: 1, Budget: -1, Travelers: 1}},
		{"zero travelers", TripRequest{Destination: "x", Days: 1, Budget: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePlan(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for invalid requests", gen.calls)
	}
}

func TestCreatePlan_EchoesRequestFields(t *testing.T) {
	svc := NewService(newMemStore(), &stubGenerator{text: validVendorText}, nil, 0)
	req := validRequest()

	res, err := svc.CreatePlan(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Itinerary.Destination != req.Destination ||
		res.Itinerary.Days != req.Days ||
		res.Itinerary.Budget != req.Budget {
		t.Errorf("echoed fields altered: %+v", res.Itinerary)
	}
	if res.PlanID == nil {
		t.Error("expected a plan id for an identified owner")
	}
}

func TestCreatePlan_GenerationFailureDoesNotPersist(t *testing.T) {
	store := newMemStore()
	gen := &stubGenerator{err: fmt.Errorf("%w: boom", ai.ErrVendorUnreachable)}
	svc := NewService(store, gen, nil, 0)

	_, err := svc.CreatePlan(context.Background(), validRequest())
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, ai.ErrVendorUnreachable) {
		t.Errorf("vendor kind lost: %v", err)
	}
	if store.inserts != 0 {
		t.Errorf("store touched %d times after generation failure", store.inserts)
	}
}

func TestCreatePlan_CredentialsMissingSurfacedDirectly(t *testing.T) {
	svc := NewService(newMemStore(), &stubGenerator{err: ai.ErrCredentialsMissing}, nil, 0)

	_, err := svc.CreatePlan(context.Background(), validRequest())
	if !errors.Is(err, ai.ErrCredentialsMissing) {
		t.Fatalf("err = %v, want ErrCredentialsMissing", err)
	}
	if errors.Is(err, ErrGenerationFailed) {
		t.Error("credentials-missing must not be reported as a generation failure")
	}
}

func TestCreatePlan_StoreFailurePartialSuccess(t *testing.T) {
	store := newMemStore()
	store.insertErr = ErrStoreUnavailable
	svc := NewService(store, &stubGenerator{text: validVendorText}, nil, 0)

	res, err := svc.CreatePlan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("create should not fail on persistence error, got %v", err)
	}
	if res.PlanID != nil {
		t.Errorf("planId = %v, want nil", *res.PlanID)
	}
	if len(res.Itinerary.Itinerary) != 1 {
		t.Errorf("full itinerary must still be returned: %+v", res.Itinerary)
	}
}

func TestCreatePlan_AnonymousNotPersisted(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &stubGenerator{text: validVendorText}, nil, 0)

	req := validRequest()
	req.UserID = ""
	res, err := svc.CreatePlan(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.PlanID != nil {
		t.Error("anonymous generation must not assign a plan id")
	}
	if store.inserts != 0 {
		t.Errorf("store touched %d times for anonymous request", store.inserts)
	}
}

func TestCreatePlan_CancelledContextSkipsPersist(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &stubGenerator{text: validVendorText}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.CreatePlan(ctx, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.inserts != 0 {
		t.Errorf("store write must be skipped when the response is no longer needed, got %d inserts", store.inserts)
	}
	if res.PlanID != nil {
		t.Error("planId should be nil when persistence is skipped")
	}
}

func TestCreatePlan_DegradedStillReturned(t *testing.T) {
	svc := NewService(newMemStore(), &stubGenerator{text: "no structure here"}, nil, 0)

	res, err := svc.CreatePlan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("degraded vendor output must not fail the flow: %v", err)
	}
	if !res.Itinerary.Degraded() {
		t.Error("expected degraded itinerary")
	}
	if res.Itinerary.RawContent != "no structure here" {
		t.Errorf("rawContent = %q", res.Itinerary.RawContent)
	}
}

func TestDeletePlan_NotFound(t *testing.T) {
	svc := NewService(newMemStore(), &stubGenerator{text: validVendorText}, nil, 0)
	if err := svc.DeletePlan(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetPlan_RoundTrip(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &stubGenerator{text: validVendorText}, nil, 0)

	res, err := svc.CreatePlan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := svc.GetPlan(context.Background(), *res.PlanID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.UserID != "user-1" || rec.Destination != "大阪" {
		t.Errorf("record = %+v", rec)
	}
	if err := svc.DeletePlan(context.Background(), rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPlan(context.Background(), rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

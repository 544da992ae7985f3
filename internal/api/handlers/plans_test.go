package handlers

import (
	"context"
	"delivery-sim-service/internal/api/dto"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubScenarioSource struct {
	sc  *domain.Scenario
	err error
}

func (s *stubScenarioSource) LoadScenario(ctx context.Context) (*domain.Scenario, error) {
	return s.sc, s.err
}

type stubScenarioGenerator struct {
	stubScenarioSource
	params ports.ScenarioParams
}

func (g *stubScenarioGenerator) GenerateScenario(ctx context.Context, p ports.ScenarioParams) (*domain.Scenario, error) {
	g.params = p
	return g.sc, g.err
}

func smallScenario(t *testing.T) *domain.Scenario {
	t.Helper()
	net := domain.NewRoadNetwork()
	net.AddNode(0, 0)
	net.AddNode(500, 0)
	net.AddNode(500, 400)
	for _, e := range []domain.Edge{
		{From: 0, To: 1, LengthM: 500}, {From: 1, To: 0, LengthM: 500},
		{From: 1, To: 2, LengthM: 400}, {From: 2, To: 1, LengthM: 400},
		{From: 0, To: 2, LengthM: 700}, {From: 2, To: 0, LengthM: 700},
	} {
		if _, err := net.AddEdge(e); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}
	return &domain.Scenario{
		Name:    "small",
		Network: net,
		Depot:   0,
		Orders: []domain.Order{
			{ID: 1, Node: 1, DeadlineMin: 30, WeightKg: 3},
			{ID: 2, Node: 2, DeadlineMin: 60, WeightKg: 4, Fragile: true},
		},
	}
}

func TestPlanReturnsComparison(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{sc: smallScenario(t)}}

	body := `{"seed": 5, "generations": 10, "population_size": 16, "compare_baseline": true}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Scenario != "small" {
		t.Errorf("scenario = %q, want small", res.Scenario)
	}
	if len(res.Sequence) != 2 {
		t.Errorf("sequence = %v, want two stops", res.Sequence)
	}
	if res.Optimized.OrdersDelivered != 2 {
		t.Errorf("optimized delivered = %d, want 2", res.Optimized.OrdersDelivered)
	}
	if res.Baseline == nil {
		t.Fatal("baseline requested but absent from response")
	}
	if res.Winner != "baseline" && res.Winner != "optimized" {
		t.Errorf("winner = %q, want baseline or optimized", res.Winner)
	}
}

func TestPlanSkipsBaselineByDefault(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{sc: smallScenario(t)}}

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"generations": 5}`))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Baseline != nil {
		t.Error("baseline present without being requested")
	}
}

func TestPlanRejectsBadRequests(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{sc: smallScenario(t)}}

	cases := []struct{ name, body string }{
		{"unknown field", `{"trucks": 3}`},
		{"two documents", `{}{}`},
		{"negative workers", `{"workers": -1}`},
		{"huge generations", `{"generations": 10000}`},
		{"negative capacity", `{"capacity_kg": -5}`},
		{"oversized grid", `{"scenario": {"grid_size": 100}}`},
		{"negative order count", `{"scenario": {"order_count": -1}}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		h.Plan(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestPlanGeneratesScenarioOnRequest(t *testing.T) {
	gen := &stubScenarioGenerator{stubScenarioSource: stubScenarioSource{sc: smallScenario(t)}}
	h := &PlanHandler{Scenarios: gen}

	body := `{"generations": 5, "scenario": {"grid_size": 4, "order_count": 2, "map_seed": 7, "order_seed": 8}}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	want := ports.ScenarioParams{GridSize: 4, OrderCount: 2, MapSeed: 7, OrderSeed: 8}
	if gen.params != want {
		t.Errorf("generator params = %+v, want %+v", gen.params, want)
	}
}

func TestPlanScenarioOverrideNeedsGenerator(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{sc: smallScenario(t)}}

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"scenario": {"order_count": 3}}`))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestPlanMethodNotAllowed(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{sc: smallScenario(t)}}

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Allow = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestPlanScenarioFailure(t *testing.T) {
	h := &PlanHandler{Scenarios: &stubScenarioSource{err: errors.New("source down")}}

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockGateway struct {
	records []domain.CompanyRecord
	err     error
	called  bool

	lastVector     []float32
	lastCandidates int
	lastLimit      int
	lastIndustries []string
}

func (m *mockGateway) Search(
	_ context.Context, vector []float32, numCandidates, limit int, industries []string,
) ([]domain.CompanyRecord, error) {
	m.called = true
	m.lastVector = vector
	m.lastCandidates = numCandidates
	m.lastLimit = limit
	m.lastIndustries = industries
	return m.records, m.err
}

func newTestService(embed *mockEmbedder, gateway *mockGateway) *Service {
	return New(embed, gateway, zap.NewNop())
}

// --- Tests ---

func TestSearch_BlankDescription_NoOutboundCalls(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	gateway := &mockGateway{}
	svc := newTestService(embed, gateway)

	res, err := svc.Search(context.Background(), "   \n ", "", 1000, 10000)
	if err == nil {
		t.Fatal("expected error for blank description")
	}
	if !errors.Is(err, domain.ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
	if embed.called {
		t.Error("embedder should not be called for blank description")
	}
	if gateway.called {
		t.Error("gateway should not be called for blank description")
	}
	if res.Status() != domain.StatusUnset {
		t.Errorf("expected StatusUnset, got %v", res.Status())
	}
}

func TestSearch_EmbeddingFailure_StateUnset_NoQuery(t *testing.T) {
	embed := &mockEmbedder{err: errors.New("provider down")}
	gateway := &mockGateway{}
	svc := newTestService(embed, gateway)

	res, err := svc.Search(context.Background(), "AI startup", "", 1000, 10000)
	if err == nil {
		t.Fatal("expected error from embedding failure")
	}
	if gateway.called {
		t.Error("gateway should not be called after embedding failure")
	}
	if res.Status() != domain.StatusUnset {
		t.Errorf("expected StatusUnset after embedding failure, got %v", res.Status())
	}
	if svc.Current().Status() != domain.StatusUnset {
		t.Errorf("expected Current() Unset, got %v", svc.Current().Status())
	}
}

func TestSearch_GatewayFailure_StateUnset(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	gateway := &mockGateway{err: errors.New("index missing")}
	svc := newTestService(embed, gateway)

	res, err := svc.Search(context.Background(), "AI startup", "", 1000, 10000)
	if err == nil {
		t.Fatal("expected error from gateway failure")
	}
	if res.Status() != domain.StatusUnset {
		t.Errorf("expected StatusUnset after gateway failure, got %v", res.Status())
	}
}

func TestSearch_ZeroMatches_StateEmpty(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	gateway := &mockGateway{records: []domain.CompanyRecord{}}
	svc := newTestService(embed, gateway)

	res, err := svc.Search(context.Background(), "AI startup", "", 1000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status() != domain.StatusEmpty {
		t.Errorf("expected StatusEmpty, got %v", res.Status())
	}
}

func TestSearch_Populated(t *testing.T) {
	records := []domain.CompanyRecord{
		{Score: 0.95, Name: "Acme AI"},
		{Score: 0.90, Name: "LogiCorp"},
		{Score: 0.85, Name: "ShipFast"},
	}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	gateway := &mockGateway{records: records}
	svc := newTestService(embed, gateway)

	res, err := svc.Search(context.Background(), "AI startup for logistics", "", 1000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status() != domain.StatusPopulated {
		t.Fatalf("expected StatusPopulated, got %v", res.Status())
	}
	if res.Count() != 3 {
		t.Errorf("expected 3 records, got %d", res.Count())
	}
	if svc.Current().Count() != 3 {
		t.Errorf("expected Current() to hold 3 records, got %d", svc.Current().Count())
	}
}

func TestSearch_ParametersPassedThrough(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	gateway := &mockGateway{records: []domain.CompanyRecord{{Name: "Acme"}}}
	svc := newTestService(embed, gateway)

	_, err := svc.Search(context.Background(), "desc", "AI, SaaS , ", 500, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.lastLimit != 500 {
		t.Errorf("limit = %d, want 500", gateway.lastLimit)
	}
	if gateway.lastCandidates != 2000 {
		t.Errorf("numCandidates = %d, want 2000", gateway.lastCandidates)
	}
	if gateway.lastCandidates < gateway.lastLimit {
		t.Errorf("invariant violated: candidates %d < limit %d", gateway.lastCandidates, gateway.lastLimit)
	}
	if len(gateway.lastIndustries) != 2 || gateway.lastIndustries[0] != "AI" || gateway.lastIndustries[1] != "SaaS" {
		t.Errorf("industries = %v, want [AI SaaS]", gateway.lastIndustries)
	}
	if len(gateway.lastVector) != 2 {
		t.Errorf("expected embedding vector passed through, got %v", gateway.lastVector)
	}
}

func TestSearch_PriorResultsClearedOnFailure(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	gateway := &mockGateway{records: []domain.CompanyRecord{{Name: "Acme"}}}
	svc := newTestService(embed, gateway)

	if _, err := svc.Search(context.Background(), "first", "", 1000, 10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Current().Status() != domain.StatusPopulated {
		t.Fatalf("setup: expected populated state")
	}

	// Second submission fails at embedding; populated state must not survive.
	embed.err = errors.New("provider down")
	if _, err := svc.Search(context.Background(), "second", "", 1000, 10000); err == nil {
		t.Fatal("expected error")
	}
	if svc.Current().Status() != domain.StatusUnset {
		t.Errorf("expected prior results cleared, got %v", svc.Current().Status())
	}
}

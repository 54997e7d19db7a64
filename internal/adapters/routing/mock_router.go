package routing

import (
	"collection-route-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

type MockLeg struct {
	From, To domain.Coordinates
	Path     []domain.Coordinates
	Err      error
}

// MockRouter returns canned paths per leg and records every call.
type MockRouter struct {
	mu    sync.Mutex
	legs  map[string]MockLeg
	calls []string
}

func NewMockRouter(legs []MockLeg) *MockRouter {
	m := make(map[string]MockLeg, len(legs))
	for _, l := range legs {
		m[l.From.Key()+"|"+l.To.Key()] = l
	}
	return &MockRouter{legs: m}
}

func (m *MockRouter) Route(ctx context.Context, start, end domain.Coordinates) ([]domain.Coordinates, error) {
	key := start.Key() + "|" + end.Key()

	m.mu.Lock()
	m.calls = append(m.calls, key)
	leg, ok := m.legs[key]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing leg %q", key)
	}
	if leg.Err != nil {
		return nil, leg.Err
	}
	return leg.Path, nil
}

// Calls returns the "start|end" keys in call order.
func (m *MockRouter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

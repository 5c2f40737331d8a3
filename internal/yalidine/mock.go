package yalidine

import (
	"context"

	"github.com/rbenali/kahina/internal/domain"
)

// MockProvider is a test implementation of domain.Directory and
// domain.FeeCalculator. Unset function fields return empty results.
type MockProvider struct {
	ListWilayasFunc  func(ctx context.Context) ([]domain.Wilaya, error)
	ListCommunesFunc func(ctx context.Context, wilayaID int) ([]domain.Commune, error)
	ListCentersFunc  func(ctx context.Context, communeID int) ([]domain.Center, error)
	CalculateFunc    func(ctx context.Context, params domain.QuoteParams) (*domain.ShippingQuote, error)
}

// NewMockProvider creates a new mock shipping provider for testing.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// ListWilayas delegates to the configured function or returns an empty list.
func (m *MockProvider) ListWilayas(ctx context.Context) ([]domain.Wilaya, error) {
	if m.ListWilayasFunc != nil {
		return m.ListWilayasFunc(ctx)
	}
	return []domain.Wilaya{}, nil
}

// ListCommunes delegates to the configured function or returns an empty list.
func (m *MockProvider) ListCommunes(ctx context.Context, wilayaID int) ([]domain.Commune, error) {
	if m.ListCommunesFunc != nil {
		return m.ListCommunesFunc(ctx, wilayaID)
	}
	return []domain.Commune{}, nil
}

// ListCenters delegates to the configured function or returns an empty list.
func (m *MockProvider) ListCenters(ctx context.Context, communeID int) ([]domain.Center, error) {
	if m.ListCentersFunc != nil {
		return m.ListCentersFunc(ctx, communeID)
	}
	return []domain.Center{}, nil
}

// Calculate delegates to the configured function or returns a zero quote.
func (m *MockProvider) Calculate(ctx context.Context, params domain.QuoteParams) (*domain.ShippingQuote, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, params)
	}
	return &domain.ShippingQuote{}, nil
}

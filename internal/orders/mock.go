package orders

import (
	"context"

	"github.com/rbenali/kahina/internal/domain"
)

// MockSubmitter is a test implementation of domain.OrderSubmitter.
type MockSubmitter struct {
	SubmitFunc  func(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderReceipt, error)
	Submitted   []*domain.OrderPayload
	SubmitCalls int
}

// NewMockSubmitter creates a new mock order submitter for testing.
func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{}
}

// Submit records the payload and delegates to the configured function, or
// returns a canned receipt.
func (m *MockSubmitter) Submit(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderReceipt, error) {
	m.SubmitCalls++
	m.Submitted = append(m.Submitted, payload)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, payload)
	}
	return &domain.OrderReceipt{OrderID: "mock-order-1"}, nil
}

package checkout

import (
	"github.com/rbenali/kahina/internal/domain"
)

// Snapshot is a point-in-time copy of the form, safe to serialize while the
// form keeps moving.
type Snapshot struct {
	State    State                `json:"state"`
	Fields   []domain.FieldConfig `json:"fields"`
	Customer map[string]string    `json:"customer"`

	Wilaya   *domain.Wilaya  `json:"wilaya,omitempty"`
	Commune  *domain.Commune `json:"commune,omitempty"`
	Center   *domain.Center  `json:"center,omitempty"`
	StopDesk bool            `json:"stop_desk"`

	Communes []domain.Commune `json:"communes"`
	Centers  []domain.Center  `json:"centers"`

	Lines       []domain.OrderLineItem `json:"lines"`
	LineIDs     []string               `json:"line_ids"`
	TotalPrice  int64                  `json:"total_price"`
	WeightGrams int                    `json:"weight_grams"`

	Quote          *domain.ShippingQuote `json:"quote,omitempty"`
	QuoteError     string                `json:"quote_error,omitempty"`
	QuoteErrorCode string                `json:"quote_error_code,omitempty"`
}

// Snapshot returns the current form state. Reference data slices are shared
// (immutable); mutable pieces are copied.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	customer := make(map[string]string, len(f.customer))
	for k, v := range f.customer {
		customer[k] = v
	}

	snap := Snapshot{
		State:       f.state,
		Fields:      f.cfg.Fields,
		Customer:    customer,
		Wilaya:      f.wilaya,
		Commune:     f.commune,
		Center:      f.center,
		StopDesk:    f.stopDesk,
		Communes:    f.communes,
		Centers:     f.centers,
		Lines:       f.cart.Lines(),
		LineIDs:     f.cart.LineIDs(),
		TotalPrice:  f.cart.AggregatePrice(),
		WeightGrams: f.cart.AggregateWeight(),
		Quote:       f.quote,
	}

	if f.quoteErr != nil {
		snap.QuoteError = domain.ErrorMessage(f.quoteErr)
		snap.QuoteErrorCode = domain.ErrorCode(f.quoteErr)
	}

	return snap
}

package domain

import "context"

// Fee calculation errors.
var (
	// ErrQuoteUnavailable means the destination combination is not
	// serviceable. Handlers surface this as "delivery unavailable here",
	// distinct from transport failures.
	ErrQuoteUnavailable = &Error{Code: EUNAVAILABLE, Message: "Delivery is not available to this destination"}
)

// FeeCalculator computes a shipping quote for a destination and parcel.
// The computation is delegated entirely to the remote carrier: tariff tables
// live server-side and a local approximation would drift from the
// authoritative pricing. The quote is recomputed from scratch on every input
// change, never incrementally updated.
type FeeCalculator interface {
	Calculate(ctx context.Context, params QuoteParams) (*ShippingQuote, error)
}

// QuoteParams is the input tuple of a fee calculation. All fees and the
// declared value are in centimes; weight in grams; dimensions in centimeters.
type QuoteParams struct {
	FromWilayaID  int
	ToWilayaID    int
	ToCommuneID   int
	DeclaredValue int64
	WeightGrams   int
	LengthCm      int
	WidthCm       int
	HeightCm      int
	StopDesk      bool
	Insurance     bool
}

// ShippingQuote is the carrier's computed fee breakdown. The client treats it
// as opaque: TotalFee = DeliveryFee + CODFee + InsuranceFee is enforced
// remotely and not rechecked here.
type ShippingQuote struct {
	DeliveryFee      int64 `json:"delivery_fee"`
	CODFee           int64 `json:"cod_fee"`
	InsuranceFee     int64 `json:"insurance_fee"`
	TotalFee         int64 `json:"total_fee"`
	DeliveryTimeDays int   `json:"delivery_time_days"`
}

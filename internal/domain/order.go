package domain

import "context"

// Order submission errors.
var (
	ErrSubmissionFailed = &Error{Code: EUNAVAILABLE, Message: "Order could not be submitted, please try again"}
)

// OrderSubmitter hands a finished payload to the external order service.
// The payload is delivered verbatim; this side does not retry and does not
// interpret the response beyond success/failure plus the order identifier.
type OrderSubmitter interface {
	Submit(ctx context.Context, payload *OrderPayload) (*OrderReceipt, error)
}

// OrderLineItem is one product line of an order. The primary line comes from
// the product page selection; additional lines are user-appended.
type OrderLineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity in centimes.
func (l OrderLineItem) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// OrderCustomer carries the customer identity and free-text address fields.
type OrderCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// OrderDestination pins the delivery target by reference-data IDs, with
// denormalized names for human-readable order records.
type OrderDestination struct {
	WilayaID    int    `json:"wilaya_id"`
	WilayaName  string `json:"wilaya_name"`
	CommuneID   int    `json:"commune_id"`
	CommuneName string `json:"commune_name"`
	StopDesk    bool   `json:"stop_desk"`
	CenterID    int    `json:"center_id,omitempty"`
}

// OrderPayload is the immutable structure assembled at submit time and
// handed to the order service. It is produced once and never mutated.
type OrderPayload struct {
	Items       []OrderLineItem  `json:"items"`
	Customer    OrderCustomer    `json:"customer"`
	Shipping    ShippingQuote    `json:"shipping"`
	Destination OrderDestination `json:"destination"`
	TotalPrice  int64            `json:"total_price"`
}

// OrderReceipt is the order service's acknowledgement.
type OrderReceipt struct {
	OrderID string `json:"order_id"`
}

package checkout

import (
	"github.com/rbenali/kahina/internal/domain"
)

// Customer field IDs with dedicated payload slots. Everything else from the
// field configuration rides along in the address/notes free text.
const (
	fieldName    = "name"
	fieldPhone   = "phone"
	fieldWilaya  = "wilaya"
	fieldCommune = "commune"
	fieldAddress = "address"
	fieldNotes   = "notes"
)

// AssembleInput is everything payload assembly needs, captured as plain
// values so Assemble stays a pure function: no I/O, no clock, no form lock.
type AssembleInput struct {
	Fields   []domain.FieldConfig
	Customer map[string]string

	Wilaya   *domain.Wilaya
	Commune  *domain.Commune
	Center   *domain.Center
	StopDesk bool

	Quote *domain.ShippingQuote

	// Lines holds all line items, primary first.
	Lines      []domain.OrderLineItem
	LineErrors error
	TotalPrice int64
}

// Assemble validates the form and builds the immutable order payload. On any
// validation failure it refuses to assemble and returns the field-error map
// instead; the submission collaborator must not be invoked while the map is
// non-empty.
func Assemble(in AssembleInput) (*domain.OrderPayload, map[string]string) {
	fieldErrs := make(map[string]string)

	for _, fc := range in.Fields {
		if !fc.Required {
			continue
		}
		switch fc.ID {
		case fieldWilaya:
			if in.Wilaya == nil {
				fieldErrs[fc.ID] = fc.Label + " is required"
			}
		case fieldCommune:
			if in.Commune == nil {
				fieldErrs[fc.ID] = fc.Label + " is required"
			}
		default:
			if in.Customer[fc.ID] == "" {
				fieldErrs[fc.ID] = fc.Label + " is required"
			}
		}
	}

	if phone := in.Customer[fieldPhone]; phone != "" && !ValidPhone(phone) {
		fieldErrs[fieldPhone] = "Enter a valid Algerian phone number"
	}

	if in.StopDesk && in.Commune != nil && in.Commune.HasStopDesk && in.Center == nil {
		fieldErrs["center"] = "Pick a stop-desk center"
	}

	if len(in.Lines) == 0 || in.Lines[0].Quantity < 1 {
		fieldErrs["quantity"] = "Quantity must be at least 1"
	}

	if in.LineErrors != nil {
		for field, msg := range domain.GetValidationFields(in.LineErrors) {
			fieldErrs[field] = msg
		}
	}

	if in.Quote == nil {
		fieldErrs["shipping"] = "Shipping fee is not ready yet"
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	dest := domain.OrderDestination{
		WilayaID:    in.Wilaya.ID,
		WilayaName:  in.Wilaya.Name,
		CommuneID:   in.Commune.ID,
		CommuneName: in.Commune.Name,
		StopDesk:    in.StopDesk,
	}
	if in.Center != nil {
		dest.CenterID = in.Center.ID
	}

	items := make([]domain.OrderLineItem, len(in.Lines))
	copy(items, in.Lines)

	return &domain.OrderPayload{
		Items: items,
		Customer: domain.OrderCustomer{
			Name:    in.Customer[fieldName],
			Phone:   in.Customer[fieldPhone],
			Address: in.Customer[fieldAddress],
			Notes:   in.Customer[fieldNotes],
		},
		Shipping:    *in.Quote,
		Destination: dest,
		TotalPrice:  in.TotalPrice,
	}, nil
}

// Assemble captures the form state and runs payload assembly over it.
func (f *Form) Assemble() (*domain.OrderPayload, map[string]string) {
	f.mu.Lock()
	in := AssembleInput{
		Fields:     f.cfg.Fields,
		Customer:   f.customer,
		Wilaya:     f.wilaya,
		Commune:    f.commune,
		Center:     f.center,
		StopDesk:   f.stopDesk,
		Quote:      f.quote,
		Lines:      f.cart.Lines(),
		LineErrors: f.cart.ValidateLines(),
		TotalPrice: f.cart.AggregatePrice(),
	}
	f.mu.Unlock()

	return Assemble(in)
}

// Package checkout implements the delivery-fee checkout flow: the
// dependent-field destination form (wilaya → commune → stop-desk center →
// fee quote), the multi-item cart wiring, and the order payload assembly.
package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rbenali/kahina/internal/cart"
	"github.com/rbenali/kahina/internal/domain"
)

// State is the destination sub-form's position in the quote lifecycle.
type State string

const (
	StateNoWilaya        State = "no_wilaya"
	StateWilayaSelected  State = "wilaya_selected"
	StateCommuneSelected State = "commune_selected"
	StateQuotePending    State = "quote_pending"
	StateQuoteReady      State = "quote_ready"
	StateQuoteFailed     State = "quote_failed"
)

// Checkout form errors.
var (
	ErrUnknownWilaya  = domain.Invalid("checkout.selectWilaya", "Selected wilaya is not in the directory")
	ErrUnknownCommune = domain.Invalid("checkout.selectCommune", "Selected commune does not belong to the selected wilaya")
	ErrUnknownCenter  = domain.Invalid("checkout.selectCenter", "Selected center does not belong to the selected commune")
	ErrNoStopDesk     = domain.Invalid("checkout.selectCenter", "Stop-desk mode is not active")
)

// Config is the per-session form configuration, injected at construction
// rather than held as module state.
type Config struct {
	Fields         []domain.FieldConfig
	OriginWilayaID int
	Parcel         ParcelDefaults
	Insurance      bool
}

// ParcelDefaults are the parcel attributes used when the product carries no
// physical dimensions of its own.
type ParcelDefaults struct {
	WeightGrams int
	LengthCm    int
	WidthCm     int
	HeightCm    int
}

// Form owns one checkout session's state. It is created on form mount,
// mutated field by field, and discarded on successful submission or session
// expiry; in-progress state never persists.
//
// All state lives behind one mutex: the session has a single writer, and the
// only concurrency is the asynchronous quote resolution, which re-acquires
// the lock and applies its result only if it is still the latest trigger.
type Form struct {
	mu         sync.Mutex
	cfg        Config
	directory  domain.Directory
	calculator domain.FeeCalculator
	logger     *slog.Logger

	state    State
	customer map[string]string

	wilaya   *domain.Wilaya
	commune  *domain.Commune
	center   *domain.Center
	stopDesk bool

	communes []domain.Commune
	centers  []domain.Center

	cart *cart.Composer

	quote    *domain.ShippingQuote
	quoteErr error
	quoteSeq uint64
}

// NewForm creates a checkout form around the primary product selection.
func NewForm(cfg Config, directory domain.Directory, calculator domain.FeeCalculator, primary domain.OrderLineItem, logger *slog.Logger) (*Form, error) {
	fields, err := domain.ValidateFieldConfigs(cfg.Fields)
	if err != nil {
		return nil, err
	}
	cfg.Fields = fields

	if logger == nil {
		logger = slog.Default()
	}

	return &Form{
		cfg:        cfg,
		directory:  directory,
		calculator: calculator,
		logger:     logger,
		state:      StateNoWilaya,
		customer:   make(map[string]string),
		cart:       cart.NewComposer(primary, cfg.Parcel.WeightGrams),
	}, nil
}

// SelectWilaya picks the destination wilaya. Any existing commune and center
// selection and any quote are cleared first; the wilaya's communes are then
// loaded. A failed commune load keeps the wilaya selected and surfaces the
// error so the caller can retry.
func (f *Form) SelectWilaya(ctx context.Context, wilayaID int) error {
	wilayas, err := f.directory.ListWilayas(ctx)
	if err != nil {
		return err
	}

	var selected *domain.Wilaya
	for i := range wilayas {
		if wilayas[i].ID == wilayaID {
			selected = &wilayas[i]
			break
		}
	}
	if selected == nil {
		return ErrUnknownWilaya
	}

	f.mu.Lock()
	f.wilaya = selected
	f.commune = nil
	f.center = nil
	f.communes = nil
	f.centers = nil
	f.clearQuoteLocked()
	f.state = StateWilayaSelected
	f.mu.Unlock()

	communes, err := f.directory.ListCommunes(ctx, wilayaID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	// The selection may have moved on while communes were loading.
	if f.wilaya != nil && f.wilaya.ID == wilayaID {
		f.communes = communes
	}
	f.mu.Unlock()
	return nil
}

// SelectCommune picks the destination commune. It must belong to the
// currently selected wilaya. The quote is invalidated and re-requested;
// under stop-desk mode the commune's centers are loaded as well.
func (f *Form) SelectCommune(ctx context.Context, communeID int) error {
	f.mu.Lock()
	var selected *domain.Commune
	for i := range f.communes {
		if f.communes[i].ID == communeID {
			selected = &f.communes[i]
			break
		}
	}
	if selected == nil {
		f.mu.Unlock()
		return ErrUnknownCommune
	}

	f.commune = selected
	f.center = nil
	f.centers = nil
	f.clearQuoteLocked()
	f.state = StateCommuneSelected
	stopDesk := f.stopDesk
	hasStopDesk := selected.HasStopDesk
	f.triggerQuoteLocked(ctx)
	f.mu.Unlock()

	if stopDesk && hasStopDesk {
		return f.loadCenters(ctx, communeID)
	}
	return nil
}

// SetDeliveryMode toggles home vs stop-desk delivery. The fee differs by
// mode, so the current quote is invalidated and re-requested. Under
// stop-desk mode the selected commune's centers are loaded; a commune
// without stop-desk service simply yields no center options.
func (f *Form) SetDeliveryMode(ctx context.Context, stopDesk bool) error {
	f.mu.Lock()
	if f.stopDesk == stopDesk {
		f.mu.Unlock()
		return nil
	}
	f.stopDesk = stopDesk
	f.center = nil
	f.centers = nil
	f.clearQuoteLocked()
	commune := f.commune
	f.triggerQuoteLocked(ctx)
	f.mu.Unlock()

	if stopDesk && commune != nil && commune.HasStopDesk {
		return f.loadCenters(ctx, commune.ID)
	}
	return nil
}

// SelectCenter picks a stop-desk center. Only valid under stop-desk mode and
// within the currently selected commune's center list. Center choice does
// not affect the fee, so no quote is triggered.
func (f *Form) SelectCenter(centerID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.stopDesk {
		return ErrNoStopDesk
	}
	for i := range f.centers {
		if f.centers[i].ID == centerID {
			f.center = &f.centers[i]
			return nil
		}
	}
	return ErrUnknownCenter
}

// SetCustomerField records one customer field value. Unknown field IDs are
// rejected; values are validated at submit time.
func (f *Form) SetCustomerField(fieldID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fc := range f.cfg.Fields {
		if fc.ID == fieldID {
			f.customer[fieldID] = value
			return nil
		}
	}
	return domain.Errorf(domain.EINVALID, "checkout.setField", "unknown form field: %s", fieldID)
}

// AddLine appends an empty cart line and re-requests the quote, since the
// aggregate weight changed.
func (f *Form) AddLine(ctx context.Context) string {
	f.mu.Lock()
	id := f.cart.AddLine()
	f.clearQuoteLocked()
	f.triggerQuoteLocked(ctx)
	f.mu.Unlock()
	return id
}

// UpdateLine mutates one cart line field. Quantity changes move the
// aggregate price and weight, so the quote is re-requested.
func (f *Form) UpdateLine(ctx context.Context, id string, field cart.LineField, value string) error {
	f.mu.Lock()
	err := f.cart.UpdateLine(id, field, value)
	if err == nil && field == cart.FieldQuantity {
		f.clearQuoteLocked()
		f.triggerQuoteLocked(ctx)
	}
	f.mu.Unlock()
	return err
}

// RemoveLine removes a cart line and re-requests the quote.
func (f *Form) RemoveLine(ctx context.Context, id string) error {
	f.mu.Lock()
	err := f.cart.RemoveLine(id)
	if err == nil {
		f.clearQuoteLocked()
		f.triggerQuoteLocked(ctx)
	}
	f.mu.Unlock()
	return err
}

// SetPrimaryQuantity updates the primary line quantity and re-requests the
// quote.
func (f *Form) SetPrimaryQuantity(ctx context.Context, qty int) {
	f.mu.Lock()
	f.cart.SetPrimaryQuantity(qty)
	f.clearQuoteLocked()
	f.triggerQuoteLocked(ctx)
	f.mu.Unlock()
}

// loadCenters fetches a commune's stop-desk centers and stores them if the
// selection has not moved on meanwhile.
func (f *Form) loadCenters(ctx context.Context, communeID int) error {
	centers, err := f.directory.ListCenters(ctx, communeID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.commune != nil && f.commune.ID == communeID && f.stopDesk {
		f.centers = centers
	}
	f.mu.Unlock()
	return nil
}

// clearQuoteLocked drops the current quote and rolls the state machine back
// to the deepest selection still valid. Callers must hold f.mu.
func (f *Form) clearQuoteLocked() {
	f.quote = nil
	f.quoteErr = nil
	switch {
	case f.commune != nil:
		f.state = StateCommuneSelected
	case f.wilaya != nil:
		f.state = StateWilayaSelected
	default:
		f.state = StateNoWilaya
	}
}

// triggerQuoteLocked starts an asynchronous fee calculation if the
// destination tuple is complete. Every mutating setter funnels through here:
// there is no implicit dependency tracking, just one explicit recompute
// point. Callers must hold f.mu.
//
// Last input wins: each trigger takes the next sequence number, and a
// resolution only applies while its number is still the latest. A response
// for a superseded trigger is discarded, so two destination changes in quick
// succession can never surface the first change's fee.
func (f *Form) triggerQuoteLocked(ctx context.Context) {
	if f.wilaya == nil || f.commune == nil {
		return
	}

	f.quoteSeq++
	seq := f.quoteSeq
	f.state = StateQuotePending

	params := domain.QuoteParams{
		FromWilayaID:  f.cfg.OriginWilayaID,
		ToWilayaID:    f.wilaya.ID,
		ToCommuneID:   f.commune.ID,
		DeclaredValue: f.cart.AggregatePrice(),
		WeightGrams:   f.cart.AggregateWeight(),
		LengthCm:      f.cfg.Parcel.LengthCm,
		WidthCm:       f.cfg.Parcel.WidthCm,
		HeightCm:      f.cfg.Parcel.HeightCm,
		StopDesk:      f.stopDesk,
		Insurance:     f.cfg.Insurance,
	}

	// The calculation outlives the triggering request; keep its values
	// (request logger) but not its cancellation.
	quoteCtx := context.WithoutCancel(ctx)

	go func() {
		quote, err := f.calculator.Calculate(quoteCtx, params)

		f.mu.Lock()
		defer f.mu.Unlock()

		if seq != f.quoteSeq {
			f.logger.Debug("discarding stale quote", "seq", seq, "latest", f.quoteSeq)
			return
		}
		// The destination may have been cleared while the request was in
		// flight; a quote without a commune is meaningless.
		if f.state != StateQuotePending {
			return
		}

		if err != nil {
			f.quote = nil
			f.quoteErr = err
			f.state = StateQuoteFailed
			return
		}
		f.quote = quote
		f.quoteErr = nil
		f.state = StateQuoteReady
	}()
}

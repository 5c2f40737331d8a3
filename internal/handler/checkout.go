package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rbenali/kahina/internal/cart"
	"github.com/rbenali/kahina/internal/checkout"
	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/middleware"
	"github.com/rbenali/kahina/internal/telemetry"
)

// CheckoutHandler serves the checkout session endpoints. Each session wraps
// one live checkout form; the handler translates HTTP into form operations
// and snapshots back into JSON.
type CheckoutHandler struct {
	sessions   *checkout.SessionStore
	formCfg    checkout.Config
	directory  domain.Directory
	calculator domain.FeeCalculator
	submitter  domain.OrderSubmitter
	validate   *validator.Validate
	metrics    *telemetry.BusinessMetrics
}

// NewCheckoutHandler creates the checkout handler. metrics may be nil (tests).
func NewCheckoutHandler(
	sessions *checkout.SessionStore,
	formCfg checkout.Config,
	directory domain.Directory,
	calculator domain.FeeCalculator,
	submitter domain.OrderSubmitter,
	validate *validator.Validate,
	metrics *telemetry.BusinessMetrics,
) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:   sessions,
		formCfg:    formCfg,
		directory:  directory,
		calculator: calculator,
		submitter:  submitter,
		validate:   validate,
		metrics:    metrics,
	}
}

type createSessionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type createSessionResponse struct {
	SessionID string            `json:"session_id"`
	Snapshot  checkout.Snapshot `json:"snapshot"`
}

// CreateSession mounts a new checkout form around the primary product
// selection from the product page.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := h.validateStruct("checkout.createSession", req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	primary := domain.OrderLineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	}

	form, err := checkout.NewForm(h.formCfg, h.directory, h.calculator, primary, middleware.GetLogger(r.Context()))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	id := h.sessions.Create(form)
	if h.metrics != nil {
		h.metrics.SessionsStarted.Inc()
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: id,
		Snapshot:  form.Snapshot(),
	})
}

// GetSession returns the current form snapshot.
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, form.Snapshot())
}

type destinationRequest struct {
	WilayaID  int `json:"wilaya_id" validate:"omitempty,gt=0"`
	CommuneID int `json:"commune_id" validate:"omitempty,gt=0"`
	CenterID  int `json:"center_id" validate:"omitempty,gt=0"`
}

// SetDestination applies a destination change: wilaya, commune, or stop-desk
// center, in cascade order. Fields are optional so the client can send just
// the one that changed.
func (h *CheckoutHandler) SetDestination(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req destinationRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := h.validateStruct("checkout.setDestination", req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	ctx := r.Context()
	if req.WilayaID > 0 {
		if err := form.SelectWilaya(ctx, req.WilayaID); err != nil {
			ErrorResponse(w, r, err)
			return
		}
		h.step("wilaya")
	}
	if req.CommuneID > 0 {
		if err := form.SelectCommune(ctx, req.CommuneID); err != nil {
			ErrorResponse(w, r, err)
			return
		}
		h.step("commune")
	}
	if req.CenterID > 0 {
		if err := form.SelectCenter(req.CenterID); err != nil {
			ErrorResponse(w, r, err)
			return
		}
		h.step("center")
	}

	respondJSON(w, http.StatusOK, form.Snapshot())
}

type deliveryModeRequest struct {
	StopDesk bool `json:"stop_desk"`
}

// SetDeliveryMode toggles between home delivery and stop-desk pickup.
func (h *CheckoutHandler) SetDeliveryMode(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req deliveryModeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := form.SetDeliveryMode(r.Context(), req.StopDesk); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.step("delivery_mode")

	respondJSON(w, http.StatusOK, form.Snapshot())
}

type customerRequest struct {
	Fields map[string]string `json:"fields" validate:"required"`
}

// SetCustomerFields records customer identity and address values. The phone
// field gets immediate format feedback; everything else is validated at
// submit time.
func (h *CheckoutHandler) SetCustomerFields(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := h.validateStruct("checkout.setCustomer", req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	for id, value := range req.Fields {
		if err := form.SetCustomerField(id, value); err != nil {
			ErrorResponse(w, r, err)
			return
		}
	}

	if phone := req.Fields["phone"]; phone != "" {
		if err := h.validate.Var(phone, "dzphone"); err != nil {
			ValidationResponse(w, map[string]string{"phone": "Enter a valid Algerian phone number"})
			return
		}
	}

	respondJSON(w, http.StatusOK, form.Snapshot())
}

type addLineResponse struct {
	LineID   string            `json:"line_id"`
	Snapshot checkout.Snapshot `json:"snapshot"`
}

// AddLine appends an additional cart line.
func (h *CheckoutHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	id := form.AddLine(r.Context())
	h.cartAction("add")

	respondJSON(w, http.StatusCreated, addLineResponse{
		LineID:   id,
		Snapshot: form.Snapshot(),
	})
}

type updateLineRequest struct {
	Field string `json:"field" validate:"required,oneof=size color quantity"`
	Value string `json:"value"`
}

// UpdateLine mutates one field of one additional cart line.
func (h *CheckoutHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req updateLineRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := h.validateStruct("checkout.updateLine", req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	lineID := r.PathValue("lineID")
	if err := form.UpdateLine(r.Context(), lineID, cart.LineField(req.Field), req.Value); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.cartAction("update")

	respondJSON(w, http.StatusOK, form.Snapshot())
}

// RemoveLine deletes an additional cart line.
func (h *CheckoutHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	if err := form.RemoveLine(r.Context(), r.PathValue("lineID")); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.cartAction("remove")

	respondJSON(w, http.StatusOK, form.Snapshot())
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetQuantity updates the primary line quantity.
func (h *CheckoutHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := h.validateStruct("checkout.setQuantity", req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	form.SetPrimaryQuantity(r.Context(), req.Quantity)
	h.cartAction("set_quantity")

	respondJSON(w, http.StatusOK, form.Snapshot())
}

type submitResponse struct {
	OrderID string `json:"order_id"`
}

// Submit assembles the order payload and hands it to the order service. On
// validation failure the field-error map comes back as 422 and nothing is
// submitted. On submission failure the session survives so the customer can
// retry without re-entering anything.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	payload, fieldErrs := form.Assemble()
	if len(fieldErrs) > 0 {
		if h.metrics != nil {
			h.metrics.OrdersRejected.WithLabelValues("validation").Inc()
		}
		ValidationResponse(w, fieldErrs)
		return
	}

	receipt, err := h.submitter.Submit(r.Context(), payload)
	if err != nil {
		if h.metrics != nil {
			h.metrics.OrdersRejected.WithLabelValues("submission").Inc()
		}
		ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersSubmitted.Inc()
		h.metrics.CheckoutCompleted.Inc()
		h.metrics.OrderValue.Observe(float64(payload.TotalPrice))
		h.metrics.CartValue.Observe(float64(payload.TotalPrice))
		h.metrics.OrderItemCount.Observe(float64(len(payload.Items)))
	}

	h.sessions.Delete(sessionID)

	middleware.GetLogger(r.Context()).Info("checkout completed",
		"order_id", receipt.OrderID,
		"items", len(payload.Items),
		"total_price", payload.TotalPrice,
	)

	respondJSON(w, http.StatusCreated, submitResponse{OrderID: receipt.OrderID})
}

// form resolves the session from the URL and writes the error response itself
// when the session is missing or expired.
func (h *CheckoutHandler) form(w http.ResponseWriter, r *http.Request) (*checkout.Form, bool) {
	form, err := h.sessions.Get(r.PathValue("sessionID"))
	if err != nil {
		ErrorResponse(w, r, err)
		return nil, false
	}
	return form, true
}

func (h *CheckoutHandler) step(name string) {
	if h.metrics != nil {
		h.metrics.CheckoutStep.WithLabelValues(name).Inc()
	}
}

func (h *CheckoutHandler) cartAction(action string) {
	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues(action).Inc()
	}
}

// validateStruct runs the request DTO through the validator and converts
// failures into a field-error map keyed by the JSON field name.
func (h *CheckoutHandler) validateStruct(op string, v interface{}) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.WrapError(err, domain.EINVALID, op, "Request validation failed")
	}

	var out error
	for _, fe := range verrs {
		out = domain.AddFieldError(out, strings.ToLower(fe.Field()), validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gte", "gt":
		return "Value is too small"
	case "oneof":
		return "Value must be one of: " + fe.Param()
	case "dzphone":
		return "Enter a valid Algerian phone number"
	default:
		return "Invalid value"
	}
}

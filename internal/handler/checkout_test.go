package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenali/kahina/internal/checkout"
	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/orders"
	"github.com/rbenali/kahina/internal/router"
	"github.com/rbenali/kahina/internal/yalidine"
)

func testProvider() *yalidine.MockProvider {
	m := yalidine.NewMockProvider()
	m.ListWilayasFunc = func(ctx context.Context) ([]domain.Wilaya, error) {
		return []domain.Wilaya{{ID: 16, Name: "Alger"}, {ID: 31, Name: "Oran"}}, nil
	}
	m.ListCommunesFunc = func(ctx context.Context, wilayaID int) ([]domain.Commune, error) {
		if wilayaID == 31 {
			return []domain.Commune{{ID: 3101, Name: "Oran", WilayaID: 31, HasStopDesk: true}}, nil
		}
		return []domain.Commune{}, nil
	}
	m.CalculateFunc = func(ctx context.Context, params domain.QuoteParams) (*domain.ShippingQuote, error) {
		return &domain.ShippingQuote{DeliveryFee: 40000, TotalFee: 40000, DeliveryTimeDays: 3}, nil
	}
	return m
}

type testServer struct {
	router    *router.Router
	sessions  *checkout.SessionStore
	submitter *orders.MockSubmitter
}

func newTestServer(t *testing.T, provider *yalidine.MockProvider) *testServer {
	t.Helper()
	if provider == nil {
		provider = testProvider()
	}

	validate, err := NewValidator()
	require.NoError(t, err)

	sessions := checkout.NewSessionStore(time.Hour, nil)
	submitter := orders.NewMockSubmitter()

	formCfg := checkout.Config{
		Fields:         domain.DefaultFieldConfigs(),
		OriginWilayaID: 16,
		Parcel:         checkout.ParcelDefaults{WeightGrams: 1000, LengthCm: 30, WidthCm: 20, HeightCm: 10},
	}

	h := NewCheckoutHandler(sessions, formCfg, provider, provider, submitter, validate, nil)

	r := router.New()
	r.Post("/api/checkout/sessions", h.CreateSession)
	r.Get("/api/checkout/sessions/{sessionID}", h.GetSession)
	r.Put("/api/checkout/sessions/{sessionID}/destination", h.SetDestination)
	r.Put("/api/checkout/sessions/{sessionID}/delivery-mode", h.SetDeliveryMode)
	r.Put("/api/checkout/sessions/{sessionID}/customer", h.SetCustomerFields)
	r.Put("/api/checkout/sessions/{sessionID}/quantity", h.SetQuantity)
	r.Post("/api/checkout/sessions/{sessionID}/lines", h.AddLine)
	r.Put("/api/checkout/sessions/{sessionID}/lines/{lineID}", h.UpdateLine)
	r.Delete("/api/checkout/sessions/{sessionID}/lines/{lineID}", h.RemoveLine)
	r.Post("/api/checkout/sessions/{sessionID}/submit", h.Submit)

	return &testServer{router: r, sessions: sessions, submitter: submitter}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/checkout/sessions",
		`{"product_id":"kabyle-dress-01","name":"Robe Kabyle","unit_price":250000,"size":"M","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func (ts *testServer) snapshot(t *testing.T, id string) checkout.Snapshot {
	t.Helper()
	rec := ts.do(t, http.MethodGet, "/api/checkout/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap checkout.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func (ts *testServer) waitForQuote(t *testing.T, id string) checkout.Snapshot {
	t.Helper()
	var snap checkout.Snapshot
	assert.Eventually(t, func() bool {
		snap = ts.snapshot(t, id)
		return snap.State == checkout.StateQuoteReady
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, nil)

	id := ts.createSession(t)
	snap := ts.snapshot(t, id)

	assert.Equal(t, checkout.StateNoWilaya, snap.State)
	assert.Equal(t, int64(250000), snap.TotalPrice)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "Robe Kabyle", snap.Lines[0].Name)
}

func TestCreateSession_InvalidBody(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/checkout/sessions", `{"product_id":"x","quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error.Fields["name"])
	assert.NotEmpty(t, resp.Error.Fields["quantity"])
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/api/checkout/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDestinationFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/destination", `{"wilaya_id":31}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/destination", `{"commune_id":3101}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := ts.waitForQuote(t, id)
	require.NotNil(t, snap.Quote)
	assert.Equal(t, int64(40000), snap.Quote.TotalFee)
	assert.Equal(t, "Oran", snap.Commune.Name)
}

func TestDestination_UnknownCommune(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/destination", `{"wilaya_id":31,"commune_id":9999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerFields_PhoneFeedback(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/customer", `{"fields":{"phone":"123456"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/customer", `{"fields":{"phone":"0550123456"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartLines(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPost, "/api/checkout/sessions/"+id+"/lines", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		LineID string `json:"line_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.LineID)

	rec = ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/lines/"+resp.LineID, `{"field":"quantity","value":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := ts.snapshot(t, id)
	assert.Equal(t, int64(250000+2*250000), snap.TotalPrice)

	rec = ts.do(t, http.MethodDelete, "/api/checkout/sessions/"+id+"/lines/"+resp.LineID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	snap = ts.snapshot(t, id)
	assert.Equal(t, int64(250000), snap.TotalPrice)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPost, "/api/checkout/sessions/"+id+"/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error.Fields["name"])
	assert.NotEmpty(t, resp.Error.Fields["phone"])
	assert.NotEmpty(t, resp.Error.Fields["wilaya"])

	assert.Zero(t, ts.submitter.SubmitCalls, "submitter must not run while field errors exist")

	// Session survives for correction
	rec = ts.do(t, http.MethodGet, "/api/checkout/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmit_Success(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/destination", `{"wilaya_id":31,"commune_id":3101}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/customer",
		`{"fields":{"name":"Amina B.","phone":"0550123456","address":"12 Rue Larbi Ben M'hidi"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ts.waitForQuote(t, id)

	rec = ts.do(t, http.MethodPost, "/api/checkout/sessions/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		OrderID string `json:"order_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "mock-order-1", resp.OrderID)

	require.Equal(t, 1, ts.submitter.SubmitCalls)
	payload := ts.submitter.Submitted[0]
	assert.Equal(t, "Amina B.", payload.Customer.Name)
	assert.Equal(t, 31, payload.Destination.WilayaID)
	assert.Equal(t, int64(40000), payload.Shipping.TotalFee)

	// Session is discarded after success
	rec = ts.do(t, http.MethodGet, "/api/checkout/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit_SubmissionFailureKeepsSession(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.submitter.SubmitFunc = func(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderReceipt, error) {
		return nil, domain.ErrSubmissionFailed
	}

	id := ts.createSession(t)
	rec := ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/destination", `{"wilaya_id":31,"commune_id":3101}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPut, "/api/checkout/sessions/"+id+"/customer",
		`{"fields":{"name":"Amina B.","phone":"0550123456"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ts.waitForQuote(t, id)

	rec = ts.do(t, http.MethodPost, "/api/checkout/sessions/"+id+"/submit", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The form state survives so the customer can retry
	rec = ts.do(t, http.MethodGet, "/api/checkout/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

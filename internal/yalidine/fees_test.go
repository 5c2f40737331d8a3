package yalidine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenali/kahina/internal/domain"
)

func quoteParams() domain.QuoteParams {
	return domain.QuoteParams{
		FromWilayaID:  16,
		ToWilayaID:    31,
		ToCommuneID:   3101,
		DeclaredValue: 250000,
		WeightGrams:   1000,
		LengthCm:      30,
		WidthCm:       20,
		HeightCm:      10,
	}
}

func TestCalculate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fees", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "16", q.Get("from_wilaya_id"))
		assert.Equal(t, "31", q.Get("to_wilaya_id"))
		assert.Equal(t, "3101", q.Get("to_commune_id"))
		assert.Equal(t, "1000", q.Get("weight"))
		assert.Equal(t, "false", q.Get("stop_desk"))
		w.Write([]byte(`{"delivery_fee":40000,"cod_fee":0,"insurance_fee":0,"total_fee":40000,"delivery_time_days":3}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	quote, err := c.Calculate(context.Background(), quoteParams())
	require.NoError(t, err)

	assert.Equal(t, &domain.ShippingQuote{
		DeliveryFee:      40000,
		TotalFee:         40000,
		DeliveryTimeDays: 3,
	}, quote)
}

func TestCalculate_NotServiceable(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnprocessableEntity} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := newTestClient(t, srv.URL)
		_, err := c.Calculate(context.Background(), quoteParams())
		assert.ErrorIs(t, err, domain.ErrQuoteUnavailable, "status %d", status)

		srv.Close()
	}
}

func TestCalculate_ServerErrorIsNotUnavailableDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Calculate(context.Background(), quoteParams())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestCalculate_ParamValidation(t *testing.T) {
	c := newTestClient(t, "https://api.example.com")

	p := quoteParams()
	p.ToWilayaID = 0
	_, err := c.Calculate(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidWilayaID)

	p = quoteParams()
	p.ToCommuneID = 0
	_, err = c.Calculate(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidCommuneID)

	p = quoteParams()
	p.WeightGrams = 0
	_, err = c.Calculate(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestCalculate_StopDeskParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("stop_desk"))
		w.Write([]byte(`{"delivery_fee":30000,"cod_fee":0,"insurance_fee":0,"total_fee":30000,"delivery_time_days":2}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	p := quoteParams()
	p.StopDesk = true
	quote, err := c.Calculate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), quote.TotalFee)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/yalidine"
)

func TestShipping_ListWilayas(t *testing.T) {
	h := NewShippingHandler(testProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/wilayas", nil)
	rec := httptest.NewRecorder()
	h.ListWilayas(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Wilayas []domain.Wilaya `json:"wilayas"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Wilayas, 2)
}

func TestShipping_ListCommunes(t *testing.T) {
	h := NewShippingHandler(testProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/communes?wilaya_id=31", nil)
	rec := httptest.NewRecorder()
	h.ListCommunes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Communes []domain.Commune `json:"communes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Communes, 1)
	assert.Equal(t, "Oran", resp.Communes[0].Name)
}

func TestShipping_MissingQueryParam(t *testing.T) {
	h := NewShippingHandler(testProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/communes", nil)
	rec := httptest.NewRecorder()
	h.ListCommunes(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/shipping/centers?commune_id=abc", nil)
	rec = httptest.NewRecorder()
	h.ListCenters(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShipping_UpstreamFailure(t *testing.T) {
	provider := yalidine.NewMockProvider()
	provider.ListWilayasFunc = func(ctx context.Context) ([]domain.Wilaya, error) {
		return nil, yalidine.NetworkError(assert.AnError)
	}
	h := NewShippingHandler(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/wilayas", nil)
	rec := httptest.NewRecorder()
	h.ListWilayas(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestShipping_EmptyCentersIsOK(t *testing.T) {
	h := NewShippingHandler(testProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/centers?commune_id=3102", nil)
	rec := httptest.NewRecorder()
	h.ListCenters(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Centers []domain.Center `json:"centers"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Centers)
}

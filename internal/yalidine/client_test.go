package yalidine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenali/kahina/internal/domain"
)

func newTestClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:  srvURL,
		APIID:    "test-id",
		APIToken: "test-token",
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{APIID: "id", APIToken: "token"})
	assert.ErrorIs(t, err, ErrMissingBaseURL)

	_, err = NewClient(Config{BaseURL: "https://api.example.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	var gotID, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-API-ID")
		gotToken = r.Header.Get("X-API-TOKEN")
		w.Write([]byte(`{"total_data":0,"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListWilayas(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-id", gotID)
	assert.Equal(t, "test-token", gotToken)
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := newTestClient(t, srv.URL)
	_, err := c.ListWilayas(context.Background())
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, codeUnavailable, pe.Code)
	assert.Equal(t, "Shipping provider unreachable", pe.Message)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestClient_Non2xxIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListCommunes(context.Background(), 31)
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusInternalServerError, pe.Status)
	assert.Equal(t, codeUnavailable, pe.Code)
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListWilayas(context.Background())
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, codeUnavailable, pe.Code)
}

func TestListCommunes_EmptyListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "31", r.URL.Query().Get("wilaya_id"))
		w.Write([]byte(`{"total_data":0,"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	communes, err := c.ListCommunes(context.Background(), 31)
	require.NoError(t, err)
	assert.Empty(t, communes)
}

func TestListCenters_MapsWireFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/centers", r.URL.Path)
		w.Write([]byte(`{"total_data":1,"data":[{"center_id":310101,"name":"Agence Oran Centre","commune_id":3101}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	centers, err := c.ListCenters(context.Background(), 3101)
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, domain.Center{ID: 310101, Name: "Agence Oran Centre", CommuneID: 3101}, centers[0])
}

func TestClient_InvalidIDs(t *testing.T) {
	c := newTestClient(t, "https://api.example.com")

	_, err := c.ListCommunes(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidWilayaID)

	_, err = c.ListCenters(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidCommuneID)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/rbenali/kahina/internal/domain"
)

// ShippingHandler serves the cached location directory: the wilaya, commune
// and stop-desk center lists that drive the destination dropdowns.
type ShippingHandler struct {
	directory domain.Directory
}

// NewShippingHandler creates the directory lookup handler.
func NewShippingHandler(directory domain.Directory) *ShippingHandler {
	return &ShippingHandler{directory: directory}
}

// ListWilayas returns all 58 wilayas.
func (h *ShippingHandler) ListWilayas(w http.ResponseWriter, r *http.Request) {
	wilayas, err := h.directory.ListWilayas(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"wilayas": wilayas})
}

// ListCommunes returns the communes of one wilaya. An empty list is a
// legitimate result, not an error.
func (h *ShippingHandler) ListCommunes(w http.ResponseWriter, r *http.Request) {
	wilayaID, err := queryInt(r, "wilaya_id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	communes, err := h.directory.ListCommunes(r.Context(), wilayaID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"communes": communes})
}

// ListCenters returns the stop-desk centers of one commune. Communes without
// stop-desk service yield an empty list.
func (h *ShippingHandler) ListCenters(w http.ResponseWriter, r *http.Request) {
	communeID, err := queryInt(r, "commune_id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	centers, err := h.directory.ListCenters(r.Context(), communeID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"centers": centers})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, domain.Errorf(domain.EINVALID, "shipping.query", "query parameter %s is required", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.Errorf(domain.EINVALID, "shipping.query", "query parameter %s must be a positive integer", key)
	}
	return n, nil
}

package domain

import "context"

// Location directory errors.
var (
	ErrWilayaNotFound  = &Error{Code: ENOTFOUND, Message: "Wilaya not found"}
	ErrCommuneNotFound = &Error{Code: ENOTFOUND, Message: "Commune not found"}
)

// Directory provides the hierarchical shipping reference data: wilayas
// (provinces), communes (municipalities) and stop-desk centers.
// The data is immutable on our side; it is fetched on demand and only ever
// referenced by ID. Implementations may cache.
type Directory interface {
	// ListWilayas returns the full wilaya list.
	ListWilayas(ctx context.Context) ([]Wilaya, error)

	// ListCommunes returns the communes of a wilaya. An empty slice is a
	// legitimate result, not an error.
	ListCommunes(ctx context.Context, wilayaID int) ([]Commune, error)

	// ListCenters returns the stop-desk centers of a commune. Only meaningful
	// when the commune has stop-desk service; an empty slice is a legitimate
	// result even then.
	ListCenters(ctx context.Context, communeID int) ([]Center, error)
}

// Wilaya is an Algerian province, the first destination granularity level.
type Wilaya struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Commune is a municipality within a wilaya.
type Commune struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	WilayaID    int    `json:"wilaya_id"`
	HasStopDesk bool   `json:"has_stop_desk"`
}

// Center is a stop-desk pickup point within a commune.
type Center struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CommuneID int    `json:"commune_id"`
}

package yalidine

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rbenali/kahina/internal/domain"
)

// Wire shapes for the directory endpoints. The provider paginates with a
// total count; the lists we request fit in one page.
type wilayaListResponse struct {
	TotalData int         `json:"total_data"`
	Data      []wilayaDTO `json:"data"`
}

type wilayaDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type communeListResponse struct {
	TotalData int          `json:"total_data"`
	Data      []communeDTO `json:"data"`
}

type communeDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	WilayaID    int    `json:"wilaya_id"`
	HasStopDesk bool   `json:"has_stop_desk"`
}

type centerListResponse struct {
	TotalData int         `json:"total_data"`
	Data      []centerDTO `json:"data"`
}

type centerDTO struct {
	ID        int    `json:"center_id"`
	Name      string `json:"name"`
	CommuneID int    `json:"commune_id"`
}

// ListWilayas fetches the full wilaya list.
func (c *Client) ListWilayas(ctx context.Context) ([]domain.Wilaya, error) {
	var resp wilayaListResponse
	if err := c.getJSON(ctx, "/wilayas", nil, &resp); err != nil {
		c.logger.Error("failed to list wilayas", "error", err)
		return nil, err
	}

	wilayas := make([]domain.Wilaya, len(resp.Data))
	for i, w := range resp.Data {
		wilayas[i] = domain.Wilaya{ID: w.ID, Name: w.Name}
	}

	c.logger.Debug("wilayas fetched", "count", len(wilayas))
	return wilayas, nil
}

// ListCommunes fetches the communes of one wilaya. An empty result is
// returned as an empty slice, not an error.
func (c *Client) ListCommunes(ctx context.Context, wilayaID int) ([]domain.Commune, error) {
	if wilayaID <= 0 {
		return nil, ErrInvalidWilayaID
	}

	query := url.Values{}
	query.Set("wilaya_id", strconv.Itoa(wilayaID))

	var resp communeListResponse
	if err := c.getJSON(ctx, "/communes", query, &resp); err != nil {
		c.logger.Error("failed to list communes", "wilaya_id", wilayaID, "error", err)
		return nil, err
	}

	communes := make([]domain.Commune, len(resp.Data))
	for i, cm := range resp.Data {
		communes[i] = domain.Commune{
			ID:          cm.ID,
			Name:        cm.Name,
			WilayaID:    cm.WilayaID,
			HasStopDesk: cm.HasStopDesk,
		}
	}

	c.logger.Debug("communes fetched", "wilaya_id", wilayaID, "count", len(communes))
	return communes, nil
}

// ListCenters fetches the stop-desk centers of one commune. Communes without
// stop-desk service, and communes with no centers currently configured, both
// yield an empty slice.
func (c *Client) ListCenters(ctx context.Context, communeID int) ([]domain.Center, error) {
	if communeID <= 0 {
		return nil, ErrInvalidCommuneID
	}

	query := url.Values{}
	query.Set("commune_id", strconv.Itoa(communeID))

	var resp centerListResponse
	if err := c.getJSON(ctx, "/centers", query, &resp); err != nil {
		c.logger.Error("failed to list centers", "commune_id", communeID, "error", err)
		return nil, err
	}

	centers := make([]domain.Center, len(resp.Data))
	for i, ct := range resp.Data {
		centers[i] = domain.Center{ID: ct.ID, Name: ct.Name, CommuneID: ct.CommuneID}
	}

	c.logger.Debug("centers fetched", "commune_id", communeID, "count", len(centers))
	return centers, nil
}

package yalidine

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/telemetry"
)

// feeResponse is the provider's quote shape. Fees are in centimes.
type feeResponse struct {
	DeliveryFee      int64 `json:"delivery_fee"`
	CODFee           int64 `json:"cod_fee"`
	InsuranceFee     int64 `json:"insurance_fee"`
	TotalFee         int64 `json:"total_fee"`
	DeliveryTimeDays int   `json:"delivery_time_days"`
}

// Calculate requests a shipping quote for the given destination and parcel.
// The client is a pure proxy over the carrier's tariff tables: no local fee
// approximation. A declared value of zero is passed through untouched.
// Destinations the carrier does not serve map to domain.ErrQuoteUnavailable.
func (c *Client) Calculate(ctx context.Context, params domain.QuoteParams) (*domain.ShippingQuote, error) {
	if params.FromWilayaID <= 0 || params.ToWilayaID <= 0 {
		return nil, ErrInvalidWilayaID
	}
	if params.ToCommuneID <= 0 {
		return nil, ErrInvalidCommuneID
	}
	if params.WeightGrams <= 0 {
		return nil, ErrInvalidWeight
	}

	logger := c.logger.With(
		"from_wilaya", params.FromWilayaID,
		"to_wilaya", params.ToWilayaID,
		"to_commune", params.ToCommuneID,
		"stop_desk", params.StopDesk,
	)
	logger.Info("fetching shipping quote")

	mode := "home"
	if params.StopDesk {
		mode = "stop_desk"
	}
	if m := telemetry.Business; m != nil {
		m.QuotesRequested.WithLabelValues(mode).Inc()
	}

	query := url.Values{}
	query.Set("from_wilaya_id", strconv.Itoa(params.FromWilayaID))
	query.Set("to_wilaya_id", strconv.Itoa(params.ToWilayaID))
	query.Set("to_commune_id", strconv.Itoa(params.ToCommuneID))
	query.Set("declared_value", strconv.FormatInt(params.DeclaredValue, 10))
	query.Set("weight", strconv.Itoa(params.WeightGrams))
	query.Set("length", strconv.Itoa(params.LengthCm))
	query.Set("width", strconv.Itoa(params.WidthCm))
	query.Set("height", strconv.Itoa(params.HeightCm))
	query.Set("stop_desk", boolParam(params.StopDesk))
	query.Set("insurance", boolParam(params.Insurance))

	var resp feeResponse
	if err := c.getJSON(ctx, "/fees", query, &resp); err != nil {
		// The provider answers 404/422 for destinations it does not serve.
		// That is "delivery unavailable here", not a generic failure.
		var pe *ProviderError
		if errors.As(err, &pe) && notServiceable(pe) {
			logger.Info("destination not serviceable")
			if m := telemetry.Business; m != nil {
				m.QuoteUnavailable.WithLabelValues(strconv.Itoa(params.ToWilayaID)).Inc()
			}
			return nil, domain.ErrQuoteUnavailable
		}
		logger.Error("failed to fetch quote", "error", err)
		if m := telemetry.Business; m != nil {
			m.QuotesFailed.WithLabelValues(quoteErrorType(err)).Inc()
		}
		return nil, err
	}

	logger.Info("quote fetched",
		"total_fee", resp.TotalFee,
		"delivery_days", resp.DeliveryTimeDays,
	)
	if m := telemetry.Business; m != nil {
		m.QuoteFee.WithLabelValues(mode).Observe(float64(resp.TotalFee))
	}

	return &domain.ShippingQuote{
		DeliveryFee:      resp.DeliveryFee,
		CODFee:           resp.CODFee,
		InsuranceFee:     resp.InsuranceFee,
		TotalFee:         resp.TotalFee,
		DeliveryTimeDays: resp.DeliveryTimeDays,
	}, nil
}

// notServiceable reports whether a provider error means the destination is
// outside the carrier's coverage rather than a transient failure.
func notServiceable(pe *ProviderError) bool {
	return pe.Status == 404 || pe.Status == 422
}

func quoteErrorType(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status > 0 {
		return "server"
	}
	return "network"
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

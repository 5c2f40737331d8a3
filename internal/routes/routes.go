// Package routes wires handlers onto the router.
package routes

import (
	"net/http"

	"github.com/rbenali/kahina/internal/handler"
	"github.com/rbenali/kahina/internal/router"
)

// Deps contains the handlers behind the public API.
type Deps struct {
	Checkout *handler.CheckoutHandler
	Shipping *handler.ShippingHandler
	Metrics  http.Handler
}

// Register registers all routes.
func Register(r *router.Router, deps Deps) {
	// Checkout sessions
	r.Post("/api/checkout/sessions", deps.Checkout.CreateSession)
	r.Get("/api/checkout/sessions/{sessionID}", deps.Checkout.GetSession)
	r.Put("/api/checkout/sessions/{sessionID}/destination", deps.Checkout.SetDestination)
	r.Put("/api/checkout/sessions/{sessionID}/delivery-mode", deps.Checkout.SetDeliveryMode)
	r.Put("/api/checkout/sessions/{sessionID}/customer", deps.Checkout.SetCustomerFields)
	r.Put("/api/checkout/sessions/{sessionID}/quantity", deps.Checkout.SetQuantity)
	r.Post("/api/checkout/sessions/{sessionID}/lines", deps.Checkout.AddLine)
	r.Put("/api/checkout/sessions/{sessionID}/lines/{lineID}", deps.Checkout.UpdateLine)
	r.Delete("/api/checkout/sessions/{sessionID}/lines/{lineID}", deps.Checkout.RemoveLine)
	r.Post("/api/checkout/sessions/{sessionID}/submit", deps.Checkout.Submit)

	// Location directory
	r.Get("/api/shipping/wilayas", deps.Shipping.ListWilayas)
	r.Get("/api/shipping/communes", deps.Shipping.ListCommunes)
	r.Get("/api/shipping/centers", deps.Shipping.ListCenters)

	// Operational endpoints
	r.Get("/healthz", handler.Healthz)
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.ServeHTTP)
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/catalog"
)

// CatalogHandler serves the read-only room list, hotel settings and
// payment methods.  Responses are identical for every visitor, which is
// what lets the router put them behind the response cache.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// NewCatalogHandler wraps c.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	if c == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: c}
}

// Rooms handles GET /v1/rooms in catalog order.  ?available=true filters
// out rooms that are not bookable.
func (h *CatalogHandler) Rooms(c echo.Context) error {
	rooms := h.Catalog.Rooms()
	if c.QueryParam("available") == "true" {
		out := rooms[:0]
		for _, r := range rooms {
			if r.IsAvailable {
				out = append(out, r)
			}
		}
		rooms = out
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Room handles GET /v1/rooms/:id.
func (h *CatalogHandler) Room(c echo.Context) error {
	r, ok := h.Catalog.Room(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	return c.JSON(http.StatusOK, r)
}

// Settings handles GET /v1/settings.
func (h *CatalogHandler) Settings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.Settings())
}

// PaymentMethods handles GET /v1/payment-methods.
func (h *CatalogHandler) PaymentMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"payment_methods": h.Catalog.PaymentMethods()})
}

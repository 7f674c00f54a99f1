package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-api/internal/api/metrics"
	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// SweetHandler handles HTTP requests for catalog operations.
type SweetHandler struct {
	service ports.InventoryService
}

func NewSweetHandler(service ports.InventoryService) *SweetHandler {
	return &SweetHandler{service: service}
}

// List handles GET /api/sweets — the public catalog.
//
// @Summary      List all sweets
// @Tags         sweets
// @Produce      json
// @Success      200  {array}  domain.Sweet
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Search handles GET /api/sweets/search with optional filters.
//
// @Summary      Search sweets
// @Tags         sweets
// @Produce      json
// @Param        name       query     string  false  "Name substring (case-insensitive)"
// @Param        category   query     string  false  "Category substring (case-insensitive)"
// @Param        minPrice   query     number  false  "Lower price bound, inclusive"
// @Param        maxPrice   query     number  false  "Upper price bound, inclusive"
// @Success      200        {array}   domain.Sweet
// @Failure      400        {object}  errorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	var req searchSweetsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	sweets, err := h.service.Search(c.Request().Context(), ports.SearchFilter{
		Name:     req.Name,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Get handles GET /api/sweets/:id.
//
// @Summary      Get a sweet by id
// @Tags         sweets
// @Produce      json
// @Param        id   path      string  true  "Sweet id"
// @Success      200  {object}  domain.Sweet
// @Failure      404  {object}  errorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	sweet, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweet)
}

// Create handles POST /api/sweets. Admin only.
//
// @Summary      Create a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet details"
// @Success      201   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Create(c.Request().Context(), claims, ports.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sweet)
}

// Update handles PUT /api/sweets/:id. Admin only; body is a partial patch.
//
// @Summary      Update a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet id"
// @Param        body  body      updateSweetRequest  true  "Fields to change"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), ports.UpdateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweet)
}

// Delete handles DELETE /api/sweets/:id. Admin only.
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Purchase handles POST /api/sweets/:id/purchase for any authenticated caller.
//
// @Summary      Purchase a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Sweet id"
// @Param        body  body      quantityRequest  true  "Units to purchase"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Purchase(c.Request().Context(), claims, c.Param("id"), req.Quantity)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		return err
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	metrics.UnitsPurchasedTotal.Add(float64(req.Quantity))
	return c.JSON(http.StatusOK, sweet)
}

// Restock handles POST /api/sweets/:id/restock. Admin only.
//
// @Summary      Restock a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Sweet id"
// @Param        body  body      quantityRequest  true  "Units to add"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Restock(c.Request().Context(), claims, c.Param("id"), req.Quantity)
	if err != nil {
		return err
	}

	metrics.RestocksTotal.Inc()
	return c.JSON(http.StatusOK, sweet)
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrSweetNotFound):
		return "not_found"
	default:
		return "error"
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

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

// Create handles POST /api/sweets.
//
// @Summary      Add a sweet to the catalog
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet details"
// @Success      201   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req createSweetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sweet, err := h.service.AddSweet(c.Request().Context(), toAddInput(req))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusCreated, toSweetResponse(sweet))
}

// List handles GET /api/sweets.
//
// @Summary      List all sweets
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   sweetResponse
// @Failure      401  {object}  errorResponse
// @Router       /sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.service.ListSweets(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, toSweetListResponse(sweets))
}

// Search handles GET /api/sweets/search. All provided filters are ANDed;
// name and category match case-insensitive substrings.
//
// @Summary      Search sweets
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        name       query     string  false  "Name substring"
// @Param        category   query     string  false  "Category substring"
// @Param        min_price  query     number  false  "Minimum price"
// @Param        max_price  query     number  false  "Maximum price"
// @Success      200        {array}   sweetResponse
// @Failure      400        {object}  errorResponse
// @Router       /sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	in := ports.SearchSweetsInput{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	var err error
	if in.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "min_price must be a number"})
	}
	if in.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "max_price must be a number"})
	}

	sweets, err := h.service.SearchSweets(c.Request().Context(), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, toSweetListResponse(sweets))
}

// Update handles PUT /api/sweets/:id. Only supplied fields change.
//
// @Summary      Update a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet id"
// @Param        body  body      updateSweetRequest  true  "Fields to update"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req updateSweetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sweet, err := h.service.UpdateSweet(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Delete handles DELETE /api/sweets/:id (admin only).
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteSweet(c.Request().Context(), c.Param("id")); err != nil {
		return catalogError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Purchase handles POST /api/sweets/:id/purchase. An optional Idempotency-Key
// header makes client retries safe: a replayed key returns the current sweet
// without a second decrement.
//
// @Summary      Purchase a sweet (decrement stock)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent double purchases"
// @Param        id               path      string           true   "Sweet id"
// @Param        body             body      quantityRequest  true   "Units to purchase"
// @Success      200              {object}  sweetResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sweet, err := h.service.Purchase(c.Request().Context(), ports.PurchaseInput{
		ID:             c.Param("id"),
		Amount:         req.Quantity,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Restock handles POST /api/sweets/:id/restock (admin only).
//
// @Summary      Restock a sweet (increment stock)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Sweet id"
// @Param        body  body      quantityRequest  true  "Units to add"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sweet, err := h.service.Restock(c.Request().Context(), ports.RestockInput{
		ID:     c.Param("id"),
		Amount: req.Quantity,
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// priceParam parses an optional float query parameter; nil when absent.
func priceParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// catalogError maps service errors onto the response envelope.
func catalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSweetNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "sweet not found"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, errorResponse{Error: "insufficient stock"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

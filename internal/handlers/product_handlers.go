package handlers

import (
	"net/http"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for the product catalog
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type ProductRequest struct {
	Barcode       string  `json:"barcode"`
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchase_price"`
	SellPrice     float64 `json:"sell_price"`
	Quantity      int     `json:"quantity"`
}

// CreateProduct adds a product to the catalog
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}

	product := &models.Product{
		Barcode:       req.Barcode,
		Name:          req.Name,
		PurchasePrice: req.PurchasePrice,
		SellPrice:     req.SellPrice,
		Quantity:      req.Quantity,
	}
	if err := h.productService.Create(c.Request().Context(), actor.TenantID(), product); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// ListProducts returns the catalog ordered by name
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {array} models.Product
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	products, err := h.productService.List(c.Request().Context(), actor.TenantID())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a product by ID
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrProductNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	product, err := h.productService.GetByID(c.Request().Context(), actor.TenantID(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetProductByBarcode is used by the scanner flow
// @Summary Get product by barcode
// @Tags Products
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} models.Product
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /products/barcode/{barcode} [get]
func (h *ProductHandlers) GetProductByBarcode(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	product, err := h.productService.GetByBarcode(c.Request().Context(), actor.TenantID(), c.Param("barcode"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct applies a partial update. The barcode cannot change.
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.ProductUpdate true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrProductNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	var patch models.ProductUpdate
	if err := bind(c, &patch); err != nil {
		return common.SendError(c, err)
	}
	product, err := h.productService.Update(c.Request().Context(), actor.TenantID(), id, &patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct deletes a product
// @Summary Delete product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrProductNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.productService.Delete(c.Request().Context(), actor.TenantID(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// DefaultMaxImageSize applies when no upload limit is configured
const DefaultMaxImageSize int64 = 5 << 20

// CatalogHandler serves the public catalog and merchant item management
type CatalogHandler struct {
	BaseHandler
	items        *appcatalog.ItemService
	maxImageSize int64
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(items *appcatalog.ItemService, maxImageSize int64) *CatalogHandler {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}
	return &CatalogHandler{items: items, maxImageSize: maxImageSize}
}

// List godoc
// @Summary      List catalog items
// @Tags         catalog
// @Produce      json
// @Param        category query string false "Category filter"
// @Param        featured query bool   false "Only featured items"
// @Success      200 {object} dto.Response{data=[]appcatalog.ItemResponse}
// @Router       /catalog/items [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var q appcatalog.ListItemsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	items, err := h.items.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListFeatured handles GET /catalog/items/featured
func (h *CatalogHandler) ListFeatured(c *gin.Context) {
	items, err := h.items.ListFeatured(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get handles GET /catalog/items/:itemId
func (h *CatalogHandler) Get(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      List a new item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=appcatalog.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req appcatalog.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), middleware.GetPrincipalID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Item created", item)
}

// Update handles PATCH /catalog/items/:itemId
func (h *CatalogHandler) Update(c *gin.Context) {
	var req appcatalog.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("itemId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Item updated", item)
}

// UploadImage godoc
// @Summary      Replace an item's image
// @Tags         catalog
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "JPEG, PNG, GIF or WebP image"
// @Success      200 {object} dto.Response{data=appcatalog.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo} "Uploads disabled"
// @Security     BearerAuth
// @Router       /catalog/items/{itemId}/image [put]
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field \"file\" is required")
		return
	}
	if fh.Size > h.maxImageSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("Image exceeds %d bytes", h.maxImageSize))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	item, err := h.items.UploadImage(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("itemId"), appcatalog.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Image uploaded", item)
}

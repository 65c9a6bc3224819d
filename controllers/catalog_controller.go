package controllers

import (
	"io"
	"math"
	"net/http"

	"storefront/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogController serves the public product catalog: a cached paginated
// listing and a snapshot stream for live updates.
type CatalogController struct {
	products  ProductAPI
	cache     *CacheManager
	hub       *realtime.Hub
	validator *RequestValidator
}

func NewCatalogController(products ProductAPI, cache *CacheManager, hub *realtime.Hub) *CatalogController {
	return &CatalogController{
		products:  products,
		cache:     cache,
		hub:       hub,
		validator: NewRequestValidator(),
	}
}

// GetCatalog returns active products, newest first, paginated.
func (ctrl *CatalogController) GetCatalog(c *gin.Context) {
	page, perPage, err := ctrl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ctrl.cache != nil {
		if cached, ok := ctrl.cache.GetCatalogPage(c.Request.Context(), page, perPage); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, total, err := ctrl.products.ListActive(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response := map[string]interface{}{
		"products": products,
		"meta": map[string]interface{}{
			"page":       page,
			"perPage":    perPage,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(perPage))),
		},
	}
	if ctrl.cache != nil {
		ctrl.cache.SetCatalogPageAsync(page, perPage, response)
	}
	c.JSON(http.StatusOK, response)
}

// StreamCatalog delivers the full active-catalog snapshot over SSE: one
// delivery on connect and one after every product mutation. Consumers
// replace their rendered view on each event.
func (ctrl *CatalogController) StreamCatalog(c *gin.Context) {
	sub := ctrl.hub.Subscribe()
	defer sub.Unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	zap.L().Debug("Catalog stream subscriber connected", zap.String("ip", c.ClientIP()))

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("products", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

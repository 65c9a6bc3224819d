package controllers

import (
	"net/http"
	"time"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

// ProductController serves the admin product surface: CRUD plus the
// archive/restore/purge lifecycle.
type ProductController struct {
	products  ProductAPI
	lifecycle LifecycleAPI
	validator *RequestValidator
}

func NewProductController(products ProductAPI, lifecycle LifecycleAPI) *ProductController {
	return &ProductController{
		products:  products,
		lifecycle: lifecycle,
		validator: NewRequestValidator(),
	}
}

// ListProducts returns active products for the admin dashboard.
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	page, perPage, err := ctrl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	products, total, err := ctrl.products.ListActive(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

// archivedProduct decorates a product with the days remaining until it
// becomes eligible for the scheduled purge.
type archivedProduct struct {
	*models.Product
	DaysUntilPurge int `json:"daysUntilPurge"`
}

// ListArchived returns archived products with their purge countdown.
func (ctrl *ProductController) ListArchived(c *gin.Context) {
	products, err := ctrl.products.ListArchived(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	out := make([]archivedProduct, 0, len(products))
	for _, p := range products {
		days := 0
		if eligible := p.PurgeEligibleAt(services.ArchiveRetention); !eligible.IsZero() {
			if remaining := eligible.Sub(now); remaining > 0 {
				days = int(remaining.Hours()/24) + 1
			}
		}
		out = append(out, archivedProduct{Product: p, DaysUntilPurge: days})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

// GetProduct returns a single product (also used to fill the edit form).
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a product from the multipart form.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	req, err := ctrl.validator.ParseSaveProductRequest(c, "")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := ctrl.products.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct updates an existing product from the multipart form.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	req, err := ctrl.validator.ParseSaveProductRequest(c, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := ctrl.products.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ArchiveProduct soft-deletes a product.
func (ctrl *ProductController) ArchiveProduct(c *gin.Context) {
	if err := ctrl.lifecycle.Archive(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

// RestoreProduct returns an archived product to the catalog.
func (ctrl *ProductController) RestoreProduct(c *gin.Context) {
	if err := ctrl.lifecycle.Restore(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

// PurgeProduct permanently deletes a product and its images. The client is
// expected to have confirmed this with the operator; there is no age check
// on the manual path.
func (ctrl *ProductController) PurgeProduct(c *gin.Context) {
	if err := ctrl.lifecycle.Purge(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "purged"})
}

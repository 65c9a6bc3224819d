package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxImageUploadSize caps raw image input before preparation.
const MaxImageUploadSize = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// SaveProductRequest defines the multipart form for creating or updating a
// product. price_cents is minor currency units.
type SaveProductRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	PriceCents  int64  `form:"price_cents" validate:"gte=0"`
	Inventory   int    `form:"inventory" validate:"gte=0"`
	IsActive    string `form:"isActive"`
}

// RequestValidator handles all input validation.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// ParsePagination validates and parses pagination parameters.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("perPage", strconv.Itoa(DefaultPerPage)))
	if err != nil || perPage < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, nil
}

// ParseSaveProductRequest validates the product form and reads the optional
// image file into the service request.
func (rv *RequestValidator) ParseSaveProductRequest(c *gin.Context, id string) (services.ProductSaveRequest, error) {
	var form SaveProductRequest
	if err := c.ShouldBind(&form); err != nil {
		return services.ProductSaveRequest{}, fmt.Errorf("invalid form data: %w", err)
	}
	if err := rv.validate.Struct(&form); err != nil {
		return services.ProductSaveRequest{}, fmt.Errorf("validation failed: %w", err)
	}

	req := services.ProductSaveRequest{
		Title:       form.Title,
		Description: form.Description,
		PriceCents:  form.PriceCents,
		Inventory:   form.Inventory,
	}

	if id != "" {
		pid, err := uuid.Parse(id)
		if err != nil {
			return services.ProductSaveRequest{}, errors.New("invalid product id")
		}
		req.ID = &pid
	}

	if form.IsActive != "" {
		active, err := strconv.ParseBool(form.IsActive)
		if err != nil {
			return services.ProductSaveRequest{}, errors.New("invalid boolean value for 'isActive'")
		}
		req.IsActive = &active
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No image attached is fine; the record keeps its current images.
		return req, nil
	}
	if fileHeader.Size > MaxImageUploadSize {
		return services.ProductSaveRequest{}, fmt.Errorf("image too large (max %dMB)", MaxImageUploadSize/(1024*1024))
	}
	if !rv.IsValidImageType(fileHeader) {
		return services.ProductSaveRequest{}, fmt.Errorf("invalid image type for file %s. Allowed: jpeg, jpg, png, webp, gif", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return services.ProductSaveRequest{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return services.ProductSaveRequest{}, fmt.Errorf("read image: %w", err)
	}

	req.ImageData = data
	req.ImageName = fileHeader.Filename
	req.ImageType = fileHeader.Header.Get("Content-Type")
	return req, nil
}

// IsValidImageType checks if the file is a valid image.
func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	if allowedImageTypes[file.Header.Get("Content-Type")] {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}

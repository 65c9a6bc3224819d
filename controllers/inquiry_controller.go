package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InquiryController handles the contact form.
type InquiryController struct {
	inquiries InquiryAPI
}

func NewInquiryController(inquiries InquiryAPI) *InquiryController {
	return &InquiryController{inquiries: inquiries}
}

// SubmitInquiryRequest is the contact form payload. Name is optional.
type SubmitInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SubmitInquiry stores a contact-form submission.
func (ctrl *InquiryController) SubmitInquiry(c *gin.Context) {
	var req SubmitInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and message are required"})
		return
	}
	inquiry, err := ctrl.inquiries.Submit(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inquiry)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ReviewController serves review submission and the public listing.
type ReviewController struct {
	reviews ReviewAPI
}

func NewReviewController(reviews ReviewAPI) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// SubmitReviewRequest is the public review form.
type SubmitReviewRequest struct {
	Name   string `json:"name" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// SubmitReview stores a customer review.
func (ctrl *ReviewController) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, rating and text are required"})
		return
	}
	review, err := ctrl.reviews.Submit(c.Request.Context(), req.Name, req.Rating, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews returns approved reviews, newest first.
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	reviews, err := ctrl.reviews.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

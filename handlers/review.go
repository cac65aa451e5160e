package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
)

type ReviewController struct {
	reviews    store.ReviewStore
	properties store.PropertyStore
}

func NewReviewController(reviews store.ReviewStore, properties store.PropertyStore) *ReviewController {
	return &ReviewController{reviews: reviews, properties: properties}
}

func (rc *ReviewController) CreateReview(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanReview() {
		return apperr.Forbidden("account is not allowed to review")
	}

	var req models.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review := models.Review{
		PropertyID:    req.PropertyID,
		PropertyTitle: req.PropertyTitle,
		ReviewerEmail: ident.Email,
		ReviewerName:  ident.Name,
		Comment:       req.Comment,
	}
	if propID, err := primitive.ObjectIDFromHex(req.PropertyID); err == nil {
		if property, err := rc.properties.FindByID(c.Request().Context(), propID); err == nil {
			review.PropertyTitle = property.Title
			review.AgentName = property.AgentName
		}
	}

	if _, err := rc.reviews.Insert(c.Request().Context(), &review); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

func (rc *ReviewController) AllReviews(c echo.Context) error {
	reviews, err := rc.reviews.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (rc *ReviewController) ReviewsByProperty(c echo.Context) error {
	reviews, err := rc.reviews.ListByProperty(c.Request().Context(), c.Param("propertyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (rc *ReviewController) ReviewsByUser(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if c.Param("email") != ident.Email {
		return apperr.Forbidden("you can only view your own reviews")
	}

	reviews, err := rc.reviews.ListByReviewer(c.Request().Context(), ident.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (rc *ReviewController) DeleteReview(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid review id")
	}
	if err := rc.reviews.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "review deleted successfully"})
}

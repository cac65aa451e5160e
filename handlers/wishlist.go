package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
)

type WishlistController struct {
	wishlist   store.WishlistStore
	properties store.PropertyStore
	users      store.UserStore
}

func NewWishlistController(wishlist store.WishlistStore, properties store.PropertyStore, users store.UserStore) *WishlistController {
	return &WishlistController{wishlist: wishlist, properties: properties, users: users}
}

func (wc *WishlistController) AddToWishlist(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanOffer() {
		return apperr.Forbidden("buyers only")
	}

	var req struct {
		PropertyID string `json:"propertyId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if _, err := primitive.ObjectIDFromHex(req.PropertyID); err != nil {
		return apperr.Validation("invalid property id")
	}

	exists, err := wc.wishlist.Exists(c.Request().Context(), ident.Email, req.PropertyID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict("already in wishlist")
	}

	item := models.WishlistItem{UserEmail: ident.Email, PropertyID: req.PropertyID}
	if _, err := wc.wishlist.Insert(c.Request().Context(), &item); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// GetWishlist joins the caller's wishlist against the catalog for display.
// Items whose property has since been deleted are dropped from the view.
func (wc *WishlistController) GetWishlist(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanOffer() {
		return apperr.Forbidden("buyers only")
	}

	items, err := wc.wishlist.ListByUser(c.Request().Context(), ident.Email)
	if err != nil {
		return err
	}

	entries := make([]models.WishlistEntry, 0, len(items))
	for _, item := range items {
		propID, err := primitive.ObjectIDFromHex(item.PropertyID)
		if err != nil {
			continue
		}
		property, err := wc.properties.FindByID(c.Request().Context(), propID)
		if err != nil {
			continue
		}

		entry := models.WishlistEntry{
			ID:                 item.ID,
			PropertyID:         item.PropertyID,
			Title:              property.Title,
			Location:           property.Location,
			PriceRange:         fmt.Sprintf("%v - %v", property.BasePrice, property.MaxPrice),
			VerificationStatus: property.VerificationStatus,
			PropertyImage:      property.Image,
			AgentName:          property.AgentName,
		}
		if agent, err := wc.users.FindByEmail(c.Request().Context(), property.AgentEmail); err == nil {
			entry.AgentName = agent.Name
			entry.AgentImage = agent.Image
		}
		entries = append(entries, entry)
	}
	return c.JSON(http.StatusOK, entries)
}

func (wc *WishlistController) RemoveFromWishlist(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanOffer() {
		return apperr.Forbidden("buyers only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid wishlist item id")
	}
	if err := wc.wishlist.Delete(c.Request().Context(), id, ident.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "wishlist item removed"})
}

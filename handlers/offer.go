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

type OfferController struct {
	properties store.PropertyStore
	offers     store.OfferStore
}

func NewOfferController(properties store.PropertyStore, offers store.OfferStore) *OfferController {
	return &OfferController{properties: properties, offers: offers}
}

func (oc *OfferController) SubmitOffer(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanOffer() {
		return apperr.Forbidden("buyers only")
	}

	var req models.SubmitOfferRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer, err := store.SubmitOffer(c.Request().Context(), oc.properties, oc.offers, ident, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, offer)
}

// OffersByUser lists the caller's own offers. The snapshot fields carry the
// display data; title and location are refreshed from the catalog when the
// listing still exists.
func (oc *OfferController) OffersByUser(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanOffer() {
		return apperr.Forbidden("buyers only")
	}
	if c.Param("email") != ident.Email {
		return apperr.Forbidden("you can only view your own offers")
	}

	offers, err := oc.offers.ListByBuyer(c.Request().Context(), ident.Email)
	if err != nil {
		return err
	}
	oc.refreshSnapshots(c, offers)
	return c.JSON(http.StatusOK, offers)
}

func (oc *OfferController) OffersByAgent(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return apperr.Forbidden("agents only")
	}
	if c.Param("email") != ident.Email {
		return apperr.Forbidden("you can only view offers on your own properties")
	}

	offers, err := oc.offers.ListByAgent(c.Request().Context(), ident.Email)
	if err != nil {
		return err
	}
	oc.refreshSnapshots(c, offers)
	return c.JSON(http.StatusOK, offers)
}

// CheckOffer drives the buy-button gating in the UI; it runs the exact
// predicate SubmitOffer's duplicate check uses.
func (oc *OfferController) CheckOffer(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)

	exists, err := oc.offers.Exists(c.Request().Context(), c.QueryParam("propertyId"), ident.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"exists": exists})
}

func (oc *OfferController) GetOffer(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid offer id")
	}
	offer, err := oc.offers.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if offer.BuyerEmail != ident.Email && offer.AgentEmail != ident.Email && !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("not your offer")
	}
	return c.JSON(http.StatusOK, offer)
}

// AcceptOffer resolves the negotiation in favor of this offer and rejects
// every competing pending offer on the same property. Only the agent who
// listed the property may decide, and repeat calls are no-ops.
func (oc *OfferController) AcceptOffer(c echo.Context) error {
	offer, err := oc.decidableOffer(c)
	if err != nil {
		return err
	}

	resolved, err := store.AcceptOffer(c.Request().Context(), oc.properties, oc.offers, offer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolved)
}

func (oc *OfferController) RejectOffer(c echo.Context) error {
	offer, err := oc.decidableOffer(c)
	if err != nil {
		return err
	}

	resolved, err := store.RejectOffer(c.Request().Context(), oc.offers, offer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolved)
}

// decidableOffer loads the target offer and enforces that the caller is the
// agent the property was listed under. The agent identity snapshotted at
// submission is authoritative, so decisions survive listing edits.
func (oc *OfferController) decidableOffer(c echo.Context) (*models.Offer, error) {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return nil, apperr.Forbidden("agents only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, apperr.Validation("invalid offer id")
	}
	offer, err := oc.offers.FindByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if offer.AgentEmail != ident.Email {
		return nil, apperr.Forbidden("you can only decide offers on your own properties")
	}
	return offer, nil
}

// PropertyBoughtStatus reports whether any offer on the property has been
// settled.
func (oc *OfferController) PropertyBoughtStatus(c echo.Context) error {
	bought, err := oc.offers.HasBought(c.Request().Context(), c.Param("propertyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"isBought": bought})
}

func (oc *OfferController) refreshSnapshots(c echo.Context, offers []models.Offer) {
	for i := range offers {
		propID, err := primitive.ObjectIDFromHex(offers[i].PropertyID)
		if err != nil {
			continue
		}
		property, err := oc.properties.FindByID(c.Request().Context(), propID)
		if err != nil {
			continue
		}
		offers[i].PropertyTitle = property.Title
		offers[i].PropertyLocation = property.Location
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

const (
	advertisedCacheKey = "properties:advertised"
	advertisedCacheTTL = 5 * time.Minute
	advertisedLimit    = 6
)

type PropertyController struct {
	properties store.PropertyStore
	offers     store.OfferStore
	users      store.UserStore
}

func NewPropertyController(properties store.PropertyStore, offers store.OfferStore, users store.UserStore) *PropertyController {
	return &PropertyController{properties: properties, offers: offers, users: users}
}

func (pc *PropertyController) CreateProperty(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return apperr.Forbidden("agents only")
	}

	var req models.CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.BasePrice > req.MaxPrice {
		return apperr.Validation("basePrice must not exceed maxPrice")
	}

	property := models.Property{
		Title:              req.Title,
		Location:           req.Location,
		BasePrice:          req.BasePrice,
		MaxPrice:           req.MaxPrice,
		AgentName:          ident.Name,
		AgentEmail:         ident.Email,
		Image:              req.Image,
		VerificationStatus: models.VerificationPending,
		SaleStatus:         models.SaleAvailable,
		Advertised:         false,
	}
	if _, err := pc.properties.Insert(c.Request().Context(), &property); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, property)
}

// ListProperties is the admin view: every listing regardless of status, with
// the agent's current photo joined in.
func (pc *PropertyController) ListProperties(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	properties, err := pc.properties.List(c.Request().Context())
	if err != nil {
		return err
	}
	pc.attachAgentPhotos(c, properties)
	return c.JSON(http.StatusOK, properties)
}

func (pc *PropertyController) MyProperties(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return apperr.Forbidden("agents only")
	}

	properties, err := pc.properties.ListByAgent(c.Request().Context(), ident.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, properties)
}

// AllProperties lists approved listings for any signed-in account.
func (pc *PropertyController) AllProperties(c echo.Context) error {
	properties, err := pc.properties.ListApproved(c.Request().Context())
	if err != nil {
		return err
	}
	pc.attachAgentPhotos(c, properties)
	return c.JSON(http.StatusOK, properties)
}

// AdvertisedProperties is the public landing-page query, served through the
// redis read-through cache.
func (pc *PropertyController) AdvertisedProperties(c echo.Context) error {
	ctx := c.Request().Context()

	var cached []models.Property
	if hit, err := utils.GetCached(ctx, advertisedCacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	properties, err := pc.properties.ListAdvertised(ctx, advertisedLimit)
	if err != nil {
		return err
	}
	_ = utils.SetCached(ctx, advertisedCacheKey, properties, advertisedCacheTTL)
	return c.JSON(http.StatusOK, properties)
}

// PropertyDetails serves the buyer-facing detail view; only approved
// listings are visible there.
func (pc *PropertyController) PropertyDetails(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}

	property, err := pc.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if property.VerificationStatus != models.VerificationApproved {
		return apperr.NotFound("property not found")
	}

	if agent, err := pc.users.FindByEmail(c.Request().Context(), property.AgentEmail); err == nil {
		property.AgentPhoto = agent.Image
	}
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}
	property, err := pc.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return apperr.Forbidden("agents only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}

	property, err := pc.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if property.AgentEmail != ident.Email {
		return apperr.Forbidden("you are not authorized to update this property")
	}

	var upd models.PropertyUpdate
	if err := c.Bind(&upd); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&upd); err != nil {
		return err
	}
	if upd.BasePrice > upd.MaxPrice {
		return apperr.Validation("basePrice must not exceed maxPrice")
	}

	if err := pc.properties.UpdateFields(c.Request().Context(), id, upd); err != nil {
		return err
	}
	return pc.respondWithProperty(c, id)
}

func (pc *PropertyController) VerifyProperty(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}

	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := pc.properties.SetVerification(c.Request().Context(), id, req.Status); err != nil {
		return err
	}
	_ = utils.InvalidateCached(c.Request().Context(), advertisedCacheKey)
	return pc.respondWithProperty(c, id)
}

// AdvertiseProperty flags a listing for the landing page. Safe to retry.
func (pc *PropertyController) AdvertiseProperty(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}
	if err := pc.properties.SetAdvertised(c.Request().Context(), id); err != nil {
		return err
	}
	_ = utils.InvalidateCached(c.Request().Context(), advertisedCacheKey)
	return c.JSON(http.StatusOK, map[string]string{"message": "property advertised"})
}

func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanListProperties() {
		return apperr.Forbidden("agents only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid property id")
	}
	if err := pc.properties.Delete(c.Request().Context(), id, ident.Email); err != nil {
		return err
	}
	_ = utils.InvalidateCached(c.Request().Context(), advertisedCacheKey)
	return c.JSON(http.StatusOK, map[string]string{"message": "property deleted"})
}

// SoldProperties reports an agent's completed sales from the offer ledger.
func (pc *PropertyController) SoldProperties(c echo.Context) error {
	agentEmail := c.Param("agentEmail")

	sold, err := pc.offers.ListBoughtByAgent(c.Request().Context(), agentEmail)
	if err != nil {
		return err
	}

	type soldRow struct {
		PropertyTitle    string  `json:"propertyTitle"`
		PropertyLocation string  `json:"propertyLocation"`
		BuyerEmail       string  `json:"buyerEmail"`
		BuyerName        string  `json:"buyerName"`
		SoldPrice        float64 `json:"soldPrice"`
	}
	rows := make([]soldRow, 0, len(sold))
	for _, o := range sold {
		rows = append(rows, soldRow{
			PropertyTitle:    o.PropertyTitle,
			PropertyLocation: o.PropertyLocation,
			BuyerEmail:       o.BuyerEmail,
			BuyerName:        o.BuyerName,
			SoldPrice:        o.OfferAmount,
		})
	}
	return c.JSON(http.StatusOK, rows)
}

func (pc *PropertyController) respondWithProperty(c echo.Context, id primitive.ObjectID) error {
	property, err := pc.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) attachAgentPhotos(c echo.Context, properties []models.Property) {
	photos := make(map[string]string)
	for i := range properties {
		email := properties[i].AgentEmail
		photo, ok := photos[email]
		if !ok {
			if agent, err := pc.users.FindByEmail(c.Request().Context(), email); err == nil {
				photo = agent.Image
			}
			photos[email] = photo
		}
		properties[i].AgentPhoto = photo
	}
}

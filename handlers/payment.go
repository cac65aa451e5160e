package handlers

import (
	"context"
	"log/slog"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
)

// PaymentAuthorizer is the external payment collaborator: it reserves the
// amount with the provider and hands back the client secret the frontend
// completes the charge with.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, amountMinorUnits int64) (clientSecret string, err error)
}

// StripeAuthorizer creates card PaymentIntents. Each call carries a fresh
// idempotency key so provider-side retries cannot double-charge.
type StripeAuthorizer struct{}

func (StripeAuthorizer) Authorize(ctx context.Context, amountMinorUnits int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())

	pi, err := paymentintent.New(params)
	if err != nil {
		slog.Warn("payment intent creation failed", "err", err)
		return "", apperr.Upstream("payment provider unavailable")
	}
	return pi.ClientSecret, nil
}

type PaymentController struct {
	properties store.PropertyStore
	offers     store.OfferStore
	authorizer PaymentAuthorizer
}

func NewPaymentController(properties store.PropertyStore, offers store.OfferStore, authorizer PaymentAuthorizer) *PaymentController {
	return &PaymentController{properties: properties, offers: offers, authorizer: authorizer}
}

// CreatePaymentIntent authorizes the offer amount with the payment provider.
// The price arrives in major units and is converted to the provider's minor
// units here.
func (pay *PaymentController) CreatePaymentIntent(c echo.Context) error {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Price <= 0 {
		return apperr.Validation("price must be a positive number")
	}

	clientSecret, err := pay.authorizer.Authorize(c.Request().Context(), int64(math.Round(req.Price*100)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// PaymentSuccess finalizes a settled sale: the accepted offer becomes bought
// and the property is marked sold. Only the buyer who holds the offer (or an
// admin acting for the settlement pipeline) may confirm. Safe to retry with
// the same transaction ref.
func (pay *PaymentController) PaymentSuccess(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid offer id")
	}

	var req models.SettlementRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer, err := pay.offers.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if offer.BuyerEmail != ident.Email && !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("not your offer")
	}

	settled, err := store.ConfirmSettlement(c.Request().Context(), pay.properties, pay.offers, id, req.TransactionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settled)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

func newTestContext(t *testing.T, method, path, body string, ident models.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = utils.NewRequestValidator()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", ident)
	return c, rec
}

func seedApprovedProperty(t *testing.T, mem *store.Memory, agentEmail string) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:              "Harbor Flat",
		Location:           "Dockside",
		BasePrice:          200000,
		MaxPrice:           250000,
		AgentEmail:         agentEmail,
		AgentName:          "Agent Smith",
		VerificationStatus: models.VerificationApproved,
		SaleStatus:         models.SaleAvailable,
	}
	_, err := mem.Properties().Insert(context.Background(), p)
	require.NoError(t, err)
	return p
}

func seedOffer(t *testing.T, mem *store.Memory, p *models.Property, buyerEmail string, amount float64) *models.Offer {
	t.Helper()
	o, err := store.SubmitOffer(context.Background(), mem.Properties(), mem.Offers(),
		models.Identity{Email: buyerEmail, Name: buyerEmail, Role: models.RoleUser},
		models.SubmitOfferRequest{PropertyID: p.ID.Hex(), OfferAmount: amount, BuyingDate: "2026-10-01"},
	)
	require.NoError(t, err)
	return o
}

func TestSubmitOfferHandler(t *testing.T) {
	mem := store.NewMemory()
	oc := NewOfferController(mem.Properties(), mem.Offers())
	p := seedApprovedProperty(t, mem, "smith@estate.test")

	buyerIdent := models.Identity{Email: "buyer@estate.test", Name: "Buyer", Role: models.RoleUser}
	body := `{"propertyId":"` + p.ID.Hex() + `","offerAmount":220000,"buyingDate":"2026-10-01"}`

	t.Run("buyer can submit", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/offers", body, buyerIdent)
		require.NoError(t, oc.SubmitOffer(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Offer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, models.OfferPending, created.Status)
		assert.Equal(t, "smith@estate.test", created.AgentEmail)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/offers", body, buyerIdent)
		err := oc.SubmitOffer(c)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("agents cannot submit", func(t *testing.T) {
		agentIdent := models.Identity{Email: "smith@estate.test", Role: models.RoleAgent}
		c, _ := newTestContext(t, http.MethodPost, "/offers", body, agentIdent)
		err := oc.SubmitOffer(c)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})
}

func TestAcceptOfferHandlerOwnership(t *testing.T) {
	mem := store.NewMemory()
	oc := NewOfferController(mem.Properties(), mem.Offers())
	p := seedApprovedProperty(t, mem, "smith@estate.test")
	offer := seedOffer(t, mem, p, "buyer@estate.test", 210000)

	accept := func(ident models.Identity) (echo.Context, *httptest.ResponseRecorder) {
		c, rec := newTestContext(t, http.MethodPatch, "/offers/accept/:id", "", ident)
		c.SetParamNames("id")
		c.SetParamValues(offer.ID.Hex())
		return c, rec
	}

	t.Run("other agents are refused", func(t *testing.T) {
		c, _ := accept(models.Identity{Email: "jones@estate.test", Role: models.RoleAgent})
		err := oc.AcceptOffer(c)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("buyers are refused", func(t *testing.T) {
		c, _ := accept(models.Identity{Email: "buyer@estate.test", Role: models.RoleUser})
		err := oc.AcceptOffer(c)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("owning agent accepts", func(t *testing.T) {
		c, rec := accept(models.Identity{Email: "smith@estate.test", Role: models.RoleAgent})
		require.NoError(t, oc.AcceptOffer(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resolved models.Offer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
		assert.Equal(t, models.OfferAccepted, resolved.Status)
	})

	t.Run("repeat accept is a no-op success", func(t *testing.T) {
		c, rec := accept(models.Identity{Email: "smith@estate.test", Role: models.RoleAgent})
		require.NoError(t, oc.AcceptOffer(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCheckOfferHandler(t *testing.T) {
	mem := store.NewMemory()
	oc := NewOfferController(mem.Properties(), mem.Offers())
	p := seedApprovedProperty(t, mem, "smith@estate.test")
	seedOffer(t, mem, p, "buyer@estate.test", 210000)

	check := func(email string) map[string]bool {
		c, rec := newTestContext(t, http.MethodGet, "/offers/check?propertyId="+p.ID.Hex(), "",
			models.Identity{Email: email, Role: models.RoleUser})
		require.NoError(t, oc.CheckOffer(c))
		var out map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.True(t, check("buyer@estate.test")["exists"])
	assert.False(t, check("other@estate.test")["exists"])
}

type fakeAuthorizer struct {
	lastAmount int64
	err        error
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, amountMinorUnits int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastAmount = amountMinorUnits
	return "secret_test_123", nil
}

func TestCreatePaymentIntentHandler(t *testing.T) {
	mem := store.NewMemory()
	auth := &fakeAuthorizer{}
	pay := NewPaymentController(mem.Properties(), mem.Offers(), auth)
	ident := models.Identity{Email: "buyer@estate.test", Role: models.RoleUser}

	t.Run("converts to minor units", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/create-payment-intent", `{"price":220000}`, ident)
		require.NoError(t, pay.CreatePaymentIntent(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(22000000), auth.lastAmount)
		assert.Contains(t, rec.Body.String(), "secret_test_123")
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/create-payment-intent", `{"price":0}`, ident)
		err := pay.CreatePaymentIntent(c)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("provider failure surfaces as upstream", func(t *testing.T) {
		failing := NewPaymentController(mem.Properties(), mem.Offers(), &fakeAuthorizer{err: apperr.Upstream("payment provider unavailable")})
		c, _ := newTestContext(t, http.MethodPost, "/create-payment-intent", `{"price":100}`, ident)
		err := failing.CreatePaymentIntent(c)
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	})
}

func TestPaymentSuccessHandler(t *testing.T) {
	mem := store.NewMemory()
	pay := NewPaymentController(mem.Properties(), mem.Offers(), &fakeAuthorizer{})
	p := seedApprovedProperty(t, mem, "smith@estate.test")
	offer := seedOffer(t, mem, p, "buyer@estate.test", 210000)

	_, err := store.AcceptOffer(context.Background(), mem.Properties(), mem.Offers(), offer.ID)
	require.NoError(t, err)

	settle := func(ident models.Identity) (echo.Context, *httptest.ResponseRecorder) {
		c, rec := newTestContext(t, http.MethodPatch, "/offers/payment-success/:id", `{"trxId":"trx-99"}`, ident)
		c.SetParamNames("id")
		c.SetParamValues(offer.ID.Hex())
		return c, rec
	}

	t.Run("stranger cannot settle", func(t *testing.T) {
		c, _ := settle(models.Identity{Email: "other@estate.test", Role: models.RoleUser})
		err := pay.PaymentSuccess(c)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("buyer settles and property is sold", func(t *testing.T) {
		c, rec := settle(models.Identity{Email: "buyer@estate.test", Role: models.RoleUser})
		require.NoError(t, pay.PaymentSuccess(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		stored, err := mem.Properties().FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SaleSold, stored.SaleStatus)
	})
}

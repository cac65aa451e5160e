package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
)

func buyer(email, name string) models.Identity {
	return models.Identity{ID: primitive.NewObjectID(), Email: email, Name: name, Role: models.RoleUser}
}

func seedProperty(t *testing.T, props PropertyStore, status models.VerificationStatus) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:              "Lakeside Villa",
		Location:           "Springfield",
		BasePrice:          200000,
		MaxPrice:           250000,
		AgentName:          "Agent Smith",
		AgentEmail:         "smith@estate.test",
		VerificationStatus: status,
		SaleStatus:         models.SaleAvailable,
	}
	_, err := props.Insert(context.Background(), p)
	require.NoError(t, err)
	return p
}

func submit(t *testing.T, props PropertyStore, offers OfferStore, p *models.Property, email string, amount float64) *models.Offer {
	t.Helper()
	o, err := SubmitOffer(context.Background(), props, offers, buyer(email, email), models.SubmitOfferRequest{
		PropertyID:  p.ID.Hex(),
		OfferAmount: amount,
		BuyingDate:  "2026-10-01",
	})
	require.NoError(t, err)
	require.Equal(t, models.OfferPending, o.Status)
	return o
}

func TestSubmitOfferGating(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	t.Run("unknown property", func(t *testing.T) {
		_, err := SubmitOffer(ctx, props, offers, buyer("a@b.test", "A"), models.SubmitOfferRequest{
			PropertyID: primitive.NewObjectID().Hex(), OfferAmount: 210000, BuyingDate: "2026-10-01",
		})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("unapproved property", func(t *testing.T) {
		p := seedProperty(t, props, models.VerificationPending)
		_, err := SubmitOffer(ctx, props, offers, buyer("a@b.test", "A"), models.SubmitOfferRequest{
			PropertyID: p.ID.Hex(), OfferAmount: 210000, BuyingDate: "2026-10-01",
		})
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("price band", func(t *testing.T) {
		p := seedProperty(t, props, models.VerificationApproved)

		_, err := SubmitOffer(ctx, props, offers, buyer("low@b.test", "Low"), models.SubmitOfferRequest{
			PropertyID: p.ID.Hex(), OfferAmount: 180000, BuyingDate: "2026-10-01",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "below basePrice")

		_, err = SubmitOffer(ctx, props, offers, buyer("high@b.test", "High"), models.SubmitOfferRequest{
			PropertyID: p.ID.Hex(), OfferAmount: 250001, BuyingDate: "2026-10-01",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "above maxPrice")

		o := submit(t, props, offers, p, "ok@b.test", 220000)
		assert.Equal(t, p.Title, o.PropertyTitle)
		assert.Equal(t, p.AgentEmail, o.AgentEmail)
	})

	t.Run("duplicate buyer", func(t *testing.T) {
		p := seedProperty(t, props, models.VerificationApproved)
		submit(t, props, offers, p, "dup@b.test", 210000)

		_, err := SubmitOffer(ctx, props, offers, buyer("dup@b.test", "Dup"), models.SubmitOfferRequest{
			PropertyID: p.ID.Hex(), OfferAmount: 215000, BuyingDate: "2026-10-01",
		})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		exists, err := offers.Exists(ctx, p.ID.Hex(), "dup@b.test")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("bad buying date", func(t *testing.T) {
		p := seedProperty(t, props, models.VerificationApproved)
		_, err := SubmitOffer(ctx, props, offers, buyer("date@b.test", "D"), models.SubmitOfferRequest{
			PropertyID: p.ID.Hex(), OfferAmount: 210000, BuyingDate: "next tuesday",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestAcceptOfferResolution(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)
	winner := submit(t, props, offers, p, "a@b.test", 210000)
	loserOne := submit(t, props, offers, p, "b@b.test", 220000)
	loserTwo := submit(t, props, offers, p, "c@b.test", 230000)

	resolved, err := AcceptOffer(ctx, props, offers, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, resolved.Status)

	for _, id := range []primitive.ObjectID{loserOne.ID, loserTwo.ID} {
		o, err := offers.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.OfferRejected, o.Status)
	}

	// Repeat call is a no-op success.
	again, err := AcceptOffer(ctx, props, offers, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, again.Status)

	// Accepting a loser after resolution does not raise an error and does
	// not produce a second winner.
	late, err := AcceptOffer(ctx, props, offers, loserOne.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, late.Status)

	// Property still holds exactly the winner and stays available until
	// settlement.
	stored, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID.Hex(), stored.AcceptedOffer)
	assert.Equal(t, models.SaleAvailable, stored.SaleStatus)
}

func TestAcceptOfferUnknown(t *testing.T) {
	mem := NewMemory()
	_, err := AcceptOffer(context.Background(), mem.Properties(), mem.Offers(), primitive.NewObjectID())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestConcurrentAcceptsYieldOneWinner(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)

	const n = 16
	ids := make([]primitive.ObjectID, n)
	for i := 0; i < n; i++ {
		o := submit(t, props, offers, p, fmt.Sprintf("buyer%d@b.test", i), 210000)
		ids[i] = o.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, err := AcceptOffer(ctx, props, offers, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	var accepted int
	for _, id := range ids {
		o, err := offers.FindByID(ctx, id)
		require.NoError(t, err)
		switch o.Status {
		case models.OfferAccepted:
			accepted++
		case models.OfferRejected:
		default:
			t.Fatalf("offer %s left in status %s", id.Hex(), o.Status)
		}
	}
	assert.Equal(t, 1, accepted)

	stored, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.AcceptedOffer)
}

// rejectBetween simulates a reject landing between AcceptOffer's read and its
// claim: the first pending read of the target triggers the rejection after
// handing back the stale copy.
type rejectBetween struct {
	OfferStore
	target primitive.ObjectID
	fired  bool
}

func (s *rejectBetween) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	o, err := s.OfferStore.FindByID(ctx, id)
	if err != nil || s.fired || id != s.target || o.Status != models.OfferPending {
		return o, err
	}
	s.fired = true
	if _, err := s.OfferStore.MarkRejected(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func TestAcceptRacingRejectReleasesClaim(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)
	first := submit(t, props, offers, p, "a@b.test", 210000)
	second := submit(t, props, offers, p, "b@b.test", 220000)

	racing := &rejectBetween{OfferStore: offers, target: first.ID}
	resolved, err := AcceptOffer(ctx, props, racing, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, resolved.Status)

	// The claim the accept briefly held must have been handed back.
	stored, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AcceptedOffer)

	// The property can still be resolved in favor of another offer.
	winner, err := AcceptOffer(ctx, props, offers, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, winner.Status)
}

func TestRejectOffer(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)
	o := submit(t, props, offers, p, "a@b.test", 210000)

	rejected, err := RejectOffer(ctx, offers, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, rejected.Status)

	// Blind retry is safe.
	rejected, err = RejectOffer(ctx, offers, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, rejected.Status)

	// An accepted offer cannot be rejected afterwards.
	winner := submit(t, props, offers, p, "b@b.test", 215000)
	_, err = AcceptOffer(ctx, props, offers, winner.ID)
	require.NoError(t, err)
	_, err = RejectOffer(ctx, offers, winner.ID)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestSettlementLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)
	offerA := submit(t, props, offers, p, "a@b.test", 210000)
	offerB := submit(t, props, offers, p, "b@b.test", 220000)

	// Settling a pending offer is illegal.
	_, err := ConfirmSettlement(ctx, props, offers, offerA.ID, "trx-1")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = AcceptOffer(ctx, props, offers, offerA.ID)
	require.NoError(t, err)

	b, err := offers.FindByID(ctx, offerB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, b.Status)

	// Acceptance alone does not close the market: a third buyer can still
	// submit until settlement lands.
	offerC, err := SubmitOffer(ctx, props, offers, buyer("c@b.test", "C"), models.SubmitOfferRequest{
		PropertyID: p.ID.Hex(), OfferAmount: 225000, BuyingDate: "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OfferPending, offerC.Status)

	settled, err := ConfirmSettlement(ctx, props, offers, offerA.ID, "trx-1")
	require.NoError(t, err)
	assert.Equal(t, models.OfferBought, settled.Status)
	assert.Equal(t, "trx-1", settled.TransactionID)

	stored, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleSold, stored.SaleStatus)

	// Replay with the same transaction ref is an idempotent success.
	settled, err = ConfirmSettlement(ctx, props, offers, offerA.ID, "trx-1")
	require.NoError(t, err)
	assert.Equal(t, models.OfferBought, settled.Status)

	// A different ref on a bought offer is rejected.
	_, err = ConfirmSettlement(ctx, props, offers, offerA.ID, "trx-2")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// Sold properties accept no further offers.
	_, err = SubmitOffer(ctx, props, offers, buyer("d@b.test", "D"), models.SubmitOfferRequest{
		PropertyID: p.ID.Hex(), OfferAmount: 230000, BuyingDate: "2026-10-01",
	})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	bought, err := offers.HasBought(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.True(t, bought)
}

// settleTwice lands an identical bought transition just before the caller's
// own swap, as when two settlement confirmations with the same ref race.
type settleTwice struct {
	OfferStore
	fired bool
}

func (s *settleTwice) MarkBought(ctx context.Context, id primitive.ObjectID, trxID string) (bool, error) {
	if !s.fired {
		s.fired = true
		if _, err := s.OfferStore.MarkBought(ctx, id, trxID); err != nil {
			return false, err
		}
	}
	return s.OfferStore.MarkBought(ctx, id, trxID)
}

func TestSettlementReplayRace(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, offers := mem.Properties(), mem.Offers()

	p := seedProperty(t, props, models.VerificationApproved)
	o := submit(t, props, offers, p, "a@b.test", 210000)
	_, err := AcceptOffer(ctx, props, offers, o.ID)
	require.NoError(t, err)

	// The loser of two identical confirmations still gets the idempotent
	// success, not an invalid-state failure from a stale read.
	settled, err := ConfirmSettlement(ctx, props, &settleTwice{OfferStore: offers}, o.ID, "trx-1")
	require.NoError(t, err)
	assert.Equal(t, models.OfferBought, settled.Status)
	assert.Equal(t, "trx-1", settled.TransactionID)
}

func TestMarkAgentFraudCascade(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	props, users := mem.Properties(), mem.Users()

	agent := &models.User{Email: "smith@estate.test", Name: "Agent Smith", Role: models.RoleAgent}
	agentID, err := users.Insert(ctx, agent)
	require.NoError(t, err)

	other := &models.User{Email: "buyer@estate.test", Name: "Buyer", Role: models.RoleUser}
	otherID, err := users.Insert(ctx, other)
	require.NoError(t, err)

	seedProperty(t, props, models.VerificationApproved)
	seedProperty(t, props, models.VerificationPending)

	keep := &models.Property{
		Title: "Other Agent Home", Location: "Shelbyville",
		BasePrice: 100000, MaxPrice: 120000,
		AgentEmail: "jones@estate.test", AgentName: "Agent Jones",
		VerificationStatus: models.VerificationApproved,
		SaleStatus:         models.SaleAvailable,
	}
	_, err = props.Insert(ctx, keep)
	require.NoError(t, err)

	flagged, removed, err := MarkAgentFraud(ctx, users, props, agentID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFraud, flagged.Role)
	assert.Equal(t, int64(2), removed)

	remaining, err := props.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "jones@estate.test", remaining[0].AgentEmail)

	// Only agents can be marked.
	_, _, err = MarkAgentFraud(ctx, users, props, otherID)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// A fraud-marked account holds no grants.
	cap := models.RoleGate(flagged.Identity())
	assert.False(t, cap.CanListProperties())
	assert.False(t, cap.CanOffer())
	assert.False(t, cap.CanModerate())
}

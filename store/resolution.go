package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
)

// This file is the offer workflow: submission against the catalog's gates,
// the accept/reject resolution that leaves at most one winner per property,
// and settlement. The functions are store-agnostic so the same semantics run
// against Mongo in production and the memory stores in tests.

// SubmitOffer validates and records a buyer's offer on a property.
func SubmitOffer(ctx context.Context, props PropertyStore, offers OfferStore, buyer models.Identity, req models.SubmitOfferRequest) (*models.Offer, error) {
	propID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return nil, apperr.Validation("invalid property id")
	}

	property, err := props.FindByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if property.VerificationStatus != models.VerificationApproved {
		return nil, apperr.InvalidStateForbidden("offers allowed only on approved properties")
	}
	if property.SaleStatus == models.SaleSold {
		return nil, apperr.InvalidStateForbidden("property is already sold")
	}
	if !property.InBand(req.OfferAmount) {
		return nil, apperr.Validation("offer must be between %v and %v", property.BasePrice, property.MaxPrice)
	}

	exists, err := offers.Exists(ctx, req.PropertyID, buyer.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("you have already made an offer for this property")
	}

	buyingDate, err := parseBuyingDate(req.BuyingDate)
	if err != nil {
		return nil, apperr.Validation("invalid buying date")
	}

	offer := &models.Offer{
		PropertyID:       req.PropertyID,
		PropertyTitle:    property.Title,
		PropertyLocation: property.Location,
		AgentEmail:       property.AgentEmail,
		AgentName:        property.AgentName,
		BuyerEmail:       buyer.Email,
		BuyerName:        buyer.Name,
		OfferAmount:      req.OfferAmount,
		BuyingDate:       buyingDate,
		Status:           models.OfferPending,
	}
	if _, err := offers.Insert(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func parseBuyingDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// AcceptOffer resolves the negotiation on an offer's property in favor of
// that offer. The winner slot on the property document is claimed with a
// conditional write, so when several calls race on offers of the same
// property exactly one claim lands; every pending competitor of the winner
// is then rejected.
//
// A non-pending target is not an error: the call returns the offer's current
// state unchanged. That makes retries and race losers indistinguishable from
// late readers, which is the intended first-committer-wins behavior.
func AcceptOffer(ctx context.Context, props PropertyStore, offers OfferStore, offerID primitive.ObjectID) (*models.Offer, error) {
	offer, err := offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferPending {
		return offer, nil
	}

	propID, err := primitive.ObjectIDFromHex(offer.PropertyID)
	if err != nil {
		return nil, apperr.Validation("offer references an invalid property id")
	}

	won, err := props.ClaimWinner(ctx, propID, offer.ID.Hex())
	if err != nil {
		return nil, err
	}
	if !won {
		// Another offer holds the property. This one loses; settle its
		// status now rather than waiting for the winner's reject sweep.
		if _, err := offers.MarkRejected(ctx, offer.ID); err != nil {
			return nil, err
		}
		return offers.FindByID(ctx, offer.ID)
	}

	moved, err := offers.MarkAccepted(ctx, offer.ID)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A concurrent call moved the offer between our read and the claim.
		// Either another accept already recorded this outcome, or a reject
		// retired the offer; in the latter case the claim must be handed
		// back or the property could never be resolved.
		current, err := offers.FindByID(ctx, offer.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.OfferRejected {
			if err := props.ReleaseWinner(ctx, propID, offer.ID.Hex()); err != nil {
				return nil, err
			}
		}
		return current, nil
	}

	if _, err := offers.RejectOthers(ctx, offer.PropertyID, offer.ID); err != nil {
		return nil, err
	}

	offer.Status = models.OfferAccepted
	return offer, nil
}

// RejectOffer turns down a single pending offer. Rejecting an already
// rejected offer is a no-op; an accepted or bought offer cannot be rejected.
func RejectOffer(ctx context.Context, offers OfferStore, offerID primitive.ObjectID) (*models.Offer, error) {
	offer, err := offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	switch offer.Status {
	case models.OfferRejected:
		return offer, nil
	case models.OfferAccepted, models.OfferBought:
		return nil, apperr.InvalidState("offer has already been accepted")
	}

	if _, err := offers.MarkRejected(ctx, offerID); err != nil {
		return nil, err
	}
	return offers.FindByID(ctx, offerID)
}

// ConfirmSettlement records a completed payment: the accepted offer becomes
// bought and the property leaves the market. Replays with the same
// transaction ref succeed without touching anything.
func ConfirmSettlement(ctx context.Context, props PropertyStore, offers OfferStore, offerID primitive.ObjectID, trxID string) (*models.Offer, error) {
	moved, err := offers.MarkBought(ctx, offerID, trxID)
	if err != nil {
		return nil, err
	}

	// Read after the swap: a replay that lost a race to an identical call
	// must see the bought status the winner just wrote, not a stale copy.
	offer, err := offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !moved {
		if offer.Status == models.OfferBought && offer.TransactionID == trxID {
			return offer, nil
		}
		return nil, apperr.InvalidState("only accepted offers can be settled")
	}

	propID, err := primitive.ObjectIDFromHex(offer.PropertyID)
	if err != nil {
		return nil, apperr.Validation("offer references an invalid property id")
	}
	if err := props.MarkSold(ctx, propID); err != nil {
		return nil, err
	}
	return offer, nil
}

// MarkAgentFraud is the explicit two-step fraud command: flip the agent's
// role, then cascade-delete their listings. The removed count is returned so
// callers can surface and tests can assert the cascade.
func MarkAgentFraud(ctx context.Context, users UserStore, props PropertyStore, userID primitive.ObjectID) (*models.User, int64, error) {
	u, err := users.MarkFraud(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	removed, err := props.DeleteByAgent(ctx, u.Email)
	if err != nil {
		return nil, 0, err
	}
	return u, removed, nil
}

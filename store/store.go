// Package store holds the persistence layer: the property catalog, the offer
// ledger and the identity records, each behind a small interface with a
// Mongo-backed implementation and an in-memory one sharing the same
// conditional-update semantics.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/models"
)

type PropertyStore interface {
	Insert(ctx context.Context, p *models.Property) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	List(ctx context.Context) ([]models.Property, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]models.Property, error)
	ListApproved(ctx context.Context) ([]models.Property, error)
	ListAdvertised(ctx context.Context, limit int64) ([]models.Property, error)
	SetVerification(ctx context.Context, id primitive.ObjectID, decision models.VerificationStatus) error
	SetAdvertised(ctx context.Context, id primitive.ObjectID) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, upd models.PropertyUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID, agentEmail string) error
	DeleteByAgent(ctx context.Context, agentEmail string) (int64, error)

	// ClaimWinner conditionally records offerID as the property's accepted
	// offer. The write matches only when the slot is empty or already holds
	// offerID, so exactly one offer can ever claim a property no matter how
	// many resolution calls race.
	ClaimWinner(ctx context.Context, id primitive.ObjectID, offerID string) (bool, error)

	// ReleaseWinner clears the accepted-offer slot, but only while it still
	// holds offerID. Needed when a claim lands for an offer a concurrent
	// reject has already retired.
	ReleaseWinner(ctx context.Context, id primitive.ObjectID, offerID string) error
	MarkSold(ctx context.Context, id primitive.ObjectID) error
}

type OfferStore interface {
	Insert(ctx context.Context, o *models.Offer) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error)
	Exists(ctx context.Context, propertyID, buyerEmail string) (bool, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error)
	ListBoughtByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error)
	HasBought(ctx context.Context, propertyID string) (bool, error)

	// The Mark* calls are compare-and-swap transitions keyed on the current
	// status; the bool reports whether the document was actually moved.
	MarkAccepted(ctx context.Context, id primitive.ObjectID) (bool, error)
	MarkRejected(ctx context.Context, id primitive.ObjectID) (bool, error)
	MarkBought(ctx context.Context, id primitive.ObjectID, trxID string) (bool, error)
	RejectOthers(ctx context.Context, propertyID string, winnerID primitive.ObjectID) (int64, error)
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error

	// MarkFraud flips an agent to the fraud role. The transition matches on
	// role=agent; any other current role is an invalid-state failure.
	MarkFraud(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type WishlistStore interface {
	Insert(ctx context.Context, item *models.WishlistItem) (primitive.ObjectID, error)
	Exists(ctx context.Context, userEmail, propertyID string) (bool, error)
	ListByUser(ctx context.Context, userEmail string) ([]models.WishlistItem, error)

	// Delete matches on owner as well as id, so a buyer can only remove
	// their own items.
	Delete(ctx context.Context, id primitive.ObjectID, userEmail string) error
}

type ReviewStore interface {
	Insert(ctx context.Context, r *models.Review) (primitive.ObjectID, error)
	ListAll(ctx context.Context) ([]models.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]models.Review, error)
	ListByReviewer(ctx context.Context, email string) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

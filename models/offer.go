package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

// Offer is a buyer's bid on a property. Title, location and agent identity
// are snapshotted from the property at submission time so the record stays
// auditable even if the listing is later edited or deleted.
type Offer struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PropertyID       string             `json:"propertyId" bson:"propertyId"`
	PropertyTitle    string             `json:"propertyTitle" bson:"propertyTitle"`
	PropertyLocation string             `json:"propertyLocation" bson:"propertyLocation"`
	AgentEmail       string             `json:"agentEmail" bson:"agentEmail"`
	AgentName        string             `json:"agentName" bson:"agentName"`
	BuyerEmail       string             `json:"buyerEmail" bson:"buyerEmail"`
	BuyerName        string             `json:"buyerName" bson:"buyerName"`
	OfferAmount      float64            `json:"offerAmount" bson:"offerAmount"`
	BuyingDate       time.Time          `json:"buyingDate" bson:"buyingDate"`
	Status           OfferStatus        `json:"status" bson:"status"`
	TransactionID    string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

type SubmitOfferRequest struct {
	PropertyID  string  `json:"propertyId" validate:"required"`
	OfferAmount float64 `json:"offerAmount" validate:"required"`
	BuyingDate  string  `json:"buyingDate" validate:"required"`
}

type SettlementRequest struct {
	TransactionID string `json:"trxId" validate:"required"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// ValidDecision reports whether s is an admin verification decision.
// "pending" is the initial state only, never a decision.
func ValidDecision(s VerificationStatus) bool {
	return s == VerificationApproved || s == VerificationRejected
}

type SaleStatus string

const (
	SaleAvailable SaleStatus = "available"
	SaleSold      SaleStatus = "sold"
)

type Property struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Location           string             `json:"location" bson:"location"`
	BasePrice          float64            `json:"basePrice" bson:"basePrice"`
	MaxPrice           float64            `json:"maxPrice" bson:"maxPrice"`
	AgentName          string             `json:"agentName" bson:"agentName"`
	AgentEmail         string             `json:"agentEmail" bson:"agentEmail"`
	Image              string             `json:"image,omitempty" bson:"image"`
	VerificationStatus VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	SaleStatus         SaleStatus         `json:"saleStatus" bson:"saleStatus"`
	Advertised         bool               `json:"advertised" bson:"advertised"`
	// AcceptedOffer holds the hex id of the winning offer once the
	// resolution engine has claimed it, "" before that. It is the field the
	// winner-exclusivity compare-and-swap runs against.
	AcceptedOffer string    `json:"acceptedOffer,omitempty" bson:"acceptedOffer"`
	AgentPhoto    string    `json:"agentPhoto,omitempty" bson:"-"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// InBand reports whether amount falls inside the property's price band.
func (p Property) InBand(amount float64) bool {
	return amount >= p.BasePrice && amount <= p.MaxPrice
}

type CreatePropertyRequest struct {
	Title     string  `json:"title" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	BasePrice float64 `json:"basePrice" validate:"required,gt=0"`
	MaxPrice  float64 `json:"maxPrice" validate:"required,gt=0"`
	Image     string  `json:"image"`
}

// PropertyUpdate carries the descriptive fields an owning agent may change.
// Verification, sale status and the winner slot are never touched by updates.
type PropertyUpdate struct {
	Title     string  `json:"title" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	BasePrice float64 `json:"basePrice" validate:"required,gt=0"`
	MaxPrice  float64 `json:"maxPrice" validate:"required,gt=0"`
}

type VerifyRequest struct {
	Status VerificationStatus `json:"status"`
}

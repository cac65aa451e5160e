package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistItem struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserEmail  string             `json:"userEmail" bson:"userEmail"`
	PropertyID string             `json:"propertyId" bson:"propertyId"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// WishlistEntry is the display shape joined against the catalog.
type WishlistEntry struct {
	ID                 primitive.ObjectID `json:"id"`
	PropertyID         string             `json:"propertyId"`
	Title              string             `json:"title"`
	Location           string             `json:"location"`
	PriceRange         string             `json:"priceRange"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	AgentName          string             `json:"agentName"`
	AgentImage         string             `json:"agentImage"`
	PropertyImage      string             `json:"propertyImage,omitempty"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PropertyID    string             `json:"propertyId" bson:"propertyId"`
	PropertyTitle string             `json:"propertyTitle" bson:"propertyTitle"`
	ReviewerEmail string             `json:"reviewerEmail" bson:"reviewerEmail"`
	ReviewerName  string             `json:"reviewerName" bson:"reviewerName"`
	AgentName     string             `json:"agentName,omitempty" bson:"agentName,omitempty"`
	Comment       string             `json:"comment" bson:"comment"`
	ReviewTime    time.Time          `json:"reviewTime" bson:"reviewTime"`
}

type CreateReviewRequest struct {
	PropertyID    string `json:"propertyId" validate:"required"`
	PropertyTitle string `json:"propertyTitle"`
	Comment       string `json:"comment" validate:"required"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
	RoleFraud Role = "fraud"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Image     string             `json:"image,omitempty" bson:"image"`
	Role      Role               `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Identity is the resolved caller attached to every authenticated request.
type Identity struct {
	ID    primitive.ObjectID
	Email string
	Name  string
	Role  Role
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Capability is the explicit permission set derived from a role. Handlers
// derive it once per request via RoleGate and check the grant they need;
// fraud-marked accounts hold no grants at all.
type Capability struct {
	role Role
}

func RoleGate(id Identity) Capability {
	return Capability{role: id.Role}
}

// CanListProperties covers creating, updating and deleting own listings and
// deciding offers made on them.
func (c Capability) CanListProperties() bool { return c.role == RoleAgent }

// CanModerate covers verification, advertising and user administration.
func (c Capability) CanModerate() bool { return c.role == RoleAdmin }

// CanOffer covers submitting offers and managing a wishlist.
func (c Capability) CanOffer() bool { return c.role == RoleUser }

// CanReview covers posting property reviews.
func (c Capability) CanReview() bool {
	return c.role == RoleUser || c.role == RoleAgent || c.role == RoleAdmin
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Image    string `json:"image"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

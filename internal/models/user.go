package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleReader   = "reader"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username" validate:"required,min=3,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	FirstName string             `bson:"first_name" json:"firstName" validate:"required"`
	LastName  string             `bson:"last_name" json:"lastName" validate:"required"`
	Grade     string             `bson:"grade,omitempty" json:"grade,omitempty"`
	Station   string             `bson:"station,omitempty" json:"station,omitempty"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role" validate:"required,oneof=admin operator reader"`
	Status    string             `bson:"status" json:"status" validate:"required,oneof=active inactive suspended"`
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DisplayName is the name stamped on history entries this user performs.
func (u *User) DisplayName() string {
	if u.Grade != "" {
		return u.Grade + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}

type AuthUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

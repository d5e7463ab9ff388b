package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token records an issued JWT so expired ones can be swept.
type Token struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"UserId" json:"userId"`
	JwtToken   string             `bson:"JwtToken" json:"-"`
	Expiration time.Time          `bson:"Expiration" json:"expiration"`
}

func (t *Token) GetID() primitive.ObjectID   { return t.ID }
func (t *Token) SetID(id primitive.ObjectID) { t.ID = id }

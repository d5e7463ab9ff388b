package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Passenger mirrors the layout of the imported Titanic dataset.
type Passenger struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Survived                Flag               `bson:"Survived" json:"survived"`
	Pclass                  int                `bson:"Pclass" json:"pclass"`
	Name                    string             `bson:"Name" json:"name"`
	Sex                     string             `bson:"Sex" json:"sex"`
	Age                     *float64           `bson:"Age" json:"age"`
	SiblingsOrSpousesAboard int                `bson:"Siblings/Spouses Aboard" json:"siblingsOrSpousesAboard"`
	ParentsOrChildrenAboard int                `bson:"Parents/Children Aboard" json:"parentsOrChildrenAboard"`
	Fare                    float64            `bson:"Fare" json:"fare"`
}

func (p *Passenger) GetID() primitive.ObjectID   { return p.ID }
func (p *Passenger) SetID(id primitive.ObjectID) { p.ID = id }

// Flag is a boolean stored as 0/1 in the dataset.
type Flag bool

func (f Flag) MarshalBSONValue() (bsontype.Type, []byte, error) {
	var n int32
	if f {
		n = 1
	}
	return bson.MarshalValue(n)
}

func (f *Flag) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Boolean:
		var b bool
		if err := bson.UnmarshalValue(t, data, &b); err != nil {
			return err
		}
		*f = Flag(b)
	case bsontype.Int32, bsontype.Int64, bsontype.Double:
		var n float64
		if err := bson.UnmarshalValue(t, data, &n); err != nil {
			return err
		}
		*f = n != 0
	case bsontype.Null, bsontype.Undefined:
		*f = false
	default:
		return fmt.Errorf("cannot decode %s into Flag", t)
	}
	return nil
}

// PassengerSearchCriteria is a transient filter; nil fields are not applied.
type PassengerSearchCriteria struct {
	Name    *string
	Pclass  *int
	Sex     *string
	MinAge  *float64
	MaxAge  *float64
	MinFare *float64
	MaxFare *float64
}

// PassengerRequest is the create/replace payload.
type PassengerRequest struct {
	Survived                bool     `json:"survived"`
	Pclass                  int      `json:"pclass" validate:"required,min=1,max=3"`
	Name                    string   `json:"name" validate:"required,max=100"`
	Sex                     string   `json:"sex" validate:"required,oneof=male female"`
	Age                     *float64 `json:"age" validate:"omitempty,gt=0"`
	SiblingsOrSpousesAboard int      `json:"siblingsOrSpousesAboard" validate:"min=0"`
	ParentsOrChildrenAboard int      `json:"parentsOrChildrenAboard" validate:"min=0"`
	Fare                    float64  `json:"fare" validate:"gt=0"`
}

func (r PassengerRequest) ToPassenger() *Passenger {
	return &Passenger{
		Survived:                Flag(r.Survived),
		Pclass:                  r.Pclass,
		Name:                    r.Name,
		Sex:                     r.Sex,
		Age:                     r.Age,
		SiblingsOrSpousesAboard: r.SiblingsOrSpousesAboard,
		ParentsOrChildrenAboard: r.ParentsOrChildrenAboard,
		Fare:                    r.Fare,
	}
}

package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
)

// Role is the closed set of account roles. The zero value is not a valid role.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

var ErrInvalidRole = fmt.Errorf("%w: role must be either 'Admin' or 'User'", errs.ErrValidation)

// ParseRole accepts exactly "Admin" or "User".
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !r.Valid() {
		return 0, nil, ErrInvalidRole
	}
	return bson.MarshalValue(string(r))
}

func (r *Role) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(t, data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

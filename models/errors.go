package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = fmt.Errorf("%w: role mismatch", ErrInvalidCredentials)
	ErrUnauthorized       = errors.New("unauthorized")
)

// ParseID turns a hex id from a URL or token into an ObjectID. Ids that
// cannot name a document are reported as ErrNotFound.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", hex, ErrNotFound)
	}
	return id, nil
}

package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ===== Users =====
type UserRepository interface {
	// Create returns ErrConflict when the email is taken.
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByID does not load the password hash.
	GetByID(ctx context.Context, id primitive.ObjectID) (User, error)
	UpsertRSVP(ctx context.Context, userID, eventID primitive.ObjectID, status RSVPStatus, at time.Time) error
}

// ===== Events =====
type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (Event, error)
	Create(ctx context.Context, e *Event) error
	// Update sets only the supplied fields and returns the updated record.
	Update(ctx context.Context, id primitive.ObjectID, in EventInput) (Event, error)
	// Delete returns the removed record.
	Delete(ctx context.Context, id primitive.ObjectID) (Event, error)
	UpsertRSVP(ctx context.Context, eventID, userID primitive.ObjectID, status RSVPStatus, at time.Time) error
}

// Transactor runs fn so that the writes it makes through ctx either all
// apply or none do.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RSVPStatus string

const (
	RSVPGoing   RSVPStatus = "Going"
	RSVPMaybe   RSVPStatus = "Maybe"
	RSVPDecline RSVPStatus = "Decline"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPDecline:
		return true
	}
	return false
}

// UserRSVP is the user-side copy of an RSVP, embedded in users.rsvps.
type UserRSVP struct {
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	Status    RSVPStatus         `bson:"status" json:"status"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventRSVP is the event-side copy of an RSVP, embedded in events.rsvps.
type EventRSVP struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Status    RSVPStatus         `bson:"status" json:"status"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RSVP is the pair-level view returned after a submission.
type RSVP struct {
	EventID   primitive.ObjectID `json:"eventId"`
	UserID    primitive.ObjectID `json:"userId"`
	Status    RSVPStatus         `json:"status"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

package services

import (
	"context"
	"fmt"
	"time"

	"eventmanagement/models"
)

type EventService struct {
	events models.EventRepository
	users  models.UserRepository
	tx     models.Transactor
	now    func() time.Time
}

// NewEventService wires the directory. tx may be nil, in which case the two
// sides of an RSVP are written one after the other.
func NewEventService(events models.EventRepository, users models.UserRepository, tx models.Transactor) *EventService {
	return &EventService{events: events, users: users, tx: tx, now: func() time.Time { return time.Now().UTC() }}
}

func (s *EventService) Create(ctx context.Context, in models.EventInput) (models.Event, error) {
	var e models.Event
	in.Apply(&e)
	if err := models.ValidateEvent(&e).Err(); err != nil {
		return models.Event{}, err
	}
	e.RSVPs = []models.EventRSVP{}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt

	if err := s.events.Create(ctx, &e); err != nil {
		return models.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// Update merges the supplied fields into the stored event. The merged record
// must pass the same validation as a new one.
func (s *EventService) Update(ctx context.Context, id string, in models.EventInput) (models.Event, error) {
	oid, err := models.ParseID(id)
	if err != nil {
		return models.Event{}, err
	}
	current, err := s.events.GetByID(ctx, oid)
	if err != nil {
		return models.Event{}, err
	}

	merged := current
	in.Apply(&merged)
	if err := models.ValidateEvent(&merged).Err(); err != nil {
		return models.Event{}, err
	}

	return s.events.Update(ctx, oid, in)
}

func (s *EventService) Delete(ctx context.Context, id string) (models.Event, error) {
	oid, err := models.ParseID(id)
	if err != nil {
		return models.Event{}, err
	}
	return s.events.Delete(ctx, oid)
}

// SubmitRSVP records a user's answer for an event on both the event and the
// user document. An empty status counts as Maybe.
func (s *EventService) SubmitRSVP(ctx context.Context, userID, eventID string, status models.RSVPStatus) (models.RSVP, error) {
	if status == "" {
		status = models.RSVPMaybe
	}
	if !status.Valid() {
		return models.RSVP{}, models.ValidationErrors{{Field: "status", Message: "must be one of: Going, Maybe, Decline"}}
	}
	uid, err := models.ParseID(userID)
	if err != nil {
		return models.RSVP{}, err
	}
	eid, err := models.ParseID(eventID)
	if err != nil {
		return models.RSVP{}, err
	}

	// a session can outlive its user; check before touching the event
	if _, err := s.users.GetByID(ctx, uid); err != nil {
		return models.RSVP{}, err
	}

	at := s.now()
	write := func(ctx context.Context) error {
		if err := s.events.UpsertRSVP(ctx, eid, uid, status, at); err != nil {
			return err
		}
		return s.users.UpsertRSVP(ctx, uid, eid, status, at)
	}

	if s.tx != nil {
		err = s.tx.WithinTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return models.RSVP{}, err
	}
	return models.RSVP{EventID: eid, UserID: uid, Status: status, UpdatedAt: at}, nil
}

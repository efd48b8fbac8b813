// Package mocks provides in-memory repositories for handler and service
// tests.
package mocks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventmanagement/models"
)

// MockUserRepo keys users by lowercase email. Err, when set, is returned by
// every call.
type MockUserRepo struct {
	Users map[string]models.User
	Err   error
}

func NewUserRepo() *MockUserRepo { return &MockUserRepo{Users: map[string]models.User{}} }

func (m *MockUserRepo) Create(_ context.Context, u *models.User) error {
	if m.Err != nil {
		return m.Err
	}
	email := models.NormalizeEmail(u.Email)
	if _, ok := m.Users[email]; ok {
		return models.ErrConflict
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.RSVPs == nil {
		u.RSVPs = []models.UserRSVP{}
	}
	m.Users[email] = *u
	return nil
}

func (m *MockUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	if m.Err != nil {
		return models.User{}, m.Err
	}
	u, ok := m.Users[models.NormalizeEmail(email)]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (m *MockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	if m.Err != nil {
		return models.User{}, m.Err
	}
	for _, u := range m.Users {
		if u.ID == id {
			u.Password = ""
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (m *MockUserRepo) UpsertRSVP(_ context.Context, userID, eventID primitive.ObjectID, status models.RSVPStatus, at time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	for email, u := range m.Users {
		if u.ID != userID {
			continue
		}
		rsvps := append([]models.UserRSVP(nil), u.RSVPs...)
		found := false
		for i := range rsvps {
			if rsvps[i].EventID == eventID {
				rsvps[i].Status, rsvps[i].UpdatedAt = status, at
				found = true
			}
		}
		if !found {
			rsvps = append(rsvps, models.UserRSVP{EventID: eventID, Status: status, UpdatedAt: at})
		}
		u.RSVPs = rsvps
		m.Users[email] = u
		return nil
	}
	return models.ErrNotFound
}

// MockEventRepo keeps events in insertion order, like a collection scan.
type MockEventRepo struct {
	Items []models.Event
	Err   error
}

func NewEventRepo() *MockEventRepo { return &MockEventRepo{} }

func (m *MockEventRepo) index(id primitive.ObjectID) int {
	for i, e := range m.Items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (m *MockEventRepo) GetAll(context.Context) ([]models.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Event, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

func (m *MockEventRepo) GetByID(_ context.Context, id primitive.ObjectID) (models.Event, error) {
	if m.Err != nil {
		return models.Event{}, m.Err
	}
	i := m.index(id)
	if i < 0 {
		return models.Event{}, models.ErrNotFound
	}
	return m.Items[i], nil
}

func (m *MockEventRepo) Create(_ context.Context, e *models.Event) error {
	if m.Err != nil {
		return m.Err
	}
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.RSVPs == nil {
		e.RSVPs = []models.EventRSVP{}
	}
	m.Items = append(m.Items, *e)
	return nil
}

func (m *MockEventRepo) Update(_ context.Context, id primitive.ObjectID, in models.EventInput) (models.Event, error) {
	if m.Err != nil {
		return models.Event{}, m.Err
	}
	i := m.index(id)
	if i < 0 {
		return models.Event{}, models.ErrNotFound
	}
	in.Apply(&m.Items[i])
	m.Items[i].UpdatedAt = time.Now().UTC()
	return m.Items[i], nil
}

func (m *MockEventRepo) Delete(_ context.Context, id primitive.ObjectID) (models.Event, error) {
	if m.Err != nil {
		return models.Event{}, m.Err
	}
	i := m.index(id)
	if i < 0 {
		return models.Event{}, models.ErrNotFound
	}
	e := m.Items[i]
	m.Items = append(m.Items[:i], m.Items[i+1:]...)
	return e, nil
}

func (m *MockEventRepo) UpsertRSVP(_ context.Context, eventID, userID primitive.ObjectID, status models.RSVPStatus, at time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	i := m.index(eventID)
	if i < 0 {
		return models.ErrNotFound
	}
	rsvps := append([]models.EventRSVP(nil), m.Items[i].RSVPs...)
	for j := range rsvps {
		if rsvps[j].UserID == userID {
			rsvps[j].Status, rsvps[j].UpdatedAt = status, at
			m.Items[i].RSVPs = rsvps
			return nil
		}
	}
	m.Items[i].RSVPs = append(rsvps, models.EventRSVP{UserID: userID, Status: status, UpdatedAt: at})
	return nil
}

// MockTransactor counts calls and runs fn directly.
type MockTransactor struct{ Calls int }

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

//go:build integration

// Runs the Mongo repositories against a real server:
//
//	MONGO_URI=mongodb://localhost:27017 go test -tags integration ./models/
package models_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventmanagement/db"
	"eventmanagement/models"
)

func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()

	client, err := db.Connect(ctx, uri)
	require.NoError(t, err)
	database := client.Database(fmt.Sprintf("eventmanagement_it_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, db.EnsureIndexes(ctx, database))
	return database
}

func TestMongoUsers(t *testing.T) {
	database := testDatabase(t)
	users := models.NewMongoUserRepository(database.Collection(db.UsersCollection))
	ctx := context.Background()

	u := models.User{Name: "Ann", Email: "ann@example.com", PhoneNumber: 5551234567, Role: models.RoleClient}
	require.NoError(t, u.SetPassword("secret1"))
	require.NoError(t, users.Create(ctx, &u))

	dup := models.User{Name: "Ann2", Email: "ann@example.com", Password: "x"}
	assert.ErrorIs(t, users.Create(ctx, &dup), models.ErrConflict)

	byEmail, err := users.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.True(t, byEmail.CheckPassword("secret1"))

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.Password)
	assert.EqualValues(t, 5551234567, byID.PhoneNumber)

	_, err = users.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMongoEvents_CRUDAndRSVP(t *testing.T) {
	database := testDatabase(t)
	events := models.NewMongoEventRepository(database.Collection(db.EventsCollection))
	users := models.NewMongoUserRepository(database.Collection(db.UsersCollection))
	ctx := context.Background()

	e := models.Event{
		Title: "GoConf", Description: "talks", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "17:00", Location: "Taipei", CloudinaryID: "img/abc", Category: "tech",
	}
	require.NoError(t, events.Create(ctx, &e))

	all, err := events.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "GoConf", all[0].Title)
	assert.Empty(t, all[0].RSVPs)

	loc := "Tainan"
	updated, err := events.Update(ctx, e.ID, models.EventInput{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Tainan", updated.Location)
	assert.Equal(t, "GoConf", updated.Title)

	_, err = events.Update(ctx, primitive.NewObjectID(), models.EventInput{Location: &loc})
	assert.ErrorIs(t, err, models.ErrNotFound)

	u := models.User{Name: "Ann", Email: "ann@example.com", Password: "hash", PhoneNumber: 1}
	require.NoError(t, users.Create(ctx, &u))

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, events.UpsertRSVP(ctx, e.ID, u.ID, models.RSVPGoing, at))
	require.NoError(t, users.UpsertRSVP(ctx, u.ID, e.ID, models.RSVPGoing, at))
	require.NoError(t, events.UpsertRSVP(ctx, e.ID, u.ID, models.RSVPDecline, at.Add(time.Second)))
	require.NoError(t, users.UpsertRSVP(ctx, u.ID, e.ID, models.RSVPDecline, at.Add(time.Second)))

	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got.RSVPs, 1)
	assert.Equal(t, models.RSVPDecline, got.RSVPs[0].Status)

	profile, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, profile.RSVPs, 1)
	assert.Equal(t, e.ID, profile.RSVPs[0].EventID)
	assert.Equal(t, models.RSVPDecline, profile.RSVPs[0].Status)

	assert.ErrorIs(t, events.UpsertRSVP(ctx, primitive.NewObjectID(), u.ID, models.RSVPGoing, at), models.ErrNotFound)

	deleted, err := events.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, deleted.ID)
	_, err = events.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

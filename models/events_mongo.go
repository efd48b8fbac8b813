package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

func (r *mongoEventRepo) GetAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id primitive.ObjectID) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return Event{}, notFound(err)
	}
	return e, nil
}

func (r *mongoEventRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.RSVPs == nil {
		e.RSVPs = []EventRSVP{}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
		e.UpdatedAt = e.CreatedAt
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoEventRepo) Update(ctx context.Context, id primitive.ObjectID, in EventInput) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := in.SetDoc()
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e Event
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&e); err != nil {
		return Event{}, notFound(err)
	}
	return e, nil
}

func (r *mongoEventRepo) Delete(ctx context.Context, id primitive.ObjectID) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e Event
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return Event{}, notFound(err)
	}
	return e, nil
}

func (r *mongoEventRepo) UpsertRSVP(ctx context.Context, eventID, userID primitive.ObjectID, status RSVPStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entry := EventRSVP{UserID: userID, Status: status, UpdatedAt: at}
	return upsertEmbedded(ctx, r.col, eventID, "userId", userID, entry, status, at)
}

// upsertEmbedded keeps at most one entry per key in the rsvps array: it
// rewrites the matching entry in place, or pushes a new one when none exists.
func upsertEmbedded(ctx context.Context, col *mongo.Collection, docID primitive.ObjectID, keyField string, key primitive.ObjectID, entry any, status RSVPStatus, at time.Time) error {
	setExisting := func() (bool, error) {
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": docID, "rsvps." + keyField: key},
			bson.M{"$set": bson.M{"rsvps.$.status": status, "rsvps.$.updatedAt": at, "updatedAt": at}},
		)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	ok, err := setExisting()
	if err != nil || ok {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": docID, "rsvps." + keyField: bson.M{"$ne": key}},
		bson.M{"$push": bson.M{"rsvps": entry}, "$set": bson.M{"updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// either the document is gone or a concurrent request pushed the entry first
	ok, err = setExisting()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

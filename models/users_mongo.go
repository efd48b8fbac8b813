package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepository expects a unique index on email (see db.EnsureIndexes).
func NewMongoUserRepository(col *mongo.Collection) UserRepository {
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.RSVPs == nil {
		u.RSVPs = []UserRSVP{}
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	if err := r.col.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&u); err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

func (r *mongoUserRepo) UpsertRSVP(ctx context.Context, userID, eventID primitive.ObjectID, status RSVPStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entry := UserRSVP{EventID: eventID, Status: status, UpdatedAt: at}
	return upsertEmbedded(ctx, r.col, userID, "eventId", eventID, entry, status, at)
}

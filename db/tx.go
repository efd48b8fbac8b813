package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTransactor runs a function inside a multi-document transaction.
// Transactions need a replica set or sharded cluster.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

// WithinTransaction commits when fn returns nil and aborts otherwise. The
// driver retries fn on transient transaction errors, so fn must be safe to
// run more than once.
func (t *MongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Sequential runs fn directly. It is used against standalone servers where
// transactions are unavailable.
type Sequential struct{}

func (Sequential) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

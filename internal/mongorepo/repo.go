// Package mongorepo is the document store backend.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/service"
)

const (
	usersCollection    = "usuarios"
	productsCollection = "produtos"
	cartsCollection    = "carrinhos"
	paymentsCollection = "pagamentos"

	maxCASAttempts = 8
)

var _ service.Store = (*MongoRepo)(nil)

type MongoRepo struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *MongoRepo {
	return &MongoRepo{DB: db}
}

func (r *MongoRepo) users() *mongo.Collection    { return r.DB.Collection(usersCollection) }
func (r *MongoRepo) products() *mongo.Collection { return r.DB.Collection(productsCollection) }
func (r *MongoRepo) carts() *mongo.Collection    { return r.DB.Collection(cartsCollection) }
func (r *MongoRepo) payments() *mongo.Collection { return r.DB.Collection(paymentsCollection) }

// EnsureIndexes creates the unique indexes the stores rely on.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{r.users(), unique("email")},
		{r.carts(), unique("user_id")},
		{r.payments(), unique("intent_id")},
		{r.payments(), mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	}
	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.DB.Client().Ping(ctx, readpref.Primary())
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperror.Validation("invalid id", fmt.Sprintf("%q is not a valid id", id))
	}
	return nil
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperror.NotFound(what)
	case mongo.IsDuplicateKeyError(err):
		return apperror.Conflict(what + " already exists")
	}
	return fmt.Errorf("%s: %w", what, err)
}

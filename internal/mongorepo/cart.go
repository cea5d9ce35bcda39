package mongorepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/service"
)

func (r *MongoRepo) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	if err := r.carts().FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		return nil, translate(err, "cart")
	}
	return &c, nil
}

// MutateCart is an optimistic compare-and-swap on the cart version. A lost
// race re-reads the cart and replays fn, up to maxCASAttempts times.
func (r *MongoRepo) MutateCart(ctx context.Context, userID string, create bool, fn service.CartMutation) (*models.Cart, bool, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		var (
			cart  models.Cart
			fresh bool
		)
		err := r.carts().FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			if !create {
				return nil, false, apperror.NotFound("cart")
			}
			cart = models.Cart{ID: newID(), UserID: userID}
			fresh = true
		case err != nil:
			return nil, false, translate(err, "cart")
		}

		prev := cart.Version
		if err := fn(&cart); err != nil {
			return nil, false, err
		}
		cart.Version = prev + 1

		if fresh {
			_, err := r.carts().InsertOne(ctx, cart)
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return nil, false, translate(err, "cart")
			}
			return &cart, true, nil
		}

		res, err := r.carts().ReplaceOne(ctx, bson.M{"_id": cart.ID, "version": prev}, cart)
		if err != nil {
			return nil, false, translate(err, "cart")
		}
		if res.MatchedCount == 1 {
			return &cart, false, nil
		}
	}
	return nil, false, apperror.Conflict("cart modified concurrently")
}

func (r *MongoRepo) DeleteCart(ctx context.Context, userID string) error {
	res, err := r.carts().DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return translate(err, "cart")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("cart")
	}
	return nil
}

func (r *MongoRepo) ListCarts(ctx context.Context) ([]models.Cart, error) {
	cur, err := r.carts().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}}))
	if err != nil {
		return nil, translate(err, "carts")
	}
	carts := []models.Cart{}
	if err := cur.All(ctx, &carts); err != nil {
		return nil, translate(err, "carts")
	}
	return carts, nil
}

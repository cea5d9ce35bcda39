package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
)

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	_, err := r.users().InsertOne(ctx, u)
	return translate(err, "user")
}

func (r *MongoRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var u models.User
	if err := r.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.users().FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *MongoRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := r.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translate(err, "users")
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

func (r *MongoRepo) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := r.users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, "user")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

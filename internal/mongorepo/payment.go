package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/loja/internal/models"
)

func (r *MongoRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = newID()
	}
	_, err := r.payments().InsertOne(ctx, p)
	return translate(err, "payment")
}

func (r *MongoRepo) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	cur, err := r.payments().Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translate(err, "payments")
	}
	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, translate(err, "payments")
	}
	return payments, nil
}

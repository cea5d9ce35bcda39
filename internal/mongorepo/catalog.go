package mongorepo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
)

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	_, err := r.products().InsertOne(ctx, p)
	return translate(err, "product")
}

func (r *MongoRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if checkID(id) != nil {
		return nil, apperror.NotFound("product")
	}
	var p models.Product
	if err := r.products().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *MongoRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	cur, err := r.products().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translate(err, "products")
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, translate(err, "products")
	}
	return items, nil
}

func (r *MongoRepo) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if checkID(id) != nil {
		return nil, apperror.NotFound("product")
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.PhotoURL != nil {
		set["photo_url"] = *patch.PhotoURL
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	var p models.Product
	err := r.products().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *MongoRepo) DeleteProduct(ctx context.Context, id string) error {
	if checkID(id) != nil {
		return apperror.NotFound("product")
	}
	res, err := r.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, "product")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("product")
	}
	return nil
}

func (r *MongoRepo) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
	}}

	total, err := r.products().CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, translate(err, "products")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.products().Find(ctx, filter, opts)
	if err != nil {
		return 0, nil, translate(err, "products")
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return 0, nil, translate(err, "products")
	}
	return total, items, nil
}

func (r *MongoRepo) CountProducts(ctx context.Context) (int64, error) {
	n, err := r.products().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, translate(err, "products")
	}
	return n, nil
}

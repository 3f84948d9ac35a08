package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aurawell/storefront/internal/core/domain"
)

const productsCollection = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(productsCollection)}
}

func (r *ProductRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, listFilter(category), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock adds delta to stock without letting it drop below zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := stockAdjustment(id, delta)
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// stockAdjustment builds the guarded $inc for AdjustStock. A decrement only
// matches when at least -delta units are in stock.
func stockAdjustment(id string, delta int) (filter, update bson.M) {
	filter = bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	return filter, bson.M{"$inc": bson.M{"stock": delta}}
}

func listFilter(category string) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return filter
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// InsertMany is used to seed an empty catalog.
func (r *ProductRepository) InsertMany(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "age_group", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

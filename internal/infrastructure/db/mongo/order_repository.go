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

const ordersCollection = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := []domain.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

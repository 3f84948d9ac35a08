package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aurawell/storefront/internal/core/domain"
)

const cartsCollection = "carts"

// CartRepository keeps one document per user, keyed by user id.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(cartsCollection)}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Cart
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &c, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": cart.UserID}, cart, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/aurawell/storefront/internal/core/domain"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://db:27017", Database: "aurawell"})
	if opts.AppName == nil || *opts.AppName != "aurawell" {
		t.Fatalf("expected default app name, got %v", opts.AppName)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != defaultTimeout {
		t.Fatalf("expected default selection timeout, got %v", opts.ServerSelectionTimeout)
	}
	if opts.MaxPoolSize != nil {
		t.Fatalf("pool size must be left to the driver when unset")
	}

	opts = clientOptions(Config{URI: "mongodb://db:27017", AppName: "seed", MaxPoolSize: 20, Timeout: 3 * time.Second})
	if *opts.AppName != "seed" || *opts.MaxPoolSize != 20 || *opts.ServerSelectionTimeout != 3*time.Second {
		t.Fatalf("overrides not applied: app=%s pool=%d timeout=%s", *opts.AppName, *opts.MaxPoolSize, *opts.ServerSelectionTimeout)
	}
}

func TestConnect_RequiresDatabase(t *testing.T) {
	if _, _, err := Connect(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error without a database name")
	}
}

func TestStockAdjustment(t *testing.T) {
	filter, update := stockAdjustment("p1", -3)
	guard, ok := filter["stock"].(bson.M)
	if !ok || guard["$gte"] != 3 {
		t.Fatalf("decrement must require enough stock, got filter %v", filter)
	}
	if filter["_id"] != "p1" {
		t.Fatalf("unexpected id filter %v", filter)
	}
	if inc := update["$inc"].(bson.M); inc["stock"] != -3 {
		t.Fatalf("unexpected update %v", update)
	}

	filter, _ = stockAdjustment("p1", 5)
	if _, guarded := filter["stock"]; guarded {
		t.Fatalf("increments must not be guarded, got %v", filter)
	}
}

func TestListFilter(t *testing.T) {
	if len(listFilter("")) != 0 {
		t.Fatalf("empty category must match everything")
	}
	if listFilter("vitamins")["category"] != "vitamins" {
		t.Fatalf("category filter missing")
	}
}

func TestProductRepository_AdjustStock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decrement applied", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		if err := repo.AdjustStock(context.Background(), "p1", -2); err != nil {
			t.Fatalf("AdjustStock: %v", err)
		}
	})

	mt.Run("not enough stock", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		err := repo.AdjustStock(context.Background(), "p1", -50)
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})
}

func TestProductRepository_FindByIDMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "aurawell.products", mtest.FirstBatch))
		if _, err := repo.FindByID(context.Background(), "ghost"); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestCartRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing cart is empty", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "aurawell.carts", mtest.FirstBatch))
		c, err := repo.Get(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if c.UserID != "u1" || !c.IsEmpty() {
			t.Fatalf("expected empty cart for u1, got %+v", c)
		}
	})

	mt.Run("stored cart decoded", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "aurawell.carts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "lines", Value: bson.A{bson.D{{Key: "product_id", Value: "p1"}, {Key: "quantity", Value: 3}}}},
		}))
		c, err := repo.Get(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if c.Quantity("p1") != 3 {
			t.Fatalf("expected 3 of p1, got %+v", c)
		}
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "u1"}}}},
		))
		cart := &domain.Cart{UserID: "u1"}
		cart.Add("p1", 1)
		if err := repo.Save(context.Background(), cart); err != nil {
			t.Fatalf("Save: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "update" {
			t.Fatalf("expected an update command, got %+v", started)
		}
		upsert, err := started.Command.LookupErr("updates", "0", "upsert")
		if err != nil || !upsert.Boolean() {
			t.Fatalf("cart save must upsert: %v", err)
		}
	})
}

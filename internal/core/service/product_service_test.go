package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
)

var (
	vitC     = domain.Product{ID: "p1", Name: "Vitamin C", Price: 12.5, Stock: 10, Category: domain.CategoryVitamins, AgeGroup: domain.AgeGroupAdult}
	lavender = domain.Product{ID: "p2", Name: "Lavender Oil", Price: 30, Stock: 2, Category: domain.CategoryAromatherapy, AgeGroup: domain.AgeGroupAll}
)

func TestProductService_ListUsesCache(t *testing.T) {
	repo := newStubProductRepo(vitC, lavender)
	cache := newStubCache()
	svc := NewProductService(repo, cache, zerolog.Nop())

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	aroma, err := svc.List(context.Background(), " Aromatherapy ")
	if err != nil {
		t.Fatalf("List category: %v", err)
	}
	if len(aroma) != 1 || aroma[0].ID != "p2" {
		t.Fatalf("unexpected filtered list: %+v", aroma)
	}

	if _, err := svc.List(context.Background(), ""); err != nil {
		t.Fatalf("List again: %v", err)
	}
	if repo.lists != 2 {
		t.Fatalf("expected 2 repository queries, got %d", repo.lists)
	}
}

func TestProductService_ConcurrentList(t *testing.T) {
	repo := newStubProductRepo(vitC)
	svc := NewProductService(repo, newStubCache(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.List(context.Background(), ""); err != nil {
				t.Errorf("List: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestProductService_WritesInvalidateCache(t *testing.T) {
	repo := newStubProductRepo(vitC)
	cache := newStubCache()
	svc := NewProductService(repo, cache, zerolog.Nop())
	_, _ = svc.List(context.Background(), "")

	created, err := svc.Create(context.Background(), &domain.Product{Name: "Zinc", Price: 8, Stock: 3, Category: domain.CategorySupplements, AgeGroup: domain.AgeGroupTeen})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", created)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}

	all, _ := svc.List(context.Background(), "")
	if len(all) != 2 {
		t.Fatalf("expected fresh listing of 2, got %d", len(all))
	}

	upd := vitC
	upd.Price = 15
	if _, err := svc.Update(context.Background(), &upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if cache.invalidated != 3 {
		t.Fatalf("expected 3 invalidations, got %d", cache.invalidated)
	}
}

func TestProductService_Validation(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), newStubCache(), zerolog.Nop())

	bad := []domain.Product{
		{Name: "", Price: 1, Category: domain.CategoryVitamins, AgeGroup: domain.AgeGroupAll},
		{Name: "X", Price: -1, Category: domain.CategoryVitamins, AgeGroup: domain.AgeGroupAll},
		{Name: "X", Price: 1, Category: "herbs", AgeGroup: domain.AgeGroupAll},
		{Name: "X", Price: 1, Category: domain.CategoryVitamins, AgeGroup: "infant"},
	}
	for _, p := range bad {
		p := p
		if _, err := svc.Create(context.Background(), &p); err != domain.ErrInvalidProduct {
			t.Fatalf("Create(%+v): expected ErrInvalidProduct, got %v", p, err)
		}
	}

	missing := vitC
	missing.ID = "nope"
	if _, err := svc.Update(context.Background(), &missing); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

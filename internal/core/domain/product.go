package domain

import (
	"slices"
	"time"
)

// Product categories.
const (
	CategoryVitamins     = "vitamins"
	CategorySupplements  = "supplements"
	CategoryAromatherapy = "aromatherapy"
)

// Age groups. AgeGroupAll marks products suitable for everyone.
const (
	AgeGroupToddler = "toddler"
	AgeGroupChild   = "child"
	AgeGroupTeen    = "teen"
	AgeGroupAdult   = "adult"
	AgeGroupElderly = "elderly"
	AgeGroupAll     = "all"
)

var (
	Categories = []string{CategoryVitamins, CategorySupplements, CategoryAromatherapy}
	AgeGroups  = []string{AgeGroupToddler, AgeGroupChild, AgeGroupTeen, AgeGroupAdult, AgeGroupElderly, AgeGroupAll}
)

type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	Category    string    `json:"category" bson:"category"`
	AgeGroup    string    `json:"ageGroup" bson:"age_group"`
	ImageURL    string    `json:"imageUrl" bson:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Validate reports ErrInvalidProduct for unknown categories or age groups and
// for negative prices or stock.
func (p *Product) Validate() error {
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return ErrInvalidProduct
	}
	if !slices.Contains(Categories, p.Category) || !slices.Contains(AgeGroups, p.AgeGroup) {
		return ErrInvalidProduct
	}
	return nil
}

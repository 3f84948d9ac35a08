package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurawell/storefront/internal/client/apiclient"
)

var products = []apiclient.Product{
	{ID: "1", Category: "vitamins", AgeGroup: "child"},
	{ID: "2", Category: "vitamins", AgeGroup: "all"},
	{ID: "3", Category: "supplements", AgeGroup: "adult"},
	{ID: "4", Category: "aromatherapy", AgeGroup: "all"},
}

func ids(ps []apiclient.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria", Criteria{}, []string{"1", "2", "3", "4"}},
		{"category", Criteria{Category: "vitamins"}, []string{"1", "2"}},
		{"age group includes universal", Criteria{AgeGroup: "adult"}, []string{"2", "3", "4"}},
		{"both", Criteria{Category: "vitamins", AgeGroup: "child"}, []string{"1", "2"}},
		{"no match", Criteria{Category: "supplements", AgeGroup: "toddler"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(products, tc.c)))
		})
	}
}

func TestLabelAndValid(t *testing.T) {
	assert.Equal(t, "Seniors", Label(AgeGroups, "elderly"))
	assert.Equal(t, "All Products", Label(Categories, ""))
	assert.Equal(t, "herbs", Label(Categories, "herbs"))
	assert.True(t, Valid(Categories, "aromatherapy"))
	assert.False(t, Valid(AgeGroups, "infant"))
}

package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestLineUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		sel     domain.ConfigSelection
		want    string
	}{
		{
			name:    "no selection",
			product: testProduct("1000"),
			sel:     nil,
			want:    "1000",
		},
		{
			name:    "one option",
			product: testProduct("1000"),
			sel:     domain.ConfigSelection{domain.CategoryGPU: opt("RTX A", "200")},
			want:    "1200",
		},
		{
			name:    "two options",
			product: testProduct("999.99"),
			sel: domain.ConfigSelection{
				domain.CategoryGPU:        opt("RTX B", "450.50"),
				domain.CategoryProcessors: opt("Ryzen 9", "300.01"),
			},
			want: "1750.50",
		},
		{
			name:    "category not offered is ignored",
			product: testProduct("1000"),
			sel: domain.ConfigSelection{
				domain.CategoryGPU:     opt("RTX A", "200"),
				domain.CategoryStorage: opt("4TB", "500"),
			},
			want: "1200",
		},
		{
			name: "empty catalog",
			product: domain.Product{
				ID:    uuid.New(),
				Price: usd("1000"),
			},
			sel:  domain.ConfigSelection{domain.CategoryGPU: opt("RTX A", "200")},
			want: "1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.LineUnitPrice(tt.product, tt.sel)

			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Amount), "got %s", got)
			assert.Equal(t, currency.USD, got.Currency)
		})
	}
}

func TestLineUnitPriceIsSumOfChosenOptions(t *testing.T) {
	for range 50 {
		base := decimal.NewFromFloat(gofakeit.Price(100, 5000)).Round(2)
		product := domain.Product{
			ID:             uuid.New(),
			Price:          domain.NewMoney(base, currency.USD),
			Configurations: domain.ConfigCatalog{},
		}

		want := base
		sel := domain.ConfigSelection{}
		for _, category := range []domain.Category{
			domain.CategoryProcessors, domain.CategoryGPU, domain.CategoryRAM, domain.CategoryStorage,
		} {
			options := make([]domain.ConfigOption, 3)
			for i := range options {
				options[i] = domain.ConfigOption{
					Name:  gofakeit.UUID(),
					Price: decimal.NewFromFloat(gofakeit.Price(0, 900)).Round(2),
				}
			}
			product.Configurations[category] = options

			if gofakeit.Bool() {
				chosen := options[gofakeit.IntRange(0, 2)]
				sel[category] = chosen
				want = want.Add(chosen.Price)
			}
		}

		got := domain.LineUnitPrice(product, sel)
		assert.True(t, want.Equal(got.Amount), "want %s, got %s", want, got.Amount)
		assert.True(t, got.Equal(domain.SelectionUnitPrice(product.Price, sel)))
	}
}

func TestLineTotal(t *testing.T) {
	got := domain.LineTotal(usd("1236.50"), 3)

	assert.True(t, got.Equal(usd("3709.50")))
}

func testProduct(base string) domain.Product {
	return domain.Product{
		ID:    uuid.New(),
		Name:  gofakeit.ProductName(),
		Price: usd(base),
		Configurations: domain.ConfigCatalog{
			domain.CategoryGPU: {
				opt("RTX A", "200"),
				opt("RTX B", "450.50"),
			},
			domain.CategoryProcessors: {
				opt("Ryzen 7", "0"),
				opt("Ryzen 9", "300.01"),
			},
		},
	}
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

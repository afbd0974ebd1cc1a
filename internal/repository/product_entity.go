package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/text/currency"
)

type productEntity struct {
	ID             string                          `bson:"_id"`
	Name           string                          `bson:"name"`
	Brand          string                          `bson:"brand,omitempty"`
	Model          string                          `bson:"model,omitempty"`
	Description    string                          `bson:"description,omitempty"`
	Category       string                          `bson:"category,omitempty"`
	PriceAmount    bson.Decimal128                 `bson:"price_amount"`
	PriceCurrency  string                          `bson:"price_currency"`
	Rating         bson.Decimal128                 `bson:"rating"`
	Features       []string                        `bson:"features,omitempty"`
	Configurations map[string][]configOptionEntity `bson:"configurations,omitempty"`
	Images         []string                        `bson:"images,omitempty"`
	Specs          map[string]string               `bson:"specs,omitempty"`
	CreatedAt      *time.Time                      `bson:"created_at,omitempty"`
	UpdatedAt      *time.Time                      `bson:"updated_at,omitempty"`
}

type configOptionEntity struct {
	Name  string          `bson:"name"`
	Price bson.Decimal128 `bson:"price"`
}

func productFromDomain(p domain.Product) (productEntity, error) {
	price, err := bson.ParseDecimal128(p.Price.Amount.String())
	if err != nil {
		return productEntity{}, fmt.Errorf("bson.ParseDecimal128: %w", err)
	}

	rating, err := bson.ParseDecimal128(p.Rating.String())
	if err != nil {
		return productEntity{}, fmt.Errorf("bson.ParseDecimal128 rating: %w", err)
	}

	ent := productEntity{
		ID:            p.ID.String(),
		Name:          p.Name,
		Brand:         p.Brand,
		Model:         p.Model,
		Description:   p.Description,
		Category:      p.Category,
		PriceAmount:   price,
		PriceCurrency: p.Price.Currency.String(),
		Rating:        rating,
		Features:      p.Features,
		Images:        p.Images,
		Specs:         p.Specs,
	}

	if len(p.Configurations) > 0 {
		ent.Configurations = make(map[string][]configOptionEntity, len(p.Configurations))
		for category, options := range p.Configurations {
			opts := make([]configOptionEntity, 0, len(options))
			for _, opt := range options {
				optPrice, err := bson.ParseDecimal128(opt.Price.String())
				if err != nil {
					return productEntity{}, fmt.Errorf("bson.ParseDecimal128 option[%s]: %w", opt.Name, err)
				}
				opts = append(opts, configOptionEntity{Name: opt.Name, Price: optPrice})
			}
			ent.Configurations[string(category)] = opts
		}
	}

	if !p.CreatedAt.IsZero() {
		ent.CreatedAt = &p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		ent.UpdatedAt = &p.UpdatedAt
	}

	return ent, nil
}

func productToDomain(ent productEntity) (domain.Product, error) {
	id, err := uuid.Parse(ent.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product id[%s] is not valid: %w", ent.ID, err)
	}

	cur, err := currency.ParseISO(ent.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", ent.PriceCurrency, err)
	}

	price, err := decimal.NewFromString(ent.PriceAmount.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("price of product[%s] is not valid: %w", ent.ID, err)
	}

	p := domain.Product{
		ID:          id,
		Name:        ent.Name,
		Brand:       ent.Brand,
		Model:       ent.Model,
		Description: ent.Description,
		Category:    ent.Category,
		Price:       domain.NewMoney(price, cur),
		Features:    ent.Features,
		Images:      ent.Images,
		Specs:       ent.Specs,
	}

	// Documents written before ratings existed decode to a zero Decimal128.
	if ent.Rating != (bson.Decimal128{}) {
		rating, err := decimal.NewFromString(ent.Rating.String())
		if err != nil {
			return domain.Product{}, fmt.Errorf("rating of product[%s] is not valid: %w", ent.ID, err)
		}
		p.Rating = rating
	}

	if len(ent.Configurations) > 0 {
		p.Configurations = make(domain.ConfigCatalog, len(ent.Configurations))
		for category, options := range ent.Configurations {
			opts := make([]domain.ConfigOption, 0, len(options))
			for _, opt := range options {
				optPrice, err := decimal.NewFromString(opt.Price.String())
				if err != nil {
					return domain.Product{}, fmt.Errorf("option[%s] price is not valid: %w", opt.Name, err)
				}
				opts = append(opts, domain.ConfigOption{Name: opt.Name, Price: optPrice})
			}
			p.Configurations[domain.Category(category)] = opts
		}
	}

	if ent.CreatedAt != nil {
		p.CreatedAt = *ent.CreatedAt
	}
	if ent.UpdatedAt != nil {
		p.UpdatedAt = *ent.UpdatedAt
	}

	return p, nil
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryProcessors Category = "processors"
	CategoryGPU        Category = "gpu"
	CategoryRAM        Category = "ram"
	CategoryStorage    Category = "storage"
)

type ConfigOption struct {
	Name  string
	Price decimal.Decimal
}

// ConfigCatalog lists the selectable options per customizable category.
// A category absent from the catalog is not customizable.
type ConfigCatalog map[Category][]ConfigOption

func (c ConfigCatalog) Option(category Category, name string) (ConfigOption, bool) {
	for _, opt := range c[category] {
		if opt.Name == name {
			return opt, true
		}
	}
	return ConfigOption{}, false
}

// MaxRating is the top of the product rating scale.
var MaxRating = decimal.NewFromInt(5)

type Product struct {
	ID             uuid.UUID
	Name           string
	Brand          string
	Model          string
	Description    string
	Category       string
	Price          Money
	Rating         decimal.Decimal
	Features       []string
	Configurations ConfigCatalog
	Images         []string
	Specs          map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is empty", ErrValidation)
	}
	if p.Price.Amount.IsNegative() {
		return fmt.Errorf("%w: product price is negative", ErrValidation)
	}
	if p.Rating.IsNegative() || p.Rating.GreaterThan(MaxRating) {
		return fmt.Errorf("%w: rating %s is outside [0, %s]", ErrValidation, p.Rating, MaxRating)
	}

	for category, options := range p.Configurations {
		if category == "" {
			return fmt.Errorf("%w: configuration category is empty", ErrValidation)
		}

		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			if opt.Name == "" {
				return fmt.Errorf("%w: option name is empty in %s", ErrValidation, category)
			}
			if opt.Price.IsNegative() {
				return fmt.Errorf("%w: option %s in %s has negative price", ErrValidation, opt.Name, category)
			}
			if _, ok := seen[opt.Name]; ok {
				return fmt.Errorf("%w: duplicate option %s in %s", ErrValidation, opt.Name, category)
			}
			seen[opt.Name] = struct{}{}
		}
	}

	return nil
}

// CompactFeatures drops blank feature entries and trims the rest.
func CompactFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type ProductFilter struct {
	Category string
	// Search matches name, brand or model, case-insensitively.
	Search string
	Limit  int64
}

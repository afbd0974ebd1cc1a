package repository

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/shopspring/decimal"
)

type optionEntity struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func marshalSelection(sel domain.ConfigSelection) ([]byte, error) {
	entity := make(map[string]optionEntity, len(sel))
	for category, opt := range sel {
		entity[string(category)] = optionEntity{Name: opt.Name, Price: opt.Price}
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func unmarshalSelection(data []byte) (domain.ConfigSelection, error) {
	if len(data) == 0 {
		return domain.ConfigSelection{}, nil
	}

	var entity map[string]optionEntity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	sel := make(domain.ConfigSelection, len(entity))
	for category, opt := range entity {
		sel[domain.Category(category)] = domain.ConfigOption{Name: opt.Name, Price: opt.Price}
	}

	return sel, nil
}

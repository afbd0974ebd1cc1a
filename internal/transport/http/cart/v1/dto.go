package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/session"
)

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type optionDTO struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type addItemRequest struct {
	ProductID uuid.UUID         `json:"productId"`
	Selection map[string]string `json:"selection"`
	Quantity  *int              `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

type loginRequest struct {
	UserID string `json:"userId"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
}

type checkoutResponse struct {
	OrderID uuid.UUID `json:"orderId"`
}

type countResponse struct {
	Count int `json:"count"`
}

type priceResponse struct {
	ProductID uuid.UUID         `json:"productId"`
	Selection map[string]string `json:"selection"`
	UnitPrice moneyDTO          `json:"unitPrice"`
}

type lineDTO struct {
	ID        uuid.UUID            `json:"id"`
	ProductID uuid.UUID            `json:"productId"`
	Selection map[string]optionDTO `json:"selection"`
	Quantity  int                  `json:"quantity"`
	UnitBase  moneyDTO             `json:"unitBasePrice"`
}

type cartEntryDTO struct {
	Line        lineDTO   `json:"line"`
	ProductName string    `json:"productName,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Missing     bool      `json:"missing"`
	UnitPrice   *moneyDTO `json:"unitPrice,omitempty"`
	LineTotal   *moneyDTO `json:"lineTotal,omitempty"`
}

type cartDTO struct {
	OwnerID         string         `json:"ownerId"`
	Anonymous       bool           `json:"anonymous"`
	Entries         []cartEntryDTO `json:"entries"`
	ItemCount       int            `json:"itemCount"`
	Subtotal        moneyDTO       `json:"subtotal"`
	TaxRate         string         `json:"taxRate"`
	Tax             moneyDTO       `json:"tax"`
	Total           moneyDTO       `json:"total"`
	MissingProducts []uuid.UUID    `json:"missingProducts,omitempty"`
}

type sessionDTO struct {
	OwnerID    string `json:"ownerId"`
	Anonymous  bool   `json:"anonymous"`
	CartCount  int    `json:"cartCount"`
	Reconciled *struct {
		Merged int `json:"merged"`
		Failed int `json:"failed"`
	} `json:"reconciled,omitempty"`
}

type productDTO struct {
	ID               uuid.UUID              `json:"id"`
	Name             string                 `json:"name"`
	Brand            string                 `json:"brand,omitempty"`
	Model            string                 `json:"model,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Category         string                 `json:"category,omitempty"`
	Price            moneyDTO               `json:"price"`
	Rating           string                 `json:"rating,omitempty"`
	Features         []string               `json:"features,omitempty"`
	Configurations   map[string][]optionDTO `json:"configurations,omitempty"`
	DefaultSelection map[string]string      `json:"defaultSelection,omitempty"`
	Images           []string               `json:"images,omitempty"`
	Specs            map[string]string      `json:"specs,omitempty"`
	CreatedAt        *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time             `json:"updatedAt,omitempty"`
}

type orderItemDTO struct {
	ProductID uuid.UUID         `json:"productId"`
	Name      string            `json:"name"`
	Selection map[string]string `json:"selection,omitempty"`
	Quantity  int               `json:"quantity"`
	UnitPrice moneyDTO          `json:"unitConfiguredPrice"`
	Total     moneyDTO          `json:"total"`
}

type orderDTO struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       string         `json:"ownerId"`
	Items         []orderItemDTO `json:"items"`
	Subtotal      moneyDTO       `json:"subtotal"`
	Tax           moneyDTO       `json:"tax"`
	Total         moneyDTO       `json:"total"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	CustomerName  string         `json:"customerName,omitempty"`
	Email         string         `json:"email,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
}

func moneyToDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount.StringFixed(2), Currency: m.Currency.String()}
}

func moneyPtr(m domain.Money) *moneyDTO {
	dto := moneyToDTO(m)
	return &dto
}

func namesToDTO(sel domain.ConfigSelection) map[string]string {
	return lo.MapEntries(sel.Names(), func(c domain.Category, name string) (string, string) {
		return string(c), name
	})
}

func selectionFromDTO(names map[string]string) domain.ConfigSelection {
	return domain.SelectionFromNames(lo.MapKeys(names, func(_ string, c string) domain.Category {
		return domain.Category(c)
	}))
}

func lineToDTO(l domain.CartLine) lineDTO {
	return lineDTO{
		ID:        l.ID,
		ProductID: l.ProductID,
		Selection: lo.MapEntries(l.Selection, func(c domain.Category, o domain.ConfigOption) (string, optionDTO) {
			return string(c), optionDTO{Name: o.Name, Price: o.Price.StringFixed(2)}
		}),
		Quantity: l.Quantity,
		UnitBase: moneyToDTO(l.UnitBasePrice),
	}
}

func cartToDTO(c domain.Cart) cartDTO {
	entries := lo.Map(c.Entries, func(e domain.CartEntry, _ int) cartEntryDTO {
		dto := cartEntryDTO{Line: lineToDTO(e.Line), Missing: e.Missing}
		if !e.Missing {
			dto.ProductName = e.Product.Name
			dto.Images = e.Product.Images
			dto.UnitPrice = moneyPtr(e.UnitPrice)
			dto.LineTotal = moneyPtr(e.LineTotal)
		}
		return dto
	})

	return cartDTO{
		OwnerID:         c.Owner.Key(),
		Anonymous:       c.Owner.IsAnonymous(),
		Entries:         entries,
		ItemCount:       c.ItemCount,
		Subtotal:        moneyToDTO(c.Subtotal),
		TaxRate:         c.TaxRate.String(),
		Tax:             moneyToDTO(c.Tax),
		Total:           moneyToDTO(c.Total),
		MissingProducts: c.MissingProducts,
	}
}

func sessionToDTO(s session.Context) sessionDTO {
	dto := sessionDTO{
		OwnerID:   s.Owner.Key(),
		Anonymous: s.Owner.IsAnonymous(),
		CartCount: s.CartCount,
	}
	if s.Reconciled != nil {
		dto.Reconciled = &struct {
			Merged int `json:"merged"`
			Failed int `json:"failed"`
		}{Merged: s.Reconciled.Merged, Failed: s.Reconciled.Failed}
	}
	return dto
}

func productToDTO(p domain.Product) productDTO {
	configs := make(map[string][]optionDTO, len(p.Configurations))
	for c, options := range p.Configurations {
		configs[string(c)] = lo.Map(options, func(o domain.ConfigOption, _ int) optionDTO {
			return optionDTO{Name: o.Name, Price: o.Price.StringFixed(2)}
		})
	}

	dto := productDTO{
		ID:               p.ID,
		Name:             p.Name,
		Brand:            p.Brand,
		Model:            p.Model,
		Description:      p.Description,
		Category:         p.Category,
		Price:            moneyToDTO(p.Price),
		Features:         p.Features,
		Configurations:   configs,
		DefaultSelection: namesToDTO(domain.DefaultSelection(p)),
		Images:           p.Images,
		Specs:            p.Specs,
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = &p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = &p.UpdatedAt
	}
	if !p.Rating.IsZero() {
		dto.Rating = p.Rating.String()
	}

	return dto
}

// productFromDTO reads an admin product payload. Option order within a
// category is kept; it decides the default selection.
func productFromDTO(dto productDTO) (domain.Product, error) {
	price, err := decimal.NewFromString(dto.Price.Amount)
	if err != nil {
		return domain.Product{}, err
	}
	cur, err := currency.ParseISO(dto.Price.Currency)
	if err != nil {
		return domain.Product{}, err
	}

	var rating decimal.Decimal
	if dto.Rating != "" {
		if rating, err = decimal.NewFromString(dto.Rating); err != nil {
			return domain.Product{}, err
		}
	}

	configs := make(domain.ConfigCatalog, len(dto.Configurations))
	for c, opts := range dto.Configurations {
		options := make([]domain.ConfigOption, 0, len(opts))
		for _, o := range opts {
			optPrice, err := decimal.NewFromString(o.Price)
			if err != nil {
				return domain.Product{}, err
			}
			options = append(options, domain.ConfigOption{Name: o.Name, Price: optPrice})
		}
		configs[domain.Category(c)] = options
	}

	return domain.Product{
		ID:             dto.ID,
		Name:           dto.Name,
		Brand:          dto.Brand,
		Model:          dto.Model,
		Description:    dto.Description,
		Category:       dto.Category,
		Price:          domain.NewMoney(price, cur),
		Rating:         rating,
		Features:       domain.CompactFeatures(dto.Features),
		Configurations: configs,
		Images:         dto.Images,
		Specs:          dto.Specs,
	}, nil
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:      o.ID,
		OwnerID: o.OwnerID,
		Items: lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemDTO {
			return orderItemDTO{
				ProductID: item.ProductID,
				Name:      item.Name,
				Selection: namesToDTO(item.Selection),
				Quantity:  item.Quantity,
				UnitPrice: moneyToDTO(item.UnitConfiguredPrice),
				Total:     moneyToDTO(item.Total),
			}
		}),
		Subtotal:      moneyToDTO(o.Subtotal),
		Tax:           moneyToDTO(o.Tax),
		Total:         moneyToDTO(o.Total),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/nikolayk812/nexus-cart/internal/port/mocks"
	"github.com/nikolayk812/nexus-cart/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testConfig = Config{
	TaxRate:      decimal.RequireFromString("0.03"),
	Currency:     currency.USD,
	ClearRetries: 2,
	ClearBackoff: time.Millisecond,
}

type deps struct {
	carts    *mocks.MockCartRepository
	local    port.LocalCartStore
	products *mocks.MockProductCatalog
	orders   *mocks.MockOrderRepository
	events   *mocks.MockOrderEventPublisher
}

func newDeps(t *testing.T) deps {
	return deps{
		carts:    mocks.NewMockCartRepository(t),
		local:    repository.NewLocalCartStore(),
		products: mocks.NewMockProductCatalog(t),
		orders:   mocks.NewMockOrderRepository(t),
		events:   mocks.NewMockOrderEventPublisher(t),
	}
}

func newSvc(d deps) *service {
	return NewCartService(d.carts, d.local, d.products, d.orders, d.events, testConfig)
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

func opt(name, price string) domain.ConfigOption {
	return domain.ConfigOption{Name: name, Price: decimal.RequireFromString(price)}
}

// workstation costs 1000.00 with a GPU choice of RTX A (+200.00) or RTX B (+450.00).
func workstation() domain.Product {
	return domain.Product{
		ID:    uuid.New(),
		Name:  "Nexus Workstation",
		Price: usd("1000.00"),
		Configurations: domain.ConfigCatalog{
			domain.CategoryGPU: {opt("RTX A", "200.00"), opt("RTX B", "450.00")},
			domain.CategoryRAM: {opt("16GB", "0"), opt("32GB", "90.00")},
		},
	}
}

func names(pairs ...string) domain.ConfigSelection {
	m := make(map[domain.Category]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[domain.Category(pairs[i])] = pairs[i+1]
	}
	return domain.SelectionFromNames(m)
}

func storedLine(owner string, p domain.Product, sel domain.ConfigSelection, qty int) domain.CartLine {
	resolved, err := sel.Resolve(p)
	if err != nil {
		panic(err)
	}
	return domain.CartLine{
		ID:            uuid.New(),
		OwnerID:       owner,
		ProductID:     p.ID,
		Selection:     resolved,
		Fingerprint:   resolved.Fingerprint(),
		Quantity:      qty,
		UnitBasePrice: p.Price,
	}
}

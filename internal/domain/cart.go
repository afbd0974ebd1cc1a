package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// localLineNamespace derives stable identifiers for anonymous lines, which
// are never assigned one by a store.
var localLineNamespace = uuid.MustParse("5f0c4a0e-8d7b-4c39-9a53-2b9f6f1d7c11")

type CartLine struct {
	ID          uuid.UUID
	OwnerID     string
	ProductID   uuid.UUID
	Selection   ConfigSelection
	Fingerprint string
	Quantity    int

	// UnitBasePrice is the product price captured when the line was created.
	UnitBasePrice Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l CartLine) UnitPrice() Money {
	return SelectionUnitPrice(l.UnitBasePrice, l.Selection)
}

func (l CartLine) Total() Money {
	return LineTotal(l.UnitPrice(), l.Quantity)
}

// LocalCartEntry is one entry of an anonymous cart.
type LocalCartEntry struct {
	ProductID uuid.UUID
	Selection ConfigSelection
	Quantity  int
}

func (e LocalCartEntry) LineID() uuid.UUID {
	return LocalLineID(e.ProductID, e.Selection.Fingerprint())
}

func LocalLineID(productID uuid.UUID, fingerprint string) uuid.UUID {
	return uuid.NewSHA1(localLineNamespace, []byte(productID.String()+"/"+fingerprint))
}

// MaxQuantity bounds a quantity or a quantity change in one request.
const MaxQuantity = 10_000

func ValidateQuantityDelta(delta int) error {
	if delta < -MaxQuantity || delta > MaxQuantity {
		return fmt.Errorf("%w: quantity change %d is outside [-%d, %d]", ErrValidation, delta, MaxQuantity, MaxQuantity)
	}
	return nil
}

type UpsertLineParams struct {
	OwnerID       string
	ProductID     uuid.UUID
	Selection     ConfigSelection
	UnitBasePrice Money
	Delta         int
}

type UpsertOutcome string

const (
	UpsertCreated UpsertOutcome = "created"
	UpsertUpdated UpsertOutcome = "updated"
	UpsertDeleted UpsertOutcome = "deleted"
	UpsertNoop    UpsertOutcome = "noop"
)

// UpsertResult carries the line as it is after the upsert. For a deleted
// line Quantity is zero.
type UpsertResult struct {
	Line    CartLine
	Outcome UpsertOutcome
}

type CartEntry struct {
	Line    CartLine
	Product *Product
	// Missing is set when the referenced product no longer exists; the
	// entry is then excluded from totals.
	Missing bool

	UnitPrice Money
	LineTotal Money
}

type Cart struct {
	Owner   Owner
	Entries []CartEntry

	Subtotal Money
	Tax      Money
	Total    Money
	TaxRate  decimal.Decimal

	ItemCount int
	// MissingProducts lists product IDs referenced by lines but not found.
	MissingProducts []uuid.UUID
	// DuplicateLines lists lines sharing identity with an earlier line.
	DuplicateLines []uuid.UUID
}

func (c Cart) IsEmpty() bool {
	for _, e := range c.Entries {
		if !e.Missing {
			return false
		}
	}
	return true
}

// BuildCart joins lines to products and computes totals. Lines whose product
// is unknown are flagged and skipped; duplicate identities are summed.
func BuildCart(
	owner Owner,
	lines []CartLine,
	products map[uuid.UUID]Product,
	taxRate decimal.Decimal,
	cur currency.Unit,
) (Cart, error) {
	cart := Cart{
		Owner:    owner,
		Entries:  make([]CartEntry, 0, len(lines)),
		Subtotal: ZeroMoney(cur),
		TaxRate:  taxRate,
	}

	seen := make(map[string]struct{}, len(lines))
	missing := make(map[uuid.UUID]struct{})

	for _, line := range lines {
		key := line.ProductID.String() + "/" + line.Selection.Fingerprint()
		if _, ok := seen[key]; ok {
			cart.DuplicateLines = append(cart.DuplicateLines, line.ID)
		}
		seen[key] = struct{}{}

		product, ok := products[line.ProductID]
		if !ok {
			cart.Entries = append(cart.Entries, CartEntry{Line: line, Missing: true})
			if _, dup := missing[line.ProductID]; !dup {
				missing[line.ProductID] = struct{}{}
				cart.MissingProducts = append(cart.MissingProducts, line.ProductID)
			}
			continue
		}

		unit := line.UnitPrice()
		total := LineTotal(unit, line.Quantity)

		subtotal, err := cart.Subtotal.Add(total)
		if err != nil {
			return Cart{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		cart.Subtotal = subtotal
		cart.ItemCount += line.Quantity

		p := product
		cart.Entries = append(cart.Entries, CartEntry{
			Line:      line,
			Product:   &p,
			UnitPrice: unit,
			LineTotal: total,
		})
	}

	cart.Tax = cart.Subtotal.MulRate(taxRate)
	cart.Total = cart.Subtotal.AddAmount(cart.Tax.Amount)

	return cart, nil
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ConfigSelection maps a category to the chosen option. A missing key means
// nothing is selected on that axis.
type ConfigSelection map[Category]ConfigOption

// Equal compares selections by option name only; the price is derived from
// the catalog and is not part of a line's identity.
func (s ConfigSelection) Equal(other ConfigSelection) bool {
	if len(s) != len(other) {
		return false
	}

	for category, opt := range s {
		o, ok := other[category]
		if !ok || o.Name != opt.Name {
			return false
		}
	}

	return true
}

// Canonical renders the selection as category=name pairs sorted by category.
func (s ConfigSelection) Canonical() string {
	categories := make([]string, 0, len(s))
	for category := range s {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	var b strings.Builder
	for i, category := range categories {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(category)
		b.WriteByte('=')
		b.WriteString(s[Category(category)].Name)
	}

	return b.String()
}

// Fingerprint is the order-independent identity of a selection. Selections
// that are Equal always share a fingerprint.
func (s ConfigSelection) Fingerprint() string {
	sum := sha256.Sum256([]byte(s.Canonical()))
	return hex.EncodeToString(sum[:])
}

func (s ConfigSelection) Names() map[Category]string {
	names := make(map[Category]string, len(s))
	for category, opt := range s {
		names[category] = opt.Name
	}
	return names
}

// Resolve checks every chosen option against the product catalog and returns
// a copy carrying the catalog prices.
func (s ConfigSelection) Resolve(p Product) (ConfigSelection, error) {
	resolved := make(ConfigSelection, len(s))

	for category, chosen := range s {
		if _, ok := p.Configurations[category]; !ok {
			return nil, fmt.Errorf("%w: product %s has no %s options", ErrInvalidSelection, p.ID, category)
		}

		opt, ok := p.Configurations.Option(category, chosen.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown %s option %q", ErrInvalidSelection, category, chosen.Name)
		}
		resolved[category] = opt
	}

	return resolved, nil
}

// SelectionFromNames builds a selection from category->option name pairs,
// as submitted by a client. Empty names are treated as "none selected".
func SelectionFromNames(names map[Category]string) ConfigSelection {
	sel := make(ConfigSelection, len(names))
	for category, name := range names {
		if name == "" {
			continue
		}
		sel[category] = ConfigOption{Name: name}
	}
	return sel
}

// DefaultSelection picks the first option of every customizable category.
func DefaultSelection(p Product) ConfigSelection {
	sel := make(ConfigSelection, len(p.Configurations))
	for category, options := range p.Configurations {
		if len(options) == 0 {
			continue
		}
		sel[category] = options[0]
	}
	return sel
}

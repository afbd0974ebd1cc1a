package domain

// LineUnitPrice is the product base price plus the price of every selected
// option whose category the product actually offers.
func LineUnitPrice(p Product, sel ConfigSelection) Money {
	unit := p.Price
	if len(p.Configurations) == 0 {
		return unit
	}

	for category := range p.Configurations {
		opt, ok := sel[category]
		if !ok {
			continue
		}
		unit = unit.AddAmount(opt.Price)
	}

	return unit
}

// SelectionUnitPrice prices a stored line from its frozen base and option prices.
func SelectionUnitPrice(base Money, sel ConfigSelection) Money {
	unit := base
	for _, opt := range sel {
		unit = unit.AddAmount(opt.Price)
	}
	return unit
}

func LineTotal(unit Money, quantity int) Money {
	return unit.Mul(quantity)
}

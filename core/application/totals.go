package application

// Derived totals are computed on demand from the draft, never stored on it.
// Missing numeric fields are zero-valued and therefore contribute nothing.

// TotalAssets sums the present values of fixed properties and vehicles plus
// the jewellery, furniture & fittings and equipment figures.
func (d *Draft) TotalAssets() float64 {
	var total float64
	for _, fp := range d.FixedProperties {
		total += fp.PresentValue
	}
	for _, v := range d.Vehicles {
		total += v.PresentValue
	}
	total += d.JewelleryValue
	total += d.FurnitureAndFittingsValue
	total += d.EquipmentValue
	return total
}

// TotalLiabilities sums overdrafts, unsecured loans, credit card debts,
// income tax debts and contingent liabilities.
func (d *Draft) TotalLiabilities() float64 {
	return d.Overdrafts +
		d.UnsecuredLoans +
		d.CreditCardDebts +
		d.IncomeTaxDebts +
		d.ContingentLiabilities
}

// NetWorth is assets minus liabilities; it may be negative, no clamping.
func (d *Draft) NetWorth() float64 {
	return d.TotalAssets() - d.TotalLiabilities()
}

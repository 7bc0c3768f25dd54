package inventory

import "github.com/shopspring/decimal"

// CostPrecision is the number of decimal places kept for unit costs
const CostPrecision = 4

// CostUpdate is the result of folding a purchase into a product's cost
type CostUpdate struct {
	AverageCost decimal.Decimal
	LastCost    decimal.Decimal
}

// WeightedAverageCost folds an incoming purchase of quantity at unitCost into
// the running average over the product's total stock across all stores.
//
// When the resulting stock is not positive the average collapses to
// unitCost. A negative stock only exists in legacy data and counts as zero.
func WeightedAverageCost(stock, averageCost, quantity, unitCost decimal.Decimal) CostUpdate {
	if stock.IsNegative() {
		stock = decimal.Zero
	}

	newStock := stock.Add(quantity)
	if !newStock.IsPositive() {
		return CostUpdate{AverageCost: unitCost, LastCost: unitCost}
	}

	totalValue := stock.Mul(averageCost).Add(quantity.Mul(unitCost))
	return CostUpdate{
		AverageCost: totalValue.Div(newStock).Round(CostPrecision),
		LastCost:    unitCost,
	}
}

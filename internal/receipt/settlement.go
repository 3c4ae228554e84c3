package receipt

import "github.com/shopspring/decimal"

// Settlement is the final monetary breakdown of a fully confirmed receipt
type Settlement struct {
	Total           decimal.Decimal
	DiscountApplied decimal.Decimal
	PersonalTotal   decimal.Decimal
	OwedByOther     decimal.Decimal
}

// ComputeSettlement derives the settlement from the confirmed and personal
// items. The other party owes half of the shared portion, rounded to two
// decimal places half away from zero. No clamping: a discount larger than the
// total, or personal items exceeding the total, produce a negative result and
// that is reported as-is.
func ComputeSettlement(confirmed, personal []Product, discount decimal.Decimal) Settlement {
	total := sumPrices(confirmed).Sub(discount)
	personalTotal := sumPrices(personal)
	shared := total.Sub(personalTotal)

	return Settlement{
		Total:           total,
		DiscountApplied: discount,
		PersonalTotal:   personalTotal,
		OwedByOther:     shared.DivRound(decimal.NewFromInt(2), 2),
	}
}

func sumPrices(products []Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Price)
	}
	return sum
}

// Package calculator derives the monetary summary fields shown on insurance entries.
//
// Every input is optional and counts as zero when absent. The functions are total:
// they never fail and a negative result (overpayment or shortfall) is a valid answer.
// Results are never persisted; callers recompute them whenever an entry is read.
package calculator

import "github.com/shopspring/decimal"

// Amount returns the value of an optional amount, zero when absent.
func Amount(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// Balance is the general outstanding-balance form shared by GIC and BMDS entries:
// premiumOrQuotation - advance - excess + recovery.
func Balance(premiumOrQuotation, advance, excess, recovery decimal.NullDecimal) decimal.Decimal {
	return Amount(premiumOrQuotation).
		Sub(Amount(advance)).
		Sub(Amount(excess)).
		Add(Amount(recovery))
}

// GICBalance returns premium - advance + recovery. GIC entries carry no excess.
func GICBalance(premium, advance, recovery decimal.NullDecimal) decimal.Decimal {
	return Balance(premium, advance, decimal.NullDecimal{}, recovery)
}

// BMDSBalance returns quotation - advance - excess + recovery.
func BMDSBalance(quotation, advance, excess, recovery decimal.NullDecimal) decimal.Decimal {
	return Balance(quotation, advance, excess, recovery)
}

// RTONewAmount returns premium + govFee + expense - recovery.
// This is not a balance: RTO paperwork adds government fee and expense on top of
// the premium and subtracts what was recovered.
func RTONewAmount(premium, govFee, expense, recovery decimal.NullDecimal) decimal.Decimal {
	return Amount(premium).
		Add(Amount(govFee)).
		Add(Amount(expense)).
		Sub(Amount(recovery))
}

// Sum adds a list of decimals. Used for profile and dashboard totals.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

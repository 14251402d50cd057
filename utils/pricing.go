package utils

import (
	"sort"

	"github.com/shopspring/decimal"
)

var decimalOneHundred = decimal.NewFromInt(100)

// LineInput is one billable line as entered by the operator. Amounts are
// computed from it, never stored on it, so the same inputs can drive both
// the live on-screen totals and the persisted invoice.
type LineInput struct {
	ProductId       int
	ProductName     string
	Qty             int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

type LineAmounts struct {
	Base           decimal.Decimal
	DiscountAmount decimal.Decimal
	Taxable        decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

// TaxBucket is the summed tax amount for one distinct tax rate across all
// lines of an invoice.
type TaxBucket struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

type InvoiceTotals struct {
	Subtotal       decimal.Decimal
	TaxBuckets     []TaxBucket
	TaxTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
}

func validateLine(line *LineInput) error {
	if line == nil {
		return NewValidationError("line", "line is required")
	}
	if line.ProductName == "" {
		return NewValidationError("product_name", "product name is required")
	}
	if line.Qty <= 0 {
		return NewValidationError("qty", "quantity must be a positive integer")
	}
	if line.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "unit price must not be negative")
	}
	if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(decimalOneHundred) {
		return NewValidationError("discount_percent", "discount percent must be between 0 and 100")
	}
	if line.TaxPercent.IsNegative() {
		return NewValidationError("tax_percent", "tax percent must not be negative")
	}
	return nil
}

// CalculateLineAmounts computes one line's amounts:
// base = unit_price * qty, taxable = base - base*discount/100,
// tax = taxable*tax_rate/100, line total = taxable + tax.
func CalculateLineAmounts(line *LineInput) (*LineAmounts, error) {
	if err := validateLine(line); err != nil {
		return nil, err
	}

	base := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
	discountAmount := base.Mul(line.DiscountPercent).DivRound(decimalOneHundred, 4)
	taxable := base.Sub(discountAmount)
	taxAmount := taxable.Mul(line.TaxPercent).DivRound(decimalOneHundred, 4)

	return &LineAmounts{
		Base:           base,
		DiscountAmount: discountAmount,
		Taxable:        taxable,
		TaxAmount:      taxAmount,
		LineTotal:      taxable.Add(taxAmount),
	}, nil
}

// CalculateInvoiceTotals aggregates line amounts into invoice totals.
// Tax amounts are grouped by rate value and are computed from the item-level
// taxable amounts only: the invoice-level discount reduces the subtotal
// component of the final total but does NOT reduce tax. Existing invoices
// were priced this way, so the asymmetry is a compatibility contract.
//
// It fails on the first invalid line with no partial result.
func CalculateInvoiceTotals(lines []*LineInput, invoiceDiscountPercent decimal.Decimal) (*InvoiceTotals, error) {
	if len(lines) == 0 {
		return nil, NewValidationError("items", "invoice must contain at least one item")
	}
	if invoiceDiscountPercent.IsNegative() || invoiceDiscountPercent.GreaterThan(decimalOneHundred) {
		return nil, NewValidationError("discount_percent", "invoice discount percent must be between 0 and 100")
	}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	buckets := make(map[string]*TaxBucket)

	for _, line := range lines {
		amounts, err := CalculateLineAmounts(line)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(amounts.Taxable)
		taxTotal = taxTotal.Add(amounts.TaxAmount)

		if line.TaxPercent.IsZero() {
			continue
		}
		key := line.TaxPercent.String()
		if bucket, ok := buckets[key]; ok {
			bucket.Amount = bucket.Amount.Add(amounts.TaxAmount)
		} else {
			buckets[key] = &TaxBucket{Rate: line.TaxPercent, Amount: amounts.TaxAmount}
		}
	}

	taxBuckets := make([]TaxBucket, 0, len(buckets))
	for _, bucket := range buckets {
		taxBuckets = append(taxBuckets, *bucket)
	}
	sort.Slice(taxBuckets, func(i, j int) bool {
		return taxBuckets[i].Rate.LessThan(taxBuckets[j].Rate)
	})

	discountAmount := subtotal.Mul(invoiceDiscountPercent).DivRound(decimalOneHundred, 4)

	return &InvoiceTotals{
		Subtotal:       subtotal,
		TaxBuckets:     taxBuckets,
		TaxTotal:       taxTotal,
		DiscountAmount: discountAmount,
		FinalTotal:     subtotal.Add(taxTotal).Sub(discountAmount),
	}, nil
}
